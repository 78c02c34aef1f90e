package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"bookstore-api/internal/adapters/persistence/models"
	"bookstore-api/internal/adapters/persistence/repositories"
	"bookstore-api/internal/core/domain"

	"gorm.io/gorm"
)

// LendingService maintains the ledger of active borrow records.
//
// A user may hold several records for the same book; returning a book
// removes every record of that (user, book) pair.
type LendingService struct {
	store     repositories.Store
	nameLocks *keyedMutex
}

// NewLendingService creates a new lending service
func NewLendingService(store repositories.Store) *LendingService {
	return &LendingService{
		store:     store,
		nameLocks: newKeyedMutex(),
	}
}

// Borrow records a loan of bookID to userID.
// Both must exist; a repeated borrow of the same pair creates another record.
func (s *LendingService) Borrow(ctx context.Context, userID, bookID uint) (record *domain.BorrowRecord, err error) {
	defer func() { observe("borrow", err) }()

	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := ensureUser(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := tx.Books().GetByID(ctx, bookID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return fmt.Errorf("load book %d: %w", bookID, err)
		}

		record, err = insertBorrow(ctx, tx, userID, bookID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📚 Book %d borrowed by user %d (record %d)", bookID, userID, record.ID)
	return record, nil
}

// BorrowByBookName borrows the book called input.Name, creating it in the
// catalog first when no book has that name. Calls for the same name are
// serialized so concurrent requests cannot create duplicate books.
func (s *LendingService) BorrowByBookName(ctx context.Context, userID uint, input CreateBookInput) (record *domain.BorrowRecord, book *domain.Book, err error) {
	defer func() { observe("borrow_by_name", err) }()

	name := input.Name
	if strings.TrimSpace(name) == "" {
		return nil, nil, fmt.Errorf("%w: book name is required", domain.ErrInvalidInput)
	}

	unlock := s.nameLocks.Lock(name)
	defer unlock()

	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := ensureUser(ctx, tx, userID); err != nil {
			return err
		}

		m, err := tx.Books().FirstOrCreateByName(ctx, name)
		if err != nil {
			return fmt.Errorf("find or create book %q: %w", name, err)
		}
		b := m.ToDomain()
		book = &b

		record, err = insertBorrow(ctx, tx, userID, book.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	log.Printf("📚 Book %q (%d) borrowed by user %d (record %d)", book.Name, book.ID, userID, record.ID)
	return record, book, nil
}

// ListBorrowed returns each book currently held by userID once, in order of
// first borrow. A user without loans gets an empty slice.
func (s *LendingService) ListBorrowed(ctx context.Context, userID uint) (books []domain.Book, err error) {
	defer func() { observe("list", err) }()

	rows, err := s.store.Borrows().ListBooksByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list borrowed books of user %d: %w", userID, err)
	}

	books = make([]domain.Book, len(rows))
	for i, row := range rows {
		books[i] = row.ToDomain()
	}
	return books, nil
}

// ReturnBook deletes every borrow record of the (userID, bookID) pair.
// It reports false, with no error, when there was nothing to return.
func (s *LendingService) ReturnBook(ctx context.Context, userID, bookID uint) (returned bool, err error) {
	defer func() { observe("return", err) }()

	affected, err := s.store.Borrows().DeleteByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return false, fmt.Errorf("return book %d of user %d: %w", bookID, userID, err)
	}

	if affected > 0 {
		log.Printf("📗 Book %d returned by user %d (%d record(s))", bookID, userID, affected)
	}
	return affected > 0, nil
}

func ensureUser(ctx context.Context, tx repositories.Store, userID uint) error {
	if _, err := tx.Users().GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("load user %d: %w", userID, err)
	}
	return nil
}

func insertBorrow(ctx context.Context, tx repositories.Store, userID, bookID uint) (*domain.BorrowRecord, error) {
	row := &models.BorrowedBook{UserID: userID, BookID: bookID}
	if err := tx.Borrows().Create(ctx, row); err != nil {
		// Users are soft-deleted, so a dangling reference can only be the book
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("insert borrow record: %w", err)
	}
	return row.ToDomain(), nil
}
