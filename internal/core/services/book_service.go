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

// BookService handles the book catalog
type BookService struct {
	store repositories.Store
}

// NewBookService creates a new book service
func NewBookService(store repositories.Store) *BookService {
	return &BookService{store: store}
}

// Create adds a book to the catalog
func (s *BookService) Create(ctx context.Context, input CreateBookInput) (*domain.Book, error) {
	name := input.Name
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: book name is required", domain.ErrInvalidInput)
	}

	book := &models.Book{Name: name}
	if err := s.store.Books().Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	log.Printf("✅ Book created: %s (%d)", book.Name, book.ID)
	b := book.ToDomain()
	return &b, nil
}

// GetByID gets a book by ID
func (s *BookService) GetByID(ctx context.Context, id uint) (*domain.Book, error) {
	book, err := s.store.Books().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	b := book.ToDomain()
	return &b, nil
}

// FindByName gets the first book with exactly this name
func (s *BookService) FindByName(ctx context.Context, name string) (*domain.Book, error) {
	book, err := s.store.Books().GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	b := book.ToDomain()
	return &b, nil
}

// List lists books with pagination
func (s *BookService) List(ctx context.Context, offset, limit int) ([]domain.Book, int64, error) {
	rows, total, err := s.store.Books().List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	books := make([]domain.Book, len(rows))
	for i, row := range rows {
		books[i] = row.ToDomain()
	}
	return books, total, nil
}

// Update applies the fields present in input
func (s *BookService) Update(ctx context.Context, id uint, input UpdateBookInput) (*domain.Book, error) {
	var book *models.Book
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		var err error
		book, err = tx.Books().GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return err
		}

		if input.Name != nil {
			name := *input.Name
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("%w: book name cannot be empty", domain.ErrInvalidInput)
			}
			book.Name = name
		}

		return tx.Books().Update(ctx, book)
	})
	if err != nil {
		return nil, err
	}

	b := book.ToDomain()
	return &b, nil
}

// Delete removes a book that nobody is borrowing and returns it
func (s *BookService) Delete(ctx context.Context, id uint) (*domain.Book, error) {
	var book *models.Book
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		var err error
		book, err = tx.Books().GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookNotFound
			}
			return err
		}

		loans, err := tx.Borrows().CountByBookID(ctx, id)
		if err != nil {
			return err
		}
		if loans > 0 {
			return domain.ErrBookOnLoan
		}

		affected, err := tx.Books().Delete(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return domain.ErrBookOnLoan
			}
			return err
		}
		if affected == 0 {
			return domain.ErrBookNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🗑️ Book deleted: %s (%d)", book.Name, book.ID)
	b := book.ToDomain()
	return &b, nil
}
