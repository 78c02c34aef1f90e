package repositories

import (
	"context"

	"bookstore-api/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

// BookRepository defines book catalog repository interface
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	GetByName(ctx context.Context, name string) (*models.Book, error)
	FirstOrCreateByName(ctx context.Context, name string) (*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uint) (int64, error)
	List(ctx context.Context, offset, limit int) ([]*models.Book, int64, error)
}

// BorrowRepository defines the lending ledger repository interface
type BorrowRepository interface {
	Create(ctx context.Context, record *models.BorrowedBook) error
	ListBooksByUserID(ctx context.Context, userID uint) ([]*models.Book, error)
	DeleteByUserAndBook(ctx context.Context, userID, bookID uint) (int64, error)
	CountByBookID(ctx context.Context, bookID uint) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// Store groups the repositories that take part in one unit of work.
// Repositories returned from a Store passed to Transaction share its transaction.
type Store interface {
	Users() UserRepository
	Books() BookRepository
	Borrows() BorrowRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
