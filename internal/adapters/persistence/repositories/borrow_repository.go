package repositories

import (
	"context"

	"bookstore-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// borrowRepository implements BorrowRepository interface
type borrowRepository struct {
	db *gorm.DB
}

// NewBorrowRepository creates a new borrow repository
func NewBorrowRepository(db *gorm.DB) BorrowRepository {
	return &borrowRepository{db: db}
}

// Create inserts a borrow record
func (r *borrowRepository) Create(ctx context.Context, record *models.BorrowedBook) error {
	return r.db.WithContext(ctx).Omit("User", "Book").Create(record).Error
}

// ListBooksByUserID returns each book the user holds once, ordered by its first borrow
func (r *borrowRepository) ListBooksByUserID(ctx context.Context, userID uint) ([]*models.Book, error) {
	books := make([]*models.Book, 0)
	err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Select("books.id, books.name").
		Joins("JOIN borrowed_books ON borrowed_books.book_id = books.id").
		Where("borrowed_books.user_id = ?", userID).
		Group("books.id, books.name").
		Order("MIN(borrowed_books.id)").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// DeleteByUserAndBook deletes every record matching the pair
func (r *borrowRepository) DeleteByUserAndBook(ctx context.Context, userID, bookID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.BorrowedBook{})
	return result.RowsAffected, result.Error
}

// CountByBookID counts active loans of a book
func (r *borrowRepository) CountByBookID(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BorrowedBook{}).
		Where("book_id = ?", bookID).
		Count(&count).Error
	return count, err
}
