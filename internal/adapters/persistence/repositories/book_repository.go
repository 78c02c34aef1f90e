package repositories

import (
	"context"

	"bookstore-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// bookRepository implements BookRepository interface
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create creates a new book
func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// GetByID gets a book by ID
func (r *bookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByName gets the oldest book with an exact name
func (r *bookRepository) GetByName(ctx context.Context, name string) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FirstOrCreateByName returns the oldest book with name, creating it when absent
func (r *bookRepository) FirstOrCreateByName(ctx context.Context, name string) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Where(models.Book{Name: name}).
		FirstOrCreate(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Update updates a book
func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

// Delete deletes a book and reports the affected row count
func (r *bookRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Book{}, id)
	return result.RowsAffected, result.Error
}

// List lists books with pagination
func (r *bookRepository) List(ctx context.Context, offset, limit int) ([]*models.Book, int64, error) {
	var books []*models.Book
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&books).Error; err != nil {
		return nil, 0, err
	}

	return books, total, nil
}
