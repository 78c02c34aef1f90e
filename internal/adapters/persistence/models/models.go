package models

import (
	"time"

	"bookstore-api/internal/core/domain"

	"gorm.io/gorm"
)

// User represents users table
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Email          string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	HashedPassword string         `gorm:"size:255;not null" json:"-"`
	FirstName      string         `gorm:"size:100" json:"first_name"`
	LastName       string         `gorm:"size:100" json:"last_name"`
	Role           string         `gorm:"size:20;default:'customer'" json:"role"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) ToDomain() *domain.User {
	return &domain.User{
		ID:             u.ID,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           domain.Role(u.Role),
		CreatedAt:      u.CreatedAt,
	}
}

// Book represents books table.
// Name is indexed but not unique; find-or-create treats it as a lookup key.
type Book struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null;index" json:"name"`
}

func (Book) TableName() string {
	return "books"
}

func (b *Book) ToDomain() domain.Book {
	return domain.Book{ID: b.ID, Name: b.Name}
}

// BorrowedBook represents borrowed_books table.
// (user_id, book_id) is deliberately not unique.
type BorrowedBook struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index:idx_borrowed_user_book,priority:1" json:"user_id"`
	BookID uint `gorm:"not null;index:idx_borrowed_user_book,priority:2;index" json:"book_id"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Book *Book `gorm:"foreignKey:BookID" json:"-"`
}

func (BorrowedBook) TableName() string {
	return "borrowed_books"
}

func (b *BorrowedBook) ToDomain() *domain.BorrowRecord {
	return &domain.BorrowRecord{ID: b.ID, UserID: b.UserID, BookID: b.BookID}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// AutoMigrate creates the bookstore tables if they do not exist
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Book{},
		&BorrowedBook{},
		&RefreshToken{},
	)
}
