package handlers

import (
	"time"

	"bookstore-api/internal/core/domain"
)

// BorrowRecordResponse is a created borrow record
type BorrowRecordResponse struct {
	ID     uint `json:"id"`
	UserID uint `json:"user_id"`
	BookID uint `json:"book_id"`
}

func toBorrowRecordResponse(r *domain.BorrowRecord) BorrowRecordResponse {
	return BorrowRecordResponse{ID: r.ID, UserID: r.UserID, BookID: r.BookID}
}

// BorrowedBookInfo is one entry of a user's borrowed books
type BorrowedBookInfo struct {
	BookID uint   `json:"book_id"`
	Name   string `json:"name"`
}

// BookResponse is a catalog entry
type BookResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func toBookResponse(b domain.Book) BookResponse {
	return BookResponse{ID: b.ID, Name: b.Name}
}

// UserResponse is a user without credentials
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
