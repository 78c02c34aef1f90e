package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLibrarian Role = "librarian"
	RoleCustomer  Role = "customer"
)

// ParseRole validates a role name
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleLibrarian, RoleCustomer:
		return r, nil
	}
	return "", ErrInvalidRole
}

// CanManageCatalog reports whether the role may change books and other users' loans
func (r Role) CanManageCatalog() bool {
	return r == RoleAdmin || r == RoleLibrarian
}

// User represents a user in the domain layer
type User struct {
	ID             uint
	Email          string
	HashedPassword string
	FirstName      string
	LastName       string
	Role           Role
	CreatedAt      time.Time
}

// Book represents a catalog entry
type Book struct {
	ID   uint
	Name string
}

// BorrowRecord is one active loan of one book to one user.
// It has no update path; a return deletes it.
type BorrowRecord struct {
	ID     uint
	UserID uint
	BookID uint
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
