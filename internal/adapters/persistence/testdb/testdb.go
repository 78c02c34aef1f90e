// Package testdb opens throwaway in-memory SQLite databases with the
// bookstore schema for repository, service and HTTP tests.
package testdb

import (
	"fmt"
	"testing"

	"bookstore-api/internal/adapters/persistence/models"
	"bookstore-api/internal/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// New returns a migrated database that lives until the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := config.OpenDatabase(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = config.CloseDatabase(db) })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// CreateUser inserts a customer with the given email.
func CreateUser(t testing.TB, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:          email,
		HashedPassword: "x",
		FirstName:      "Test",
		LastName:       "User",
		Role:           "customer",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateBook inserts a book with the given name.
func CreateBook(t testing.TB, db *gorm.DB, name string) *models.Book {
	t.Helper()

	book := &models.Book{Name: name}
	if err := db.Create(book).Error; err != nil {
		t.Fatalf("create book: %v", err)
	}
	return book
}
