package config

import (
	"context"
	"fmt"
	"log"
	"strings"

	"bookstore-api/internal/adapters/persistence/models"
	"bookstore-api/internal/adapters/persistence/repositories"
	"bookstore-api/internal/core/domain"
	"bookstore-api/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	users repositories.UserRepository
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{users: repositories.NewUserRepository(db)}
}

// SeedAdmin creates the first admin account.
// It does nothing and returns false when an admin already exists.
func (s *Seeder) SeedAdmin(ctx context.Context, email, plain string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return false, fmt.Errorf("%w: a valid email is required", domain.ErrInvalidInput)
	}
	if err := password.Validate(plain); err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	count, err := s.users.CountByRole(ctx, string(domain.RoleAdmin))
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		log.Println("ℹ️ Admin already exists, skipping seed")
		return false, nil
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if exists {
		return false, domain.ErrUserAlreadyExists
	}

	hashedPassword, err := password.Hash(plain)
	if err != nil {
		return false, err
	}

	admin := &models.User{
		Email:          email,
		HashedPassword: hashedPassword,
		FirstName:      "Admin",
		Role:           string(domain.RoleAdmin),
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}

	log.Printf("✅ Admin user seeded: %s", admin.Email)
	return true, nil
}
