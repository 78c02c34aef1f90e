package services

import (
	"context"
	"log"
	"time"

	"bookstore-api/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewCronService creates a cron service; jobs are registered on Start
func NewCronService(refreshTokenRepo repositories.RefreshTokenRepository) *CronService {
	return &CronService{
		cron:             cron.New(),
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Start schedules the refresh token cleanup with a standard 5-field spec
func (s *CronService) Start(tokenCleanupSpec string) error {
	if _, err := s.cron.AddFunc(tokenCleanupSpec, s.PurgeExpiredTokens); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("🚀 CronService started [token cleanup: %s]", tokenCleanupSpec)
	return nil
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

// PurgeExpiredTokens deletes refresh tokens past their expiry
func (s *CronService) PurgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Token cleanup error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("🗑️ Purged %d expired refresh tokens", n)
	}
}
