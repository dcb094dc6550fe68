package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron        *cron.Cron
	revocations *RevocationService
}

// NewCronService creates a cron service that purges expired revocation
// entries on the given schedule (standard cron syntax or descriptors such as
// "@hourly")
func NewCronService(revocations *RevocationService, purgeSpec string) (*CronService, error) {
	s := &CronService{
		cron:        cron.New(),
		revocations: revocations,
	}

	if _, err := s.cron.AddFunc(purgeSpec, s.PurgeRevokedTokens); err != nil {
		return nil, err
	}
	return s, nil
}

// Start starts the scheduler in its own goroutine
func (s *CronService) Start() {
	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop stops the scheduler and waits for a running job
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

// PurgeRevokedTokens deletes revocation entries past their expiry
func (s *CronService) PurgeRevokedTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.revocations.PurgeExpired(ctx)
	if err != nil {
		log.Printf("❌ Revoked token purge error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("✅ Purged %d expired revoked tokens", n)
	}
}
