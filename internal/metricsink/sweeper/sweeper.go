package sweeper

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/docqa-labs/docqa-backend/internal/metricsink/repository"
)

// Sweeper prunes index-set entries left behind after their TTL'd record keys
// expire. Runs nightly.
type Sweeper struct {
	repo *repository.MetricsRepository
}

func New(repo *repository.MetricsRepository) *Sweeper {
	return &Sweeper{repo: repo}
}

// Start initializes the cron task
func (s *Sweeper) Start() {
	c := cron.New(cron.WithSeconds())

	// nightly at 12:00 AM
	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.runOnce()
	})
	if err != nil {
		log.Printf("Failed to create sweep cron job: %v", err)
		return
	}

	log.Println("Metrics sweeper started (running nightly at 12:00AM)")
	c.Start()
}

func (s *Sweeper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pruned, err := s.repo.Sweep(ctx)
	if err != nil {
		log.Printf("Metrics sweep failed: %v", err)
		return
	}
	log.Printf("Metrics sweep done, pruned %d stale index entries", pruned)
}
