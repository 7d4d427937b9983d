package service

import (
	"context"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/repository"
)

type GenerateOptions struct {
	// Now is the generation instant; zero means the service clock.
	Now time.Time
	// Persist loads the stored calendar as history and syncs the result back.
	// Without it the store is neither read nor written.
	Persist bool
}

type GenerateResult struct {
	Result domain.SchedulingResult
	Sync   repository.SyncResult
	// Run is nil when nothing was persisted.
	Run *domain.GenerationRun
}

type CalendarService interface {
	Generate(ctx context.Context, in domain.CalendarGenerationInput, opts GenerateOptions) (*GenerateResult, error)
	Calendar(ctx context.Context, userID string, from, to time.Time) ([]domain.SimpleEvent, error)
	History(ctx context.Context, userID string, limit int) ([]domain.GenerationRun, error)
	Reset(ctx context.Context, userID string) (int, error)
}
