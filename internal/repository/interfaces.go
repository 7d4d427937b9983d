package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
)

// SyncResult counts the writes one Sync performed.
type SyncResult struct {
	Created   int
	Updated   int
	Deleted   int
	Unchanged int
}

// Changed reports whether the sync wrote anything.
func (r SyncResult) Changed() bool {
	return r.Created+r.Updated+r.Deleted > 0
}

type EventRepo interface {
	ListByUser(ctx context.Context, userID string) ([]domain.SimpleEvent, error)
	ListBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.SimpleEvent, error)
	GetByID(ctx context.Context, userID, id string) (*domain.SimpleEvent, error)
	// Sync makes the stored calendar of userID equal to events.
	Sync(ctx context.Context, userID string, events []domain.SimpleEvent) (SyncResult, error)
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

type RunRepo interface {
	Create(ctx context.Context, r *domain.GenerationRun) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.GenerationRun, error)
	Latest(ctx context.Context, userID string) (*domain.GenerationRun, error)
}
