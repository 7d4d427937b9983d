package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/timeweave/internal/db"
	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/generator"
	"github.com/alexanderramin/timeweave/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type calendarService struct {
	events   repository.EventRepo
	runs     repository.RunRepo
	uow      db.UnitOfWork
	engine   domain.Config
	logger   zerolog.Logger
	clock    func() time.Time
	observer UseCaseObserver
}

type CalendarServiceOption func(*calendarService)

// WithClock replaces time.Now as the default generation instant.
func WithClock(clock func() time.Time) CalendarServiceOption {
	return func(s *calendarService) { s.clock = clock }
}

// WithEngineLogger is handed to the generator; it only logs when the
// engine config enables logging.
func WithEngineLogger(logger zerolog.Logger) CalendarServiceOption {
	return func(s *calendarService) { s.logger = logger }
}

func WithObserver(obs UseCaseObserver) CalendarServiceOption {
	return func(s *calendarService) {
		s.observer = useCaseObserverOrNoop([]UseCaseObserver{obs})
	}
}

func NewCalendarService(
	events repository.EventRepo,
	runs repository.RunRepo,
	uow db.UnitOfWork,
	engine domain.Config,
	opts ...CalendarServiceOption,
) CalendarService {
	s := &calendarService{
		events:   events,
		runs:     runs,
		uow:      uow,
		engine:   engine,
		logger:   zerolog.Nop(),
		clock:    time.Now,
		observer: NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *calendarService) Generate(ctx context.Context, in domain.CalendarGenerationInput, opts GenerateOptions) (out *GenerateResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"user":    in.UserID,
		"persist": opts.Persist,
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "generate",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	now := opts.Now
	if now.IsZero() {
		now = s.clock()
	}
	gen := generator.New(s.engine, generator.Options{
		Now:    func() time.Time { return now },
		Logger: s.logger,
	})

	if !opts.Persist {
		res := gen.Generate(in)
		fields["scheduled"] = res.Metrics.ScheduledTasks
		fields["failed"] = res.Metrics.FailedTasks
		return &GenerateResult{Result: res}, nil
	}
	if in.UserID == "" {
		return nil, errors.New("user id is required to use the calendar store")
	}

	out = &GenerateResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEvents := repository.NewSQLiteEventRepo(tx)
		txRuns := repository.NewSQLiteRunRepo(tx)

		stored, err := txEvents.ListByUser(ctx, in.UserID)
		if err != nil {
			return fmt.Errorf("loading previous calendar: %w", err)
		}
		in.PreviousCalendar = mergePrevious(stored, in.PreviousCalendar)

		out.Result = gen.Generate(in)
		if generator.Aborted(out.Result) {
			return nil
		}

		out.Sync, err = txEvents.Sync(ctx, in.UserID, out.Result.Events)
		if err != nil {
			return fmt.Errorf("syncing calendar: %w", err)
		}

		run := domain.NewGenerationRun(uuid.New().String(), in.UserID, now, out.Result)
		run.Created = out.Sync.Created
		run.Updated = out.Sync.Updated
		run.Deleted = out.Sync.Deleted
		if err := txRuns.Create(ctx, &run); err != nil {
			return fmt.Errorf("recording run: %w", err)
		}
		out.Run = &run
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["scheduled"] = out.Result.Metrics.ScheduledTasks
	fields["failed"] = out.Result.Metrics.FailedTasks
	fields["created"] = out.Sync.Created
	fields["updated"] = out.Sync.Updated
	fields["deleted"] = out.Sync.Deleted
	return out, nil
}

// mergePrevious combines the stored calendar with events supplied in the
// input. Input events win on id collisions and keep their order after the
// stored ones.
func mergePrevious(stored, given []domain.SimpleEvent) []domain.SimpleEvent {
	if len(given) == 0 {
		return stored
	}
	override := make(map[string]bool, len(given))
	for _, e := range given {
		override[e.ID] = true
	}
	out := make([]domain.SimpleEvent, 0, len(stored)+len(given))
	for _, e := range stored {
		if !override[e.ID] {
			out = append(out, e)
		}
	}
	return append(out, given...)
}

func (s *calendarService) Calendar(ctx context.Context, userID string, from, to time.Time) ([]domain.SimpleEvent, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("empty range %s..%s", from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return s.events.ListBetween(ctx, userID, from, to)
}

func (s *calendarService) History(ctx context.Context, userID string, limit int) ([]domain.GenerationRun, error) {
	return s.runs.ListByUser(ctx, userID, limit)
}

func (s *calendarService) Reset(ctx context.Context, userID string) (n int, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "reset",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"user": userID, "deleted": n},
		})
	}()
	return s.events.DeleteByUser(ctx, userID)
}
