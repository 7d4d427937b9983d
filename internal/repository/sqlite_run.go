package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/timeweave/internal/db"
	"github.com/alexanderramin/timeweave/internal/domain"
)

// SQLiteRunRepo implements RunRepo using a SQLite database.
type SQLiteRunRepo struct {
	db db.DBTX
}

// NewSQLiteRunRepo creates a new SQLiteRunRepo.
func NewSQLiteRunRepo(conn db.DBTX) *SQLiteRunRepo {
	return &SQLiteRunRepo{db: conn}
}

const runColumns = `id, user_id, ran_at, success, candidates, scheduled, failed, frozen,
	warnings, created, updated, deleted, duration_ms`

func (r *SQLiteRunRepo) Create(ctx context.Context, run *domain.GenerationRun) error {
	query := `INSERT INTO generation_runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.UserID,
		formatTime(run.RanAt),
		boolToInt(run.Success),
		run.Candidates,
		run.Scheduled,
		run.Failed,
		run.Frozen,
		run.Warnings,
		run.Created,
		run.Updated,
		run.Deleted,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting generation run: %w", err)
	}
	return nil
}

// ListByUser returns the most recent runs first. limit <= 0 returns all.
func (r *SQLiteRunRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.GenerationRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+runColumns+`
		FROM generation_runs WHERE user_id = ?
		ORDER BY ran_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing generation runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.GenerationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating generation runs: %w", err)
	}
	return runs, nil
}

func (r *SQLiteRunRepo) Latest(ctx context.Context, userID string) (*domain.GenerationRun, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+`
		FROM generation_runs WHERE user_id = ?
		ORDER BY ran_at DESC, rowid DESC LIMIT 1`, userID)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("generation run: %w", ErrNotFound)
		}
		return nil, err
	}
	return &run, nil
}

func scanRun(s scanner) (domain.GenerationRun, error) {
	var run domain.GenerationRun
	var ranAt string
	var success int
	var durationMS int64
	err := s.Scan(
		&run.ID, &run.UserID, &ranAt, &success, &run.Candidates, &run.Scheduled, &run.Failed, &run.Frozen,
		&run.Warnings, &run.Created, &run.Updated, &run.Deleted, &durationMS,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run, err
		}
		return run, fmt.Errorf("scanning generation run: %w", err)
	}
	run.RanAt, err = time.Parse(time.RFC3339, ranAt)
	if err != nil {
		return run, fmt.Errorf("parsing ran_at: %w", err)
	}
	run.Success = intToBool(success)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return run, nil
}
