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

const eventColumns = `id, title, start_at, end_at, background_color, item_type, event_id, parent_id,
	completed_start_at, completed_end_at, recur_freq, recur_dtstart, recur_duration_min, recur_cron`

// SQLiteEventRepo implements EventRepo using a SQLite database.
type SQLiteEventRepo struct {
	db db.DBTX
}

// NewSQLiteEventRepo creates a new SQLiteEventRepo. Pass a *sql.Tx to run
// inside a unit of work.
func NewSQLiteEventRepo(conn db.DBTX) *SQLiteEventRepo {
	return &SQLiteEventRepo{db: conn}
}

// eventRow is the stored form of a SimpleEvent. Two rows are equal exactly
// when the stored columns are.
type eventRow struct {
	ID               string
	Title            string
	StartAt          string
	EndAt            string
	BackgroundColor  string
	ItemType         string
	EventID          string
	ParentID         string
	CompletedStartAt sql.NullString
	CompletedEndAt   sql.NullString
	RecurFreq        sql.NullString
	RecurDTStart     sql.NullString
	RecurDurationMin sql.NullInt64
	RecurCron        sql.NullString
}

func toRow(e domain.SimpleEvent) eventRow {
	r := eventRow{
		ID:               e.ID,
		Title:            e.Title,
		StartAt:          formatTime(e.Start),
		EndAt:            formatTime(e.End),
		BackgroundColor:  e.BackgroundColor,
		ItemType:         string(e.ExtendedProps.ItemType),
		EventID:          e.ExtendedProps.EventID,
		ParentID:         e.ExtendedProps.ParentID,
		CompletedStartAt: nullableTime(e.ExtendedProps.CompletedStartTime),
		CompletedEndAt:   nullableTime(e.ExtendedProps.CompletedEndTime),
	}
	if rec := e.Recurrence; rec != nil {
		r.RecurFreq = nullableString(rec.Freq, true)
		r.RecurDTStart = nullableString(formatTime(rec.DTStart), true)
		r.RecurDurationMin = sql.NullInt64{Int64: int64(rec.DurationMinutes), Valid: true}
		r.RecurCron = nullableString(rec.Cron, rec.Cron != "")
	}
	return r
}

func (r eventRow) toEvent() (domain.SimpleEvent, error) {
	start, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return domain.SimpleEvent{}, fmt.Errorf("parsing start_at: %w", err)
	}
	end, err := time.Parse(time.RFC3339, r.EndAt)
	if err != nil {
		return domain.SimpleEvent{}, fmt.Errorf("parsing end_at: %w", err)
	}
	e := domain.SimpleEvent{
		ID:              r.ID,
		Title:           r.Title,
		Start:           start,
		End:             end,
		BackgroundColor: r.BackgroundColor,
		ExtendedProps: domain.ExtendedProps{
			ItemType:           domain.EventType(r.ItemType),
			EventID:            r.EventID,
			ParentID:           r.ParentID,
			CompletedStartTime: parseNullableTime(r.CompletedStartAt, time.RFC3339),
			CompletedEndTime:   parseNullableTime(r.CompletedEndAt, time.RFC3339),
		},
	}
	if r.RecurFreq.Valid {
		rec := &domain.Recurrence{
			Freq:            r.RecurFreq.String,
			DurationMinutes: int(r.RecurDurationMin.Int64),
			Cron:            r.RecurCron.String,
		}
		if dt := parseNullableTime(r.RecurDTStart, time.RFC3339); dt != nil {
			rec.DTStart = *dt
		}
		e.Recurrence = rec
	}
	return e, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (eventRow, error) {
	var r eventRow
	err := s.Scan(
		&r.ID, &r.Title, &r.StartAt, &r.EndAt, &r.BackgroundColor, &r.ItemType, &r.EventID, &r.ParentID,
		&r.CompletedStartAt, &r.CompletedEndAt, &r.RecurFreq, &r.RecurDTStart, &r.RecurDurationMin, &r.RecurCron,
	)
	return r, err
}

func (r *SQLiteEventRepo) listRows(ctx context.Context, query string, args ...any) ([]eventRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing calendar events: %w", err)
	}
	defer rows.Close()

	var out []eventRow
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning calendar event row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating calendar events: %w", err)
	}
	return out, nil
}

func toEvents(rows []eventRow) ([]domain.SimpleEvent, error) {
	events := make([]domain.SimpleEvent, 0, len(rows))
	for _, row := range rows {
		e, err := row.toEvent()
		if err != nil {
			return nil, fmt.Errorf("calendar event %s: %w", row.ID, err)
		}
		events = append(events, e)
	}
	return events, nil
}

func (r *SQLiteEventRepo) ListByUser(ctx context.Context, userID string) ([]domain.SimpleEvent, error) {
	rows, err := r.listRows(ctx, `SELECT `+eventColumns+`
		FROM calendar_events WHERE user_id = ? ORDER BY start_at, id`, userID)
	if err != nil {
		return nil, err
	}
	return toEvents(rows)
}

// ListBetween returns the events overlapping [from, to).
func (r *SQLiteEventRepo) ListBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.SimpleEvent, error) {
	rows, err := r.listRows(ctx, `SELECT `+eventColumns+`
		FROM calendar_events
		WHERE user_id = ? AND start_at < ? AND end_at > ?
		ORDER BY start_at, id`, userID, formatTime(to), formatTime(from))
	if err != nil {
		return nil, err
	}
	return toEvents(rows)
}

func (r *SQLiteEventRepo) GetByID(ctx context.Context, userID, id string) (*domain.SimpleEvent, error) {
	row, err := scanRow(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+`
		FROM calendar_events WHERE user_id = ? AND id = ?`, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("calendar event: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning calendar event: %w", err)
	}
	e, err := row.toEvent()
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Sync diffs events against the stored calendar by id and writes only the
// rows that differ. Duplicate ids in events keep the last occurrence.
func (r *SQLiteEventRepo) Sync(ctx context.Context, userID string, events []domain.SimpleEvent) (SyncResult, error) {
	var res SyncResult

	stored, err := r.listRows(ctx, `SELECT `+eventColumns+`
		FROM calendar_events WHERE user_id = ?`, userID)
	if err != nil {
		return res, err
	}
	existing := make(map[string]eventRow, len(stored))
	for _, row := range stored {
		existing[row.ID] = row
	}

	wanted := make(map[string]eventRow, len(events))
	order := make([]string, 0, len(events))
	for _, e := range events {
		row := toRow(e)
		if _, dup := wanted[row.ID]; !dup {
			order = append(order, row.ID)
		}
		wanted[row.ID] = row
	}

	for _, id := range order {
		row := wanted[id]
		old, ok := existing[id]
		switch {
		case !ok:
			if err := r.insert(ctx, userID, row); err != nil {
				return res, err
			}
			res.Created++
		case old != row:
			if err := r.update(ctx, userID, row); err != nil {
				return res, err
			}
			res.Updated++
		default:
			res.Unchanged++
		}
	}

	for _, row := range stored {
		if _, keep := wanted[row.ID]; keep {
			continue
		}
		if _, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE user_id = ? AND id = ?`, userID, row.ID); err != nil {
			return res, fmt.Errorf("deleting calendar event %s: %w", row.ID, err)
		}
		res.Deleted++
	}
	return res, nil
}

func (r *SQLiteEventRepo) insert(ctx context.Context, userID string, row eventRow) error {
	query := `INSERT INTO calendar_events (user_id, ` + eventColumns + `, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		userID,
		row.ID,
		row.Title,
		row.StartAt,
		row.EndAt,
		row.BackgroundColor,
		row.ItemType,
		row.EventID,
		row.ParentID,
		row.CompletedStartAt,
		row.CompletedEndAt,
		row.RecurFreq,
		row.RecurDTStart,
		row.RecurDurationMin,
		row.RecurCron,
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting calendar event %s: %w", row.ID, err)
	}
	return nil
}

func (r *SQLiteEventRepo) update(ctx context.Context, userID string, row eventRow) error {
	query := `UPDATE calendar_events SET title = ?, start_at = ?, end_at = ?, background_color = ?,
		item_type = ?, event_id = ?, parent_id = ?, completed_start_at = ?, completed_end_at = ?,
		recur_freq = ?, recur_dtstart = ?, recur_duration_min = ?, recur_cron = ?, updated_at = ?
		WHERE user_id = ? AND id = ?`
	_, err := r.db.ExecContext(ctx, query,
		row.Title,
		row.StartAt,
		row.EndAt,
		row.BackgroundColor,
		row.ItemType,
		row.EventID,
		row.ParentID,
		row.CompletedStartAt,
		row.CompletedEndAt,
		row.RecurFreq,
		row.RecurDTStart,
		row.RecurDurationMin,
		row.RecurCron,
		nowUTC(),
		userID,
		row.ID,
	)
	if err != nil {
		return fmt.Errorf("updating calendar event %s: %w", row.ID, err)
	}
	return nil
}

func (r *SQLiteEventRepo) DeleteByUser(ctx context.Context, userID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("deleting calendar events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted calendar events: %w", err)
	}
	return int(n), nil
}
