package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sakif/schedule-arranger/internal/apperror"
	"github.com/sakif/schedule-arranger/internal/model"
	"github.com/sakif/schedule-arranger/internal/repository"
)

// ScheduleRepo implements repository.ScheduleRepository on the shared pool.
// DeleteCascade touches the candidate, availability, and comment tables too;
// sharing one pool lets it wrap all four deletes in a single transaction.
type ScheduleRepo struct {
	conn *sql.DB
}

var _ repository.ScheduleRepository = (*ScheduleRepo)(nil)

// Create inserts a new schedule, generating its random UUID primary key and
// updated_at timestamp in place.
func (r *ScheduleRepo) Create(ctx context.Context, schedule *model.Schedule) error {
	schedule.ID = uuid.NewString()
	schedule.UpdatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO schedules (schedule_id, schedule_name, memo, created_by, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		schedule.ID,
		schedule.Name,
		schedule.Memo,
		schedule.CreatedBy,
		schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting schedule: %w", err)
	}
	return nil
}

// GetByID retrieves a schedule by its UUID.
// Returns apperror.ErrNotFound if no schedule exists with that ID.
func (r *ScheduleRepo) GetByID(ctx context.Context, id string) (*model.Schedule, error) {
	var s model.Schedule

	err := r.conn.QueryRowContext(ctx,
		`SELECT schedule_id, schedule_name, memo, created_by, updated_at
		 FROM schedules WHERE schedule_id = ?`,
		id,
	).Scan(&s.ID, &s.Name, &s.Memo, &s.CreatedBy, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("schedule", id)
		}
		return nil, fmt.Errorf("sqlite: getting schedule %s: %w", id, err)
	}

	return &s, nil
}

// ListByCreator returns all schedules created by the user, most recently
// updated first. Used by the home page.
func (r *ScheduleRepo) ListByCreator(ctx context.Context, userID int64) ([]model.Schedule, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT schedule_id, schedule_name, memo, created_by, updated_at
		 FROM schedules WHERE created_by = ? ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing schedules for user %d: %w", userID, err)
	}
	defer rows.Close()

	schedules := []model.Schedule{}
	for rows.Next() {
		var s model.Schedule
		if err := rows.Scan(&s.ID, &s.Name, &s.Memo, &s.CreatedBy, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning schedule row: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating schedule rows: %w", err)
	}

	return schedules, nil
}

// Update rewrites the schedule's name and memo and bumps updated_at.
// Returns apperror.ErrNotFound if the schedule doesn't exist.
func (r *ScheduleRepo) Update(ctx context.Context, schedule *model.Schedule) error {
	schedule.UpdatedAt = time.Now()

	res, err := r.conn.ExecContext(ctx,
		`UPDATE schedules SET schedule_name = ?, memo = ?, updated_at = ?
		 WHERE schedule_id = ?`,
		schedule.Name,
		schedule.Memo,
		schedule.UpdatedAt,
		schedule.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating schedule %s: %w", schedule.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of schedule %s: %w", schedule.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("schedule", schedule.ID)
	}

	return nil
}

// DeleteCascade removes a schedule and everything that references it.
//
// DELETION ORDER MATTERS:
// Children go first — comments, availabilities, candidates — and the
// schedule row last. A reader racing the delete may see a schedule with some
// children already gone, but never an orphaned child whose schedule has
// vanished. Wrapping the whole cascade in one transaction removes even that
// window: the four deletes commit (or roll back) as a unit.
//
// Idempotent: deleting an ID with no matching rows in some or all tables
// succeeds without error.
func (r *ScheduleRepo) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning delete transaction: %w", err)
	}
	// Rollback is a no-op after Commit — safe to always defer.
	defer tx.Rollback()

	steps := []struct {
		what  string
		query string
	}{
		{"comments", `DELETE FROM comments WHERE schedule_id = ?`},
		{"availabilities", `DELETE FROM availabilities WHERE schedule_id = ?`},
		{"candidates", `DELETE FROM candidates WHERE schedule_id = ?`},
		{"schedule", `DELETE FROM schedules WHERE schedule_id = ?`},
	}

	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.query, id); err != nil {
			return fmt.Errorf("sqlite: deleting %s for schedule %s: %w", step.what, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing delete of schedule %s: %w", id, err)
	}

	return nil
}
