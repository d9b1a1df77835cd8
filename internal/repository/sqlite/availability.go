package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/schedule-arranger/internal/model"
	"github.com/sakif/schedule-arranger/internal/repository"
)

// AvailabilityRepo implements repository.AvailabilityRepository on the
// shared pool.
type AvailabilityRepo struct {
	conn *sql.DB
}

var _ repository.AvailabilityRepository = (*AvailabilityRepo)(nil)

// Upsert writes a user's stance on a candidate, keyed by the
// (candidate_id, user_id) composite primary key. Toggling the same cell
// repeatedly rewrites one row — it never accumulates duplicates.
func (r *AvailabilityRepo) Upsert(ctx context.Context, a *model.Availability) error {
	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO availabilities (candidate_id, user_id, availability, schedule_id)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(candidate_id, user_id) DO UPDATE SET
		   availability = excluded.availability,
		   schedule_id  = excluded.schedule_id`,
		a.CandidateID,
		a.UserID,
		a.Availability,
		a.ScheduleID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting availability (candidate=%d user=%d): %w",
			a.CandidateID, a.UserID, err)
	}
	return nil
}

// ListByScheduleID returns every availability row for a schedule joined with
// the owning user's name.
//
// ORDER BY username, candidate_id: the matrix builder discovers "other"
// users in row order, so this ordering is what makes the user list on the
// detail page stable between renders.
func (r *AvailabilityRepo) ListByScheduleID(ctx context.Context, scheduleID string) ([]model.AvailabilityRow, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT a.candidate_id, a.user_id, a.availability, a.schedule_id, u.username
		 FROM availabilities a
		 JOIN users u ON u.user_id = a.user_id
		 WHERE a.schedule_id = ?
		 ORDER BY u.username ASC, a.candidate_id ASC`,
		scheduleID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing availabilities for schedule %s: %w", scheduleID, err)
	}
	defer rows.Close()

	result := []model.AvailabilityRow{}
	for rows.Next() {
		var r model.AvailabilityRow
		if err := rows.Scan(&r.CandidateID, &r.UserID, &r.Availability.Availability, &r.ScheduleID, &r.Username); err != nil {
			return nil, fmt.Errorf("sqlite: scanning availability row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating availability rows: %w", err)
	}

	return result, nil
}
