package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/schedule-arranger/internal/apperror"
	"github.com/sakif/schedule-arranger/internal/model"
	"github.com/sakif/schedule-arranger/internal/repository"
)

// CandidateRepo implements repository.CandidateRepository on the shared pool.
type CandidateRepo struct {
	conn *sql.DB
}

var _ repository.CandidateRepository = (*CandidateRepo)(nil)

// CreateBulk inserts candidates in slice order inside one transaction.
//
// Auto-increment assigns IDs in insert order, so input order and
// candidate_id order stay in lockstep — that ordering is what the detail
// page displays. Each inserted candidate gets its generated ID written back.
func (r *CandidateRepo) CreateBulk(ctx context.Context, candidates []model.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning candidate insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO candidates (candidate_name, schedule_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: preparing candidate insert: %w", err)
	}
	defer stmt.Close()

	for i := range candidates {
		res, err := stmt.ExecContext(ctx, candidates[i].Name, candidates[i].ScheduleID)
		if err != nil {
			return fmt.Errorf("sqlite: inserting candidate %q: %w", candidates[i].Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: reading candidate id: %w", err)
		}
		candidates[i].ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing candidate insert: %w", err)
	}

	return nil
}

// ListByScheduleID returns the schedule's candidates in candidate_id order.
func (r *CandidateRepo) ListByScheduleID(ctx context.Context, scheduleID string) ([]model.Candidate, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT candidate_id, candidate_name, schedule_id
		 FROM candidates WHERE schedule_id = ? ORDER BY candidate_id ASC`,
		scheduleID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing candidates for schedule %s: %w", scheduleID, err)
	}
	defer rows.Close()

	candidates := []model.Candidate{}
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.ScheduleID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning candidate row: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating candidate rows: %w", err)
	}

	return candidates, nil
}

// GetByID retrieves a single candidate. Used to verify a candidate exists
// (and belongs to the right schedule) before recording availability for it.
func (r *CandidateRepo) GetByID(ctx context.Context, id int64) (*model.Candidate, error) {
	var c model.Candidate

	err := r.conn.QueryRowContext(ctx,
		`SELECT candidate_id, candidate_name, schedule_id
		 FROM candidates WHERE candidate_id = ?`,
		id,
	).Scan(&c.ID, &c.Name, &c.ScheduleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("candidate", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("sqlite: getting candidate %d: %w", id, err)
	}

	return &c, nil
}
