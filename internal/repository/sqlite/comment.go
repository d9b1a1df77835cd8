package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/schedule-arranger/internal/model"
	"github.com/sakif/schedule-arranger/internal/repository"
)

// CommentRepo implements repository.CommentRepository on the shared pool.
type CommentRepo struct {
	conn *sql.DB
}

var _ repository.CommentRepository = (*CommentRepo)(nil)

// Upsert writes a user's comment on a schedule, keyed by the
// (schedule_id, user_id) composite primary key. A user re-posting replaces
// their previous comment.
func (r *CommentRepo) Upsert(ctx context.Context, c *model.Comment) error {
	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO comments (schedule_id, user_id, comment)
		 VALUES (?, ?, ?)
		 ON CONFLICT(schedule_id, user_id) DO UPDATE SET comment = excluded.comment`,
		c.ScheduleID,
		c.UserID,
		c.Comment,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting comment (schedule=%s user=%d): %w",
			c.ScheduleID, c.UserID, err)
	}
	return nil
}

// ListByScheduleID returns all comments on a schedule in user_id order.
func (r *CommentRepo) ListByScheduleID(ctx context.Context, scheduleID string) ([]model.Comment, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT schedule_id, user_id, comment
		 FROM comments WHERE schedule_id = ? ORDER BY user_id ASC`,
		scheduleID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for schedule %s: %w", scheduleID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ScheduleID, &c.UserID, &c.Comment); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comment rows: %w", err)
	}

	return comments, nil
}
