package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/schedule-arranger/internal/apperror"
	"github.com/sakif/schedule-arranger/internal/model"
	"github.com/sakif/schedule-arranger/internal/repository"
)

// UserRepo implements repository.UserRepository on the shared pool.
type UserRepo struct {
	conn *sql.DB
}

var _ repository.UserRepository = (*UserRepo)(nil)

// Upsert inserts or updates a user keyed by their provider ID.
//
// Uses SQLite's "INSERT ... ON CONFLICT DO UPDATE": one statement, atomic,
// and — unlike INSERT OR REPLACE — it updates the existing row in place
// instead of deleting and re-inserting it. The OAuth callback calls this on
// every login, so the username tracks whatever the provider currently
// reports.
func (r *UserRepo) Upsert(ctx context.Context, user *model.User) error {
	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (user_id, username) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET username = excluded.username`,
		user.ID,
		user.Username,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting user %d: %w", user.ID, err)
	}
	return nil
}

// GetByID retrieves a user by their provider ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User

	err := r.conn.QueryRowContext(ctx,
		`SELECT user_id, username FROM users WHERE user_id = ?`,
		id,
	).Scan(&u.ID, &u.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	return &u, nil
}
