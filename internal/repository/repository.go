// Package repository declares the storage interfaces the service layer
// depends on. The concrete SQLite implementation lives in repository/sqlite;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/schedule-arranger/internal/model"
)

// UserRepository persists user identities delivered by the OAuth callback.
type UserRepository interface {
	// Upsert inserts the user or, if a row with the same ID exists,
	// updates its username. Idempotent.
	Upsert(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// ScheduleRepository persists schedules and their dependent rows.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.Schedule) error
	GetByID(ctx context.Context, id string) (*model.Schedule, error)
	// ListByCreator returns the user's schedules, most recently updated first.
	ListByCreator(ctx context.Context, userID int64) ([]model.Schedule, error)
	Update(ctx context.Context, schedule *model.Schedule) error
	// DeleteCascade removes, in one transaction, all comments,
	// availabilities, and candidates keyed by the schedule ID, then the
	// schedule row itself. Succeeds even when nothing matches.
	DeleteCascade(ctx context.Context, id string) error
}

// CandidateRepository persists a schedule's candidate date/time slots.
type CandidateRepository interface {
	// CreateBulk inserts the candidates in order; auto-increment IDs
	// preserve input order. A nil/empty slice is a no-op.
	CreateBulk(ctx context.Context, candidates []model.Candidate) error
	ListByScheduleID(ctx context.Context, scheduleID string) ([]model.Candidate, error)
	GetByID(ctx context.Context, id int64) (*model.Candidate, error)
}

// AvailabilityRepository persists per-(user, candidate) attendance stances.
type AvailabilityRepository interface {
	// Upsert writes the availability keyed by (candidate, user);
	// posting the same value twice leaves exactly one row.
	Upsert(ctx context.Context, a *model.Availability) error
	// ListByScheduleID returns all rows for the schedule joined with
	// usernames, ordered by username ascending then candidate ID
	// ascending. The matrix builder depends on this ordering for stable
	// user discovery.
	ListByScheduleID(ctx context.Context, scheduleID string) ([]model.AvailabilityRow, error)
}

// CommentRepository persists one comment per (schedule, user).
type CommentRepository interface {
	Upsert(ctx context.Context, c *model.Comment) error
	ListByScheduleID(ctx context.Context, scheduleID string) ([]model.Comment, error)
}
