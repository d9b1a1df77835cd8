package model

import "time"

// Schedule represents an event-coordination proposal: a name, a free-text
// memo, and (via the candidates table) the date/time options invitees vote on.
//
// WHY A UUID PRIMARY KEY?
// Schedule pages live at /schedules/{id}. With a sequential integer key,
// anyone could enumerate other people's schedules by counting up. A random
// 128-bit UUID is unguessable, so knowing one schedule's URL reveals nothing
// about any other.
type Schedule struct {
	ID        string    `json:"scheduleId"   db:"schedule_id"` // random UUID
	Name      string    `json:"scheduleName" db:"schedule_name"`
	Memo      string    `json:"memo"         db:"memo"`
	CreatedBy int64     `json:"createdBy"    db:"created_by"` // user ID of the creator
	UpdatedAt time.Time `json:"updatedAt"    db:"updated_at"`
}

// Candidate is one proposed date/time option within a schedule.
//
// Candidates are write-once: they are inserted in bulk when a schedule is
// created or edited, never updated, and only removed when their schedule is
// deleted. The auto-incrementing ID doubles as the display order — insert
// order equals candidate_id order.
type Candidate struct {
	ID         int64  `json:"candidateId"   db:"candidate_id"` // auto-increment
	Name       string `json:"candidateName" db:"candidate_name"`
	ScheduleID string `json:"scheduleId"    db:"schedule_id"`
}

// Availability values. Stored as plain integers; the zero value doubles as
// the default for every (user, candidate) cell that has never been toggled.
const (
	AvailabilityAbsent    = 0 // 欠席
	AvailabilityUndecided = 1 // ？
	AvailabilityPresent   = 2 // 出席
)

// Availability is one user's stance on one candidate.
//
// The composite primary key is (candidate_id, user_id) — a user has at most
// one row per candidate, and toggling is an upsert, not an insert. The
// schedule ID is carried redundantly so all rows for a schedule can be
// fetched (and deleted) with a single indexed query.
type Availability struct {
	CandidateID  int64  `json:"candidateId"  db:"candidate_id"`
	UserID       int64  `json:"userId"       db:"user_id"`
	Availability int    `json:"availability" db:"availability"`
	ScheduleID   string `json:"scheduleId"   db:"schedule_id"`
}

// AvailabilityRow is an availability joined with its user's display name.
// The matrix builder needs usernames to label matrix rows, and fetching them
// in one JOIN beats a query per user.
type AvailabilityRow struct {
	Availability
	Username string `db:"username"`
}

// Comment is a user's free-text remark on a schedule. One row per
// (schedule, user) — posting again replaces the previous comment.
type Comment struct {
	ScheduleID string `json:"scheduleId" db:"schedule_id"`
	UserID     int64  `json:"userId"     db:"user_id"`
	Comment    string `json:"comment"    db:"comment"`
}
