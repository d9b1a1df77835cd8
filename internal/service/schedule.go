// Package service contains the business logic layer of the application.
//
// Handlers parse HTTP and write responses; services validate input, enforce
// ownership rules, and orchestrate repository calls; repositories talk to
// the database. Services receive repository interfaces, never concrete
// types, so tests can inject in-memory mocks.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/schedule-arranger/internal/apperror"
	"github.com/sakif/schedule-arranger/internal/model"
	"github.com/sakif/schedule-arranger/internal/repository"
)

// Validation constants.
const (
	MaxScheduleNameLength = 255 // runes
	MaxCommentLength      = 255

	// DefaultScheduleName is substituted when a schedule is submitted with
	// an empty name; the form is never rejected over a missing title.
	DefaultScheduleName = "（名称未設定）"
)

// ScheduleService handles business logic for schedules and their candidates.
type ScheduleService struct {
	schedules      repository.ScheduleRepository
	candidates     repository.CandidateRepository
	availabilities repository.AvailabilityRepository
	comments       repository.CommentRepository
	logger         *slog.Logger
}

// NewScheduleService creates a ScheduleService. The caller decides which
// repository implementations to inject (SQLite in production, mocks in tests).
func NewScheduleService(
	schedules repository.ScheduleRepository,
	candidates repository.CandidateRepository,
	availabilities repository.AvailabilityRepository,
	comments repository.CommentRepository,
	logger *slog.Logger,
) *ScheduleService {
	return &ScheduleService{
		schedules:      schedules,
		candidates:     candidates,
		availabilities: availabilities,
		comments:       comments,
		logger:         logger,
	}
}

// ScheduleDetail is everything the detail page needs in one value.
type ScheduleDetail struct {
	Schedule   *model.Schedule
	Candidates []model.Candidate
	Matrix     *AvailabilityMatrix
	Comments   []model.Comment
}

// ParseCandidateNames splits newline-separated candidate text into trimmed
// names. Blank lines (and lines that trim to nothing) are dropped — an
// empty-named candidate has no meaning in the matrix.
func ParseCandidateNames(text string) []string {
	names := []string{}
	for _, line := range strings.Split(text, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// normalizeScheduleName trims the submitted name, substitutes the
// placeholder for an empty one, and truncates to the column limit.
// Truncation counts runes, not bytes — schedule names are usually Japanese.
func normalizeScheduleName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultScheduleName
	}
	if runes := []rune(name); len(runes) > MaxScheduleNameLength {
		return string(runes[:MaxScheduleNameLength])
	}
	return name
}

// Create saves a new schedule and its candidates parsed from
// newline-separated text. Returns the created schedule with its generated
// UUID populated.
func (s *ScheduleService) Create(ctx context.Context, creatorID int64, name, memo, candidatesText string) (*model.Schedule, error) {
	schedule := &model.Schedule{
		Name:      normalizeScheduleName(name),
		Memo:      memo,
		CreatedBy: creatorID,
	}

	if err := s.schedules.Create(ctx, schedule); err != nil {
		s.logger.Error("failed to create schedule",
			slog.String("name", schedule.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating schedule: %w", err)
	}

	if err := s.appendCandidates(ctx, schedule.ID, candidatesText); err != nil {
		return nil, err
	}

	s.logger.Info("schedule created",
		slog.String("scheduleID", schedule.ID),
		slog.Int64("createdBy", creatorID),
	)

	return schedule, nil
}

// Detail assembles the full detail view for a schedule: the schedule row,
// its candidates, the user × candidate availability matrix, and comments.
// Returns apperror.ErrNotFound if the schedule doesn't exist.
func (s *ScheduleService) Detail(ctx context.Context, viewer *model.User, scheduleID string) (*ScheduleDetail, error) {
	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.candidates.ListByScheduleID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("loading candidates: %w", err)
	}

	rows, err := s.availabilities.ListByScheduleID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("loading availabilities: %w", err)
	}

	comments, err := s.comments.ListByScheduleID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("loading comments: %w", err)
	}

	return &ScheduleDetail{
		Schedule:   schedule,
		Candidates: candidates,
		Matrix:     BuildAvailabilityMatrix(viewer, candidates, rows),
		Comments:   comments,
	}, nil
}

// GetForEdit loads a schedule and its candidates for the edit form.
// Only the creator may edit; anyone else gets ErrForbidden (which handlers
// surface as 404 so the schedule's existence isn't leaked).
func (s *ScheduleService) GetForEdit(ctx context.Context, viewerID int64, scheduleID string) (*model.Schedule, []model.Candidate, error) {
	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}
	if schedule.CreatedBy != viewerID {
		return nil, nil, apperror.Forbidden("only the creator may edit this schedule")
	}

	candidates, err := s.candidates.ListByScheduleID(ctx, scheduleID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading candidates: %w", err)
	}

	return schedule, candidates, nil
}

// Update edits a schedule's name and memo and appends any new candidates
// parsed from the posted text. Existing candidates are never touched — the
// edit form only supports adding slots, and votes already cast must survive
// an edit.
func (s *ScheduleService) Update(ctx context.Context, viewerID int64, scheduleID, name, memo, candidatesText string) error {
	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return err
	}
	if schedule.CreatedBy != viewerID {
		return apperror.Forbidden("only the creator may edit this schedule")
	}

	schedule.Name = normalizeScheduleName(name)
	schedule.Memo = memo

	if err := s.schedules.Update(ctx, schedule); err != nil {
		s.logger.Error("failed to update schedule",
			slog.String("scheduleID", scheduleID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("updating schedule: %w", err)
	}

	if err := s.appendCandidates(ctx, scheduleID, candidatesText); err != nil {
		return err
	}

	s.logger.Info("schedule updated", slog.String("scheduleID", scheduleID))
	return nil
}

// Delete removes a schedule and every row that references it. Only the
// creator may delete. The repository performs the cascade in one
// transaction, children before parent.
func (s *ScheduleService) Delete(ctx context.Context, viewerID int64, scheduleID string) error {
	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return err
	}
	if schedule.CreatedBy != viewerID {
		return apperror.Forbidden("only the creator may delete this schedule")
	}

	if err := s.schedules.DeleteCascade(ctx, scheduleID); err != nil {
		s.logger.Error("failed to delete schedule",
			slog.String("scheduleID", scheduleID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting schedule: %w", err)
	}

	s.logger.Info("schedule deleted", slog.String("scheduleID", scheduleID))
	return nil
}

// ListMine returns the user's own schedules for the home page, most
// recently updated first.
func (s *ScheduleService) ListMine(ctx context.Context, userID int64) ([]model.Schedule, error) {
	schedules, err := s.schedules.ListByCreator(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list schedules", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	return schedules, nil
}

// appendCandidates parses candidate text and bulk-inserts the resulting
// names for the schedule. Text that parses to zero names is a no-op.
func (s *ScheduleService) appendCandidates(ctx context.Context, scheduleID, candidatesText string) error {
	names := ParseCandidateNames(candidatesText)
	if len(names) == 0 {
		return nil
	}

	candidates := make([]model.Candidate, len(names))
	for i, name := range names {
		candidates[i] = model.Candidate{Name: name, ScheduleID: scheduleID}
	}

	if err := s.candidates.CreateBulk(ctx, candidates); err != nil {
		s.logger.Error("failed to create candidates",
			slog.String("scheduleID", scheduleID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("creating candidates: %w", err)
	}

	return nil
}
