package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/schedule-arranger/internal/apperror"
	"github.com/sakif/schedule-arranger/internal/model"
	"github.com/sakif/schedule-arranger/internal/repository"
)

// AvailabilityService handles availability toggles.
type AvailabilityService struct {
	availabilities repository.AvailabilityRepository
	candidates     repository.CandidateRepository
	logger         *slog.Logger
}

// NewAvailabilityService creates an AvailabilityService.
func NewAvailabilityService(
	availabilities repository.AvailabilityRepository,
	candidates repository.CandidateRepository,
	logger *slog.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		availabilities: availabilities,
		candidates:     candidates,
		logger:         logger,
	}
}

// Set upserts a user's stance on a candidate and returns the stored value.
//
// The client computes the next value itself ((current+1) mod 3) and posts
// the absolute number; the server just validates and stores it —
// last write wins, no optimistic locking.
//
// The candidate must exist and belong to the given schedule; the
// availabilities table doesn't enforce that relationship, so it's checked
// here before the write.
func (s *AvailabilityService) Set(ctx context.Context, scheduleID string, userID, candidateID int64, value int) (int, error) {
	if value < model.AvailabilityAbsent || value > model.AvailabilityPresent {
		return 0, apperror.ValidationFailed("availability",
			fmt.Sprintf("availability must be 0, 1, or 2, got %d", value))
	}

	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return 0, err
	}
	if candidate.ScheduleID != scheduleID {
		return 0, apperror.NotFound("candidate", fmt.Sprintf("%d", candidateID))
	}

	a := &model.Availability{
		CandidateID:  candidateID,
		UserID:       userID,
		Availability: value,
		ScheduleID:   scheduleID,
	}
	if err := s.availabilities.Upsert(ctx, a); err != nil {
		s.logger.Error("failed to upsert availability",
			slog.String("scheduleID", scheduleID),
			slog.Int64("userID", userID),
			slog.Int64("candidateID", candidateID),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("upserting availability: %w", err)
	}

	return value, nil
}
