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

// CommentService handles per-(schedule, user) comment upserts.
type CommentService struct {
	comments repository.CommentRepository
	logger   *slog.Logger
}

// NewCommentService creates a CommentService.
func NewCommentService(comments repository.CommentRepository, logger *slog.Logger) *CommentService {
	return &CommentService{comments: comments, logger: logger}
}

// Set upserts the user's comment on a schedule and returns the stored text.
// One comment per (schedule, user): posting again replaces the old one.
func (s *CommentService) Set(ctx context.Context, scheduleID string, userID int64, text string) (string, error) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) > MaxCommentLength {
		return "", apperror.ValidationFailed("comment",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}

	c := &model.Comment{
		ScheduleID: scheduleID,
		UserID:     userID,
		Comment:    text,
	}
	if err := s.comments.Upsert(ctx, c); err != nil {
		s.logger.Error("failed to upsert comment",
			slog.String("scheduleID", scheduleID),
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("upserting comment: %w", err)
	}

	return text, nil
}
