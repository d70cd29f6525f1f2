package queries

import (
	"context"
	"log/slog"
	"strings"

	"pollfeed/contexts/social-polling/poll-feed-service/domain/entities"
	domainerrors "pollfeed/contexts/social-polling/poll-feed-service/domain/errors"
	"pollfeed/contexts/social-polling/poll-feed-service/ports"
)

// CommentsUseCase reads the per-poll comment log, ascending by creation
// time. No pagination: the log is bounded by poll-lifetime usage.
type CommentsUseCase struct {
	Polls    ports.PollRepository
	Comments ports.CommentLog
	Logger   *slog.Logger
}

func (uc CommentsUseCase) ListComments(ctx context.Context, pollID string) ([]entities.Comment, error) {
	pollID = strings.TrimSpace(pollID)
	if pollID == "" {
		return nil, domainerrors.ErrInvalidCommentInput
	}
	if _, err := uc.Polls.GetPoll(ctx, pollID); err != nil {
		return nil, err
	}
	return uc.Comments.ListComments(ctx, pollID)
}
