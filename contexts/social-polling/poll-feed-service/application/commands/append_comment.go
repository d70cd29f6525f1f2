package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	application "pollfeed/contexts/social-polling/poll-feed-service/application"
	"pollfeed/contexts/social-polling/poll-feed-service/domain/entities"
	domainerrors "pollfeed/contexts/social-polling/poll-feed-service/domain/errors"
	"pollfeed/contexts/social-polling/poll-feed-service/ports"
)

const maxCommentChars = 500

type AppendCommentCommand struct {
	PollID  string
	UserID  string
	Content string
}

// CommentUseCase appends to the per-poll comment log. Comments are
// append-only; there is no edit or delete.
type CommentUseCase struct {
	Polls    ports.PollRepository
	Comments ports.CommentLog
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc CommentUseCase) AppendComment(ctx context.Context, cmd AppendCommentCommand) (entities.Comment, error) {
	logger := application.ResolveLogger(uc.Logger)
	pollID := strings.TrimSpace(cmd.PollID)
	userID := strings.TrimSpace(cmd.UserID)
	content := strings.TrimSpace(cmd.Content)
	if pollID == "" || userID == "" {
		return entities.Comment{}, domainerrors.ErrInvalidCommentInput
	}
	if length := utf8.RuneCountInString(content); length < 1 || length > maxCommentChars {
		logger.Warn("comment validation failed",
			"event", "comment_validation_failed",
			"module", "social-polling/poll-feed-service",
			"layer", "application",
			"poll_id", pollID,
			"user_id", userID,
			"content_chars", utf8.RuneCountInString(content),
		)
		return entities.Comment{}, domainerrors.ErrInvalidCommentInput
	}

	if _, err := uc.Polls.GetPoll(ctx, pollID); err != nil {
		return entities.Comment{}, err
	}

	commentID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Comment{}, err
	}
	comment := entities.Comment{
		CommentID: commentID,
		PollID:    pollID,
		UserID:    userID,
		Content:   content,
		CreatedAt: uc.now(),
	}
	if err := uc.Comments.AppendComment(ctx, comment); err != nil {
		return entities.Comment{}, err
	}

	logger.Info("comment appended",
		"event", "comment_appended",
		"module", "social-polling/poll-feed-service",
		"layer", "application",
		"poll_id", pollID,
		"comment_id", commentID,
	)
	return comment, nil
}

func (uc CommentUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
