package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "pollfeed/contexts/social-polling/poll-feed-service/application"
	domainerrors "pollfeed/contexts/social-polling/poll-feed-service/domain/errors"
	"pollfeed/contexts/social-polling/poll-feed-service/ports"
)

type ToggleLikeCommand struct {
	PollID string
	UserID string
}

type ToggleLikeResult struct {
	Liked bool
}

// LikeUseCase flips the per-(poll, user) liked state. The toggle is a
// read-then-write, not an atomic flip: two concurrent toggles from the same
// user can race to an inconsistent end state. Known accepted weakness;
// sequential calls alternate deterministically, which is the intended use.
type LikeUseCase struct {
	Polls  ports.PollRepository
	Likes  ports.LikeLedger
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc LikeUseCase) ToggleLike(ctx context.Context, cmd ToggleLikeCommand) (ToggleLikeResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	pollID := strings.TrimSpace(cmd.PollID)
	userID := strings.TrimSpace(cmd.UserID)
	if pollID == "" || userID == "" {
		return ToggleLikeResult{}, domainerrors.ErrInvalidLikeInput
	}

	if _, err := uc.Polls.GetPoll(ctx, pollID); err != nil {
		return ToggleLikeResult{}, err
	}

	liked, err := uc.Likes.HasLike(ctx, pollID, userID)
	if err != nil {
		return ToggleLikeResult{}, err
	}
	if liked {
		if err := uc.Likes.RemoveLike(ctx, pollID, userID); err != nil {
			return ToggleLikeResult{}, err
		}
	} else {
		if err := uc.Likes.AddLike(ctx, pollID, userID, uc.now()); err != nil {
			return ToggleLikeResult{}, err
		}
	}

	logger.Info("like toggled",
		"event", "like_toggled",
		"module", "social-polling/poll-feed-service",
		"layer", "application",
		"poll_id", pollID,
		"user_id", userID,
		"liked", !liked,
	)
	return ToggleLikeResult{Liked: !liked}, nil
}

func (uc LikeUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
