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

// CastVoteCommand records or swaps a user's single choice on a poll.
type CastVoteCommand struct {
	PollID   string
	UserID   string
	OptionID string
}

type CastVoteResult struct {
	OptionID string
}

// VoteUseCase is the vote ledger entry point. The ledger keeps exactly one
// live mapping per (poll, user): first vote inserts, a different option swaps
// in place, the same option is a no-op. The write is one conditional upsert
// on the unique key, so a concurrent reader never observes a transient state
// with the participant missing.
type VoteUseCase struct {
	Polls  ports.PollRepository
	Votes  ports.VoteLedger
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	pollID := strings.TrimSpace(cmd.PollID)
	userID := strings.TrimSpace(cmd.UserID)
	optionID := strings.TrimSpace(cmd.OptionID)
	if pollID == "" || userID == "" || optionID == "" {
		logger.Warn("vote cast validation failed",
			"event", "vote_cast_validation_failed",
			"module", "social-polling/poll-feed-service",
			"layer", "application",
			"poll_id", pollID,
			"user_id", userID,
		)
		return CastVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	option, err := uc.Polls.GetOption(ctx, optionID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if option.PollID != pollID {
		logger.Warn("vote cast option mismatch",
			"event", "vote_cast_option_mismatch",
			"module", "social-polling/poll-feed-service",
			"layer", "application",
			"poll_id", pollID,
			"option_id", optionID,
			"option_poll_id", option.PollID,
		)
		return CastVoteResult{}, domainerrors.ErrOptionMismatch
	}

	if err := uc.Votes.UpsertVote(ctx, pollID, userID, optionID, uc.now()); err != nil {
		logger.Error("vote cast persist failed",
			"event", "vote_cast_persist_failed",
			"module", "social-polling/poll-feed-service",
			"layer", "application",
			"poll_id", pollID,
			"user_id", userID,
			"error", err.Error(),
		)
		return CastVoteResult{}, err
	}

	logger.Info("vote cast",
		"event", "vote_cast",
		"module", "social-polling/poll-feed-service",
		"layer", "application",
		"poll_id", pollID,
		"user_id", userID,
		"option_id", optionID,
	)
	return CastVoteResult{OptionID: optionID}, nil
}

func (uc VoteUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
