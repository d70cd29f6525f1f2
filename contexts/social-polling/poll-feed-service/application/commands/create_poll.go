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

// OptionCount is fixed: every poll carries exactly two options.
const OptionCount = 2

const (
	maxTitleChars       = 100
	maxContentChars     = 500
	maxOptionNameChars  = 50
	maxDescriptionChars = 500
)

// CreatePollCommand is the write-model input for poll creation.
type CreatePollCommand struct {
	AuthorID   string
	Title      string
	Content    string
	CategoryID string
	Options    []CreateOptionInput
}

type CreateOptionInput struct {
	Name        string
	Description string
	ImageURL    string
}

type CreatePollResult struct {
	PollID string
}

// PollUseCase creates polls. The poll and both options persist as one unit;
// a failure partway never leaves an option-less poll reachable by the feed.
type PollUseCase struct {
	Polls  ports.PollRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc PollUseCase) CreatePoll(ctx context.Context, cmd CreatePollCommand) (CreatePollResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := validateCreatePoll(cmd); err != nil {
		logger.Warn("poll create validation failed",
			"event", "poll_create_validation_failed",
			"module", "social-polling/poll-feed-service",
			"layer", "application",
			"author_id", strings.TrimSpace(cmd.AuthorID),
			"error", err.Error(),
		)
		return CreatePollResult{}, err
	}

	now := uc.now()
	pollID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CreatePollResult{}, err
	}
	poll := entities.Poll{
		PollID:     pollID,
		Title:      strings.TrimSpace(cmd.Title),
		Content:    strings.TrimSpace(cmd.Content),
		CategoryID: strings.TrimSpace(cmd.CategoryID),
		AuthorID:   strings.TrimSpace(cmd.AuthorID),
		CreatedAt:  now,
	}

	options := make([]entities.Option, 0, len(cmd.Options))
	for index, input := range cmd.Options {
		optionID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return CreatePollResult{}, err
		}
		options = append(options, entities.Option{
			OptionID:     optionID,
			PollID:       pollID,
			Name:         strings.TrimSpace(input.Name),
			Description:  strings.TrimSpace(input.Description),
			ImageURL:     strings.TrimSpace(input.ImageURL),
			DisplayOrder: index,
		})
	}

	if err := uc.Polls.CreatePoll(ctx, poll, options); err != nil {
		logger.Error("poll create persist failed",
			"event", "poll_create_persist_failed",
			"module", "social-polling/poll-feed-service",
			"layer", "application",
			"poll_id", pollID,
			"error", err.Error(),
		)
		return CreatePollResult{}, err
	}

	logger.Info("poll created",
		"event", "poll_created",
		"module", "social-polling/poll-feed-service",
		"layer", "application",
		"poll_id", pollID,
		"author_id", poll.AuthorID,
		"category_id", poll.CategoryID,
	)
	return CreatePollResult{PollID: pollID}, nil
}

func (uc PollUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func validateCreatePoll(cmd CreatePollCommand) error {
	if strings.TrimSpace(cmd.AuthorID) == "" {
		return domainerrors.ErrInvalidPollInput
	}
	if !charsInRange(cmd.Title, 1, maxTitleChars) {
		return domainerrors.ErrInvalidPollInput
	}
	if !charsInRange(cmd.Content, 1, maxContentChars) {
		return domainerrors.ErrInvalidPollInput
	}
	if strings.TrimSpace(cmd.CategoryID) == "" {
		return domainerrors.ErrInvalidPollInput
	}
	if len(cmd.Options) != OptionCount {
		return domainerrors.ErrInvalidPollInput
	}
	for _, option := range cmd.Options {
		if !charsInRange(option.Name, 1, maxOptionNameChars) {
			return domainerrors.ErrInvalidPollInput
		}
		if !charsInRange(option.Description, 1, maxDescriptionChars) {
			return domainerrors.ErrInvalidPollInput
		}
	}
	return nil
}

func charsInRange(value string, min int, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(value))
	return length >= min && length <= max
}
