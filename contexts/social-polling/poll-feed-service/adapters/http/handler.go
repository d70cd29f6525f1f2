package httpadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pollfeed/contexts/social-polling/poll-feed-service/application/commands"
	"pollfeed/contexts/social-polling/poll-feed-service/application/queries"
	"pollfeed/contexts/social-polling/poll-feed-service/domain/entities"
	domainerrors "pollfeed/contexts/social-polling/poll-feed-service/domain/errors"
	httptransport "pollfeed/contexts/social-polling/poll-feed-service/transport/http"

	"github.com/go-playground/validator/v10"
)

// validate checks transport DTO shape before commands run their own
// invariant checks.
var validate = validator.New()

type Handler struct {
	Polls    commands.PollUseCase
	Votes    commands.VoteUseCase
	Likes    commands.LikeUseCase
	Comments commands.CommentUseCase
	Feed     queries.FeedUseCase
	Listing  queries.CommentsUseCase
	Logger   *slog.Logger
}

func (h Handler) FeedHandler(
	ctx context.Context,
	viewerID string,
	categoryID string,
	cursorToken string,
	limit int,
) (httptransport.FeedResponse, error) {
	result, err := h.Feed.Page(ctx, queries.FeedQuery{
		CategoryID: categoryID,
		Cursor:     cursorToken,
		Limit:      limit,
		ViewerID:   viewerID,
	})
	if err != nil {
		return httptransport.FeedResponse{}, err
	}

	items := make([]httptransport.FeedItem, 0, len(result.Rows))
	for _, row := range result.Rows {
		items = append(items, mapFeedItem(row))
	}
	resp := httptransport.FeedResponse{Items: items}
	if result.NextCursor != "" {
		next := result.NextCursor
		resp.NextCursor = &next
	}
	return resp, nil
}

func (h Handler) CreatePollHandler(
	ctx context.Context,
	userID string,
	req httptransport.CreatePollRequest,
) (httptransport.CreatePollResponse, error) {
	if err := validateRequest(req); err != nil {
		return httptransport.CreatePollResponse{}, err
	}
	options := make([]commands.CreateOptionInput, 0, len(req.Options))
	for _, option := range req.Options {
		options = append(options, commands.CreateOptionInput{
			Name:        option.Name,
			Description: option.Description,
			ImageURL:    option.ImageURL,
		})
	}
	result, err := h.Polls.CreatePoll(ctx, commands.CreatePollCommand{
		AuthorID:   userID,
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Options:    options,
	})
	if err != nil {
		return httptransport.CreatePollResponse{}, err
	}
	return httptransport.CreatePollResponse{PollID: result.PollID}, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	pollID string,
	userID string,
	req httptransport.CastVoteRequest,
) (httptransport.CastVoteResponse, error) {
	if err := validateRequest(req); err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	result, err := h.Votes.CastVote(ctx, commands.CastVoteCommand{
		PollID:   pollID,
		UserID:   userID,
		OptionID: req.OptionID,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{OptionID: result.OptionID}, nil
}

func (h Handler) ToggleLikeHandler(
	ctx context.Context,
	pollID string,
	userID string,
) (httptransport.LikeResponse, error) {
	result, err := h.Likes.ToggleLike(ctx, commands.ToggleLikeCommand{
		PollID: pollID,
		UserID: userID,
	})
	if err != nil {
		return httptransport.LikeResponse{}, err
	}
	return httptransport.LikeResponse{Liked: result.Liked}, nil
}

func (h Handler) CreateCommentHandler(
	ctx context.Context,
	pollID string,
	userID string,
	req httptransport.CreateCommentRequest,
) (httptransport.CreateCommentResponse, error) {
	if err := validateRequest(req); err != nil {
		return httptransport.CreateCommentResponse{}, err
	}
	comment, err := h.Comments.AppendComment(ctx, commands.AppendCommentCommand{
		PollID:  pollID,
		UserID:  userID,
		Content: req.Content,
	})
	if err != nil {
		return httptransport.CreateCommentResponse{}, err
	}
	return httptransport.CreateCommentResponse{Comment: mapComment(comment)}, nil
}

func (h Handler) ListCommentsHandler(ctx context.Context, pollID string) (httptransport.CommentsResponse, error) {
	comments, err := h.Listing.ListComments(ctx, pollID)
	if err != nil {
		return httptransport.CommentsResponse{}, err
	}
	items := make([]httptransport.CommentPayload, 0, len(comments))
	for _, comment := range comments {
		items = append(items, mapComment(comment))
	}
	return httptransport.CommentsResponse{Items: items}, nil
}

func (h Handler) CategoriesHandler(_ context.Context) httptransport.CategoriesResponse {
	groups := entities.DefaultCategoryGroups()
	payload := make([]httptransport.CategoryGroupPayload, 0, len(groups))
	for _, group := range groups {
		children := make([]httptransport.CategoryPayload, 0, len(group.Children))
		for _, child := range group.Children {
			children = append(children, httptransport.CategoryPayload{
				ID:          child.ID,
				Label:       child.Label,
				Description: child.Description,
			})
		}
		payload = append(payload, httptransport.CategoryGroupPayload{
			ID:       group.ID,
			Label:    group.Label,
			Children: children,
		})
	}
	return httptransport.CategoriesResponse{Groups: payload}
}

// validateRequest maps validator failures onto the validation sentinel so the
// transport error mapper returns field detail with a 400.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		names := make([]string, 0, len(fields))
		for _, field := range fields {
			names = append(names, fmt.Sprintf("%s(%s)", field.Field(), field.Tag()))
		}
		return fmt.Errorf("%w: %s", sentinelFor(req), strings.Join(names, ", "))
	}
	return fmt.Errorf("%w: %s", sentinelFor(req), err.Error())
}

func sentinelFor(req any) error {
	switch req.(type) {
	case httptransport.CreatePollRequest:
		return domainerrors.ErrInvalidPollInput
	case httptransport.CastVoteRequest:
		return domainerrors.ErrInvalidVoteInput
	case httptransport.CreateCommentRequest:
		return domainerrors.ErrInvalidCommentInput
	default:
		return domainerrors.ErrInvalidPollInput
	}
}

func mapFeedItem(row entities.FeedRow) httptransport.FeedItem {
	options := make([]httptransport.FeedOption, 0, len(row.Options))
	for _, option := range row.Options {
		mapped := httptransport.FeedOption{
			ID:           option.OptionID,
			Name:         option.Name,
			Description:  option.Description,
			DisplayOrder: option.DisplayOrder,
			VoteCount:    option.VoteCount,
		}
		if option.ImageURL != "" {
			imageURL := option.ImageURL
			mapped.ImageURL = &imageURL
		}
		options = append(options, mapped)
	}

	item := httptransport.FeedItem{
		ID:                row.PollID,
		Title:             row.Title,
		Content:           row.Content,
		CategoryID:        row.CategoryID,
		CreatedAt:         row.CreatedAt.UTC().Format(time.RFC3339Nano),
		AuthorID:          row.AuthorID,
		TotalParticipants: row.TotalParticipants,
		IsLiked:           row.ViewerLiked,
		LikesCount:        row.LikesCount,
		CommentsCount:     row.CommentsCount,
		Options:           options,
	}
	if row.ViewerOptionID != "" {
		viewerOption := row.ViewerOptionID
		item.UserOptionID = &viewerOption
	}
	return item
}

func mapComment(comment entities.Comment) httptransport.CommentPayload {
	return httptransport.CommentPayload{
		ID:        comment.CommentID,
		Content:   comment.Content,
		UserID:    comment.UserID,
		CreatedAt: comment.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
