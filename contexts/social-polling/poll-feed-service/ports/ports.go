package ports

import (
	"context"
	"time"

	"pollfeed/contexts/social-polling/poll-feed-service/domain/cursor"
	"pollfeed/contexts/social-polling/poll-feed-service/domain/entities"
)

// FeedFilter is the storage-level page request. After is nil for the first
// page; otherwise rows strictly after that position in descending
// (created_at, id) order are returned. Limit is the raw row count to fetch;
// the aggregator passes page size + 1 to detect a next page.
type FeedFilter struct {
	CategoryID string
	After      *cursor.Position
	Limit      int
	ViewerID   string
}

// FeedRepository produces enriched feed rows. Implementations must compute
// every count and the viewer fields of a page inside one consistency
// snapshot, so a row never shows totals that disagree with each other.
type FeedRepository interface {
	ListFeedRows(ctx context.Context, filter FeedFilter) ([]entities.FeedRow, error)
}

// PollRepository owns poll and option records. CreatePoll persists the poll
// and both options as a single unit; a partial poll must never become
// reachable.
type PollRepository interface {
	CreatePoll(ctx context.Context, poll entities.Poll, options []entities.Option) error
	GetPoll(ctx context.Context, pollID string) (entities.Poll, error)
	GetOption(ctx context.Context, optionID string) (entities.Option, error)
}

// VoteLedger enforces "at most one live option per (poll, user)".
// UpsertVote is one atomic conditional write on that unique key: first vote
// inserts, revote swaps the option in place, same-option recast is a no-op.
// Concurrent casts for the same key resolve last-writer-wins.
type VoteLedger interface {
	UpsertVote(ctx context.Context, pollID string, userID string, optionID string, now time.Time) error
}

// LikeLedger is the per-(poll, user) liked/not-liked mapping. The toggle on
// top of it is read-then-write, not atomic; see the use case.
type LikeLedger interface {
	HasLike(ctx context.Context, pollID string, userID string) (bool, error)
	AddLike(ctx context.Context, pollID string, userID string, now time.Time) error
	RemoveLike(ctx context.Context, pollID string, userID string) error
}

// CommentLog is append-only, listed ascending by creation time.
type CommentLog interface {
	AppendComment(ctx context.Context, comment entities.Comment) error
	ListComments(ctx context.Context, pollID string) ([]entities.Comment, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
