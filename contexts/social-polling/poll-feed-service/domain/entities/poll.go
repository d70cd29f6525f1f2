package entities

import "time"

// Poll is a two-option question. All fields are immutable once created.
type Poll struct {
	PollID     string
	Title      string
	Content    string
	CategoryID string
	AuthorID   string
	CreatedAt  time.Time
}

// Option is one of the two choices on a poll. DisplayOrder is assigned at
// creation (0-based) and never changes. Vote counts are derived, not stored
// here; see OptionTally.
type Option struct {
	OptionID     string
	PollID       string
	Name         string
	Description  string
	ImageURL     string
	DisplayOrder int
}

// OptionTally is an option annotated with its derived vote count.
type OptionTally struct {
	Option
	VoteCount int
}

// Comment is one append-only comment on a poll.
type Comment struct {
	CommentID string
	PollID    string
	UserID    string
	Content   string
	CreatedAt time.Time
}

// FeedRow is the per-poll read model the feed returns. It is computed fresh
// per request from the ledgers and never persisted. ViewerOptionID is empty
// and ViewerLiked false for anonymous reads.
//
// Invariant: TotalParticipants equals the sum of option vote counts, because
// the vote ledger keeps at most one live option per (poll, user).
type FeedRow struct {
	Poll
	Options           []OptionTally
	TotalParticipants int
	LikesCount        int
	CommentsCount     int
	ViewerOptionID    string
	ViewerLiked       bool
}
