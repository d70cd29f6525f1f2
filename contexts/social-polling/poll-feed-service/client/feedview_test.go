package client

import (
	"errors"
	"testing"
	"time"

	"pollfeed/contexts/social-polling/poll-feed-service/domain/entities"
)

func twoOptionRow(pollID string, votesA int, votesB int) entities.FeedRow {
	return entities.FeedRow{
		Poll: entities.Poll{
			PollID:    pollID,
			Title:     "poll " + pollID,
			CreatedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		},
		Options: []entities.OptionTally{
			{Option: entities.Option{OptionID: pollID + "-a", PollID: pollID, DisplayOrder: 0}, VoteCount: votesA},
			{Option: entities.Option{OptionID: pollID + "-b", PollID: pollID, DisplayOrder: 1}, VoteCount: votesB},
		},
		TotalParticipants: votesA + votesB,
	}
}

func TestAppendKeepsOrderAndSortsOptions(t *testing.T) {
	view := NewFeedView()
	shuffled := twoOptionRow("poll-1", 0, 0)
	shuffled.Options[0], shuffled.Options[1] = shuffled.Options[1], shuffled.Options[0]
	view.Append([]entities.FeedRow{shuffled, twoOptionRow("poll-2", 1, 2)})

	rows := view.Rows()
	if len(rows) != 2 || rows[0].PollID != "poll-1" || rows[1].PollID != "poll-2" {
		t.Fatalf("expected arrival order, got %+v", rows)
	}
	if rows[0].Options[0].DisplayOrder != 0 || rows[0].Options[1].DisplayOrder != 1 {
		t.Fatalf("expected options re-sorted by display order, got %+v", rows[0].Options)
	}
}

func TestBeginVoteFirstVoteDelta(t *testing.T) {
	view := NewFeedView()
	view.Append([]entities.FeedRow{twoOptionRow("poll-1", 3, 4)})

	action, err := view.BeginVote("poll-1", "poll-1-a")
	if err != nil {
		t.Fatalf("begin vote: %v", err)
	}

	row, _ := view.Row("poll-1")
	if row.Options[0].VoteCount != 4 || row.Options[1].VoteCount != 4 {
		t.Fatalf("expected tallies [4 4], got %+v", row.Options)
	}
	if row.TotalParticipants != 8 {
		t.Fatalf("expected participants 8, got %d", row.TotalParticipants)
	}
	if row.ViewerOptionID != "poll-1-a" {
		t.Fatalf("expected viewer option set, got %q", row.ViewerOptionID)
	}

	action.Confirm()
	row, _ = view.Row("poll-1")
	if row.Options[0].VoteCount != 4 {
		t.Fatalf("confirm must keep the optimistic state, got %+v", row.Options)
	}
}

func TestBeginVoteRevoteMovesOneUnit(t *testing.T) {
	view := NewFeedView()
	row := twoOptionRow("poll-1", 3, 4)
	row.ViewerOptionID = "poll-1-a"
	view.Append([]entities.FeedRow{row})

	action, err := view.BeginVote("poll-1", "poll-1-b")
	if err != nil {
		t.Fatalf("begin revote: %v", err)
	}
	got, _ := view.Row("poll-1")
	if got.Options[0].VoteCount != 2 || got.Options[1].VoteCount != 5 {
		t.Fatalf("expected tallies [2 5], got %+v", got.Options)
	}
	if got.TotalParticipants != 7 {
		t.Fatalf("revote must not change participants, got %d", got.TotalParticipants)
	}
	action.Confirm()
}

func TestBeginVoteSameOptionIsNoOpDelta(t *testing.T) {
	view := NewFeedView()
	row := twoOptionRow("poll-1", 3, 4)
	row.ViewerOptionID = "poll-1-a"
	view.Append([]entities.FeedRow{row})

	action, err := view.BeginVote("poll-1", "poll-1-a")
	if err != nil {
		t.Fatalf("begin same-option recast: %v", err)
	}
	got, _ := view.Row("poll-1")
	if got.Options[0].VoteCount != 3 || got.Options[1].VoteCount != 4 || got.TotalParticipants != 7 {
		t.Fatalf("same-option recast must change nothing, got %+v", got)
	}
	action.Confirm()
}

func TestBeginVoteRejectRestoresSnapshot(t *testing.T) {
	view := NewFeedView()
	view.Append([]entities.FeedRow{twoOptionRow("poll-1", 3, 4)})

	action, err := view.BeginVote("poll-1", "poll-1-b")
	if err != nil {
		t.Fatalf("begin vote: %v", err)
	}
	action.Reject()

	row, _ := view.Row("poll-1")
	if row.Options[0].VoteCount != 3 || row.Options[1].VoteCount != 4 {
		t.Fatalf("expected rollback to [3 4], got %+v", row.Options)
	}
	if row.TotalParticipants != 7 || row.ViewerOptionID != "" {
		t.Fatalf("expected full rollback, got %+v", row)
	}

	if _, err := view.BeginVote("poll-1", "poll-1-b"); err != nil {
		t.Fatalf("vote should be allowed again after reject: %v", err)
	}
}

func TestBeginVoteSuppressesDuplicateWhilePending(t *testing.T) {
	view := NewFeedView()
	view.Append([]entities.FeedRow{twoOptionRow("poll-1", 0, 0)})

	action, err := view.BeginVote("poll-1", "poll-1-a")
	if err != nil {
		t.Fatalf("begin vote: %v", err)
	}
	if _, err := view.BeginVote("poll-1", "poll-1-b"); !errors.Is(err, ErrActionPending) {
		t.Fatalf("expected pending suppression, got %v", err)
	}

	like, err := view.BeginLike("poll-1")
	if err != nil {
		t.Fatalf("like of a different kind must not be suppressed: %v", err)
	}
	like.Confirm()
	action.Confirm()

	if _, err := view.BeginVote("poll-1", "poll-1-b"); err != nil {
		t.Fatalf("vote should be allowed after confirm: %v", err)
	}
}

func TestBeginLikeToggleAndRollback(t *testing.T) {
	view := NewFeedView()
	row := twoOptionRow("poll-1", 0, 0)
	row.LikesCount = 2
	view.Append([]entities.FeedRow{row})

	action, err := view.BeginLike("poll-1")
	if err != nil {
		t.Fatalf("begin like: %v", err)
	}
	got, _ := view.Row("poll-1")
	if got.LikesCount != 3 || !got.ViewerLiked {
		t.Fatalf("expected optimistic like, got likes=%d liked=%v", got.LikesCount, got.ViewerLiked)
	}
	action.Reject()

	got, _ = view.Row("poll-1")
	if got.LikesCount != 2 || got.ViewerLiked {
		t.Fatalf("expected rollback, got likes=%d liked=%v", got.LikesCount, got.ViewerLiked)
	}
}

func TestBeginLikeUnlikeFloorsAtZero(t *testing.T) {
	view := NewFeedView()
	row := twoOptionRow("poll-1", 0, 0)
	row.ViewerLiked = true
	view.Append([]entities.FeedRow{row})

	action, err := view.BeginLike("poll-1")
	if err != nil {
		t.Fatalf("begin unlike: %v", err)
	}
	got, _ := view.Row("poll-1")
	if got.LikesCount != 0 || got.ViewerLiked {
		t.Fatalf("expected floor at zero, got likes=%d liked=%v", got.LikesCount, got.ViewerLiked)
	}
	action.Confirm()
}

func TestBeginVoteUnknownRow(t *testing.T) {
	view := NewFeedView()
	if _, err := view.BeginVote("missing", "opt"); !errors.Is(err, ErrRowNotKnown) {
		t.Fatalf("expected unknown row error, got %v", err)
	}
	if _, err := view.BeginLike("missing"); !errors.Is(err, ErrRowNotKnown) {
		t.Fatalf("expected unknown row error, got %v", err)
	}
}

func TestNoteCommentAdded(t *testing.T) {
	view := NewFeedView()
	view.Append([]entities.FeedRow{twoOptionRow("poll-1", 0, 0)})

	view.NoteCommentAdded("poll-1")
	view.NoteCommentAdded("poll-1")
	view.NoteCommentAdded("missing")

	row, _ := view.Row("poll-1")
	if row.CommentsCount != 2 {
		t.Fatalf("expected comments count 2, got %d", row.CommentsCount)
	}
}

func TestResetDropsStateAndPending(t *testing.T) {
	view := NewFeedView()
	view.Append([]entities.FeedRow{twoOptionRow("poll-1", 0, 0)})
	if _, err := view.BeginVote("poll-1", "poll-1-a"); err != nil {
		t.Fatalf("begin vote: %v", err)
	}

	view.Reset()
	if len(view.Rows()) != 0 {
		t.Fatalf("expected empty view after reset")
	}

	view.Append([]entities.FeedRow{twoOptionRow("poll-1", 0, 0)})
	if _, err := view.BeginVote("poll-1", "poll-1-a"); err != nil {
		t.Fatalf("pending flags must not survive reset: %v", err)
	}
}
