package unit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	pollfeedservice "pollfeed/contexts/social-polling/poll-feed-service"
	"pollfeed/contexts/social-polling/poll-feed-service/domain/entities"
	domainerrors "pollfeed/contexts/social-polling/poll-feed-service/domain/errors"
	httptransport "pollfeed/contexts/social-polling/poll-feed-service/transport/http"
)

func newPollFeedModule() pollfeedservice.Module {
	return pollfeedservice.NewInMemoryModule(nil, nil)
}

func seedPoll(module pollfeedservice.Module, pollID string, categoryID string, createdAt time.Time) {
	module.Store.SeedPoll(
		entities.Poll{
			PollID:     pollID,
			Title:      "poll " + pollID,
			Content:    "content for " + pollID,
			CategoryID: categoryID,
			AuthorID:   "author-1",
			CreatedAt:  createdAt,
		},
		[]entities.Option{
			{OptionID: pollID + "-a", PollID: pollID, Name: "first", Description: "option a", DisplayOrder: 0},
			{OptionID: pollID + "-b", PollID: pollID, Name: "second", Description: "option b", DisplayOrder: 1},
		},
	)
}

func fetchRow(t *testing.T, module pollfeedservice.Module, viewerID string, pollID string) httptransport.FeedItem {
	t.Helper()
	resp, err := module.Handler.FeedHandler(context.Background(), viewerID, "", "", 20)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	for _, item := range resp.Items {
		if item.ID == pollID {
			return item
		}
	}
	t.Fatalf("poll %s not in feed", pollID)
	return httptransport.FeedItem{}
}

func TestVoteSumMatchesParticipants(t *testing.T) {
	module := newPollFeedModule()
	seedPoll(module, "poll-1", "pets", time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))

	voters := []struct {
		userID   string
		optionID string
	}{
		{"user-1", "poll-1-a"},
		{"user-2", "poll-1-a"},
		{"user-3", "poll-1-b"},
		{"user-4", "poll-1-b"},
		{"user-5", "poll-1-a"},
	}
	for _, voter := range voters {
		_, err := module.Handler.CastVoteHandler(
			context.Background(),
			"poll-1",
			voter.userID,
			httptransport.CastVoteRequest{OptionID: voter.optionID},
		)
		if err != nil {
			t.Fatalf("vote by %s: %v", voter.userID, err)
		}
	}

	item := fetchRow(t, module, "", "poll-1")
	sum := 0
	for _, option := range item.Options {
		sum += option.VoteCount
	}
	if sum != item.TotalParticipants {
		t.Fatalf("option sum %d != participants %d", sum, item.TotalParticipants)
	}
	if item.TotalParticipants != len(voters) {
		t.Fatalf("expected %d participants, got %d", len(voters), item.TotalParticipants)
	}
	if item.Options[0].VoteCount != 3 || item.Options[1].VoteCount != 2 {
		t.Fatalf("expected tallies [3 2], got %+v", item.Options)
	}
}

func TestSameOptionRecastIsNoOp(t *testing.T) {
	module := newPollFeedModule()
	seedPoll(module, "poll-1", "pets", time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))

	for i := 0; i < 3; i++ {
		_, err := module.Handler.CastVoteHandler(
			context.Background(),
			"poll-1",
			"user-1",
			httptransport.CastVoteRequest{OptionID: "poll-1-a"},
		)
		if err != nil {
			t.Fatalf("recast %d: %v", i, err)
		}
	}

	item := fetchRow(t, module, "user-1", "poll-1")
	if item.TotalParticipants != 1 {
		t.Fatalf("expected 1 participant after recasts, got %d", item.TotalParticipants)
	}
	if item.Options[0].VoteCount != 1 || item.Options[1].VoteCount != 0 {
		t.Fatalf("expected tallies [1 0], got %+v", item.Options)
	}
	if item.UserOptionID == nil || *item.UserOptionID != "poll-1-a" {
		t.Fatalf("expected viewer option poll-1-a, got %v", item.UserOptionID)
	}
}

func TestRevoteMovesOneUnit(t *testing.T) {
	module := newPollFeedModule()
	seedPoll(module, "poll-1", "pets", time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))

	if _, err := module.Handler.CastVoteHandler(
		context.Background(), "poll-1", "user-1",
		httptransport.CastVoteRequest{OptionID: "poll-1-a"},
	); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if _, err := module.Handler.CastVoteHandler(
		context.Background(), "poll-1", "user-1",
		httptransport.CastVoteRequest{OptionID: "poll-1-b"},
	); err != nil {
		t.Fatalf("revote: %v", err)
	}

	item := fetchRow(t, module, "user-1", "poll-1")
	if item.Options[0].VoteCount != 0 || item.Options[1].VoteCount != 1 {
		t.Fatalf("expected revote to move the unit, got %+v", item.Options)
	}
	if item.TotalParticipants != 1 {
		t.Fatalf("expected participants unchanged at 1, got %d", item.TotalParticipants)
	}
	if item.UserOptionID == nil || *item.UserOptionID != "poll-1-b" {
		t.Fatalf("expected viewer option poll-1-b, got %v", item.UserOptionID)
	}
}

func TestVoteRejectsOptionFromAnotherPoll(t *testing.T) {
	module := newPollFeedModule()
	seedPoll(module, "poll-1", "pets", time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	seedPoll(module, "poll-2", "pets", time.Date(2026, 2, 1, 11, 0, 0, 0, time.UTC))

	_, err := module.Handler.CastVoteHandler(
		context.Background(), "poll-1", "user-1",
		httptransport.CastVoteRequest{OptionID: "poll-2-a"},
	)
	if !errors.Is(err, domainerrors.ErrOptionMismatch) {
		t.Fatalf("expected option mismatch, got %v", err)
	}

	item := fetchRow(t, module, "user-1", "poll-1")
	if item.TotalParticipants != 0 {
		t.Fatalf("rejected vote must not count, got %d participants", item.TotalParticipants)
	}
}

func TestLikeToggleRoundTrip(t *testing.T) {
	module := newPollFeedModule()
	seedPoll(module, "poll-1", "pets", time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))

	first, err := module.Handler.ToggleLikeHandler(context.Background(), "poll-1", "user-1")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !first.Liked {
		t.Fatalf("first toggle should like")
	}

	item := fetchRow(t, module, "user-1", "poll-1")
	if item.LikesCount != 1 || !item.IsLiked {
		t.Fatalf("expected liked row, got likes=%d isLiked=%v", item.LikesCount, item.IsLiked)
	}

	second, err := module.Handler.ToggleLikeHandler(context.Background(), "poll-1", "user-1")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.Liked {
		t.Fatalf("second toggle should unlike")
	}

	item = fetchRow(t, module, "user-1", "poll-1")
	if item.LikesCount != 0 || item.IsLiked {
		t.Fatalf("expected baseline after double toggle, got likes=%d isLiked=%v", item.LikesCount, item.IsLiked)
	}
}

func TestLikeUnknownPoll(t *testing.T) {
	module := newPollFeedModule()

	_, err := module.Handler.ToggleLikeHandler(context.Background(), "missing", "user-1")
	if !errors.Is(err, domainerrors.ErrPollNotFound) {
		t.Fatalf("expected poll not found, got %v", err)
	}
}

func TestFeedPaginationCoversAllWithoutDuplicates(t *testing.T) {
	module := newPollFeedModule()
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	const total = 7
	for i := 0; i < total; i++ {
		seedPoll(module, fmt.Sprintf("poll-%d", i), "pets", base.Add(time.Duration(i)*time.Minute))
	}

	seen := make(map[string]bool)
	cursor := ""
	pages := 0
	for {
		resp, err := module.Handler.FeedHandler(context.Background(), "", "", cursor, 3)
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		for _, item := range resp.Items {
			if seen[item.ID] {
				t.Fatalf("duplicate item %s across pages", item.ID)
			}
			seen[item.ID] = true
		}
		pages++
		if resp.NextCursor == nil {
			break
		}
		cursor = *resp.NextCursor
		if pages > total {
			t.Fatalf("pagination did not terminate")
		}
	}

	if len(seen) != total {
		t.Fatalf("expected %d unique items, got %d", total, len(seen))
	}
	if pages != 3 {
		t.Fatalf("expected 3 pages of limit 3 for %d items, got %d", total, pages)
	}
}

func TestFeedOrdersNewestFirstWithTieBreak(t *testing.T) {
	module := newPollFeedModule()
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	seedPoll(module, "poll-a", "pets", at)
	seedPoll(module, "poll-b", "pets", at)
	seedPoll(module, "poll-c", "pets", at.Add(time.Minute))

	resp, err := module.Handler.FeedHandler(context.Background(), "", "", "", 10)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(resp.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(resp.Items))
	}
	if resp.Items[0].ID != "poll-c" || resp.Items[1].ID != "poll-b" || resp.Items[2].ID != "poll-a" {
		t.Fatalf("expected poll-c, poll-b, poll-a, got %s %s %s",
			resp.Items[0].ID, resp.Items[1].ID, resp.Items[2].ID)
	}
}

func TestFeedLimitOneStillPaginates(t *testing.T) {
	module := newPollFeedModule()
	seedPoll(module, "poll-old", "pets", time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	seedPoll(module, "poll-new", "pets", time.Date(2026, 2, 1, 11, 0, 0, 0, time.UTC))

	first, err := module.Handler.FeedHandler(context.Background(), "", "", "", 1)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Items) != 1 || first.Items[0].ID != "poll-new" {
		t.Fatalf("expected the newest poll alone, got %+v", first.Items)
	}
	if first.NextCursor == nil {
		t.Fatalf("expected a next cursor")
	}

	second, err := module.Handler.FeedHandler(context.Background(), "", "", *first.NextCursor, 1)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Items) != 1 || second.Items[0].ID != "poll-old" {
		t.Fatalf("expected the older poll on page two, got %+v", second.Items)
	}
	if second.NextCursor != nil {
		resp, err := module.Handler.FeedHandler(context.Background(), "", "", *second.NextCursor, 1)
		if err != nil {
			t.Fatalf("third page: %v", err)
		}
		if len(resp.Items) != 0 {
			t.Fatalf("expected an empty page past the end, got %+v", resp.Items)
		}
	}
}

func TestFeedMalformedCursorIsFirstPage(t *testing.T) {
	module := newPollFeedModule()
	seedPoll(module, "poll-1", "pets", time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	seedPoll(module, "poll-2", "pets", time.Date(2026, 2, 1, 11, 0, 0, 0, time.UTC))

	for _, token := range []string{"garbage", "!!!", "bm90LWpzb24", " "} {
		resp, err := module.Handler.FeedHandler(context.Background(), "", "", token, 10)
		if err != nil {
			t.Fatalf("cursor %q: %v", token, err)
		}
		if len(resp.Items) != 2 || resp.Items[0].ID != "poll-2" {
			t.Fatalf("cursor %q should degrade to the first page, got %+v", token, resp.Items)
		}
	}
}

func TestFeedCategoryFilter(t *testing.T) {
	module := newPollFeedModule()
	seedPoll(module, "poll-pets", "pets", time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	seedPoll(module, "poll-food", "food-drink", time.Date(2026, 2, 1, 11, 0, 0, 0, time.UTC))

	resp, err := module.Handler.FeedHandler(context.Background(), "", "pets", "", 10)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != "poll-pets" {
		t.Fatalf("expected only the pets poll, got %+v", resp.Items)
	}

	all, err := module.Handler.FeedHandler(context.Background(), "", "all", "", 10)
	if err != nil {
		t.Fatalf("feed all: %v", err)
	}
	if len(all.Items) != 2 {
		t.Fatalf("categoryId=all should not filter, got %d items", len(all.Items))
	}
}

func TestFeedLimitClamping(t *testing.T) {
	module := newPollFeedModule()
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		seedPoll(module, fmt.Sprintf("poll-%02d", i), "pets", base.Add(time.Duration(i)*time.Minute))
	}

	byDefault, err := module.Handler.FeedHandler(context.Background(), "", "", "", 0)
	if err != nil {
		t.Fatalf("default limit: %v", err)
	}
	if len(byDefault.Items) != 10 {
		t.Fatalf("expected default page of 10, got %d", len(byDefault.Items))
	}

	clamped, err := module.Handler.FeedHandler(context.Background(), "", "", "", 100)
	if err != nil {
		t.Fatalf("oversized limit: %v", err)
	}
	if len(clamped.Items) != 20 {
		t.Fatalf("expected clamp to 20, got %d", len(clamped.Items))
	}
}

func TestCreatePollEndToEnd(t *testing.T) {
	module := newPollFeedModule()

	created, err := module.Handler.CreatePollHandler(context.Background(), "author-1", httptransport.CreatePollRequest{
		Title:      "mountains or beaches",
		Content:    "where would you rather live",
		CategoryID: "travel",
		Options: []httptransport.PollOptionInput{
			{Name: "mountains", Description: "thin air, long views"},
			{Name: "beaches", Description: "salt and sand"},
		},
	})
	if err != nil {
		t.Fatalf("create poll: %v", err)
	}

	if _, err := module.Handler.CastVoteHandler(
		context.Background(), created.PollID, "user-1",
		httptransport.CastVoteRequest{OptionID: firstOptionID(t, module, created.PollID)},
	); err != nil {
		t.Fatalf("vote on created poll: %v", err)
	}

	item := fetchRow(t, module, "user-1", created.PollID)
	if item.TotalParticipants != 1 {
		t.Fatalf("expected 1 participant, got %d", item.TotalParticipants)
	}
	if item.Title != "mountains or beaches" || item.AuthorID != "author-1" {
		t.Fatalf("unexpected created poll row: %+v", item)
	}
}

func TestCreatePollRejectsOversizedTitle(t *testing.T) {
	module := newPollFeedModule()

	long := make([]rune, 101)
	for i := range long {
		long[i] = 'x'
	}
	_, err := module.Handler.CreatePollHandler(context.Background(), "author-1", httptransport.CreatePollRequest{
		Title:      string(long),
		Content:    "too long",
		CategoryID: "misc",
		Options: []httptransport.PollOptionInput{
			{Name: "a", Description: "a"},
			{Name: "b", Description: "b"},
		},
	})
	if !errors.Is(err, domainerrors.ErrInvalidPollInput) {
		t.Fatalf("expected invalid poll input, got %v", err)
	}
}

func TestCommentsAppendAndListOldestFirst(t *testing.T) {
	module := newPollFeedModule()
	seedPoll(module, "poll-1", "pets", time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))

	for _, content := range []string{"first", "second", "third"} {
		_, err := module.Handler.CreateCommentHandler(
			context.Background(), "poll-1", "user-1",
			httptransport.CreateCommentRequest{Content: content},
		)
		if err != nil {
			t.Fatalf("append %q: %v", content, err)
		}
	}

	resp, err := module.Handler.ListCommentsHandler(context.Background(), "poll-1")
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(resp.Items) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(resp.Items))
	}
	for i, want := range []string{"first", "second", "third"} {
		if resp.Items[i].Content != want {
			t.Fatalf("comment %d: expected %q, got %q", i, want, resp.Items[i].Content)
		}
	}

	item := fetchRow(t, module, "", "poll-1")
	if item.CommentsCount != 3 {
		t.Fatalf("expected comments count 3, got %d", item.CommentsCount)
	}
}

func TestCommentRejectsEmptyContent(t *testing.T) {
	module := newPollFeedModule()
	seedPoll(module, "poll-1", "pets", time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))

	_, err := module.Handler.CreateCommentHandler(
		context.Background(), "poll-1", "user-1",
		httptransport.CreateCommentRequest{Content: ""},
	)
	if !errors.Is(err, domainerrors.ErrInvalidCommentInput) {
		t.Fatalf("expected invalid comment input, got %v", err)
	}
}

func firstOptionID(t *testing.T, module pollfeedservice.Module, pollID string) string {
	t.Helper()
	item := fetchRow(t, module, "", pollID)
	if len(item.Options) == 0 {
		t.Fatalf("poll %s has no options", pollID)
	}
	return item.Options[0].ID
}
