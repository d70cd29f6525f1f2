package queries

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	application "pollfeed/contexts/social-polling/poll-feed-service/application"
	"pollfeed/contexts/social-polling/poll-feed-service/domain/cursor"
	"pollfeed/contexts/social-polling/poll-feed-service/domain/entities"
	"pollfeed/contexts/social-polling/poll-feed-service/ports"
)

const (
	defaultFeedLimit = 10
	maxFeedLimit     = 20
)

// FeedQuery is one page request. Cursor is the opaque token from the
// previous page; an unset or undecodable cursor serves the first page.
// ViewerID is empty for anonymous reads.
type FeedQuery struct {
	CategoryID string
	Cursor     string
	Limit      int
	ViewerID   string
}

type FeedResult struct {
	Rows       []entities.FeedRow
	NextCursor string
}

// FeedUseCase aggregates the reverse-chronological feed. Ordering is strictly
// descending by (created_at, id); the id tie-break gives a total order, so
// paging is stable, gap-free, and duplicate-free even under concurrent
// inserts. It fetches limit+1 rows and derives the continuation cursor from
// the last emitted row instead of running a separate existence check.
type FeedUseCase struct {
	Feed   ports.FeedRepository
	Logger *slog.Logger
}

func (uc FeedUseCase) Page(ctx context.Context, query FeedQuery) (FeedResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	limit := clampLimit(query.Limit)

	var after *cursor.Position
	if position, ok := cursor.Decode(query.Cursor); ok {
		after = &position
	}

	categoryID := strings.TrimSpace(query.CategoryID)
	if strings.EqualFold(categoryID, "all") {
		categoryID = ""
	}

	rows, err := uc.Feed.ListFeedRows(ctx, ports.FeedFilter{
		CategoryID: categoryID,
		After:      after,
		Limit:      limit + 1,
		ViewerID:   strings.TrimSpace(query.ViewerID),
	})
	if err != nil {
		logger.Error("feed page failed",
			"event", "feed_page_failed",
			"module", "social-polling/poll-feed-service",
			"layer", "application",
			"category_id", categoryID,
			"error", err.Error(),
		)
		return FeedResult{}, err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for index := range rows {
		sortOptionsByDisplayOrder(rows[index].Options)
	}

	nextCursor := ""
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		nextCursor = cursor.Encode(last.CreatedAt, last.PollID)
	}

	logger.Info("feed page served",
		"event", "feed_page_served",
		"module", "social-polling/poll-feed-service",
		"layer", "application",
		"category_id", categoryID,
		"rows", len(rows),
		"has_next_cursor", nextCursor != "",
	)
	return FeedResult{
		Rows:       rows,
		NextCursor: nextCursor,
	}, nil
}

// clampLimit applies the page-size bounds. Values above the maximum clamp
// down; zero and negatives take the default. Small explicit limits are
// honored as-is so callers can probe page boundaries.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultFeedLimit
	}
	if limit > maxFeedLimit {
		return maxFeedLimit
	}
	return limit
}

func sortOptionsByDisplayOrder(options []entities.OptionTally) {
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].DisplayOrder < options[j].DisplayOrder
	})
}
