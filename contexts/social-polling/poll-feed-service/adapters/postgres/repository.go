package postgresadapter

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"pollfeed/contexts/social-polling/poll-feed-service/domain/entities"
	domainerrors "pollfeed/contexts/social-polling/poll-feed-service/domain/errors"
	"pollfeed/contexts/social-polling/poll-feed-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreatePoll(ctx context.Context, poll entities.Poll, options []entities.Option) error {
	pollRow := pollModelFromEntity(poll)
	optionRows := make([]optionModel, 0, len(options))
	for _, option := range options {
		optionRows = append(optionRows, optionModelFromEntity(option))
	}

	// Poll and options land in one transaction; a failure partway rolls the
	// poll back so the feed never sees an option-less poll.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pollRow).Error; err != nil {
			return err
		}
		if err := tx.Create(&optionRows).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("pollfeed_repo_create_poll_failed", err,
			"poll_id", strings.TrimSpace(poll.PollID),
		)
	}
	return nil
}

func (r *Repository) GetPoll(ctx context.Context, pollID string) (entities.Poll, error) {
	var row pollModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(pollID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Poll{}, domainerrors.ErrPollNotFound
		}
		return entities.Poll{}, r.logError("pollfeed_repo_get_poll_failed", err, "poll_id", strings.TrimSpace(pollID))
	}
	return row.toEntity(), nil
}

func (r *Repository) GetOption(ctx context.Context, optionID string) (entities.Option, error) {
	var row optionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(optionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Option{}, domainerrors.ErrOptionNotFound
		}
		return entities.Option{}, r.logError("pollfeed_repo_get_option_failed", err, "option_id", strings.TrimSpace(optionID))
	}
	return row.toEntity(), nil
}

// UpsertVote is the ledger's single conditional write: the unique key on
// (poll_id, user_id) makes a first vote insert, a revote swap the option in
// place, and concurrent casts for the same key resolve last-writer-wins.
func (r *Repository) UpsertVote(ctx context.Context, pollID string, userID string, optionID string, now time.Time) error {
	row := participantModel{
		PollID:    strings.TrimSpace(pollID),
		UserID:    strings.TrimSpace(userID),
		OptionID:  strings.TrimSpace(optionID),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "poll_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"option_id":  row.OptionID,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("pollfeed_repo_upsert_vote_failed", create.Error,
			"poll_id", row.PollID,
			"user_id", row.UserID,
		)
	}
	return nil
}

func (r *Repository) HasLike(ctx context.Context, pollID string, userID string) (bool, error) {
	var row likeModel
	err := r.db.WithContext(ctx).
		Where("poll_id = ?", strings.TrimSpace(pollID)).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, r.logError("pollfeed_repo_has_like_failed", err,
			"poll_id", strings.TrimSpace(pollID),
			"user_id", strings.TrimSpace(userID),
		)
	}
	return true, nil
}

func (r *Repository) AddLike(ctx context.Context, pollID string, userID string, now time.Time) error {
	row := likeModel{
		PollID:    strings.TrimSpace(pollID),
		UserID:    strings.TrimSpace(userID),
		CreatedAt: now.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("pollfeed_repo_add_like_failed", err,
			"poll_id", row.PollID,
			"user_id", row.UserID,
		)
	}
	return nil
}

func (r *Repository) RemoveLike(ctx context.Context, pollID string, userID string) error {
	err := r.db.WithContext(ctx).
		Where("poll_id = ?", strings.TrimSpace(pollID)).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Delete(&likeModel{}).
		Error
	if err != nil {
		return r.logError("pollfeed_repo_remove_like_failed", err,
			"poll_id", strings.TrimSpace(pollID),
			"user_id", strings.TrimSpace(userID),
		)
	}
	return nil
}

func (r *Repository) AppendComment(ctx context.Context, comment entities.Comment) error {
	row := commentModelFromEntity(comment)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("pollfeed_repo_append_comment_failed", err,
			"poll_id", row.PollID,
			"comment_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) ListComments(ctx context.Context, pollID string) ([]entities.Comment, error) {
	var rows []commentModel
	err := r.db.WithContext(ctx).
		Where("poll_id = ?", strings.TrimSpace(pollID)).
		Order("created_at ASC, id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("pollfeed_repo_list_comments_failed", err,
			"poll_id", strings.TrimSpace(pollID),
		)
	}
	items := make([]entities.Comment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// ListFeedRows assembles one feed page inside a repeatable-read read-only
// transaction: the page rows, per-option tallies, like/comment counts, and
// viewer state all come from the same database snapshot.
func (r *Repository) ListFeedRows(ctx context.Context, filter ports.FeedFilter) ([]entities.FeedRow, error) {
	tx := r.db.WithContext(ctx).Begin(&sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if tx.Error != nil {
		return nil, r.logError("pollfeed_repo_feed_begin_failed", tx.Error)
	}
	defer tx.Rollback()

	rows, err := r.listFeedRowsTx(tx, filter)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, r.logError("pollfeed_repo_feed_commit_failed", err)
	}
	return rows, nil
}

func (r *Repository) listFeedRowsTx(tx *gorm.DB, filter ports.FeedFilter) ([]entities.FeedRow, error) {
	pollQuery := tx.Model(&pollModel{})
	if filter.CategoryID != "" {
		pollQuery = pollQuery.Where("category_id = ?", filter.CategoryID)
	}
	if filter.After != nil {
		pollQuery = pollQuery.Where("(created_at, id) < (?, ?)", filter.After.CreatedAt.UTC(), filter.After.PollID)
	}

	var pollRows []pollModel
	if err := pollQuery.
		Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Find(&pollRows).Error; err != nil {
		return nil, r.logError("pollfeed_repo_feed_polls_failed", err,
			"category_id", filter.CategoryID,
		)
	}
	if len(pollRows) == 0 {
		return nil, nil
	}

	pollIDs := make([]string, 0, len(pollRows))
	for _, row := range pollRows {
		pollIDs = append(pollIDs, row.ID)
	}

	var tallyRows []optionTallyRow
	err := tx.
		Table("poll_options AS o").
		Select("o.id, o.poll_id, o.name, o.description, o.image_url, o.display_order, COUNT(p.user_id) AS vote_count").
		Joins("LEFT JOIN poll_participants AS p ON p.option_id = o.id").
		Where("o.poll_id IN ?", pollIDs).
		Group("o.id, o.poll_id, o.name, o.description, o.image_url, o.display_order").
		Order("o.poll_id, o.display_order ASC").
		Scan(&tallyRows).
		Error
	if err != nil {
		return nil, r.logError("pollfeed_repo_feed_options_failed", err)
	}

	likeCounts, err := r.countByPoll(tx, "poll_likes", pollIDs)
	if err != nil {
		return nil, err
	}
	commentCounts, err := r.countByPoll(tx, "poll_comments", pollIDs)
	if err != nil {
		return nil, err
	}

	viewerOptions := make(map[string]string)
	viewerLikes := make(map[string]bool)
	if filter.ViewerID != "" {
		var participantRows []participantModel
		if err := tx.
			Table("poll_participants").
			Where("poll_id IN ?", pollIDs).
			Where("user_id = ?", filter.ViewerID).
			Find(&participantRows).Error; err != nil {
			return nil, r.logError("pollfeed_repo_feed_viewer_votes_failed", err)
		}
		for _, row := range participantRows {
			viewerOptions[row.PollID] = row.OptionID
		}

		var likeRows []likeModel
		if err := tx.
			Table("poll_likes").
			Where("poll_id IN ?", pollIDs).
			Where("user_id = ?", filter.ViewerID).
			Find(&likeRows).Error; err != nil {
			return nil, r.logError("pollfeed_repo_feed_viewer_likes_failed", err)
		}
		for _, row := range likeRows {
			viewerLikes[row.PollID] = true
		}
	}

	talliesByPoll := make(map[string][]entities.OptionTally, len(pollRows))
	participantsByPoll := make(map[string]int, len(pollRows))
	for _, tally := range tallyRows {
		talliesByPoll[tally.PollID] = append(talliesByPoll[tally.PollID], tally.toEntity())
		participantsByPoll[tally.PollID] += tally.VoteCount
	}

	rows := make([]entities.FeedRow, 0, len(pollRows))
	for _, pollRow := range pollRows {
		rows = append(rows, entities.FeedRow{
			Poll:              pollRow.toEntity(),
			Options:           talliesByPoll[pollRow.ID],
			TotalParticipants: participantsByPoll[pollRow.ID],
			LikesCount:        likeCounts[pollRow.ID],
			CommentsCount:     commentCounts[pollRow.ID],
			ViewerOptionID:    viewerOptions[pollRow.ID],
			ViewerLiked:       viewerLikes[pollRow.ID],
		})
	}
	return rows, nil
}

type pollCountRow struct {
	PollID string `gorm:"column:poll_id"`
	Total  int    `gorm:"column:total"`
}

func (r *Repository) countByPoll(tx *gorm.DB, table string, pollIDs []string) (map[string]int, error) {
	var rows []pollCountRow
	err := tx.
		Table(table).
		Select("poll_id, COUNT(*) AS total").
		Where("poll_id IN ?", pollIDs).
		Group("poll_id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("pollfeed_repo_feed_counts_failed", err, "table", table)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.PollID] = row.Total
	}
	return counts, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "social-polling/poll-feed-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("pollfeed repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.PollRepository = (*Repository)(nil)
var _ ports.VoteLedger = (*Repository)(nil)
var _ ports.LikeLedger = (*Repository)(nil)
var _ ports.CommentLog = (*Repository)(nil)
var _ ports.FeedRepository = (*Repository)(nil)
