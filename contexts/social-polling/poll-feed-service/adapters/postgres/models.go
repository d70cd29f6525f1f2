package postgresadapter

import (
	"strings"
	"time"

	"pollfeed/contexts/social-polling/poll-feed-service/domain/entities"
)

type pollModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	Title      string    `gorm:"column:title"`
	Content    string    `gorm:"column:content"`
	CategoryID string    `gorm:"column:category_id"`
	AuthorID   string    `gorm:"column:author_id"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (pollModel) TableName() string {
	return "polls"
}

func pollModelFromEntity(poll entities.Poll) pollModel {
	row := pollModel{
		ID:         strings.TrimSpace(poll.PollID),
		Title:      poll.Title,
		Content:    poll.Content,
		CategoryID: strings.TrimSpace(poll.CategoryID),
		AuthorID:   strings.TrimSpace(poll.AuthorID),
		CreatedAt:  poll.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m pollModel) toEntity() entities.Poll {
	return entities.Poll{
		PollID:     m.ID,
		Title:      m.Title,
		Content:    m.Content,
		CategoryID: m.CategoryID,
		AuthorID:   m.AuthorID,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

type optionModel struct {
	ID           string  `gorm:"column:id;primaryKey"`
	PollID       string  `gorm:"column:poll_id"`
	Name         string  `gorm:"column:name"`
	Description  string  `gorm:"column:description"`
	ImageURL     *string `gorm:"column:image_url"`
	DisplayOrder int     `gorm:"column:display_order"`
}

func (optionModel) TableName() string {
	return "poll_options"
}

func optionModelFromEntity(option entities.Option) optionModel {
	row := optionModel{
		ID:           strings.TrimSpace(option.OptionID),
		PollID:       strings.TrimSpace(option.PollID),
		Name:         option.Name,
		Description:  option.Description,
		DisplayOrder: option.DisplayOrder,
	}
	if trimmed := strings.TrimSpace(option.ImageURL); trimmed != "" {
		row.ImageURL = &trimmed
	}
	return row
}

func (m optionModel) toEntity() entities.Option {
	option := entities.Option{
		OptionID:     m.ID,
		PollID:       m.PollID,
		Name:         m.Name,
		Description:  m.Description,
		DisplayOrder: m.DisplayOrder,
	}
	if m.ImageURL != nil {
		option.ImageURL = *m.ImageURL
	}
	return option
}

// optionTallyRow carries an option plus its derived vote count out of the
// aggregation join.
type optionTallyRow struct {
	ID           string  `gorm:"column:id"`
	PollID       string  `gorm:"column:poll_id"`
	Name         string  `gorm:"column:name"`
	Description  string  `gorm:"column:description"`
	ImageURL     *string `gorm:"column:image_url"`
	DisplayOrder int     `gorm:"column:display_order"`
	VoteCount    int     `gorm:"column:vote_count"`
}

func (m optionTallyRow) toEntity() entities.OptionTally {
	tally := entities.OptionTally{
		Option: entities.Option{
			OptionID:     m.ID,
			PollID:       m.PollID,
			Name:         m.Name,
			Description:  m.Description,
			DisplayOrder: m.DisplayOrder,
		},
		VoteCount: m.VoteCount,
	}
	if m.ImageURL != nil {
		tally.ImageURL = *m.ImageURL
	}
	return tally
}

type participantModel struct {
	PollID    string    `gorm:"column:poll_id;primaryKey"`
	UserID    string    `gorm:"column:user_id;primaryKey"`
	OptionID  string    `gorm:"column:option_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (participantModel) TableName() string {
	return "poll_participants"
}

type likeModel struct {
	PollID    string    `gorm:"column:poll_id;primaryKey"`
	UserID    string    `gorm:"column:user_id;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (likeModel) TableName() string {
	return "poll_likes"
}

type commentModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	PollID    string    `gorm:"column:poll_id"`
	UserID    string    `gorm:"column:user_id"`
	Content   string    `gorm:"column:content"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (commentModel) TableName() string {
	return "poll_comments"
}

func commentModelFromEntity(comment entities.Comment) commentModel {
	row := commentModel{
		ID:        strings.TrimSpace(comment.CommentID),
		PollID:    strings.TrimSpace(comment.PollID),
		UserID:    strings.TrimSpace(comment.UserID),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m commentModel) toEntity() entities.Comment {
	return entities.Comment{
		CommentID: m.ID,
		PollID:    m.PollID,
		UserID:    m.UserID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.UTC(),
	}
}
