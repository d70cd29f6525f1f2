package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type FeedOption struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	ImageURL     *string `json:"imageUrl"`
	DisplayOrder int     `json:"displayOrder"`
	VoteCount    int     `json:"voteCount"`
}

type FeedItem struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Content           string       `json:"content"`
	CategoryID        string       `json:"categoryId"`
	CreatedAt         string       `json:"createdAt"`
	AuthorID          string       `json:"authorId"`
	TotalParticipants int          `json:"totalParticipants"`
	UserOptionID      *string      `json:"userOptionId"`
	IsLiked           bool         `json:"isLiked"`
	LikesCount        int          `json:"likesCount"`
	CommentsCount     int          `json:"commentsCount"`
	Options           []FeedOption `json:"options"`
}

type FeedResponse struct {
	Items      []FeedItem `json:"items"`
	NextCursor *string    `json:"nextCursor"`
}

type PollOptionInput struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"required,max=500"`
	ImageURL    string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

type CreatePollRequest struct {
	Title      string            `json:"title" validate:"required,max=100"`
	Content    string            `json:"content" validate:"required,max=500"`
	CategoryID string            `json:"categoryId" validate:"required"`
	Options    []PollOptionInput `json:"options" validate:"len=2,dive"`
}

type CreatePollResponse struct {
	PollID string `json:"pollId"`
}

type CastVoteRequest struct {
	OptionID string `json:"optionId" validate:"required"`
}

type CastVoteResponse struct {
	OptionID string `json:"optionId"`
}

type LikeResponse struct {
	Liked bool `json:"liked"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

type CommentPayload struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	UserID    string `json:"userId"`
	CreatedAt string `json:"createdAt"`
}

type CreateCommentResponse struct {
	Comment CommentPayload `json:"comment"`
}

type CommentsResponse struct {
	Items []CommentPayload `json:"items"`
}

type CategoryPayload struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

type CategoryGroupPayload struct {
	ID       string            `json:"id"`
	Label    string            `json:"label"`
	Children []CategoryPayload `json:"children"`
}

type CategoriesResponse struct {
	Groups []CategoryGroupPayload `json:"groups"`
}
