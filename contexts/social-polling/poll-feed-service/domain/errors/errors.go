package errors

import "errors"

var (
	ErrInvalidPollInput    = errors.New("invalid poll input")
	ErrInvalidVoteInput    = errors.New("invalid vote input")
	ErrInvalidLikeInput    = errors.New("invalid like input")
	ErrInvalidCommentInput = errors.New("invalid comment input")
	ErrPollNotFound        = errors.New("poll not found")
	ErrOptionNotFound      = errors.New("option not found")
	ErrOptionMismatch      = errors.New("option does not belong to poll")
	ErrConflict            = errors.New("storage conflict")
)
