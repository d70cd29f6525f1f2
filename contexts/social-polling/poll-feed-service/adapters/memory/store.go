package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"pollfeed/contexts/social-polling/poll-feed-service/domain/entities"
	domainerrors "pollfeed/contexts/social-polling/poll-feed-service/domain/errors"
	"pollfeed/contexts/social-polling/poll-feed-service/ports"

	"github.com/google/uuid"
)

type voteKey struct {
	pollID string
	userID string
}

// Store is the in-memory adapter used by tests and local development. One
// RWMutex guards every map; a feed page is assembled under a single read
// lock, which is this adapter's consistency snapshot.
type Store struct {
	mu sync.RWMutex

	polls    map[string]entities.Poll
	options  map[string]entities.Option
	votes    map[voteKey]string
	likes    map[voteKey]time.Time
	comments map[string][]entities.Comment
}

func NewStore(seed []entities.Poll) *Store {
	polls := make(map[string]entities.Poll, len(seed))
	for _, poll := range seed {
		polls[poll.PollID] = poll
	}
	return &Store{
		polls:    polls,
		options:  make(map[string]entities.Option),
		votes:    make(map[voteKey]string),
		likes:    make(map[voteKey]time.Time),
		comments: make(map[string][]entities.Comment),
	}
}

// SeedPoll installs a poll with its options directly, bypassing the create
// command. Tests use it to pin created_at values for ordering checks.
func (s *Store) SeedPoll(poll entities.Poll, options []entities.Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls[poll.PollID] = poll
	for _, option := range options {
		s.options[option.OptionID] = option
	}
}

func (s *Store) CreatePoll(_ context.Context, poll entities.Poll, options []entities.Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.polls[poll.PollID]; exists {
		return domainerrors.ErrConflict
	}
	s.polls[poll.PollID] = poll
	for _, option := range options {
		s.options[option.OptionID] = option
	}
	return nil
}

func (s *Store) GetPoll(_ context.Context, pollID string) (entities.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	poll, ok := s.polls[strings.TrimSpace(pollID)]
	if !ok {
		return entities.Poll{}, domainerrors.ErrPollNotFound
	}
	return poll, nil
}

func (s *Store) GetOption(_ context.Context, optionID string) (entities.Option, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	option, ok := s.options[strings.TrimSpace(optionID)]
	if !ok {
		return entities.Option{}, domainerrors.ErrOptionNotFound
	}
	return option, nil
}

func (s *Store) UpsertVote(_ context.Context, pollID string, userID string, optionID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes[voteKey{pollID: pollID, userID: userID}] = optionID
	return nil
}

func (s *Store) HasLike(_ context.Context, pollID string, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.likes[voteKey{pollID: pollID, userID: userID}]
	return ok, nil
}

func (s *Store) AddLike(_ context.Context, pollID string, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likes[voteKey{pollID: pollID, userID: userID}] = now
	return nil
}

func (s *Store) RemoveLike(_ context.Context, pollID string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.likes, voteKey{pollID: pollID, userID: userID})
	return nil
}

func (s *Store) AppendComment(_ context.Context, comment entities.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[comment.PollID] = append(s.comments[comment.PollID], comment)
	return nil
}

func (s *Store) ListComments(_ context.Context, pollID string) ([]entities.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := append([]entities.Comment(nil), s.comments[strings.TrimSpace(pollID)]...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ListFeedRows(_ context.Context, filter ports.FeedFilter) ([]entities.FeedRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	polls := make([]entities.Poll, 0, len(s.polls))
	for _, poll := range s.polls {
		if filter.CategoryID != "" && poll.CategoryID != filter.CategoryID {
			continue
		}
		if filter.After != nil && !tupleLess(poll.CreatedAt, poll.PollID, filter.After.CreatedAt, filter.After.PollID) {
			continue
		}
		polls = append(polls, poll)
	}

	sort.Slice(polls, func(i, j int) bool {
		return tupleLess(polls[j].CreatedAt, polls[j].PollID, polls[i].CreatedAt, polls[i].PollID)
	})
	if filter.Limit > 0 && len(polls) > filter.Limit {
		polls = polls[:filter.Limit]
	}

	rows := make([]entities.FeedRow, 0, len(polls))
	for _, poll := range polls {
		rows = append(rows, s.buildFeedRowLocked(poll, filter.ViewerID))
	}
	return rows, nil
}

// buildFeedRowLocked enriches one poll while the read lock is held, so every
// count and the viewer fields come from the same snapshot.
func (s *Store) buildFeedRowLocked(poll entities.Poll, viewerID string) entities.FeedRow {
	row := entities.FeedRow{Poll: poll}

	countsByOption := make(map[string]int)
	for key, optionID := range s.votes {
		if key.pollID != poll.PollID {
			continue
		}
		countsByOption[optionID]++
		row.TotalParticipants++
		if viewerID != "" && key.userID == viewerID {
			row.ViewerOptionID = optionID
		}
	}

	for _, option := range s.options {
		if option.PollID != poll.PollID {
			continue
		}
		row.Options = append(row.Options, entities.OptionTally{
			Option:    option,
			VoteCount: countsByOption[option.OptionID],
		})
	}
	sort.Slice(row.Options, func(i, j int) bool {
		return row.Options[i].DisplayOrder < row.Options[j].DisplayOrder
	})

	for key := range s.likes {
		if key.pollID != poll.PollID {
			continue
		}
		row.LikesCount++
		if viewerID != "" && key.userID == viewerID {
			row.ViewerLiked = true
		}
	}
	row.CommentsCount = len(s.comments[poll.PollID])
	return row
}

// tupleLess orders (created_at, id) tuples ascending; feed consumers invert
// it for the descending scan and the exclusive keyset predicate.
func tupleLess(aCreatedAt time.Time, aID string, bCreatedAt time.Time, bID string) bool {
	if !aCreatedAt.Equal(bCreatedAt) {
		return aCreatedAt.Before(bCreatedAt)
	}
	return aID < bID
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.PollRepository = (*Store)(nil)
var _ ports.VoteLedger = (*Store)(nil)
var _ ports.LikeLedger = (*Store)(nil)
var _ ports.CommentLog = (*Store)(nil)
var _ ports.FeedRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
