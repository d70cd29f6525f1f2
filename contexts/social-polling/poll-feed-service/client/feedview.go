// Package client carries the optimistic reconciliation layer feed consumers
// run against a cached page sequence.
//
// A user action applies its locally-computed delta to the cached row
// immediately and marks that action kind in flight; the delta math mirrors
// the server ledgers exactly, so a confirmed action keeps the optimistic
// state with no replacement round-trip. A failed action rolls the row back
// and surfaces the error to the caller. At most one vote action and one like
// action may be pending per poll; re-clicks of the same kind are suppressed
// until the pending action resolves.
package client

import (
	"errors"
	"sort"

	"pollfeed/contexts/social-polling/poll-feed-service/domain/entities"
)

var (
	// ErrActionPending reports a suppressed duplicate submission: an action
	// of the same kind is already in flight for that poll.
	ErrActionPending = errors.New("action already pending for poll")
	// ErrRowNotKnown reports a mutation against a poll the view has not
	// cached.
	ErrRowNotKnown = errors.New("poll is not in the cached feed")
)

type actionKind int

const (
	actionVote actionKind = iota
	actionLike
)

// FeedView is the cached feed state of one client session. It is safe for
// the single-consumer usage a client runtime has; it is not a server-side
// cache (the server always computes rows fresh).
type FeedView struct {
	order   []string
	rows    map[string]entities.FeedRow
	pending map[string]map[actionKind]bool
}

func NewFeedView() *FeedView {
	return &FeedView{
		rows:    make(map[string]entities.FeedRow),
		pending: make(map[string]map[actionKind]bool),
	}
}

// Append adds a fetched page to the cache, keeping arrival order. Options
// are re-sorted by display order before the row is stored; display order is
// fixed at creation and never mutated.
func (v *FeedView) Append(rows []entities.FeedRow) {
	for _, row := range rows {
		if _, known := v.rows[row.PollID]; !known {
			v.order = append(v.order, row.PollID)
		}
		sortOptions(row.Options)
		v.rows[row.PollID] = row
	}
}

// Reset drops the cached pages, e.g. when the category filter changes.
func (v *FeedView) Reset() {
	v.order = nil
	v.rows = make(map[string]entities.FeedRow)
	v.pending = make(map[string]map[actionKind]bool)
}

// Rows returns the cached rows in feed order.
func (v *FeedView) Rows() []entities.FeedRow {
	rows := make([]entities.FeedRow, 0, len(v.order))
	for _, pollID := range v.order {
		rows = append(rows, v.rows[pollID])
	}
	return rows
}

func (v *FeedView) Row(pollID string) (entities.FeedRow, bool) {
	row, ok := v.rows[pollID]
	return row, ok
}

// PendingAction is one in-flight optimistic mutation. Exactly one of
// Confirm/Reject must be called when the server responds.
type PendingAction struct {
	view     *FeedView
	pollID   string
	kind     actionKind
	snapshot entities.FeedRow
	resolved bool
}

// Confirm keeps the optimistic state as final. The local delta matches the
// ledger semantics, so no re-fetch is needed.
func (p *PendingAction) Confirm() {
	if p == nil || p.resolved {
		return
	}
	p.resolved = true
	p.view.clearPending(p.pollID, p.kind)
}

// Reject discards the optimistic delta and restores the pre-action row. The
// caller that triggered the action surfaces the server error and reverts any
// dependent UI state.
func (p *PendingAction) Reject() {
	if p == nil || p.resolved {
		return
	}
	p.resolved = true
	p.view.rows[p.pollID] = p.snapshot
	p.view.clearPending(p.pollID, p.kind)
}

// BeginVote applies the vote delta optimistically and marks the vote kind in
// flight. The delta mirrors the vote ledger: first vote adds a participant
// and one tally, a revote moves one unit between options, a same-option
// recast changes nothing.
func (v *FeedView) BeginVote(pollID string, optionID string) (*PendingAction, error) {
	row, ok := v.rows[pollID]
	if !ok {
		return nil, ErrRowNotKnown
	}
	if v.isPending(pollID, actionVote) {
		return nil, ErrActionPending
	}

	snapshot := cloneRow(row)
	previousOptionID := row.ViewerOptionID
	options := make([]entities.OptionTally, len(row.Options))
	copy(options, row.Options)
	for index, option := range options {
		if option.OptionID == previousOptionID && previousOptionID != optionID {
			if option.VoteCount > 0 {
				option.VoteCount--
			}
		}
		if option.OptionID == optionID && previousOptionID != optionID {
			option.VoteCount++
		}
		options[index] = option
	}
	row.Options = options
	if previousOptionID == "" {
		row.TotalParticipants++
	}
	row.ViewerOptionID = optionID
	v.rows[pollID] = row
	v.markPending(pollID, actionVote)

	return &PendingAction{
		view:     v,
		pollID:   pollID,
		kind:     actionVote,
		snapshot: snapshot,
	}, nil
}

// BeginLike applies the like toggle optimistically and marks the like kind
// in flight.
func (v *FeedView) BeginLike(pollID string) (*PendingAction, error) {
	row, ok := v.rows[pollID]
	if !ok {
		return nil, ErrRowNotKnown
	}
	if v.isPending(pollID, actionLike) {
		return nil, ErrActionPending
	}

	snapshot := cloneRow(row)
	if row.ViewerLiked {
		row.ViewerLiked = false
		if row.LikesCount > 0 {
			row.LikesCount--
		}
	} else {
		row.ViewerLiked = true
		row.LikesCount++
	}
	v.rows[pollID] = row
	v.markPending(pollID, actionLike)

	return &PendingAction{
		view:     v,
		pollID:   pollID,
		kind:     actionLike,
		snapshot: snapshot,
	}, nil
}

// NoteCommentAdded bumps the cached comment count after a confirmed comment
// append; the comment log itself lives server-side.
func (v *FeedView) NoteCommentAdded(pollID string) {
	row, ok := v.rows[pollID]
	if !ok {
		return
	}
	row.CommentsCount++
	v.rows[pollID] = row
}

func (v *FeedView) isPending(pollID string, kind actionKind) bool {
	return v.pending[pollID][kind]
}

func (v *FeedView) markPending(pollID string, kind actionKind) {
	if v.pending[pollID] == nil {
		v.pending[pollID] = make(map[actionKind]bool)
	}
	v.pending[pollID][kind] = true
}

func (v *FeedView) clearPending(pollID string, kind actionKind) {
	if kinds, ok := v.pending[pollID]; ok {
		delete(kinds, kind)
		if len(kinds) == 0 {
			delete(v.pending, pollID)
		}
	}
}

func cloneRow(row entities.FeedRow) entities.FeedRow {
	options := make([]entities.OptionTally, len(row.Options))
	copy(options, row.Options)
	row.Options = options
	return row
}

func sortOptions(options []entities.OptionTally) {
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].DisplayOrder < options[j].DisplayOrder
	})
}
