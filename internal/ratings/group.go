// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package ratings

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// Grouper turns a Source into a sequence of per-user groups.
//
//	g := ratings.NewGrouper(src)
//	for {
//	    user, err := g.Next()
//	    if errors.Is(err, io.EOF) { break }
//	    for {
//	        ev, ok, err := g.Event()
//	        if !ok { break }
//	        ...
//	    }
//	}
//
// Only one event of lookahead is held, so memory does not grow with input size
// apart from the set of user ids already closed.
type Grouper struct {
	src Source

	current int
	inGroup bool
	pending *Event
	done    bool
	err     error

	closed map[int]struct{}
}

// NewGrouper wraps src.
func NewGrouper(src Source) *Grouper {
	return &Grouper{src: src, closed: make(map[int]struct{})}
}

// Next advances to the next user group and returns its user id.
// Unread events of the current group are discarded.
// It returns io.EOF when the source is exhausted and ErrUngrouped when a user id
// reappears after its group ended.
func (g *Grouper) Next() (int, error) {
	if g.err != nil {
		return 0, g.err
	}
	for g.inGroup {
		if _, ok, err := g.Event(); err != nil {
			return 0, err
		} else if !ok {
			break
		}
	}

	if g.pending == nil {
		if g.done {
			return 0, io.EOF
		}
		if err := g.fill(); err != nil {
			return 0, err
		}
		if g.pending == nil {
			return 0, io.EOF
		}
	}

	user := g.pending.UserID
	if _, seen := g.closed[user]; seen {
		g.err = fmt.Errorf("%w: user %d appears in more than one run", ErrUngrouped, user)
		return 0, g.err
	}

	g.current = user
	g.inGroup = true
	return user, nil
}

// Event returns the next event of the current group.
// ok is false once the group is exhausted.
func (g *Grouper) Event() (Event, bool, error) {
	if g.err != nil {
		return Event{}, false, g.err
	}
	if !g.inGroup {
		return Event{}, false, nil
	}

	if g.pending == nil && !g.done {
		if err := g.fill(); err != nil {
			return Event{}, false, err
		}
	}

	if g.pending == nil || g.pending.UserID != g.current {
		g.closed[g.current] = struct{}{}
		g.inGroup = false
		return Event{}, false, nil
	}

	ev := *g.pending
	g.pending = nil
	return ev, true, nil
}

func (g *Grouper) fill() error {
	ev, err := g.src.Next()
	if errors.Is(err, io.EOF) {
		g.done = true
		return nil
	}
	if err != nil {
		g.err = err
		return err
	}
	g.pending = &ev
	return nil
}

// SortByUser orders events by user id, keeping the original order of each
// user's events. It is the pre-sort path for sources that are not grouped.
func SortByUser(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].UserID < events[j].UserID
	})
}

// Sorted drains src, sorts the events by user and returns a replaying source.
func Sorted(src Source) (*SliceSource, error) {
	events, err := ReadAll(src)
	if err != nil {
		return nil, err
	}
	SortByUser(events)
	return NewSliceSource(events), nil
}
