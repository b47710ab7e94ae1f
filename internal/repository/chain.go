package repository

import (
	"github.com/convention-api/internal/models"
)

// The previous/next links between comments form disjoint doubly-linked
// chains. Both directions live in independently mutable columns, so every
// relink has to write both sides of each touched link itself. planRelink
// computes that full write set from the current neighbor state; callers
// (the SQL transaction, the in-memory mock) apply it atomically.

// chainLookup resolves a comment id to its current previous/next links.
// ok is false when the id does not resolve to an active comment.
type chainLookup func(id int64) (previous, next *int64, ok bool, err error)

// linkWrite is one pending update to a comment's chain columns. Only the
// flagged side(s) change.
type linkWrite struct {
	id          int64
	setPrevious bool
	previous    *int64
	setNext     bool
	next        *int64
}

// planRelink validates a relink of comment id to the given new neighbors and
// returns the writes that keep every touched link reciprocal:
//
//   - the node's own previous/next are replaced,
//   - old neighbors no longer adjacent get their back-pointer cleared,
//   - new neighbors get their back-pointer set, and any comment they
//     previously pointed at gets its own back-pointer cleared.
//
// Self-references and updates that would close a cycle are rejected with
// InvalidChainStateError before any write is produced.
func planRelink(id int64, curPrevious, curNext, newPrevious, newNext *int64, lookup chainLookup) ([]linkWrite, error) {
	if newPrevious != nil && *newPrevious == id {
		return nil, &models.InvalidChainStateError{Reason: "comment cannot be its own previous"}
	}
	if newNext != nil && *newNext == id {
		return nil, &models.InvalidChainStateError{Reason: "comment cannot be its own next"}
	}
	if newPrevious != nil && newNext != nil && *newPrevious == *newNext {
		return nil, &models.InvalidChainStateError{Reason: "previous and next cannot be the same comment"}
	}

	// New neighbors must resolve to active comments.
	var prevOldNext, nextOldPrevious *int64
	if newPrevious != nil {
		_, n, ok, err := lookup(*newPrevious)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &models.NotFoundError{Kind: "comment", ID: *newPrevious}
		}
		prevOldNext = n
	}
	if newNext != nil {
		p, _, ok, err := lookup(*newNext)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &models.NotFoundError{Kind: "comment", ID: *newNext}
		}
		nextOldPrevious = p
	}

	// A cycle exists exactly when the node can reach itself again in the
	// state the writes will produce. The walks overlay the planned changes
	// on the current pointers: the node's old edges and the displaced
	// back-pointers are gone, the new reciprocal edges are in place. Walking
	// raw current pointers instead would falsely reject a reorder of the
	// node within its own chain. Both walks are bounded by a visited set so
	// a corrupt pre-existing cycle cannot loop forever.
	if newNext != nil {
		reaches, err := chainReaches(*newNext, id, func(cid int64) (*int64, error) {
			switch {
			case newPrevious != nil && cid == *newPrevious:
				return &id, nil
			case curPrevious != nil && cid == *curPrevious:
				return nil, nil
			case nextOldPrevious != nil && cid == *nextOldPrevious:
				return nil, nil
			}
			_, n, ok, err := lookup(cid)
			if err != nil || !ok {
				return nil, err
			}
			return n, nil
		})
		if err != nil {
			return nil, err
		}
		if reaches {
			return nil, &models.InvalidChainStateError{Reason: "link would create a cycle"}
		}
	}
	if newPrevious != nil {
		reaches, err := chainReaches(*newPrevious, id, func(cid int64) (*int64, error) {
			switch {
			case newNext != nil && cid == *newNext:
				return &id, nil
			case curNext != nil && cid == *curNext:
				return nil, nil
			case prevOldNext != nil && cid == *prevOldNext:
				return nil, nil
			}
			p, _, ok, err := lookup(cid)
			if err != nil || !ok {
				return nil, err
			}
			return p, nil
		})
		if err != nil {
			return nil, err
		}
		if reaches {
			return nil, &models.InvalidChainStateError{Reason: "link would create a cycle"}
		}
	}

	writes := make(map[int64]*linkWrite)
	setPreviousOf := func(cid int64, v *int64) {
		w := writes[cid]
		if w == nil {
			w = &linkWrite{id: cid}
			writes[cid] = w
		}
		w.setPrevious = true
		w.previous = v
	}
	setNextOf := func(cid int64, v *int64) {
		w := writes[cid]
		if w == nil {
			w = &linkWrite{id: cid}
			writes[cid] = w
		}
		w.setNext = true
		w.next = v
	}

	// Detach old neighbors that are no longer adjacent.
	if curPrevious != nil && (newPrevious == nil || *newPrevious != *curPrevious) {
		setNextOf(*curPrevious, nil)
	}
	if curNext != nil && (newNext == nil || *newNext != *curNext) {
		setPreviousOf(*curNext, nil)
	}

	// Displaced partners of the new neighbors lose their back-pointer.
	if prevOldNext != nil && *prevOldNext != id {
		setPreviousOf(*prevOldNext, nil)
	}
	if nextOldPrevious != nil && *nextOldPrevious != id {
		setNextOf(*nextOldPrevious, nil)
	}

	// The node itself, then the reciprocal side of each new link. These come
	// last so they win over any clearing above when ids coincide.
	setPreviousOf(id, newPrevious)
	setNextOf(id, newNext)
	if newPrevious != nil {
		setNextOf(*newPrevious, &id)
	}
	if newNext != nil {
		setPreviousOf(*newNext, &id)
	}

	out := make([]linkWrite, 0, len(writes))
	for _, w := range writes {
		out = append(out, *w)
	}
	return out, nil
}

// chainReaches reports whether target is reachable from start by repeatedly
// applying step. The walk stops at the first already-visited id.
func chainReaches(start, target int64, step func(int64) (*int64, error)) (bool, error) {
	visited := make(map[int64]bool)
	cur := start
	for {
		if cur == target {
			return true, nil
		}
		if visited[cur] {
			return false, nil
		}
		visited[cur] = true

		next, err := step(cur)
		if err != nil {
			return false, err
		}
		if next == nil {
			return false, nil
		}
		cur = *next
	}
}
