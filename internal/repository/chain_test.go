package repository

import (
	"errors"
	"testing"

	"github.com/convention-api/internal/models"
)

// chainState is a map-backed lookup for exercising planRelink without a
// database. Keys are comment ids, values are [previous, next].
type chainState map[int64][2]*int64

func (s chainState) lookup(id int64) (*int64, *int64, bool, error) {
	links, ok := s[id]
	if !ok {
		return nil, nil, false, nil
	}
	return links[0], links[1], true, nil
}

func (s chainState) apply(writes []linkWrite) {
	for _, w := range writes {
		links := s[w.id]
		if w.setPrevious {
			links[0] = w.previous
		}
		if w.setNext {
			links[1] = w.next
		}
		s[w.id] = links
	}
}

func ptr(v int64) *int64 { return &v }

func eq(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func assertLinks(t *testing.T, s chainState, id int64, previous, next *int64) {
	t.Helper()
	links, ok := s[id]
	if !ok {
		t.Fatalf("comment %d missing from state", id)
	}
	if !eq(links[0], previous) {
		t.Errorf("comment %d previous = %v, want %v", id, fmtLink(links[0]), fmtLink(previous))
	}
	if !eq(links[1], next) {
		t.Errorf("comment %d next = %v, want %v", id, fmtLink(links[1]), fmtLink(next))
	}
}

func fmtLink(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func TestPlanRelink_LinksReciprocally(t *testing.T) {
	s := chainState{1: {}, 2: {}}

	writes, err := planRelink(2, nil, nil, ptr(1), nil, s.lookup)
	if err != nil {
		t.Fatalf("planRelink failed: %v", err)
	}
	s.apply(writes)

	assertLinks(t, s, 2, ptr(1), nil)
	assertLinks(t, s, 1, nil, ptr(2))
}

func TestPlanRelink_SpliceBetweenNeighbors(t *testing.T) {
	// A <-> C, then insert B between them.
	s := chainState{
		1: {nil, ptr(3)},
		2: {},
		3: {ptr(1), nil},
	}

	writes, err := planRelink(2, nil, nil, ptr(1), ptr(3), s.lookup)
	if err != nil {
		t.Fatalf("planRelink failed: %v", err)
	}
	s.apply(writes)

	assertLinks(t, s, 1, nil, ptr(2))
	assertLinks(t, s, 2, ptr(1), ptr(3))
	assertLinks(t, s, 3, ptr(2), nil)
}

func TestPlanRelink_DetachClearsOldNeighbors(t *testing.T) {
	// A <-> B <-> C, then detach B entirely.
	s := chainState{
		1: {nil, ptr(2)},
		2: {ptr(1), ptr(3)},
		3: {ptr(2), nil},
	}

	writes, err := planRelink(2, ptr(1), ptr(3), nil, nil, s.lookup)
	if err != nil {
		t.Fatalf("planRelink failed: %v", err)
	}
	s.apply(writes)

	assertLinks(t, s, 1, nil, nil)
	assertLinks(t, s, 2, nil, nil)
	assertLinks(t, s, 3, nil, nil)
}

func TestPlanRelink_DisplacesPreviousPartner(t *testing.T) {
	// A <-> B; linking C after A must displace B's back-pointer.
	s := chainState{
		1: {nil, ptr(2)},
		2: {ptr(1), nil},
		3: {},
	}

	writes, err := planRelink(3, nil, nil, ptr(1), nil, s.lookup)
	if err != nil {
		t.Fatalf("planRelink failed: %v", err)
	}
	s.apply(writes)

	assertLinks(t, s, 1, nil, ptr(3))
	assertLinks(t, s, 3, ptr(1), nil)
	assertLinks(t, s, 2, nil, nil)
}

func TestPlanRelink_RejectsSelfReference(t *testing.T) {
	s := chainState{1: {}}

	for _, tc := range []struct {
		name     string
		previous *int64
		next     *int64
	}{
		{"own previous", ptr(1), nil},
		{"own next", nil, ptr(1)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := planRelink(1, nil, nil, tc.previous, tc.next, s.lookup)
			var chainErr *models.InvalidChainStateError
			if !errors.As(err, &chainErr) {
				t.Errorf("expected InvalidChainStateError, got %v", err)
			}
		})
	}
}

func TestPlanRelink_RejectsSameNeighborBothSides(t *testing.T) {
	s := chainState{1: {}, 2: {}}

	_, err := planRelink(1, nil, nil, ptr(2), ptr(2), s.lookup)
	var chainErr *models.InvalidChainStateError
	if !errors.As(err, &chainErr) {
		t.Errorf("expected InvalidChainStateError, got %v", err)
	}
}

func TestPlanRelink_RejectsCycle(t *testing.T) {
	// A -> B -> C; pointing C's next back at A would close the loop.
	s := chainState{
		1: {nil, ptr(2)},
		2: {ptr(1), ptr(3)},
		3: {ptr(2), nil},
	}

	_, err := planRelink(3, ptr(2), nil, ptr(2), ptr(1), s.lookup)
	var chainErr *models.InvalidChainStateError
	if !errors.As(err, &chainErr) {
		t.Fatalf("expected InvalidChainStateError, got %v", err)
	}
	if chainErr.Reason != "link would create a cycle" {
		t.Errorf("reason = %q", chainErr.Reason)
	}
}

func TestPlanRelink_ReorderWithinChain(t *testing.T) {
	// A -> B -> C, then move C between A and B. The old edges of C are gone
	// in the planned state, so this is not a cycle.
	s := chainState{
		1: {nil, ptr(2)},
		2: {ptr(1), ptr(3)},
		3: {ptr(2), nil},
	}

	writes, err := planRelink(3, ptr(2), nil, ptr(1), ptr(2), s.lookup)
	if err != nil {
		t.Fatalf("planRelink failed: %v", err)
	}
	s.apply(writes)

	assertLinks(t, s, 1, nil, ptr(3))
	assertLinks(t, s, 3, ptr(1), ptr(2))
	assertLinks(t, s, 2, ptr(3), nil)
}

func TestPlanRelink_ReverseTwoNodeChain(t *testing.T) {
	// A -> B becomes B -> A when A takes B as its previous.
	s := chainState{
		1: {nil, ptr(2)},
		2: {ptr(1), nil},
	}

	writes, err := planRelink(1, nil, ptr(2), ptr(2), nil, s.lookup)
	if err != nil {
		t.Fatalf("planRelink failed: %v", err)
	}
	s.apply(writes)

	assertLinks(t, s, 2, nil, ptr(1))
	assertLinks(t, s, 1, ptr(2), nil)
}

func TestPlanRelink_MissingNeighbor(t *testing.T) {
	s := chainState{1: {}}

	_, err := planRelink(1, nil, nil, ptr(99), nil, s.lookup)
	var notFound *models.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Kind != "comment" || notFound.ID != 99 {
		t.Errorf("NotFound = %+v", notFound)
	}
}

func TestPlanRelink_SurvivesCorruptCycle(t *testing.T) {
	// Pre-existing 2 <-> 3 loop must not hang the reachability walk.
	s := chainState{
		1: {},
		2: {ptr(3), ptr(3)},
		3: {ptr(2), ptr(2)},
	}

	writes, err := planRelink(1, nil, nil, nil, ptr(2), s.lookup)
	if err != nil {
		t.Fatalf("planRelink failed: %v", err)
	}
	if len(writes) == 0 {
		t.Error("expected writes")
	}
}
