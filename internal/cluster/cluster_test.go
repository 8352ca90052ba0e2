package cluster

import (
	"testing"
	"time"

	"github.com/mediasort/mediasort/internal/media"
)

var base = time.Date(2022, 1, 1, 12, 0, 0, 0, time.UTC)

func at(offset time.Duration) time.Time {
	return base.Add(offset)
}

func item(id string, ts time.Time) media.Item {
	return media.Item{ID: id, Timestamp: ts}
}

func TestNew_SingletonBoundary(t *testing.T) {
	gap := 2 * time.Hour
	s := New(item("a", base), gap)

	if s.Length != 1 {
		t.Errorf("expected length 1, got %d", s.Length)
	}
	if !s.Start.Equal(base) || !s.End.Equal(base) {
		t.Errorf("expected span [%s, %s], got [%s, %s]", base, base, s.Start, s.End)
	}
	if !s.BoundaryStart.Equal(base.Add(-gap)) {
		t.Errorf("expected boundary start %s, got %s", base.Add(-gap), s.BoundaryStart)
	}
	if !s.BoundaryEnd.Equal(base.Add(gap)) {
		t.Errorf("expected boundary end %s, got %s", base.Add(gap), s.BoundaryEnd)
	}
	if s.ID == "" {
		t.Error("expected a generated set id")
	}
}

func TestFits_StrictBoundaries(t *testing.T) {
	gap := 2 * time.Hour
	s := New(item("a", base), gap)

	if s.Fits(s.BoundaryStart) {
		t.Error("timestamp equal to boundary start must be rejected")
	}
	if s.Fits(s.BoundaryEnd) {
		t.Error("timestamp equal to boundary end must be rejected")
	}
	if !s.Fits(s.BoundaryStart.Add(time.Second)) {
		t.Error("timestamp just inside boundary start must be accepted")
	}
	if !s.Fits(s.BoundaryEnd.Add(-time.Second)) {
		t.Error("timestamp just inside boundary end must be accepted")
	}
}

func TestAdd_GrowsBoundaryMonotonically(t *testing.T) {
	gap := time.Hour
	s := New(item("a", base), gap)
	s.Add(item("b", at(30*time.Minute)))

	if !s.Start.Equal(base) {
		t.Errorf("expected start unchanged at %s, got %s", base, s.Start)
	}
	if !s.End.Equal(at(30 * time.Minute)) {
		t.Errorf("expected end %s, got %s", at(30*time.Minute), s.End)
	}
	if !s.BoundaryEnd.Equal(at(90 * time.Minute)) {
		t.Errorf("expected boundary end %s, got %s", at(90*time.Minute), s.BoundaryEnd)
	}
	if !s.BoundaryStart.Equal(at(-time.Hour)) {
		t.Errorf("expected boundary start %s, got %s", at(-time.Hour), s.BoundaryStart)
	}
	if s.Length != 2 {
		t.Errorf("expected length 2, got %d", s.Length)
	}
}

func TestAdd_InteriorTimestampKeepsBoundary(t *testing.T) {
	gap := time.Hour
	s := New(item("a", base), gap)
	s.Add(item("b", at(40*time.Minute)))

	before := s.BoundaryEnd
	s.Add(item("c", at(20*time.Minute)))

	if !s.BoundaryEnd.Equal(before) {
		t.Errorf("interior add must not move boundary end: had %s, got %s", before, s.BoundaryEnd)
	}
	if s.Length != 3 {
		t.Errorf("expected length 3, got %d", s.Length)
	}
}

func TestUpsert_ChainsTransitivelyCloseItems(t *testing.T) {
	gap := time.Hour
	var sets []*Set

	// Each item is within gap of the previous one, so they chain into a
	// single set even though first and last are far apart.
	times := []time.Duration{0, 45 * time.Minute, 90 * time.Minute, 135 * time.Minute}
	var target *Set
	for i, d := range times {
		target, sets = Upsert(item(string(rune('a'+i)), at(d)), sets, gap)
	}

	if len(sets) != 1 {
		t.Fatalf("expected 1 set, got %d", len(sets))
	}
	if target.Length != 4 {
		t.Errorf("expected 4 items, got %d", target.Length)
	}
	if !target.Start.Equal(base) || !target.End.Equal(at(135*time.Minute)) {
		t.Errorf("unexpected span [%s, %s]", target.Start, target.End)
	}
}

func TestUpsert_FarItemStartsNewSet(t *testing.T) {
	gap := time.Hour
	var sets []*Set

	_, sets = Upsert(item("a", base), sets, gap)
	_, sets = Upsert(item("b", at(3*time.Hour)), sets, gap)

	if len(sets) != 2 {
		t.Fatalf("expected 2 sets, got %d", len(sets))
	}
}

func TestUpsert_ExactBoundaryStartsNewSet(t *testing.T) {
	gap := time.Hour
	var sets []*Set

	_, sets = Upsert(item("a", base), sets, gap)
	// Exactly on the boundary: one full gap after the only member.
	_, sets = Upsert(item("b", at(time.Hour)), sets, gap)

	if len(sets) != 2 {
		t.Fatalf("strict boundary: expected 2 sets, got %d", len(sets))
	}
}

func TestUpsert_FirstFitWinsOverlap(t *testing.T) {
	gap := time.Hour
	var sets []*Set

	_, sets = Upsert(item("a", base), sets, gap)
	_, sets = Upsert(item("b", at(110*time.Minute)), sets, gap)
	if len(sets) != 2 {
		t.Fatalf("expected 2 sets to start with, got %d", len(sets))
	}

	// 55min sits inside both boundaries ((-60, 60) and (50, 170)). The
	// earlier-starting set must win, even though 110min is closer.
	target, sets := Upsert(item("c", at(55*time.Minute)), sets, gap)

	if len(sets) != 2 {
		t.Fatalf("expected 2 sets, got %d", len(sets))
	}
	if !target.Contains("a") {
		t.Error("expected the earliest-starting candidate to win the overlap")
	}
}

func TestUpsert_KeepsSetsSortedByStart(t *testing.T) {
	gap := 30 * time.Minute
	var sets []*Set

	_, sets = Upsert(item("a", at(4*time.Hour)), sets, gap)
	_, sets = Upsert(item("b", at(2*time.Hour)), sets, gap)
	_, sets = Upsert(item("c", base), sets, gap)

	for i := 1; i < len(sets); i++ {
		if sets[i].Start.Before(sets[i-1].Start) {
			t.Fatalf("sets out of order at %d: %s before %s", i, sets[i].Start, sets[i-1].Start)
		}
	}
}

func TestRemove_ShrinksBoundary(t *testing.T) {
	gap := time.Hour
	s := New(item("a", base), gap)
	s.Add(item("b", at(30*time.Minute)))
	s.Add(item("c", at(90*time.Minute)))

	if err := s.Remove("c"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Length != 2 {
		t.Errorf("expected length 2, got %d", s.Length)
	}
	if !s.End.Equal(at(30 * time.Minute)) {
		t.Errorf("expected end to shrink to %s, got %s", at(30*time.Minute), s.End)
	}
	if !s.BoundaryEnd.Equal(at(90 * time.Minute)) {
		t.Errorf("expected boundary end to shrink to %s, got %s", at(90*time.Minute), s.BoundaryEnd)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("set invalid after removal: %v", err)
	}
}

func TestRemove_LastItemLeavesEmptySet(t *testing.T) {
	s := New(item("a", base), time.Hour)

	if err := s.Remove("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Length != 0 {
		t.Errorf("expected length 0, got %d", s.Length)
	}
}

func TestRemove_UnknownItem(t *testing.T) {
	s := New(item("a", base), time.Hour)

	if err := s.Remove("nope"); err != ErrItemNotInSet {
		t.Errorf("expected ErrItemNotInSet, got %v", err)
	}
	if s.Length != 1 {
		t.Errorf("membership must be untouched, got length %d", s.Length)
	}
}

func TestRestore_MatchesIncrementalBuild(t *testing.T) {
	gap := time.Hour
	s := New(item("a", base), gap)
	s.Add(item("b", at(45*time.Minute)))
	s.Add(item("c", at(20*time.Minute)))

	restored, err := Restore(s.ID, gap, s.Items())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if restored.ID != s.ID {
		t.Errorf("expected id %s, got %s", s.ID, restored.ID)
	}
	if !restored.Equal(s) {
		t.Error("expected identical membership")
	}
	if !restored.Start.Equal(s.Start) || !restored.End.Equal(s.End) {
		t.Errorf("span mismatch: [%s, %s] vs [%s, %s]", restored.Start, restored.End, s.Start, s.End)
	}
	if !restored.BoundaryStart.Equal(s.BoundaryStart) || !restored.BoundaryEnd.Equal(s.BoundaryEnd) {
		t.Errorf("boundary mismatch: [%s, %s] vs [%s, %s]",
			restored.BoundaryStart, restored.BoundaryEnd, s.BoundaryStart, s.BoundaryEnd)
	}
}

func TestRestore_Empty(t *testing.T) {
	if _, err := Restore("x", time.Hour, nil); err != ErrEmptySet {
		t.Errorf("expected ErrEmptySet, got %v", err)
	}
}

func TestEqual_IgnoresIdentity(t *testing.T) {
	gap := time.Hour
	a := New(item("x", base), gap)
	a.Add(item("y", at(10*time.Minute)))

	b, err := Restore("other-id", gap, a.Items())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !a.Equal(b) {
		t.Error("sets with identical membership must compare equal")
	}

	if err := b.Remove("y"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Equal(b) {
		t.Error("sets with different membership must not compare equal")
	}
}

func TestValidate_DetectsCorruptSpan(t *testing.T) {
	s := New(item("a", base), time.Hour)
	s.Add(item("b", at(30*time.Minute)))

	if err := s.Validate(); err != nil {
		t.Fatalf("freshly built set must validate: %v", err)
	}

	s.End = s.End.Add(time.Hour)
	if err := s.Validate(); err == nil {
		t.Error("expected validation failure after tampering with the span")
	}
}
