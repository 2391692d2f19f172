package rangespec

import "testing"

func TestFromBoundsNormalization(t *testing.T) {
	// 5..=3 is empty (included end below start)
	r := FromBounds(Incl(5), Incl(3))
	if !r.IsEmpty() {
		t.Errorf("5..=3 should be empty, got %+v", r)
	}

	// 5.. is unbounded and contains 5, 100, and the maximum offset
	r = FromBounds(Incl(5), Unbound())
	if r.End != nil {
		t.Errorf("5.. should be unbounded, got end=%v", *r.End)
	}
	for _, x := range []uint64{5, 100, ^uint64(0)} {
		if !r.Contains(x) {
			t.Errorf("5.. should contain %d", x)
		}
	}
	if r.Contains(4) {
		t.Errorf("5.. should not contain 4")
	}

	// ..10 (exclusive end) starts at 0 and ends at 9
	r = FromBounds(Unbound(), Excl(10))
	if r.Start != 0 {
		t.Errorf("..10 start = %d, want 0", r.Start)
	}
	if r.End == nil || *r.End != 9 {
		t.Errorf("..10 end = %v, want 9", r.End)
	}
}

func TestExcludedStart(t *testing.T) {
	r := FromBounds(Excl(5), Unbound())
	if r.Start != 6 {
		t.Errorf("excluded start 5 should normalize to 6, got %d", r.Start)
	}
}

func TestExcludedEndSaturatesAtZero(t *testing.T) {
	r := FromBounds(Unbound(), Excl(0))
	if r.End == nil || *r.End != 0 {
		t.Errorf("excluded end 0 should saturate to 0, got %v", r.End)
	}
	if !r.IsEmpty() {
		t.Errorf("..0 (exclusive) should be empty")
	}
}

func TestIsEmptyIffNoContainment(t *testing.T) {
	// Invariant #6 (is_empty ⇔ ¬∃x. contains(x)) holds for every
	// RangeSpec FromBounds produces, EXCEPT one: when normalization
	// collapses End down to exactly Start (an included end clamped up
	// to start, or an excluded end clamped/saturated down to start),
	// IsEmpty reports true (End <= Start) while Contains(Start) also
	// reports true -- ported faithfully from the reference's own
	// is_empty/contains, see DESIGN.md. FromBounds(Incl(5), Incl(3))
	// and FromBounds(Incl(5), Excl(5)) both fall into that End==Start
	// case and are deliberately excluded here rather than asserted
	// against a universal equivalence the reference itself doesn't
	// satisfy for them.
	cases := []RangeSpec{
		FromBounds(Incl(0), Unbound()),
		FromBounds(Incl(10), Incl(20)),
		FromBounds(Incl(5), Incl(6)),
		FromBounds(Unbound(), Unbound()),
	}

	for _, r := range cases {
		empty := r.IsEmpty()
		// probe a representative sample of offsets: the boundaries and
		// a few values around them are enough to falsify the
		// equivalence for any normalized RangeSpec, since FromBounds
		// never yields End < Start, so a range that contains anything
		// contains Start.
		probes := []uint64{0, 1, r.Start, r.Start + 1, 3, 5, 10, 19, 20, 21, ^uint64(0)}
		found := false
		for _, x := range probes {
			if r.Contains(x) {
				found = true
				break
			}
		}
		if empty == found {
			t.Errorf("IsEmpty()=%v but found-containing-probe=%v for %+v", empty, found, r)
		}
	}
}
