package touch

import (
	"math"
	"testing"

	"github.com/ayusman/glidetype/internal/keyboard"
)

const testMaxLength = 10.0

func qwerty(t *testing.T) *keyboard.Layout {
	t.Helper()
	l, err := keyboard.DefaultLayout()
	if err != nil {
		t.Fatalf("failed to load layout: %v", err)
	}
	return l
}

// lineGesture builds a constant-speed horizontal stroke along the home row
// from startX to endX at the given y, one raw point per step.
func lineGesture(startX, endX, y, step, dt int) TouchInput {
	var in TouchInput
	t := 0
	for x := startX; x <= endX; x += step {
		in.Xs = append(in.Xs, x)
		in.Ys = append(in.Ys, y)
		in.Times = append(in.Times, t)
		in.PointerIDs = append(in.PointerIDs, 0)
		t += dt
	}
	return in
}

// prefix returns the first n raw points of an input snapshot.
func prefix(in TouchInput, n int) TouchInput {
	return TouchInput{
		Xs:         in.Xs[:n],
		Ys:         in.Ys[:n],
		Times:      in.Times[:n],
		PointerIDs: in.PointerIDs[:n],
	}
}

// assertSessionsEqual compares every externally observable piece of derived
// state between two sessions over the same layout.
func assertSessionsEqual(t *testing.T, want, got *Session, layout *keyboard.Layout) {
	t.Helper()
	if want.SampledSize() != got.SampledSize() {
		t.Fatalf("sampled size mismatch: %d vs %d", want.SampledSize(), got.SampledSize())
	}
	n := want.SampledSize()
	keyCount := layout.KeyCount()

	for i := 0; i < n; i++ {
		if want.InputX(i) != got.InputX(i) || want.InputY(i) != got.InputY(i) {
			t.Fatalf("point %d mismatch: (%d,%d) vs (%d,%d)",
				i, want.InputX(i), want.InputY(i), got.InputX(i), got.InputY(i))
		}
		if want.LengthAt(i) != got.LengthAt(i) {
			t.Fatalf("length mismatch at %d: %d vs %d", i, want.LengthAt(i), got.LengthAt(i))
		}
		for k := 0; k < keyCount; k++ {
			dw := want.PointToKeyIDLength(i, k)
			dg := got.PointToKeyIDLength(i, k)
			if math.Abs(dw-dg) > 1e-9 {
				t.Fatalf("distance mismatch at point %d key %d: %f vs %f", i, k, dw, dg)
			}
			if want.IsNearKey(i, k) != got.IsNearKey(i, k) {
				t.Fatalf("near key mismatch at point %d key %d", i, k)
			}
			if want.IsKeyInSearchKeys(i, k) != got.IsKeyInSearchKeys(i, k) {
				t.Fatalf("search key mismatch at point %d key %d", i, k)
			}
			pw := want.Probability(i, k)
			pg := got.Probability(i, k)
			if math.Abs(pw-pg) > 1e-9 {
				t.Fatalf("probability mismatch at point %d key %d: %f vs %f", i, k, pw, pg)
			}
		}
		pw := want.Probability(i, NotAnIndex)
		pg := got.Probability(i, NotAnIndex)
		if math.Abs(pw-pg) > 1e-9 {
			t.Fatalf("skip probability mismatch at point %d: %f vs %f", i, pw, pg)
		}
	}
}

func TestSession_ContinuationEquivalence(t *testing.T) {
	layout := qwerty(t)
	// Raw spacing equals the resampling threshold so every raw point is
	// kept, and the speed is constant, so an incremental replay must
	// reproduce the from-scratch state exactly.
	step := layout.MostCommonKeyWidth() / 4
	in := lineGesture(108, 972, 165, step, 10)

	var full Session
	full.Update(layout, 0, testMaxLength, in, true)

	var split Session
	split.Update(layout, 0, testMaxLength, prefix(in, 20), true)
	if split.SampledSize() == 0 {
		t.Fatal("expected sampled points after the first batch")
	}
	split.Update(layout, 0, testMaxLength, in, true)
	if !split.IsContinuation() {
		t.Fatal("expected the second update to continue the first")
	}

	assertSessionsEqual(t, &full, &split, layout)
}

func TestSession_InvalidationResetsState(t *testing.T) {
	layout := qwerty(t)
	step := layout.MostCommonKeyWidth() / 4
	streamA := lineGesture(108, 972, 165, step, 10)
	// An unrelated stroke along the top row.
	streamB := lineGesture(54, 900, 55, step, 15)

	var reused Session
	reused.Update(layout, 0, testMaxLength, streamA, true)
	reused.Update(layout, 0, testMaxLength, streamB, true)
	if reused.IsContinuation() {
		t.Fatal("an unrelated stream must not continue the previous session")
	}

	var fresh Session
	fresh.Update(layout, 0, testMaxLength, streamB, true)

	assertSessionsEqual(t, &fresh, &reused, layout)

	wantWord, wantScore := fresh.MostProbableString()
	gotWord, gotScore := reused.MostProbableString()
	if string(wantWord) != string(gotWord) || math.Abs(wantScore-gotScore) > 1e-9 {
		t.Errorf("decode mismatch after invalidation: %q (%f) vs %q (%f)",
			string(wantWord), wantScore, string(gotWord), gotScore)
	}
}

func TestSession_ShrinkingTapInputInvalidates(t *testing.T) {
	layout := qwerty(t)
	in := TouchInput{
		Codes:      []rune("cat"),
		Xs:         []int{432, 108, 486},
		Ys:         []int{275, 165, 55},
		Times:      []int{0, 100, 200},
		PointerIDs: []int{0, 0, 0},
	}

	var s Session
	s.Update(layout, 0, testMaxLength, in, false)
	if s.SampledSize() != 3 {
		t.Fatalf("expected 3 sampled tap points, got %d", s.SampledSize())
	}

	s.Update(layout, 0, testMaxLength, prefix(in, 2), false)
	if s.IsContinuation() {
		t.Error("a shrinking tap input must invalidate the cache")
	}
	if s.SampledSize() != 2 {
		t.Errorf("expected 2 sampled points after recompute, got %d", s.SampledSize())
	}
}

func TestSession_NearKeyThresholdMonotonicity(t *testing.T) {
	layout := qwerty(t)
	step := layout.MostCommonKeyWidth() / 4
	in := lineGesture(108, 972, 165, step, 10)

	var s Session
	s.Update(layout, 0, testMaxLength, in, true)

	for i := 0; i < s.SampledSize(); i++ {
		for k := 0; k < layout.KeyCount(); k++ {
			d := layout.NormalizedSquaredDistance(k, s.InputX(i), s.InputY(i))
			want := d >= 0 && d < 4.0
			if got := s.IsNearKey(i, k); got != want {
				t.Errorf("point %d key %d: near=%v for distance %f", i, k, got, d)
			}
		}
	}
}

func TestSession_TapScenarioCat(t *testing.T) {
	layout := qwerty(t)
	// Taps exactly at the centers of 'c', 'a' and 't'.
	in := TouchInput{
		Codes:      []rune("cat"),
		Xs:         []int{432, 108, 486},
		Ys:         []int{275, 165, 55},
		Times:      []int{0, 100, 200},
		PointerIDs: []int{0, 0, 0},
	}

	var s Session
	s.Update(layout, 0, testMaxLength, in, false)

	if s.SampledSize() != 3 {
		t.Fatalf("expected 3 sampled points, got %d", s.SampledSize())
	}
	if got := string(s.PrimaryInputWord()); got != "cat" {
		t.Errorf("expected primary input word \"cat\", got %q", got)
	}

	for i, c := range "cat" {
		kind, pos := s.MatchProximity(i, c, true)
		if kind != EquivalentChar || pos != 0 {
			t.Errorf("point %d: expected equivalent match for %q, got %v at %d",
				i, c, kind, pos)
		}
		if d := s.PointToKeyLength(i, c); d != 0 {
			t.Errorf("point %d: expected zero distance to own key, got %f", i, d)
		}
	}

	// Each point's duration is the delta to its successor; the final point
	// reports zero.
	if got := s.Duration(0); got != 100 {
		t.Errorf("expected duration 100 at point 0, got %d", got)
	}
	if got := s.Duration(2); got != 0 {
		t.Errorf("expected duration 0 at the final point, got %d", got)
	}
}

func TestSession_TapContinuationExtends(t *testing.T) {
	layout := qwerty(t)
	full := TouchInput{
		Codes:      []rune("cats"),
		Xs:         []int{432, 108, 486, 216},
		Ys:         []int{275, 165, 55, 165},
		Times:      []int{0, 100, 200, 300},
		PointerIDs: []int{0, 0, 0, 0},
	}

	var s Session
	first := prefix(full, 3)
	first.Codes = full.Codes[:3]
	s.Update(layout, 0, testMaxLength, first, false)

	s.Update(layout, 0, testMaxLength, full, false)
	if !s.IsContinuation() {
		t.Error("expected tap continuation for an extended matching stream")
	}
	if got := string(s.PrimaryInputWord()); got != "cats" {
		t.Errorf("expected primary input word \"cats\", got %q", got)
	}
	if s.SampledSize() != 4 {
		t.Errorf("expected 4 sampled points, got %d", s.SampledSize())
	}
}

func TestSession_GestureStateAccessors(t *testing.T) {
	layout := qwerty(t)
	step := layout.MostCommonKeyWidth() / 4
	in := lineGesture(108, 972, 165, step, 10)

	var s Session
	s.Update(layout, 0, testMaxLength, in, true)
	n := s.SampledSize()
	if n < 3 {
		t.Fatalf("expected several sampled points, got %d", n)
	}

	// A straight constant-speed stroke: flat directions, full beeline
	// percentile away from the tip, relative speed near 1.
	for i := 1; i < n; i++ {
		if got := s.DirectionAt(i); got != 0 {
			t.Errorf("expected direction 0 along the horizontal stroke, got %f at %d", got, i)
		}
	}
	for i := 0; i < n-1; i++ {
		if got := s.BeelineSpeedPercentile(i); got != 100 {
			t.Errorf("expected beeline percentile 100 on a straight stroke, got %d at %d", got, i)
		}
	}
	for i := 0; i < n; i++ {
		if r := s.SpeedRate(i); math.Abs(r-1.0) > 0.2 {
			t.Errorf("expected relative speed near 1 at %d, got %f", i, r)
		}
	}

	// Out-of-range queries return neutral values.
	if s.Duration(-1) != 0 || s.Duration(n) != 0 {
		t.Error("expected zero duration for out-of-range indices")
	}
	if s.Direction(-1, 0) != 0 || s.Direction(0, n) != 0 {
		t.Error("expected zero direction for out-of-range indices")
	}
	if s.LineToKeySquaredDistance(-1, 1, 0, false) != 0 {
		t.Error("expected zero line distance for out-of-range indices")
	}
	if s.HasSpaceProximity(n) {
		t.Error("expected no space proximity for out-of-range index")
	}

	// The stroke runs along the home row, far above the space bar.
	for i := 0; i < n; i++ {
		if s.HasSpaceProximity(i) {
			t.Errorf("did not expect space proximity at point %d", i)
		}
	}
	if y := s.SpaceY(); y != 385 {
		t.Errorf("expected space key center y 385, got %d", y)
	}
}
