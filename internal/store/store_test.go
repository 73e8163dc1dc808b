package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePoints() []TracePoint {
	return []TracePoint{
		{X: 108, Y: 165, Time: 0, PointerID: 0},
		{X: 216, Y: 165, Time: 40, PointerID: 0},
		{X: 324, Y: 165, Time: 80, PointerID: 0},
	}
}

func TestTraceRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)

	trace := &Trace{ID: "trace-1", Layout: "qwerty", Mode: TraceModeGesture}
	points := samplePoints()
	if err := s.Traces().Create(trace, points); err != nil {
		t.Fatalf("failed to create trace: %v", err)
	}
	if trace.PointCount != 3 {
		t.Errorf("expected point count 3, got %d", trace.PointCount)
	}
	if trace.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set on create")
	}

	got, err := s.Traces().GetByID("trace-1")
	if err != nil {
		t.Fatalf("failed to get trace: %v", err)
	}
	if got.Layout != "qwerty" || got.Mode != TraceModeGesture || got.PointCount != 3 {
		t.Errorf("unexpected trace: %+v", got)
	}

	stored, err := s.Traces().Points("trace-1")
	if err != nil {
		t.Fatalf("failed to get points: %v", err)
	}
	if len(stored) != len(points) {
		t.Fatalf("expected %d points, got %d", len(points), len(stored))
	}
	for i, p := range stored {
		if p != points[i] {
			t.Errorf("point %d mismatch: %+v vs %+v", i, p, points[i])
		}
	}
}

func TestTraceRepository_GetMissing(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Traces().GetByID("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTraceRepository_List(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"a", "b"} {
		trace := &Trace{ID: id, Layout: "qwerty", Mode: TraceModeTap}
		if err := s.Traces().Create(trace, samplePoints()); err != nil {
			t.Fatalf("failed to create trace %s: %v", id, err)
		}
	}

	traces, err := s.Traces().List()
	if err != nil {
		t.Fatalf("failed to list traces: %v", err)
	}
	if len(traces) != 2 {
		t.Errorf("expected 2 traces, got %d", len(traces))
	}
}

func TestTraceRepository_DeleteCascades(t *testing.T) {
	s := newTestStore(t)

	trace := &Trace{ID: "doomed", Layout: "qwerty", Mode: TraceModeGesture}
	if err := s.Traces().Create(trace, samplePoints()); err != nil {
		t.Fatalf("failed to create trace: %v", err)
	}
	decode := &Decode{TraceID: "doomed", Result: "asd", Score: 1.5}
	if err := s.Decodes().Create(decode); err != nil {
		t.Fatalf("failed to create decode: %v", err)
	}

	if err := s.Traces().Delete("doomed"); err != nil {
		t.Fatalf("failed to delete trace: %v", err)
	}

	if _, err := s.Traces().GetByID("doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected trace gone, got %v", err)
	}
	points, err := s.Traces().Points("doomed")
	if err != nil {
		t.Fatalf("failed to query points: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("expected points to cascade, found %d", len(points))
	}
	decodes, err := s.Decodes().GetByTraceID("doomed")
	if err != nil {
		t.Fatalf("failed to query decodes: %v", err)
	}
	if len(decodes) != 0 {
		t.Errorf("expected decodes to cascade, found %d", len(decodes))
	}

	if err := s.Traces().Delete("doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestDecodeRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)

	trace := &Trace{ID: "trace-d", Layout: "qwerty", Mode: TraceModeGesture}
	if err := s.Traces().Create(trace, samplePoints()); err != nil {
		t.Fatalf("failed to create trace: %v", err)
	}

	first := &Decode{TraceID: "trace-d", Result: "asd", Score: 2.5}
	second := &Decode{TraceID: "trace-d", Result: "asdf", Score: 1.25}
	if err := s.Decodes().Create(first); err != nil {
		t.Fatalf("failed to create decode: %v", err)
	}
	if err := s.Decodes().Create(second); err != nil {
		t.Fatalf("failed to create decode: %v", err)
	}
	if first.ID == 0 || second.ID <= first.ID {
		t.Errorf("expected increasing decode ids, got %d then %d", first.ID, second.ID)
	}

	decodes, err := s.Decodes().GetByTraceID("trace-d")
	if err != nil {
		t.Fatalf("failed to get decodes: %v", err)
	}
	if len(decodes) != 2 {
		t.Fatalf("expected 2 decodes, got %d", len(decodes))
	}
	if decodes[0].Result != "asd" || decodes[1].Result != "asdf" {
		t.Errorf("expected oldest first, got %q then %q", decodes[0].Result, decodes[1].Result)
	}
	if decodes[1].Score != 1.25 {
		t.Errorf("expected score 1.25, got %f", decodes[1].Score)
	}
}

func TestDecodeRepository_RejectsUnknownTrace(t *testing.T) {
	s := newTestStore(t)

	decode := &Decode{TraceID: "missing", Result: "x", Score: 0}
	if err := s.Decodes().Create(decode); err == nil {
		t.Error("expected a foreign key error for an unknown trace")
	}
}
