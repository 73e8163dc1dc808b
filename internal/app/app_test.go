package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/glidetype/internal/store"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(Config{})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	return a
}

// catTapPoints taps the centers of 'c', 'a' and 't' on the default layout.
func catTapPoints() []store.TracePoint {
	return []store.TracePoint{
		{X: 432, Y: 275, Time: 0},
		{X: 108, Y: 165, Time: 100},
		{X: 486, Y: 55, Time: 200},
	}
}

// homeRowSweep is a constant-speed gesture across the home row.
func homeRowSweep() []store.TracePoint {
	var points []store.TracePoint
	t := 0
	for x := 108; x <= 972; x += 27 {
		points = append(points, store.TracePoint{X: x, Y: 165, Time: t})
		t += 10
	}
	return points
}

func TestApp_DefaultLayoutRegistered(t *testing.T) {
	a := newTestApp(t)

	names := a.LayoutNames()
	if len(names) != 1 || names[0] != "qwerty" {
		t.Fatalf("expected only the embedded qwerty layout, got %v", names)
	}
	layout, err := a.Layout("qwerty")
	if err != nil {
		t.Fatalf("failed to get qwerty: %v", err)
	}
	if layout.KeyCount() == 0 {
		t.Error("expected a populated layout")
	}
}

func TestApp_UnknownLayout(t *testing.T) {
	a := newTestApp(t)

	if _, err := a.Layout("dvorak"); err == nil {
		t.Error("expected an error for an unregistered layout")
	}
	if _, err := a.DecodeTrace("dvorak", store.TraceModeTap, []rune("a"), catTapPoints()); err == nil {
		t.Error("expected decode to fail on an unregistered layout")
	}
}

func TestApp_LoadsLayoutsDir(t *testing.T) {
	dir := t.TempDir()
	layout := `name = "tiny"
width = 200
height = 100
[[keys]]
char = "a"
x = 0
y = 0
width = 100
height = 100
[[keys]]
char = "b"
x = 100
y = 0
width = 100
height = 100`
	if err := os.WriteFile(filepath.Join(dir, "tiny.toml"), []byte(layout), 0644); err != nil {
		t.Fatalf("failed to write layout file: %v", err)
	}
	// A broken file must be skipped, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "broken.toml"), []byte("name ="), 0644); err != nil {
		t.Fatalf("failed to write layout file: %v", err)
	}

	a, err := New(Config{LayoutsDir: dir})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}

	names := a.LayoutNames()
	if len(names) != 2 || names[0] != "qwerty" || names[1] != "tiny" {
		t.Fatalf("expected qwerty and tiny, got %v", names)
	}
}

func TestDecodeTrace_Tap(t *testing.T) {
	a := newTestApp(t)

	res, err := a.DecodeTrace("qwerty", store.TraceModeTap, []rune("cat"), catTapPoints())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if res.Result != "cat" {
		t.Errorf("expected \"cat\", got %q", res.Result)
	}
	if res.SampledSize != 3 {
		t.Errorf("expected 3 sampled points, got %d", res.SampledSize)
	}
}

func TestDecodeTrace_Gesture(t *testing.T) {
	a := newTestApp(t)

	res, err := a.DecodeTrace("qwerty", store.TraceModeGesture, nil, homeRowSweep())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if res.Result == "" {
		t.Error("expected a non-empty decode for a home-row sweep")
	}
	if res.Score <= 0 {
		t.Errorf("expected a positive score, got %f", res.Score)
	}
	if res.SampledSize == 0 {
		t.Error("expected sampled points")
	}
}

func TestDecodeTrace_NoPoints(t *testing.T) {
	a := newTestApp(t)

	if _, err := a.DecodeTrace("qwerty", store.TraceModeGesture, nil, nil); err == nil {
		t.Error("expected an error for an empty trace")
	}
}

func TestStream_IncrementalMatchesOneShot(t *testing.T) {
	a := newTestApp(t)
	points := homeRowSweep()

	oneShot, err := a.DecodeTrace("qwerty", store.TraceModeGesture, nil, points)
	if err != nil {
		t.Fatalf("one-shot decode failed: %v", err)
	}

	stream, err := a.NewStream("qwerty", store.TraceModeGesture)
	if err != nil {
		t.Fatalf("failed to create stream: %v", err)
	}
	stream.Feed(nil, points[:12])
	stream.Feed(nil, points[12:20])
	final := stream.Feed(nil, points[20:])

	if final.Result != oneShot.Result {
		t.Errorf("incremental result %q differs from one-shot %q", final.Result, oneShot.Result)
	}
	if final.Score != oneShot.Score {
		t.Errorf("incremental score %f differs from one-shot %f", final.Score, oneShot.Score)
	}
	if final.SampledSize != oneShot.SampledSize {
		t.Errorf("incremental sampled size %d differs from one-shot %d",
			final.SampledSize, oneShot.SampledSize)
	}
	if len(stream.Points()) != len(points) {
		t.Errorf("expected stream to hold %d points, got %d", len(points), len(stream.Points()))
	}
}

func TestStream_TapFeed(t *testing.T) {
	a := newTestApp(t)

	stream, err := a.NewStream("qwerty", store.TraceModeTap)
	if err != nil {
		t.Fatalf("failed to create stream: %v", err)
	}

	points := catTapPoints()
	res := stream.Feed([]rune("ca"), points[:2])
	if res.Result != "ca" {
		t.Errorf("expected partial word \"ca\", got %q", res.Result)
	}
	res = stream.Feed([]rune("t"), points[2:])
	if res.Result != "cat" {
		t.Errorf("expected \"cat\", got %q", res.Result)
	}
}
