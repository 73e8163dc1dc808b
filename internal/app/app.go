// Package app wires the Glidetype decode engine to its layouts and trace
// store: it owns the layout registry, hot-reloads layout files, and runs
// one-shot and incremental decodes for the server layer.
package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/ayusman/glidetype/internal/keyboard"
	"github.com/ayusman/glidetype/internal/store"
	"github.com/ayusman/glidetype/internal/touch"
)

// DefaultMaxPointToKeyLength is the distance clamp handed to sessions when
// the caller does not supply one. Distances are normalized squared key
// widths, so anything past the near threshold is equally implausible.
const DefaultMaxPointToKeyLength = 10.0

// Config holds configuration options for the application.
type Config struct {
	Store      *store.Store
	LayoutsDir string
}

// App owns the layout registry and the decode entry points.
type App struct {
	config  Config
	layouts map[string]*keyboard.Layout
	watcher *fsnotify.Watcher
	mu      sync.RWMutex
	stopCh  chan struct{}
}

// New creates a new App with the given configuration. The embedded default
// layout is always registered; layout files found in LayoutsDir are loaded
// on top of it.
func New(config Config) (*App, error) {
	a := &App{
		config:  config,
		layouts: make(map[string]*keyboard.Layout),
	}

	def, err := keyboard.DefaultLayout()
	if err != nil {
		return nil, fmt.Errorf("failed to load default layout: %w", err)
	}
	a.layouts[def.Name()] = def

	if config.LayoutsDir != "" {
		if err := a.loadLayoutsDir(); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// loadLayoutsDir loads every .toml file in the layouts directory. Files that
// fail to parse are logged and skipped so one broken layout cannot take the
// service down.
func (a *App) loadLayoutsDir() error {
	entries, err := os.ReadDir(a.config.LayoutsDir)
	if err != nil {
		return fmt.Errorf("failed to read layouts dir: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		path := filepath.Join(a.config.LayoutsDir, entry.Name())
		layout, err := keyboard.Load(path)
		if err != nil {
			log.Printf("Skipping layout %s: %v", entry.Name(), err)
			continue
		}
		a.layouts[layout.Name()] = layout
		log.Printf("Loaded layout %q (%d keys)", layout.Name(), layout.KeyCount())
	}
	return nil
}

// Watch starts watching the layouts directory and reloads it whenever a
// layout file changes. It is a no-op when no directory is configured.
func (a *App) Watch() error {
	if a.config.LayoutsDir == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(a.config.LayoutsDir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch layouts dir: %w", err)
	}

	a.watcher = watcher
	a.stopCh = make(chan struct{})
	go a.watchLoop()
	return nil
}

// watchLoop applies layout directory changes until Stop is called.
func (a *App) watchLoop() {
	for {
		select {
		case <-a.stopCh:
			return
		case event, ok := <-a.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".toml") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Printf("Layout change detected (%s), reloading", event.Name)
			if err := a.loadLayoutsDir(); err != nil {
				log.Printf("Layout reload failed: %v", err)
			}
		case err, ok := <-a.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Layout watcher error: %v", err)
		}
	}
}

// Stop shuts down the layout watcher.
func (a *App) Stop() {
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
}

// Layout returns a registered layout by name.
func (a *App) Layout(name string) (*keyboard.Layout, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	layout, ok := a.layouts[name]
	if !ok {
		return nil, fmt.Errorf("unknown layout %q", name)
	}
	return layout, nil
}

// LayoutNames returns the registered layout names, sorted.
func (a *App) LayoutNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.layouts))
	for name := range a.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store returns the configured trace store, which may be nil.
func (a *App) Store() *store.Store { return a.config.Store }

// DecodeResult is the outcome of decoding one trace.
type DecodeResult struct {
	Result      string
	Score       float64
	SampledSize int
}

// DecodeTrace runs a one-shot decode of a full trace. Gesture traces go
// through the alignment model and greedy decoder; tap traces report the
// primary input word.
func (a *App) DecodeTrace(layoutName string, mode store.TraceMode,
	codes []rune, points []store.TracePoint) (*DecodeResult, error) {
	layout, err := a.Layout(layoutName)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("trace has no points")
	}

	var session touch.Session
	in := traceInput(codes, points)
	session.Update(layout, 0, DefaultMaxPointToKeyLength, in, mode == store.TraceModeGesture)

	res := &DecodeResult{SampledSize: session.SampledSize()}
	if mode == store.TraceModeGesture {
		word, score := session.MostProbableString()
		res.Result = string(word)
		res.Score = score
	} else {
		res.Result = string(session.PrimaryInputWord())
	}
	return res, nil
}

// traceInput converts stored trace points into the engine's input snapshot.
func traceInput(codes []rune, points []store.TracePoint) touch.TouchInput {
	in := touch.TouchInput{
		Codes:      codes,
		Xs:         make([]int, len(points)),
		Ys:         make([]int, len(points)),
		Times:      make([]int, len(points)),
		PointerIDs: make([]int, len(points)),
	}
	for i, p := range points {
		in.Xs[i] = p.X
		in.Ys[i] = p.Y
		in.Times[i] = p.Time
		in.PointerIDs[i] = p.PointerID
	}
	return in
}

// Stream tracks one pointer's in-progress gesture across incremental point
// batches, reusing the session's continuation path.
type Stream struct {
	app     *App
	layout  *keyboard.Layout
	mode    store.TraceMode
	session touch.Session
	points  []store.TracePoint
	codes   []rune
}

// NewStream creates an incremental decode stream on the named layout.
func (a *App) NewStream(layoutName string, mode store.TraceMode) (*Stream, error) {
	layout, err := a.Layout(layoutName)
	if err != nil {
		return nil, err
	}
	return &Stream{app: a, layout: layout, mode: mode}, nil
}

// Feed appends a batch of raw points (and, in tap mode, their code points)
// to the stream and returns the current best guess. The engine reuses the
// previously sampled prefix whenever it replays identically.
func (s *Stream) Feed(codes []rune, points []store.TracePoint) *DecodeResult {
	s.points = append(s.points, points...)
	s.codes = append(s.codes, codes...)

	in := traceInput(s.codes, s.points)
	s.session.Update(s.layout, 0, DefaultMaxPointToKeyLength, in,
		s.mode == store.TraceModeGesture)

	res := &DecodeResult{SampledSize: s.session.SampledSize()}
	if s.mode == store.TraceModeGesture {
		word, score := s.session.MostProbableString()
		res.Result = string(word)
		res.Score = score
	} else {
		res.Result = string(s.session.PrimaryInputWord())
	}
	return res
}

// Points returns the accumulated raw points of the stream.
func (s *Stream) Points() []store.TracePoint { return s.points }
