// Package touch converts raw touch sample streams from a single keyboard
// gesture or tap sequence into the incrementally maintained state a word
// search engine consults: a resampled point buffer, a dense point-to-key
// distance cache, near/search key sets, per-point kinematic features, a
// per-point key alignment cost model, a tiered proximity classifier and a
// greedy best-guess decoder.
//
// A Session owns all of this state for one pointer's gesture lifecycle. It is
// mutated only by Update and is read-only between calls; concurrent pointers
// need independent sessions.
package touch

import "github.com/ayusman/glidetype/internal/keyboard"

// Engine-wide constants.
const (
	// MaxWordLength bounds decoded output and tap-mode bookkeeping.
	MaxWordLength = 48
	// MaxProximityCharsSize caps the flattened length of a per-point
	// proximity list, delimiter slot included.
	MaxProximityCharsSize = 16
	// MaxPointToKeyLength is the distance reported for a code point with no
	// key on the layout, and the absent-entry default of the alignment
	// distributions.
	MaxPointToKeyLength = 10000000.0
	// NotAnIndex marks a missing key or point index. It also keys the skip
	// entry of the alignment distributions.
	NotAnIndex = -1
	// NotACoordinate marks a missing coordinate.
	NotACoordinate = -1
	// NotADistanceInt is the sentinel entry of the tap-mode scaled distance
	// table.
	NotADistanceInt = -1
)

const (
	// nearKeyThreshold is the normalized squared distance below which a key
	// is near a sampled point.
	nearKeyThreshold = 4.0
	// readForwardLengthScale scales the keyboard diagonal into the search
	// key look-ahead bound.
	readForwardLengthScale = 0.95
	// distanceScalingFactor converts normalized squared sweet-spot distances
	// to the integer table used by the tap correction path.
	distanceScalingFactorLog2 = 10
	distanceScalingFactor     = 1 << distanceScalingFactorLog2
	// Table entries used when sweet-spot distance is unavailable: the primary
	// character still counts as a perfect hit, other proximity characters get
	// one key width.
	equivalentCharWithoutDistanceInfo = 0
	proximityCharWithoutDistanceInfo  = distanceScalingFactor
)

// TouchInput is one snapshot of a pointer's raw streams: the full original
// coordinate, time and pointer-id sequences for the gesture so far, not a
// delta. Codes carries the typed code points in tap mode and may be nil in
// gesture mode. All populated slices must have equal length.
type TouchInput struct {
	Codes      []rune
	Xs         []int
	Ys         []int
	Times      []int
	PointerIDs []int
}

// Size returns the number of raw points in the snapshot.
func (in *TouchInput) Size() int { return len(in.Xs) }

// Session holds the decode state for one pointer's gesture or tap sequence.
// The zero value is an empty session ready for its first Update.
type Session struct {
	geometry            keyboard.Geometry
	maxPointToKeyLength float64
	keyCount            int
	mostCommonKeyWidth  int
	cellWidth           int
	cellHeight          int
	gridWidth           int
	gridHeight          int
	geometric           bool
	continuation        bool

	// Parallel sampled-point arrays; sampling.go keeps them consistent.
	sampledXs    []int
	sampledYs    []int
	times        []int
	lengthCache  []int
	inputIndices []int

	// Derived per-point state, rebuilt for the new tail on each Update.
	distanceCache      []float64 // sampled size x keyCount
	nearKeys           []keySet
	searchKeys         []keySet
	speedRates         []float64
	directions         []float64
	beelinePercentiles []int
	averageSpeed       float64
	charProbabilities  []map[int]float64

	// Tap-mode state, pointer 0 only.
	inputProximities           []keyboard.ProximityList
	primaryWord                []rune
	normalizedSquaredDistances []int
	hasCorrectionData          bool
	touchCorrectionEnabled     bool
}

// Update initializes or continues the session for one pointer's stream. The
// input carries the full original streams for this gesture; when the replayed
// prefix matches the previously sampled points, only the new tail is
// recomputed (after discarding the two most recently sampled points, whose
// boundary effects must not be trusted). Any mismatch silently degrades to a
// full recompute.
func (s *Session) Update(geo keyboard.Geometry, pointerID int, maxPointToKeyLength float64,
	in TouchInput, geometric bool) {
	s.continuation = s.geometry == geo && s.geometric == geometric &&
		s.checkContinuation(in, geometric)

	s.geometry = geo
	s.geometric = geometric
	s.maxPointToKeyLength = maxPointToKeyLength
	s.keyCount = geo.KeyCount()
	s.mostCommonKeyWidth = geo.MostCommonKeyWidth()
	s.cellWidth = geo.CellWidth()
	s.cellHeight = geo.CellHeight()
	s.gridWidth = geo.GridWidth()
	s.gridHeight = geo.GridHeight()
	s.hasCorrectionData = geo.HasTouchPositionCorrectionData()

	// Tap-mode state is rebuilt from scratch on every call.
	s.inputProximities = s.inputProximities[:0]
	s.primaryWord = s.primaryWord[:0]
	s.normalizedSquaredDistances = s.normalizedSquaredDistances[:0]
	if !geometric && pointerID == 0 {
		s.buildInputProximities(in)
	}

	rawStart := 0
	lastSaved := 0
	if s.continuation && len(s.inputIndices) > 1 {
		// Two points prior is never skipped, so resume from the original
		// index of the second most recent sample and recompute from there.
		rawStart = s.inputIndices[len(s.inputIndices)-2]
		s.popInputData()
		s.popInputData()
		lastSaved = len(s.sampledXs)
	} else {
		s.clear()
	}

	s.resample(in, pointerID, rawStart, geometric)
	n := len(s.sampledXs)

	if n > 0 && geometric {
		s.averageSpeed = s.refreshSpeedRates(lastSaved)
		s.refreshBeelinePercentiles()
	}

	if n > 0 {
		s.rebuildDistanceCache(lastSaved)
		if geometric {
			s.updateAlignProbabilities(lastSaved)
			s.rebuildSearchKeys(lastSaved)
		}
	}

	s.touchCorrectionEnabled = n > 0 && s.hasCorrectionData &&
		len(in.Xs) > 0 && len(in.Ys) > 0
	if !geometric && pointerID == 0 {
		s.refreshPrimaryWord()
		s.refreshTapCorrection()
	}
}

// checkContinuation decides whether the previous sampled state is a valid
// prefix of the new input. In gesture mode every sampled point must replay
// exactly at its stored original index; in tap mode the input must not have
// shrunk and the sampled prefix must match coordinate for coordinate.
func (s *Session) checkContinuation(in TouchInput, geometric bool) bool {
	if geometric {
		for i := 0; i < len(s.sampledXs); i++ {
			idx := s.inputIndices[i]
			if idx >= in.Size() || in.Xs[idx] != s.sampledXs[i] ||
				in.Ys[idx] != s.sampledYs[i] || in.Times[idx] != s.times[i] {
				return false
			}
		}
		return true
	}

	if in.Size() < len(s.sampledXs) {
		// A shrinking input invalidates the cache.
		return false
	}
	for i := 0; i < len(s.sampledXs) && i < MaxWordLength; i++ {
		if in.Xs[i] != s.sampledXs[i] || in.Ys[i] != s.sampledYs[i] {
			return false
		}
	}
	return true
}

// popInputData discards the most recently sampled point from the parallel
// arrays. Derived per-point state is truncated by the rebuild passes.
func (s *Session) popInputData() {
	n := len(s.sampledXs) - 1
	if n < 0 {
		return
	}
	s.sampledXs = s.sampledXs[:n]
	s.sampledYs = s.sampledYs[:n]
	s.times = s.times[:n]
	s.lengthCache = s.lengthCache[:n]
	s.inputIndices = s.inputIndices[:n]
}

// clear drops all per-gesture state, keeping allocations for reuse.
func (s *Session) clear() {
	s.sampledXs = s.sampledXs[:0]
	s.sampledYs = s.sampledYs[:0]
	s.times = s.times[:0]
	s.lengthCache = s.lengthCache[:0]
	s.inputIndices = s.inputIndices[:0]
	s.distanceCache = s.distanceCache[:0]
	s.nearKeys = s.nearKeys[:0]
	s.searchKeys = s.searchKeys[:0]
	s.speedRates = s.speedRates[:0]
	s.directions = s.directions[:0]
	s.beelinePercentiles = s.beelinePercentiles[:0]
	s.charProbabilities = s.charProbabilities[:0]
	s.averageSpeed = 0
}

// SampledSize returns the number of resampled points.
func (s *Session) SampledSize() int { return len(s.sampledXs) }

// InputX returns the x coordinate of a sampled point, or NotACoordinate for
// an out-of-range index.
func (s *Session) InputX(index int) int {
	if index < 0 || index >= len(s.sampledXs) {
		return NotACoordinate
	}
	return s.sampledXs[index]
}

// InputY returns the y coordinate of a sampled point, or NotACoordinate for
// an out-of-range index.
func (s *Session) InputY(index int) int {
	if index < 0 || index >= len(s.sampledYs) {
		return NotACoordinate
	}
	return s.sampledYs[index]
}

// LengthAt returns the cumulative path length at a sampled point.
func (s *Session) LengthAt(index int) int {
	if index < 0 || index >= len(s.lengthCache) {
		return 0
	}
	return s.lengthCache[index]
}

// Duration returns the time delta between a sampled point and its successor,
// or 0 at the final point and for out-of-range indices.
func (s *Session) Duration(index int) int {
	if index >= 0 && index < len(s.times)-1 {
		return s.times[index+1] - s.times[index]
	}
	return 0
}

// Direction returns the angle of the vector between two sampled points, or 0
// when either index is out of range.
func (s *Session) Direction(index0, index1 int) float64 {
	n := len(s.sampledXs)
	if index0 < 0 || index0 >= n || index1 < 0 || index1 >= n {
		return 0
	}
	return directionAngle(s.sampledXs[index0], s.sampledYs[index0],
		s.sampledXs[index1], s.sampledYs[index1])
}

// LineToKeySquaredDistance returns the squared distance from a key's center
// to the segment between two sampled points. When extend is true the segment
// is treated as an infinite line. Out-of-range indices return 0; the search
// engine probes boundary indices during pruning.
func (s *Session) LineToKeySquaredDistance(from, to, keyID int, extend bool) float64 {
	n := len(s.sampledXs)
	if from < 0 || from >= n || to < 0 || to >= n {
		return 0
	}
	keyX, keyY := s.geometry.KeyCenter(keyID)
	if keyX == NotACoordinate {
		return 0
	}
	return pointToLineSegSquaredDistance(keyX, keyY,
		s.sampledXs[from], s.sampledYs[from], s.sampledXs[to], s.sampledYs[to], extend)
}

// HasSpaceProximity reports whether a sampled point lies near the space key.
func (s *Session) HasSpaceProximity(index int) bool {
	if index < 0 || index >= len(s.sampledXs) {
		return false
	}
	return s.geometry.HasSpaceProximity(s.sampledXs[index], s.sampledYs[index])
}

// SpaceY returns the y coordinate of the space key's center, or
// NotACoordinate when the layout has no space key.
func (s *Session) SpaceY() int {
	keyID := s.geometry.KeyIndexOf(' ')
	_, y := s.geometry.KeyCenter(keyID)
	return y
}

// IsContinuation reports whether the last Update reused the previous state.
func (s *Session) IsContinuation() bool { return s.continuation }

// AverageSpeed returns the whole-stroke average speed computed by the last
// gesture-mode Update.
func (s *Session) AverageSpeed() float64 { return s.averageSpeed }
