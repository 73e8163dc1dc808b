package touch

import (
	"math"

	"github.com/ayusman/glidetype/internal/keyboard"
)

// rebuildDistanceCache extends the dense point-to-key distance cache and the
// near key sets to cover sampled points at or beyond lastSaved. Points below
// lastSaved keep their previously cached rows.
func (s *Session) rebuildDistanceCache(lastSaved int) {
	n := len(s.sampledXs)
	s.distanceCache = resizeFloats(s.distanceCache, n*s.keyCount)
	s.nearKeys = s.resizeKeySets(s.nearKeys, n)
	s.searchKeys = s.resizeKeySets(s.searchKeys, n)

	for i := lastSaved; i < n; i++ {
		s.nearKeys[i].reset()
		s.searchKeys[i].reset()
		x, y := s.sampledXs[i], s.sampledYs[i]
		row := i * s.keyCount
		for k := 0; k < s.keyCount; k++ {
			d := s.geometry.NormalizedSquaredDistance(k, x, y)
			s.distanceCache[row+k] = d
			if d >= 0 && d < nearKeyThreshold {
				s.nearKeys[i].set(k)
			}
		}
	}
}

// rebuildSearchKeys recomputes the forward look-ahead key sets. For each
// point, the search set is the union of the near sets of every later point
// whose path-length delta stays under the look-ahead bound; the length
// sequence is monotonic so the scan may stop at the first point past the
// bound. Sets of points before lastSaved are only ever extended, which is
// sound because the replayed prefix is identical.
func (s *Session) rebuildSearchKeys(lastSaved int) {
	n := len(s.sampledXs)
	readForward := int(math.Hypot(float64(s.geometry.KeyboardWidth()),
		float64(s.geometry.KeyboardHeight())) * readForwardLengthScale)

	for i := 0; i < n; i++ {
		j := i
		if j < lastSaved {
			j = lastSaved
		}
		for ; j < n; j++ {
			if s.lengthCache[j]-s.lengthCache[i] >= readForward {
				break
			}
			s.searchKeys[i].union(s.nearKeys[j])
		}
	}
}

// resizeKeySets grows or truncates a per-point key set slice, allocating new
// sets for appended points.
func (s *Session) resizeKeySets(sets []keySet, n int) []keySet {
	if len(sets) > n {
		return sets[:n]
	}
	for len(sets) < n {
		sets = append(sets, newKeySet(s.keyCount))
	}
	return sets
}

// resizeFloats grows or truncates a float slice, zero-filling growth.
func resizeFloats(v []float64, n int) []float64 {
	if len(v) > n {
		return v[:n]
	}
	for len(v) < n {
		v = append(v, 0)
	}
	return v
}

// resizeInts grows or truncates an int slice, zero-filling growth.
func resizeInts(v []int, n int) []int {
	if len(v) > n {
		return v[:n]
	}
	for len(v) < n {
		v = append(v, 0)
	}
	return v
}

// isSkippableCodePoint reports whether a code point is punctuation-like
// filler that may appear inside a word without a matching key press.
func isSkippableCodePoint(c rune) bool {
	return c == '\'' || c == '-'
}

// PointToKeyLength returns the cached normalized squared distance from a
// sampled point to the key producing codePoint, clamped to the session's
// maximum point-to-key length. Code points with no key return 0 when
// skippable and MaxPointToKeyLength otherwise, so punctuation-like filler is
// ignored rather than penalized as an impossible key.
func (s *Session) PointToKeyLength(index int, codePoint rune) float64 {
	return s.PointToKeyLengthScaled(index, codePoint, 1.0)
}

// PointToKeyLengthScaled is PointToKeyLength with the cached distance scaled
// before clamping.
func (s *Session) PointToKeyLengthScaled(index int, codePoint rune, scale float64) float64 {
	keyID := s.geometry.KeyIndexOf(codePoint)
	if keyID != keyboard.NotAnIndex {
		return s.PointToKeyIDLengthScaled(index, keyID, scale)
	}
	if isSkippableCodePoint(codePoint) {
		return 0
	}
	return MaxPointToKeyLength
}

// PointToKeyIDLength returns the cached normalized squared distance from a
// sampled point to a key, clamped to the session's maximum.
func (s *Session) PointToKeyIDLength(index, keyID int) float64 {
	return s.PointToKeyIDLengthScaled(index, keyID, 1.0)
}

// PointToKeyIDLengthScaled is PointToKeyIDLength with scaling. Out-of-range
// indices return 0; an unavailable cached distance returns the maximum.
func (s *Session) PointToKeyIDLengthScaled(index, keyID int, scale float64) float64 {
	if keyID == NotAnIndex {
		return 0
	}
	if index < 0 || index >= len(s.sampledXs) || keyID < 0 || keyID >= s.keyCount {
		return 0
	}
	d := s.distanceCache[index*s.keyCount+keyID]
	if d < 0 {
		return s.maxPointToKeyLength
	}
	return math.Min(d*scale, s.maxPointToKeyLength)
}

// IsNearKey reports whether the key's cached distance to the sampled point is
// below the near threshold.
func (s *Session) IsNearKey(index, keyID int) bool {
	if index < 0 || index >= len(s.nearKeys) {
		return false
	}
	return s.nearKeys[index].test(keyID)
}

// IsKeyInSearchKeys reports whether the key is reachable from the sampled
// point within the forward look-ahead bound.
func (s *Session) IsKeyInSearchKeys(index, keyID int) bool {
	if index < 0 || index >= len(s.searchKeys) {
		return false
	}
	return s.searchKeys[index].test(keyID)
}

// AllPossibleChars appends to filter, deduplicated, the code point of every
// key in the sampled point's search set, and returns the extended slice.
func (s *Session) AllPossibleChars(index int, filter []rune) []rune {
	if index < 0 || index >= len(s.searchKeys) {
		return filter
	}
	for k := 0; k < s.keyCount; k++ {
		if !s.searchKeys[index].test(k) {
			continue
		}
		c := s.geometry.CodePointOf(k)
		seen := false
		for _, existing := range filter {
			if existing == c {
				seen = true
				break
			}
		}
		if !seen {
			filter = append(filter, c)
		}
	}
	return filter
}
