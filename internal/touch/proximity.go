package touch

import "github.com/ayusman/glidetype/internal/keyboard"

// ProximityType classifies how a candidate character relates to what was
// typed at a given input position, ordered by decreasing specificity.
// Callers rely on EquivalentChar being the cheapest, most certain match and
// on AdditionalProximityChar being a strictly weaker signal than
// NearProximityChar.
type ProximityType int

const (
	// EquivalentChar: the candidate is the typed character itself.
	EquivalentChar ProximityType = iota
	// NearProximityChar: the candidate is a physically adjacent key or the
	// accent-folded form of the typed character.
	NearProximityChar
	// AdditionalProximityChar: the candidate is in the weaker second tier of
	// the proximity list.
	AdditionalProximityChar
	// UnrelatedChar: the candidate appears nowhere in the proximity list.
	UnrelatedChar
)

// String returns the classification name for logs.
func (t ProximityType) String() string {
	switch t {
	case EquivalentChar:
		return "equivalent"
	case NearProximityChar:
		return "near"
	case AdditionalProximityChar:
		return "additional"
	default:
		return "unrelated"
	}
}

// buildInputProximities captures the per-point proximity lists for a tap
// sequence, up to the maximum word length.
func (s *Session) buildInputProximities(in TouchInput) {
	size := in.Size()
	if len(in.Codes) < size {
		size = len(in.Codes)
	}
	if size > MaxWordLength {
		size = MaxWordLength
	}

	s.inputProximities = s.inputProximities[:0]
	for i := 0; i < size; i++ {
		s.inputProximities = append(s.inputProximities,
			s.geometry.ProximityAt(in.Codes[i], in.Xs[i], in.Ys[i]))
	}
}

// refreshPrimaryWord rebuilds the primary input word: the first-listed
// proximity character of every typed point.
func (s *Session) refreshPrimaryWord() {
	s.primaryWord = s.primaryWord[:0]
	for _, list := range s.inputProximities {
		if len(list.Near) == 0 {
			break
		}
		s.primaryWord = append(s.primaryWord, list.Near[0])
	}
}

// PrimaryCodePointAt returns the primary proximity character of a typed
// point, or 0 for an out-of-range index.
func (s *Session) PrimaryCodePointAt(index int) rune {
	if index < 0 || index >= len(s.primaryWord) {
		return 0
	}
	return s.primaryWord[index]
}

// PrimaryInputWord returns a copy of the primary input word.
func (s *Session) PrimaryInputWord() []rune {
	word := make([]rune, len(s.primaryWord))
	copy(word, s.primaryWord)
	return word
}

// MatchProximity classifies candidate character c against what was typed at
// the given input index. Priority order, which callers depend on:
//
//  1. c equals the primary character, exactly or accent-folded → EquivalentChar.
//  2. Proximity matching disabled → UnrelatedChar.
//  3. The folded primary equals the folded c → NearProximityChar. This
//     relates an accented character to its base letter without pulling in
//     the base letter's neighbors.
//  4. c found in the near tier → NearProximityChar at its position.
//  5. c found in the additional tier → AdditionalProximityChar at its
//     position.
//  6. Otherwise → UnrelatedChar.
//
// The returned position counts through the flattened list with one slot
// reserved for the tier delimiter, so additional-tier positions start at
// len(near)+1. Out-of-range indices classify as UnrelatedChar.
func (s *Session) MatchProximity(index int, c rune, checkProximityChars bool) (ProximityType, int) {
	if index < 0 || index >= len(s.inputProximities) {
		return UnrelatedChar, 0
	}
	list := s.inputProximities[index]
	if len(list.Near) == 0 {
		return UnrelatedChar, 0
	}

	first := list.Near[0]
	base := keyboard.BaseLower(c)

	if first == base || first == c {
		return EquivalentChar, 0
	}
	if !checkProximityChars {
		return UnrelatedChar, 0
	}
	if keyboard.BaseLower(first) == base {
		return NearProximityChar, 0
	}

	for j := 1; j < len(list.Near) && j < MaxProximityCharsSize; j++ {
		if list.Near[j] == base || list.Near[j] == c {
			return NearProximityChar, j
		}
	}

	offset := len(list.Near) + 1
	for j := 0; j < len(list.Additional) && offset+j < MaxProximityCharsSize; j++ {
		if list.Additional[j] == base || list.Additional[j] == c {
			return AdditionalProximityChar, offset + j
		}
	}

	return UnrelatedChar, 0
}

// refreshTapCorrection rebuilds the scaled sweet-spot distance table used by
// the tap correction path: for every sampled point and every character of
// its proximity list, the squared distance to the key's sweet spot,
// normalized by the squared sweet-spot radius and scaled to an integer.
// Entries without sweet-spot data fall back to the fixed
// with/without-distance-info constants; the delimiter slot stays at the
// sentinel.
func (s *Session) refreshTapCorrection() {
	n := len(s.sampledXs)
	s.normalizedSquaredDistances = resizeInts(
		s.normalizedSquaredDistances, n*MaxProximityCharsSize)
	for i := range s.normalizedSquaredDistances {
		s.normalizedSquaredDistances[i] = NotADistanceInt
	}
	if !s.touchCorrectionEnabled {
		return
	}

	for i := 0; i < n && i < len(s.inputProximities); i++ {
		list := s.inputProximities[i]
		flat := i * MaxProximityCharsSize

		for j, c := range list.Near {
			if j >= MaxProximityCharsSize {
				break
			}
			s.normalizedSquaredDistances[flat+j] = s.scaledSweetSpotDistance(c, i, j == 0)
		}
		offset := len(list.Near) + 1
		for j, c := range list.Additional {
			if offset+j >= MaxProximityCharsSize {
				break
			}
			s.normalizedSquaredDistances[flat+offset+j] = s.scaledSweetSpotDistance(c, i, false)
		}
	}
}

// scaledSweetSpotDistance converts a sampled point's sweet-spot distance to
// one proximity character into the integer table entry.
func (s *Session) scaledSweetSpotDistance(c rune, inputIndex int, isPrimary bool) int {
	d := s.normalizedSweetSpotDistance(s.geometry.KeyIndexOf(c), inputIndex)
	if d >= 0 {
		return int(d * distanceScalingFactor)
	}
	if isPrimary {
		return equivalentCharWithoutDistanceInfo
	}
	return proximityCharWithoutDistanceInfo
}

// normalizedSweetSpotDistance returns the squared distance from a sampled
// point to a key's sweet-spot center, normalized by the squared sweet-spot
// radius, or the negative sentinel when the key has no sweet-spot data.
func (s *Session) normalizedSweetSpotDistance(keyID, inputIndex int) float64 {
	if keyID == NotAnIndex || !s.geometry.HasSweetSpotData(keyID) {
		return keyboard.NotADistance
	}
	if inputIndex < 0 || inputIndex >= len(s.sampledXs) ||
		s.sampledXs[inputIndex] == NotACoordinate {
		return keyboard.NotADistance
	}
	cx, cy := s.geometry.SweetSpotCenter(keyID)
	dx := float64(s.sampledXs[inputIndex]) - cx
	dy := float64(s.sampledYs[inputIndex]) - cy
	r := s.geometry.SweetSpotRadius(keyID)
	if r <= 0 {
		return keyboard.NotADistance
	}
	return (dx*dx + dy*dy) / (r * r)
}

// NormalizedSquaredDistance returns the scaled sweet-spot distance table
// entry for a sampled point and a position in its proximity list, or
// NotADistanceInt when unavailable.
func (s *Session) NormalizedSquaredDistance(index, proximityIndex int) int {
	flat := index*MaxProximityCharsSize + proximityIndex
	if index < 0 || proximityIndex < 0 || proximityIndex >= MaxProximityCharsSize ||
		flat >= len(s.normalizedSquaredDistances) {
		return NotADistanceInt
	}
	return s.normalizedSquaredDistances[flat]
}

// TouchCorrectionEnabled reports whether the tap correction table is
// populated for this session.
func (s *Session) TouchCorrectionEnabled() bool { return s.touchCorrectionEnabled }
