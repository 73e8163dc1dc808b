package touch

import "math"

// Alignment model tuning constants. The model is unnormalized log-scale
// cost: lower is more probable.
const (
	// skipSpeedWeight converts relative speed into skip probability; a fast
	// mid-stroke point is likely transit between two key presses.
	skipSpeedWeight = 0.4
	// skipDistanceWeight converts distance-from-any-key into skip
	// probability.
	skipDistanceWeight = 0.3
	// minSkipProbability anchors the first and last points, which always
	// correspond to real key presses.
	minSkipProbability = 0.01
	// maxSkipProbability keeps every real key reachable even for the worst
	// transit points.
	maxSkipProbability = 0.95
	// alignBaseSigma is the spread of the key alignment kernel, in
	// normalized key widths, at average speed.
	alignBaseSigma = 1.2
	// alignSpeedSigmaScale widens the kernel for fast points, whose
	// position is less reliable.
	alignSpeedSigmaScale = 0.5
	// continuityWeight boosts keys that were probable at the previous point,
	// encouraging path continuity.
	continuityWeight = 0.5
	// minAlignProbability floors probabilities before the log transform.
	minAlignProbability = 1e-6
)

// updateAlignProbabilities computes, for every sampled point at or beyond
// lastSaved, a sparse distribution over key indices: the log-scale cost of
// aligning the point to each of its near keys, plus the distinguished skip
// entry keyed by NotAnIndex. The model is append-only; distributions of
// points below lastSaved are never recomputed, which is what makes the
// pop-two continuation sound.
func (s *Session) updateAlignProbabilities(lastSaved int) {
	n := len(s.sampledXs)
	if len(s.charProbabilities) > lastSaved {
		s.charProbabilities = s.charProbabilities[:lastSaved]
	}

	for i := lastSaved; i < n; i++ {
		dist := make(map[int]float64)

		// Nearest cached distance decides how plausible "no key at all" is.
		nearest := math.MaxFloat64
		row := i * s.keyCount
		for k := 0; k < s.keyCount; k++ {
			if !s.nearKeys[i].test(k) {
				continue
			}
			if d := s.distanceCache[row+k]; d >= 0 && d < nearest {
				nearest = d
			}
		}

		skipProb := s.skipProbability(i, n, nearest)

		if nearest == math.MaxFloat64 {
			// No key within the near threshold: the point can only be skip.
			dist[NotAnIndex] = -math.Log(maxSkipProbability)
			s.charProbabilities = append(s.charProbabilities, dist)
			continue
		}

		speed := s.speedRates[i]
		sigma := alignBaseSigma * (1 + alignSpeedSigmaScale*speed)
		twoSigmaSq := 2 * sigma * sigma

		var prev map[int]float64
		if i > 0 && i-1 < len(s.charProbabilities) {
			prev = s.charProbabilities[i-1]
		}

		// Distribute the non-skip mass over the near keys with a Gaussian
		// kernel on cached distance, coupled to the previous distribution.
		weights := make(map[int]float64)
		var sum float64
		for k := 0; k < s.keyCount; k++ {
			if !s.nearKeys[i].test(k) {
				continue
			}
			d := s.distanceCache[row+k]
			if d < 0 {
				continue
			}
			w := math.Exp(-d / twoSigmaSq)
			if prev != nil {
				if prevCost, ok := prev[k]; ok {
					w *= 1 + continuityWeight*math.Exp(-prevCost)
				}
			}
			weights[k] = w
			sum += w
		}

		if sum <= 0 {
			dist[NotAnIndex] = -math.Log(maxSkipProbability)
			s.charProbabilities = append(s.charProbabilities, dist)
			continue
		}

		keyMass := 1 - skipProb
		for k, w := range weights {
			p := keyMass * w / sum
			if p < minAlignProbability {
				p = minAlignProbability
			}
			dist[k] = -math.Log(p)
		}
		dist[NotAnIndex] = -math.Log(skipProb)

		s.charProbabilities = append(s.charProbabilities, dist)
	}
}

// skipProbability estimates how likely the sampled point is mid-stroke
// transit rather than a key press. The first and last points anchor the
// stroke and are effectively never skipped.
func (s *Session) skipProbability(index, sampledSize int, nearest float64) float64 {
	if index == 0 || index == sampledSize-1 {
		return minSkipProbability
	}
	speed := s.speedRates[index]
	distanceTerm := 1.0
	if nearest != math.MaxFloat64 {
		distanceTerm = 1 - 1/(1+nearest)
	}
	p := skipSpeedWeight*speed + skipDistanceWeight*distanceTerm
	if p < minSkipProbability {
		p = minSkipProbability
	}
	if p > maxSkipProbability {
		p = maxSkipProbability
	}
	return p
}

// Probability returns the alignment cost of mapping a sampled point to a
// key (or to the skip entry via NotAnIndex). Absent entries report the
// session's maximum point-to-key length.
func (s *Session) Probability(index, keyID int) float64 {
	if index < 0 || index >= len(s.charProbabilities) {
		return s.maxPointToKeyLength
	}
	if cost, ok := s.charProbabilities[index][keyID]; ok {
		return cost
	}
	return s.maxPointToKeyLength
}
