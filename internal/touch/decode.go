package touch

// demotionLogProbability penalizes every real-key entry during greedy
// decoding, so the skip entry wins only when it is clearly better than any
// key. Downstream scoring is calibrated against this greedy bias; do not
// replace the per-point minimum with a global optimization.
const demotionLogProbability = 0.3

// MostProbableString walks the per-point alignment distributions in order,
// picks the lowest adjusted cost at each point, and appends the winning
// key's code point unless the winner is the skip entry. It returns the
// decoded code points, truncated at the maximum word length, and the
// accumulated cost. Cost ties prefer a real key over skip, then the lowest
// key id, so repeated calls decode identically.
func (s *Session) MostProbableString() ([]rune, float64) {
	word := make([]rune, 0, MaxWordLength)
	var sumCost float64

	for i := 0; i < len(s.charProbabilities) && len(word) < MaxWordLength-1; i++ {
		minCost := float64(MaxPointToKeyLength)
		best := NotAnIndex
		for keyID, cost := range s.charProbabilities[i] {
			adjusted := cost
			if keyID != NotAnIndex {
				adjusted += demotionLogProbability
			}
			if adjusted < minCost || (adjusted == minCost && betterKey(keyID, best)) {
				minCost = adjusted
				best = keyID
			}
		}
		if best != NotAnIndex {
			word = append(word, s.geometry.CodePointOf(best))
		}
		sumCost += minCost
	}
	return word, sumCost
}

// betterKey breaks cost ties: a real key beats skip, lower key ids beat
// higher ones. Map iteration order must not leak into the decode result.
func betterKey(candidate, current int) bool {
	if candidate == NotAnIndex {
		return false
	}
	if current == NotAnIndex {
		return true
	}
	return candidate < current
}
