package touch

// Kinematic feature constants.
const (
	// beelineWindowLengthScale sizes the forward window of the beeline speed
	// percentile, in most common key widths of path length.
	beelineWindowLengthScale = 2
	// maxBeelinePercentile is the percentile of a perfectly straight window.
	maxBeelinePercentile = 100
)

// refreshSpeedRates computes the relative speed and direction of every
// sampled point at or beyond lastSaved, and returns the whole-stroke average
// speed. The relative speed is the local speed over the neighboring point
// window divided by the average; the direction is the angle of the vector
// from the previous sampled point.
func (s *Session) refreshSpeedRates(lastSaved int) float64 {
	n := len(s.sampledXs)
	s.speedRates = resizeFloats(s.speedRates, n)
	s.directions = resizeFloats(s.directions, n)

	duration := s.times[n-1] - s.times[0]
	if duration <= 0 {
		duration = 1
	}
	average := float64(s.lengthCache[n-1]) / float64(duration)

	for i := lastSaved; i < n; i++ {
		lo, hi := i-1, i+1
		if lo < 0 {
			lo = 0
		}
		if hi >= n {
			hi = n - 1
		}
		dl := s.lengthCache[hi] - s.lengthCache[lo]
		dt := s.times[hi] - s.times[lo]
		if dt <= 0 || average <= 0 {
			s.speedRates[i] = 1.0
		} else {
			s.speedRates[i] = (float64(dl) / float64(dt)) / average
		}

		if i == 0 {
			s.directions[i] = 0
		} else {
			s.directions[i] = directionAngle(s.sampledXs[i-1], s.sampledYs[i-1],
				s.sampledXs[i], s.sampledYs[i])
		}
	}
	return average
}

// refreshBeelinePercentiles recomputes the beeline speed percentile of every
// sampled point: the straight-line distance between the endpoints of a
// forward window divided by the path length covered, as a percentile. A low
// value marks a curving or turning segment, a high value a straight sweep.
// The window of a point near the stroke tip grows as more points arrive, so
// the whole range is recomputed on every update.
func (s *Session) refreshBeelinePercentiles() {
	n := len(s.sampledXs)
	s.beelinePercentiles = resizeInts(s.beelinePercentiles, n)
	window := s.mostCommonKeyWidth * beelineWindowLengthScale

	for i := 0; i < n; i++ {
		j := i
		for j+1 < n && s.lengthCache[j+1]-s.lengthCache[i] < window {
			j++
		}
		pathLen := s.lengthCache[j] - s.lengthCache[i]
		if pathLen <= 0 {
			s.beelinePercentiles[i] = maxBeelinePercentile
			continue
		}
		straight := pointDistance(s.sampledXs[i], s.sampledYs[i],
			s.sampledXs[j], s.sampledYs[j])
		p := int(straight / float64(pathLen) * maxBeelinePercentile)
		if p > maxBeelinePercentile {
			p = maxBeelinePercentile
		}
		if p < 0 {
			p = 0
		}
		s.beelinePercentiles[i] = p
	}
}

// SpeedRate returns the relative speed of a sampled point, or 0 for an
// out-of-range index or a tap-mode session.
func (s *Session) SpeedRate(index int) float64 {
	if index < 0 || index >= len(s.speedRates) {
		return 0
	}
	return s.speedRates[index]
}

// DirectionAt returns the direction angle stored for a sampled point: the
// angle of the vector from its predecessor. The first point reports 0.
func (s *Session) DirectionAt(index int) float64 {
	if index < 0 || index >= len(s.directions) {
		return 0
	}
	return s.directions[index]
}

// BeelineSpeedPercentile returns the beeline speed percentile of a sampled
// point, or 0 for an out-of-range index or a tap-mode session.
func (s *Session) BeelineSpeedPercentile(index int) int {
	if index < 0 || index >= len(s.beelinePercentiles) {
		return 0
	}
	return s.beelinePercentiles[index]
}
