package touch

// Resampling constants.
const (
	// sampleSkipDistanceScale divides the most common key width into the
	// minimum spacing between consecutive gesture samples.
	sampleSkipDistanceScale = 4
)

// resample reduces the raw stream to the representative subsequence held in
// the parallel sampled arrays, starting the scan at rawStart. Tap mode
// accepts points 1:1; gesture mode drops points closer to the previous
// sample than the spacing threshold, except the final point of the stream,
// which is always kept so the stroke tip stays current.
//
// The keep/drop decision depends only on the previous sampled point, the
// current raw point and whether it is the final one, so a continued scan
// reproduces exactly what a from-scratch scan would have produced.
func (s *Session) resample(in TouchInput, pointerID, rawStart int, geometric bool) {
	size := in.Size()
	minSpacing := float64(s.mostCommonKeyWidth) / sampleSkipDistanceScale

	for i := rawStart; i < size; i++ {
		if len(in.PointerIDs) > 0 && in.PointerIDs[i] != pointerID {
			continue
		}
		x, y := in.Xs[i], in.Ys[i]
		t := 0
		if len(in.Times) > 0 {
			t = in.Times[i]
		}

		last := len(s.sampledXs) - 1
		if last < 0 {
			s.pushSample(x, y, t, i, 0)
			continue
		}

		if !geometric {
			s.pushSample(x, y, t, i,
				pointDistance(s.sampledXs[last], s.sampledYs[last], x, y))
			continue
		}

		d := pointDistance(s.sampledXs[last], s.sampledYs[last], x, y)
		isFinal := i == size-1
		if d >= minSpacing || (isFinal && d > 0) {
			s.pushSample(x, y, t, i, d)
		}
	}
}

// pushSample appends one point to the parallel sampled arrays, maintaining
// the non-decreasing cumulative length and original index invariants.
func (s *Session) pushSample(x, y, t, originalIndex int, dist float64) {
	length := 0
	if n := len(s.lengthCache); n > 0 {
		length = s.lengthCache[n-1] + int(dist)
	}
	s.sampledXs = append(s.sampledXs, x)
	s.sampledYs = append(s.sampledYs, y)
	s.times = append(s.times, t)
	s.lengthCache = append(s.lengthCache, length)
	s.inputIndices = append(s.inputIndices, originalIndex)
}
