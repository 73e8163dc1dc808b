package touch

import "math"

// pointDistance returns the Euclidean distance between two points.
func pointDistance(x0, y0, x1, y1 int) float64 {
	return math.Hypot(float64(x1-x0), float64(y1-y0))
}

// directionAngle returns the angle, in radians, of the vector from
// (x0, y0) to (x1, y1).
func directionAngle(x0, y0, x1, y1 int) float64 {
	return math.Atan2(float64(y1-y0), float64(x1-x0))
}

// pointToLineSegSquaredDistance returns the squared distance from point
// (px, py) to the segment (x0, y0)-(x1, y1). When extend is true the segment
// is treated as an infinite line.
func pointToLineSegSquaredDistance(px, py, x0, y0, x1, y1 int, extend bool) float64 {
	fx, fy := float64(px), float64(py)
	ax, ay := float64(x0), float64(y0)
	bx, by := float64(x1), float64(y1)

	dx, dy := bx-ax, by-ay
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		ex, ey := fx-ax, fy-ay
		return ex*ex + ey*ey
	}

	t := ((fx-ax)*dx + (fy-ay)*dy) / lengthSq
	if !extend {
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	cx, cy := ax+t*dx, ay+t*dy
	ex, ey := fx-cx, fy-cy
	return ex*ex + ey*ey
}
