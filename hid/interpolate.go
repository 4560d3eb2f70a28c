package hid

import "math"

// InterpolatePoints returns the intermediate touch points on the line from
// start to end, sampled every delta pixels. The endpoints themselves are
// excluded; the caller emits them as the initial press and final release.
//
// When delta is not positive, or the distance between the points is not
// larger than delta, there are no intermediate samples and the swipe
// degrades to a direct line. This is not an error.
func InterpolatePoints(start, end Point, delta float64) []Point {
	dx := end.X - start.X
	dy := end.Y - start.Y
	distance := math.Hypot(dx, dy)

	if delta <= 0 || distance <= delta {
		return nil
	}

	steps := int(math.Floor(distance / delta))
	points := make([]Point, 0, steps)
	for i := 1; i <= steps; i++ {
		t := float64(i) * delta / distance
		if t >= 1 {
			// distance is an exact multiple of delta; the last sample
			// would coincide with the end point
			break
		}
		points = append(points, Point{
			X: start.X + t*dx,
			Y: start.Y + t*dy,
		})
	}

	return points
}
