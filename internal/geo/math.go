package geo

// Mean returns the per-column arithmetic mean of the given positions
// (mean longitude, mean latitude). It returns false for an empty input.
//
// Nested geometries are reduced bottom-up: every ring is reduced to its mean
// first, and a parent averages the means of its children. A polygon with
// holes is therefore the mean of its ring means, not the mean of all of its
// points.
func Mean(points []Coord) (Coord, bool) {
	if len(points) == 0 {
		return Coord{}, false
	}

	var lon, lat float64
	for _, p := range points {
		lon += p[0]
		lat += p[1]
	}

	n := float64(len(points))
	return Coord{lon / n, lat / n}, true
}
