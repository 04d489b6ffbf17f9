package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// IsSimple reports whether the ring bounds a valid simple polygon:
// at least three distinct vertices, non-zero area, no repeated vertices
// and no edges touching or crossing other than neighbours at their shared vertex.
// The ring may be given open or closed.
func IsSimple(r orb.Ring) bool {
	pts := openRing(r)
	n := len(pts)
	if n < 3 {
		return false
	}

	seen := make(map[orb.Point]struct{}, n)
	for _, p := range pts {
		if _, ok := seen[p]; ok {
			return false
		}
		seen[p] = struct{}{}
	}

	if signedArea(pts) == 0 {
		return false
	}

	for i := 0; i < n; i++ {
		a1, a2 := pts[i], pts[(i+1)%n]
		for j := i + 1; j < n; j++ {
			b1, b2 := pts[j], pts[(j+1)%n]

			switch {
			case j == i+1:
				if foldsBack(a1, a2, b2) {
					return false
				}
			case i == 0 && j == n-1:
				if foldsBack(b1, a1, a2) {
					return false
				}
			default:
				if segmentsIntersect(a1, a2, b1, b2) {
					return false
				}
			}
		}
	}

	return true
}

// openRing drops the closing point and consecutive duplicates.
func openRing(r orb.Ring) []orb.Point {
	pts := make([]orb.Point, 0, len(r))
	for _, p := range r {
		if len(pts) > 0 && pts[len(pts)-1] == p {
			continue
		}
		pts = append(pts, p)
	}
	for len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}

	return pts
}

// closeRing returns a ring whose last point repeats the first.
func closeRing(pts []orb.Point) orb.Ring {
	r := make(orb.Ring, 0, len(pts)+1)
	r = append(r, pts...)
	if len(pts) > 0 && pts[0] != pts[len(pts)-1] {
		r = append(r, pts[0])
	}

	return r
}

// signedArea is positive for counter-clockwise vertex order.
func signedArea(pts []orb.Point) float64 {
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		p, q := pts[i], pts[(i+1)%n]
		sum += p[0]*q[1] - q[0]*p[1]
	}

	return sum / 2
}

// orient is positive when c lies left of a->b, negative right, zero collinear.
func orient(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// onSegment reports whether p lies on the closed segment a-b.
func onSegment(a, b, p orb.Point) bool {
	if orient(a, b, p) != 0 {
		return false
	}

	return p[0] >= math.Min(a[0], b[0]) && p[0] <= math.Max(a[0], b[0]) &&
		p[1] >= math.Min(a[1], b[1]) && p[1] <= math.Max(a[1], b[1])
}

// foldsBack reports whether the path prev->shared->next turns back onto itself.
func foldsBack(prev, shared, next orb.Point) bool {
	if orient(prev, shared, next) != 0 {
		return false
	}
	dot := (prev[0]-shared[0])*(next[0]-shared[0]) + (prev[1]-shared[1])*(next[1]-shared[1])

	return dot > 0
}

// segmentsIntersect reports whether closed segments a1-a2 and b1-b2 share any point.
func segmentsIntersect(a1, a2, b1, b2 orb.Point) bool {
	d1 := orient(b1, b2, a1)
	d2 := orient(b1, b2, a2)
	d3 := orient(a1, a2, b1)
	d4 := orient(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	return onSegment(b1, b2, a1) || onSegment(b1, b2, a2) ||
		onSegment(a1, a2, b1) || onSegment(a1, a2, b2)
}
