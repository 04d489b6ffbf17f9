package geo

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Repair turns a self-intersecting or degenerate ring into valid polygons
// covering every area the ring winds around at least once.
//
// The ring is noded at every self-intersection, walked into simple loops
// (a loop closes whenever the walk revisits a node) and loops without area
// are dropped. The loops split the plane into faces whose winding number is
// the sum of the signed loops enclosing them. Faces with a non-zero winding
// are land, zero winding faces inside land are holes. Unlike a zero width
// buffer, lobes wound in opposite directions are all kept.
// Shells are returned counter-clockwise, holes clockwise.
func Repair(r orb.Ring) orb.MultiPolygon {
	pts := openRing(r)
	if len(pts) < 3 {
		return nil
	}

	loops := splitLoops(node(pts))
	if len(loops) == 0 {
		return nil
	}

	return nest(loops)
}

type split struct {
	t float64
	p orb.Point
}

// node inserts every intersection point into the edges it lies on.
// Intersections are computed once per edge pair so both edges receive
// bit-identical points.
func node(pts []orb.Point) []orb.Point {
	n := len(pts)
	splits := make([][]split, n)

	add := func(i int, p orb.Point) {
		a, b := pts[i], pts[(i+1)%n]
		if p == a || p == b {
			return
		}
		splits[i] = append(splits[i], split{t: param(a, b, p), p: p})
	}

	for i := 0; i < n; i++ {
		a1, a2 := pts[i], pts[(i+1)%n]
		for j := i + 1; j < n; j++ {
			b1, b2 := pts[j], pts[(j+1)%n]
			if !segmentsIntersect(a1, a2, b1, b2) {
				continue
			}

			// endpoints lying on the other edge cover touching and collinear overlaps
			touched := false
			for _, c := range []struct {
				edge int
				p    orb.Point
				a, b orb.Point
			}{
				{i, b1, a1, a2}, {i, b2, a1, a2},
				{j, a1, b1, b2}, {j, a2, b1, b2},
			} {
				if onSegment(c.a, c.b, c.p) {
					add(c.edge, c.p)
					touched = true
				}
			}
			if touched {
				continue
			}

			p := crossing(a1, a2, b1, b2)
			add(i, p)
			add(j, p)
		}
	}

	out := make([]orb.Point, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, pts[i])

		s := splits[i]
		sort.Slice(s, func(a, b int) bool { return s[a].t < s[b].t })
		for _, sp := range s {
			if out[len(out)-1] != sp.p {
				out = append(out, sp.p)
			}
		}
	}

	return openRing(out)
}

// param returns the position of p along a->b, 0 at a and 1 at b.
func param(a, b, p orb.Point) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	if math.Abs(dx) >= math.Abs(dy) {
		return (p[0] - a[0]) / dx
	}

	return (p[1] - a[1]) / dy
}

// crossing returns the intersection point of two properly crossing segments.
func crossing(a1, a2, b1, b2 orb.Point) orb.Point {
	d := (a2[0]-a1[0])*(b2[1]-b1[1]) - (a2[1]-a1[1])*(b2[0]-b1[0])
	t := ((b1[0]-a1[0])*(b2[1]-b1[1]) - (b1[1]-a1[1])*(b2[0]-b1[0])) / d

	return orb.Point{a1[0] + t*(a2[0]-a1[0]), a1[1] + t*(a2[1]-a1[1])}
}

// splitLoops walks the noded path and cuts a loop off every time a vertex repeats.
func splitLoops(pts []orb.Point) []orb.Ring {
	var (
		loops []orb.Ring
		stack []orb.Point
	)
	index := make(map[orb.Point]int, len(pts))

	keep := func(loop []orb.Point) {
		loop = openRing(loop)
		if len(loop) < 3 || signedArea(loop) == 0 {
			return
		}
		loops = append(loops, closeRing(loop))
	}

	for _, p := range pts {
		if k, ok := index[p]; ok {
			keep(append([]orb.Point(nil), stack[k:]...))
			for _, q := range stack[k+1:] {
				delete(index, q)
			}
			stack = stack[:k+1]
			continue
		}
		index[p] = len(stack)
		stack = append(stack, p)
	}
	keep(stack)

	return loops
}

// nest builds polygons from non-crossing loops. Each loop bounds a face
// whose winding is its own direction plus the winding of its smallest
// container. Land nested in land merges into the outer polygon.
func nest(loops []orb.Ring) orb.MultiPolygon {
	sort.SliceStable(loops, func(i, j int) bool {
		return math.Abs(signedArea(openRing(loops[i]))) > math.Abs(signedArea(openRing(loops[j])))
	})

	winding := make([]int, len(loops))
	owner := make([]int, len(loops)) // polygon index in the result, -1 outside land
	var mp orb.MultiPolygon

	for i, loop := range loops {
		container := -1
		for j := i - 1; j >= 0; j-- {
			if ringInside(loop, loops[j]) {
				container = j
				break
			}
		}

		winding[i] = direction(loop)
		inLand := false
		if container >= 0 {
			winding[i] += winding[container]
			inLand = owner[container] >= 0
		}

		switch land := winding[i] != 0; {
		case land && inLand:
			owner[i] = owner[container]
		case land:
			owner[i] = len(mp)
			mp = append(mp, orb.Polygon{oriented(loop, true)})
		case inLand:
			owner[i] = -1
			mp[owner[container]] = append(mp[owner[container]], oriented(loop, false))
		default:
			owner[i] = -1
		}
	}

	return mp
}

// direction is 1 for a counter-clockwise loop and -1 for a clockwise one.
func direction(r orb.Ring) int {
	if signedArea(openRing(r)) > 0 {
		return 1
	}

	return -1
}

// ringInside reports whether inner lies inside outer. Loops produced by
// splitLoops never cross, so the first vertex or edge midpoint of inner that
// is off the boundary of outer decides. A loop fully on the boundary of
// outer counts as inside.
func ringInside(inner, outer orb.Ring) bool {
	pts := openRing(inner)
	samples := make([]orb.Point, 0, 2*len(pts))
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		samples = append(samples, p, orb.Point{(p[0] + q[0]) / 2, (p[1] + q[1]) / 2})
	}

	for _, p := range samples {
		if onRing(outer, p) {
			continue
		}
		return planar.RingContains(outer, p)
	}

	return true
}

// oriented returns a copy of the ring in counter-clockwise order when ccw is
// set, clockwise otherwise.
func oriented(r orb.Ring, ccw bool) orb.Ring {
	out := append(orb.Ring(nil), r...)
	if (signedArea(openRing(out)) > 0) != ccw {
		out.Reverse()
	}

	return out
}
