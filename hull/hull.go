/*
 * hull.go, part of golig.
 *
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package hull extracts the convex hull of a set of points in 3D space,
// given as the rows of an N x 3 matrix. It implements quickhull. The
// implementation favors simplicity over asymptotics: hulls here are built
// once per molecule over at most a few thousand atoms, so constant factors
// do not matter much.
package hull

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// face is one triangular facet of the hull under construction. The normal
// is unit length and points away from the hull interior; outside holds the
// not-yet-processed points in front of the facet.
type face struct {
	v       [3]int
	normal  []float64
	offset  float64
	outside []int
}

// Indices returns, in increasing order, the indices of the rows of points
// that are vertices of the set's convex hull. Sets that do not span three
// dimensions (fewer than 4 points, or all points collinear or coplanar
// within tolerance) are returned whole: every point of such a set lies on
// the boundary of its flat convex body, which is all the callers here need.
// The only error is an empty input.
func Indices(points *mat.Dense) ([]int, error) {
	n, _ := points.Dims()
	if n == 0 {
		return nil, errors.New("hull: no points given")
	}
	if n <= 3 {
		return allIndices(n), nil
	}
	eps := scaleEps(points)
	simplex, ok := initialSimplex(points, eps)
	if !ok {
		return allIndices(n), nil
	}
	interior := centroid(points, simplex[:])

	faces := make([]*face, 0, 4)
	for _, tri := range [][3]int{
		{simplex[0], simplex[1], simplex[2]},
		{simplex[0], simplex[1], simplex[3]},
		{simplex[0], simplex[2], simplex[3]},
		{simplex[1], simplex[2], simplex[3]},
	} {
		faces = append(faces, newFace(points, tri, interior))
	}
	inSimplex := map[int]bool{simplex[0]: true, simplex[1]: true, simplex[2]: true, simplex[3]: true}
	for i := 0; i < n; i++ {
		if inSimplex[i] {
			continue
		}
		assign(points, i, faces, eps)
	}

	for {
		var work *face
		for _, f := range faces {
			if f != nil && len(f.outside) > 0 {
				work = f
				break
			}
		}
		if work == nil {
			break
		}
		far := farthest(points, work)

		var visible []int
		for i, f := range faces {
			if f != nil && signedDist(points, f, far) > eps {
				visible = append(visible, i)
			}
		}
		horizon := horizonEdges(faces, visible)
		var orphans []int
		for _, i := range visible {
			for _, p := range faces[i].outside {
				if p != far {
					orphans = append(orphans, p)
				}
			}
			faces[i] = nil
		}
		created := make([]*face, 0, len(horizon))
		for _, e := range horizon {
			nf := newFace(points, [3]int{e[0], e[1], far}, interior)
			created = append(created, nf)
			faces = append(faces, nf)
		}
		for _, p := range orphans {
			assign(points, p, created, eps)
		}
	}

	onHull := make(map[int]bool)
	for _, f := range faces {
		if f == nil {
			continue
		}
		for _, v := range f.v {
			onHull[v] = true
		}
	}
	out := make([]int, 0, len(onHull))
	for v := range onHull {
		out = append(out, v)
	}
	sort.Ints(out)
	return out, nil
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// scaleEps returns the degeneracy tolerance, scaled to the extent of the
// point set so hulls of molecules in Bohr and in A behave the same.
func scaleEps(points *mat.Dense) float64 {
	n, _ := points.Dims()
	extent := 0.0
	for i := 0; i < n; i++ {
		for _, v := range points.RawRowView(i) {
			if a := math.Abs(v); a > extent {
				extent = a
			}
		}
	}
	eps := 1e-9 * extent
	if eps < 1e-12 {
		eps = 1e-12
	}
	return eps
}

// initialSimplex picks 4 affinely independent points: the most separated
// pair among the axis extremes, the point farthest from their line, and the
// point farthest from the resulting plane. ok is false when the set spans
// fewer than 3 dimensions within tolerance.
func initialSimplex(points *mat.Dense, eps float64) (simplex [4]int, ok bool) {
	n, _ := points.Dims()
	//the most separated pair among the 6 axis extremes
	var extremes [6]int
	for dim := 0; dim < 3; dim++ {
		lo, hi := 0, 0
		for i := 1; i < n; i++ {
			if points.At(i, dim) < points.At(lo, dim) {
				lo = i
			}
			if points.At(i, dim) > points.At(hi, dim) {
				hi = i
			}
		}
		extremes[2*dim] = lo
		extremes[2*dim+1] = hi
	}
	best := 0.0
	for i := 0; i < 6; i++ {
		for j := i + 1; j < 6; j++ {
			d := dist2(points, extremes[i], extremes[j])
			if d > best {
				best = d
				simplex[0], simplex[1] = extremes[i], extremes[j]
			}
		}
	}
	if math.Sqrt(best) < eps {
		return simplex, false //all points coincide
	}
	//farthest from the line simplex[0]-simplex[1]
	ab := rowDiff(points, simplex[1], simplex[0])
	lineLen := math.Sqrt(floats.Dot(ab, ab))
	best = 0.0
	simplex[2] = -1
	for i := 0; i < n; i++ {
		ap := rowDiff(points, i, simplex[0])
		c := cross(ab, ap)
		d := math.Sqrt(floats.Dot(c, c)) / lineLen
		if d > best {
			best = d
			simplex[2] = i
		}
	}
	if simplex[2] < 0 || best < eps {
		return simplex, false //collinear
	}
	//farthest from the plane of the first three
	normal := cross(ab, rowDiff(points, simplex[2], simplex[0]))
	floats.Scale(1/math.Sqrt(floats.Dot(normal, normal)), normal)
	best = 0.0
	simplex[3] = -1
	for i := 0; i < n; i++ {
		d := math.Abs(floats.Dot(normal, rowDiff(points, i, simplex[0])))
		if d > best {
			best = d
			simplex[3] = i
		}
	}
	if simplex[3] < 0 || best < eps {
		return simplex, false //coplanar
	}
	return simplex, true
}

// newFace builds the facet over the given vertices with its normal oriented
// away from the interior point.
func newFace(points *mat.Dense, v [3]int, interior []float64) *face {
	ab := rowDiff(points, v[1], v[0])
	ac := rowDiff(points, v[2], v[0])
	normal := cross(ab, ac)
	norm := math.Sqrt(floats.Dot(normal, normal))
	if norm > 0 {
		floats.Scale(1/norm, normal)
	}
	offset := floats.Dot(normal, points.RawRowView(v[0]))
	if floats.Dot(normal, interior)-offset > 0 {
		floats.Scale(-1, normal)
		offset = -offset
	}
	return &face{v: v, normal: normal, offset: offset}
}

// assign puts point p in the outside set of the first face it is in front
// of. Points behind every face are interior and dropped.
func assign(points *mat.Dense, p int, faces []*face, eps float64) {
	for _, f := range faces {
		if f == nil {
			continue
		}
		if signedDist(points, f, p) > eps {
			f.outside = append(f.outside, p)
			return
		}
	}
}

// farthest returns the point of f's outside set farthest in front of f.
func farthest(points *mat.Dense, f *face) int {
	best := f.outside[0]
	bestD := signedDist(points, f, best)
	for _, p := range f.outside[1:] {
		if d := signedDist(points, f, p); d > bestD {
			best, bestD = p, d
		}
	}
	return best
}

// horizonEdges returns the edges shared between a visible face and a hidden
// one, i.e. the boundary around the patch of faces to be replaced.
func horizonEdges(faces []*face, visible []int) [][2]int {
	seen := make(map[[2]int][2]int) //normalized edge -> original orientation
	for _, i := range visible {
		f := faces[i]
		for _, e := range [][2]int{{f.v[0], f.v[1]}, {f.v[1], f.v[2]}, {f.v[2], f.v[0]}} {
			key := e
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			if _, dup := seen[key]; dup {
				delete(seen, key) //interior edge of the visible patch
			} else {
				seen[key] = e
			}
		}
	}
	out := make([][2]int, 0, len(seen))
	for _, e := range seen {
		out = append(out, e)
	}
	return out
}

func signedDist(points *mat.Dense, f *face, p int) float64 {
	return floats.Dot(f.normal, points.RawRowView(p)) - f.offset
}

func centroid(points *mat.Dense, idx []int) []float64 {
	out := make([]float64, 3)
	for _, i := range idx {
		floats.Add(out, points.RawRowView(i))
	}
	floats.Scale(1/float64(len(idx)), out)
	return out
}

func dist2(points *mat.Dense, i, j int) float64 {
	d := rowDiff(points, i, j)
	return floats.Dot(d, d)
}

func rowDiff(points *mat.Dense, i, j int) []float64 {
	out := make([]float64, 3)
	floats.SubTo(out, points.RawRowView(i), points.RawRowView(j))
	return out
}

func cross(a, b []float64) []float64 {
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
