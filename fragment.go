/*
 * fragment.go, part of golig.
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

package lig

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/magee/golig/hull"
)

// Unit conversion for Turbomole coord files, which keep lengths in Bohr.
// Internally everything is in Angstroms.
const (
	bohr2A = 0.52917724900001
	a2Bohr = 1.889725989
)

// connectorLabel marks the entry in an input file where another fragment
// will be attached. The marked entry is not an atom of the fragment.
const connectorLabel = "X"

// defPrecision is the squared-magnitude tolerance below which a connector
// vector is taken to sit at the origin already.
const defPrecision = 1e-5

// Fragment is one rigid molecule to be docked. It owns its coordinates
// (rows of an N x 3 matrix, in A), the matching element labels, the
// connection point extracted at parse time, and a convex-hull subset of its
// atoms. The hull is built exactly once, right after the initial
// reorientation; after that every transform is applied to coordinates,
// connector and hull together, so the hull stays consistent without ever
// being recomputed. Hull rows are copies, never views into the main matrix.
type Fragment struct {
	coords     *mat.Dense
	labels     []string
	connect    []float64
	hull       *mat.Dense
	hullLabels []string
	name       string //the file this fragment came from, if any
	precision  float64
}

// NewFragment reads one fragment from r in the given format ("coord" for
// Turbomole coord files, "xyz" for plain xyz). The input must contain
// exactly one entry labeled X; that entry becomes the connection point and
// is removed from the atom list. The fragment is then centered on its
// centroid, rotated so the connector lies along z, and its convex hull is
// extracted and cached.
func NewFragment(r io.Reader, format string) (*Fragment, error) {
	F := &Fragment{precision: defPrecision}
	var err error
	switch format {
	case "coord":
		F.coords, F.labels, err = readCoord(r)
	case "xyz":
		F.coords, F.labels, err = readXYZ(r)
	default:
		return nil, &FormatError{message: ErrUnknownFormat, format: format}
	}
	if err != nil {
		return nil, errDecorate(err, "NewFragment")
	}
	if err = F.extractConnector(); err != nil {
		return nil, errDecorate(err, "NewFragment")
	}
	F.Orient()
	if err = F.buildHull(); err != nil {
		return nil, errDecorate(err, "NewFragment")
	}
	return F, nil
}

// FragmentFromFile opens name and reads a fragment from it. Files ending in
// .gz are decompressed on the fly. If format is empty it is deduced from the
// file name: names containing "coord" are Turbomole, names containing ".xyz"
// are xyz.
func FragmentFromFile(name, format string) (*Fragment, error) {
	if format == "" {
		var err error
		format, err = DetectFormat(name)
		if err != nil {
			return nil, errDecorate(err, "FragmentFromFile "+name)
		}
	}
	fin, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	var r io.Reader = fin
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(fin)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	F, err := NewFragment(r, format)
	if err != nil {
		if v, ok := err.(*ValidationError); ok {
			v.file = name
		}
		return nil, errDecorate(err, "FragmentFromFile "+name)
	}
	F.name = name
	return F, nil
}

// DetectFormat deduces a coordinate format tag from a file name, ignoring a
// trailing .gz. Names containing "coord" win over names containing ".xyz",
// as a file called coord.xyz is almost certainly a misnamed Turbomole file.
func DetectFormat(name string) (string, error) {
	base := strings.TrimSuffix(name, ".gz")
	switch {
	case strings.Contains(base, "coord"):
		return "coord", nil
	case strings.Contains(base, ".xyz"):
		return "xyz", nil
	}
	return "", &FormatError{message: ErrNoFormatForName, format: name}
}

// readCoord reads the $coord block of a Turbomole coord file. Lengths come
// in Bohr and are converted to A. The label is the last field of each line.
func readCoord(r io.Reader) (*mat.Dense, []string, error) {
	var data []float64
	var labels []string
	started := false
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "$coord") {
			started = true
			continue
		}
		if started && strings.HasPrefix(strings.TrimSpace(line), "$") {
			break
		}
		if !started {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 4 {
			return nil, nil, &ValidationError{message: ErrShortRecord}
		}
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, nil, &ValidationError{message: ErrBadCoordinate}
			}
			data = append(data, v*bohr2A)
		}
		labels = append(labels, capitalize(fields[3]))
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if len(labels) == 0 {
		return nil, nil, &ValidationError{message: ErrNoAtoms}
	}
	return mat.NewDense(len(labels), 3, data), labels, nil
}

// readXYZ reads an xyz file: a 2-line header (atom count plus comment)
// followed by "label x y z" records. The declared count is not trusted;
// every record line present is read.
func readXYZ(r io.Reader) (*mat.Dense, []string, error) {
	var data []float64
	var labels []string
	scanner := bufio.NewScanner(r)
	count := 0
	for scanner.Scan() {
		line := scanner.Text()
		count++
		if count <= 2 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 4 {
			return nil, nil, &ValidationError{message: ErrShortRecord}
		}
		labels = append(labels, capitalize(fields[0]))
		for i := 1; i < 4; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, nil, &ValidationError{message: ErrBadCoordinate}
			}
			data = append(data, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if len(labels) == 0 {
		return nil, nil, &ValidationError{message: ErrNoAtoms}
	}
	return mat.NewDense(len(labels), 3, data), labels, nil
}

// capitalize normalizes an element label: "cl" and "CL" both become "Cl".
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// extractConnector finds the single X entry, stores its position as the
// connection point and removes it from the atom list.
func (F *Fragment) extractConnector() error {
	idx := -1
	count := 0
	for i, l := range F.labels {
		if l == connectorLabel {
			idx = i
			count++
		}
	}
	if count != 1 {
		return &ValidationError{message: ErrConnector}
	}
	F.connect = make([]float64, 3)
	copy(F.connect, F.coords.RawRowView(idx))
	n, _ := F.coords.Dims()
	if n == 1 {
		return &ValidationError{message: ErrNoAtoms}
	}
	rest := mat.NewDense(n-1, 3, nil)
	labels := make([]string, 0, n-1)
	for i := 0; i < n; i++ {
		if i == idx {
			continue
		}
		rest.SetRow(len(labels), F.coords.RawRowView(i))
		labels = append(labels, F.labels[i])
	}
	F.coords = rest
	F.labels = labels
	return nil
}

// buildHull extracts the convex-hull subset of the current coordinates.
// Called exactly once, from NewFragment, after Orient. Hull coordinates are
// independent copies of the corresponding atom rows.
func (F *Fragment) buildHull() error {
	idx, err := hull.Indices(F.coords)
	if err != nil {
		return &ValidationError{message: err.Error()}
	}
	F.hull = mat.NewDense(len(idx), 3, nil)
	F.hullLabels = make([]string, len(idx))
	for k, i := range idx {
		F.hull.SetRow(k, F.coords.RawRowView(i))
		F.hullLabels[k] = F.labels[i]
	}
	return nil
}

// NAtoms returns the number of atoms in the fragment, the connector excluded.
func (F *Fragment) NAtoms() int {
	n, _ := F.coords.Dims()
	return n
}

// Size returns the number of points in the fragment's convex hull. It is
// used as a cheap proxy for how much surface the fragment can clash with.
func (F *Fragment) Size() int {
	n, _ := F.hull.Dims()
	return n
}

// Connect returns a copy of the fragment's connection point.
func (F *Fragment) Connect() []float64 {
	c := make([]float64, 3)
	copy(c, F.connect)
	return c
}

// String returns the name of the file this fragment was read from.
func (F *Fragment) String() string { return F.name }

// Orient centers the fragment on the unweighted mean of its atom positions
// and rotates it about that center so the connection point lies along the z
// axis, using the minimal rotation obtained from the half-angle relation
// between the connector direction and z. If the connector sits at the new
// origin (squared magnitude under the precision) only the centering is done.
func (F *Fragment) Orient() {
	n, _ := F.coords.Dims()
	cov := make([]float64, 3)
	for i := 0; i < n; i++ {
		floats.Add(cov, F.coords.RawRowView(i))
	}
	floats.Scale(1/float64(n), cov)
	F.ShiftOrigin(cov)

	conMag2 := floats.Dot(F.connect, F.connect)
	if conMag2 < F.precision {
		return
	}
	conMag := math.Sqrt(conMag2)
	z := []float64{0, 0, 1}
	cosT := floats.Dot(F.connect, z) / conMag
	//half-angle relation: |params| must equal sin(theta/2) about the unit axis
	sinHalf := math.Sqrt((1 - cosT) / 2)
	axis := cross(z, F.connect)
	axisMag := math.Sqrt(floats.Dot(axis, axis))
	if axisMag < F.precision {
		//connector already colinear with z, nothing to rotate
		return
	}
	floats.Scale(sinHalf/axisMag, axis)
	F.Rotate(axis)
}

// Rotate applies to the whole fragment the rigid rotation encoded by the
// 3-component Euler-Rodrigues parameter vector params, whose implied fourth
// component is sqrt(1-|params|^2). Coordinates, connection point and hull are
// all rotated together. Only meaningful for |params| <= 1.
func (F *Fragment) Rotate(params []float64) {
	r := rotationMatrix(params)
	c := &mat.Dense{}
	c.Mul(F.coords, r.T())
	F.coords = c
	F.connect = rotateVec(r, F.connect)
	if F.hull != nil {
		h := &mat.Dense{}
		h.Mul(F.hull, r.T())
		F.hull = h
	}
}

// RotateCopy is the read-only version of Rotate, used while searching for
// the best orientation. With useHull it returns the rotated hull points and
// a nil connector; otherwise the rotated full coordinate set and the rotated
// connection point. The fragment itself is never touched.
func (F *Fragment) RotateCopy(params []float64, useHull bool) (*mat.Dense, []float64) {
	r := rotationMatrix(params)
	out := &mat.Dense{}
	if useHull {
		out.Mul(F.hull, r.T())
		return out, nil
	}
	out.Mul(F.coords, r.T())
	return out, rotateVec(r, F.connect)
}

// ShiftOrigin translates coordinates, connection point and hull by
// -newOrigin, i.e. it makes newOrigin the new origin of the fragment.
func (F *Fragment) ShiftOrigin(newOrigin []float64) {
	//copied first, as newOrigin may alias F.connect
	origin := make([]float64, 3)
	copy(origin, newOrigin)
	n, _ := F.coords.Dims()
	for i := 0; i < n; i++ {
		floats.Sub(F.coords.RawRowView(i), origin)
	}
	if F.hull != nil {
		h, _ := F.hull.Dims()
		for i := 0; i < h; i++ {
			floats.Sub(F.hull.RawRowView(i), origin)
		}
	}
	floats.Sub(F.connect, origin)
}

// rotationMatrix builds the Euler-Rodrigues rotation matrix for the
// parameter vector params, with implied scalar component
// a = sqrt(1-|params|^2). Coordinates are row vectors, so the matrix is
// applied as coords * R^T.
func rotationMatrix(params []float64) *mat.Dense {
	aa := 1 - floats.Dot(params, params)
	a := math.Sqrt(aa)
	b, c, d := params[0], params[1], params[2]
	bb, cc, dd := b*b, c*c, d*d
	bc, ad, ac, ab, bd, cd := b*c, a*d, a*c, a*b, b*d, c*d
	return mat.NewDense(3, 3, []float64{
		aa + bb - cc - dd, 2 * (bc + ad), 2 * (bd - ac),
		2 * (bc - ad), aa + cc - bb - dd, 2 * (cd + ab),
		2 * (bd + ac), 2 * (cd - ab), aa + dd - bb - cc,
	})
}

// rotateVec returns r applied to the row vector v, as a new slice.
func rotateVec(r *mat.Dense, v []float64) []float64 {
	out := make([]float64, 3)
	for i := 0; i < 3; i++ {
		out[i] = r.At(i, 0)*v[0] + r.At(i, 1)*v[1] + r.At(i, 2)*v[2]
	}
	return out
}

// cross returns the cross product of two 3-vectors.
func cross(a, b []float64) []float64 {
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Serialize writes the fragment's current coordinates to w in the given
// format. With header, coord files get their $coord/$end block markers and
// xyz files their count-plus-blank preamble; without it only the atom
// records are written, so several fragments can share one output. coord
// output is converted back to Bohr and uses lower-case labels; xyz output
// stays in A and uses upper-case labels.
func (F *Fragment) Serialize(w io.Writer, format string, header bool) error {
	n, _ := F.coords.Dims()
	switch format {
	case "coord":
		if header {
			if _, err := fmt.Fprint(w, "$coord\n"); err != nil {
				return err
			}
		}
		for i := 0; i < n; i++ {
			row := F.coords.RawRowView(i)
			_, err := fmt.Fprintf(w, "%20.14f  %20.14f  %20.14f  %5s\n",
				row[0]*a2Bohr, row[1]*a2Bohr, row[2]*a2Bohr, strings.ToLower(F.labels[i]))
			if err != nil {
				return err
			}
		}
		if header {
			if _, err := fmt.Fprint(w, "$end\n"); err != nil {
				return err
			}
		}
	case "xyz":
		if header {
			if _, err := fmt.Fprintf(w, "%d\n\n", n); err != nil {
				return err
			}
		}
		for i := 0; i < n; i++ {
			row := F.coords.RawRowView(i)
			_, err := fmt.Fprintf(w, "%-4s%15.9f %15.9f %15.9f\n",
				strings.ToUpper(F.labels[i]), row[0], row[1], row[2])
			if err != nil {
				return err
			}
		}
	default:
		return &FormatError{message: ErrUnknownFormat, format: format}
	}
	return nil
}
