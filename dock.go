/*
 * dock.go, part of golig.
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
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/magee/golig/ff"
	"github.com/magee/golig/trace"
)

// DefaultCutoff is the distance, in A, under which a hull-point pair is
// considered a near-clash and left out of the docking objective. Without it
// a bad initial guess would be dominated by a few steeply repulsive pairs.
const DefaultCutoff = 3.0

// DetermineRoles decides which of two fragments will be rotated during the
// search and which stays fixed. The fragment with the smaller hull is the
// rotatable one; on a tie the first argument rotates. Hull size is only a
// heuristic proxy for spatial bulk, but it is cheap and works well enough.
func DetermineRoles(a, b *Fragment) (rot, anchor *Fragment) {
	if a.Size() <= b.Size() {
		return a, b
	}
	return b, a
}

// Align places the two fragments in the fixed relative position the search
// starts from: the anchor centered on its own connection point, and the
// rotatable fragment flipped 180 degrees about x (to get its bulk out of the
// anchor's way) with its connection point dist A below the origin on the z
// axis. After Align the inter-connector offset is known and never changes;
// only the rotatable fragment's orientation is searched.
func Align(rot, anchor *Fragment, dist float64) {
	rot.ShiftOrigin(rot.Connect())
	rot.Rotate([]float64{1, 0, 0})
	rot.ShiftOrigin([]float64{0, 0, -dist})
	anchor.ShiftOrigin(anchor.Connect())
}

// PairwiseFilteredDistances computes the distance between every pair of hull
// points across the two fragments and keeps only the pairs farther apart
// than cutoff. It returns the retained distances and, in a parallel slice,
// the element labels of each pair.
func PairwiseFilteredDistances(a, b *Fragment, cutoff float64) ([]float64, [][2]string) {
	return filteredDistances(a.hull, a.hullLabels, b.hull, b.hullLabels, cutoff)
}

func filteredDistances(h1 *mat.Dense, l1 []string, h2 *mat.Dense, l2 []string, cutoff float64) ([]float64, [][2]string) {
	n1, _ := h1.Dims()
	n2, _ := h2.Dims()
	dists := make([]float64, 0, n1*n2)
	labels := make([][2]string, 0, n1*n2)
	cut2 := cutoff * cutoff
	diff := make([]float64, 3)
	for i := 0; i < n1; i++ {
		for j := 0; j < n2; j++ {
			floats.SubTo(diff, h1.RawRowView(i), h2.RawRowView(j))
			d2 := floats.Dot(diff, diff)
			if d2 > cut2 {
				dists = append(dists, math.Sqrt(d2))
				labels = append(labels, [2]string{l1[i], l2[j]})
			}
		}
	}
	return dists, labels
}

// Objective is the function minimized during docking. The unconstrained
// params are squashed componentwise by the logistic sigmoid into (0,1) and
// used as rotation parameters for the rotatable fragment's hull; the value
// is the force-field interaction energy summed over the filtered hull-hull
// pairs. The sigmoid keeps the minimizer unconstrained but is only a
// heuristic: it does not map onto the unit ball the rotation formula
// actually wants. Kept as is on purpose.
// Objective is pure: identical inputs always give the identical value.
func Objective(params []float64, rot, anchor *Fragment, field *ff.ForceField) float64 {
	guessHull, _ := rot.RotateCopy(expit(params), true)
	dists, labels := filteredDistances(guessHull, rot.hullLabels, anchor.hull, anchor.hullLabels, DefaultCutoff)
	score := 0.0
	for i, d := range dists {
		score += field.InteractionEnergy(d, labels[i][0], labels[i][1])
	}
	return score
}

// expit applies the logistic sigmoid componentwise.
func expit(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = 1 / (1 + math.Exp(-v))
	}
	return out
}

// Optimize searches for the rotation of rot that minimizes Objective against
// anchor, starting from the zero parameter vector (sigmoid midpoint, a
// modest rotation). The minimizer is Nelder-Mead, so no gradients of the
// force field are needed. On convergence the winning rotation is applied to
// rot's full coordinate set. A non-converged search returns an
// OptimizationError carrying the best rotation parameters found.
// rec may be nil; when given, every objective evaluation is recorded on it.
func Optimize(rot, anchor *Fragment, field *ff.ForceField, rec *trace.Recorder) error {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			v := Objective(x, rot, anchor, field)
			rec.Record(v)
			return v
		},
	}
	result, err := optimize.Minimize(problem, []float64{0, 0, 0}, nil, &optimize.NelderMead{})
	if result == nil {
		return &OptimizationError{status: err.Error()}
	}
	best := expit(result.Location.X)
	if err != nil || result.Status == optimize.Failure || result.Status == optimize.NotTerminated {
		status := result.Status.String()
		if err != nil {
			status = err.Error()
		}
		return &OptimizationError{status: status, best: best}
	}
	rot.Rotate(best)
	return nil
}

// Combine writes the current coordinates of both fragments sequentially to w
// as one structure in the given format.
func Combine(a, b *Fragment, w io.Writer, format string) error {
	switch format {
	case "xyz":
		if _, err := fmt.Fprintf(w, "%d\n\n", a.NAtoms()+b.NAtoms()); err != nil {
			return err
		}
	case "coord":
		if _, err := fmt.Fprint(w, "$coord\n"); err != nil {
			return err
		}
	default:
		return &FormatError{message: ErrUnknownFormat, format: format}
	}
	if err := a.Serialize(w, format, false); err != nil {
		return errDecorate(err, "Combine")
	}
	if err := b.Serialize(w, format, false); err != nil {
		return errDecorate(err, "Combine")
	}
	if format == "coord" {
		if _, err := fmt.Fprint(w, "$end\n"); err != nil {
			return err
		}
	}
	return nil
}

// ensureExt appends the conventional name suffix for the output format when
// the chosen name does not carry it already.
func ensureExt(name, format string) string {
	switch format {
	case "xyz":
		if !strings.Contains(name, ".xyz") {
			name += ".xyz"
		}
	case "coord":
		if !strings.Contains(name, "coord") {
			name += ".coord"
		}
	}
	return name
}

// AddLigand runs a full docking: it reads both fragments (formats deduced
// from the file names when empty), assigns roles, aligns them dist A apart,
// optimizes the rotatable fragment's orientation under the MMFF94-style
// force field and writes the fused structure to outPath in outFormat. The
// returned path is the one actually written, with the format suffix added
// if needed. On failure a partial output file may exist; its contents are
// undefined. rec may be nil.
func AddLigand(fileA, fileB string, dist float64, formatA, formatB, outPath, outFormat string, rec *trace.Recorder) (string, error) {
	fragA, err := FragmentFromFile(fileA, formatA)
	if err != nil {
		return "", errDecorate(err, "AddLigand")
	}
	fragB, err := FragmentFromFile(fileB, formatB)
	if err != nil {
		return "", errDecorate(err, "AddLigand")
	}
	rot, anchor := DetermineRoles(fragA, fragB)
	Align(rot, anchor, dist)
	field, err := ff.New("MMFF94")
	if err != nil {
		return "", err
	}
	if err := Optimize(rot, anchor, field, rec); err != nil {
		return "", errDecorate(err, "AddLigand")
	}
	if outFormat != "xyz" && outFormat != "coord" {
		return "", &FormatError{message: ErrUnknownFormat, format: outFormat}
	}
	outPath = ensureExt(outPath, outFormat)
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if err := Combine(rot, anchor, out, outFormat); err != nil {
		return outPath, errDecorate(err, "AddLigand")
	}
	return outPath, nil
}
