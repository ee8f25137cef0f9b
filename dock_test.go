/*
 * dock_test.go, part of golig.
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
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/magee/golig/ff"
)

//a cube of carbons with the connection point 3 A above the top face
const cubeXYZ = `9
test cube
C    1.0  1.0  1.0
C    1.0  1.0 -1.0
C    1.0 -1.0  1.0
C    1.0 -1.0 -1.0
C   -1.0  1.0  1.0
C   -1.0  1.0 -1.0
C   -1.0 -1.0  1.0
C   -1.0 -1.0 -1.0
x    0.0  0.0  3.0
`

func cubeFragment(Te *testing.T) *Fragment {
	F, err := NewFragment(strings.NewReader(cubeXYZ), "xyz")
	if err != nil {
		Te.Fatal(err)
	}
	return F
}

func TestDetermineRoles(Te *testing.T) {
	tetra := tetraFragment(Te)
	cube := cubeFragment(Te)
	if cube.Size() != 8 {
		Te.Fatalf("a cube's hull should have 8 points, got %d", cube.Size())
	}
	rot, anchor := DetermineRoles(cube, tetra)
	if rot != tetra || anchor != cube {
		Te.Error("the fragment with the smaller hull should rotate")
	}
	rot, anchor = DetermineRoles(tetra, cube)
	if rot != tetra || anchor != cube {
		Te.Error("the fragment with the smaller hull should rotate, regardless of order")
	}
	//ties go to the first argument
	tetra2 := tetraFragment(Te)
	rot, _ = DetermineRoles(tetra, tetra2)
	if rot != tetra {
		Te.Error("a tie should leave the first argument rotatable")
	}
	rot, _ = DetermineRoles(tetra2, tetra)
	if rot != tetra2 {
		Te.Error("a tie should leave the first argument rotatable")
	}
}

func TestAlign(Te *testing.T) {
	rot := tetraFragment(Te)
	anchor := cubeFragment(Te)
	dist := 1.5
	Align(rot, anchor, dist)
	ac := anchor.Connect()
	if math.Abs(ac[0]) > 1e-10 || math.Abs(ac[1]) > 1e-10 || math.Abs(ac[2]) > 1e-10 {
		Te.Errorf("anchor connector should sit at the origin after Align, got %v", ac)
	}
	rc := rot.Connect()
	d := math.Sqrt(rc[0]*rc[0] + rc[1]*rc[1] + rc[2]*rc[2])
	if math.Abs(d-dist) > 1e-10 {
		Te.Errorf("connectors should be %v apart after Align, got %v", dist, d)
	}
	if math.Abs(rc[0]) > 1e-10 || math.Abs(rc[1]) > 1e-10 {
		Te.Errorf("rotatable connector should sit on the z axis after Align, got %v", rc)
	}
}

func TestPairwiseFilteredDistances(Te *testing.T) {
	rot := tetraFragment(Te)
	anchor := cubeFragment(Te)
	Align(rot, anchor, 1.5)
	for _, cutoff := range []float64{0.5, 3.0, 6.0} {
		dists, labels := PairwiseFilteredDistances(rot, anchor, cutoff)
		if len(dists) != len(labels) {
			Te.Fatal("distances and labels went out of step")
		}
		for i, d := range dists {
			if d <= cutoff {
				Te.Errorf("cutoff %v: pair %d at distance %v should have been filtered", cutoff, i, d)
			}
		}
	}
	//a huge cutoff must filter everything
	dists, _ := PairwiseFilteredDistances(rot, anchor, 1e6)
	if len(dists) != 0 {
		Te.Errorf("expected no pairs past a huge cutoff, got %d", len(dists))
	}
}

func TestObjectiveDeterministic(Te *testing.T) {
	rot := tetraFragment(Te)
	anchor := cubeFragment(Te)
	Align(rot, anchor, 1.5)
	field, err := ff.New("MMFF94")
	if err != nil {
		Te.Fatal(err)
	}
	params := []float64{0.7, -1.3, 0.2}
	first := Objective(params, rot, anchor, field)
	if math.IsNaN(first) {
		Te.Fatal("objective returned NaN for a modest rotation")
	}
	for i := 0; i < 5; i++ {
		if v := Objective(params, rot, anchor, field); v != first {
			Te.Errorf("objective is not deterministic: %v then %v", first, v)
		}
	}
	//and it must not have moved anything
	rc := rot.Connect()
	if math.Abs(rc[0]) > 1e-10 || math.Abs(rc[1]) > 1e-10 {
		Te.Error("Objective mutated the rotatable fragment")
	}
}

func writeTestFile(Te *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		Te.Fatal(err)
	}
	return path
}

//the shifted copy of the tetrahedron used as the second docking partner
const tetraShiftedXYZ = `5
the same tetrahedron, translated
C   11.0  1.0  1.0
C   11.0 -1.0 -1.0
C    9.0  1.0 -1.0
C    9.0 -1.0  1.0
x   12.0  0.0  0.0
`

func TestAddLigand(Te *testing.T) {
	dir := Te.TempDir()
	fileA := writeTestFile(Te, dir, "a.xyz", tetraXYZ)
	fileB := writeTestFile(Te, dir, "b.xyz", tetraShiftedXYZ)

	out, err := AddLigand(fileA, fileB, 1.5, "", "", filepath.Join(dir, "combo"), "xyz", nil)
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.HasSuffix(out, "combo.xyz") {
		Te.Errorf("output should have gotten an .xyz suffix, got %s", out)
	}
	text, err := os.ReadFile(out)
	if err != nil {
		Te.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(text)), "\n")
	if lines[0] != "8" {
		Te.Errorf("combined header should declare 8 atoms, got %q", lines[0])
	}
	records := 0
	for _, l := range lines[1:] {
		fields := strings.Fields(l)
		if len(fields) == 0 {
			continue
		}
		records++
		if strings.EqualFold(fields[0], "X") {
			Te.Error("a connector mark leaked into the combined output")
		}
		if len(fields) != 4 {
			Te.Errorf("malformed output record %q", l)
		}
	}
	if records != 8 {
		Te.Errorf("expected 8 atom records in the output, got %d", records)
	}
	//the result must read back as a plain molecule
	combined, _, err := readXYZ(strings.NewReader(string(text)))
	if err != nil {
		Te.Fatal(err)
	}
	if n, _ := combined.Dims(); n != 8 {
		Te.Errorf("re-read of the output gave %d atoms", n)
	}
}

func TestAddLigandCoordOutput(Te *testing.T) {
	dir := Te.TempDir()
	fileA := writeTestFile(Te, dir, "a.xyz", tetraXYZ)
	fileB := writeTestFile(Te, dir, "b.xyz", tetraShiftedXYZ)

	out, err := AddLigand(fileA, fileB, 1.5, "xyz", "xyz", filepath.Join(dir, "combo"), "coord", nil)
	if err != nil {
		Te.Fatal(err)
	}
	text, err := os.ReadFile(out)
	if err != nil {
		Te.Fatal(err)
	}
	s := string(text)
	if !strings.HasPrefix(s, "$coord\n") || !strings.Contains(s, "$end") {
		Te.Error("coord output should be delimited by $coord and $end")
	}
	records := strings.Count(s, "\n") - 2
	if records != 8 {
		Te.Errorf("expected 8 records between the markers, got %d", records)
	}
	fmt.Println("combined coord output:\n" + s)
}

func TestOptimizeReportsBestOnFailure(Te *testing.T) {
	//not a convergence failure, just exercise the error type
	err := &OptimizationError{status: "iteration limit", best: []float64{0.5, 0.5, 0.5}}
	if err.Best()[0] != 0.5 {
		Te.Error("Best should expose the attempted rotation")
	}
	if !strings.Contains(err.Error(), "iteration limit") {
		Te.Error("the minimizer status should be part of the message")
	}
}
