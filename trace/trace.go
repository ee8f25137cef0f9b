/*
 * trace.go, part of golig.
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

// Package trace records the objective values seen during a docking search
// and can plot them, which is mostly useful to eyeball whether the
// minimizer is actually making progress or just flailing.
package trace

import (
	"errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Recorder accumulates one energy value per objective evaluation, in
// evaluation order. A nil *Recorder is valid and records nothing, so
// callers can pass it through unconditionally.
type Recorder struct {
	vals []float64
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{}
}

// Record appends one objective value. Safe on a nil receiver.
func (R *Recorder) Record(v float64) {
	if R == nil {
		return
	}
	R.vals = append(R.vals, v)
}

// Len returns the number of values recorded so far.
func (R *Recorder) Len() int {
	if R == nil {
		return 0
	}
	return len(R.vals)
}

// Values returns the recorded values, in evaluation order. The slice is the
// Recorder's own; don't write to it.
func (R *Recorder) Values() []float64 {
	if R == nil {
		return nil
	}
	return R.vals
}

// Plot writes a scatter plot of evaluation index against energy to name.
// The format is taken from the extension (png, svg, pdf...), as usual for
// gonum plots.
func (R *Recorder) Plot(name string) error {
	if R.Len() == 0 {
		return errors.New("trace: nothing recorded, nothing to plot")
	}
	pts := make(plotter.XYs, len(R.vals))
	for i, v := range R.vals {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	p := plot.New()
	p.Title.Text = "docking objective"
	p.X.Label.Text = "evaluation"
	p.Y.Label.Text = "energy"
	p.Add(plotter.NewGrid())
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(s)
	return p.Save(5*vg.Inch, 5*vg.Inch, name)
}
