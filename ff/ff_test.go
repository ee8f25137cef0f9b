/*
 * ff_test.go, part of golig.
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

package ff

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	f, err := New("MMFF94")
	require.NoError(t, err)
	assert.Equal(t, "MMFF94", f.String())

	_, err = New("AMBER")
	require.Error(t, err)
	ffErr, ok := err.(*Error)
	require.True(t, ok, "unsupported names must yield an *ff.Error")
	assert.Equal(t, "AMBER", ffErr.Name())
}

func TestSeparation(t *testing.T) {
	f, err := New("MMFF94")
	require.NoError(t, err)

	//identical labels use the single-atom value directly
	assert.InDelta(t, 3.890*1.050, f.Separation("C", "C"), 1e-12)
	assert.InDelta(t, 4.200*0.250, f.Separation("H", "H"), 1e-12)

	//unlike pairs are symmetric and pushed past the arithmetic mean by
	//the asymmetry correction
	hc := f.Separation("H", "C")
	assert.Equal(t, hc, f.Separation("C", "H"))
	mean := 0.5 * (f.Separation("H", "H") + f.Separation("C", "C"))
	assert.Greater(t, hc, mean)
	assert.Less(t, hc, mean*(1+asymB)*1.000001)
}

func TestDepth(t *testing.T) {
	f, err := New("MMFF94")
	require.NoError(t, err)
	sep := f.Separation("C", "C")
	d := f.Depth("C", "C", sep)
	assert.Greater(t, d, 0.0)
	assert.False(t, math.IsInf(d, 0))
	assert.Equal(t, d, f.Depth("C", "C", sep), "Depth must be deterministic")
}

func TestInteractionEnergy(t *testing.T) {
	f, err := New("MMFF94")
	require.NoError(t, err)

	//repulsive well inside the minimum, attractive far outside it
	assert.Greater(t, f.InteractionEnergy(0.5, "C", "C"), 0.0)
	assert.Less(t, f.InteractionEnergy(8.0, "C", "C"), 0.0)

	//the energy vanishes at infinity
	assert.InDelta(t, 0.0, f.InteractionEnergy(1e6, "C", "C"), 1e-9)
}

func TestUnknownTypeFallback(t *testing.T) {
	f, err := New("MMFF94")
	require.NoError(t, err)

	//unknown atom types never fail, they take the default (Fe) parameters
	e := f.InteractionEnergy(4.0, "Xx", "C")
	assert.False(t, math.IsNaN(e) || math.IsInf(e, 0), "fallback energy must be finite")
	assert.Equal(t, f.InteractionEnergy(4.0, "Fe", "C"), e)

	//both sides unknown
	assert.Equal(t, f.InteractionEnergy(4.0, "Fe", "Fe"), f.InteractionEnergy(4.0, "Qq", "Zz"))
	assert.Equal(t, f.Separation("Fe", "Fe"), f.Separation("Qq", "Qq"))
}
