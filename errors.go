/*
 * errors.go, part of golig.
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

import "fmt"

// Error is the interface all errors in this library implement. The Decorate
// method allows callers to add information to an error as it goes up the
// stack, without changing its type or wrapping it in something else.
// Each element of the decoration slice should be a function in the calling
// stack, optionally followed by extra info: "FunctionName: extra info".
type Error interface {
	Error() string
	Decorate(string) []string
}

// Messages for the geometry-level errors.
const (
	ErrNoAtoms         = "no atoms found in fragment"
	ErrConnector       = "fragment must have exactly one entry labeled X marking its connection point"
	ErrShortRecord     = "atom record has fewer than 4 fields"
	ErrBadCoordinate   = "non-numeric coordinate field"
	ErrUnknownFormat   = "coordinate format not supported"
	ErrNoFormatForName = "could not determine coordinate format from file name"
)

// errDecorate decorates err with the caller's name before passing it up.
// Errors from outside the library (the os, say) don't implement Error and
// are returned untouched.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}

// ValidationError signals a malformed fragment: empty geometry, a missing or
// repeated connector entry, or unparseable atom records. It is raised before
// any geometry work is done on the offending fragment.
type ValidationError struct {
	message string
	file    string //the input file with the problem, or empty if read from a stream
	deco    []string
}

func (err *ValidationError) Error() string {
	if err.file == "" {
		return fmt.Sprintf("golig: invalid fragment: %s", err.message)
	}
	return fmt.Sprintf("golig: invalid fragment %s: %s", err.file, err.message)
}

// Decorate adds new information to the error.
func (err *ValidationError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file the failing fragment was read from, if any.
func (err *ValidationError) FileName() string { return err.file }

// FormatError signals an unsupported coordinate-format tag, on reading or
// writing, or a file name from which no format could be deduced.
type FormatError struct {
	message string
	format  string
	deco    []string
}

func (err *FormatError) Error() string {
	return fmt.Sprintf("golig: %s: %q", err.message, err.format)
}

// Decorate adds new information to the error.
func (err *FormatError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Format returns the offending format tag or file name.
func (err *FormatError) Format() string { return err.format }

// OptimizationError signals that the rotational search did not converge.
// The best rotation parameters found before giving up (already mapped to the
// rotation parameterization, i.e. ready for Fragment.Rotate) are kept for
// diagnostics.
type OptimizationError struct {
	status string
	best   []float64
	deco   []string
}

func (err *OptimizationError) Error() string {
	return fmt.Sprintf("golig: rotational optimization did not converge: %s", err.status)
}

// Decorate adds new information to the error.
func (err *OptimizationError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Best returns the rotation parameters of the best point evaluated before the
// search was abandoned.
func (err *OptimizationError) Best() []float64 { return err.best }
