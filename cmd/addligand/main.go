/*
 * main.go, part of golig.
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

// addligand joins two molecular fragments into one structure. Each input
// file marks its attachment point with an entry labeled x; the program
// places the two marks a given distance apart and searches for the rigid
// rotation of the smaller fragment that gives the least awkward contact
// between the two.
package main

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	lig "github.com/magee/golig"
	"github.com/magee/golig/trace"
)

var (
	type1     string
	type2     string
	outFile   string
	outType   string
	traceFile string
)

var rootCmd = &cobra.Command{
	Use:   "addligand file1 file2 [distance]",
	Short: "Join two molecular fragments at their marked connection points",
	Long: `addligand combines two molecular fragments into one structure.
Each coordinate file (Turbomole coord or xyz) must contain exactly one
entry with the label x, marking the point at which the fragments are to be
joined. The two marks are held the given distance apart (in Angstroms,
default 1.5) while the smaller fragment is rotated as a rigid body to a
physically reasonable orientation.`,
	Args: cobra.RangeArgs(2, 3),
	Run: func(cmd *cobra.Command, args []string) {
		dist := 1.5
		if len(args) == 3 {
			var err error
			dist, err = strconv.ParseFloat(args[2], 64)
			if err != nil {
				log.Fatalf("bad distance %q: %v", args[2], err)
			}
		}
		var rec *trace.Recorder
		if traceFile != "" {
			rec = trace.New()
		}
		out, err := lig.AddLigand(args[0], args[1], dist, type1, type2, outFile, outType, rec)
		if err != nil {
			log.Fatalf("%v", err)
		}
		if traceFile != "" {
			if err := rec.Plot(traceFile); err != nil {
				log.Printf("could not plot objective trace: %v", err)
			}
		}
		fmt.Printf("molecules joined successfully: %s\n", out)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&type1, "type1", "1", "", `format of file1, "xyz" or "coord" (default: from the file name)`)
	rootCmd.Flags().StringVarP(&type2, "type2", "2", "", `format of file2, "xyz" or "coord" (default: from the file name)`)
	rootCmd.Flags().StringVarP(&outFile, "outfile", "o", "combo", "name for the combined structure")
	rootCmd.Flags().StringVarP(&outType, "type-out", "T", "xyz", `output format, "xyz" or "coord"`)
	rootCmd.Flags().StringVar(&traceFile, "trace", "", "write a plot of the objective trace to this file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
