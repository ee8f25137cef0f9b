/*
 * doc.go, part of golig.
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

/*Package lig docks two rigid molecular fragments. Each fragment is read
from a coordinate file (Turbomole coord or xyz) in which one entry, labeled
x, marks the connection point where the other fragment will be attached.
The two connection points are held a given distance apart while the
orientation of the smaller fragment is searched so a simplistic pairwise
van-der-Waals-like energy between the fragments' convex-hull atoms is
minimized. The fused structure is then written out in either format.

The treatment is deliberately crude: rigid bodies, a one-entry-per-element
parameter table, no electrostatics, no collision detection, and the convex
hull standing in for the molecular surface. That is enough to produce a
starting geometry "close enough" to feed to a proper quantum-chemistry or
molecular-mechanics optimization, which is the intended use.

Known limitations:

    The convex hull is a poor stand-in for the solvent-accessible surface
    on concave molecules.

    Host-guest (fully enclosed) arrangements will dock badly, as the guest
    never sees the inside of the host.

    Only two fragments per run; chain several runs to build larger
    assemblies.
*/
package lig
