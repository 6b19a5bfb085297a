/*
Copyright © 2017 the spray authors.
This file is part of spray.

spray is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

spray is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with spray.  If not, see <http://www.gnu.org/licenses/>.
*/

package spray

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// BoundaryType classifies a domain face.
type BoundaryType int

// Boundary types.
const (
	Periodic BoundaryType = iota
	Reflective
	Open
)

// Grid is a uniform Cartesian mesh. A two-dimensional problem uses
// N[2] == 1 with a periodic Z boundary.
type Grid struct {
	Lo, Hi                 r3.Vec
	N                      [3]int
	BoundaryLo, BoundaryHi [3]BoundaryType
}

// Comp returns component dir of v.
func Comp(v r3.Vec, dir int) float64 {
	switch dir {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// WithComp returns v with component dir set to x.
func WithComp(v r3.Vec, dir int, x float64) r3.Vec {
	switch dir {
	case 0:
		v.X = x
	case 1:
		v.Y = x
	default:
		v.Z = x
	}
	return v
}

// Check returns an error if the grid is malformed.
func (g *Grid) Check() error {
	for d := 0; d < 3; d++ {
		if g.N[d] < 1 {
			return fmt.Errorf("spray: grid N[%d]=%d but should be >0", d, g.N[d])
		}
		if Comp(g.Hi, d) <= Comp(g.Lo, d) {
			return fmt.Errorf("spray: grid Hi[%d]=%g but should be > Lo[%d]=%g",
				d, Comp(g.Hi, d), d, Comp(g.Lo, d))
		}
		if (g.BoundaryLo[d] == Periodic) != (g.BoundaryHi[d] == Periodic) {
			return fmt.Errorf("spray: grid direction %d is periodic on only one side", d)
		}
	}
	return nil
}

// Dx returns the cell size.
func (g *Grid) Dx() r3.Vec {
	return r3.Vec{
		X: (g.Hi.X - g.Lo.X) / float64(g.N[0]),
		Y: (g.Hi.Y - g.Lo.Y) / float64(g.N[1]),
		Z: (g.Hi.Z - g.Lo.Z) / float64(g.N[2]),
	}
}

// CellVolume returns the volume of a full cell.
func (g *Grid) CellVolume() float64 {
	dx := g.Dx()
	return dx.X * dx.Y * dx.Z
}

// Cell returns the index of the cell containing pos.
func (g *Grid) Cell(pos r3.Vec) [3]int {
	dx := g.Dx()
	var c [3]int
	for d := 0; d < 3; d++ {
		c[d] = int(math.Floor((Comp(pos, d) - Comp(g.Lo, d)) / Comp(dx, d)))
	}
	return c
}

// Center returns the center of cell c.
func (g *Grid) Center(c [3]int) r3.Vec {
	dx := g.Dx()
	return r3.Vec{
		X: g.Lo.X + (float64(c[0])+0.5)*dx.X,
		Y: g.Lo.Y + (float64(c[1])+0.5)*dx.Y,
		Z: g.Lo.Z + (float64(c[2])+0.5)*dx.Z,
	}
}

// Contains returns whether cell c is inside the domain.
func (g *Grid) Contains(c [3]int) bool {
	for d := 0; d < 3; d++ {
		if c[d] < 0 || c[d] >= g.N[d] {
			return false
		}
	}
	return true
}

// Wrap maps c into the domain, wrapping periodic directions and clamping
// the others.
func (g *Grid) Wrap(c [3]int) [3]int {
	for d := 0; d < 3; d++ {
		n := g.N[d]
		if g.BoundaryLo[d] == Periodic {
			c[d] = ((c[d] % n) + n) % n
			continue
		}
		c[d] = min(max(c[d], 0), n-1)
	}
	return c
}

// Index1d returns the flattened index of cell c, which must be inside
// the domain.
func (g *Grid) Index1d(c [3]int) int {
	return (c[0]*g.N[1]+c[1])*g.N[2] + c[2]
}

// TileAtBoundary returns whether the index box [lo, hi] grown by one
// cell touches a non-periodic domain face.
func (g *Grid) TileAtBoundary(lo, hi [3]int) bool {
	for d := 0; d < 3; d++ {
		if lo[d]-1 < 0 && g.BoundaryLo[d] != Periodic {
			return true
		}
		if hi[d]+1 >= g.N[d] && g.BoundaryHi[d] != Periodic {
			return true
		}
	}
	return false
}
