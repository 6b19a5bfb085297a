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

// Package trilinear interpolates cell-centered and face-centered gas
// fields to parcel positions on a Cartesian grid, degrading to
// zeroth-order interpolation next to non-periodic boundaries.
package trilinear

import (
	"math"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/spray"
	"gonum.org/v1/gonum/spatial/r3"
)

// Boundary flags returned by CheckBounds for each direction.
const (
	Interior   = 0  // not near a non-periodic boundary
	OutsideLo  = -1 // outside the lower reflective boundary
	OutsideHi  = 1  // outside the upper reflective boundary
	AdjacentLo = -2 // within half a cell of the lower boundary
	AdjacentHi = 2  // within half a cell of the upper boundary
)

// Offset returns the position of pos in cell-center index space:
// the integer part is the index of the upper stencil cell.
func Offset(pos r3.Vec, g *spray.Grid) r3.Vec {
	dx := g.Dx()
	return r3.Vec{
		X: (pos.X-g.Lo.X)/dx.X + 0.5,
		Y: (pos.Y-g.Lo.Y)/dx.Y + 0.5,
		Z: (pos.Z-g.Lo.Z)/dx.Z + 0.5,
	}
}

// CheckBounds returns the stencil index for pos, the boundary flag for
// each direction, and whether pos is outside an open boundary. If pos is
// within half a cell of a non-periodic boundary the index is shifted
// inward.
func CheckBounds(pos r3.Vec, g *spray.Grid) (ijk, flags [3]int, outside bool) {
	lx := Offset(pos, g)
	for d := 0; d < 3; d++ {
		ijk[d] = int(math.Floor(spray.Comp(lx, d)))
	}
	dx := g.Dx()
	for hilo := 0; hilo < 2; hilo++ {
		fact, ext, bnd := 1., g.Lo, g.BoundaryLo
		if hilo == 1 {
			fact, ext, bnd = -1., g.Hi, g.BoundaryHi
		}
		for d := 0; d < 3; d++ {
			if bnd[d] == spray.Periodic {
				continue
			}
			diff := fact * (spray.Comp(pos, d) - spray.Comp(ext, d))
			if diff < 0 {
				if bnd[d] != spray.Reflective {
					return ijk, flags, true
				}
				flags[d] = -int(fact)
			} else if diff < 0.5*spray.Comp(dx, d) {
				flags[d] = -2 * int(fact)
				ijk[d] += int(fact)
			}
		}
	}
	return ijk, flags, false
}

// Weights fills st with the 2×2×2 stencil around ijk for a position with
// index-space offset lx. Directions flagged as adjacent to a boundary use
// weight one on the interior cell.
func Weights(ijk [3]int, lx r3.Vec, flags [3]int, st *spray.Stencil) {
	var ss [2][3]float64
	for d := 0; d < 3; d++ {
		hi := spray.Comp(lx, d) - float64(ijk[d])
		switch {
		case flags[d] > 1:
			ss[0][d], ss[1][d] = 0, 1
		case flags[d] < -1:
			ss[0][d], ss[1][d] = 1, 0
		default:
			ss[0][d], ss[1][d] = 1-hi, hi
		}
	}
	cc := 0
	for kk := -1; kk < 1; kk++ {
		for jj := -1; jj < 1; jj++ {
			for ii := -1; ii < 1; ii++ {
				st.Index[cc] = [3]int{ijk[0] + ii, ijk[1] + jj, ijk[2] + kk}
				st.Weight[cc] = ss[ii+1][0] * ss[jj+1][1] * ss[kk+1][2]
				cc++
			}
		}
	}
}

// FaceVelocity interpolates face-centered velocities umac to a position
// with index-space offset lx. Indices are clamped to the domain.
func FaceVelocity(lx r3.Vec, g *spray.Grid, umac [3]*sparse.DenseArray) r3.Vec {
	var vel r3.Vec
	for dir := 0; dir < 3; dir++ {
		var face [3]float64
		for d := 0; d < 3; d++ {
			face[d] = spray.Comp(lx, d)
			if d == dir {
				face[d] += 0.5
			}
		}
		var lo, hi [3]int
		var ss [2][3]float64
		for d := 0; d < 3; d++ {
			idx := int(math.Floor(face[d]))
			del := face[d] - float64(idx)
			top := g.N[d] - 1
			if d == dir {
				top = g.N[d]
			}
			lo[d] = max(idx-1, 0)
			hi[d] = min(idx, top)
			ss[0][d], ss[1][d] = 1-del, del
		}
		a := umac[dir]
		var v float64
		for kk := 0; kk < 2; kk++ {
			k := pick(kk, lo[2], hi[2])
			for jj := 0; jj < 2; jj++ {
				j := pick(jj, lo[1], hi[1])
				for ii := 0; ii < 2; ii++ {
					i := pick(ii, lo[0], hi[0])
					v += a.Elements[a.Index1d(i, j, k)] * ss[ii][0] * ss[jj][1] * ss[kk][2]
				}
			}
		}
		vel = spray.WithComp(vel, dir, v)
	}
	return vel
}

func pick(n, lo, hi int) int {
	if n == 0 {
		return lo
	}
	return hi
}
