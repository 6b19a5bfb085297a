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
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/spatial/r3"
)

// CellType classifies a cell with respect to embedded boundary geometry.
type CellType int

// Cell types.
const (
	Regular CellType = iota
	Cut
	Covered
)

// EBGeometry holds cut-cell metadata. Centroids are in units of cell
// widths relative to the cell center. Normals point from the fluid into
// the wall.
type EBGeometry struct {
	Grid *Grid

	Type        *sparse.DenseArrayInt // CellType
	Connections *sparse.DenseArrayInt // bit (di+1)+3(dj+1)+9(dk+1) set if connected
	VolFrac     *sparse.DenseArray
	Centroid    *sparse.DenseArray // [i][j][k][dir]
	BndCentroid *sparse.DenseArray // [i][j][k][dir]
	BndNormal   *sparse.DenseArray // [i][j][k][dir]
}

const allConnected = 1<<27 - 1

// NewEBGeometry returns geometry for g with every cell regular and fully
// connected.
func NewEBGeometry(g *Grid) *EBGeometry {
	n := g.N
	e := &EBGeometry{
		Grid:        g,
		Type:        sparse.ZerosDenseInt(n[0], n[1], n[2]),
		Connections: sparse.ZerosDenseInt(n[0], n[1], n[2]),
		VolFrac:     sparse.ZerosDense(n[0], n[1], n[2]),
		Centroid:    sparse.ZerosDense(n[0], n[1], n[2], 3),
		BndCentroid: sparse.ZerosDense(n[0], n[1], n[2], 3),
		BndNormal:   sparse.ZerosDense(n[0], n[1], n[2], 3),
	}
	for i := range e.VolFrac.Elements {
		e.VolFrac.Elements[i] = 1
		e.Connections.Elements[i] = allConnected
	}
	return e
}

// CellType returns the type of cell c. Cells outside of non-periodic
// faces take the type of the nearest cell inside.
func (e *EBGeometry) CellType(c [3]int) CellType {
	c = e.Grid.Wrap(c)
	return CellType(e.Type.Elements[e.Grid.Index1d(c)])
}

// Connected returns whether cell c is connected to its neighbor at
// offset (di, dj, dk), each in {-1, 0, 1}.
func (e *EBGeometry) Connected(c [3]int, di, dj, dk int) bool {
	c = e.Grid.Wrap(c)
	bit := uint((di + 1) + 3*(dj+1) + 9*(dk+1))
	return e.Connections.Elements[e.Grid.Index1d(c)]&(1<<bit) != 0
}

// Frac returns the volume fraction of cell c.
func (e *EBGeometry) Frac(c [3]int) float64 {
	c = e.Grid.Wrap(c)
	return e.VolFrac.Elements[e.Grid.Index1d(c)]
}

func (e *EBGeometry) vec(a *sparse.DenseArray, c [3]int) r3.Vec {
	c = e.Grid.Wrap(c)
	i := e.Grid.Index1d(c) * 3
	return r3.Vec{X: a.Elements[i], Y: a.Elements[i+1], Z: a.Elements[i+2]}
}

func (e *EBGeometry) setVec(a *sparse.DenseArray, c [3]int, v r3.Vec) {
	i := e.Grid.Index1d(c) * 3
	a.Elements[i], a.Elements[i+1], a.Elements[i+2] = v.X, v.Y, v.Z
}

// CellCentroid returns the fluid centroid of cell c.
func (e *EBGeometry) CellCentroid(c [3]int) r3.Vec { return e.vec(e.Centroid, c) }

// BoundaryCentroid returns the centroid of the wall face in cell c.
func (e *EBGeometry) BoundaryCentroid(c [3]int) r3.Vec { return e.vec(e.BndCentroid, c) }

// Normal returns the wall normal in cell c, pointing into the wall.
func (e *EBGeometry) Normal(c [3]int) r3.Vec { return e.vec(e.BndNormal, c) }

// HasCuts returns whether any cell in the 3×3×3 block around c is not
// regular.
func (e *EBGeometry) HasCuts(c [3]int) bool {
	for dk := -1; dk <= 1; dk++ {
		for dj := -1; dj <= 1; dj++ {
			for di := -1; di <= 1; di++ {
				if e.CellType([3]int{c[0] + di, c[1] + dj, c[2] + dk}) != Regular {
					return true
				}
			}
		}
	}
	return false
}

// PlaneWall returns geometry for a planar wall through point with unit
// normal pointing into the fluid. Cell volume fractions and centroids are
// estimated by sampling each cell on a sub-grid of res³ points.
func PlaneWall(g *Grid, point, normal r3.Vec, res int) *EBGeometry {
	e := NewEBGeometry(g)
	normal = r3.Unit(normal)
	dx := g.Dx()
	for i := 0; i < g.N[0]; i++ {
		for j := 0; j < g.N[1]; j++ {
			for k := 0; k < g.N[2]; k++ {
				c := [3]int{i, j, k}
				ctr := g.Center(c)
				var nFluid int
				var sum r3.Vec
				for a := 0; a < res; a++ {
					for b := 0; b < res; b++ {
						for d := 0; d < res; d++ {
							off := r3.Vec{
								X: (float64(a)+0.5)/float64(res) - 0.5,
								Y: (float64(b)+0.5)/float64(res) - 0.5,
								Z: (float64(d)+0.5)/float64(res) - 0.5,
							}
							x := r3.Add(ctr, r3.Vec{X: off.X * dx.X, Y: off.Y * dx.Y, Z: off.Z * dx.Z})
							if r3.Dot(r3.Sub(x, point), normal) > 0 {
								nFluid++
								sum = r3.Add(sum, off)
							}
						}
					}
				}
				idx := g.Index1d(c)
				frac := float64(nFluid) / float64(res*res*res)
				e.VolFrac.Elements[idx] = frac
				switch {
				case nFluid == 0:
					e.Type.Elements[idx] = int(Covered)
				case frac < 1:
					e.Type.Elements[idx] = int(Cut)
					e.setVec(e.Centroid, c, r3.Scale(1/float64(nFluid), sum))
					// Project the cell center onto the wall plane.
					dist := r3.Dot(r3.Sub(ctr, point), normal)
					bc := r3.Sub(ctr, r3.Scale(dist, normal))
					rel := r3.Sub(bc, ctr)
					e.setVec(e.BndCentroid, c, r3.Vec{X: rel.X / dx.X, Y: rel.Y / dx.Y, Z: rel.Z / dx.Z})
					e.setVec(e.BndNormal, c, r3.Scale(-1, normal))
				}
			}
		}
	}
	// Cells are connected unless either side is covered.
	for i := 0; i < g.N[0]; i++ {
		for j := 0; j < g.N[1]; j++ {
			for k := 0; k < g.N[2]; k++ {
				c := [3]int{i, j, k}
				var mask int
				if e.CellType(c) != Covered {
					for dk := -1; dk <= 1; dk++ {
						for dj := -1; dj <= 1; dj++ {
							for di := -1; di <= 1; di++ {
								if e.CellType([3]int{i + di, j + dj, k + dk}) != Covered {
									mask |= 1 << uint((di+1)+3*(dj+1)+9*(dk+1))
								}
							}
						}
					}
				}
				e.Connections.Elements[g.Index1d(c)] = mask
			}
		}
	}
	return e
}
