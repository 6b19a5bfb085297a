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
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/ctessum/sparse"
)

// Sources holds per-cell source terms returned to the gas phase, as
// rates per unit volume.
type Sources struct {
	Grid    *Grid
	Mass    *sparse.DenseArray
	Mom     [3]*sparse.DenseArray
	Energy  *sparse.DenseArray
	Species []*sparse.DenseArray // per fuel species
}

// NewSources allocates source fields on g for nFuel fuel species.
func NewSources(g *Grid, nFuel int) *Sources {
	n := g.N
	s := &Sources{
		Grid:   g,
		Mass:   sparse.ZerosDense(n[0], n[1], n[2]),
		Energy: sparse.ZerosDense(n[0], n[1], n[2]),
	}
	for d := range s.Mom {
		s.Mom[d] = sparse.ZerosDense(n[0], n[1], n[2])
	}
	for i := 0; i < nFuel; i++ {
		s.Species = append(s.Species, sparse.ZerosDense(n[0], n[1], n[2]))
	}
	return s
}

// Reset zeros all sources.
func (s *Sources) Reset() {
	for _, a := range s.arrays() {
		clear(a.Elements)
	}
}

func (s *Sources) arrays() []*sparse.DenseArray {
	a := []*sparse.DenseArray{s.Mass, s.Energy, s.Mom[0], s.Mom[1], s.Mom[2]}
	return append(a, s.Species...)
}

// Deposit adds the sources accumulated in gs onto the stencil cells. The
// parcel represents weight physical droplets; the gas receives the
// negative of the parcel's sources divided by the fluid volume of each
// cell. eb may be nil. Deposit is safe for concurrent use.
func (s *Sources) Deposit(st *Stencil, gs *GasState, weight float64, eb *EBGeometry) {
	vol := s.Grid.CellVolume()
	for n, w := range st.Weight {
		if w == 0 {
			continue
		}
		c := s.Grid.Wrap(st.Index[n])
		v := vol
		if eb != nil {
			if f := eb.Frac(c); f > 0 {
				v *= f
			}
		}
		coef := -weight * w / v
		i := s.Grid.Index1d(c)
		atomicAdd(s.Mass, i, coef*gs.MassSrc)
		atomicAdd(s.Energy, i, coef*gs.EngSrc)
		atomicAdd(s.Mom[0], i, coef*gs.MomSrc.X)
		atomicAdd(s.Mom[1], i, coef*gs.MomSrc.Y)
		atomicAdd(s.Mom[2], i, coef*gs.MomSrc.Z)
		for sp, a := range s.Species {
			atomicAdd(a, i, coef*gs.YDot[sp])
		}
	}
}

// Total returns the domain integral of a source field.
func (s *Sources) Total(a *sparse.DenseArray) float64 {
	return a.Sum() * s.Grid.CellVolume()
}

// atomicAdd adds v to element i of a.
func atomicAdd(a *sparse.DenseArray, i int, v float64) {
	if v == 0 {
		return
	}
	p := (*uint64)(unsafe.Pointer(&a.Elements[i]))
	for {
		old := atomic.LoadUint64(p)
		n := math.Float64bits(math.Float64frombits(old) + v)
		if atomic.CompareAndSwapUint64(p, old, n) {
			return
		}
	}
}
