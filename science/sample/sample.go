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

// Package sample interpolates the gas-phase state to parcel positions.
package sample

import (
	"github.com/spatialmodel/spray"
	"github.com/spatialmodel/spray/science/interp/isoparametric"
	"github.com/spatialmodel/spray/science/interp/trilinear"
	"gonum.org/v1/gonum/spatial/r3"
)

// Gas returns a function that builds the interpolation stencil for each
// parcel and fills the lane's gas state from the gas field. Parcels
// outside of an open boundary are killed. Near embedded boundaries the
// cut-cell stencil is used, and wall films sample the cell they sit in.
func Gas() spray.ParcelManipulator {
	return func(s *spray.Spray, p *spray.Parcel, l *spray.Lane) error {
		g := s.Grid
		ijk, flags, outside := trilinear.CheckBounds(p.Pos, g)
		if outside {
			p.Kill()
			return nil
		}
		l.Flags = flags
		cell := g.Wrap(g.Cell(p.Pos))
		lx := trilinear.Offset(p.Pos, g)
		switch {
		case p.IsFilm():
			l.Stencil.Single(cell)
		case s.EB != nil && s.EB.HasCuts(cell) && !crossed(flags):
			if err := isoparametric.Weights(p.Pos, cell, s.EB, &l.Stencil); err != nil {
				return err
			}
		default:
			trilinear.Weights(ijk, lx, flags, &l.Stencil)
		}
		Fill(s, &l.Stencil, &l.Gas)
		if s.Gas.UMAC[0] != nil && !p.IsFilm() {
			l.Gas.Vel = trilinear.FaceVelocity(lx, g, s.Gas.UMAC)
		}
		return nil
	}
}

// crossed returns whether any direction is flagged as outside a
// reflective boundary.
func crossed(flags [3]int) bool {
	for _, f := range flags {
		if f == trilinear.OutsideLo || f == trilinear.OutsideHi {
			return true
		}
	}
	return false
}

// Fill sets gs to the weighted average of the gas field over the stencil
// cells and clears its sources.
func Fill(s *spray.Spray, st *spray.Stencil, gs *spray.GasState) {
	f := s.Gas
	nsp := len(f.Species)
	if cap(gs.Y) < nsp {
		gs.Y = make([]float64, nsp)
	}
	y := gs.Y[:nsp]
	clear(y)
	var vel r3.Vec
	var T, rho float64
	for n, w := range st.Weight {
		if w == 0 {
			continue
		}
		i := s.Grid.Index1d(s.Grid.Wrap(st.Index[n]))
		vel.X += w * f.Vel[0].Elements[i]
		vel.Y += w * f.Vel[1].Elements[i]
		vel.Z += w * f.Vel[2].Elements[i]
		T += w * f.T.Elements[i]
		rho += w * f.Rho.Elements[i]
		for sp, a := range f.Y {
			y[sp] += w * a.Elements[i]
		}
	}
	gs.Set(vel, T, rho, y, f.MW, len(s.Fuel.Species), s.Units)
}
