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

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/spatial/r3"
)

// GasField holds the Eulerian gas-phase state at cell centers.
type GasField struct {
	Grid    *Grid
	Species []string  // gas species names
	MW      []float64 // species molar masses [g/mol]

	Vel [3]*sparse.DenseArray
	T   *sparse.DenseArray
	Rho *sparse.DenseArray
	Y   []*sparse.DenseArray

	// UMAC optionally holds face-centered velocities. Component d has
	// N[d]+1 faces along direction d.
	UMAC [3]*sparse.DenseArray

	// WallT is the wall temperature in each cell.
	WallT *sparse.DenseArray
}

// NewGasField allocates a gas field on g for the given species.
func NewGasField(g *Grid, species []string, mw []float64) (*GasField, error) {
	if len(species) != len(mw) {
		return nil, fmt.Errorf("spray: %d species names but %d molar masses", len(species), len(mw))
	}
	n := g.N
	f := &GasField{
		Grid:    g,
		Species: species,
		MW:      mw,
		T:       sparse.ZerosDense(n[0], n[1], n[2]),
		Rho:     sparse.ZerosDense(n[0], n[1], n[2]),
		WallT:   sparse.ZerosDense(n[0], n[1], n[2]),
	}
	for d := range f.Vel {
		f.Vel[d] = sparse.ZerosDense(n[0], n[1], n[2])
	}
	for range species {
		f.Y = append(f.Y, sparse.ZerosDense(n[0], n[1], n[2]))
	}
	return f, nil
}

// SetUniform sets every cell to the same state.
func (f *GasField) SetUniform(vel r3.Vec, T, rho float64, Y []float64, wallT float64) {
	for i := range f.T.Elements {
		f.Vel[0].Elements[i] = vel.X
		f.Vel[1].Elements[i] = vel.Y
		f.Vel[2].Elements[i] = vel.Z
		f.T.Elements[i] = T
		f.Rho.Elements[i] = rho
		f.WallT.Elements[i] = wallT
		for s, y := range f.Y {
			y.Elements[i] = Y[s]
		}
	}
}

// SetFaceVelocity allocates face-centered velocity arrays filled with the
// given uniform velocity.
func (f *GasField) SetFaceVelocity(vel r3.Vec) {
	n := f.Grid.N
	for d := 0; d < 3; d++ {
		s := n
		s[d]++
		f.UMAC[d] = sparse.ZerosDense(s[0], s[1], s[2])
		v := Comp(vel, d)
		for i := range f.UMAC[d].Elements {
			f.UMAC[d].Elements[i] = v
		}
	}
}

// GasState is the gas-phase state sampled at a parcel location, together
// with the source terms the parcel returns to the gas. Sources are from
// the parcel's point of view.
type GasState struct {
	Vel   r3.Vec
	T     float64
	Rho   float64
	P     float64
	Y     []float64 // clipped to [0,1]
	MW    []float64
	InvMW []float64
	MWMix float64

	MomSrc  r3.Vec
	MassSrc float64
	EngSrc  float64
	YDot    []float64 // per fuel species
}

// Set initializes the state from sampled values and clears the sources.
// Molar masses are given in g/mol and converted with u.MW. Pressure
// follows from the ideal gas law.
func (gs *GasState) Set(vel r3.Vec, T, rho float64, Y, mw []float64, nFuel int, u Units) {
	gs.Vel, gs.T, gs.Rho = vel, T, rho
	gs.Y = resize(gs.Y, len(Y))
	gs.MW = resize(gs.MW, len(mw))
	gs.InvMW = resize(gs.InvMW, len(mw))
	var invMix float64
	for n := range Y {
		gs.Y[n] = math.Min(1, math.Max(Y[n], 0))
		gs.MW[n] = mw[n] * u.MW
		gs.InvMW[n] = 1 / gs.MW[n]
		invMix += gs.Y[n] * gs.InvMW[n]
	}
	gs.P = rho * RU * invMix * T * u.RU
	gs.MWMix = 1 / invMix
	gs.MomSrc = r3.Vec{}
	gs.MassSrc, gs.EngSrc = 0, 0
	gs.YDot = resize(gs.YDot, nFuel)
	for i := range gs.YDot {
		gs.YDot[i] = 0
	}
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}
