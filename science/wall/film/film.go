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


// Package film evolves wall films: parcels that have deposited on a wall.
// A film exchanges mass and heat with the gas in the cell above it and
// conducts heat from the wall.
package film

import (
	"math"
	"sync"

	"github.com/spatialmodel/spray"
	"github.com/spatialmodel/spray/science/transfer/abramzon"
	"gonum.org/v1/gonum/spatial/r3"
)

// MinHeight is the film height [cm] below which a film is removed.
const MinHeight = 2e-6

// Work holds scratch space for Source.
type Work struct {
	ySkin, hPart, diff      []float64
	yVap, latent, boilT, mi []float64
}

func (w *Work) resize(nsp, nf int) {
	grow := func(s *[]float64, n int) {
		if cap(*s) < n {
			*s = make([]float64, n)
		}
		*s = (*s)[:n]
		clear(*s)
	}
	for _, s := range []*[]float64{&w.ySkin, &w.hPart, &w.diff} {
		grow(s, nsp)
	}
	for _, s := range []*[]float64{&w.yVap, &w.latent, &w.boilT, &w.mi} {
		grow(s, nf)
	}
}

// Source advances film p by half of flowDt and sets the sources in gs.
// tWall is the wall temperature and diffCent the distance from the
// film to the center of the gas cell. The film surface temperature
// follows from a steady balance between conduction through the gas,
// conduction through the film and evaporation. The film spreads over a
// fixed area, so its height follows its volume.
func Source(flowDt float64, gs *spray.GasState, fuel *spray.FuelData, u spray.Units,
	props spray.Properties, p *spray.Parcel, tWall, diffCent float64, w *Work) {

	nsp, nf := len(gs.Y), len(fuel.Species)
	w.resize(nsp, nf)
	partDt := abramzon.HalfStep * flowDt
	lengthConv := math.Cbrt(u.Mass / u.Rho)

	tFilm := p.FilmTemperature()
	vol := p.FilmVolume()
	ht := p.FilmHeight()
	area := vol / ht
	dia := math.Sqrt(4 * area / math.Pi)
	tI := gs.T

	abramzon.BoilT(fuel, gs, u, w.boilT)
	props.Enthalpy(tFilm, w.hPart)
	for n := range w.hPart {
		w.hPart[n] *= u.Eng
	}
	abramzon.VaporY(fuel, gs, u, tFilm, p.Y, w.hPart, w.boilT, w.yVap, w.latent)

	var sumYSkin, sumYFuel, invRho, lambdaFilm float64
	for spf, s := range fuel.Species {
		fs := s.GasIndex
		invRho += p.Y[spf] / s.Rho
		lambdaFilm += p.Y[spf] * s.Lambda
		w.ySkin[fs] = 0.5 * (w.yVap[spf] + gs.Y[fs])
		sumYSkin += w.ySkin[fs]
		sumYFuel += gs.Y[fs]
	}
	var renorm float64
	if rest := 1 - sumYFuel; rest > 0 {
		renorm = (1 - sumYSkin) / rest
	}
	var invMW float64
	for n := range w.ySkin {
		if w.ySkin[n] == 0 {
			w.ySkin[n] = gs.Y[n] * renorm
		}
		invMW += w.ySkin[n] * gs.InvMW[n]
	}
	mwVap := 1 / invMW
	pmass := vol / invRho

	_, _, lambdaSkin := props.Transport(0.5*(tFilm+tI), gs.Rho/u.Rho, w.ySkin, w.diff)
	lambdaSkin *= u.Lambda

	// Distance from the film surface to the cell center.
	dy := math.Max(diffCent-ht, MinHeight*lengthConv)

	// Diffusion-limited evaporation fluxes, positive when evaporating. A
	// film at or above its boiling temperature has a vapor mass fraction
	// near one, so no species can lose more than the film holds within
	// the step.
	var evapFlux, qVap float64
	for spf, s := range fuel.Species {
		fs := s.GasIndex
		rhoD := w.diff[fs] * mwVap * gs.InvMW[fs] * u.RhoD
		flux := rhoD / math.Max(1-w.yVap[spf], abramzon.CEps) * (w.yVap[spf] - gs.Y[fs]) / dy
		w.mi[spf] = math.Max(-flux*area, -p.Y[spf]*pmass/partDt)
		flux = -w.mi[spf] / area
		evapFlux += flux
		qVap += flux * w.latent[spf]
		gs.YDot[spf] += w.mi[spf]
		gs.EngSrc += w.mi[spf] * w.hPart[fs]
	}
	gs.MassSrc = -evapFlux * area

	fs1 := lambdaSkin * ht
	fs2 := lambdaFilm * dy
	tS := (fs1*tI + fs2*tWall - ht*dy*qVap) / (fs1 + fs2)
	qConv := lambdaSkin * (tI - tS) / dy
	gs.EngSrc += qConv * area

	newMass := pmass + partDt*gs.MassSrc
	if newMass <= 0 {
		p.Kill()
		return
	}
	var newInvRho float64
	for spf, s := range fuel.Species {
		p.Y[spf] = math.Min(1, math.Max(0, (p.Y[spf]*pmass+w.mi[spf]*partDt)/newMass))
		newInvRho += p.Y[spf] / s.Rho
	}
	newVol := newMass * newInvRho
	newHt := 4 * newVol / (math.Pi * dia * dia)
	p.MakeFilm(newVol, newHt, 0.5*(tS+tWall))
	if newHt < MinHeight*lengthConv {
		p.Kill()
	}
}

// Film returns a function that evolves each wall film over half of the
// time step and deposits its sources into the cell it sits in. Like
// abramzon.Transfer, it is meant to be called twice per step.
func Film() spray.ParcelManipulator {
	pool := sync.Pool{New: func() any { return new(Work) }}
	return func(s *spray.Spray, p *spray.Parcel, l *spray.Lane) error {
		if !p.IsFilm() {
			return nil
		}
		g := s.Grid
		cell := g.Wrap(g.Cell(p.Pos))
		tWall := s.Gas.WallT.Elements[g.Index1d(cell)]
		center := g.Center(cell)
		if s.EB != nil && s.EB.CellType(cell) == spray.Cut {
			c := s.EB.CellCentroid(cell)
			dx := g.Dx()
			center = r3.Add(center, r3.Vec{X: c.X * dx.X, Y: c.Y * dx.Y, Z: c.Z * dx.Z})
		}
		w := pool.Get().(*Work)
		defer pool.Put(w)
		Source(s.Dt, &l.Gas, s.Fuel, s.Units, s.Props, p, tWall, r3.Norm(r3.Sub(center, p.Pos)), w)
		s.Sources.Deposit(&l.Stencil, &l.Gas, abramzon.HalfStep*p.Weight, s.EB)
		return nil
	}
}
