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


package film

import (
	"math"
	"testing"

	"github.com/spatialmodel/spray"
	"github.com/spatialmodel/spray/science/props/simpleprops"
	"github.com/spatialmodel/spray/science/sample"
	"github.com/spatialmodel/spray/science/transfer/abramzon"
	"gonum.org/v1/gonum/spatial/r3"
)

func heptane() *spray.FuelData {
	return &spray.FuelData{
		NumPPP: 1,
		RefT:   298.15,
		Sigma:  20,
		Species: []spray.FuelSpecies{{
			Name: "NC7H16", GasIndex: 1, CritT: 540, BoilT: 371.6, Cp: 2.2483e7,
			RefLatent: 3.63e9, Rho: 0.6795, Mu: 0.004, Lambda: 1.3e4,
			Psat: [4]float64{4.02832, 1268.636, -56.199, 1e6},
		}},
	}
}

func airAt(T float64, props *simpleprops.Props, fuel *spray.FuelData) *spray.GasState {
	u := spray.CGSUnits()
	mw := props.MW()
	rho := spray.PATM * mw[0] / (spray.RU * T)
	gs := new(spray.GasState)
	gs.Set(r3.Vec{}, T, rho, []float64{1, 0}, mw, len(fuel.Species), u)
	return gs
}

func TestSource(t *testing.T) {
	props := simpleprops.Air()
	fuel := heptane()
	u := spray.CGSUnits()
	fuel.SetLatent(props, u, 2)
	gs := airAt(400, props, fuel)

	p := &spray.Parcel{ID: 1, Y: []float64{1}, Weight: 1}
	p.MakeFilm(1e-6, 1e-3, 320)
	Source(1e-4, gs, fuel, u, props, p, 350, 0.05, new(Work))

	if !p.Alive() || !p.IsFilm() {
		t.Fatal("film should survive")
	}
	if !(gs.MassSrc < 0) || gs.YDot[0] != gs.MassSrc {
		t.Errorf("mass source %g, species source %g", gs.MassSrc, gs.YDot[0])
	}
	if p.FilmHeight() >= 1e-3 || p.FilmVolume() >= 1e-6 {
		t.Errorf("film should shrink: height %g, volume %g", p.FilmHeight(), p.FilmVolume())
	}
	// Constant area.
	if area := p.FilmVolume() / p.FilmHeight(); math.Abs(area-1e-3)/1e-3 > 1e-10 {
		t.Errorf("area %g; want 1e-3", area)
	}
	if T := p.FilmTemperature(); T < 320 || T > 400 {
		t.Errorf("film temperature %g", T)
	}
	if p.Y[0] != 1 {
		t.Errorf("mass fraction %g", p.Y[0])
	}
}

func TestSourceRemovesThinFilm(t *testing.T) {
	props := simpleprops.Air()
	fuel := heptane()
	u := spray.CGSUnits()
	fuel.SetLatent(props, u, 2)
	gs := airAt(400, props, fuel)

	p := &spray.Parcel{ID: 1, Y: []float64{1}, Weight: 1}
	p.MakeFilm(1e-12, 2.0001e-6, 340)
	Source(1e-2, gs, fuel, u, props, p, 350, 0.05, new(Work))
	if p.Alive() {
		t.Errorf("film with height %g should be removed", p.FilmHeight())
	}
}

func TestFilm(t *testing.T) {
	g := &spray.Grid{
		Hi:         r3.Vec{X: 1, Y: 1, Z: 1},
		N:          [3]int{2, 2, 2},
		BoundaryLo: [3]spray.BoundaryType{spray.Periodic, spray.Reflective, spray.Periodic},
		BoundaryHi: [3]spray.BoundaryType{spray.Periodic, spray.Reflective, spray.Periodic},
	}
	props := simpleprops.Air()
	fuel := heptane()
	u := spray.CGSUnits()
	fuel.SetLatent(props, u, 2)
	gas, err := spray.NewGasField(g, props.Names(), props.MW())
	if err != nil {
		t.Fatal(err)
	}
	T := 400.
	gas.SetUniform(r3.Vec{X: 10}, T, spray.PATM*props.Species[0].MW/(spray.RU*T), []float64{1, 0}, 350)

	film := spray.Parcel{ID: 0, Pos: r3.Vec{X: 0.25, Y: 1e-6, Z: 0.25}, Y: []float64{1}, Weight: 4}
	film.MakeFilm(1e-6, 1e-3, 330)
	drop := spray.Parcel{ID: 1, Pos: r3.Vec{X: 0.75, Y: 0.75, Z: 0.75}, T: 300, Dia: 1e-3, Y: []float64{1}, Weight: 1}
	parcels := &spray.ParcelSlice{film, drop}
	s := &spray.Spray{
		Grid:    g,
		Gas:     gas,
		Sources: spray.NewSources(g, 1),
		Parcels: parcels,
		Fuel:    fuel,
		Units:   u,
		Props:   props,
		Dt:      1e-4,
	}
	if err := spray.Calculations(sample.Gas(), Film())(s); err != nil {
		t.Fatal(err)
	}
	f := (*parcels)[0]
	lost := film.Weight * (film.FilmVolume() - f.FilmVolume()) * fuel.Species[0].Rho
	gained := s.Sources.Total(s.Sources.Mass) * s.Dt
	if lost <= 0 || math.Abs(gained-lost)/lost > 1e-8 {
		t.Errorf("gas gained %g but film lost %g", gained, lost)
	}
	if (*parcels)[1].Dia != 1e-3 || (*parcels)[1].T != 300 {
		t.Error("airborne parcel should be untouched")
	}
	// Only the film's cell receives sources.
	var nonzero int
	for _, v := range s.Sources.Mass.Elements {
		if v != 0 {
			nonzero++
		}
	}
	if nonzero != 1 {
		t.Errorf("%d cells have sources; want 1", nonzero)
	}
}

func TestSourceHotWall(t *testing.T) {
	props := simpleprops.Air()
	fuel := heptane()
	u := spray.CGSUnits()
	fuel.SetLatent(props, u, 2)
	gs := airAt(800, props, fuel)

	// A thin film above its boiling temperature evaporates completely
	// within the step.
	const dt, vol, T = 1e-4, 1e-8, 399.9
	p := &spray.Parcel{ID: 1, Y: []float64{1}, Weight: 1}
	p.MakeFilm(vol, 1e-3, T)
	Source(dt, gs, fuel, u, props, p, 400, 0.05, new(Work))

	if p.Alive() {
		t.Errorf("film with volume %g should have evaporated", p.FilmVolume())
	}
	mass := vol * fuel.Species[0].Rho
	if lost := -gs.MassSrc * abramzon.HalfStep * dt; math.Abs(lost-mass)/mass > 1e-10 {
		t.Errorf("film lost %g; want at most its mass %g", lost, mass)
	}
	if gs.YDot[0] != gs.MassSrc {
		t.Errorf("species source %g should equal mass source %g", gs.YDot[0], gs.MassSrc)
	}
	h := make([]float64, 2)
	props.Enthalpy(T, h)
	if math.IsNaN(gs.EngSrc) || math.Abs(gs.EngSrc-gs.MassSrc*h[1]) > math.Abs(gs.MassSrc)*fuel.Species[0].RefLatent {
		t.Errorf("energy source %g should be close to the vapor enthalpy %g", gs.EngSrc, gs.MassSrc*h[1])
	}
}
