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


package abramzon

import (
	"math"
	"testing"

	"github.com/spatialmodel/spray"
	"github.com/spatialmodel/spray/science/props/simpleprops"
	"gonum.org/v1/gonum/spatial/r3"
)

func heptane() *spray.FuelData {
	return &spray.FuelData{
		NumPPP: 1,
		RefT:   298.15,
		Sigma:  20,
		Species: []spray.FuelSpecies{{
			Name:      "NC7H16",
			GasIndex:  1,
			CritT:     540,
			BoilT:     371.6,
			Cp:        2.2483e7,
			RefLatent: 3.63e9,
			Rho:       0.6795,
			Mu:        0.004,
			Lambda:    1.3e4,
			Psat:      [4]float64{4.02832, 1268.636, -56.199, 1e6},
		}},
	}
}

// gasAt returns a gas state at atmospheric pressure.
func gasAt(T float64, Y []float64, vel r3.Vec) (*spray.GasState, *spray.FuelData, *simpleprops.Props) {
	props := simpleprops.Air()
	u := spray.CGSUnits()
	fuel := heptane()
	fuel.SetLatent(props, u, len(props.Species))
	mw := props.MW()
	var invMW float64
	for i, y := range Y {
		invMW += y / mw[i]
	}
	rho := spray.PATM / (spray.RU * invMW * T)
	gs := new(spray.GasState)
	gs.Set(vel, T, rho, Y, mw, len(fuel.Species), u)
	return gs, fuel, props
}

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

var all = Flags{Mass: true, Momentum: true, Heat: true}

func TestQuiescentVapor(t *testing.T) {
	vel := r3.Vec{X: 10}
	gs, fuel, props := gasAt(350, []float64{0, 1}, vel)
	p := &spray.Parcel{ID: 1, Pos: r3.Vec{}, Vel: vel, T: 350, Dia: 50e-4, Y: []float64{1}, Weight: 1}
	r := Advance(1e-4, gs, fuel, spray.CGSUnits(), props, all, p, new(Work))
	if r.NSub != 1 {
		t.Errorf("nsub = %d; want 1", r.NSub)
	}
	if gs.MassSrc != 0 || gs.EngSrc != 0 || gs.MomSrc != (r3.Vec{}) || gs.YDot[0] != 0 {
		t.Errorf("sources should be zero: mass=%g, energy=%g, mom=%v, Ydot=%v",
			gs.MassSrc, gs.EngSrc, gs.MomSrc, gs.YDot)
	}
	if p.T != 350 || p.Vel != vel || different(p.Dia, 50e-4, 1e-12) {
		t.Errorf("parcel should not change: %+v", p)
	}
}

func TestHeptaneInHotAir(t *testing.T) {
	u := spray.CGSUnits()
	p := &spray.Parcel{ID: 1, T: 300, Dia: 50e-4, Y: []float64{1}, Weight: 1}
	w := new(Work)
	boil := make([]float64, 1)
	lastDia, lastT := p.Dia, p.T
	for i := 0; i < 100; i++ {
		gs, fuel, props := gasAt(1000, []float64{1, 0}, r3.Vec{})
		BoilT(fuel, gs, u, boil)
		Advance(1e-4, gs, fuel, u, props, all, p, w)
		if !(gs.MassSrc < 0) || !(gs.YDot[0] < 0) {
			t.Fatalf("step %d: parcel mass source %g should be negative", i, gs.MassSrc)
		}
		if !(gs.EngSrc > 0) {
			t.Fatalf("step %d: parcel energy source %g should be positive", i, gs.EngSrc)
		}
		if p.Dia >= lastDia {
			t.Fatalf("step %d: diameter %g should decrease from %g", i, p.Dia, lastDia)
		}
		// The temperature levels off at the wet-bulb value.
		if p.T < lastT*(1-1e-12) || p.T >= boil[0] {
			t.Fatalf("step %d: temperature %g should not fall from %g and should stay below %g", i, p.T, lastT, boil[0])
		}
		if p.Y[0] != 1 {
			t.Fatalf("step %d: mass fraction %g", i, p.Y[0])
		}
		lastDia, lastT = p.Dia, p.T
	}
}

func TestSubSteps(t *testing.T) {
	drag := Flags{Momentum: true}
	gasVel := r3.Vec{X: 100}

	t.Run("resolved", func(t *testing.T) {
		gs, fuel, props := gasAt(300, []float64{1, 0}, gasVel)
		p := &spray.Parcel{ID: 1, T: 300, Dia: 1e-4, Y: []float64{1}, Weight: 1}
		r := Advance(1e-5, gs, fuel, spray.CGSUnits(), props, drag, p, new(Work))
		if r.NSub <= 1 || r.NSub >= NSubMax {
			t.Errorf("nsub = %d", r.NSub)
		}
		if p.Vel.X <= 0 || p.Vel.X >= gasVel.X {
			t.Errorf("velocity %g should be between 0 and %g", p.Vel.X, gasVel.X)
		}
		if gs.MomSrc.X <= 0 {
			t.Errorf("momentum source %g should be positive", gs.MomSrc.X)
		}
	})
	t.Run("capped", func(t *testing.T) {
		gs, fuel, props := gasAt(300, []float64{1, 0}, gasVel)
		p := &spray.Parcel{ID: 1, T: 300, Dia: 1e-4, Y: []float64{1}, Weight: 1}
		r := Advance(1e-3, gs, fuel, spray.CGSUnits(), props, drag, p, new(Work))
		if r.NSub != NSubMax {
			t.Errorf("nsub = %d; want %d", r.NSub, NSubMax)
		}
	})
}

func TestMassFloor(t *testing.T) {
	gs, fuel, props := gasAt(1000, []float64{1, 0}, r3.Vec{})
	p := &spray.Parcel{ID: 1, T: 360, Dia: 1e-7, Y: []float64{1}, Weight: 1}
	w := new(Work)
	for i := 0; i < 10 && p.Alive(); i++ {
		gs.Set(gs.Vel, gs.T, gs.Rho, []float64{1, 0}, props.MW(), 1, spray.CGSUnits())
		Advance(1e-3, gs, fuel, spray.CGSUnits(), props, all, p, w)
	}
	if p.Alive() {
		t.Errorf("parcel with diameter %g should have evaporated", p.Dia)
	}
}

func TestTransferConservesMass(t *testing.T) {
	g := &spray.Grid{Hi: r3.Vec{X: 1, Y: 1, Z: 1}, N: [3]int{2, 2, 2}}
	gas, fuel, props := gasAt(800, []float64{1, 0}, r3.Vec{})
	s := &spray.Spray{
		Grid:    g,
		Sources: spray.NewSources(g, 1),
		Fuel:    fuel,
		Units:   spray.CGSUnits(),
		Props:   props,
		Dt:      1e-4,
	}
	l := new(spray.Lane)
	l.Stencil.Single([3]int{1, 0, 1})
	l.Gas = *gas
	p := &spray.Parcel{ID: 3, Pos: r3.Vec{X: 0.75, Y: 0.25, Z: 0.75}, T: 300, Dia: 30e-4, Y: []float64{1}, Weight: 5}
	m0 := fuel.Mass(p.Dia, p.Y)
	if err := Transfer(all)(s, p, l); err != nil {
		t.Fatal(err)
	}
	lost := p.Weight * (m0 - fuel.Mass(p.Dia, p.Y))
	// Each call deposits half of its rate; the full rate acts for half a step.
	gained := s.Sources.Total(s.Sources.Mass) * 2 * HalfStep * s.Dt
	if different(gained, lost, 1e-10) {
		t.Errorf("gas gained %g but parcels lost %g", gained, lost)
	}
	if different(s.Sources.Total(s.Sources.Species[0]), s.Sources.Total(s.Sources.Mass), 1e-12) {
		t.Errorf("species source %g should equal mass source %g for a single-component fuel",
			s.Sources.Total(s.Sources.Species[0]), s.Sources.Total(s.Sources.Mass))
	}
}

func TestHeatCoeff(t *testing.T) {
	if HeatCoeff(1, 0, BEps, CEps, 2) != 0 {
		t.Error("coefficient should be zero without mass transfer")
	}
	// For a stagnant sphere (Nu0 = 2) the coefficient is 2·log(1+B_T)/B_T,
	// which is below 2 and decreases with B_M.
	c1 := HeatCoeff(1, 0.1, BEps, CEps, 2)
	c2 := HeatCoeff(1, 1, BEps, CEps, 2)
	if !(c1 < 2 && c2 < c1 && c2 > 0) {
		t.Errorf("c1=%g, c2=%g", c1, c2)
	}
	// With ratio = Nu0, B_T = B_M.
	bm := 0.5
	want := 2 * math.Log(1+bm) / bm
	if different(HeatCoeff(2, bm, BEps, CEps, 2), want, 1e-10) {
		t.Errorf("have %g, want %g", HeatCoeff(2, bm, BEps, CEps, 2), want)
	}
}

func TestDragCoeff(t *testing.T) {
	for _, test := range []struct{ re, cd float64 }{
		{0, 0},
		{0.5, 48},
		{1, 24},
		{8, 3 * (1 + 4./6.)},
	} {
		if different(DragCoeff(test.re), test.cd, 1e-12) && !(test.cd == 0 && DragCoeff(test.re) == 0) {
			t.Errorf("Re=%g: have %g, want %g", test.re, DragCoeff(test.re), test.cd)
		}
	}
}

func TestBoilT(t *testing.T) {
	u := spray.CGSUnits()
	gs, fuel, _ := gasAt(400, []float64{1, 0}, r3.Vec{})
	out := make([]float64, 1)
	BoilT(fuel, gs, u, out)
	if different(out[0], fuel.Species[0].BoilT, 1e-10) {
		t.Errorf("boiling temperature at 1 atm = %g; want %g", out[0], fuel.Species[0].BoilT)
	}
	gs.P *= 10
	BoilT(fuel, gs, u, out)
	if out[0] <= fuel.Species[0].BoilT || out[0] > fuel.Species[0].CritT {
		t.Errorf("boiling temperature at 10 atm = %g", out[0])
	}
}

func TestVaporY(t *testing.T) {
	u := spray.CGSUnits()
	gs, fuel, props := gasAt(400, []float64{1, 0}, r3.Vec{})
	boil := make([]float64, 1)
	BoilT(fuel, gs, u, boil)
	h := make([]float64, 2)
	y, L := make([]float64, 1), make([]float64, 1)
	var last float64
	for _, T := range []float64{280, 300, 330, 360} {
		props.Enthalpy(T, h)
		VaporY(fuel, gs, u, T, []float64{1}, h, boil, y, L)
		if y[0] <= last || y[0] >= 1 {
			t.Errorf("T=%g: vapor mass fraction %g should increase from %g", T, y[0], last)
		}
		if L[0] <= 0 {
			t.Errorf("T=%g: latent heat %g", T, L[0])
		}
		last = y[0]
	}
	props.Enthalpy(fuel.RefT, h)
	VaporY(fuel, gs, u, fuel.RefT, []float64{1}, h, boil, y, L)
	if different(L[0], fuel.Species[0].RefLatent, 1e-10) {
		t.Errorf("latent heat at the reference temperature = %g; want %g", L[0], fuel.Species[0].RefLatent)
	}
}

func TestFlashVaporRate(t *testing.T) {
	if FlashVaporRate(0, 1, 1) != 0 {
		t.Error("no vaporization without an enthalpy difference")
	}
	g := FlashVaporRate(0.5, 1e-3, 1e-4)
	if g <= 0 || g >= 1e-3*math.Log(1.5) {
		t.Errorf("rate = %g", g)
	}
}

func TestSubStepsCap(t *testing.T) {
	for _, test := range []struct {
		dt, rate float64
		n        int
	}{
		{1, 0, 1},
		{1, math.NaN(), 1},
		{1, 0.5, 1},
		{1, 4.5, 5},
		{1, 1e300, NSubMax},
	} {
		if n := SubSteps(test.dt, test.rate); n != test.n {
			t.Errorf("rate %g: have %d, want %d", test.rate, n, test.n)
		}
	}
}

func TestFlashBoiling(t *testing.T) {
	u := spray.CGSUnits()
	for _, T0 := range []float64{372.44, 380} {
		for _, dt := range []float64{1e-4, 5e-5} {
			gs, fuel, props := gasAt(800, []float64{1, 0}, r3.Vec{})
			boil := make([]float64, 1)
			BoilT(fuel, gs, u, boil)
			p := &spray.Parcel{ID: 1, Vel: r3.Vec{X: -12.8, Y: -154, Z: 16.2}, T: T0,
				Dia: 12.4e-4, Y: []float64{1}, Weight: 1}
			m0 := fuel.Mass(p.Dia, p.Y)
			Advance(dt, gs, fuel, u, props, all, p, new(Work))
			if !p.Alive() {
				t.Fatalf("T0=%g, dt=%g: parcel should survive", T0, dt)
			}
			if math.IsNaN(p.T) || p.T <= boil[0] || p.T > T0 {
				t.Errorf("T0=%g, dt=%g: temperature %g should stay between %g and %g", T0, dt, p.T, boil[0], T0)
			}
			if !(gs.MassSrc < 0) {
				t.Errorf("T0=%g, dt=%g: mass source %g should be negative", T0, dt, gs.MassSrc)
			}
			if math.IsNaN(gs.EngSrc) || math.IsInf(gs.EngSrc, 0) ||
				math.IsNaN(r3.Norm(gs.MomSrc)) || math.IsInf(r3.Norm(gs.MomSrc), 0) {
				t.Errorf("T0=%g, dt=%g: energy %g and momentum %v sources should be finite", T0, dt, gs.EngSrc, gs.MomSrc)
			}
			lost := m0 - fuel.Mass(p.Dia, p.Y)
			if different(lost, -gs.MassSrc*HalfStep*dt, 1e-10) {
				t.Errorf("T0=%g, dt=%g: parcel lost %g but the mass source implies %g", T0, dt, lost, -gs.MassSrc*HalfStep*dt)
			}
		}
	}
}

func TestHeatCoeffSaturated(t *testing.T) {
	for _, bm := range []float64{1e3, 1e15, math.MaxFloat64} {
		c := HeatCoeff(50, bm, BEps, CEps, 2)
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 || c > 2 {
			t.Errorf("B_M=%g: coefficient %g", bm, c)
		}
	}
	if g := FlashVaporRate(0.5, 1e-3, 0); different(g, 1e-3*math.Log(1.5), 1e-12) {
		t.Errorf("rate without flash boiling = %g", g)
	}
}

func TestKill(t *testing.T) {
	u := spray.CGSUnits()
	gs, fuel, props := gasAt(800, []float64{1, 0}, r3.Vec{})
	boil := make([]float64, 1)
	BoilT(fuel, gs, u, boil)
	p := &spray.Parcel{ID: 1, T: 300, Dia: 2e-4, Y: []float64{1}, Weight: 1}
	m0 := fuel.Mass(p.Dia, p.Y)
	const dt = 1e-4
	Advance(dt, gs, fuel, u, props, all, p, new(Work))
	if p.Alive() {
		t.Fatalf("parcel with diameter %g should have evaporated", p.Dia)
	}
	if want := -m0 / (HalfStep * dt); different(gs.MassSrc, want, 1e-12) {
		t.Errorf("mass source %g; want %g", gs.MassSrc, want)
	}
	if gs.YDot[0] != gs.MassSrc {
		t.Errorf("species source %g should equal mass source %g", gs.YDot[0], gs.MassSrc)
	}
	if math.IsNaN(gs.EngSrc) || math.IsInf(gs.EngSrc, 0) {
		t.Errorf("energy source %g", gs.EngSrc)
	}
	if p.T < 300 || p.T > boil[0]*(1+1e-12) {
		t.Errorf("temperature %g should stay between 300 and %g", p.T, boil[0])
	}
}
