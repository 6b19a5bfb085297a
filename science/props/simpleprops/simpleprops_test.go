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


package simpleprops

import (
	"math"
	"testing"
)

func TestAir(t *testing.T) {
	p := Air()
	if err := p.Check(); err != nil {
		t.Fatal(err)
	}
	h := make([]float64, 2)
	p.Enthalpy(p.T0, h)
	if h[0] != 0 || h[1] != p.Species[1].H0 {
		t.Errorf("enthalpy at T0 = %v", h)
	}
	cp := make([]float64, 2)
	p.HeatCapacity(500, cp)
	p.Enthalpy(p.T0+100, h)
	if math.Abs(h[0]-100*cp[0]) > 1e-6*h[0] {
		t.Errorf("h(T0+100) = %g; want %g", h[0], 100*cp[0])
	}

	D := make([]float64, 2)
	mu, xi, lambda := p.Transport(p.T0, 1e-3, []float64{1, 0}, D)
	if mu != p.Species[0].Mu || lambda != p.Species[0].Lambda || xi != 0 {
		t.Errorf("mu=%g, xi=%g, lambda=%g", mu, xi, lambda)
	}
	if math.Abs(D[1]-1e-3*p.Species[1].D) > 1e-15 {
		t.Errorf("rhoD = %g", D[1])
	}
	mu2, _, _ := p.Transport(2*p.T0, 1e-3, []float64{1, 0}, D)
	if mu2 <= mu {
		t.Errorf("viscosity should increase with temperature")
	}
}

func TestCheck(t *testing.T) {
	p := Air()
	p.Species[0].MW = 0
	if err := p.Check(); err == nil {
		t.Error("expected an error for zero molar mass")
	}
}
