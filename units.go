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

	"github.com/ctessum/unit"
)

// Physical constants in the units of the property adapter (CGS).
const (
	RU   = 8.31446261815324e7 // universal gas constant [erg/(mol K)]
	PATM = 1.01325e6          // atmospheric pressure [dyn/cm²]
)

// Units holds multiplicative factors that convert values returned by the
// property adapter into the units used by the gas-phase solver and the
// parcels. It is threaded explicitly into every kernel.
type Units struct {
	RU     float64 // gas constant
	Eng    float64 // specific energy
	Rho    float64 // density
	Mass   float64 // mass
	RhoD   float64 // density times diffusivity
	Mu     float64 // dynamic viscosity
	Lambda float64 // thermal conductivity
	Pres   float64 // pressure
	MW     float64 // molar mass
}

// CGSUnits returns unit factors for a solver that works in CGS units, the
// same units as the property adapter.
func CGSUnits() Units {
	return Units{RU: 1, Eng: 1, Rho: 1, Mass: 1, RhoD: 1, Mu: 1, Lambda: 1, Pres: 1, MW: 1}
}

// MKSUnits returns unit factors for a solver working in SI (MKS) units
// coupled to the CGS property adapter.
func MKSUnits() (Units, error) {
	g := unit.New(1e-3, unit.Kilogram)
	cm := unit.New(1e-2, unit.Meter)
	s := unit.New(1, unit.Second)
	K := unit.New(1, unit.Kelvin)

	erg := unit.Div(unit.Mul(g, cm, cm), unit.Mul(s, s))
	gcc := unit.Div(g, unit.Mul(cm, cm, cm))
	gcms := unit.Div(g, unit.Mul(cm, s))
	barye := unit.Div(erg, unit.Mul(cm, cm, cm))

	type conv struct {
		name string
		u    *unit.Unit
		dims unit.Dimensions
		v    *float64
	}
	var o Units
	for _, c := range []conv{
		{"RU", unit.Div(erg, K), unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -2, unit.TemperatureDim: -1}, &o.RU},
		{"Eng", unit.Div(erg, g), unit.Dimensions{unit.LengthDim: 2, unit.TimeDim: -2}, &o.Eng},
		{"Rho", gcc, unit.KilogramPerMeter3, &o.Rho},
		{"Mass", g, unit.Kilogram, &o.Mass},
		{"RhoD", gcms, unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -1, unit.TimeDim: -1}, &o.RhoD},
		{"Mu", gcms, unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -1, unit.TimeDim: -1}, &o.Mu},
		{"Lambda", unit.Div(erg, unit.Mul(cm, s, K)), unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 1, unit.TimeDim: -3, unit.TemperatureDim: -1}, &o.Lambda},
		{"Pres", barye, unit.Pascal, &o.Pres},
		{"MW", g, unit.Kilogram, &o.MW}, // per mole
	} {
		if err := c.u.Check(c.dims); err != nil {
			return Units{}, fmt.Errorf("spray: %s conversion: %v", c.name, err)
		}
		*c.v = c.u.Value()
	}
	return o, nil
}

// ParseUnits returns the unit factors for the named solver unit
// convention, which should be "CGS" or "MKS".
func ParseUnits(name string) (Units, error) {
	switch name {
	case "CGS", "cgs":
		return CGSUnits(), nil
	case "MKS", "mks", "SI", "si":
		return MKSUnits()
	default:
		return Units{}, fmt.Errorf("spray: invalid unit convention %q; valid options are CGS and MKS", name)
	}
}
