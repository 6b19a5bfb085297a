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


// Package simpleprops is a thermophysical property adapter with constant
// specific heats and power-law transport properties, in CGS units.
package simpleprops

import (
	"fmt"
	"math"
)

// Species holds the gas-phase properties of one species.
type Species struct {
	Name   string  `toml:"Name" yaml:"Name"`
	MW     float64 `toml:"MW" yaml:"MW"`         // molar mass [g/mol]
	Cp     float64 `toml:"Cp" yaml:"Cp"`         // specific heat [erg/(g K)]
	H0     float64 `toml:"H0" yaml:"H0"`         // specific enthalpy at T0 [erg/g]
	Mu     float64 `toml:"Mu" yaml:"Mu"`         // viscosity at T0 [g/(cm s)]
	Lambda float64 `toml:"Lambda" yaml:"Lambda"` // thermal conductivity at T0 [erg/(cm s K)]
	D      float64 `toml:"D" yaml:"D"`           // diffusivity into the mixture at T0 [cm²/s]
}

// Props implements spray.Properties.
type Props struct {
	T0      float64 // reference temperature [K]
	Species []Species
}

// Temperature exponents of the transport properties.
const (
	muExp     = 0.7
	lambdaExp = 0.8
	diffExp   = 1.75
)

// Air returns a two-species air and n-heptane vapor mixture.
func Air() *Props {
	return &Props{
		T0: 298.15,
		Species: []Species{
			{Name: "AIR", MW: 28.97, Cp: 1.1e7, H0: 0, Mu: 1.85e-4, Lambda: 2.6e3, D: 0.2},
			{Name: "NC7H16", MW: 100.2, Cp: 2.0e7, H0: -1.874e10, Mu: 0.7e-4, Lambda: 1.2e3, D: 0.07},
		},
	}
}

// Check returns an error if the adapter has invalid properties.
func (p *Props) Check() error {
	if p.T0 <= 0 {
		return fmt.Errorf("simpleprops: T0=%g but should be >0", p.T0)
	}
	for _, s := range p.Species {
		if s.MW <= 0 || s.Cp <= 0 || s.Mu <= 0 || s.Lambda <= 0 || s.D <= 0 {
			return fmt.Errorf("simpleprops: species %q has a non-positive property", s.Name)
		}
	}
	return nil
}

// Names returns the species names.
func (p *Props) Names() []string {
	n := make([]string, len(p.Species))
	for i, s := range p.Species {
		n[i] = s.Name
	}
	return n
}

// MW returns the species molar masses.
func (p *Props) MW() []float64 {
	mw := make([]float64, len(p.Species))
	for i, s := range p.Species {
		mw[i] = s.MW
	}
	return mw
}

// Enthalpy sets h to the specific enthalpy of each species at T.
func (p *Props) Enthalpy(T float64, h []float64) {
	for i, s := range p.Species {
		h[i] = s.H0 + s.Cp*(T-p.T0)
	}
}

// HeatCapacity sets cp to the specific heat of each species.
func (p *Props) HeatCapacity(_ float64, cp []float64) {
	for i, s := range p.Species {
		cp[i] = s.Cp
	}
}

// Transport returns mass-weighted mixture viscosity and conductivity
// and sets D to ρ·D for each species. The bulk viscosity is zero.
func (p *Props) Transport(T, rho float64, Y, D []float64) (mu, xi, lambda float64) {
	tr := T / p.T0
	fMu, fLambda, fD := math.Pow(tr, muExp), math.Pow(tr, lambdaExp), math.Pow(tr, diffExp)
	for i, s := range p.Species {
		mu += Y[i] * s.Mu * fMu
		lambda += Y[i] * s.Lambda * fLambda
		D[i] = rho * s.D * fD
	}
	return mu, 0, lambda
}
