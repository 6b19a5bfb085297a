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
)

// FuelSpecies holds the liquid properties of one fuel species. Values
// are in solver units.
type FuelSpecies struct {
	Name      string  `toml:"Name" yaml:"Name"`
	GasIndex  int     `toml:"GasIndex" yaml:"GasIndex"`   // index of the vapor in the gas species list
	CritT     float64 `toml:"CritT" yaml:"CritT"`         // critical temperature
	BoilT     float64 `toml:"BoilT" yaml:"BoilT"`         // boiling temperature at atmospheric pressure
	Cp        float64 `toml:"Cp" yaml:"Cp"`               // liquid specific heat
	RefLatent float64 `toml:"RefLatent" yaml:"RefLatent"` // latent heat at RefT
	Rho       float64 `toml:"Rho" yaml:"Rho"`             // liquid density
	Mu        float64 `toml:"Mu" yaml:"Mu"`               // liquid viscosity
	Lambda    float64 `toml:"Lambda" yaml:"Lambda"`       // liquid thermal conductivity

	// Psat holds the Antoine coefficients a, b, c and the pressure
	// conversion d, so that psat = d·10^(a−b/(T+c)). If d is zero the
	// Clausius-Clapeyron relation is used instead.
	Psat [4]float64 `toml:"Psat" yaml:"Psat"`

	// Latent is RefLatent less the vapor enthalpy at RefT, so that the
	// latent heat at T is h_vapor(T) + Latent − Cp·(T − RefT). It is set
	// by SetLatent.
	Latent float64 `toml:"-" yaml:"-"`
}

// FuelData is the read-only liquid property table.
type FuelData struct {
	NumPPP  float64       `toml:"NumPPP" yaml:"NumPPP"` // default physical droplets per parcel
	RefT    float64       `toml:"RefT" yaml:"RefT"`     // reference temperature for Latent
	Sigma   float64       `toml:"Sigma" yaml:"Sigma"`   // surface tension; negative disables splashing
	Species []FuelSpecies `toml:"Species" yaml:"Species"`
}

// Validate checks the table for physically inconsistent values.
func (f *FuelData) Validate(nGas int) error {
	if len(f.Species) == 0 {
		return fmt.Errorf("spray: fuel table has no species")
	}
	if f.NumPPP <= 0 {
		return fmt.Errorf("spray: fuel table: NumPPP=%g but should be >0", f.NumPPP)
	}
	for _, s := range f.Species {
		switch {
		case s.GasIndex < 0 || s.GasIndex >= nGas:
			return fmt.Errorf("spray: fuel species %q: GasIndex=%d but should be in [0,%d)", s.Name, s.GasIndex, nGas)
		case s.Rho <= 0:
			return fmt.Errorf("spray: fuel species %q: Rho=%g but should be >0", s.Name, s.Rho)
		case s.Cp <= 0:
			return fmt.Errorf("spray: fuel species %q: Cp=%g but should be >0", s.Name, s.Cp)
		case s.BoilT <= 0:
			return fmt.Errorf("spray: fuel species %q: BoilT=%g but should be >0", s.Name, s.BoilT)
		case s.CritT <= s.BoilT:
			return fmt.Errorf("spray: fuel species %q: CritT=%g but should be > BoilT=%g", s.Name, s.CritT, s.BoilT)
		case s.RefLatent <= 0:
			return fmt.Errorf("spray: fuel species %q: RefLatent=%g but should be >0", s.Name, s.RefLatent)
		case s.CritT <= f.RefT:
			return fmt.Errorf("spray: fuel species %q: CritT=%g but should be > RefT=%g", s.Name, s.CritT, f.RefT)
		}
	}
	return nil
}

// SetLatent computes the latent heat offsets from the vapor enthalpies
// returned by th, which are converted with u.Eng. nGas is the number of
// gas species.
func (f *FuelData) SetLatent(th Thermo, u Units, nGas int) {
	h := make([]float64, nGas)
	th.Enthalpy(f.RefT, h)
	for i := range f.Species {
		s := &f.Species[i]
		s.Latent = s.RefLatent - h[s.GasIndex]*u.Eng
	}
}

// Density returns the density of a liquid mixture with mass fractions Y.
func (f *FuelData) Density(Y []float64) float64 {
	var inv float64
	for i, s := range f.Species {
		inv += Y[i] / s.Rho
	}
	return 1 / inv
}

// Mass returns the mass of a droplet with diameter dia and mass fractions Y.
func (f *FuelData) Mass(dia float64, Y []float64) float64 {
	return math.Pi / 6 * f.Density(Y) * dia * dia * dia
}

// Dia returns the diameter of a droplet with the given mass and mass fractions.
func (f *FuelData) Dia(mass float64, Y []float64) float64 {
	return math.Cbrt(6 * mass / (math.Pi * f.Density(Y)))
}

// Viscosity returns the mass-weighted liquid viscosity.
func (f *FuelData) Viscosity(Y []float64) float64 {
	var mu float64
	for i, s := range f.Species {
		mu += Y[i] * s.Mu
	}
	return mu
}

// Conductivity returns the mass-weighted liquid thermal conductivity.
func (f *FuelData) Conductivity(Y []float64) float64 {
	var l float64
	for i, s := range f.Species {
		l += Y[i] * s.Lambda
	}
	return l
}

// HeatCapacity returns the mass-weighted liquid specific heat.
func (f *FuelData) HeatCapacity(Y []float64) float64 {
	var cp float64
	for i, s := range f.Species {
		cp += Y[i] * s.Cp
	}
	return cp
}
