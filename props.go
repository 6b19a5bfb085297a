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

// Thermo evaluates per-species thermodynamic properties in the units of
// the property adapter.
type Thermo interface {
	// Enthalpy sets h to the specific enthalpy of each species at T.
	Enthalpy(T float64, h []float64)
	// HeatCapacity sets cp to the specific heat of each species at T.
	HeatCapacity(T float64, cp []float64)
}

// Transport evaluates mixture transport properties in the units of the
// property adapter. It sets D to the mixture-averaged density times
// diffusivity of each species and returns the viscosity, bulk viscosity
// and thermal conductivity.
type Transport interface {
	Transport(T, rho float64, Y, D []float64) (mu, xi, lambda float64)
}

// Properties is the thermophysical property adapter.
type Properties interface {
	Thermo
	Transport
}
