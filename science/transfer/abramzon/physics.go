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

	"github.com/spatialmodel/spray"
)

// HeatCoeff returns the corrected Nusselt number times log(1+B_T)/B_T
// for ratio = cp_vapor·Sh·ρD/λ, mass transfer number bm and
// isolated-sphere Nusselt number nu0. The heat transfer
// number B_T is found by fixed-point iteration to within bEps. The
// coefficient is zero when bm does not exceed cEps. B_T is bounded so that
// a droplet near boiling, whose bm is very large, gets the vanishing
// coefficient of the limit B_T → ∞ instead of overflowing.
func HeatCoeff(ratio, bm, bEps, cEps, nu0 float64) float64 {
	if bm <= cEps {
		return 0
	}
	const (
		maxIter = 100
		maxExp  = 700 // exp(maxExp) is finite
	)
	nu2 := nu0 - 2
	logBM := math.Log1p(bm)
	nuNum := func(bt float64) (float64, float64) {
		logB := math.Log1p(bt)
		if bt < cEps {
			return nu0, logB
		}
		invFT := bt / (logB * math.Pow(1+bt, 0.7))
		return 2 + nu2*invFT, logB
	}
	bT := func(nu float64) float64 {
		return math.Expm1(math.Min(ratio/nu*logBM, maxExp))
	}
	btOld := bT(nu0)
	nu, _ := nuNum(btOld)
	bt := bT(nu)
	for k := 0; k < maxIter && math.Abs(bt-btOld) > bEps; k++ {
		btOld = bt
		nu, _ = nuNum(bt)
		bt = bT(nu)
	}
	if !(bt >= cEps) {
		return nu0
	}
	nu, logB := nuNum(bt)
	return nu * logB / bt
}

// Alpha returns the flash boiling heat transfer coefficient of Adachi et
// al. (1997) for a superheat of delTb [K], converted from W/(m² K) with
// u.
func Alpha(delTb float64, u spray.Units) float64 {
	var alpha float64
	switch {
	case delTb > 25:
		alpha = 13800 * math.Pow(delTb, 0.39)
	case delTb > 5:
		alpha = 27 * math.Pow(delTb, 2.33)
	default:
		alpha = 760 * math.Pow(delTb, 0.26)
	}
	return alpha * 1e3 * u.Mass
}

// FlashVaporRate returns the vaporization rate of a superheated droplet
// from Zuo, Gomes and Rutland (2000), given the normalized enthalpy
// difference dh, the rate coefficient and the flash boiling rate gf.
func FlashVaporRate(dh, coeff, gf float64) float64 {
	if dh <= 1e-5 || coeff <= 0 {
		return 0
	}
	if gf <= 0 {
		return coeff * math.Log(1+dh)
	}
	const (
		tol     = 1e-4
		maxIter = 100
	)
	grat := 1e-5
	var g float64
	for k := 0; k < maxIter; k++ {
		gOld := grat
		g = coeff / (1 + grat) * math.Log(1+(1+grat)*dh)
		grat = gf / g
		if math.Abs(grat-gOld)/gOld <= tol {
			break
		}
	}
	return g
}

// BoilT sets out to the boiling temperature of each fuel species at the
// gas pressure, estimated from Watson's law and the Clausius-Clapeyron
// relation and capped at the critical temperature.
func BoilT(fuel *spray.FuelData, gs *spray.GasState, u spray.Units, out []float64) {
	ru := spray.RU * u.RU
	patm := spray.PATM * u.Pres
	for spf, s := range fuel.Species {
		mw := gs.MW[s.GasIndex]
		hBoil := s.RefLatent * math.Pow((s.CritT-fuel.RefT)/(s.CritT-s.BoilT), -0.38)
		out[spf] = math.Min(s.CritT, 1/(math.Log(patm/gs.P)*ru/(hBoil*mw)+1/s.BoilT))
	}
}

// VaporY sets yVap to the equilibrium vapor mass fraction at the surface
// of a droplet at temperature T with liquid mass fractions Y, and latent
// to the latent heat of each fuel species. hPart holds the vapor
// enthalpies at T and boilT the result of BoilT. Saturation pressures
// come from the Antoine equation, or from Clausius-Clapeyron when the
// species has no Antoine coefficients.
func VaporY(fuel *spray.FuelData, gs *spray.GasState, u spray.Units, T float64, Y, hPart, boilT, yVap, latent []float64) {
	ru := spray.RU * u.RU
	patm := spray.PATM * u.Pres
	var sumXv, sumMWXv, nt float64
	for spf, s := range fuel.Species {
		fs := s.GasIndex
		mw := gs.MW[fs]
		tPart := math.Min(T, boilT[spf])
		latent[spf] = hPart[fs] + s.Latent - s.Cp*(tPart-fuel.RefT)
		a, b, c, d := s.Psat[0], s.Psat[1], s.Psat[2], s.Psat[3]
		var psat float64
		if d == 0 {
			psat = patm * math.Exp(latent[spf]*mw/ru*(1/s.BoilT-1/tPart))
		} else {
			psat = d * math.Pow(10, a-b/(tPart+c))
		}
		xl := Y[spf] / mw
		xvc := xl * psat
		nt += xl
		sumXv += xvc
		yVap[spf] = mw * xvc
		sumMWXv += yVap[spf]
	}
	total := gs.MWMix*(nt*gs.P-sumXv) + sumMWXv
	for spf := range fuel.Species {
		yVap[spf] = math.Max(0, math.Min(1-CEps, yVap[spf]/total))
	}
}

// DragCoeff returns the drag coefficient of a sphere at Reynolds number re.
func DragCoeff(re float64) float64 {
	switch {
	case re <= 0:
		return 0
	case re > 1:
		return 24 / re * (1 + math.Pow(re, 2./3.)/6)
	default:
		return 24 / re
	}
}

// SubSteps returns the number of sub-steps needed to resolve a process
// with the given relaxation rate over flowDt, capped at NSubMax.
func SubSteps(flowDt, rate float64) int {
	n := flowDt * rate
	switch {
	case !(n > 0):
		return 1
	case n >= NSubMax:
		return NSubMax
	}
	return int(n) + 1
}
