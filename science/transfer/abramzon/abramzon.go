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

// Package abramzon integrates drag, heat transfer and multi-component
// evaporation for spray parcels using the film model of Abramzon and
// Sirignano, with the flash boiling correction of Zuo, Gomes and Rutland
// for superheated droplets.
package abramzon

import (
	"math"
	"sync"

	"github.com/spatialmodel/spray"
	"gonum.org/v1/gonum/spatial/r3"
)

// Model constants.
const (
	Rule      = 1. / 3. // weight of the gas state in the skin state
	HalfStep  = 0.5     // each call advances half of the flow time step
	CEps      = 1e-15   // floor on mass transfer numbers
	BEps      = 1e-7    // convergence tolerance of the heat transfer number
	MassFloor = 8e-18   // parcels lighter than this [g] are removed
	NSubMax   = 100     // maximum number of sub-steps
)

// Flags selects the active exchange processes.
type Flags struct {
	Mass     bool // evaporation and condensation
	Momentum bool // drag
	Heat     bool // convective heat transfer; requires Mass
	LowMach  bool // omit drag work from the energy source
}

// Work holds scratch space for Advance.
type Work struct {
	ySkin, hPart, hFluid, cp, diff []float64 // per gas species
	bm, sh, latent, mDot, y, y0    []float64 // per fuel species
	yVap, boilT, qFlash            []float64 // per fuel species
	boiling                        []bool    // per fuel species
}

func (w *Work) resize(nsp, nf int) {
	grow := func(s *[]float64, n int) {
		if cap(*s) < n {
			*s = make([]float64, n)
		}
		*s = (*s)[:n]
		clear(*s)
	}
	for _, s := range []*[]float64{&w.ySkin, &w.hPart, &w.hFluid, &w.cp, &w.diff} {
		grow(s, nsp)
	}
	for _, s := range []*[]float64{&w.bm, &w.sh, &w.latent, &w.mDot, &w.y, &w.y0, &w.yVap, &w.boilT, &w.qFlash} {
		grow(s, nf)
	}
	if cap(w.boiling) < nf {
		w.boiling = make([]bool, nf)
	}
	w.boiling = w.boiling[:nf]
	clear(w.boiling)
}

// Result describes a completed call to Advance.
type Result struct {
	NSub int // number of sub-steps taken
}

// Advance advances parcel p by half of flowDt in the gas state gs,
// accumulating the parcel's mass, momentum, energy and species source
// rates into gs. The number of sub-steps is chosen on the first sub-step
// from the evaporation, drag and thermal relaxation rates. Parcels whose
// mass falls below the floor are killed and keep the velocity and
// temperature they had at the start of the final sub-step.
func Advance(flowDt float64, gs *spray.GasState, fuel *spray.FuelData, u spray.Units,
	props spray.Properties, f Flags, p *spray.Parcel, w *Work) Result {

	nsp, nf := len(gs.Y), len(fuel.Species)
	w.resize(nsp, nf)
	massEps := MassFloor * u.Mass

	vel, T, dia := p.Vel, p.T, p.Dia
	copy(w.y, p.Y)
	copy(w.y0, p.Y)
	Y := w.y

	dt := flowDt
	isub, nsub := 1, 1
	pmass := math.Pi / 6 * fuel.Density(Y) * dia * dia * dia
	startMass := pmass

	props.Enthalpy(gs.T, w.hFluid)
	for n := range w.hFluid {
		w.hFluid[n] *= u.Eng
	}
	BoilT(fuel, gs, u, w.boilT)

	for isub <= nsub {
		delT := math.Max(gs.T-T, 0)
		tSkin := T + Rule*delT
		props.HeatCapacity(tSkin, w.cp)
		props.Enthalpy(T, w.hPart)
		var hgS, hgG float64 // mixture enthalpy at parcel and gas temperatures
		for n := range w.hPart {
			w.hPart[n] *= u.Eng
			w.cp[n] *= u.Eng
			if f.Mass {
				w.ySkin[n] = 0
				hgS += gs.Y[n] * w.hPart[n]
				hgG += gs.Y[n] * w.hFluid[n]
			} else {
				w.ySkin[n] = gs.Y[n]
			}
		}

		var sumYSkin, sumYFuel, cpSkin, cpPart float64
		mwVap := gs.MWMix
		if f.Mass {
			VaporY(fuel, gs, u, T, Y, w.hPart, w.boilT, w.yVap, w.latent)
			for spf, s := range fuel.Species {
				fs := s.GasIndex
				yv := w.yVap[spf]
				w.mDot[spf] = 0
				w.boiling[spf] = false
				w.bm[spf] = math.Max(CEps, (yv-gs.Y[fs])/(1-yv))
				w.ySkin[fs] = yv + Rule*(gs.Y[fs]-yv)
				sumYSkin += w.ySkin[fs]
				cpPart += Y[spf] * s.Cp
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
				cpSkin += w.ySkin[n] * w.cp[n]
				invMW += w.ySkin[n] * gs.InvMW[n]
			}
			mwVap = 1 / invMW
		}

		rhoSkin := gs.Rho
		mu, _, lambda := props.Transport(tSkin, rhoSkin/u.Rho, w.ySkin, w.diff)
		mu *= u.Mu
		lambda *= u.Lambda

		// Evaporation requires some non-fuel gas.
		evap := sumYFuel < 1
		diffVel := r3.Sub(gs.Vel, vel)
		diffVelMag := r3.Norm(diffVel)
		re := rhoSkin * diffVelMag * dia / mu

		nu0 := 1.
		var mDot float64
		if f.Mass && evap {
			pr := mu * cpSkin / lambda
			powR := math.Max(math.Pow(re, 0.077), 1)
			nu0 = 1 + powR*math.Cbrt(1+re*pr)
			for spf, s := range fuel.Species {
				if Y[spf] > 0 {
					fs := s.GasIndex
					// Mixture-averaged to binary diffusion for the fuel.
					w.diff[fs] *= mwVap * gs.InvMW[fs] * u.RhoD
					rhoD := w.diff[fs]
					sc := mu / rhoD
					bm := w.bm[spf]
					logB := math.Log(1 + bm)
					invFM := bm / (logB * math.Pow(1+bm, 0.7))
					sh0 := 1 + powR*math.Cbrt(1+re*sc)
					w.sh[spf] = 2 + (sh0-2)*invFM
					// A saturated surface has no finite mass transfer number,
					// so boiling droplets use the flash model, in which the
					// heat reaching the surface sets the external rate g.
					if tBoil := w.boilT[spf]; T > tBoil || w.yVap[spf] >= 1-CEps {
						delTb := math.Max(0, T-tBoil)
						gf := math.Pi * dia * dia * Alpha(delTb, u) * delTb / w.latent[spf]
						dh := (hgG - hgS) / w.latent[spf]
						coeff := math.Pi * lambda / cpSkin * dia * nu0
						g := FlashVaporRate(dh, coeff, gf)
						w.mDot[spf] = -math.Max(g+gf, 0)
						w.boiling[spf] = true
						w.qFlash[spf] = math.Max(g, 0) * w.latent[spf]
					} else {
						w.mDot[spf] = -math.Max(math.Pi*rhoD*dia*w.sh[spf]*logB, 0)
					}
					mDot += w.mDot[spf]
				}
				if isub == 1 {
					nsub = max(nsub, SubSteps(flowDt, -mDot/(3*pmass)))
				}
			}
		}

		invPmass := 1 / pmass
		var partMomSrc r3.Vec
		if f.Momentum {
			dragForce := 0.125 * rhoSkin * DragCoeff(re) * math.Pi * dia * dia * diffVelMag
			partMomSrc = r3.Scale(dragForce, diffVel)
			gs.MomSrc = r3.Add(gs.MomSrc, partMomSrc)
			if !f.LowMach {
				gs.EngSrc += r3.Dot(partMomSrc, vel)
			}
			if isub == 1 {
				nsub = max(nsub, SubSteps(flowDt, dragForce*invPmass))
			}
		}

		var partTempSrc float64
		if f.Heat && f.Mass && evap {
			invPmCp := invPmass / cpPart
			var coeffHeat, qFlash float64
			for spf, s := range fuel.Species {
				if Y[spf] > 0 {
					fs := s.GasIndex
					partTempSrc += w.mDot[spf] * w.latent[spf]
					if w.boiling[spf] {
						qFlash += w.qFlash[spf]
						continue
					}
					ratio := w.cp[fs] * w.sh[spf] * w.diff[fs] / lambda
					coeffHeat += HeatCoeff(ratio, w.bm[spf], BEps, CEps, nu0)
				}
			}
			convSrc := math.Pi*lambda*dia*delT*coeffHeat + qFlash
			gs.EngSrc += convSrc
			partTempSrc = (partTempSrc + convSrc) * invPmCp
			if isub == 1 && delT > CEps {
				nsub = max(nsub, SubSteps(flowDt, convSrc*invPmCp/delT))
			}
		}

		if isub == 1 {
			dt = flowDt / float64(nsub)
		}
		partDt := HalfStep * dt
		newMass := pmass + mDot*partDt
		if newMass > massEps {
			vel = r3.Add(vel, r3.Scale(partDt*invPmass, partMomSrc))
			T = limitT(T, T+partDt*partTempSrc, gs.T, Y, f.Mass && evap, w)
			var invRho float64
			for spf, s := range fuel.Species {
				Y[spf] = math.Min(1, math.Max(0, (Y[spf]*pmass+w.mDot[spf]*partDt)/newMass))
				invRho += Y[spf] / s.Rho
			}
			pmass = newMass
			dia = math.Cbrt(6 * pmass * invRho / math.Pi)
		} else {
			pmass = 0
			p.Kill()
			nsub = isub
		}
		isub++
	}

	if nsub > 1 {
		gs.EngSrc /= float64(nsub)
		gs.MomSrc = r3.Scale(1/float64(nsub), gs.MomSrc)
	}
	// Mass sources are added at the end in case a species has disappeared.
	elapsed := HalfStep * flowDt
	mDotTotal := (pmass - startMass) / elapsed
	gs.MassSrc = mDotTotal
	gs.EngSrc += 0.5 * r3.Norm2(vel) * mDotTotal
	if f.Momentum {
		gs.MomSrc = r3.Add(gs.MomSrc, r3.Scale(mDotTotal, vel))
	}
	for spf, s := range fuel.Species {
		miDot := (Y[spf]*pmass - w.y0[spf]*startMass) / elapsed
		gs.YDot[spf] = miDot
		gs.EngSrc += miDot * w.hPart[s.GasIndex]
	}

	p.Vel, p.T, p.Dia = vel, T, dia
	copy(p.Y, Y)
	return Result{NSub: nsub}
}

// limitT bounds the explicit temperature update from T to tNew. A
// parcel is not heated past the gas temperature or, when it exchanges
// mass, past the boiling temperature, and a boiling parcel is not cooled
// below its boiling temperature.
func limitT(T, tNew, tGas float64, Y []float64, mass bool, w *Work) float64 {
	if !mass {
		return math.Min(tNew, math.Max(T, tGas))
	}
	tBoilMax, tBoilMin := math.Inf(-1), math.Inf(1)
	for spf, y := range Y {
		if y <= 0 {
			continue
		}
		tBoilMax = math.Max(tBoilMax, w.boilT[spf])
		if w.boiling[spf] {
			tBoilMin = math.Min(tBoilMin, w.boilT[spf])
		}
	}
	tNew = math.Min(tNew, math.Max(T, math.Min(tGas, tBoilMax)))
	if !math.IsInf(tBoilMin, 1) {
		tNew = math.Max(tNew, math.Min(T, tBoilMin))
	}
	return tNew
}

// Transfer returns a function that advances each airborne parcel over
// half of the time step and deposits its sources onto the sampling
// stencil. It is meant to be called twice per step, before and after
// the parcels are moved, so each call deposits half of its source rate.
func Transfer(f Flags) spray.ParcelManipulator {
	pool := sync.Pool{New: func() any { return new(Work) }}
	return func(s *spray.Spray, p *spray.Parcel, l *spray.Lane) error {
		if p.IsFilm() {
			return nil
		}
		w := pool.Get().(*Work)
		defer pool.Put(w)
		Advance(s.Dt, &l.Gas, s.Fuel, s.Units, s.Props, f, p, w)
		s.Sources.Deposit(&l.Stencil, &l.Gas, HalfStep*p.Weight, s.EB)
		return nil
	}
}
