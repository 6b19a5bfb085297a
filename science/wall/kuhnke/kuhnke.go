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


// Package kuhnke resolves collisions between spray parcels and walls
// using the impingement regime map of Kuhnke (2004). Parcels rebound,
// deposit as a wall film, splash or break up, and splashing parcels emit
// secondary droplets with randomly drawn ejection angles.
package kuhnke

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/spatialmodel/spray"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

// SplashType is the outcome of a parcel hitting a wall.
type SplashType int

// Impingement outcomes.
const (
	Rebound SplashType = iota
	Deposit
	Splash
	ThermalBreakup
	NoImpact
	WallFilm
)

func (t SplashType) String() string {
	switch t {
	case Rebound:
		return "rebound"
	case Deposit:
		return "deposit"
	case Splash:
		return "splash"
	case ThermalBreakup:
		return "thermal breakup"
	case NoImpact:
		return "no impact"
	case WallFilm:
		return "wall film"
	default:
		return fmt.Sprintf("SplashType(%d)", int(t))
	}
}

// Criteria classifies an impact with splash parameter kv, wall
// superheat ratio tStar and incidence angle alpha [rad].
func Criteria(kv, tStar, alpha float64) SplashType {
	kCrit := 20 + 2*alpha/math.Pi*20
	if tStar < 1.1 {
		kCrit = 130
		if tStar < 1 {
			kCrit = 54 + 76*math.Exp(13*(tStar-1))
		}
		if kv < kCrit {
			return Deposit
		}
		return Splash
	}
	if kv < kCrit {
		return Rebound
	}
	return ThermalBreakup
}

// Tangents returns two unit vectors tangent to a wall with normal norm.
// tanPsi is perpendicular to testvec. In planar problems tanPsi is zero.
func Tangents(testvec, norm r3.Vec, planar bool) (tanBeta, tanPsi r3.Vec) {
	if planar {
		return r3.Vec{X: -norm.Y, Y: norm.X}, r3.Vec{}
	}
	tanPsi = r3.Cross(testvec, norm)
	if r3.Norm(tanPsi) < 1e-12*r3.Norm(testvec) || r3.Norm(testvec) == 0 {
		// Normal incidence: any tangent will do.
		axis := r3.Vec{X: 1}
		if math.Abs(norm.X) > 0.9 {
			axis = r3.Vec{Y: 1}
		}
		tanPsi = r3.Cross(axis, norm)
	}
	tanBeta = r3.Cross(tanPsi, norm)
	return r3.Unit(tanBeta), r3.Unit(tanPsi)
}

// Reflection describes the secondary droplets produced by a splash.
type Reflection struct {
	Pos             r3.Vec  // where secondary droplets leave the wall
	Normal          r3.Vec  // wall normal, into the fluid
	TanBeta, TanPsi r3.Vec  // wall tangents
	Dia             float64 // secondary droplet diameter
	T               float64 // secondary droplet temperature
	N               int     // secondary droplets per impacting droplet
	Unorm           float64 // secondary droplet speed
	DtPP            float64 // time left in the step after impact

	Omega, ExpOmega float64 // azimuthal angle distribution
	BetaMean        float64 // log-normal ejection angle parameters
	BetaStdev       float64
}

// Angles sets the ejection angle distribution of r for incidence angle
// alpha [rad], wall superheat ratio tStar and Weber number we.
func Angles(alpha, tStar, we float64, dry, planar bool, r *Reflection) {
	alphaD := alpha * 180 / math.Pi
	r.Omega = 0
	if alphaD <= 80 && !planar {
		r.Omega = math.Sqrt((1 + 8.872*math.Cos(1.152*alpha)) / (1 - math.Cos(alpha)))
	}
	r.ExpOmega = 1 - math.Exp(-r.Omega)
	var betaMean float64
	switch {
	case dry:
		betaMean = 9.3 + 0.22*alphaD
	case tStar > 1.1:
		betaMean = 0.225 * alphaD * math.Exp(math.Pow(0.017*alphaD-0.937, 2))
	default:
		betaMean = 0.96 * alphaD * math.Exp(-4.5e-3*we)
	}
	const stdev = 4. // degrees
	term1 := math.Log(betaMean)
	term2 := math.Log(betaMean*betaMean + stdev*stdev)
	r.BetaMean = 2*term1 - 0.5*term2
	r.BetaStdev = math.Sqrt(math.Max(-2*term1+term2, 0))
}

// Wall is a planar wall segment a parcel may have crossed.
type Wall struct {
	Cell   [3]int // cell holding the wall temperature
	Point  r3.Vec // point on the wall
	Normal r3.Vec // unit normal, into the fluid
}

// CheckWall returns the walls near a parcel in cell that was previously
// in cell prev. flags holds the per-direction boundary flags of the
// parcel position. Each crossed reflective domain face gives one wall.
// Otherwise, if eb is not nil, a parcel in a cut cell gets that cell's
// wall, and a parcel in a covered cell gets the wall of the cut cell it
// came from. A parcel in a covered cell that did not come from a cut cell
// is an error.
func CheckWall(g *spray.Grid, eb *spray.EBGeometry, flags, cell, prev [3]int) ([]Wall, error) {
	var walls []Wall
	dx := g.Dx()
	for d, f := range flags {
		if f != -1 && f != 1 {
			continue
		}
		n := spray.WithComp(r3.Vec{}, d, -float64(f))
		bcent := spray.WithComp(r3.Vec{}, d, -0.5*float64(f))
		walls = append(walls, Wall{
			Cell:   cell,
			Point:  r3.Add(g.Center(cell), mulElem(bcent, dx)),
			Normal: n,
		})
	}
	if len(walls) > 0 || eb == nil {
		return walls, nil
	}
	bloc := g.Wrap(cell)
	switch eb.CellType(bloc) {
	case spray.Regular:
		return nil, nil
	case spray.Covered:
		if eb.CellType(prev) != spray.Cut {
			return nil, fmt.Errorf("kuhnke: cell %v: %w", cell, spray.ErrOutsideEB)
		}
		bloc = g.Wrap(prev)
	}
	return []Wall{{
		Cell:   bloc,
		Point:  r3.Add(g.Center(bloc), mulElem(eb.BoundaryCentroid(bloc), dx)),
		Normal: r3.Unit(r3.Scale(-1, eb.Normal(bloc))),
	}}, nil
}

func mulElem(a, b r3.Vec) r3.Vec { return r3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z} }

// FilmHeight returns the height of a wall film of volume vol, treating
// the deposit as a dome of height delta spread into a cylinder of the
// same diameter. Deposits too small to form the dome become a cylinder
// of height delta.
func FilmHeight(vol, delta float64) float64 {
	dome := 6*vol/math.Pi - delta*delta*delta
	if !(dome > 0) {
		return delta
	}
	dia := 2 * math.Sqrt(dome/(3*delta))
	return 4 * vol / (math.Pi * dia * dia)
}

// Impose resolves parcel p against wall w at temperature tWall. It
// returns NoImpact if p is on the fluid side of the wall. Rebounding
// parcels are mirrored back into the fluid; depositing and splashing
// parcels become wall films placed just inside the fluid, and thermal
// breakup kills p. Splashes and breakups fill r with the secondary
// droplet description. A fuel with non-positive surface tension always
// rebounds.
func Impose(p *spray.Parcel, fuel *spray.FuelData, w Wall, tWall float64, dry, planar bool,
	rng *rand.Rand, r *Reflection) SplashType {

	const tolerance = 2.220446049250313e-16
	n := w.Normal
	parDot := r3.Dot(r3.Sub(p.Pos, w.Point), n)
	if parDot >= tolerance {
		return NoImpact
	}
	vel := p.Vel
	nwVp := r3.Dot(n, vel)
	if nwVp >= 0 {
		// Already leaving the wall.
		p.Pos = r3.Sub(p.Pos, r3.Scale(2*parDot, n))
		return Rebound
	}
	vpn := r3.Scale(nwVp, n)
	vpt := r3.Sub(vel, vpn)

	flag := Rebound
	sigma := fuel.Sigma
	if sigma > 0 {
		mu := fuel.Viscosity(p.Y)
		rho := fuel.Density(p.Y)
		var tStar float64
		for i, s := range fuel.Species {
			tStar += tWall * p.Y[i] / s.BoilT
		}
		dia := p.Dia
		pmass := math.Pi / 6 * rho * dia * dia * dia
		we := rho * dia * nwVp * nwVp / sigma
		reL := math.Abs(nwVp) * dia * rho / mu
		sqRe := math.Sqrt(reL)
		kv := math.Sqrt(we) * math.Pow(reL, 0.25)
		alpha := math.Asin(math.Min(1, math.Abs(nwVp)/r3.Norm(vel)))
		flag = Criteria(kv, tStar, alpha)
		// Boundary layer thickness from Pasandideh-Fard et al. (1996).
		delta := 2 * dia / sqRe
		switch flag {
		case Deposit:
			vol := pmass / rho
			p.MakeFilm(vol, FilmHeight(vol, delta), p.T)
		case Splash, ThermalBreakup:
			expon := 3.6 * (alpha / math.Pi) * (alpha / math.Pi)
			if dry {
				r.Dia = dia * 3.3 * math.Exp(expon) * math.Pow(we, -0.65)
			} else {
				r.Dia = dia * 2.2 * math.Exp(expon) * math.Pow(we, -0.36)
			}
			Angles(alpha, tStar, we, dry, planar, r)
			r.T = p.T
			splashMass := pmass
			if flag == Splash {
				b := 0.2 + 0.6*rng.Float64()
				splashMass *= math.Min(1, (tStar-0.8)/0.3*(1-b)+b)
				if vol := (pmass - splashMass) / rho; vol > 0 {
					p.MakeFilm(vol, FilmHeight(vol, delta), p.T)
				} else {
					p.Kill()
				}
			} else {
				p.Kill()
			}
			massRefl := math.Pi / 6 * rho * r.Dia * r.Dia * r.Dia
			r.N = int(splashMass / massRefl)
			const nu32 = 1.45
			sin := math.Sin(alpha)
			weOut := math.Max(0, r.Dia/dia*(we*(1-0.85*sin*sin)+12)-12/nu32)
			r.Unorm = math.Sqrt(sigma * weOut / (rho * r.Dia))
			r.DtPP = parDot / nwVp
			r.TanBeta, r.TanPsi = Tangents(r3.Scale(-1, vel), n, planar)
		}
	}
	if flag == Rebound {
		p.Pos = r3.Sub(p.Pos, r3.Scale(2*parDot, n))
		p.Vel = r3.Add(r3.Scale(-1, vpn), vpt)
		return flag
	}
	r.Normal = n
	r.Pos = r3.Sub(p.Pos, r3.Scale(parDot, n))
	p.Pos = r3.Sub(p.Pos, r3.Scale((1+1e-4)*parDot, n))
	return flag
}

// Droplet returns a secondary droplet drawn from r, representing weight
// physical droplets with liquid composition Y. The droplet is advected
// over the time remaining after the impact.
func Droplet(r *Reflection, Y []float64, weight float64, src rand.Source, planar bool) spray.Parcel {
	uni := distuv.Uniform{Min: 0, Max: 1, Src: src}
	rand1 := uni.Rand()
	beta := distuv.LogNormal{Mu: r.BetaMean, Sigma: r.BetaStdev, Src: src}.Rand() * math.Pi / 180
	var psi float64
	if !planar {
		psi = rand1 * 2 * math.Pi
	}
	// Favor the pre-splash direction at low incidence (Naber and Reitz, 1988).
	if r.Omega > 0 {
		sign := math.Copysign(1, 0.5-uni.Rand())
		psi = -sign / r.Omega * math.Log(1-rand1*r.ExpOmega) * math.Pi
	}
	un := r.Unorm * math.Sin(beta)
	utBeta := r.Unorm * math.Cos(beta) * math.Cos(psi)
	utPsi := r.Unorm * math.Cos(beta) * math.Sin(psi)
	vel := r3.Add(r3.Scale(un, r.Normal), r3.Add(r3.Scale(utBeta, r.TanBeta), r3.Scale(utPsi, r.TanPsi)))
	return spray.Parcel{
		Pos:    r3.Add(r.Pos, r3.Scale(r.DtPP, vel)),
		Vel:    vel,
		T:      r.T,
		Dia:    r.Dia,
		Y:      append([]float64(nil), Y...),
		Weight: weight,
	}
}
