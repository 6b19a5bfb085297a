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

// Package isoparametric interpolates gas fields to parcel positions near
// embedded boundaries, where cell centroids do not lie on a regular
// lattice. The eight centroids around a parcel define a trilinear
// isoparametric element; the parcel's reference coordinates in that
// element give the interpolation weights.
package isoparametric

import (
	"fmt"
	"math"

	"github.com/spatialmodel/spray"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	mapTol     = 1e-3 // convergence tolerance of the inverse mapping
	mapMaxIter = 10
	vfracTol   = 0.05 // cells with smaller volume fractions get no weight
)

// element holds the coefficients of the trilinear map
// x(ξ,η,ζ) = a0 + a1ξ + a2η + a3ζ + a4ξη + a5ξζ + a6ηζ + a7ξηζ
// for nodes in lexicographic (x fastest) order.
type element [8]r3.Vec

func newElement(n [8]r3.Vec) element {
	sum := func(v ...r3.Vec) r3.Vec {
		var o r3.Vec
		for _, x := range v {
			o = r3.Add(o, x)
		}
		return o
	}
	neg := func(v r3.Vec) r3.Vec { return r3.Scale(-1, v) }
	return element{
		n[0],
		r3.Sub(n[1], n[0]),
		r3.Sub(n[2], n[0]),
		r3.Sub(n[4], n[0]),
		sum(n[0], neg(n[1]), n[3], neg(n[2])),
		sum(n[0], neg(n[1]), neg(n[4]), n[5]),
		sum(n[0], neg(n[2]), neg(n[4]), n[6]),
		sum(n[1], neg(n[3]), n[2], n[4], neg(n[5]), n[7], neg(n[6]), neg(n[0])),
	}
}

func (a element) at(xi, eta, zeta float64) r3.Vec {
	v := a[0]
	for i, f := range [7]float64{xi, eta, zeta, xi * eta, xi * zeta, eta * zeta, xi * eta * zeta} {
		v = r3.Add(v, r3.Scale(f, a[i+1]))
	}
	return v
}

// jacobian returns the columns ∂x/∂ξ, ∂x/∂η and ∂x/∂ζ.
func (a element) jacobian(xi, eta, zeta float64) (r3.Vec, r3.Vec, r3.Vec) {
	dxi := r3.Add(r3.Add(a[1], r3.Scale(eta, a[4])), r3.Add(r3.Scale(zeta, a[5]), r3.Scale(eta*zeta, a[7])))
	deta := r3.Add(r3.Add(a[2], r3.Scale(xi, a[4])), r3.Add(r3.Scale(zeta, a[6]), r3.Scale(xi*zeta, a[7])))
	dzeta := r3.Add(r3.Add(a[3], r3.Scale(xi, a[5])), r3.Add(r3.Scale(eta, a[6]), r3.Scale(xi*eta, a[7])))
	return dxi, deta, dzeta
}

// Mapping solves x(ξ,η,ζ) = pos for the reference coordinates of pos in
// the element with the given nodes, starting from the supplied guess. It
// stops after the update falls below 1e-3 or after 10 iterations and
// returns its last estimate either way.
func Mapping(pos r3.Vec, nodes [8]r3.Vec, xi, eta, zeta float64) (float64, float64, float64) {
	a := newElement(nodes)
	err := 1.
	for it := 0; err > mapTol && it < mapMaxIter; it++ {
		f := r3.Sub(a.at(xi, eta, zeta), pos)
		c0, c1, c2 := a.jacobian(xi, eta, zeta)
		det := r3.Dot(c0, r3.Cross(c1, c2))
		if det == 0 {
			break
		}
		dxi := r3.Dot(f, r3.Cross(c1, c2)) / det
		deta := r3.Dot(c0, r3.Cross(f, c2)) / det
		dzeta := r3.Dot(c0, r3.Cross(c1, f)) / det
		xi, eta, zeta = xi-dxi, eta-deta, zeta-dzeta
		err = math.Max(math.Abs(dxi), math.Max(math.Abs(deta), math.Abs(dzeta)))
	}
	return xi, eta, zeta
}

// Weights fills st with interpolation weights for a parcel at pos in
// cell ip of a grid with embedded boundary geometry eb. Near the wall,
// or when a stencil cell is not connected to ip, the stencil collapses to
// cell ip. Stencil cells with volume fractions below 0.05 get zero weight
// and the remaining weights are renormalized to sum to one.
//
// It returns spray.ErrPenetratedBoundary if the parcel is behind the wall.
func Weights(pos r3.Vec, ip [3]int, eb *spray.EBGeometry, st *spray.Stencil) error {
	g := eb.Grid
	dx := g.Dx()
	scale := func(v r3.Vec) r3.Vec { return r3.Vec{X: v.X * dx.X, Y: v.Y * dx.Y, Z: v.Z * dx.Z} }
	center := g.Center(ip)
	ccent := eb.CellCentroid(ip)

	// Parcel overlapping the cell centroid.
	if r3.Norm(r3.Sub(pos, r3.Add(center, scale(ccent)))) < epsilon {
		st.Single(ip)
		return nil
	}

	ctype := eb.CellType(ip)
	parDotEB, centDotEB := 2., 1.
	if ctype == spray.Cut {
		normal := r3.Scale(-1, eb.Normal(ip))
		bcent := eb.BoundaryCentroid(ip)
		parDotEB = r3.Dot(r3.Sub(pos, r3.Add(center, scale(bcent))), normal)
		centDotEB = r3.Dot(scale(r3.Sub(ccent, bcent)), normal)
	}
	if ctype == spray.Covered || (ctype == spray.Cut && parDotEB <= epsilon) {
		return fmt.Errorf("isoparametric: cell %v: %w", ip, spray.ErrPenetratedBoundary)
	}

	// Position relative to the cell center in cell widths, [-0.5, 0.5].
	gpos := r3.Sub(pos, center)
	var ijk [3]int
	for d := 0; d < 3; d++ {
		ijk[d] = ip[d]
		if spray.Comp(gpos, d)/spray.Comp(dx, d) >= spray.Comp(ccent, d) {
			ijk[d]++
		}
	}
	di, dj, dk := ijk[0]-ip[0], ijk[1]-ip[1], ijk[2]-ip[2]
	covered := 0
	for kk := -1; kk < 1; kk++ {
		for jj := -1; jj < 1; jj++ {
			for ii := -1; ii < 1; ii++ {
				if !eb.Connected(ip, di+ii, dj+jj, dk+kk) {
					covered++
				}
			}
		}
	}
	if covered > 0 || parDotEB < centDotEB {
		st.Single(ip)
		return nil
	}

	var nodes [8]r3.Vec
	lc := 0
	for kk := -1; kk < 1; kk++ {
		for jj := -1; jj < 1; jj++ {
			for ii := -1; ii < 1; ii++ {
				c := [3]int{ijk[0] + ii, ijk[1] + jj, ijk[2] + kk}
				st.Index[lc] = c
				nodes[lc] = r3.Add(g.Center(c), scale(eb.CellCentroid(c)))
				lc++
			}
		}
	}
	rel := r3.Sub(pos, nodes[0])
	xi, eta, zeta := Mapping(pos, nodes, rel.X/dx.X, rel.Y/dx.Y, rel.Z/dx.Z)

	var rw float64
	lc = 0
	for kk := 0; kk < 2; kk++ {
		for jj := 0; jj < 2; jj++ {
			for ii := 0; ii < 2; ii++ {
				w := lin(ii, xi) * lin(jj, eta) * lin(kk, zeta)
				// Small cells are dropped and the lost weight is spread
				// over the rest of the stencil only.
				if eb.Frac(st.Index[lc]) < vfracTol {
					w = 0
				}
				st.Weight[lc] = w
				rw += w
				lc++
			}
		}
	}
	if rw == 0 {
		st.Single(ip)
		return nil
	}
	for i := range st.Weight {
		st.Weight[i] /= rw
	}
	return nil
}

func lin(upper int, s float64) float64 {
	if upper == 1 {
		return s
	}
	return 1 - s
}

var epsilon = math.Nextafter(1, 2) - 1
