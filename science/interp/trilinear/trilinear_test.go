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


package trilinear

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/spray"
	"gonum.org/v1/gonum/spatial/r3"
)

func testGrid() *spray.Grid {
	return &spray.Grid{
		Hi:         r3.Vec{X: 1, Y: 1, Z: 1},
		N:          [3]int{4, 4, 4},
		BoundaryLo: [3]spray.BoundaryType{spray.Open, spray.Reflective, spray.Periodic},
		BoundaryHi: [3]spray.BoundaryType{spray.Open, spray.Reflective, spray.Periodic},
	}
}

func TestCheckBounds(t *testing.T) {
	g := testGrid()
	for _, test := range []struct {
		name    string
		pos     r3.Vec
		ijk     [3]int
		flags   [3]int
		outside bool
	}{
		{name: "interior", pos: r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, ijk: [3]int{2, 2, 2}},
		{name: "adjacent lo", pos: r3.Vec{X: 0.5, Y: 0.1, Z: 0.5}, ijk: [3]int{2, 1, 2}, flags: [3]int{0, AdjacentLo, 0}},
		{name: "adjacent hi", pos: r3.Vec{X: 0.5, Y: 0.9, Z: 0.5}, ijk: [3]int{2, 3, 2}, flags: [3]int{0, AdjacentHi, 0}},
		{name: "outside reflective", pos: r3.Vec{X: 0.5, Y: -0.01, Z: 0.5}, ijk: [3]int{2, 0, 2}, flags: [3]int{0, OutsideLo, 0}},
		{name: "periodic", pos: r3.Vec{X: 0.5, Y: 0.5, Z: 0.01}, ijk: [3]int{2, 2, 0}},
		{name: "outside open", pos: r3.Vec{X: 1.01, Y: 0.5, Z: 0.5}, outside: true},
	} {
		t.Run(test.name, func(t *testing.T) {
			ijk, flags, outside := CheckBounds(test.pos, g)
			if outside != test.outside {
				t.Fatalf("outside: have %v, want %v", outside, test.outside)
			}
			if outside {
				return
			}
			if ijk != test.ijk || flags != test.flags {
				t.Errorf("have %v %v, want %v %v", ijk, flags, test.ijk, test.flags)
			}
		})
	}
}

func TestWeights(t *testing.T) {
	g := testGrid()
	rng := rand.New(rand.NewPCG(1, 1))
	var st spray.Stencil
	for i := 0; i < 100; i++ {
		pos := r3.Vec{X: 0.125 + 0.75*rng.Float64(), Y: 0.125 + 0.75*rng.Float64(), Z: 0.125 + 0.75*rng.Float64()}
		ijk, flags, _ := CheckBounds(pos, g)
		Weights(ijk, Offset(pos, g), flags, &st)
		if math.Abs(st.Sum()-1) > 1e-12 {
			t.Fatalf("weights sum to %g", st.Sum())
		}
		// Linear fields are reproduced exactly.
		var x r3.Vec
		for n, w := range st.Weight {
			x = r3.Add(x, r3.Scale(w, g.Center(st.Index[n])))
		}
		if r3.Norm(r3.Sub(x, pos)) > 1e-12 {
			t.Fatalf("interpolated position %v; want %v", x, pos)
		}
	}
}

func TestWeightsAdjacent(t *testing.T) {
	g := testGrid()
	pos := r3.Vec{X: 0.4, Y: 0.05, Z: 0.6}
	ijk, flags, _ := CheckBounds(pos, g)
	var st spray.Stencil
	Weights(ijk, Offset(pos, g), flags, &st)
	if math.Abs(st.Sum()-1) > 1e-12 {
		t.Fatalf("weights sum to %g", st.Sum())
	}
	for n, w := range st.Weight {
		if w != 0 && st.Index[n][1] != 0 {
			t.Errorf("cell %v has weight %g; only the wall row should", st.Index[n], w)
		}
	}
}

func TestFaceVelocity(t *testing.T) {
	g := testGrid()
	dx := g.Dx()
	var umac [3]*sparse.DenseArray
	for d := 0; d < 3; d++ {
		s := g.N
		s[d]++
		umac[d] = sparse.ZerosDense(s[0], s[1], s[2])
	}
	// u = x on the x faces; v = 2, w = -1 everywhere.
	for i := 0; i <= g.N[0]; i++ {
		for j := 0; j < g.N[1]; j++ {
			for k := 0; k < g.N[2]; k++ {
				umac[0].Set(float64(i)*dx.X, i, j, k)
			}
		}
	}
	for i := range umac[1].Elements {
		umac[1].Elements[i] = 2
	}
	for i := range umac[2].Elements {
		umac[2].Elements[i] = -1
	}
	pos := r3.Vec{X: 0.43, Y: 0.61, Z: 0.37}
	v := FaceVelocity(Offset(pos, g), g, umac)
	want := r3.Vec{X: 0.43, Y: 2, Z: -1}
	if r3.Norm(r3.Sub(v, want)) > 1e-12 {
		t.Errorf("have %v, want %v", v, want)
	}
}
