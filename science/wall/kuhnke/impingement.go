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


package kuhnke

import (
	"math"

	"github.com/spatialmodel/spray"
	"github.com/spatialmodel/spray/science/interp/trilinear"
)

// Config holds the impingement model settings.
type Config struct {
	// DryWall selects the dry-wall secondary droplet correlations.
	DryWall bool

	// MaxSecondary is the maximum number of secondary parcels emitted by
	// one impact. Zero means one.
	MaxSecondary int
}

// Impingement returns a function that resolves wall collisions for
// parcels that have moved across a reflective domain face or into a cut
// or covered cell. Secondary droplets are emitted through the lane; they
// share the physical secondary droplet count evenly and each carries at
// least the fuel's NumPPP droplets when possible.
func Impingement(cfg Config) spray.ParcelManipulator {
	return func(s *spray.Spray, p *spray.Parcel, l *spray.Lane) error {
		if p.IsFilm() {
			return nil
		}
		g := s.Grid
		_, flags, outside := trilinear.CheckBounds(p.Pos, g)
		if outside {
			p.Kill()
			return nil
		}
		walls, err := CheckWall(g, s.EB, flags, g.Cell(p.Pos), l.PrevCell)
		if err != nil {
			return err
		}
		planar := g.N[2] == 1
		for _, w := range walls {
			var r Reflection
			tWall := s.Gas.WallT.Elements[g.Index1d(g.Wrap(w.Cell))]
			weight := p.Weight
			t := Impose(p, s.Fuel, w, tWall, cfg.DryWall, planar, l.Rand, &r)
			if t == Splash || t == ThermalBreakup {
				emit(s, l, &r, p.Y, weight, cfg, planar)
			}
			if t != Rebound && t != NoImpact {
				break
			}
		}
		return nil
	}
}

func emit(s *spray.Spray, l *spray.Lane, r *Reflection, Y []float64, weight float64, cfg Config, planar bool) {
	total := float64(r.N) * weight
	if !(total > 0) {
		return
	}
	n := int(math.Max(1, math.Min(math.Ceil(total/s.Fuel.NumPPP), float64(max(cfg.MaxSecondary, 1)))))
	w := total / float64(n)
	for i := 0; i < n; i++ {
		l.Emit(Droplet(r, Y, w, l.Source(), planar))
	}
}
