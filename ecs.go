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
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"
)

// Components of a parcel entity.
type (
	position struct{ r3.Vec }
	velocity struct{ r3.Vec }
	droplet  struct {
		ID     int
		T, Dia float64
		Weight float64
	}
	liquid struct{ Y []float64 }
)

// ParcelWorld stores parcels as entities in an entity-component store.
// Entity order is the order in which parcels were appended.
type ParcelWorld struct {
	world    *ecs.World
	entities []ecs.Entity
	mapper   *ecs.Map4[position, velocity, droplet, liquid]
	pos      *ecs.Map[position]
	vel      *ecs.Map[velocity]
	drop     *ecs.Map[droplet]
	liq      *ecs.Map[liquid]
}

// NewParcelWorld returns an empty entity store for parcels.
func NewParcelWorld() *ParcelWorld {
	w := ecs.NewWorld()
	return &ParcelWorld{
		world:  w,
		mapper: ecs.NewMap4[position, velocity, droplet, liquid](w),
		pos:    ecs.NewMap[position](w),
		vel:    ecs.NewMap[velocity](w),
		drop:   ecs.NewMap[droplet](w),
		liq:    ecs.NewMap[liquid](w),
	}
}

// Len implements Parcels.
func (w *ParcelWorld) Len() int { return len(w.entities) }

// Load implements Parcels.
func (w *ParcelWorld) Load(i int, p *Parcel) {
	e := w.entities[i]
	d := w.drop.Get(e)
	p.ID, p.T, p.Dia, p.Weight = d.ID, d.T, d.Dia, d.Weight
	p.Pos = w.pos.Get(e).Vec
	p.Vel = w.vel.Get(e).Vec
	p.Y = append(p.Y[:0], w.liq.Get(e).Y...)
}

// Store implements Parcels.
func (w *ParcelWorld) Store(i int, p *Parcel) {
	e := w.entities[i]
	*w.drop.Get(e) = droplet{ID: p.ID, T: p.T, Dia: p.Dia, Weight: p.Weight}
	w.pos.Get(e).Vec = p.Pos
	w.vel.Get(e).Vec = p.Vel
	l := w.liq.Get(e)
	l.Y = append(l.Y[:0], p.Y...)
}

// Append implements Parcels. It must not be called concurrently with
// other methods.
func (w *ParcelWorld) Append(p ...Parcel) {
	for _, pp := range p {
		e := w.mapper.NewEntity(
			&position{pp.Pos},
			&velocity{pp.Vel},
			&droplet{ID: pp.ID, T: pp.T, Dia: pp.Dia, Weight: pp.Weight},
			&liquid{Y: append([]float64(nil), pp.Y...)},
		)
		w.entities = append(w.entities, e)
	}
}

// RemoveDead removes the entities of dead parcels from the store and
// returns how many were removed.
func (w *ParcelWorld) RemoveDead() int {
	n := 0
	for _, e := range w.entities {
		if w.drop.Get(e).ID < 0 {
			w.world.RemoveEntity(e)
			continue
		}
		w.entities[n] = e
		n++
	}
	removed := len(w.entities) - n
	w.entities = w.entities[:n]
	return removed
}
