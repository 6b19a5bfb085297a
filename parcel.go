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
	"gonum.org/v1/gonum/spatial/r3"
)

// Parcel is one computational droplet representing Weight physical droplets
// of identical state. Once a parcel has hit a wall and become a film, the
// velocity and diameter slots are reused: see MakeFilm.
type Parcel struct {
	ID     int       // negative when the parcel is dead
	Pos    r3.Vec    // position
	Vel    r3.Vec    // velocity
	T      float64   // temperature, negative for wall films
	Dia    float64   // diameter
	Y      []float64 // liquid mass fraction of each fuel species
	Weight float64   // number of physical droplets
}

// Alive returns whether the parcel is still active.
func (p *Parcel) Alive() bool { return p.ID >= 0 }

// Kill marks the parcel as dead. The parcel is not removed from
// storage.
func (p *Parcel) Kill() { p.ID = -1 }

// IsFilm returns whether the parcel represents a wall film.
func (p *Parcel) IsFilm() bool { return p.T < 0 }

// FilmVolume returns the liquid volume of a wall film parcel.
func (p *Parcel) FilmVolume() float64 { return p.Vel.X }

// FilmHeight returns the height of a wall film parcel.
func (p *Parcel) FilmHeight() float64 { return p.Dia }

// FilmTemperature returns the temperature of a wall film parcel.
func (p *Parcel) FilmTemperature() float64 { return -p.T }

// MakeFilm converts p into a wall film with volume vol, height ht and
// temperature temp.
func (p *Parcel) MakeFilm(vol, ht, temp float64) {
	p.Vel = r3.Vec{X: vol}
	p.Dia = ht
	p.T = -temp
}

// CopyFrom sets p to a copy of o, reusing the storage of p.Y.
func (p *Parcel) CopyFrom(o *Parcel) {
	y := p.Y
	*p = *o
	p.Y = append(y[:0], o.Y...)
}

// Parcels is the accessor interface for parcel storage. Implementations
// may store parcels in any memory layout; Load and Store copy the state
// of parcel i into and out of a Parcel. Load and Store may be called
// concurrently for different indices.
type Parcels interface {
	Len() int
	Load(i int, p *Parcel)
	Store(i int, p *Parcel)
	Append(p ...Parcel)
}

// ParcelSlice stores parcels as an array of structs.
type ParcelSlice []Parcel

// Len implements Parcels.
func (s *ParcelSlice) Len() int { return len(*s) }

// Load implements Parcels.
func (s *ParcelSlice) Load(i int, p *Parcel) { p.CopyFrom(&(*s)[i]) }

// Store implements Parcels.
func (s *ParcelSlice) Store(i int, p *Parcel) { (*s)[i].CopyFrom(p) }

// Append implements Parcels.
func (s *ParcelSlice) Append(p ...Parcel) {
	for _, pp := range p {
		var n Parcel
		n.CopyFrom(&pp)
		*s = append(*s, n)
	}
}

// RemoveDead removes dead parcels and returns how many were removed. It is
// part of the storage layer and is never called by the physics kernels.
func (s *ParcelSlice) RemoveDead() int {
	n := 0
	for _, p := range *s {
		if p.Alive() {
			(*s)[n] = p
			n++
		}
	}
	removed := len(*s) - n
	*s = (*s)[:n]
	return removed
}

// ParcelArrays stores parcels as a struct of arrays.
type ParcelArrays struct {
	ID     []int
	Pos    []r3.Vec
	Vel    []r3.Vec
	T      []float64
	Dia    []float64
	Weight []float64
	Y      [][]float64 // [fuel species][parcel]
}

// NewParcelArrays returns empty struct-of-arrays storage for parcels
// with nFuel liquid species.
func NewParcelArrays(nFuel int) *ParcelArrays {
	return &ParcelArrays{Y: make([][]float64, nFuel)}
}

// Len implements Parcels.
func (a *ParcelArrays) Len() int { return len(a.ID) }

// Load implements Parcels.
func (a *ParcelArrays) Load(i int, p *Parcel) {
	p.ID = a.ID[i]
	p.Pos = a.Pos[i]
	p.Vel = a.Vel[i]
	p.T = a.T[i]
	p.Dia = a.Dia[i]
	p.Weight = a.Weight[i]
	p.Y = p.Y[:0]
	for _, y := range a.Y {
		p.Y = append(p.Y, y[i])
	}
}

// Store implements Parcels.
func (a *ParcelArrays) Store(i int, p *Parcel) {
	a.ID[i] = p.ID
	a.Pos[i] = p.Pos
	a.Vel[i] = p.Vel
	a.T[i] = p.T
	a.Dia[i] = p.Dia
	a.Weight[i] = p.Weight
	for n, y := range a.Y {
		y[i] = p.Y[n]
	}
}

// Append implements Parcels.
func (a *ParcelArrays) Append(p ...Parcel) {
	for _, pp := range p {
		a.ID = append(a.ID, pp.ID)
		a.Pos = append(a.Pos, pp.Pos)
		a.Vel = append(a.Vel, pp.Vel)
		a.T = append(a.T, pp.T)
		a.Dia = append(a.Dia, pp.Dia)
		a.Weight = append(a.Weight, pp.Weight)
		for n := range a.Y {
			a.Y[n] = append(a.Y[n], pp.Y[n])
		}
	}
}

// RemoveDead removes dead parcels and returns how many were removed.
func (a *ParcelArrays) RemoveDead() int {
	n := 0
	for i, id := range a.ID {
		if id < 0 {
			continue
		}
		a.ID[n], a.Pos[n], a.Vel[n] = a.ID[i], a.Pos[i], a.Vel[i]
		a.T[n], a.Dia[n], a.Weight[n] = a.T[i], a.Dia[i], a.Weight[i]
		for _, y := range a.Y {
			y[n] = y[i]
		}
		n++
	}
	removed := len(a.ID) - n
	a.ID, a.Pos, a.Vel = a.ID[:n], a.Pos[:n], a.Vel[:n]
	a.T, a.Dia, a.Weight = a.T[:n], a.Dia[:n], a.Weight[:n]
	for s := range a.Y {
		a.Y[s] = a.Y[s][:n]
	}
	return removed
}
