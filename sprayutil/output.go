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


package sprayutil

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/spatialmodel/spray"
)

// ParcelRecord is one row of the parcel snapshot output.
type ParcelRecord struct {
	ID     int     `csv:"id"`
	X      float64 `csv:"x"`
	Y      float64 `csv:"y"`
	Z      float64 `csv:"z"`
	U      float64 `csv:"u"`
	V      float64 `csv:"v"`
	W      float64 `csv:"w"`
	T      float64 `csv:"temperature"`
	Dia    float64 `csv:"diameter"`
	Weight float64 `csv:"weight"`
	Film   bool    `csv:"film"`
	Volume float64 `csv:"film_volume"`
	Height float64 `csv:"film_height"`
}

// Records returns a record for each live parcel. Films are written with
// their temperature, volume and height in the film columns and zero
// velocity and diameter.
func Records(ps spray.Parcels) []ParcelRecord {
	var o []ParcelRecord
	var p spray.Parcel
	for i := 0; i < ps.Len(); i++ {
		ps.Load(i, &p)
		if !p.Alive() {
			continue
		}
		r := ParcelRecord{ID: p.ID, X: p.Pos.X, Y: p.Pos.Y, Z: p.Pos.Z, Weight: p.Weight}
		if p.IsFilm() {
			r.Film = true
			r.T = p.FilmTemperature()
			r.Volume = p.FilmVolume()
			r.Height = p.FilmHeight()
		} else {
			r.U, r.V, r.W = p.Vel.X, p.Vel.Y, p.Vel.Z
			r.T = p.T
			r.Dia = p.Dia
		}
		o = append(o, r)
	}
	return o
}

// WriteParcels writes the live parcels to w as CSV.
func WriteParcels(w io.Writer, ps spray.Parcels) error {
	if err := gocsv.Marshal(Records(ps), w); err != nil {
		return fmt.Errorf("sprayutil: writing parcels: %w", err)
	}
	return nil
}

// StatusRecord is one row of the per-step status output.
type StatusRecord struct {
	Step       int     `csv:"step"`
	Time       float64 `csv:"time"`
	Live       int     `csv:"parcels"`
	Films      int     `csv:"films"`
	LiquidMass float64 `csv:"liquid_mass"`
	FilmMass   float64 `csv:"film_mass"`
	MeanDia    float64 `csv:"mean_diameter"`
	MeanT      float64 `csv:"mean_temperature"`
	SourceMass float64 `csv:"mass_source"`
	SourceHeat float64 `csv:"energy_source"`
}

// StatusWriter writes one status row per time step.
type StatusWriter struct {
	w             io.Writer
	headerWritten bool
}

// NewStatusWriter returns a writer of status rows to w.
func NewStatusWriter(w io.Writer) *StatusWriter { return &StatusWriter{w: w} }

// Record returns a function that writes the current simulation status.
func (sw *StatusWriter) Record() spray.DomainManipulator {
	return func(s *spray.Spray) error {
		st := s.CurrentStatus()
		recs := []StatusRecord{{
			Step: st.Step, Time: st.Time, Live: st.Live, Films: st.Films,
			LiquidMass: st.LiquidMass, FilmMass: st.FilmMass,
			MeanDia: st.MeanDia, MeanT: st.MeanT,
			SourceMass: st.SourceMass, SourceHeat: st.SourceHeat,
		}}
		if !sw.headerWritten {
			if err := gocsv.Marshal(recs, sw.w); err != nil {
				return fmt.Errorf("sprayutil: writing status: %w", err)
			}
			sw.headerWritten = true
			return nil
		}
		if err := gocsv.MarshalWithoutHeaders(recs, sw.w); err != nil {
			return fmt.Errorf("sprayutil: writing status: %w", err)
		}
		return nil
	}
}
