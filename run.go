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
	"fmt"
	"math"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r3"
)

// Calculations returns a function that concurrently runs a series of
// calculations on all of the live parcels. The calculators are run in
// order on each parcel, stopping early if a calculator kills the parcel.
// Parcels emitted by the calculators are appended to storage, in the
// order of their parents, once all parcels have been processed.
func Calculations(calculators ...ParcelManipulator) DomainManipulator {
	nprocs := runtime.GOMAXPROCS(0) // number of processors
	lanes := make([]*Lane, nprocs)
	for i := range lanes {
		lanes[i] = newLane()
	}
	errs := make([]error, nprocs)

	return func(s *Spray) error {
		n := s.Parcels.Len()
		var wg sync.WaitGroup
		wg.Add(nprocs)
		for pp := 0; pp < nprocs; pp++ {
			go func(pp int) {
				defer wg.Done()
				l := lanes[pp]
				l.spawned = l.spawned[:0]
				errs[pp] = nil
				var p Parcel
				for ii := pp; ii < n; ii += nprocs {
					s.Parcels.Load(ii, &p)
					if !p.Alive() {
						continue
					}
					l.begin(s, ii, &p)
					for _, f := range calculators {
						if err := f(s, &p, l); err != nil {
							errs[pp] = fmt.Errorf("parcel %d: %w", p.ID, err)
							return
						}
						if !p.Alive() {
							break
						}
					}
					s.Parcels.Store(ii, &p)
				}
			}(pp)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return err
			}
		}

		var spawned []spawn
		for _, l := range lanes {
			spawned = append(spawned, l.spawned...)
		}
		slices.SortStableFunc(spawned, func(a, b spawn) int { return a.parent - b.parent })
		for _, sp := range spawned {
			sp.p.ID = s.NextID
			s.NextID++
			s.Parcels.Append(sp.p)
		}
		return nil
	}
}

// ResetSources returns a function that clears the gas-phase sources
// accumulated during the previous step.
func ResetSources() DomainManipulator {
	return func(s *Spray) error {
		s.Sources.Reset()
		return nil
	}
}

// Advect returns a function that moves each non-film parcel by its
// velocity over the time step, wrapping positions across periodic
// boundaries. The cell the parcel started in is recorded in the lane.
func Advect() ParcelManipulator {
	return func(s *Spray, p *Parcel, l *Lane) error {
		l.PrevCell = s.Grid.Cell(p.Pos)
		if p.IsFilm() {
			return nil
		}
		p.Pos = r3.Add(p.Pos, r3.Scale(s.Dt, p.Vel))
		g := s.Grid
		for d := 0; d < 3; d++ {
			if g.BoundaryLo[d] != Periodic {
				continue
			}
			lo, hi := Comp(g.Lo, d), Comp(g.Hi, d)
			x := Comp(p.Pos, d)
			x = lo + math.Mod(math.Mod(x-lo, hi-lo)+(hi-lo), hi-lo)
			p.Pos = WithComp(p.Pos, d, x)
		}
		return nil
	}
}

// SetTimestep returns a function that sets the time step to dt.
func SetTimestep(dt float64) DomainManipulator {
	return func(s *Spray) error {
		if dt <= 0 {
			return fmt.Errorf("spray: time step %g should be >0", dt)
		}
		s.Dt = dt
		return nil
	}
}

// SetTimestepCFL returns a function that sets the time step so that no
// parcel travels more than cfl cells in one step, capped at maxDt.
func SetTimestepCFL(cfl, maxDt float64) DomainManipulator {
	return func(s *Spray) error {
		dx := s.Grid.Dx()
		minDx := math.Min(dx.X, math.Min(dx.Y, dx.Z))
		var vmax float64
		var p Parcel
		for i := 0; i < s.Parcels.Len(); i++ {
			s.Parcels.Load(i, &p)
			if p.Alive() && !p.IsFilm() {
				vmax = math.Max(vmax, r3.Norm(p.Vel))
			}
		}
		s.Dt = maxDt
		if vmax > 0 {
			s.Dt = math.Min(maxDt, cfl*minDx/vmax)
		}
		return nil
	}
}

// StepCheck returns a function that advances the simulation clock and
// sets the Done flag after numSteps steps have completed.
func StepCheck(numSteps int) DomainManipulator {
	return func(s *Spray) error {
		s.Step++
		s.Time += s.Dt
		if s.Step >= numSteps {
			s.Done = true
		}
		return nil
	}
}

// RemoveDead returns a function that removes dead parcels from storage,
// if the storage supports it.
func RemoveDead() DomainManipulator {
	return func(s *Spray) error {
		if r, ok := s.Parcels.(interface{ RemoveDead() int }); ok {
			r.RemoveDead()
		}
		return nil
	}
}

// Status summarizes the parcel population.
type Status struct {
	Step        int
	Time        float64
	Live        int
	Films       int
	LiquidMass  float64 // mass of airborne liquid, weighted by parcel size
	FilmMass    float64 // mass of wall films, weighted by parcel size
	MeanDia     float64 // mean airborne parcel diameter
	MeanT       float64 // mean airborne parcel temperature
	SourceMass  float64 // domain integral of the gas mass source rate
	SourceHeat  float64 // domain integral of the gas energy source rate
	WallSeconds float64 // wall time of the last step
}

// CurrentStatus computes the status of the parcel population.
func (s *Spray) CurrentStatus() Status {
	st := Status{Step: s.Step, Time: s.Time}
	var p Parcel
	for i := 0; i < s.Parcels.Len(); i++ {
		s.Parcels.Load(i, &p)
		if !p.Alive() {
			continue
		}
		st.Live++
		if p.IsFilm() {
			st.Films++
			st.FilmMass += p.Weight * p.FilmVolume() * s.Fuel.Density(p.Y)
			continue
		}
		st.LiquidMass += p.Weight * s.Fuel.Mass(p.Dia, p.Y)
		st.MeanDia += p.Dia
		st.MeanT += p.T
	}
	if n := st.Live - st.Films; n > 0 {
		st.MeanDia /= float64(n)
		st.MeanT /= float64(n)
	}
	if s.Sources != nil {
		st.SourceMass = s.Sources.Total(s.Sources.Mass)
		st.SourceHeat = s.Sources.Total(s.Sources.Energy)
	}
	return st
}

// Log returns a function that writes simulation status messages to log.
func Log(log logrus.FieldLogger) DomainManipulator {
	stepTime := time.Now()
	return func(s *Spray) error {
		st := s.CurrentStatus()
		st.WallSeconds = time.Since(stepTime).Seconds()
		stepTime = time.Now()
		log.WithFields(logrus.Fields{
			"step":      st.Step,
			"time":      st.Time,
			"parcels":   st.Live,
			"films":     st.Films,
			"liquid":    st.LiquidMass,
			"film_mass": st.FilmMass,
			"walltime":  st.WallSeconds,
		}).Info("spray step")
		return nil
	}
}
