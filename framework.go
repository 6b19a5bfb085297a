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

// Package spray simulates liquid fuel spray parcels embedded in a gas-phase
// flow field. Physics kernels live in the science subpackages and are
// combined into a simulation using the functions in this package.
package spray

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Version gives the version number.
const Version = "0.3.0"

// Errors returned when parcel tracking has gone wrong upstream. They are
// not recoverable.
var (
	ErrPenetratedBoundary = errors.New("spray: parcel has penetrated the embedded boundary")
	ErrOutsideEB          = errors.New("spray: parcel is outside the embedded boundary")
)

// Spray holds the current state of the simulation.
type Spray struct {
	Grid    *Grid
	EB      *EBGeometry // nil if there is no embedded boundary
	Gas     *GasField
	Sources *Sources
	Parcels Parcels
	Fuel    *FuelData
	Units   Units
	Props   Properties

	Dt   float64 // time step
	Time float64 // simulation time
	Step int     // number of completed steps
	Seed uint64  // seed for random number streams

	// NextID is the ID given to the next parcel created during the
	// simulation.
	NextID int

	// InitFuncs are functions to be called in the given order
	// at the beginning of the simulation.
	InitFuncs []DomainManipulator

	// RunFuncs are functions to be called in the given order repeatedly
	// until "Done" is true. Therefore, the simulation will not end until
	// one of the RunFuncs sets "Done" to true.
	RunFuncs []DomainManipulator

	// CleanupFuncs are functions to be called in the given order
	// at the end of the simulation.
	CleanupFuncs []DomainManipulator

	// Done specifies whether the simulation is finished.
	Done bool
}

// DomainManipulator is a class of functions that operate on the entire
// simulation.
type DomainManipulator func(s *Spray) error

// ParcelManipulator is a class of functions that operate on a single
// parcel using the scratch space of the lane processing it.
type ParcelManipulator func(s *Spray, p *Parcel, l *Lane) error

// Init initializes the simulation by running s.InitFuncs.
func (s *Spray) Init() error {
	for i, f := range s.InitFuncs {
		if err := f(s); err != nil {
			return fmt.Errorf("spray: initialization function %d: %w", i, err)
		}
	}
	if s.Parcels != nil {
		var p Parcel
		for i := 0; i < s.Parcels.Len(); i++ {
			s.Parcels.Load(i, &p)
			s.NextID = max(s.NextID, p.ID+1)
		}
	}
	return nil
}

// Run carries out the simulation by running s.RunFuncs until s.Done is
// true.
func (s *Spray) Run() error {
	for !s.Done {
		for _, f := range s.RunFuncs {
			if err := f(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// Cleanup finishes the simulation by running s.CleanupFuncs.
func (s *Spray) Cleanup() error {
	for _, f := range s.CleanupFuncs {
		if err := f(s); err != nil {
			return err
		}
	}
	return nil
}

// Lane is the scratch space of one concurrent worker. A lane processes
// one parcel at a time, so its contents are only valid for the parcel
// currently passed alongside it.
type Lane struct {
	Stencil Stencil
	Gas     GasState

	// Flags holds the per-direction boundary classification from the most
	// recent sampling of the parcel position.
	Flags [3]int

	// PrevCell is the cell the parcel was in before it was last moved.
	PrevCell [3]int

	// Rand is reseeded for each parcel from the simulation seed, step and
	// parcel ID.
	Rand *rand.Rand
	pcg  *rand.PCG

	index   int // storage index of the current parcel
	spawned []spawn
}

type spawn struct {
	parent int
	p      Parcel
}

func newLane() *Lane {
	pcg := rand.NewPCG(0, 0)
	return &Lane{pcg: pcg, Rand: rand.New(pcg)}
}

// Source returns the random source of the lane, for use with
// distributions that take a rand.Source.
func (l *Lane) Source() rand.Source { return l.pcg }

func (l *Lane) begin(s *Spray, i int, p *Parcel) {
	l.index = i
	l.pcg.Seed(s.Seed+uint64(s.Step), uint64(p.ID))
}

// Emit queues a new parcel created from the current one. Queued parcels
// are added to storage after all lanes have finished.
func (l *Lane) Emit(p Parcel) {
	p.Y = append([]float64(nil), p.Y...)
	l.spawned = append(l.spawned, spawn{parent: l.index, p: p})
}
