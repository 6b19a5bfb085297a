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
	"math"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/spray"
	"github.com/spatialmodel/spray/internal/hash"
	"github.com/spatialmodel/spray/science/props/simpleprops"
	"github.com/spatialmodel/spray/science/sample"
	"github.com/spatialmodel/spray/science/transfer/abramzon"
	"github.com/spatialmodel/spray/science/wall/film"
	"github.com/spatialmodel/spray/science/wall/kuhnke"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

// newParcels returns empty parcel storage with the named memory layout.
func newParcels(layout string, nFuel int) (spray.Parcels, error) {
	switch layout {
	case "slice", "":
		return new(spray.ParcelSlice), nil
	case "arrays":
		return spray.NewParcelArrays(nFuel), nil
	case "ecs":
		return spray.NewParcelWorld(), nil
	default:
		return nil, fmt.Errorf("sprayutil: invalid parcel layout %q; valid options are slice, arrays and ecs", layout)
	}
}

// Transport returns the parcel calculations for one flow time step: the
// first half-step sources, the position update, wall impingement, and the
// second half-step sources at the new position.
func Transport(f abramzon.Flags, kc kuhnke.Config) spray.DomainManipulator {
	return spray.Calculations(
		sample.Gas(),
		abramzon.Transfer(f),
		film.Film(),
		spray.Advect(),
		kuhnke.Impingement(kc),
		sample.Gas(),
		abramzon.Transfer(f),
		film.Film(),
	)
}

// NewSpray builds a simulation from c using the built-in air and
// n-heptane vapor property adapter. addRun specifies functions to run at
// the end of each time step, after dead parcels have been removed.
func NewSpray(c *Config, addRun ...spray.DomainManipulator) (*spray.Spray, error) {
	props := simpleprops.Air()
	if err := props.Check(); err != nil {
		return nil, err
	}
	names := props.Names()
	if err := c.Fuel.Validate(len(names)); err != nil {
		return nil, err
	}
	c.Fuel.SetLatent(props, c.Units, len(names))
	nFuel := len(c.Fuel.Species)

	gas, err := spray.NewGasField(c.Grid, names, props.MW())
	if err != nil {
		return nil, err
	}
	Y := make([]float64, len(names))
	Y[0] = 1 - c.Gas.FuelY
	Y[c.Fuel.Species[0].GasIndex] += c.Gas.FuelY
	gas.SetUniform(c.Gas.Vel, c.Gas.T, c.Gas.Rho, Y, c.Gas.WallT)

	ps, err := newParcels(c.Layout, nFuel)
	if err != nil {
		return nil, err
	}
	s := &spray.Spray{
		Grid:    c.Grid,
		Gas:     gas,
		Sources: spray.NewSources(c.Grid, nFuel),
		Parcels: ps,
		Fuel:    c.Fuel,
		Units:   c.Units,
		Props:   props,
		Seed:    c.Seed,
	}
	if c.Wall != nil {
		s.EB = spray.PlaneWall(c.Grid, c.Wall.Point, c.Wall.Normal, c.Wall.Resolution)
	}
	weight := c.Injection.Weight
	if weight == 0 {
		weight = c.Fuel.NumPPP
	}
	s.InitFuncs = []spray.DomainManipulator{
		Inject(c.Injection, weight, c.Seed),
	}
	s.RunFuncs = append([]spray.DomainManipulator{
		spray.ResetSources(),
		spray.SetTimestepCFL(c.CFL, c.MaxDt),
		Transport(c.Physics, c.Impingement),
		spray.StepCheck(c.NumSteps),
		spray.RemoveDead(),
	}, addRun...)
	return s, nil
}

// Inject returns a function that adds in.NumParcels parcels, each
// representing weight droplets. Diameters are drawn from a log-normal
// distribution with median in.Dia and velocities are perturbed with
// normally distributed noise.
func Inject(in InjectionConfig, weight float64, seed uint64) spray.DomainManipulator {
	return func(s *spray.Spray) error {
		src := rand.NewPCG(seed, math.MaxUint64)
		dia := distuv.LogNormal{Mu: math.Log(in.Dia), Sigma: in.DiaSigma, Src: src}
		noise := distuv.Normal{Mu: 0, Sigma: in.VelSpread * r3.Norm(in.Vel), Src: src}
		for i := 0; i < in.NumParcels; i++ {
			p := spray.Parcel{
				ID:     s.NextID,
				Pos:    in.Pos,
				Vel:    in.Vel,
				T:      in.T,
				Dia:    in.Dia,
				Y:      in.Y,
				Weight: weight,
			}
			if in.DiaSigma > 0 {
				p.Dia = dia.Rand()
			}
			if noise.Sigma > 0 {
				p.Vel = r3.Add(p.Vel, r3.Vec{X: noise.Rand(), Y: noise.Rand(), Z: noise.Rand()})
			}
			s.Parcels.Append(p)
			s.NextID++
		}
		return nil
	}
}

// SaveParcels returns a function that writes the live parcels to a CSV
// file at path.
func SaveParcels(path string) spray.DomainManipulator {
	return func(s *spray.Spray) error {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("sprayutil: creating parcel output: %w", err)
		}
		if err := WriteParcels(f, s.Parcels); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
}

// Run runs a simulation with the settings in c and returns its final
// state. Log messages are written to the standard error of cmd and, if
// c.LogFile is set, to that file.
func Run(cmd *cobra.Command, c *Config) (*spray.Spray, error) {
	log := logrus.New()
	var w io.Writer = cmd.ErrOrStderr()
	if c.LogFile != "" {
		f, err := os.Create(c.LogFile)
		if err != nil {
			return nil, fmt.Errorf("sprayutil: problem creating log file: %w", err)
		}
		defer f.Close()
		w = io.MultiWriter(w, f)
	}
	log.SetOutput(w)

	var addRun []spray.DomainManipulator
	if c.StatusFile != "" {
		f, err := os.Create(c.StatusFile)
		if err != nil {
			return nil, fmt.Errorf("sprayutil: problem creating status file: %w", err)
		}
		defer f.Close()
		addRun = append(addRun, NewStatusWriter(f).Record())
	}
	addRun = append(addRun, spray.Log(log))

	s, err := NewSpray(c, addRun...)
	if err != nil {
		return nil, err
	}
	if c.OutputFile != "" {
		s.CleanupFuncs = append(s.CleanupFuncs, SaveParcels(c.OutputFile))
	}

	if err := s.Init(); err != nil {
		return s, err
	}
	log.WithFields(logrus.Fields{
		"parcels": s.Parcels.Len(),
		"layout":  c.Layout,
		"steps":   c.NumSteps,
		"config":  hash.Key(c),
	}).Info("starting spray simulation")
	if err := s.Run(); err != nil {
		return s, err
	}
	if err := s.Cleanup(); err != nil {
		return s, err
	}
	log.Info("spray simulation complete")
	return s, nil
}
