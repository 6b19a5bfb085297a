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
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/spray"
	"github.com/spatialmodel/spray/science/transfer/abramzon"
	"github.com/spatialmodel/spray/science/wall/kuhnke"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

//go:embed heptane.toml
var defaultFuel []byte

// Config holds the settings of one simulation.
type Config struct {
	Grid      *spray.Grid
	Wall      *WallConfig // nil if there is no embedded wall
	Gas       GasConfig
	Injection InjectionConfig
	Fuel      *spray.FuelData
	Units     spray.Units

	Physics     abramzon.Flags
	Impingement kuhnke.Config

	NumSteps   int
	CFL, MaxDt float64
	Seed       uint64
	Layout     string

	OutputFile, StatusFile, LogFile string
}

// WallConfig specifies a planar embedded wall.
type WallConfig struct {
	Point, Normal r3.Vec
	Resolution    int
}

// GasConfig specifies the uniform initial gas state, in solver units.
type GasConfig struct {
	Vel   r3.Vec
	T     float64
	Rho   float64
	FuelY float64 // mass fraction of fuel vapor
	WallT float64
}

// InjectionConfig specifies the initial parcels.
type InjectionConfig struct {
	NumParcels int
	Pos, Vel   r3.Vec
	VelSpread  float64 // standard deviation of velocity components, relative to |Vel|
	Dia        float64 // median diameter
	DiaSigma   float64 // log-normal shape; zero for monodisperse
	T          float64
	Y          []float64
	Weight     float64 // physical droplets per parcel; zero for the fuel default
}

// LoadConfig reads the simulation settings from cfg.
func LoadConfig(cfg *viper.Viper) (*Config, error) {
	c := &Config{
		NumSteps:   cfg.GetInt("NumSteps"),
		CFL:        cfg.GetFloat64("CFL"),
		MaxDt:      cfg.GetFloat64("MaxDt"),
		Seed:       uint64(cfg.GetInt64("Seed")),
		Layout:     strings.ToLower(cfg.GetString("Layout")),
		OutputFile: os.ExpandEnv(cfg.GetString("OutputFile")),
		StatusFile: os.ExpandEnv(cfg.GetString("StatusFile")),
		LogFile:    os.ExpandEnv(cfg.GetString("LogFile")),
		Physics: abramzon.Flags{
			Mass:     cfg.GetBool("Physics.Mass"),
			Momentum: cfg.GetBool("Physics.Momentum"),
			Heat:     cfg.GetBool("Physics.Heat"),
			LowMach:  cfg.GetBool("Physics.LowMach"),
		},
		Impingement: kuhnke.Config{
			DryWall:      cfg.GetBool("Physics.DryWall"),
			MaxSecondary: cfg.GetInt("Physics.MaxSecondary"),
		},
	}
	if c.NumSteps < 1 {
		return nil, fmt.Errorf("sprayutil: NumSteps=%d but should be >0", c.NumSteps)
	}
	if c.CFL <= 0 || c.MaxDt <= 0 {
		return nil, fmt.Errorf("sprayutil: CFL=%g and MaxDt=%g but both should be >0", c.CFL, c.MaxDt)
	}
	if _, err := newParcels(c.Layout, 1); err != nil {
		return nil, err
	}

	var err error
	if c.Units, err = spray.ParseUnits(cfg.GetString("Units")); err != nil {
		return nil, err
	}
	fuelFile := os.ExpandEnv(cfg.GetString("FuelFile"))
	if fuelFile == "" && c.Units != spray.CGSUnits() {
		return nil, fmt.Errorf("sprayutil: the default fuel table is in CGS units; specify FuelFile to use %s units", cfg.GetString("Units"))
	}
	if c.Fuel, err = LoadFuel(fuelFile); err != nil {
		return nil, err
	}
	if c.Grid, err = GridConfig(cfg); err != nil {
		return nil, err
	}
	if c.Wall, err = wallConfig(cfg); err != nil {
		return nil, err
	}
	if c.Gas, err = gasConfig(cfg); err != nil {
		return nil, err
	}
	if c.Injection, err = injectionConfig(cfg, len(c.Fuel.Species)); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFuel reads a fuel property table from a TOML or YAML file, chosen
// by file extension. If path is empty the built-in n-heptane table is
// returned.
func LoadFuel(path string) (*spray.FuelData, error) {
	f := new(spray.FuelData)
	if path == "" {
		if err := toml.Unmarshal(defaultFuel, f); err != nil {
			return nil, fmt.Errorf("sprayutil: parsing default fuel table: %w", err)
		}
		return f, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sprayutil: reading fuel table: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(b, f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, f)
	default:
		return nil, fmt.Errorf("sprayutil: fuel table %s has extension %q; valid options are .toml, .yaml and .yml", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("sprayutil: parsing fuel table %s: %w", path, err)
	}
	return f, nil
}

// GridConfig reads the mesh settings from cfg.
func GridConfig(cfg *viper.Viper) (*spray.Grid, error) {
	g := new(spray.Grid)
	var err error
	if g.Lo, err = vec(cfg, "Grid.Lo"); err != nil {
		return nil, err
	}
	if g.Hi, err = vec(cfg, "Grid.Hi"); err != nil {
		return nil, err
	}
	n, err := cast.ToIntSliceE(fields(cfg.Get("Grid.N")))
	if err != nil || len(n) != 3 {
		return nil, fmt.Errorf("parsing grid configuration: Grid.N=%v should be three integers", cfg.Get("Grid.N"))
	}
	copy(g.N[:], n)
	for _, b := range []struct {
		name string
		dst  *[3]spray.BoundaryType
	}{{"Grid.BoundaryLo", &g.BoundaryLo}, {"Grid.BoundaryHi", &g.BoundaryHi}} {
		s, err := cast.ToStringSliceE(fields(cfg.Get(b.name)))
		if err != nil || len(s) != 3 {
			return nil, fmt.Errorf("parsing grid configuration: %s=%v should be three boundary types", b.name, cfg.Get(b.name))
		}
		for d, v := range s {
			if b.dst[d], err = parseBoundary(v); err != nil {
				return nil, fmt.Errorf("parsing grid configuration: %s: %w", b.name, err)
			}
		}
	}
	if err := g.Check(); err != nil {
		return nil, fmt.Errorf("parsing grid configuration: %w", err)
	}
	return g, nil
}

func parseBoundary(s string) (spray.BoundaryType, error) {
	switch strings.ToLower(s) {
	case "periodic":
		return spray.Periodic, nil
	case "reflective", "wall":
		return spray.Reflective, nil
	case "open", "outflow":
		return spray.Open, nil
	default:
		return 0, fmt.Errorf("invalid boundary type %q; valid options are Periodic, Reflective and Open", s)
	}
}

func wallConfig(cfg *viper.Viper) (*WallConfig, error) {
	if !cfg.GetBool("Wall.Enabled") {
		return nil, nil
	}
	w := &WallConfig{Resolution: cfg.GetInt("Wall.Resolution")}
	var err error
	if w.Point, err = vec(cfg, "Wall.Point"); err != nil {
		return nil, err
	}
	if w.Normal, err = vec(cfg, "Wall.Normal"); err != nil {
		return nil, err
	}
	if r3.Norm(w.Normal) == 0 {
		return nil, fmt.Errorf("parsing wall configuration: Wall.Normal should not be zero")
	}
	if w.Resolution < 1 {
		return nil, fmt.Errorf("parsing wall configuration: Wall.Resolution=%d but should be >0", w.Resolution)
	}
	return w, nil
}

func gasConfig(cfg *viper.Viper) (GasConfig, error) {
	g := GasConfig{
		T:     cfg.GetFloat64("Gas.T"),
		Rho:   cfg.GetFloat64("Gas.Rho"),
		FuelY: cfg.GetFloat64("Gas.FuelY"),
		WallT: cfg.GetFloat64("Gas.WallT"),
	}
	var err error
	if g.Vel, err = vec(cfg, "Gas.Vel"); err != nil {
		return g, err
	}
	switch {
	case g.T <= 0:
		return g, fmt.Errorf("parsing gas configuration: Gas.T=%g but should be >0", g.T)
	case g.Rho <= 0:
		return g, fmt.Errorf("parsing gas configuration: Gas.Rho=%g but should be >0", g.Rho)
	case g.FuelY < 0 || g.FuelY > 1:
		return g, fmt.Errorf("parsing gas configuration: Gas.FuelY=%g but should be in [0,1]", g.FuelY)
	case g.WallT <= 0:
		return g, fmt.Errorf("parsing gas configuration: Gas.WallT=%g but should be >0", g.WallT)
	}
	return g, nil
}

func injectionConfig(cfg *viper.Viper, nFuel int) (InjectionConfig, error) {
	in := InjectionConfig{
		NumParcels: cfg.GetInt("Injection.NumParcels"),
		VelSpread:  cfg.GetFloat64("Injection.VelSpread"),
		Dia:        cfg.GetFloat64("Injection.Dia"),
		DiaSigma:   cfg.GetFloat64("Injection.DiaSigma"),
		T:          cfg.GetFloat64("Injection.T"),
		Weight:     cfg.GetFloat64("Injection.Weight"),
	}
	var err error
	if in.Pos, err = vec(cfg, "Injection.Pos"); err != nil {
		return in, err
	}
	if in.Vel, err = vec(cfg, "Injection.Vel"); err != nil {
		return in, err
	}
	if in.Y, err = cast.ToFloat64SliceE(fields(cfg.Get("Injection.Y"))); err != nil {
		return in, fmt.Errorf("parsing injection configuration: Injection.Y: %w", err)
	}
	var sum float64
	for _, y := range in.Y {
		sum += y
	}
	switch {
	case in.NumParcels < 0:
		return in, fmt.Errorf("parsing injection configuration: Injection.NumParcels=%d but should be >=0", in.NumParcels)
	case in.Dia <= 0:
		return in, fmt.Errorf("parsing injection configuration: Injection.Dia=%g but should be >0", in.Dia)
	case in.T <= 0:
		return in, fmt.Errorf("parsing injection configuration: Injection.T=%g but should be >0", in.T)
	case in.DiaSigma < 0 || in.VelSpread < 0 || in.Weight < 0:
		return in, fmt.Errorf("parsing injection configuration: Injection.DiaSigma, Injection.VelSpread and Injection.Weight should not be negative")
	case len(in.Y) != nFuel:
		return in, fmt.Errorf("parsing injection configuration: Injection.Y has %d elements but the fuel has %d species", len(in.Y), nFuel)
	case sum < 0.999 || sum > 1.001:
		return in, fmt.Errorf("parsing injection configuration: Injection.Y sums to %g but should sum to 1", sum)
	}
	return in, nil
}

// vec reads a three-component vector option.
func vec(cfg *viper.Viper, name string) (r3.Vec, error) {
	v, err := cast.ToFloat64SliceE(fields(cfg.Get(name)))
	if err != nil || len(v) != 3 {
		return r3.Vec{}, fmt.Errorf("sprayutil: %s=%v should be three numbers", name, cfg.Get(name))
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

// fields splits list options that arrive as strings, from environment
// variables or from flag values such as "[0.000000,1.000000]", into
// their elements.
func fields(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return v
	}
	return strings.FieldsFunc(strings.Trim(s, "[]"), func(r rune) bool {
		return r == ',' || r == ' '
	})
}
