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
	"strings"

	"github.com/kr/pretty"
	"github.com/spatialmodel/spray"
	"github.com/spatialmodel/spray/science/props/simpleprops"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the simulation.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "FuelFile",
			usage: `
              FuelFile is the path to a TOML or YAML liquid fuel property
              table. If it is empty, a built-in n-heptane table in CGS units
              is used.`,
			shorthand:  "f",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Units",
			usage: `
              Units is the unit convention of the gas-phase solver: CGS or MKS.
              Gas, fuel and injection values are given in these units.`,
			defaultVal: "CGS",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "NumSteps",
			usage: `
              NumSteps is the number of flow time steps to run.`,
			shorthand:  "n",
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "CFL",
			usage: `
              CFL is the largest fraction of a grid cell that any parcel
              may travel in one time step.`,
			defaultVal: 0.5,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MaxDt",
			usage: `
              MaxDt is the largest allowed time step.`,
			defaultVal: 1.0e-4,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Seed",
			usage: `
              Seed initializes the random number streams used for secondary
              droplets and injection.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Layout",
			usage: `
              Layout is the memory layout of parcel storage: slice (array of
              structs), arrays (struct of arrays), or ecs (entity-component
              store).`,
			defaultVal: "slice",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path of a CSV file for the final parcel
              state. Leave empty for no output.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "StatusFile",
			usage: `
              StatusFile is the path of a CSV file for per-step status
              records. Leave empty for no output.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path of a file to copy log messages to.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.Lo",
			usage: `
              Grid.Lo is the lower corner of the domain.`,
			defaultVal: []float64{0, 0, 0},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.Hi",
			usage: `
              Grid.Hi is the upper corner of the domain.`,
			defaultVal: []float64{1, 1, 1},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.N",
			usage: `
              Grid.N is the number of cells in each direction. Use one cell
              in the Z direction for a planar simulation.`,
			defaultVal: []int{16, 16, 16},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.BoundaryLo",
			usage: `
              Grid.BoundaryLo is the type of each lower domain face:
              Periodic, Reflective or Open.`,
			defaultVal: []string{"Periodic", "Reflective", "Periodic"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Grid.BoundaryHi",
			usage: `
              Grid.BoundaryHi is the type of each upper domain face:
              Periodic, Reflective or Open.`,
			defaultVal: []string{"Periodic", "Reflective", "Periodic"},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Wall.Enabled",
			usage: `
              Wall.Enabled specifies whether to add a planar embedded wall.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Wall.Point",
			usage: `
              Wall.Point is a point on the embedded wall.`,
			defaultVal: []float64{0, 0.2, 0},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Wall.Normal",
			usage: `
              Wall.Normal is the normal of the embedded wall, pointing into
              the gas.`,
			defaultVal: []float64{0, 1, 0},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Wall.Resolution",
			usage: `
              Wall.Resolution is the number of sub-samples per cell and
              direction used to compute cut-cell volume fractions.`,
			defaultVal: 8,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Gas.Vel",
			usage: `
              Gas.Vel is the uniform gas velocity.`,
			defaultVal: []float64{0, 0, 0},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Gas.T",
			usage: `
              Gas.T is the gas temperature.`,
			defaultVal: 800.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Gas.Rho",
			usage: `
              Gas.Rho is the gas density.`,
			defaultVal: 4.4e-4,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Gas.FuelY",
			usage: `
              Gas.FuelY is the mass fraction of fuel vapor in the gas.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Gas.WallT",
			usage: `
              Gas.WallT is the temperature of walls.`,
			defaultVal: 400.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Injection.NumParcels",
			usage: `
              Injection.NumParcels is the number of parcels injected at the
              start of the simulation.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Injection.Pos",
			usage: `
              Injection.Pos is the injection location.`,
			defaultVal: []float64{0.5, 0.8, 0.5},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Injection.Vel",
			usage: `
              Injection.Vel is the mean injection velocity.`,
			defaultVal: []float64{0, -500, 0},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Injection.VelSpread",
			usage: `
              Injection.VelSpread is the standard deviation of each velocity
              component relative to the injection speed.`,
			defaultVal: 0.1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Injection.Dia",
			usage: `
              Injection.Dia is the median droplet diameter.`,
			defaultVal: 2.0e-3,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Injection.DiaSigma",
			usage: `
              Injection.DiaSigma is the shape parameter of the log-normal
              diameter distribution. Zero gives uniform droplets.`,
			defaultVal: 0.3,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Injection.T",
			usage: `
              Injection.T is the droplet temperature.`,
			defaultVal: 300.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Injection.Y",
			usage: `
              Injection.Y is the liquid mass fraction of each fuel species.`,
			defaultVal: []float64{1},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Injection.Weight",
			usage: `
              Injection.Weight is the number of physical droplets in each
              parcel. Zero uses NumPPP from the fuel table.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Physics.Mass",
			usage: `
              Physics.Mass turns on evaporation.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Physics.Momentum",
			usage: `
              Physics.Momentum turns on drag.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Physics.Heat",
			usage: `
              Physics.Heat turns on heat transfer.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Physics.LowMach",
			usage: `
              Physics.LowMach leaves the work done by drag out of the gas
              energy source.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Physics.DryWall",
			usage: `
              Physics.DryWall selects the dry-wall splashing correlations.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Physics.MaxSecondary",
			usage: `
              Physics.MaxSecondary is the largest number of secondary parcels
              created by one splash.`,
			defaultVal: 4,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	// Nested names use underscores: SPRAY_GRID_N.
	Cfg.SetEnvPrefix("SPRAY")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case []int:
				set.IntSliceP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			case []float64:
				set.Float64SliceP(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(fuelCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("sprayutil: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "spray",
	Short: "A Lagrangian fuel spray model.",
	Long: `spray tracks liquid fuel droplet parcels through a gas-phase flow field,
computing drag, heating and evaporation and resolving collisions with walls.
Use the subcommands specified below to access the model functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'SPRAY_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of spray.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("spray v%s\n", spray.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run injects droplet parcels into a uniform gas and tracks them for
NumSteps time steps.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := LoadConfig(Cfg)
		if err != nil {
			return err
		}
		_, err = Run(cmd, c)
		return err
	},
	DisableAutoGenTag: true,
}

// fuelCmd prints the liquid property table that would be used.
var fuelCmd = &cobra.Command{
	Use:   "fuel",
	Short: "Print the fuel property table",
	Long: `fuel reads and checks the liquid fuel property table specified by
FuelFile (or the built-in n-heptane table) and prints it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := LoadFuel(Cfg.GetString("FuelFile"))
		if err != nil {
			return err
		}
		if err := f.Validate(len(simpleprops.Air().Species)); err != nil {
			return err
		}
		cmd.Printf("%# v\n", pretty.Formatter(f))
		return nil
	},
	DisableAutoGenTag: true,
}
