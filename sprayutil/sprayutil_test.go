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
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/spatialmodel/spray"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestLoadFuelDefault(t *testing.T) {
	f, err := LoadFuel("")
	require.NoError(t, err)
	require.Len(t, f.Species, 1)
	s := f.Species[0]
	assert.Equal(t, "NC7H16", s.Name)
	assert.Equal(t, 1, s.GasIndex)
	assert.Equal(t, [4]float64{4.02832, 1268.636, -56.199, 1e6}, s.Psat)
	assert.NoError(t, f.Validate(2))
}

func TestLoadFuelFormats(t *testing.T) {
	dir := t.TempDir()
	want, err := LoadFuel("")
	require.NoError(t, err)

	yml := `NumPPP: 1000
RefT: 298.15
Sigma: 20.1
Species:
  - Name: NC7H16
    GasIndex: 1
    CritT: 540
    BoilT: 371.6
    Cp: 2.2483e+07
    RefLatent: 3.63e+09
    Rho: 0.6795
    Mu: 0.004
    Lambda: 13000
    Psat: [4.02832, 1268.636, -56.199, 1.0e+06]
`
	path := filepath.Join(dir, "heptane.yml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))
	have, err := LoadFuel(path)
	require.NoError(t, err)
	assert.Equal(t, want, have)

	path = filepath.Join(dir, "heptane.toml")
	require.NoError(t, os.WriteFile(path, defaultFuel, 0644))
	have, err = LoadFuel(path)
	require.NoError(t, err)
	assert.Equal(t, want, have)

	path = filepath.Join(dir, "heptane.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
	_, err = LoadFuel(path)
	assert.Error(t, err)

	_, err = LoadFuel(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func gridCfg() *viper.Viper {
	v := viper.New()
	v.Set("Grid.Lo", []float64{0, 0, 0})
	v.Set("Grid.Hi", "[2.000000,1.000000,1.000000]")
	v.Set("Grid.N", []int{8, 4, 1})
	v.Set("Grid.BoundaryLo", []string{"Open", "Reflective", "Periodic"})
	v.Set("Grid.BoundaryHi", []interface{}{"open", "wall", "periodic"})
	return v
}

func TestGridConfig(t *testing.T) {
	g, err := GridConfig(gridCfg())
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 2, Y: 1, Z: 1}, g.Hi)
	assert.Equal(t, [3]int{8, 4, 1}, g.N)
	assert.Equal(t, [3]spray.BoundaryType{spray.Open, spray.Reflective, spray.Periodic}, g.BoundaryHi)

	for name, modify := range map[string]func(v *viper.Viper){
		"zero cells":     func(v *viper.Viper) { v.Set("Grid.N", []int{8, 0, 1}) },
		"two dimensions": func(v *viper.Viper) { v.Set("Grid.N", []int{8, 4}) },
		"bad boundary":   func(v *viper.Viper) { v.Set("Grid.BoundaryLo", []string{"Open", "Sticky", "Periodic"}) },
		"one-sided":      func(v *viper.Viper) { v.Set("Grid.BoundaryLo", []string{"Open", "Reflective", "Open"}) },
		"inverted":       func(v *viper.Viper) { v.Set("Grid.Lo", []float64{3, 0, 0}) },
		"short vector":   func(v *viper.Viper) { v.Set("Grid.Hi", []float64{1, 1}) },
		"not a vector":   func(v *viper.Viper) { v.Set("Grid.Hi", "one,two,three") },
	} {
		t.Run(name, func(t *testing.T) {
			v := gridCfg()
			modify(v)
			_, err := GridConfig(v)
			assert.Error(t, err)
		})
	}
}

func TestNewParcels(t *testing.T) {
	for _, layout := range []string{"slice", "arrays", "ecs"} {
		ps, err := newParcels(layout, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, ps.Len())
	}
	_, err := newParcels("linked-list", 1)
	assert.Error(t, err)
}

func TestRecords(t *testing.T) {
	ps := &spray.ParcelSlice{
		{ID: 0, Pos: r3.Vec{X: 1}, Vel: r3.Vec{Y: 2}, T: 300, Dia: 1e-3, Y: []float64{1}, Weight: 5},
		{ID: -1, T: 300},
		{ID: 2, Pos: r3.Vec{Z: 3}, Y: []float64{1}, Weight: 5},
	}
	(*ps)[2].MakeFilm(1e-9, 2e-4, 350)
	recs := Records(ps)
	require.Len(t, recs, 2)
	assert.Equal(t, ParcelRecord{ID: 0, X: 1, V: 2, T: 300, Dia: 1e-3, Weight: 5}, recs[0])
	assert.Equal(t, ParcelRecord{ID: 2, Z: 3, T: 350, Weight: 5, Film: true, Volume: 1e-9, Height: 2e-4}, recs[1])

	var b bytes.Buffer
	require.NoError(t, WriteParcels(&b, ps))
	var back []ParcelRecord
	require.NoError(t, gocsv.UnmarshalBytes(b.Bytes(), &back))
	assert.Equal(t, recs, back)
}

func setRunConfig(t *testing.T, layout string) string {
	dir := t.TempDir()
	t.Cleanup(resetConfig)
	Cfg.Set("NumSteps", 25)
	Cfg.Set("Grid.N", []int{4, 4, 4})
	Cfg.Set("Injection.NumParcels", 20)
	Cfg.Set("Injection.Pos", []float64{0.5, 0.3, 0.5})
	// Large droplets in warm gas over a cold floor outlive the run.
	Cfg.Set("Injection.Dia", 5.0e-3)
	Cfg.Set("Gas.T", 500.0)
	Cfg.Set("Gas.WallT", 300.0)
	Cfg.Set("Layout", layout)
	Cfg.Set("OutputFile", filepath.Join(dir, "parcels.csv"))
	Cfg.Set("StatusFile", filepath.Join(dir, "status.csv"))
	Cfg.Set("LogFile", filepath.Join(dir, "spray.log"))
	return dir
}

func TestRunCommand(t *testing.T) {
	dir := setRunConfig(t, "slice")
	Root.SetArgs([]string{"run"})
	Root.SetErr(io.Discard)
	require.NoError(t, Root.Execute())

	var status []StatusRecord
	b, err := os.ReadFile(filepath.Join(dir, "status.csv"))
	require.NoError(t, err)
	require.NoError(t, gocsv.UnmarshalBytes(b, &status))
	require.Len(t, status, 25)
	assert.Equal(t, 1, status[0].Step)
	assert.Equal(t, 25, status[24].Step)
	assert.Greater(t, status[0].LiquidMass, status[24].LiquidMass+status[24].FilmMass, "fuel should evaporate")

	var parcels []ParcelRecord
	b, err = os.ReadFile(filepath.Join(dir, "parcels.csv"))
	require.NoError(t, err)
	require.NoError(t, gocsv.UnmarshalBytes(b, &parcels))
	assert.Equal(t, status[24].Live, len(parcels))

	log, err := os.ReadFile(filepath.Join(dir, "spray.log"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "spray simulation complete")
}

func TestRunLayouts(t *testing.T) {
	run := func(layout string) []ParcelRecord {
		setRunConfig(t, layout)
		c, err := LoadConfig(Cfg)
		require.NoError(t, err)
		cmd := new(cobra.Command)
		cmd.SetErr(io.Discard)
		s, err := Run(cmd, c)
		require.NoError(t, err)
		return Records(s.Parcels)
	}
	want := run("slice")
	require.NotEmpty(t, want)
	assert.Equal(t, want, run("arrays"))
	assert.Equal(t, want, run("ecs"))
}

func resetConfig() {
	Cfg.Set("Units", "CGS")
	Cfg.Set("Injection.Y", []float64{1})
	Cfg.Set("Gas.T", 800.0)
	Cfg.Set("Gas.WallT", 400.0)
	Cfg.Set("Injection.Dia", 2e-3)
}

func TestLoadConfigErrors(t *testing.T) {
	defer resetConfig()
	for name, set := range map[string]func(){
		"units":    func() { Cfg.Set("Units", "MKS") },
		"layout":   func() { Cfg.Set("Layout", "tree") },
		"species":  func() { Cfg.Set("Injection.Y", []float64{0.5, 0.5}) },
		"gas":      func() { Cfg.Set("Gas.T", -1.0) },
		"steps":    func() { Cfg.Set("NumSteps", 0) },
		"diameter": func() { Cfg.Set("Injection.Dia", 0.0) },
	} {
		t.Run(name, func(t *testing.T) {
			setRunConfig(t, "slice")
			resetConfig()
			set()
			_, err := LoadConfig(Cfg)
			assert.Error(t, err)
		})
	}
}

func TestVersion(t *testing.T) {
	var b bytes.Buffer
	Root.SetArgs([]string{"version"})
	Root.SetOut(&b)
	Root.SetErr(&b)
	require.NoError(t, Root.Execute())
	assert.Contains(t, b.String(), spray.Version)
}

func TestFuelCommand(t *testing.T) {
	var b bytes.Buffer
	Root.SetArgs([]string{"fuel"})
	Root.SetOut(&b)
	Root.SetErr(&b)
	require.NoError(t, Root.Execute())
	assert.Contains(t, b.String(), "NC7H16")
}
