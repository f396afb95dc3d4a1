package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLevelSpec(t *testing.T) {
	level, err := LoadLevelSpec()
	require.NoError(t, err)

	assert.Equal(t, 680.0, level.Ground.Y)
	assert.Equal(t, 40.0, level.Ground.Height)
	assert.Equal(t, 5, level.Obstacles.InitialCount)
	assert.Equal(t, 200.0, level.Obstacles.MinSpacing)
	assert.Equal(t, 3, level.Obstacles.MaxSpawnBurst)
	assert.Equal(t, color.RGBA{R: 0x87, G: 0xCE, B: 0xEB, A: 0xFF}, level.Palette.Sky.RGBA)
	assert.Equal(t, color.RGBA{R: 0x65, G: 0x43, B: 0x21, A: 0xFF}, level.Palette.Ground.RGBA)
}

func TestLoadVehicleSpec(t *testing.T) {
	truck, err := LoadVehicleSpec("simple")
	require.NoError(t, err)
	assert.Equal(t, 200.0, truck.Chassis.Width)
	assert.Equal(t, 100.0, truck.Chassis.Height)
	assert.Equal(t, -600.0, truck.JumpVelocity)

	buggy, err := LoadVehicleSpec("composite")
	require.NoError(t, err)
	assert.Equal(t, "composite", buggy.Variant)
	assert.Equal(t, 24.0, buggy.Wheels.Radius)
	assert.Equal(t, 55.0, buggy.Wheels.OffsetX)
	assert.Equal(t, 1.0, buggy.Wheels.AxleStiffness)

	_, err = LoadVehicleSpec("hovercraft")
	require.Error(t, err)
}

func TestVehicleFile(t *testing.T) {
	tests := []struct {
		variant string
		want    string
		wantErr bool
	}{
		{"", TruckFile, false},
		{"simple", TruckFile, false},
		{" Truck ", TruckFile, false},
		{"composite", BuggyFile, false},
		{"buggy", BuggyFile, false},
		{"tank", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			got, err := VehicleFile(tt.variant)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#654321", color.RGBA{R: 0x65, G: 0x43, B: 0x21, A: 0xFF}, false},
		{"8B0000", color.RGBA{R: 0x8B, A: 0xFF}, false},
		{" #11223344 ", color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}, false},
		{"#12345", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c HexColor
			err := c.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.RGBA)
		})
	}
}

func TestLoadFileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.toml")
	data := `name = "toml-flats"

[ground]
y = 500.0
height = 60.0
level_width = 10000.0

[obstacles]
size_min = 30.0
size_max = 50.0
min_spacing = 250.0
max_spawn_burst = 2

[palette]
sky = "#000080"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	level, err := LoadFile[LevelSpec](path)
	require.NoError(t, err)
	require.NoError(t, level.Validate())
	assert.Equal(t, "toml-flats", level.Name)
	assert.Equal(t, 500.0, level.Ground.Y)
	assert.Equal(t, 250.0, level.Obstacles.MinSpacing)
	assert.Equal(t, color.RGBA{B: 0x80, A: 0xFF}, level.Palette.Sky.RGBA)
}

func TestLoadFileYAMLVehicle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fast.yml")
	data := "variant: simple\nchassis:\n  width: 120\n  height: 60\n  color: \"#FF0000\"\ndrive_force: 50000\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	v, err := LoadFile[VehicleSpec](path)
	require.NoError(t, err)
	assert.Equal(t, 120.0, v.Chassis.Width)
	assert.Equal(t, 50000.0, v.DriveForce)
	assert.Equal(t, uint8(0xFF), v.Chassis.Color.R)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile[LevelSpec](filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("palette:\n  sky: [1, 2]\n"), 0o644))
	_, err = LoadFile[LevelSpec](path)
	require.Error(t, err)
}

func TestLevelSpecValidate(t *testing.T) {
	base, err := LoadLevelSpec()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*LevelSpec)
	}{
		{"ground height", func(l *LevelSpec) { l.Ground.Height = 0 }},
		{"level width", func(l *LevelSpec) { l.Ground.LevelWidth = -1 }},
		{"size range", func(l *LevelSpec) { l.Obstacles.SizeMax = l.Obstacles.SizeMin - 1 }},
		{"min spacing", func(l *LevelSpec) { l.Obstacles.MinSpacing = 0 }},
		{"burst", func(l *LevelSpec) { l.Obstacles.MaxSpawnBurst = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := *base
			tt.mutate(&l)
			assert.Error(t, l.Validate())
		})
	}

	var nilSpec *LevelSpec
	assert.Error(t, nilSpec.Validate())
}

func TestVehicleSpecValidate(t *testing.T) {
	truck, err := LoadVehicleSpec("simple")
	require.NoError(t, err)
	buggy, err := LoadVehicleSpec("composite")
	require.NoError(t, err)
	require.NoError(t, truck.Validate())
	require.NoError(t, buggy.Validate())

	tests := []struct {
		name   string
		base   *VehicleSpec
		mutate func(*VehicleSpec)
	}{
		{"variant", truck, func(v *VehicleSpec) { v.Variant = "tank" }},
		{"chassis width", truck, func(v *VehicleSpec) { v.Chassis.Width = 0 }},
		{"chassis mass", truck, func(v *VehicleSpec) { v.Chassis.Mass = -1 }},
		{"air friction", truck, func(v *VehicleSpec) { v.Chassis.AirFriction = 1.5 }},
		{"drive force", truck, func(v *VehicleSpec) { v.DriveForce = -10 }},
		{"ground tolerance", truck, func(v *VehicleSpec) { v.GroundTolerance = -5 }},
		{"wheel radius", buggy, func(v *VehicleSpec) { v.Wheels.Radius = 0 }},
		{"wheel mass", buggy, func(v *VehicleSpec) { v.Wheels.Mass = -4 }},
		{"axle stiffness", buggy, func(v *VehicleSpec) { v.Wheels.AxleStiffness = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := *tt.base
			tt.mutate(&v)
			assert.Error(t, v.Validate())
		})
	}

	// A simple vehicle ignores the wheel block.
	noWheels := *truck
	noWheels.Wheels.Radius = -1
	assert.NoError(t, noWheels.Validate())

	var nilSpec *VehicleSpec
	assert.Error(t, nilSpec.Validate())
}

func TestLoadFileVehicleFailsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("variant: simple\nchassis:\n  width: 100\n  height: 50\n  mass: -3\n"), 0o644))

	v, err := LoadFile[VehicleSpec](path)
	require.NoError(t, err)
	assert.Error(t, v.Validate())
}

func TestLoadScript(t *testing.T) {
	src, err := LoadScript(AutopilotScript)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(src), "decide"))

	again, err := LoadScript("prefabs/scripts/" + AutopilotScript)
	require.NoError(t, err)
	assert.Equal(t, src, again)

	_, err = LoadScript("missing.tengo")
	require.Error(t, err)
}
