package prefabs

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	LevelFile = "level.yaml"
	TruckFile = "truck.yaml"
	BuggyFile = "buggy.yaml"

	AutopilotScript = "autopilot.tengo"
)

// LoadSpec decodes a prefab by name (embedded or ./prefabs override).
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	spec, err := decode[T](filename, data)
	if err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

// LoadFile decodes an explicit path. The extension picks the format:
// .toml for TOML, anything else for YAML.
func LoadFile[T any](path string) (T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("prefabs: read %s: %w", path, err)
	}
	spec, err := decode[T](path, data)
	if err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", path, err)
	}
	return spec, nil
}

func decode[T any](name string, data []byte) (T, error) {
	var spec T
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&spec); err != nil {
			return spec, err
		}
	default:
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return spec, err
		}
	}
	return spec, nil
}

type PhysicsSpec struct {
	Gravity       float64 `yaml:"gravity" toml:"gravity"`
	Iterations    int     `yaml:"iterations" toml:"iterations"`
	FixedStepMs   float64 `yaml:"fixed_step_ms" toml:"fixed_step_ms"`
	MaxStepMs     float64 `yaml:"max_step_ms" toml:"max_step_ms"`
	SpringRate    float64 `yaml:"spring_rate" toml:"spring_rate"`
	SpringDamping float64 `yaml:"spring_damping" toml:"spring_damping"`
}

type GroundSpec struct {
	// Y is the world y of the ground's top surface.
	Y           float64 `yaml:"y" toml:"y"`
	Height      float64 `yaml:"height" toml:"height"`
	LevelWidth  float64 `yaml:"level_width" toml:"level_width"`
	Friction    float64 `yaml:"friction" toml:"friction"`
	Restitution float64 `yaml:"restitution" toml:"restitution"`
}

type ObstacleSpec struct {
	InitialCount    int     `yaml:"initial_count" toml:"initial_count"`
	FirstX          float64 `yaml:"first_x" toml:"first_x"`
	Spacing         float64 `yaml:"spacing" toml:"spacing"`
	Jitter          float64 `yaml:"jitter" toml:"jitter"`
	SizeMin         float64 `yaml:"size_min" toml:"size_min"`
	SizeMax         float64 `yaml:"size_max" toml:"size_max"`
	SpawnIntervalMs float64 `yaml:"spawn_interval_ms" toml:"spawn_interval_ms"`
	SpawnAhead      float64 `yaml:"spawn_ahead" toml:"spawn_ahead"`
	MinSpacing      float64 `yaml:"min_spacing" toml:"min_spacing"`
	MaxSpawnBurst   int     `yaml:"max_spawn_burst" toml:"max_spawn_burst"`
	Friction        float64 `yaml:"friction" toml:"friction"`
	Restitution     float64 `yaml:"restitution" toml:"restitution"`
}

type CameraSpec struct {
	LeadFraction float64 `yaml:"lead_fraction" toml:"lead_fraction"`
}

type PaletteSpec struct {
	Sky      HexColor `yaml:"sky" toml:"sky"`
	Ground   HexColor `yaml:"ground" toml:"ground"`
	Obstacle HexColor `yaml:"obstacle" toml:"obstacle"`
}

// LevelSpec is the fixed level geometry and streaming policy.
type LevelSpec struct {
	Name      string       `yaml:"name" toml:"name"`
	Physics   PhysicsSpec  `yaml:"physics" toml:"physics"`
	Ground    GroundSpec   `yaml:"ground" toml:"ground"`
	Obstacles ObstacleSpec `yaml:"obstacles" toml:"obstacles"`
	Camera    CameraSpec   `yaml:"camera" toml:"camera"`
	Palette   PaletteSpec  `yaml:"palette" toml:"palette"`
}

func LoadLevelSpec() (*LevelSpec, error) {
	spec, err := LoadSpec[LevelSpec](LevelFile)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", LevelFile, err)
	}
	return &spec, nil
}

// Validate rejects geometry the streamer cannot work with.
func (s *LevelSpec) Validate() error {
	if s == nil {
		return fmt.Errorf("level spec is nil")
	}
	o := s.Obstacles
	switch {
	case s.Ground.Height <= 0:
		return fmt.Errorf("ground.height must be positive")
	case s.Ground.LevelWidth <= 0:
		return fmt.Errorf("ground.level_width must be positive")
	case o.SizeMin <= 0 || o.SizeMax < o.SizeMin:
		return fmt.Errorf("obstacles: size range [%g,%g) is invalid", o.SizeMin, o.SizeMax)
	case o.MinSpacing <= 0:
		return fmt.Errorf("obstacles.min_spacing must be positive")
	case o.InitialCount < 0 || o.MaxSpawnBurst < 0:
		return fmt.Errorf("obstacles: counts must not be negative")
	}
	return nil
}

type BodySpec struct {
	Width       float64  `yaml:"width" toml:"width"`
	Height      float64  `yaml:"height" toml:"height"`
	Radius      float64  `yaml:"radius" toml:"radius"`
	Mass        float64  `yaml:"mass" toml:"mass"`
	Friction    float64  `yaml:"friction" toml:"friction"`
	Restitution float64  `yaml:"restitution" toml:"restitution"`
	AirFriction float64  `yaml:"air_friction" toml:"air_friction"`
	Color       HexColor `yaml:"color" toml:"color"`
}

type WheelSpec struct {
	BodySpec `yaml:",inline"`
	OffsetX  float64 `yaml:"offset_x" toml:"offset_x"`
	OffsetY  float64 `yaml:"offset_y" toml:"offset_y"`
	// AxleStiffness of 1 pins the wheel; below 1 it rides on a spring.
	AxleStiffness float64 `yaml:"axle_stiffness" toml:"axle_stiffness"`
}

// VehicleSpec describes the player's vehicle and its control tuning.
type VehicleSpec struct {
	Name            string    `yaml:"name" toml:"name"`
	Variant         string    `yaml:"variant" toml:"variant"`
	StartX          float64   `yaml:"start_x" toml:"start_x"`
	Chassis         BodySpec  `yaml:"chassis" toml:"chassis"`
	Wheels          WheelSpec `yaml:"wheels" toml:"wheels"`
	DriveForce      float64   `yaml:"drive_force" toml:"drive_force"`
	JumpVelocity    float64   `yaml:"jump_velocity" toml:"jump_velocity"`
	GroundTolerance float64   `yaml:"ground_tolerance" toml:"ground_tolerance"`
}

// VehicleFile maps a variant name to its prefab.
func VehicleFile(variant string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(variant)) {
	case "", "simple", "truck":
		return TruckFile, nil
	case "composite", "buggy":
		return BuggyFile, nil
	default:
		return "", fmt.Errorf("prefabs: unknown vehicle variant %q", variant)
	}
}

func LoadVehicleSpec(variant string) (*VehicleSpec, error) {
	file, err := VehicleFile(variant)
	if err != nil {
		return nil, err
	}
	spec, err := LoadSpec[VehicleSpec](file)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", file, err)
	}
	return &spec, nil
}

// Validate rejects vehicles that cannot be built or would be silently
// patched with defaults.
func (s *VehicleSpec) Validate() error {
	if s == nil {
		return fmt.Errorf("vehicle spec is nil")
	}
	composite := false
	switch s.Variant {
	case "", "simple":
	case "composite":
		composite = true
	default:
		return fmt.Errorf("variant %q must be simple or composite", s.Variant)
	}

	c := s.Chassis
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("chassis: width and height must be positive")
	case c.Mass < 0:
		return fmt.Errorf("chassis.mass must not be negative")
	case c.AirFriction < 0 || c.AirFriction > 1:
		return fmt.Errorf("chassis.air_friction must be within [0,1]")
	case s.DriveForce < 0:
		return fmt.Errorf("drive_force must not be negative")
	case s.GroundTolerance < 0:
		return fmt.Errorf("ground_tolerance must not be negative")
	}
	if !composite {
		return nil
	}

	wh := s.Wheels
	switch {
	case wh.Radius <= 0:
		return fmt.Errorf("wheels.radius must be positive")
	case wh.Mass < 0:
		return fmt.Errorf("wheels.mass must not be negative")
	case wh.AirFriction < 0 || wh.AirFriction > 1:
		return fmt.Errorf("wheels.air_friction must be within [0,1]")
	case wh.AxleStiffness < 0:
		return fmt.Errorf("wheels.axle_stiffness must not be negative")
	}
	return nil
}

// HexColor decodes "#RRGGBB" or "#RRGGBBAA" from YAML or TOML.
type HexColor struct {
	color.RGBA
}

func (c *HexColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	return c.UnmarshalText([]byte(value.Value))
}

func (c *HexColor) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	s := strings.TrimPrefix(raw, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", raw)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.RGBA = color.RGBA{R: r, G: g, B: b, A: a}
	return nil
}
