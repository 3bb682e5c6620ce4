// Package config resolves run settings from defaults, a YAML file, .env, and the environment
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/dotfield/parameter"
	"github.com/lixenwraith/dotfield/physics"
	"github.com/lixenwraith/dotfield/terminal"
	"github.com/lixenwraith/dotfield/vmath"
)

// EnvPrefix namespaces every environment override
const EnvPrefix = "DOTFIELD_"

// ErrInvalid wraps every validation and parse failure
var ErrInvalid = errors.New("invalid config")

// Config is the full set of run settings
type Config struct {
	Particles int           `yaml:"particles"`
	FPS       int           `yaml:"fps"`
	Seed      uint64        `yaml:"seed"` // 0 picks a time-based seed
	Backend   terminal.Kind `yaml:"backend"`
	Sound     bool          `yaml:"sound"`
	Debug     bool          `yaml:"debug"`
	HUD       bool          `yaml:"hud"`
	Physics   Physics       `yaml:"physics"`
}

// Physics mirrors physics.Config in file form; gravity is a downward magnitude
type Physics struct {
	Radius          float32 `yaml:"radius"`
	GravityEnabled  bool    `yaml:"gravity_enabled"`
	Gravity         float32 `yaml:"gravity"`
	Damping         float32 `yaml:"damping"`
	BaseEnergy      float32 `yaml:"base_energy"`
	MaxSpeed        float32 `yaml:"max_speed"`
	MinSeparationSq float32 `yaml:"min_separation_sq"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Particles: parameter.DefaultParticleCount,
		FPS:       parameter.TargetFPS,
		Backend:   terminal.KindANSI,
		HUD:       true,
		Physics: Physics{
			Radius:          parameter.ParticleRadius,
			Gravity:         parameter.GravityY,
			Damping:         parameter.WallDamping,
			BaseEnergy:      parameter.BaseEnergy,
			MaxSpeed:        parameter.MaxSpeed,
			MinSeparationSq: parameter.MinSeparationSq,
		},
	}
}

// Load layers defaults, the YAML file at path (skipped when empty), then env overrides
// envFiles are read with godotenv; variables already in the process environment win
// With no envFiles, ".env" is read if present
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := cfg.decodeYAML(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	dotenv, err := readDotenv(envFiles)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(envLookup(dotenv)); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeYAML(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty file keeps defaults
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func readDotenv(files []string) (map[string]string, error) {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil, nil
		}
		files = []string{".env"}
	}
	env, err := godotenv.Read(files...)
	if err != nil {
		return nil, fmt.Errorf("read env files: %w", err)
	}
	return env, nil
}

// envLookup prefers the process environment over dotenv values
func envLookup(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s%s=%q: %v", ErrInvalid, EnvPrefix, name, v, err))
				return
			}
			*dst = n
		}
	}
	uinteger := func(name string, dst *uint64) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s%s=%q: %v", ErrInvalid, EnvPrefix, name, v, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s%s=%q: %v", ErrInvalid, EnvPrefix, name, v, err))
				return
			}
			*dst = b
		}
	}
	float := func(name string, dst *float32) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			f, err := strconv.ParseFloat(v, 32)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s%s=%q: %v", ErrInvalid, EnvPrefix, name, v, err))
				return
			}
			*dst = float32(f)
		}
	}

	integer("PARTICLES", &c.Particles)
	integer("FPS", &c.FPS)
	uinteger("SEED", &c.Seed)
	backend := string(c.Backend)
	str("BACKEND", &backend)
	c.Backend = terminal.Kind(strings.ToLower(backend))
	boolean("SOUND", &c.Sound)
	boolean("DEBUG", &c.Debug)
	boolean("HUD", &c.HUD)
	float("RADIUS", &c.Physics.Radius)
	boolean("GRAVITY_ENABLED", &c.Physics.GravityEnabled)
	float("GRAVITY", &c.Physics.Gravity)
	float("DAMPING", &c.Physics.Damping)
	float("BASE_ENERGY", &c.Physics.BaseEnergy)
	float("MAX_SPEED", &c.Physics.MaxSpeed)
	float("MIN_SEPARATION_SQ", &c.Physics.MinSeparationSq)

	return errors.Join(errs...)
}

// Validate checks run settings and the physics constants
func (c *Config) Validate() error {
	switch {
	case c.Particles < 0:
		return fmt.Errorf("%w: particles must be non-negative, got %d", ErrInvalid, c.Particles)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.FPS)
	case c.Backend != terminal.KindANSI && c.Backend != terminal.KindTcell:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	}
	if err := c.PhysicsConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// PhysicsConfig converts the file form to the simulation's immutable config
func (c *Config) PhysicsConfig() physics.Config {
	return physics.Config{
		Radius:          c.Physics.Radius,
		Gravity:         vmath.V2(0, c.Physics.Gravity),
		GravityEnabled:  c.Physics.GravityEnabled,
		Damping:         c.Physics.Damping,
		BaseEnergy:      c.Physics.BaseEnergy,
		MaxSpeed:        c.Physics.MaxSpeed,
		MinSeparationSq: c.Physics.MinSeparationSq,
	}
}
