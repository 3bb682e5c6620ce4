package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/dotfield/parameter"
	"github.com/lixenwraith/dotfield/physics"
	"github.com/lixenwraith/dotfield/terminal"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// chdir switches the working directory for the test and restores it on cleanup
// (stand-in for testing.T.Chdir, which needs Go 1.24)
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(old)) })
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, parameter.DefaultParticleCount, cfg.Particles)
	assert.Equal(t, parameter.TargetFPS, cfg.FPS)
	assert.Equal(t, terminal.KindANSI, cfg.Backend)
	assert.True(t, cfg.HUD)
	assert.False(t, cfg.Sound)
	assert.Equal(t, physics.DefaultConfig(), cfg.PhysicsConfig())
}

func TestLoad_NoSources(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLOverlay(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeFile(t, "dotfield.yaml", `
particles: 250
fps: 60
backend: tcell
physics:
  gravity_enabled: true
  damping: 0.8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Particles)
	assert.Equal(t, 60, cfg.FPS)
	assert.Equal(t, terminal.KindTcell, cfg.Backend)
	assert.True(t, cfg.Physics.GravityEnabled)
	assert.InDelta(t, 0.8, cfg.Physics.Damping, 1e-6)
	// Untouched keys keep defaults
	assert.InDelta(t, parameter.ParticleRadius, cfg.Physics.Radius, 1e-6)
	assert.True(t, cfg.HUD)
}

func TestLoad_EmptyYAML(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeFile(t, "empty.yaml", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UnknownYAMLKey(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeFile(t, "typo.yaml", "particels: 10\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeFile(t, "dotfield.yaml", "particles: 250\nfps: 60\n")
	t.Setenv("DOTFIELD_PARTICLES", "42")
	t.Setenv("DOTFIELD_GRAVITY_ENABLED", "true")
	t.Setenv("DOTFIELD_BACKEND", "TCELL")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 42, cfg.Particles)
	assert.Equal(t, 60, cfg.FPS)
	assert.True(t, cfg.Physics.GravityEnabled)
	assert.Equal(t, terminal.KindTcell, cfg.Backend)
}

func TestLoad_EnvPhysicsOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeFile(t, "dotfield.yaml", "physics:\n  min_separation_sq: 0.5\n  max_speed: 10\n")
	t.Setenv("DOTFIELD_MIN_SEPARATION_SQ", "0.25")
	t.Setenv("DOTFIELD_RADIUS", "2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.25, cfg.Physics.MinSeparationSq, 1e-6)
	assert.InDelta(t, 2, cfg.Physics.Radius, 1e-6)
	assert.InDelta(t, 10, cfg.Physics.MaxSpeed, 1e-6)
	assert.InDelta(t, 0.25, cfg.PhysicsConfig().MinSeparationSq, 1e-6)
}

func TestLoad_DotenvFile(t *testing.T) {
	chdir(t, t.TempDir())
	envFile := writeFile(t, "test.env", "DOTFIELD_FPS=15\nDOTFIELD_SEED=7\nDOTFIELD_PARTICLES=9\n")
	// Process environment wins over the file
	t.Setenv("DOTFIELD_PARTICLES", "3")

	cfg, err := Load("", envFile)
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.FPS)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 3, cfg.Particles)

	_, set := os.LookupEnv("DOTFIELD_FPS")
	assert.False(t, set, "dotenv values must not leak into the process environment")
}

func TestLoad_DefaultDotenvInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOTFIELD_HUD=false\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.HUD)
}

func TestLoad_MalformedEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DOTFIELD_FPS", "fast")
	t.Setenv("DOTFIELD_DAMPING", "lots")

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "DOTFIELD_FPS")
	assert.Contains(t, err.Error(), "DOTFIELD_DAMPING")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative particles", func(c *Config) { c.Particles = -1 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"unknown backend", func(c *Config) { c.Backend = "curses" }},
		{"zero radius", func(c *Config) { c.Physics.Radius = 0 }},
		{"negative damping", func(c *Config) { c.Physics.Damping = -0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestValidate_WrapsPhysicsError(t *testing.T) {
	cfg := Default()
	cfg.Physics.BaseEnergy = -1

	err := cfg.Validate()
	assert.ErrorIs(t, err, physics.ErrInvalidConfig)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestPhysicsConfig_GravityPointsDown(t *testing.T) {
	cfg := Default()
	cfg.Physics.Gravity = 2.5
	pc := cfg.PhysicsConfig()
	assert.Equal(t, float32(0), pc.Gravity.X)
	assert.Equal(t, float32(2.5), pc.Gravity.Y)
}
