package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/prize-wheel/internal/engine"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("WHEEL_CONFIG", "")
	t.Setenv("WHEEL_MAX_ENTRANTS", "")
	t.Setenv("WHEEL_TICK_INTERVAL", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.Equal(t, DefaultWheel(), c.Wheel)
	assert.Equal(t, engine.DefaultSpinConfig(), c.Wheel.SpinConfig())
	assert.Equal(t, []string{"Player 1", "Player 2"}, c.Wheel.DefaultEntrants)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("WHEEL_CONFIG", "")
	t.Setenv("WHEEL_MAX_ENTRANTS", "12")
	t.Setenv("WHEEL_TICK_INTERVAL", "50ms")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", c.HTTPAddr)
	assert.Equal(t, 12, c.Wheel.MaxEntrants)
	assert.Equal(t, 50*time.Millisecond, c.Wheel.TickInterval)
	assert.Equal(t, 3*time.Second, c.ShutdownTimeout)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("WHEEL_CONFIG", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "")
	t.Setenv("WHEEL_TICK_INTERVAL", "")
	t.Setenv("WHEEL_MAX_ENTRANTS", "many")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("WHEEL_MAX_ENTRANTS", "1")
	_, err = Load()
	require.ErrorIs(t, err, engine.ErrInvalidConfig)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_entrants: 8
min_full_rotations: 2
max_full_rotations: 4
min_duration: 1500ms
max_duration: 2s
lock_list_while_spinning: false
palette: ["#000000", "#ffffff"]
default_entrants: [Ann, Bob, Cy]
`), 0o600))

	t.Setenv("WHEEL_CONFIG", path)
	t.Setenv("WHEEL_MAX_ENTRANTS", "")
	t.Setenv("WHEEL_TICK_INTERVAL", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "")

	c, err := Load()
	require.NoError(t, err)
	w := c.Wheel
	assert.Equal(t, 8, w.MaxEntrants)
	assert.Equal(t, 2, w.MinFullRotations)
	assert.Equal(t, 4, w.MaxFullRotations)
	assert.Equal(t, 1500*time.Millisecond, w.MinDuration)
	assert.Equal(t, 2*time.Second, w.MaxDuration)
	assert.False(t, w.LockListWhileSpinning)
	assert.Equal(t, []string{"#000000", "#ffffff"}, w.Palette)
	assert.Equal(t, []string{"Ann", "Bob", "Cy"}, w.DefaultEntrants)
	// Not in the file, so the default stands.
	assert.Equal(t, engine.PointerTop, w.PointerAngle)
}

func TestLoadWheel_MissingFile(t *testing.T) {
	_, err := LoadWheel(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParseWheel_Malformed(t *testing.T) {
	_, err := ParseWheel([]byte("max_entrants: [1"))
	require.ErrorIs(t, err, engine.ErrInvalidConfig)
}

func TestWheelValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Wheel)
	}{
		{"max below two", func(w *Wheel) { w.MaxEntrants = 1 }},
		{"rotations inverted", func(w *Wheel) { w.MinFullRotations, w.MaxFullRotations = 5, 4 }},
		{"zero duration", func(w *Wheel) { w.MinDuration = 0 }},
		{"pointer out of range", func(w *Wheel) { w.PointerAngle = 360 }},
		{"negative tick", func(w *Wheel) { w.TickInterval = -time.Second }},
		{"too many defaults", func(w *Wheel) { w.MaxEntrants = 2; w.DefaultEntrants = []string{"a", "b", "c"} }},
		{"blank default", func(w *Wheel) { w.DefaultEntrants = []string{"a", "  "} }},
		{"bad palette", func(w *Wheel) { w.Palette = []string{"teal-ish"} }},
		{"empty palette", func(w *Wheel) { w.Palette = nil }},
	}

	require.NoError(t, DefaultWheel().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := DefaultWheel()
			tt.mutate(&w)
			require.ErrorIs(t, w.Validate(), engine.ErrInvalidConfig)
		})
	}
}

func TestLoadDotenv(t *testing.T) {
	require.NoError(t, LoadDotenv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PRIZE_WHEEL_TEST_KEY=hello\n"), 0o600))
	t.Setenv("PRIZE_WHEEL_TEST_KEY", "")
	os.Unsetenv("PRIZE_WHEEL_TEST_KEY")

	require.NoError(t, LoadDotenv(path))
	assert.Equal(t, "hello", os.Getenv("PRIZE_WHEEL_TEST_KEY"))
}
