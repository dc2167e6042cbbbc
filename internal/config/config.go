package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/DoyleJ11/prize-wheel/internal/engine"
	"github.com/DoyleJ11/prize-wheel/internal/render"
)

type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	DatabaseURL     string
	WheelConfigPath string
	ShutdownTimeout time.Duration
	Wheel           Wheel
}

// Wheel holds the defaults every new wheel is created with.
type Wheel struct {
	MaxEntrants           int           `yaml:"max_entrants"`
	MinFullRotations      int           `yaml:"min_full_rotations"`
	MaxFullRotations      int           `yaml:"max_full_rotations"`
	MinDuration           time.Duration `yaml:"min_duration"`
	MaxDuration           time.Duration `yaml:"max_duration"`
	PointerAngle          float64       `yaml:"pointer_angle"`
	Palette               []string      `yaml:"palette"`
	TickInterval          time.Duration `yaml:"tick_interval"`
	LockListWhileSpinning bool          `yaml:"lock_list_while_spinning"`
	DefaultEntrants       []string      `yaml:"default_entrants"`
}

func DefaultWheel() Wheel {
	spin := engine.DefaultSpinConfig()
	return Wheel{
		MaxEntrants:           20,
		MinFullRotations:      spin.MinFullRotations,
		MaxFullRotations:      spin.MaxFullRotations,
		MinDuration:           spin.MinDuration,
		MaxDuration:           spin.MaxDuration,
		PointerAngle:          spin.PointerAngle,
		Palette:               append([]string(nil), render.DefaultColors...),
		LockListWhileSpinning: true,
		DefaultEntrants:       []string{"Player 1", "Player 2"},
	}
}

func (w Wheel) SpinConfig() engine.SpinConfig {
	return engine.SpinConfig{
		MinFullRotations: w.MinFullRotations,
		MaxFullRotations: w.MaxFullRotations,
		MinDuration:      w.MinDuration,
		MaxDuration:      w.MaxDuration,
		PointerAngle:     w.PointerAngle,
	}
}

func (w Wheel) Validate() error {
	if err := w.SpinConfig().Validate(); err != nil {
		return err
	}
	if w.MaxEntrants < 2 {
		return fmt.Errorf("%w: max_entrants must be at least 2, got %d", engine.ErrInvalidConfig, w.MaxEntrants)
	}
	if w.TickInterval < 0 {
		return fmt.Errorf("%w: tick_interval must not be negative", engine.ErrInvalidConfig)
	}
	if len(w.DefaultEntrants) > w.MaxEntrants {
		return fmt.Errorf("%w: %d default entrants exceed max_entrants %d",
			engine.ErrInvalidConfig, len(w.DefaultEntrants), w.MaxEntrants)
	}
	for i, name := range w.DefaultEntrants {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: default entrant %d is blank", engine.ErrInvalidConfig, i)
		}
	}
	if _, err := render.NewPalette(w.Palette); err != nil {
		return err
	}
	return nil
}

// ParseWheel reads YAML on top of the defaults; keys left out keep their
// default value.
func ParseWheel(data []byte) (Wheel, error) {
	w := DefaultWheel()
	if err := yaml.Unmarshal(data, &w); err != nil {
		return Wheel{}, fmt.Errorf("%w: %v", engine.ErrInvalidConfig, err)
	}
	return w, nil
}

func LoadWheel(path string) (Wheel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Wheel{}, fmt.Errorf("read wheel config: %w", err)
	}
	return ParseWheel(data)
}

// LoadDotenv loads path into the environment. A missing file is not an
// error; variables already set win.
func LoadDotenv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func Load() (Config, error) {
	if err := LoadDotenv(".env"); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	c := Config{
		HTTPAddr:        envOr("HTTP_ADDR", ":8080"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		LogFormat:       envOr("LOG_FORMAT", "json"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		WheelConfigPath: os.Getenv("WHEEL_CONFIG"),
		ShutdownTimeout: 10 * time.Second,
		Wheel:           DefaultWheel(),
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", v, err)
		}
		c.ShutdownTimeout = d
	}

	if c.WheelConfigPath != "" {
		w, err := LoadWheel(c.WheelConfigPath)
		if err != nil {
			return Config{}, err
		}
		c.Wheel = w
	}

	if v := os.Getenv("WHEEL_MAX_ENTRANTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WHEEL_MAX_ENTRANTS %q: %w", v, err)
		}
		c.Wheel.MaxEntrants = n
	}
	if v := os.Getenv("WHEEL_TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WHEEL_TICK_INTERVAL %q: %w", v, err)
		}
		c.Wheel.TickInterval = d
	}

	if err := c.Wheel.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
