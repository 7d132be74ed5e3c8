package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the timer skill settings.
type Config struct {
	// StateFile is where active timers are persisted between runs.
	StateFile string `yaml:"state_file" env:"STATE_FILE"`
	// Language selects the dialog catalogue, e.g. "en".
	Language string `yaml:"language" env:"LANGUAGE"`
	// ListenAddress is the gRPC control address; empty disables the server.
	ListenAddress string `yaml:"listen_addr" env:"LISTEN_ADDR"`
	// BusURL is the websocket message bus; empty keeps events in the log only.
	BusURL string `yaml:"bus_url" env:"BUS_URL"`
	// SoundFile is the WAV file played for expiry alerts.
	SoundFile string `yaml:"sound_file" env:"SOUND_FILE"`
	// Display selects the rendering surface: auto, faceplate, terminal or none.
	Display string `yaml:"display" env:"DISPLAY_MODE"`
	// CheckInterval is the expiration tick.
	CheckInterval time.Duration `yaml:"check_interval" env:"CHECK_INTERVAL"`
	// RepeatInterval is the pause between repeated alerts of an expired timer.
	RepeatInterval time.Duration `yaml:"repeat_interval" env:"REPEAT_INTERVAL"`
	// DisplayInterval is the display refresh tick.
	DisplayInterval time.Duration `yaml:"display_interval" env:"DISPLAY_INTERVAL"`
	// RotateEvery is how many refreshes a page of timers stays on screen.
	RotateEvery int `yaml:"rotate_every" env:"ROTATE_EVERY"`
	// AskTimeout bounds every question asked to the user.
	AskTimeout time.Duration `yaml:"ask_timeout" env:"ASK_TIMEOUT"`
	// MaxRounds bounds the "which timer?" loop.
	MaxRounds int `yaml:"max_rounds" env:"MAX_ROUNDS"`
	// AlarmThreshold is the duration from which an alarm is offered instead.
	AlarmThreshold time.Duration `yaml:"alarm_threshold" env:"ALARM_THRESHOLD"`
	// Muted silences every audio alert.
	Muted bool `yaml:"muted" env:"MUTED"`
	// LogLevel is the minimum log level.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
	// Timeout is the per-call timeout of the gRPC client commands.
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "timer-skill-settings.yaml"

	// DefaultStateFilename is the default filename for persisted timers.
	DefaultStateFilename = "timer-skill-state.cbor"

	// DefaultListenAddress is the default gRPC control address.
	DefaultListenAddress = "127.0.0.1:50061"

	// DefaultLanguage is the dialog catalogue used when none is configured.
	DefaultLanguage = "en"

	// DefaultCheckInterval is the default expiration tick.
	DefaultCheckInterval = time.Second

	// DefaultRepeatInterval is the default pause between repeated alerts.
	DefaultRepeatInterval = 10 * time.Second

	// DefaultDisplayInterval is the default display refresh tick.
	DefaultDisplayInterval = time.Second

	// DefaultRotateEvery is the default number of refreshes per display page.
	DefaultRotateEvery = 5

	// DefaultAskTimeout is the default time to wait for a spoken reply.
	DefaultAskTimeout = 15 * time.Second

	// DefaultMaxRounds is the default bound of the disambiguation loop.
	DefaultMaxRounds = 3

	// DefaultAlarmThreshold is the default duration from which an alarm is offered.
	DefaultAlarmThreshold = 24 * time.Hour

	// DefaultTimeout is the default duration for client calls.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for config and state files.
	DefaultFilePermissions = 0o600

	// envPrefix prefixes every environment override.
	envPrefix = "TIMER_"
)

// Display modes.
const (
	DisplayAuto      = "auto"
	DisplayFaceplate = "faceplate"
	DisplayTerminal  = "terminal"
	DisplayNone      = "none"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownDisplay is returned for an unsupported display mode.
	errUnknownDisplay = errors.New("unknown display mode")
	// errUnsupportedBusScheme is returned when the bus URL is not ws or wss.
	errUnsupportedBusScheme = errors.New("bus url must use ws or wss scheme")
)

// Defaults returns a configuration filled with built-in values.
func Defaults() *Config {
	return &Config{
		StateFile:       DefaultStateFilename,
		Language:        DefaultLanguage,
		ListenAddress:   DefaultListenAddress,
		Display:         DisplayAuto,
		CheckInterval:   DefaultCheckInterval,
		RepeatInterval:  DefaultRepeatInterval,
		DisplayInterval: DefaultDisplayInterval,
		RotateEvery:     DefaultRotateEvery,
		AskTimeout:      DefaultAskTimeout,
		MaxRounds:       DefaultMaxRounds,
		AlarmThreshold:  DefaultAlarmThreshold,
		LogLevel:        "info",
		Timeout:         DefaultTimeout,
	}
}

// Load reads configuration from the provided path, applies .env and
// environment overrides and validates the result.
// A missing file at the default path is not an error: defaults are used.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	cfg := Defaults()

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// Keep defaults.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = applyEnvironment(cfg); err != nil {
		return nil, err
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvironment overlays .env and TIMER_* variables on top of cfg.
func applyEnvironment(cfg *Config) error {
	// A missing .env file is the normal case.
	_ = godotenv.Load()

	if err := env.Parse(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	return nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills zero values with defaults.
//
//nolint:cyclop // A flat list of field checks reads better than helpers.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ListenAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", settings.ListenAddress); err != nil {
			return fmt.Errorf("invalid listen address: %w", err)
		}
	}

	if settings.BusURL != "" {
		u, err := url.ParseRequestURI(settings.BusURL)
		if err != nil {
			return fmt.Errorf("invalid bus url: %w", err)
		}

		if u.Scheme != "ws" && u.Scheme != "wss" {
			return fmt.Errorf("%w: %q", errUnsupportedBusScheme, settings.BusURL)
		}
	}

	settings.Display = strings.ToLower(strings.TrimSpace(settings.Display))
	switch settings.Display {
	case "":
		settings.Display = DisplayAuto
	case DisplayAuto, DisplayFaceplate, DisplayTerminal, DisplayNone:
	default:
		return fmt.Errorf("%w: %q", errUnknownDisplay, settings.Display)
	}

	if settings.StateFile == "" {
		settings.StateFile = DefaultStateFilename
	}

	if settings.Language == "" {
		settings.Language = DefaultLanguage
	}

	if settings.CheckInterval <= 0 {
		settings.CheckInterval = DefaultCheckInterval
	}

	if settings.RepeatInterval <= 0 {
		settings.RepeatInterval = DefaultRepeatInterval
	}

	if settings.DisplayInterval <= 0 {
		settings.DisplayInterval = DefaultDisplayInterval
	}

	if settings.RotateEvery <= 0 {
		settings.RotateEvery = DefaultRotateEvery
	}

	if settings.AskTimeout <= 0 {
		settings.AskTimeout = DefaultAskTimeout
	}

	if settings.MaxRounds <= 0 {
		settings.MaxRounds = DefaultMaxRounds
	}

	if settings.AlarmThreshold <= 0 {
		settings.AlarmThreshold = DefaultAlarmThreshold
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	return nil
}
