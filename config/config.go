package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// DisplayKind selects the beat display and input collaborators
type DisplayKind string

const (
	DisplayAuto     DisplayKind = "auto"
	DisplaySenseHat DisplayKind = "sensehat"
	DisplayTerminal DisplayKind = "terminal"
	DisplayLaunch   DisplayKind = "launchpad"
	DisplayNone     DisplayKind = "none"
)

// SerialConfig defines a DIN MIDI output on a UART
type SerialConfig struct {
	Device string `json:"device"`
	Baud   int    `json:"baud,omitempty"`
}

// OutputsConfig decides which MIDI outputs receive the clock
type OutputsConfig struct {
	Ports   []string       `json:"ports,omitempty"`   // name substrings, explicit
	Indexes []int          `json:"indexes,omitempty"` // port numbers, explicit
	Prefer  []string       `json:"prefer,omitempty"`
	Exclude []string       `json:"exclude,omitempty"`
	Serial  []SerialConfig `json:"serial,omitempty"`
}

// ClockConfig stores the initial tempo and scheduling mode
type ClockConfig struct {
	Tempo    float64 `json:"tempo,omitempty"`
	Deadline bool    `json:"deadline,omitempty"`
}

// DisplayConfig stores display preferences
type DisplayConfig struct {
	Kind       DisplayKind `json:"kind,omitempty"`
	RefreshMs  int         `json:"refreshMs,omitempty"`
	Continuous bool        `json:"continuous"`
	Palette    string      `json:"palette,omitempty"` // GIMP .gpl file for the terminal view
}

// DebugConfig controls logging
type DebugConfig struct {
	LogFile string `json:"logFile,omitempty"`
	Level   string `json:"level,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Outputs OutputsConfig `json:"outputs"`
	Clock   ClockConfig   `json:"clock"`
	Display DisplayConfig `json:"display"`
	Debug   DebugConfig   `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Outputs: OutputsConfig{
			Prefer:  []string{"MIDIMATE", "ESI"},
			Exclude: []string{"Midi Through", "Launchpad"},
		},
		Clock: ClockConfig{
			Tempo: 120,
		},
		Display: DisplayConfig{
			Kind:       DisplayAuto,
			RefreshMs:  50,
			Continuous: true,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "midiclock"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Keys missing from the file keep their defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.Display.Kind == "" {
		c.Display.Kind = DisplayAuto
	}
	if c.Display.RefreshMs <= 0 {
		c.Display.RefreshMs = 50
	}
	if c.Clock.Tempo == 0 {
		c.Clock.Tempo = 120
	}
}

// Save writes the config to its default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating the directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(path))
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return errors.Wrapf(os.WriteFile(path, data, 0644), "write %s", path)
}

// Validate rejects settings the program cannot act on
func (c *Config) Validate() error {
	switch c.Display.Kind {
	case DisplayAuto, DisplaySenseHat, DisplayTerminal, DisplayLaunch, DisplayNone:
	default:
		return errors.Errorf("unknown display kind %q", c.Display.Kind)
	}
	for _, s := range c.Outputs.Serial {
		if s.Device == "" {
			return errors.New("serial output without device")
		}
	}
	return nil
}

// RefreshInterval returns the display poll tick
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Display.RefreshMs) * time.Millisecond
}

// FindSerial finds a serial output by device path
func (c *Config) FindSerial(device string) *SerialConfig {
	for i := range c.Outputs.Serial {
		if c.Outputs.Serial[i].Device == device {
			return &c.Outputs.Serial[i]
		}
	}
	return nil
}

// AddSerial adds or updates a serial output
func (c *Config) AddSerial(s SerialConfig) {
	for i := range c.Outputs.Serial {
		if c.Outputs.Serial[i].Device == s.Device {
			c.Outputs.Serial[i] = s
			return
		}
	}
	c.Outputs.Serial = append(c.Outputs.Serial, s)
}
