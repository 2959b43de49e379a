// Package config loads and saves the Tower toolchain's TOML configuration
// file, grounded on the teacher's config package and BurntSushi/toml
// (spec.md §6.5).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds settings shared by the `asm` and `microasm` CLIs: default
// output file names and a couple of diagnostic-display knobs. Neither
// assembler needs execution, debugger, trace, or statistics settings —
// this toolchain only ever compiles source, it never runs it
// (spec.md §1, Non-goals).
type Config struct {
	Assembler struct {
		DefaultOutput string `toml:"default_output"`
		AllowInclude  bool   `toml:"allow_include"`
	} `toml:"assembler"`

	Microassembler struct {
		DefaultAssembleOutput    string `toml:"default_assemble_output"`
		DefaultDisassembleOutput string `toml:"default_disassemble_output"`
	} `toml:"microassembler"`

	Display struct {
		ColorOutput  bool   `toml:"color_output"`
		NumberFormat string `toml:"number_format"` // hex, dec, both
	} `toml:"display"`
}

// DefaultConfig returns a configuration with default values (spec.md §6.5's
// default output filenames).
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assembler.DefaultOutput = "out.bin"
	cfg.Assembler.AllowInclude = true

	cfg.Microassembler.DefaultAssembleOutput = "microcode.bin"
	cfg.Microassembler.DefaultDisassembleOutput = "out.txt"

	cfg.Display.ColorOutput = true
	cfg.Display.NumberFormat = "hex"

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "tower")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "tower")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file is
// not an error: it yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
