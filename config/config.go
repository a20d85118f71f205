// Package config holds the settings of the looptunes player. Settings are
// read from a YAML file on top of built-in defaults; command line flags
// override both.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type (
	Config struct {
		Audio     Audio         `yaml:"audio"`
		Tick      time.Duration `yaml:"tick"`
		Clipboard string        `yaml:"clipboard"`
		LogLevel  string        `yaml:"loglevel"`
		Remote    Remote        `yaml:"remote"`
		MIDI      MIDI          `yaml:"midi"`
		// Scene is a scene file loaded at startup; empty loads the demo.
		Scene string `yaml:"scene"`
	}

	Audio struct {
		SampleRate    int     `yaml:"samplerate"`
		ChunkSize     int     `yaml:"chunksize"`
		QueueCapacity int     `yaml:"queuecapacity"`
		Gain          float32 `yaml:"gain"`
		// Format is the device sample format, float32 or int16.
		Format string `yaml:"format"`
	}

	Remote struct {
		// Listen is the address of the HTTP control server; empty disables
		// it.
		Listen string `yaml:"listen"`
	}

	MIDI struct {
		// Input is the name prefix of the MIDI input to listen to; empty
		// disables MIDI.
		Input string `yaml:"input"`
	}
)

var ErrInvalid = errors.New("invalid configuration")

//go:embed defaults.yml
var defaultsYaml []byte

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	if err := yaml.Unmarshal(defaultsYaml, &c); err != nil {
		panic(fmt.Errorf("failed to unmarshal default config: %w", err))
	}
	return c
}

// DefaultPath returns the location of the user's config file.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "LoopTunes", "config.yml"), nil
}

// Load reads the file at path over the defaults. A missing file is not an
// error; exists reports whether it was found.
func Load(path string) (c Config, exists bool, err error) {
	c = Default()
	bytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, false, nil
	}
	if err != nil {
		return c, false, fmt.Errorf("could not read config: %w", err)
	}
	if err := yaml.Unmarshal(bytes, &c); err != nil {
		return c, true, fmt.Errorf("could not parse config %s: %w", path, err)
	}
	return c, true, c.Validate()
}

// Validate reports settings the player cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: sample rate %d", ErrInvalid, c.Audio.SampleRate))
	}
	if c.Audio.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: chunk size %d", ErrInvalid, c.Audio.ChunkSize))
	}
	if c.Audio.QueueCapacity < c.Audio.ChunkSize {
		errs = append(errs, fmt.Errorf("%w: queue capacity %d is less than a chunk", ErrInvalid, c.Audio.QueueCapacity))
	}
	if c.Audio.Gain <= 0 {
		errs = append(errs, fmt.Errorf("%w: gain %v", ErrInvalid, c.Audio.Gain))
	}
	if c.Audio.Format != "float32" && c.Audio.Format != "int16" {
		errs = append(errs, fmt.Errorf("%w: audio format %q", ErrInvalid, c.Audio.Format))
	}
	if c.Tick <= 0 {
		errs = append(errs, fmt.Errorf("%w: tick %v", ErrInvalid, c.Tick))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.LogLevel))
	return l, err
}
