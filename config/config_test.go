package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/looptunes/looptunes/config"
)

func TestDefaults(t *testing.T) {
	c := config.Default()
	if c.Audio.SampleRate != 48000 || c.Audio.ChunkSize != 2048 || c.Audio.QueueCapacity != 4096 {
		t.Errorf("audio defaults %+v", c.Audio)
	}
	if c.Audio.Gain != 0.2 || c.Tick != 5*time.Millisecond || c.Clipboard != "native" {
		t.Errorf("defaults %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
	if l, _ := c.Level(); l != slog.LevelInfo {
		t.Errorf("level %v", l)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if _, exists, err := config.Load(filepath.Join(dir, "missing.yml")); exists || err != nil {
		t.Errorf("missing file: exists %v, err %v", exists, err)
	}
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("audio:\n  chunksize: 1024\nloglevel: debug\nremote:\n  listen: localhost:8765\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, exists, err := config.Load(path)
	if !exists || err != nil {
		t.Fatalf("Load: exists %v, err %v", exists, err)
	}
	if c.Audio.ChunkSize != 1024 || c.Audio.SampleRate != 48000 || c.Remote.Listen != "localhost:8765" {
		t.Errorf("loaded %+v", c)
	}
	if l, _ := c.Level(); l != slog.LevelDebug {
		t.Errorf("level %v", l)
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*config.Config){
		"capacity below chunk": func(c *config.Config) { c.Audio.QueueCapacity = 100 },
		"zero rate":            func(c *config.Config) { c.Audio.SampleRate = 0 },
		"negative gain":        func(c *config.Config) { c.Audio.Gain = -1 },
		"format":               func(c *config.Config) { c.Audio.Format = "mp3" },
		"tick":                 func(c *config.Config) { c.Tick = 0 },
		"level":                func(c *config.Config) { c.LogLevel = "loud" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := config.Default()
			mutate(&c)
			if err := c.Validate(); !errors.Is(err, config.ErrInvalid) {
				t.Errorf("got %v, want ErrInvalid", err)
			}
		})
	}
}
