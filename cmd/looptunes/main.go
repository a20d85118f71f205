package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/looptunes/looptunes"
	"github.com/looptunes/looptunes/clipboard"
	"github.com/looptunes/looptunes/cmd"
	"github.com/looptunes/looptunes/config"
	"github.com/looptunes/looptunes/engine"
	"github.com/looptunes/looptunes/input"
	"github.com/looptunes/looptunes/oto"
	"github.com/looptunes/looptunes/remote"
	"github.com/looptunes/looptunes/stream"
	"github.com/looptunes/looptunes/synth"
	"github.com/looptunes/looptunes/version"
)

var (
	configPath   = flag.String("config", "", "read settings from `file` (default: config.yml in the user config dir)")
	sampleRate   = flag.Int("rate", 0, "audio sample rate")
	chunkSize    = flag.Int("chunk", 0, "samples rendered per tick")
	capacity     = flag.Int("capacity", 0, "audio queue capacity in samples")
	gain         = flag.Float64("gain", 0, "volume of each playing tree")
	tick         = flag.Duration("tick", 0, "engine tick interval")
	format       = flag.String("format", "", "device sample format: float32 or int16")
	clipboardArg = flag.String("clipboard", "", "clipboard to use: native or memory")
	logLevel     = flag.String("log", "", "log level: debug, info, warn or error")
	remoteAddr   = flag.String("remote", "", "serve the HTTP control API on `addr`")
	midiInput    = flag.String("midi-input", "", "toggle roots from the MIDI input matching this device name prefix")
	listMIDI     = flag.Bool("list-midi", false, "list MIDI inputs and exit")
	headless     = flag.Bool("headless", false, "discard audio instead of opening a device")
	play         = flag.Bool("play", false, "start with every tree playing")
	versionFlag  = flag.Bool("v", false, "print version")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: looptunes [flags] [scene.yml]\n\nKeys: space toggle selection, 1-9 toggle root, c copy, v paste, s stop, q quit.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.Describe("looptunes"))
		os.Exit(0)
	}
	if *listMIDI {
		names, err := cmd.MIDIInputs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		os.Exit(0)
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	level, _ := cfg.Level()
	logger := cmd.NewLogger(os.Stderr, level)
	slog.SetDefault(logger)
	if err := run(cfg, logger); err != nil {
		logger.Error("looptunes failed", "err", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	path := *configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return config.Default(), nil
		}
	}
	cfg, _, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rate":
			cfg.Audio.SampleRate = *sampleRate
		case "chunk":
			cfg.Audio.ChunkSize = *chunkSize
		case "capacity":
			cfg.Audio.QueueCapacity = *capacity
		case "gain":
			cfg.Audio.Gain = float32(*gain)
		case "format":
			cfg.Audio.Format = *format
		case "tick":
			cfg.Tick = *tick
		case "clipboard":
			cfg.Clipboard = *clipboardArg
		case "log":
			cfg.LogLevel = *logLevel
		case "remote":
			cfg.Remote.Listen = *remoteAddr
		case "midi-input":
			cfg.MIDI.Input = *midiInput
		}
	})
	if flag.NArg() > 0 {
		cfg.Scene = flag.Arg(0)
	}
	return cfg, cfg.Validate()
}

func run(cfg config.Config, logger *slog.Logger) error {
	scene, err := loadScene(cfg.Scene)
	if err != nil {
		return err
	}
	if *play {
		for _, r := range scene.Roots() {
			scene.SetPlaying(r, true)
		}
	}
	backend, err := stream.NewBackend(cfg.Audio.SampleRate, cfg.Audio.ChunkSize, cfg.Audio.QueueCapacity)
	if err != nil {
		return err
	}
	cb, err := clipboard.New(cfg.Clipboard)
	if errors.Is(err, clipboard.ErrUnavailable) {
		logger.Warn("system clipboard unavailable, copies stay inside this process", "err", err)
		cb = &clipboard.Memory{}
	} else if err != nil {
		return err
	}
	e := engine.New(scene, synth.NewMixer(cfg.Audio.Gain), backend, cb, logger)

	session, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer session.Close()
	source := backend.Source()
	if err := session.Play(source); err != nil {
		return fmt.Errorf("could not start playback: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MIDI.Input != "" {
		if closer, err := cmd.OpenMIDI(cfg.MIDI.Input, e, logger); err != nil {
			logger.Warn("MIDI input not available", "prefix", cfg.MIDI.Input, "err", err)
		} else {
			defer closer.Close()
		}
	}
	if cfg.Remote.Listen != "" {
		srv := remote.New(e, backend, source, logger)
		go func() {
			if err := srv.Run(ctx, cfg.Remote.Listen); err != nil {
				logger.Error("remote control stopped", "err", err)
			}
		}()
	}
	if term, err := input.StartTerminal(os.Stdin, e, logger); err != nil {
		logger.Info("no keyboard control", "err", err)
	} else {
		defer term.Close()
	}

	logger.Info("looptunes started", "version", version.VersionOrHash, "nodes", scene.Len(), "rate", cfg.Audio.SampleRate)
	err = e.Run(ctx, cfg.Tick)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	logger.Info("looptunes stopped", "underruns", source.Underruns(), "dropped", backend.Dropped())
	return err
}

func loadScene(path string) (*looptunes.Scene, error) {
	if path == "" {
		return looptunes.DemoScene(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open scene: %w", err)
	}
	defer f.Close()
	return looptunes.ReadScene(f)
}

func openSession(cfg config.Config) (looptunes.AudioSession, error) {
	if *headless {
		return cmd.NewNullSession(cfg.Audio.SampleRate), nil
	}
	f := oto.Float32
	if cfg.Audio.Format == "int16" {
		f = oto.Int16
	}
	s, err := oto.NewSession(cfg.Audio.SampleRate, f)
	if err != nil {
		return nil, err
	}
	return s, nil
}
