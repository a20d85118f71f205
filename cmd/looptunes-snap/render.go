package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/looptunes/looptunes"
	"github.com/looptunes/looptunes/snapshot"
	"github.com/looptunes/looptunes/stream"
	"github.com/looptunes/looptunes/synth"
)

const renderChunk = 2048

var (
	outputPath string
	seconds    float64
	sampleRate int
	gain       float64
	pcm16      bool
	rawOut     bool
)

var renderCmd = &cobra.Command{
	Use:   "render [snapshot-file]",
	Short: "Play a snapshot offline and write the audio to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	text, err := readText(args)
	if err != nil {
		return err
	}
	snap, err := snapshot.Decode(text)
	if err != nil {
		return err
	}
	if seconds <= 0 || math.IsInf(seconds, 0) {
		return fmt.Errorf("invalid length %v", seconds)
	}
	buffer, err := render(snap, sampleRate, int(seconds*float64(sampleRate)), float32(gain))
	if err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if rawOut {
		b, err := looptunes.Raw(buffer, pcm16)
		if err != nil {
			return err
		}
		if _, err := f.Write(b); err != nil {
			return err
		}
	} else if err := looptunes.WriteWav(f, buffer, sampleRate, pcm16); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d samples to %s\n", len(buffer), outputPath)
	return f.Close()
}

// render runs the snapshot through the same mixer and stream the player uses,
// pulling each chunk out of the queue as soon as it is in.
func render(snap *snapshot.Snapshot, rate, length int, gain float32) ([]float32, error) {
	scene, err := snap.Build(looptunes.Position{})
	if err != nil {
		return nil, err
	}
	for _, r := range scene.Roots() {
		scene.SetPlaying(r, true)
	}
	backend, err := stream.NewBackend(rate, renderChunk, renderChunk)
	if err != nil {
		return nil, err
	}
	source := backend.Source()
	mixer := synth.NewMixer(gain)
	out := make([]float32, 0, length+renderChunk)
	for len(out) < length {
		backend.SendBuffer(mixer.Mix(scene, scene.PlayingRoots(), backend.TimeChunk()))
		for range renderChunk {
			out = append(out, source.Next())
		}
	}
	return out[:length], nil
}
