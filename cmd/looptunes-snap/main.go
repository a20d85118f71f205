package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/looptunes/looptunes/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "looptunes-snap",
	Short: "Create, inspect and render LoopTunes snapshots",
	Long: `looptunes-snap works with the clipboard text LoopTunes copies node trees
as, outside of the player.

Examples:
  looptunes-snap encode scene.yml --node beat
  looptunes-snap inspect --yaml < snapshot.txt
  looptunes-snap render snapshot.txt -o loop.wav --seconds 8`,
	Version:      version.VersionOrHash,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(renderCmd)

	encodeCmd.Flags().StringVarP(&nodeName, "node", "n", "", "Name of the node to copy (default: the first root)")

	inspectCmd.Flags().BoolVar(&asYaml, "yaml", false, "Print the snapshot as YAML")
	inspectCmd.Flags().StringVarP(&templateText, "template", "t", "", "Go text/template for the listing, with sprig functions")

	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "out.wav", "Output file")
	renderCmd.Flags().Float64VarP(&seconds, "seconds", "s", 4, "Length of the rendering")
	renderCmd.Flags().IntVar(&sampleRate, "rate", 48000, "Sample rate")
	renderCmd.Flags().Float64Var(&gain, "gain", 0.2, "Volume of the tree")
	renderCmd.Flags().BoolVarP(&pcm16, "pcm", "c", false, "Write 16-bit signed PCM instead of 32-bit float")
	renderCmd.Flags().BoolVarP(&rawOut, "raw", "r", false, "Write headerless raw samples instead of .wav")
}

// readText reads a snapshot from the file named by the first argument, or
// from standard input when there is none or it is "-".
func readText(args []string) (string, error) {
	var r io.Reader = os.Stdin
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("could not read snapshot: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
