package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/looptunes/looptunes/snapshot"
)

var (
	asYaml       bool
	templateText string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [snapshot-file]",
	Short: "Describe the nodes and waves of a snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	text, err := readText(args)
	if err != nil {
		return err
	}
	snap, err := snapshot.Decode(text)
	if err != nil {
		return err
	}
	if asYaml {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(snap.View()); err != nil {
			return err
		}
		return enc.Close()
	}
	return snap.List(cmd.OutOrStdout(), templateText)
}
