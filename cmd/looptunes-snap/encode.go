package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/looptunes/looptunes"
	"github.com/looptunes/looptunes/snapshot"
)

var nodeName string

var encodeCmd = &cobra.Command{
	Use:   "encode scene.yml",
	Short: "Print the snapshot of a tree in a scene file",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncode,
}

func runEncode(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	scene, err := looptunes.ReadScene(f)
	if err != nil {
		return err
	}
	id, err := findNode(scene, nodeName)
	if err != nil {
		return err
	}
	text, err := snapshot.Marshal(scene, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func findNode(scene *looptunes.Scene, name string) (looptunes.NodeID, error) {
	if name == "" {
		if roots := scene.Roots(); len(roots) > 0 {
			return roots[0], nil
		}
		return looptunes.NoNode, fmt.Errorf("scene is empty")
	}
	for _, id := range scene.IDs() {
		if n, _ := scene.Node(id); n.Name == name {
			return id, nil
		}
	}
	return looptunes.NoNode, fmt.Errorf("no node named %q", name)
}
