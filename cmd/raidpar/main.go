// Command raidpar drives parity sync, check, and fix passes over an array
// of data disks described by a YAML config file.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	log := logrus.New()

	var configPath string
	root := &cobra.Command{
		Use:   "raidpar",
		Short: "Snapshot-style parity protection for an array of data disks",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "raidpar.yaml", "path to the array config file")

	root.AddCommand(newSyncCmd(log, &configPath))
	root.AddCommand(newCheckCmd(log, &configPath))
	root.AddCommand(newFixCmd(log, &configPath))
	return root
}
