// Package cmd provides the CLI commands of subtensor.
package cmd

import (
	"flag"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// Version of the subtensor tools.
const Version = "v0.1.0-dev"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "subtensor",
		Short: "Compile and run tensor indexing programs",
		Long: `subtensor compiles programs of indexing operators (Gather, GatherNd,
ScatterSet, ScatterAdd, ScatterNdSet, ScatterNdAdd, MakeSlice) into closures
for an array backend and runs them.`,
		Version:      Version,
		SilenceUsage: true,
	}
	cmd.SetVersionTemplate("subtensor version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML runtime configuration file")

	// klog flags (-v, -logtostderr, ...).
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)

	cmd.AddCommand(newRunCmd(&configPath))
	cmd.AddCommand(newOpsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	defer klog.Flush()
	return NewRootCmd().Execute()
}
