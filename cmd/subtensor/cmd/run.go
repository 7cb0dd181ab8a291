package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/born-ml/subtensor/internal/config"
	"github.com/born-ml/subtensor/internal/dispatch"
	"github.com/born-ml/subtensor/internal/graph"
	"github.com/born-ml/subtensor/internal/index"
	"github.com/born-ml/subtensor/internal/tensor"
)

// newRunCmd creates the run command.
func newRunCmd(configPath *string) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "run <program.yaml>",
		Short: "Compile a program file and run it on every feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runProgram(cmd, cfg, args[0], newStyles(plain))
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable colors")
	return cmd
}

func runProgram(cmd *cobra.Command, cfg *config.Config, path string, st styles) error {
	file, err := graph.LoadFile(path)
	if err != nil {
		return err
	}
	program, err := file.Program()
	if err != nil {
		return errors.WithMessagef(err, "program file %s", path)
	}
	sets, err := file.InputSets()
	if err != nil {
		return err
	}

	backend, release, err := newBackend(cfg)
	if err != nil {
		return err
	}
	defer release()

	compiler, err := graph.NewCompiler(dispatch.Default(), backend, cfg.ClosureCacheSize)
	if err != nil {
		return err
	}
	exe, err := compiler.Compile(program)
	if err != nil {
		return err
	}
	klog.V(1).Infof("running %q on %s with %d input sets", program.Name, backend.Name(), len(sets))

	results, err := exe.RunBatch(cmd.Context(), sets, cfg.BatchWorkers)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i, res := range results {
		if len(results) > 1 {
			fmt.Fprintln(out, st.Header.Render(fmt.Sprintf("feed %d", i)))
		}
		for _, name := range program.Outputs {
			printValue(out, st, name, res[name])
		}
	}
	return nil
}

func printValue(w io.Writer, st styles, name string, v dispatch.Value) {
	switch x := v.(type) {
	case *tensor.RawTensor:
		//nolint:gosec // G115: ByteSize is non-negative.
		fmt.Fprintf(w, "%s = %s %s\n", st.Name.Render(name), x, st.Dim.Render("("+humanize.Bytes(uint64(x.ByteSize()))+")"))
	case index.Slice:
		fmt.Fprintf(w, "%s = slice(%s)\n", st.Name.Render(name), x)
	default:
		fmt.Fprintf(w, "%s = %v\n", st.Name.Render(name), x)
	}
}
