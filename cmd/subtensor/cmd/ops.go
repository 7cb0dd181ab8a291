package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/subtensor/internal/dispatch"
)

// newOpsCmd creates the ops command, which lists the registered operators.
func newOpsCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "ops",
		Short: "List registered indexing operators",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := newStyles(plain)
			kinds := dispatch.Default().Kinds()

			width := 0
			for _, k := range kinds {
				width = max(width, len(k.String()))
			}
			var sb strings.Builder
			sb.WriteString(st.Header.Render(fmt.Sprintf("%-*s  %s", width, "OPERATOR", "SIGNATURE")))
			sb.WriteString("\n")
			for _, k := range kinds {
				name := fmt.Sprintf("%-*s", width, k.String())
				sb.WriteString(st.Name.Render(name) + "  " + st.Dim.Render(k.Signature()) + "\n")
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), sb.String())
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable colors")
	return cmd
}
