package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edscope/edscope/internal/resolve"
)

var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List the known API endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The catalog is static; no config or network needed to print it.
		resolver := resolve.NewResolver()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "OPERATION\tPATH\tDESCRIPTION")
		for _, e := range resolver.Catalog() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Operation, e.Path, e.Description)
		}
		return w.Flush()
	},
}
