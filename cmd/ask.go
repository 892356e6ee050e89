package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var askParams []string

var askCmd = &cobra.Command{
	Use:   "ask <phrase>",
	Short: "Resolve a natural-language phrase to an endpoint and query it",
	Example: `  edscope ask "upcoming testing events"
  edscope ask "scores for candidate" --param candidateId=C-1042`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		userParams, err := parseParams(askParams)
		if err != nil {
			return err
		}

		phrase := strings.Join(args, " ")
		match, envlp, err := c.Ask(cmd.Context(), phrase, userParams)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "resolved %q -> %s (%s)\n", phrase, match.Endpoint.Operation, match.Endpoint.Path)
		return printEnvelope(envlp)
	},
}

func init() {
	askCmd.Flags().StringArrayVarP(&askParams, "param", "p", nil, "query parameter as key=value (repeatable)")
}
