package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edscope/edscope/internal/request"
)

var (
	queryParams []string
	queryMethod string
	queryBody   string
)

var queryCmd = &cobra.Command{
	Use:   "query <operation-or-path>",
	Short: "Call an API endpoint by operation name or raw path",
	Long: "query calls a platform endpoint. Pass an operation name from\n" +
		"'edscope endpoints' (e.g. eventQuery) or a raw path (e.g. /event/query).\n" +
		"Program and institution context is injected unless you override it with\n" +
		"--param.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		userParams, err := parseParams(queryParams)
		if err != nil {
			return err
		}

		var body []byte
		if queryBody != "" {
			if !json.Valid([]byte(queryBody)) {
				return fmt.Errorf("--body is not valid JSON")
			}
			body = []byte(queryBody)
		}

		var envlp *request.Envelope
		target := args[0]
		if strings.HasPrefix(target, "/") {
			envlp, err = c.MakeRequest(cmd.Context(), target, queryMethod, userParams, body)
		} else {
			envlp, err = c.Query(cmd.Context(), target, userParams)
		}
		if err != nil {
			return err
		}

		return printEnvelope(envlp)
	},
}

func init() {
	queryCmd.Flags().StringArrayVarP(&queryParams, "param", "p", nil, "query parameter as key=value (repeatable)")
	queryCmd.Flags().StringVarP(&queryMethod, "method", "X", http.MethodGet, "HTTP method for raw-path calls")
	queryCmd.Flags().StringVar(&queryBody, "body", "", "JSON request body for raw-path calls")
}

// printEnvelope writes the envelope as indented JSON and exits non-zero via
// the returned error only for auth/config failures, never for HTTP outcomes.
func printEnvelope(envlp *request.Envelope) error {
	out, err := json.MarshalIndent(envlp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
