package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	clihandler "github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"

	"github.com/edscope/edscope/internal/client"
	"github.com/edscope/edscope/internal/env"
)

var appVersion = "dev"

func SetVersion(v string) {
	appVersion = v
}

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "edscope",
	Short: "Query an educational testing platform's REST API",
	Long: "edscope authenticates against the testing platform with OAuth2 client\n" +
		"credentials, fills in program and institution context automatically, and\n" +
		"lets you reach any read endpoint by name or by natural-language phrase.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(endpointsCmd)
	rootCmd.AddCommand(serveCmd)
}

func Execute() error {
	// The template is rendered here, after main has injected the build
	// version; doing it in init would freeze the default "dev".
	rootCmd.Version = appVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("edscope v%s\n", appVersion))
	return rootCmd.Execute()
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "edscope.yaml"
	}
	return home + "/.config/edscope/config.yaml"
}

// newClient loads the layered configuration and builds a client with a
// logger matching the --verbose flag.
func newClient() (*client.Client, error) {
	cfg, err := env.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := &log.Logger{Handler: clihandler.New(os.Stderr), Level: level}

	return client.New(cfg, client.WithLogger(logger)), nil
}

// parseParams turns repeated --param key=value flags into a parameter map.
func parseParams(entries []string) (map[string]string, error) {
	params := make(map[string]string, len(entries))
	for _, entry := range entries {
		idx := strings.Index(entry, "=")
		if idx <= 0 {
			return nil, fmt.Errorf("invalid --param %q: expected key=value", entry)
		}
		params[entry[:idx]] = entry[idx+1:]
	}
	return params, nil
}
