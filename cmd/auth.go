package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect and exercise OAuth2 authentication",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Acquire a token and report the cache state",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		if _, err := c.AccessToken(cmd.Context()); err != nil {
			return err
		}

		s := c.AuthStatus()
		fmt.Fprintf(os.Stdout, "authenticated:      %t\n", s.Authenticated)
		fmt.Fprintf(os.Stdout, "remaining validity: %s\n", s.RemainingValidity.Round(time.Second))
		fmt.Fprintf(os.Stdout, "acquired at:        %s\n", s.AcquiredAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(os.Stdout, "last latency:       %s\n", s.LastLatency)
		fmt.Fprintf(os.Stdout, "last attempts:      %d\n", s.LastAttempts)
		return nil
	},
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Acquire a token and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		token, err := c.AccessToken(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, token)
		return nil
	},
}

func init() {
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authTokenCmd)
}
