package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize access to the configured Google services",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAuthenticator(cfg.Google.Services)
		if err != nil {
			return err
		}
		if _, err := a.Token(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Authorized %s. Token saved to %s\n", strings.Join(cfg.Google.Services, ", "), a.TokenFile())
		return nil
	},
}
