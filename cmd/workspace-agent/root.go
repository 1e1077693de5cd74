package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/priyanshu1677/agentic-ai/internal/agent"
	"github.com/priyanshu1677/agentic-ai/internal/auth"
	"github.com/priyanshu1677/agentic-ai/internal/config"
	"github.com/priyanshu1677/agentic-ai/internal/history"
	"github.com/priyanshu1677/agentic-ai/internal/llm"
	"github.com/priyanshu1677/agentic-ai/internal/logger"
	"github.com/priyanshu1677/agentic-ai/pkg/workspace"
)

const version = "0.1.0"

var (
	configFile string
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:          "workspace-agent",
	Short:        "Talk to Google Workspace in plain language",
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			if err := os.Setenv("CONFIG_PATH", configFile); err != nil {
				return err
			}
		}
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("reading configuration: %w", err)
		}
		if logLevel != "" {
			c.Log.Level = logLevel
		}
		logger.Setup(c.Log.Level, c.Log.Format, os.Stderr)
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(researchCmd)
	rootCmd.AddCommand(authCmd)

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func newAuthenticator(names []string) (*auth.Authenticator, error) {
	scopes, err := workspace.Scopes(names)
	if err != nil {
		return nil, err
	}
	a, err := auth.New(cfg.Google.CredentialsFile, cfg.Google.TokenFile, scopes, os.Stdout)
	if errors.Is(err, auth.ErrNoCredentials) {
		return nil, fmt.Errorf("%w (download an OAuth client for a desktop app from the Google Cloud console)", err)
	}
	return a, err
}

// googleRegistry authorises the user and connects the named services.
func googleRegistry(ctx context.Context, names []string) (*workspace.Registry, error) {
	a, err := newAuthenticator(names)
	if err != nil {
		return nil, err
	}
	hc, err := a.HTTPClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("authorizing google services: %w", err)
	}
	return workspace.NewGoogleRegistry(ctx, hc, names)
}

// newAgent wires the configured completer and history store around reg.
func newAgent(reg *workspace.Registry) (*agent.Agent, *history.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	completer, err := llm.NewCompleter(cfg)
	if err != nil {
		return nil, nil, err
	}
	store := history.New(cfg.History.Path)
	return agent.New(reg, completer, agent.WithHistory(store)), store, nil
}
