package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/priyanshu1677/agentic-ai/internal/agent"
)

var chatService string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		names := cfg.Google.Services
		title := "Google Workspace Agent - Unified Interface"
		if chatService != "" {
			names = []string{chatService}
			title = "Google " + strings.ToUpper(chatService[:1]) + chatService[1:] + " Agent"
		}

		fmt.Println("Connecting to Google services...")
		reg, err := googleRegistry(ctx, names)
		if err != nil {
			return err
		}
		a, store, err := newAgent(reg)
		if err != nil {
			return err
		}
		defer store.Close()

		return runREPL(ctx, a, title, os.Stdin, os.Stdout)
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatService, "service", "s", "", "Talk to a single service (calendar, gmail, tasks, drive)")
}

// runREPL reads requests from in until EOF or an exit command.
func runREPL(ctx context.Context, a *agent.Agent, title string, in io.Reader, out io.Writer) error {
	ctx = agent.WithSession(ctx, uuid.NewString())

	rule := strings.Repeat("=", 60)
	fmt.Fprintf(out, "%s\n%s\n%s\n\n", rule, title, rule)
	fmt.Fprintln(out, "Talk to me naturally! Type 'help' to see what I can do.")
	fmt.Fprint(out, "Type 'quit' to exit.\n\n")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if agent.IsExit(input) {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}
		if resp, ok := a.Quick(ctx, input); ok {
			fmt.Fprintf(out, "\n%s\n\n", resp)
			continue
		}

		fmt.Fprintln(out, "Thinking...")
		resp, err := a.Process(ctx, input)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			resp = "Error: " + err.Error()
		}
		fmt.Fprintf(out, "\nAssistant: %s\n\n", resp)
	}
	return scanner.Err()
}
