package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/priyanshu1677/agentic-ai/internal/jobclient"
	"github.com/priyanshu1677/agentic-ai/internal/llm"
)

var researchBudget int

var researchCmd = &cobra.Command{
	Use:   "research [query]",
	Short: "Run a research query through the pipeline and print every output",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		query := strings.Join(args, " ")
		if query == "" {
			fmt.Print("What can I help you research? ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			query = strings.TrimSpace(line)
		}
		if query == "" {
			return errors.New("no research query given")
		}

		jc := cfg.JobRunner
		if jc.APIKey == "" || jc.UserID == "" || jc.PipelineID == "" {
			return errors.New("jobrunner.api_key, jobrunner.user_id and jobrunner.pipeline_id are required")
		}
		jcfg := llm.JobClientConfig(jc)
		jcfg.PollBudget = researchBudget
		return runResearch(ctx, jcfg, query, os.Stdout)
	},
}

func init() {
	researchCmd.Flags().IntVar(&researchBudget, "budget", 60, "Maximum number of status polls")
}

func runResearch(ctx context.Context, jcfg jobclient.Config, query string, out io.Writer, opts ...jobclient.Option) error {
	rule := strings.Repeat("=", 50)
	fmt.Fprintf(out, "\nStarting research on: %s\n%s\n", query, strings.Repeat("-", 50))

	opts = append(opts, jobclient.WithSubmitHook(func(runID string) {
		fmt.Fprintf(out, "Run ID: %s\nWaiting for results...\n", runID)
	}), jobclient.WithPollHook(func(runID string, attempt int, state jobclient.State) {
		if state == "" {
			state = "unknown"
		}
		fmt.Fprintf(out, "Status: %s\n", state)
	}))
	res, err := jobclient.New(jcfg, opts...).Execute(ctx, query)
	if err != nil {
		fmt.Fprintf(out, "Pipeline failed: %v\n", err)
		return err
	}

	fmt.Fprintf(out, "\n%s\nRESEARCH RESULTS:\n%s\n", rule, rule)
	keys := make([]string, 0, len(res.Outputs))
	for k := range res.Outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "\n%s:\n%v\n", k, res.Outputs[k])
	}
	return nil
}
