// Package jobclient runs prompts through a hosted pipeline runner that
// executes jobs asynchronously, hiding the submit-then-poll protocol behind a
// single blocking call.
package jobclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/priyanshu1677/agentic-ai/internal/logger"
	"github.com/priyanshu1677/agentic-ai/internal/metrics"
)

const (
	DefaultBaseURL      = "https://api.gumloop.com/api/v1"
	DefaultPollInterval = 2 * time.Second
	DefaultPollBudget   = 30
	DefaultInputName    = "input"
	DefaultOutputName   = "output"
	DefaultHTTPTimeout  = 30 * time.Second

	// NoResponse is returned for a DONE run that carries no output.
	NoResponse = "No response"

	startPath  = "/start_pipeline"
	statusPath = "/get_pl_run"
)

// Config holds the runner credentials and polling parameters.
type Config struct {
	BaseURL      string
	APIKey       string
	UserID       string
	PipelineID   string
	InputName    string
	OutputName   string
	PollInterval time.Duration
	PollBudget   int
	HTTPTimeout  time.Duration
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// PollHook observes every status response.
type PollHook func(runID string, attempt int, state State)

// SubmitHook observes the run id of an accepted submission, before the first
// wait.
type SubmitHook func(runID string)

// Client submits prompts to the pipeline runner and waits for their output.
// It holds no per-run state and is safe for concurrent use.
type Client struct {
	cfg    Config
	http   *http.Client
	wait     WaitFunc
	onSubmit SubmitHook
	onPoll   PollHook
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithWaitFunc replaces the delay used between polls.
func WithWaitFunc(fn WaitFunc) Option {
	return func(c *Client) { c.wait = fn }
}

// WithSubmitHook registers fn to be called once a run has been accepted.
func WithSubmitHook(fn SubmitHook) Option {
	return func(c *Client) { c.onSubmit = fn }
}

// WithPollHook registers fn to be called after every status request.
func WithPollHook(fn PollHook) Option {
	return func(c *Client) { c.onPoll = fn }
}

// New creates a Client, filling unset fields of cfg with defaults.
func New(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.InputName == "" {
		cfg.InputName = DefaultInputName
	}
	if cfg.OutputName == "" {
		cfg.OutputName = DefaultOutputName
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.PollBudget <= 0 {
		cfg.PollBudget = DefaultPollBudget
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}

	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.HTTPTimeout},
		wait: sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Run submits prompt and returns the run's primary output once it is DONE.
func (c *Client) Run(ctx context.Context, prompt string) (string, error) {
	res, err := c.Execute(ctx, prompt)
	if err != nil {
		return "", err
	}
	return outputText(res.Outputs, c.cfg.OutputName), nil
}

// Complete implements llm.Completer.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.Run(ctx, prompt)
}

// Execute submits prompt and polls the run until it reaches a terminal state
// or the poll budget is spent. The wait precedes every poll.
func (c *Client) Execute(ctx context.Context, prompt string) (*RunResult, error) {
	res, err := c.execute(ctx, prompt)
	metrics.IncreaseJobsTotal(Kind(err))
	return res, err
}

func (c *Client) execute(ctx context.Context, prompt string) (*RunResult, error) {
	runID, err := c.Submit(ctx, prompt)
	if err != nil {
		return nil, err
	}
	log := logger.L.With("run_id", runID)
	log.Debug("pipeline run submitted")
	if c.onSubmit != nil {
		c.onSubmit(runID)
	}

	for attempt := 1; attempt <= c.cfg.PollBudget; attempt++ {
		if err := c.wait(ctx, c.cfg.PollInterval); err != nil {
			return nil, err
		}

		status, err := c.Status(ctx, runID)
		if err != nil {
			return nil, err
		}
		log.Debug("pipeline run polled", "attempt", attempt, "state", status.State)
		if c.onPoll != nil {
			c.onPoll(runID, attempt, status.State)
		}

		switch {
		case status.State == StateDone:
			return &RunResult{RunID: runID, Outputs: status.Outputs, Polls: attempt}, nil
		case status.State.Failed():
			log.Warn("pipeline run failed", "state", status.State, "attempt", attempt)
			return nil, fmt.Errorf("%w: run %s reported %s", ErrRemoteFailure, runID, status.State)
		}
	}

	log.Warn("pipeline run timed out", "budget", c.cfg.PollBudget, "interval", c.cfg.PollInterval)
	return nil, fmt.Errorf("%w: run %s after %d polls", ErrTimeout, runID, c.cfg.PollBudget)
}

type pipelineInput struct {
	InputName string `json:"input_name"`
	Value     string `json:"value"`
}

type startRequest struct {
	PipelineInputs []pipelineInput `json:"pipeline_inputs"`
}

type startResponse struct {
	RunID json.RawMessage `json:"run_id"`
}

// runID returns the run handle as text. Numeric ids are kept verbatim; a
// missing, null, empty or structured value yields "".
func (r startResponse) runID() string {
	raw := bytes.TrimSpace(r.RunID)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(raw)
	}
	return ""
}

// Submit starts a pipeline run for prompt and returns its run id.
func (c *Client) Submit(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(startRequest{
		PipelineInputs: []pipelineInput{{InputName: c.cfg.InputName, Value: prompt}},
	})
	if err != nil {
		return "", err
	}

	u, err := c.endpoint(startPath, url.Values{"saved_item_id": {c.cfg.PipelineID}})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var out startResponse
	code, err := c.do(req, &out)
	if err != nil {
		return "", err
	}
	runID := out.runID()
	if runID == "" {
		logger.L.Warn("pipeline submission returned no run id", "status", code, "run_id", string(out.RunID))
		return "", fmt.Errorf("%w (status %d)", ErrSubmissionFailed, code)
	}
	return runID, nil
}

// Status fetches the current state of a run.
func (c *Client) Status(ctx context.Context, runID string) (*RunStatus, error) {
	u, err := c.endpoint(statusPath, url.Values{"run_id": {runID}})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	metrics.IncreaseJobPolls()
	var out RunStatus
	if _, err := c.do(req, &out); err != nil {
		return nil, err
	}
	out.RunID = runID
	return &out, nil
}

func (c *Client) endpoint(path string, extra url.Values) (string, error) {
	u, err := url.Parse(c.cfg.BaseURL + path)
	if err != nil {
		return "", fmt.Errorf("invalid runner base url: %w", err)
	}
	q := u.Query()
	q.Set("api_key", c.cfg.APIKey)
	q.Set("user_id", c.cfg.UserID)
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// do sends req and decodes the JSON body into out whatever the status code;
// the runner's bodies carry the information callers branch on.
func (c *Client) do(req *http.Request, out any) (int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: decode %s response (status %d): %w", ErrTransport, req.URL.Path, resp.StatusCode, err)
	}
	return resp.StatusCode, nil
}

func outputText(outputs map[string]any, name string) string {
	v, ok := outputs[name]
	if !ok || v == nil {
		return NoResponse
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
