package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/priyanshu1677/agentic-ai/internal/agent"
	"github.com/priyanshu1677/agentic-ai/internal/intent"
	"github.com/priyanshu1677/agentic-ai/internal/jobclient"
	"github.com/priyanshu1677/agentic-ai/pkg/workspace"
)

type stubService struct {
	executed []intent.Args
}

func (s *stubService) Name() string        { return "tasks" }
func (s *stubService) Title() string       { return "Tasks" }
func (s *stubService) Description() string { return "Manage to-do list" }
func (s *stubService) Shortcuts() []string { return []string{"list"} }

func (s *stubService) Actions() []workspace.Action {
	return []workspace.Action{
		{Name: "list", Description: "List pending tasks"},
		{Name: "create", Description: "Create a task", Params: []workspace.Param{
			{Name: "title", Example: "Task name", Required: true},
			{Name: "index", Kind: workspace.ParamNumber, Example: "1"},
		}},
	}
}

func (s *stubService) Execute(ctx context.Context, action string, args intent.Args) (string, error) {
	s.executed = append(s.executed, args)
	switch action {
	case "list":
		return "No tasks found.", nil
	case "create":
		if args.String("title") == "" {
			return "", fmt.Errorf("missing title")
		}
		return "Created task: '" + args.String("title") + "'", nil
	}
	return "", workspace.ErrUnknownAction
}

type scriptedCompleter struct{ replies []string }

func (c *scriptedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if len(c.replies) == 0 {
		return "", fmt.Errorf("%w: no run_id", jobclient.ErrSubmissionFailed)
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	return r, nil
}

func newTestAgent(replies ...string) (*agent.Agent, *stubService) {
	svc := &stubService{}
	return agent.New(workspace.NewRegistry(svc), &scriptedCompleter{replies: replies}), svc
}

func TestRunREPL(t *testing.T) {
	a, _ := newTestAgent(`{"service": "tasks", "action": "create", "title": "Buy milk"}`)
	in := strings.NewReader("\nlist\nadd buy milk\nwhat now?\nquit\nnever read\n")
	var out bytes.Buffer

	require.NoError(t, runREPL(context.Background(), a, "Google Tasks Agent", in, &out))

	text := out.String()
	require.Contains(t, text, "Google Tasks Agent")
	require.Contains(t, text, "You: \nNo tasks found.\n")
	require.Contains(t, text, "Thinking...\n\nAssistant: Created task: 'Buy milk'\n")
	require.Contains(t, text, "Assistant: "+jobclient.FailureMessage+"\n")
	require.True(t, strings.HasSuffix(text, "You: Goodbye!\n"))
}

func TestRunREPL_EOF(t *testing.T) {
	a, _ := newTestAgent()
	var out bytes.Buffer
	require.NoError(t, runREPL(context.Background(), a, "t", strings.NewReader("help\n"), &out))
	require.Contains(t, out.String(), "Available services:")
}

func TestServeMux(t *testing.T) {
	a, _ := newTestAgent(`{"service": "tasks", "action": "create", "title": "Call mom"}`, `{"service": "tasks", "action": "create"}`)
	srv := httptest.NewServer(newServeMux(a))
	t.Cleanup(srv.Close)

	post := func(body, session string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/", strings.NewReader(body))
		require.NoError(t, err)
		if session != "" {
			req.Header.Set(sessionHeader, session)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	resp := post("remind me to call mom", "abc")
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Created task: 'Call mom'", string(body))
	require.Equal(t, "abc", resp.Header.Get(sessionHeader))

	resp = post("list", "")
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, "No tasks found.", string(body))
	require.NotEmpty(t, resp.Header.Get(sessionHeader))

	resp = post("add a task", "")
	_ = resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Contains(t, string(body), "workspace_agent_requests_total")
}

func TestToolFor(t *testing.T) {
	svc := &stubService{}
	tool := toolFor(svc, svc.Actions()[1])

	require.Equal(t, "tasks_create", tool.Name)
	require.Equal(t, "Tasks: Create a task", tool.Description)
	require.Equal(t, []string{"title"}, tool.InputSchema.Required)
	require.Contains(t, tool.InputSchema.Properties, "title")
	require.Contains(t, tool.InputSchema.Properties, "index")

	index, ok := tool.InputSchema.Properties["index"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "number", index["type"])
}

func TestToolHandler(t *testing.T) {
	svc := &stubService{}
	handler := toolHandler(svc, svc.Actions()[1])

	req := mcp.CallToolRequest{}
	req.Params.Name = "tasks_create"
	req.Params.Arguments = map[string]any{"title": "Write report"}
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	require.Equal(t, "Created task: 'Write report'", text.Text)

	req.Params.Arguments = map[string]any{}
	res, err = handler(context.Background(), req)
	require.NoError(t, err)
	require.True(t, res.IsError)
}

func TestNewMCPServer(t *testing.T) {
	s := newMCPServer(workspace.NewRegistry(&stubService{}))
	require.NotNil(t, s)
}

func TestRunResearch(t *testing.T) {
	polls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/start_pipeline":
			_ = json.NewEncoder(w).Encode(map[string]any{"run_id": "run-7"})
		case "/get_pl_run":
			polls++
			if polls < 2 {
				_ = json.NewEncoder(w).Encode(map[string]any{"state": "RUNNING"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"state":   "DONE",
				"outputs": map[string]any{"output": "Go is great", "sources": "go.dev"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	cfg := jobclient.Config{BaseURL: srv.URL, APIKey: "k", UserID: "u", PipelineID: "p", PollInterval: time.Millisecond, PollBudget: 60}
	var out bytes.Buffer
	var beforeFirstWait string
	noWait := jobclient.WithWaitFunc(func(context.Context, time.Duration) error {
		if beforeFirstWait == "" {
			beforeFirstWait = out.String()
		}
		return nil
	})

	require.NoError(t, runResearch(context.Background(), cfg, "golang", &out, noWait))
	require.True(t, strings.HasSuffix(beforeFirstWait, "Run ID: run-7\nWaiting for results...\n"))

	text := out.String()
	require.Contains(t, text, "Starting research on: golang")
	require.Contains(t, text, "Run ID: run-7\nWaiting for results...\nStatus: RUNNING\nStatus: DONE\n")
	require.Contains(t, text, "RESEARCH RESULTS:")
	require.Less(t, strings.Index(text, "\noutput:\nGo is great\n"), strings.Index(text, "\nsources:\ngo.dev\n"))
}

func TestRunResearch_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"state": "FAILED"}`)
	}))
	t.Cleanup(srv.Close)

	cfg := jobclient.Config{BaseURL: srv.URL, PollBudget: 3}
	var out bytes.Buffer
	err := runResearch(context.Background(), cfg, "q", &out)
	require.ErrorIs(t, err, jobclient.ErrSubmissionFailed)
	require.Contains(t, out.String(), "Pipeline failed:")
}
