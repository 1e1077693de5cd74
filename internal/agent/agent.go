package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qmuntal/stateless"

	"github.com/priyanshu1677/agentic-ai/internal/history"
	"github.com/priyanshu1677/agentic-ai/internal/intent"
	"github.com/priyanshu1677/agentic-ai/internal/jobclient"
	"github.com/priyanshu1677/agentic-ai/internal/llm"
	"github.com/priyanshu1677/agentic-ai/internal/logger"
	"github.com/priyanshu1677/agentic-ai/internal/metrics"
	"github.com/priyanshu1677/agentic-ai/pkg/workspace"
)

// FSM states
type state string

const (
	stateIdle        state = "Idle"
	stateSummarizing state = "Summarizing"
	statePrompting   state = "Prompting"
	stateDispatching state = "Dispatching"
	stateDone        state = "Done"  // Terminal: reply produced
	stateError       state = "Error" // Terminal: error state
)

// FSM triggers
type trigger string

const (
	triggerStart    trigger = "Start"
	triggerPrompt   trigger = "Prompt"
	triggerDispatch trigger = "Dispatch"
	triggerFinish   trigger = "Finish"
	triggerFail     trigger = "Fail"
)

// Pseudo services the model may answer with.
const (
	serviceStatus = "status"
	serviceChat   = "chat"
)

// Outcome labels for requests that never reach a service.
const (
	outcomeOK   = "ok"
	outcomeChat = "chat"
	outcomeRaw  = "raw"
)

const summaryLimit = 100

// Agent routes natural language requests to workspace services.
type Agent struct {
	registry  *workspace.Registry
	completer llm.Completer
	history   *history.Store
	now       func() time.Time
}

// Option configures an Agent.
type Option func(*Agent)

// WithHistory persists every turn to store.
func WithHistory(store *history.Store) Option {
	return func(a *Agent) { a.history = store }
}

// WithClock overrides the time source used for the prompt date.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) { a.now = now }
}

// New creates a new agent.
func New(registry *workspace.Registry, completer llm.Completer, opts ...Option) *Agent {
	a := &Agent{
		registry:  registry,
		completer: completer,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type sessionKey struct{}

// WithSession tags ctx with the conversation id used for history.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

func sessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// turn is the data carried through one Process run.
type turn struct {
	input   string
	status  string
	prompt  string
	reply   string
	service string
	action  string
	outcome string
	result  string
	err     error
}

// Process answers one request. The model picks a service and action from the
// registry's menu; the chosen action is executed and its text returned.
// Process uses a Finite State Machine to sequence the steps of a turn.
func (a *Agent) Process(ctx context.Context, input string) (string, error) {
	t := &turn{input: input}
	a.record(ctx, history.RoleUser, input, "")

	fsm := stateless.NewStateMachine(stateIdle)

	fsm.Configure(stateIdle).
		Permit(triggerStart, stateSummarizing)

	// State: Summarizing
	// Action: collect one status line per service.
	fsm.Configure(stateSummarizing).
		OnEntry(func(ctx context.Context, args ...any) error {
			logger.L.Debug("FSM: Entering StateSummarizing")
			t.status = a.statusContext(ctx)
			return fsm.FireCtx(ctx, triggerPrompt)
		}).
		Permit(triggerPrompt, statePrompting)

	// State: Prompting
	// Action: ask the model for an intent.
	fsm.Configure(statePrompting).
		OnEntry(func(ctx context.Context, args ...any) error {
			logger.L.Debug("FSM: Entering StatePrompting")
			t.prompt = a.buildPrompt(t.input, t.status)
			reply, err := a.completer.Complete(ctx, t.prompt)
			if err != nil {
				if jobclient.IsFailure(err) {
					logger.L.Warn("AI request failed", "kind", jobclient.Kind(err), "error", err)
					t.result = jobclient.FailureMessage
					t.outcome = jobclient.Kind(err)
					return fsm.FireCtx(ctx, triggerFinish)
				}
				logger.L.Error("completion failed", "error", err)
				t.err = err
				return fsm.FireCtx(ctx, triggerFail)
			}
			t.reply = reply
			logger.L.Debug("AI reply received", "reply", reply)
			return fsm.FireCtx(ctx, triggerDispatch)
		}).
		Permit(triggerDispatch, stateDispatching).
		Permit(triggerFinish, stateDone).
		Permit(triggerFail, stateError)

	// State: Dispatching
	// Action: decode the reply and run the selected action.
	fsm.Configure(stateDispatching).
		OnEntry(func(ctx context.Context, args ...any) error {
			logger.L.Debug("FSM: Entering StateDispatching")
			if err := a.dispatch(ctx, t); err != nil {
				t.err = err
				return fsm.FireCtx(ctx, triggerFail)
			}
			return fsm.FireCtx(ctx, triggerFinish)
		}).
		Permit(triggerFinish, stateDone).
		Permit(triggerFail, stateError)

	fsm.Configure(stateDone).
		OnEntry(func(ctx context.Context, args ...any) error {
			logger.L.Debug("FSM: Entering StateDone")
			return nil
		})

	fsm.Configure(stateError).
		OnEntry(func(ctx context.Context, args ...any) error {
			logger.L.Debug("FSM: Entering StateError")
			if t.err == nil {
				t.err = errors.New("reached error state without a specific error")
			}
			return nil
		})

	if err := fsm.FireCtx(ctx, triggerStart); err != nil {
		logger.L.Error("FSM fire error", "error", err)
		if t.err == nil {
			t.err = fmt.Errorf("FSM error: %w", err)
		}
	}

	current, err := fsm.State(ctx)
	if err != nil {
		return "", fmt.Errorf("FSM internal error: %w", err)
	}

	if t.outcome == "" {
		t.outcome = jobclient.Kind(t.err)
	}
	metrics.IncreaseRequestsTotal(labelOr(t.service, "unknown"), labelOr(t.action, "none"), t.outcome)

	if current != stateDone || t.err != nil {
		if t.err == nil {
			t.err = fmt.Errorf("FSM ended in an unexpected state: %v", current)
		}
		a.record(ctx, history.RoleAssistant, "Error: "+t.err.Error(), t.outcome)
		return "", t.err
	}
	a.record(ctx, history.RoleAssistant, t.result, t.outcome)
	return t.result, nil
}

// dispatch routes a decoded reply. Replies the agent cannot act on are
// returned as they are.
func (a *Agent) dispatch(ctx context.Context, t *turn) error {
	in, err := intent.Parse(t.reply)
	if err != nil {
		logger.L.Debug("reply holds no intent; returning it as text", "error", err)
		t.result, t.outcome = t.reply, outcomeRaw
		return nil
	}

	if in.Service == serviceChat || (in.Service == "" && in.Action == serviceChat) {
		t.service, t.action = serviceChat, serviceChat
		t.result, t.outcome = in.Args.StringOr("response", t.reply), outcomeChat
		return nil
	}
	if in.Service == serviceStatus {
		t.service, t.action = serviceStatus, "overview"
		t.result, t.outcome = a.Overview(ctx), outcomeOK
		return nil
	}

	name := in.Service
	if name == "" && a.registry.Len() == 1 {
		name = a.registry.List()[0].Name()
	}
	svc, err := a.registry.Get(name)
	if err != nil {
		logger.L.Debug("reply names no known service", "service", in.Service)
		t.result, t.outcome = t.reply, outcomeRaw
		return nil
	}
	t.service, t.action = svc.Name(), in.Action

	logger.L.Info("executing action", "service", t.service, "action", t.action)
	out, err := svc.Execute(ctx, in.Action, in.Args)
	if errors.Is(err, workspace.ErrUnknownAction) {
		t.result, t.outcome = t.reply, outcomeRaw
		return nil
	}
	if err != nil {
		logger.L.Error("action failed", "service", t.service, "action", t.action, "error", err)
		return err
	}
	t.result, t.outcome = out, outcomeOK
	return nil
}

// Quick answers inputs that need no AI call: help, status and the list
// shortcuts of each service. The second result reports whether input was
// handled.
func (a *Agent) Quick(ctx context.Context, input string) (string, bool) {
	cmd := strings.ToLower(strings.TrimSpace(input))
	switch cmd {
	case "help", "?":
		return a.Help(), true
	case "status", "overview", "summary":
		return a.status(ctx, "QUICK STATUS"), true
	}

	svc, ok := a.shortcut(cmd)
	if !ok {
		return "", false
	}
	out, err := svc.Execute(ctx, "list", nil)
	outcome := outcomeOK
	if err != nil {
		logger.L.Error("shortcut failed", "service", svc.Name(), "error", err)
		out, outcome = "Error: "+err.Error(), jobclient.Kind(err)
	}
	metrics.IncreaseRequestsTotal(svc.Name(), "list", outcome)
	a.record(ctx, history.RoleUser, input, "")
	a.record(ctx, history.RoleAssistant, out, outcome)
	return out, true
}

func (a *Agent) shortcut(cmd string) (workspace.Service, bool) {
	services := a.registry.List()
	for _, svc := range services {
		if cmd == svc.Name() || cmd == "show "+svc.Name() {
			return svc, true
		}
		if len(services) > 1 {
			continue
		}
		for _, s := range svc.Shortcuts() {
			if cmd == s {
				return svc, true
			}
		}
	}
	return nil, false
}

// IsExit reports whether input ends a conversation.
func IsExit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "quit", "exit", "q":
		return true
	}
	return false
}

// Help lists the registered services.
func (a *Agent) Help() string {
	var b strings.Builder
	b.WriteString("Available services:\n")
	for _, svc := range a.registry.List() {
		fmt.Fprintf(&b, "  %-9s- %s\n", svc.Name(), svc.Description())
	}
	b.WriteString("\nJust ask naturally - I'll figure out what you need!")
	return b.String()
}

// Overview is the full status report returned for the status intent.
func (a *Agent) Overview(ctx context.Context) string {
	return a.status(ctx, "WORKSPACE STATUS")
}

func (a *Agent) status(ctx context.Context, heading string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n", heading)
	fmt.Fprintf(&b, "Date: %s\n\n", a.now().Format("2006-01-02 15:04"))
	for _, svc := range a.registry.List() {
		s, ok := svc.(workspace.Summarizer)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", strings.ToUpper(svc.Title()))
		line, err := s.Summary(ctx)
		if err != nil {
			logger.L.Warn("summary failed", "service", svc.Name(), "error", err)
			line = "Connected"
		}
		b.WriteString(indent(line))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// statusContext builds the "Quick Status" lines of the prompt.
func (a *Agent) statusContext(ctx context.Context) string {
	lines := make([]string, 0, a.registry.Len())
	for _, svc := range a.registry.List() {
		line := "Connected"
		if s, ok := svc.(workspace.Summarizer); ok {
			if summary, err := s.Summary(ctx); err == nil {
				line = clip(strings.TrimSpace(summary), summaryLimit)
			} else {
				logger.L.Warn("summary failed", "service", svc.Name(), "error", err)
			}
		}
		lines = append(lines, svc.Title()+": "+line)
	}
	return strings.Join(lines, "\n")
}

func (a *Agent) buildPrompt(input, status string) string {
	services := a.registry.List()
	titles := make([]string, 0, len(services))
	for _, svc := range services {
		titles = append(titles, svc.Title())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a Google Workspace assistant managing: %s.\n\n", joinTitles(titles))
	fmt.Fprintf(&b, "Today is %s.\n\n", a.now().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Quick Status:\n%s\n\n", status)
	fmt.Fprintf(&b, "User request: %q\n\n", input)
	b.WriteString("Analyze the request and determine which service to use. Respond with ONE JSON:\n\n")
	for _, svc := range services {
		fmt.Fprintf(&b, "For %s operations:\n", strings.ToUpper(svc.Title()))
		for _, act := range svc.Actions() {
			b.WriteString(act.Example(svc.Name()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("For status/overview:\n")
	b.WriteString(`{"service": "status", "action": "overview"}` + "\n\n")
	b.WriteString("For general chat:\n")
	b.WriteString(`{"service": "chat", "response": "your helpful response"}` + "\n\n")
	b.WriteString("Only respond with the JSON, nothing else.")
	return b.String()
}

func (a *Agent) record(ctx context.Context, role, content, outcome string) {
	if a.history == nil {
		return
	}
	a.history.Save(history.Message{
		SessionID: sessionFrom(ctx),
		Role:      role,
		Content:   content,
		Outcome:   outcome,
		CreatedAt: a.now(),
	})
}

func joinTitles(titles []string) string {
	switch len(titles) {
	case 0:
		return "nothing"
	case 1:
		return titles[0]
	case 2:
		return titles[0] + " and " + titles[1]
	}
	return strings.Join(titles[:len(titles)-1], ", ") + ", and " + titles[len(titles)-1]
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if !strings.HasPrefix(l, "  ") {
			lines[i] = "  " + l
		}
	}
	return strings.Join(lines, "\n")
}

func labelOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
