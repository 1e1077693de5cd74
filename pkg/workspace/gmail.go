package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/priyanshu1677/agentic-ai/internal/intent"
)

// Message is a mailbox message. Body is only filled by GmailAPI.Get.
type Message struct {
	ID      string
	From    string
	Subject string
	Date    string
	Body    string
}

// GmailAPI is the subset of Gmail the gmail service needs.
type GmailAPI interface {
	List(ctx context.Context, query string, max int) ([]Message, error)
	Get(ctx context.Context, id string) (Message, error)
	UnreadCount(ctx context.Context) (int, error)
	Send(ctx context.Context, to, subject, body string) error
	Trash(ctx context.Context, id string) error
	Labels(ctx context.Context) ([]string, error)
}

// Gmail reads and sends mail for the signed-in user.
type Gmail struct {
	api GmailAPI
}

func NewGmail(api GmailAPI) *Gmail {
	return &Gmail{api: api}
}

func (g *Gmail) Name() string  { return "gmail" }
func (g *Gmail) Title() string { return "Gmail" }

func (g *Gmail) Description() string {
	return "Read, search, send and trash Gmail messages."
}

func (g *Gmail) Shortcuts() []string {
	return []string{"list", "inbox", "emails", "show emails"}
}

func (g *Gmail) Actions() []Action {
	return []Action{
		{Name: "list", Description: "List recent messages", Params: []Param{
			{Name: "query", Example: "optional search query"},
			{Name: "count", Kind: ParamNumber, Example: "10"},
		}},
		{Name: "unread", Description: "List unread messages"},
		{Name: "search", Description: "Search messages", Params: []Param{
			{Name: "query", Example: "search terms", Required: true},
		}},
		{Name: "read", Description: "Read the message at a list position", Params: []Param{
			{Name: "index", Kind: ParamNumber, Example: "1", Required: true},
		}},
		{Name: "send", Description: "Send an email", Params: []Param{
			{Name: "to", Example: "email@example.com", Required: true},
			{Name: "subject", Example: "Subject here", Required: true},
			{Name: "body", Example: "Email body here"},
		}},
		{Name: "trash", Description: "Move the message at a list position to trash", Params: []Param{
			{Name: "index", Kind: ParamNumber, Example: "1", Required: true},
		}},
		{Name: "labels", Description: "List mailbox labels"},
	}
}

func (g *Gmail) Execute(ctx context.Context, action string, args intent.Args) (string, error) {
	switch action {
	case "list":
		return g.list(ctx, args.String("query"), args.IntOr("count", 10))
	case "unread":
		return g.list(ctx, "is:unread", 10)
	case "search":
		return g.search(ctx, args.String("query"))
	case "read":
		return g.read(ctx, args.IntOr("index", 1))
	case "send":
		to, subject := args.String("to"), args.String("subject")
		if to == "" || subject == "" {
			return "Need recipient and subject to send email.", nil
		}
		if err := g.api.Send(ctx, to, subject, args.String("body")); err != nil {
			return "", fmt.Errorf("send email: %w", err)
		}
		return fmt.Sprintf("Email sent to %s with subject '%s'", to, subject), nil
	case "trash":
		msg, ok, err := g.byIndex(ctx, args.IntOr("index", 1))
		if err != nil {
			return "", err
		}
		if !ok {
			return "Could not find that email.", nil
		}
		if err := g.api.Trash(ctx, msg.ID); err != nil {
			return "", fmt.Errorf("trash message %s: %w", msg.ID, err)
		}
		return "Message moved to trash.", nil
	case "labels":
		return g.labels(ctx)
	default:
		return "", fmt.Errorf("%w: gmail %s", ErrUnknownAction, action)
	}
}

func (g *Gmail) Summary(ctx context.Context) (string, error) {
	n, err := g.api.UnreadCount(ctx)
	if err != nil {
		return "", fmt.Errorf("count unread: %w", err)
	}
	return fmt.Sprintf("%d unread emails", n), nil
}

func (g *Gmail) list(ctx context.Context, query string, max int) (string, error) {
	msgs, err := g.api.List(ctx, query, max)
	if err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}
	if len(msgs) == 0 {
		return "No messages found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d message(s):\n", len(msgs))
	for i, m := range msgs {
		fmt.Fprintf(&b, "  %d. %s\n     From: %s | %s\n", i+1,
			truncate(orDefault(m.Subject, "No subject"), 50),
			truncate(orDefault(m.From, "Unknown"), 40),
			truncate(m.Date, 16))
	}
	return b.String(), nil
}

func (g *Gmail) search(ctx context.Context, query string) (string, error) {
	msgs, err := g.api.List(ctx, query, 10)
	if err != nil {
		return "", fmt.Errorf("search messages: %w", err)
	}
	if len(msgs) == 0 {
		return fmt.Sprintf("No messages found matching '%s'.", query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d message(s) for '%s':\n", len(msgs), query)
	for i, m := range msgs {
		fmt.Fprintf(&b, "  %d. %s\n     From: %s\n", i+1,
			truncate(orDefault(m.Subject, "No subject"), 50),
			truncate(orDefault(m.From, "Unknown"), 40))
	}
	return b.String(), nil
}

func (g *Gmail) read(ctx context.Context, index int) (string, error) {
	ref, ok, err := g.byIndex(ctx, index)
	if err != nil {
		return "", err
	}
	if !ok {
		return "Could not find that email.", nil
	}
	msg, err := g.api.Get(ctx, ref.ID)
	if err != nil {
		return "", fmt.Errorf("read message %s: %w", ref.ID, err)
	}
	body := truncate(msg.Body, 1000)
	if body == "" {
		body = "No body content"
	}
	return fmt.Sprintf("Subject: %s\nFrom: %s\nDate: %s\n\n%s",
		orDefault(msg.Subject, "No subject"),
		orDefault(msg.From, "Unknown"),
		orDefault(msg.Date, "Unknown"),
		body), nil
}

func (g *Gmail) byIndex(ctx context.Context, index int) (Message, bool, error) {
	msgs, err := g.api.List(ctx, "", 20)
	if err != nil {
		return Message{}, false, fmt.Errorf("list messages: %w", err)
	}
	m, ok := pick(msgs, index)
	return m, ok, nil
}

func (g *Gmail) labels(ctx context.Context) (string, error) {
	labels, err := g.api.Labels(ctx)
	if err != nil {
		return "", fmt.Errorf("list labels: %w", err)
	}
	var b strings.Builder
	b.WriteString("Your labels:\n")
	for _, l := range labels {
		fmt.Fprintf(&b, "  - %s\n", l)
	}
	return b.String(), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
