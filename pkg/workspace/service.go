// Package workspace exposes Google Workspace operations as named services
// with a fixed menu of actions that an AI reply can select.
package workspace

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/priyanshu1677/agentic-ai/internal/intent"
)

// ErrUnknownAction is returned by Execute for an action the service does not offer.
var ErrUnknownAction = errors.New("unknown action")

// ParamKind is the JSON type of an action parameter.
type ParamKind string

const (
	ParamString ParamKind = "string"
	ParamNumber ParamKind = "number"
)

// Param describes one field of an action.
type Param struct {
	Name        string
	Description string
	Kind        ParamKind
	Required    bool
	// Example is the placeholder shown to the model.
	Example string
}

// Action is one operation of a service.
type Action struct {
	Name        string
	Description string
	Params      []Param
}

// Example renders the JSON line the model should reply with to select a.
func (a Action) Example(service string) string {
	var b strings.Builder
	b.WriteString(`{"service": `)
	b.WriteString(strconv.Quote(service))
	b.WriteString(`, "action": `)
	b.WriteString(strconv.Quote(a.Name))
	for _, p := range a.Params {
		b.WriteString(", ")
		b.WriteString(strconv.Quote(p.Name))
		b.WriteString(": ")
		if p.Kind == ParamNumber {
			b.WriteString(p.Example)
		} else {
			b.WriteString(strconv.Quote(p.Example))
		}
	}
	b.WriteString("}")
	return b.String()
}

// Service is the interface for all workspace services
type Service interface {
	Name() string
	Title() string
	Description() string
	Actions() []Action
	// Shortcuts are inputs answered by the list action without calling the AI.
	Shortcuts() []string
	Execute(ctx context.Context, action string, args intent.Args) (string, error)
}

// Summarizer is implemented by services that contribute a status line to
// the prompt context and the overview.
type Summarizer interface {
	Summary(ctx context.Context) (string, error)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// pick returns items[index-1] for a 1-based index.
func pick[T any](items []T, index int) (T, bool) {
	var zero T
	if index < 1 || index > len(items) {
		return zero, false
	}
	return items[index-1], true
}
