// Package intent decodes the JSON command an AI reply is asked to contain.
package intent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoIntent means the reply held no decodable JSON object.
var ErrNoIntent = errors.New("reply contains no JSON intent")

// Intent is a routed command: which service, which action, and the remaining
// fields as arguments.
type Intent struct {
	Service string
	Action  string
	Args    Args
}

// Parse extracts the outermost {...} span of reply and decodes it.
func Parse(reply string) (Intent, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return Intent{}, ErrNoIntent
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return Intent{}, fmt.Errorf("%w: %v", ErrNoIntent, err)
	}

	args := Args(raw)
	in := Intent{
		Service: strings.ToLower(args.String("service")),
		Action:  strings.ToLower(args.String("action")),
		Args:    args,
	}
	return in, nil
}

// Args holds the fields of an intent.
type Args map[string]any

// Has reports whether key is present and not null.
func (a Args) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

// String returns the value of key as text. Numbers are formatted, missing or
// null values yield "".
func (a Args) String(key string) string {
	switch v := a[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// StringOr returns String(key), or def when it is empty.
func (a Args) StringOr(key, def string) string {
	if s := a.String(key); s != "" {
		return s
	}
	return def
}

// Int returns key as an integer. JSON numbers and numeric strings are
// accepted; ok is false otherwise.
func (a Args) Int(key string) (int, bool) {
	switch v := a[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// IntOr returns Int(key), or def when it is absent or not positive.
func (a Args) IntOr(key string, def int) int {
	if n, ok := a.Int(key); ok && n > 0 {
		return n
	}
	return def
}
