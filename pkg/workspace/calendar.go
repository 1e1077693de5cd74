package workspace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/priyanshu1677/agentic-ai/internal/intent"
)

const dateLayout = "2006-01-02"

// Event is an entry of the primary calendar. Start holds either a date or an
// RFC 3339 timestamp.
type Event struct {
	ID      string
	Summary string
	Start   string
}

// CalendarAPI is the subset of Google Calendar the calendar service needs.
type CalendarAPI interface {
	Upcoming(ctx context.Context, from time.Time, max int) ([]Event, error)
	CreateAllDay(ctx context.Context, summary, startDate, endDate string) (Event, error)
	Delete(ctx context.Context, id string) error
}

// Calendar manages events of the primary calendar.
type Calendar struct {
	api CalendarAPI
	now func() time.Time
}

func NewCalendar(api CalendarAPI) *Calendar {
	return &Calendar{api: api, now: time.Now}
}

func (c *Calendar) Name() string  { return "calendar" }
func (c *Calendar) Title() string { return "Calendar" }

func (c *Calendar) Description() string {
	return "Manage events on your primary Google Calendar."
}

func (c *Calendar) Shortcuts() []string {
	return []string{"list", "events", "show events", "show my events"}
}

func (c *Calendar) Actions() []Action {
	return []Action{
		{Name: "list", Description: "List upcoming events"},
		{Name: "create", Description: "Create an all-day event", Params: []Param{
			{Name: "title", Example: "Event name", Required: true},
			{Name: "date", Example: "YYYY-MM-DD", Required: true},
		}},
		{Name: "delete", Description: "Delete the first upcoming event whose title matches", Params: []Param{
			{Name: "title", Example: "event name to search for", Required: true},
		}},
	}
}

func (c *Calendar) Execute(ctx context.Context, action string, args intent.Args) (string, error) {
	switch action {
	case "list":
		return c.list(ctx, 10)
	case "create":
		return c.create(ctx, args.StringOr("title", "Event"), args.String("date"))
	case "delete":
		title := args.String("title")
		if title == "" {
			return "Which event do you want to delete?", nil
		}
		return c.deleteByName(ctx, title)
	default:
		return "", fmt.Errorf("%w: calendar %s", ErrUnknownAction, action)
	}
}

func (c *Calendar) Summary(ctx context.Context) (string, error) {
	return c.list(ctx, 3)
}

func (c *Calendar) list(ctx context.Context, max int) (string, error) {
	events, err := c.api.Upcoming(ctx, c.now(), max)
	if err != nil {
		return "", fmt.Errorf("list events: %w", err)
	}
	if len(events) == 0 {
		return "No upcoming events found.", nil
	}

	var b strings.Builder
	b.WriteString("Your upcoming events:\n")
	for i, ev := range events {
		summary := ev.Summary
		if summary == "" {
			summary = "No title"
		}
		fmt.Fprintf(&b, "  %d. %s - %s\n", i+1, truncate(ev.Start, 10), summary)
	}
	return b.String(), nil
}

func (c *Calendar) create(ctx context.Context, title, date string) (string, error) {
	start, err := time.Parse(dateLayout, date)
	if err != nil {
		return "I couldn't understand the date. Please specify like: 'schedule Meeting on 2026-02-05'", nil
	}
	end := start.AddDate(0, 0, 1).Format(dateLayout)
	if _, err := c.api.CreateAllDay(ctx, title, date, end); err != nil {
		return "", fmt.Errorf("create event: %w", err)
	}
	return fmt.Sprintf("Done! Created '%s' for %s", title, date), nil
}

func (c *Calendar) deleteByName(ctx context.Context, name string) (string, error) {
	events, err := c.api.Upcoming(ctx, c.now(), 100)
	if err != nil {
		return "", fmt.Errorf("list events: %w", err)
	}
	needle := strings.ToLower(name)
	for _, ev := range events {
		if strings.Contains(strings.ToLower(ev.Summary), needle) {
			if err := c.api.Delete(ctx, ev.ID); err != nil {
				return "", fmt.Errorf("delete event %s: %w", ev.ID, err)
			}
			return fmt.Sprintf("Deleted '%s'", ev.Summary), nil
		}
	}
	return fmt.Sprintf("Could not find event matching '%s'", name), nil
}
