package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/priyanshu1677/agentic-ai/internal/intent"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func TestActionExample(t *testing.T) {
	a := Action{Name: "read", Params: []Param{
		{Name: "index", Kind: ParamNumber, Example: "1"},
		{Name: "note", Example: `say "hi"`},
	}}
	ex := a.Example("gmail")
	require.Equal(t, `{"service": "gmail", "action": "read", "index": 1, "note": "say \"hi\""}`, ex)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(ex), &decoded))
}

func TestRegistry(t *testing.T) {
	cal, tasks := NewCalendar(&fakeCalendar{}), NewTasks(&fakeTasks{})
	reg := NewRegistry(cal, tasks)
	reg.Register(NewCalendar(&fakeCalendar{}))

	require.Equal(t, 2, reg.Len())
	names := []string{}
	for _, s := range reg.List() {
		names = append(names, s.Name())
	}
	require.Equal(t, []string{"calendar", "tasks"}, names)

	_, err := reg.Get("forms")
	require.ErrorContains(t, err, "service not found")

	only, err := reg.Only("tasks")
	require.NoError(t, err)
	require.Equal(t, 1, only.Len())
}

func TestCalendar(t *testing.T) {
	ctx := context.Background()
	api := &fakeCalendar{events: []Event{
		{ID: "1", Summary: "Mela Event", Start: "2026-02-05"},
		{ID: "2", Summary: "", Start: "2026-02-06T10:00:00Z"},
	}}
	cal := NewCalendar(api)

	out, err := cal.Execute(ctx, "list", nil)
	require.NoError(t, err)
	require.Equal(t, "Your upcoming events:\n  1. 2026-02-05 - Mela Event\n  2. 2026-02-06 - No title\n", out)
	require.Equal(t, 10, api.max)

	out, err = cal.Execute(ctx, "create", intent.Args{"title": "Rahul", "date": "2026-02-28"})
	require.NoError(t, err)
	require.Equal(t, "Done! Created 'Rahul' for 2026-02-28", out)
	require.Equal(t, "2026-02-28/2026-03-01", api.created[0].Start)

	out, err = cal.Execute(ctx, "create", intent.Args{"title": "Rahul", "date": "in two days"})
	require.NoError(t, err)
	require.Contains(t, out, "couldn't understand the date")

	out, err = cal.Execute(ctx, "delete", intent.Args{"title": "mela"})
	require.NoError(t, err)
	require.Equal(t, "Deleted 'Mela Event'", out)
	require.Equal(t, []string{"1"}, api.deleted)
	require.Equal(t, 100, api.max)

	out, err = cal.Execute(ctx, "delete", intent.Args{"title": "Party"})
	require.NoError(t, err)
	require.Equal(t, "Could not find event matching 'Party'", out)

	out, err = cal.Execute(ctx, "delete", intent.Args{})
	require.NoError(t, err)
	require.Equal(t, "Which event do you want to delete?", out)

	_, err = cal.Execute(ctx, "move", nil)
	require.ErrorIs(t, err, ErrUnknownAction)

	summary, err := cal.Summary(ctx)
	require.NoError(t, err)
	require.Contains(t, summary, "Mela Event")
	require.Equal(t, 3, api.max)
}

func TestCalendar_Empty(t *testing.T) {
	out, err := NewCalendar(&fakeCalendar{}).Execute(context.Background(), "list", nil)
	require.NoError(t, err)
	require.Equal(t, "No upcoming events found.", out)

	boom := errors.New("boom")
	_, err = NewCalendar(&fakeCalendar{err: boom}).Execute(context.Background(), "list", nil)
	require.ErrorIs(t, err, boom)
}

func TestGmail(t *testing.T) {
	ctx := context.Background()
	api := &fakeGmail{
		messages: []Message{
			{ID: "a", From: "alice@example.com", Subject: "Lunch?", Date: "Mon, 2 Feb 2026 10:00:00 +0000", Body: "Noon works"},
			{ID: "b", Subject: "", Body: ""},
		},
		unread: 4,
		labels: []string{"INBOX", "Work"},
	}
	g := NewGmail(api)

	out, err := g.Execute(ctx, "list", intent.Args{"count": float64(1)})
	require.NoError(t, err)
	require.Equal(t, "Found 1 message(s):\n  1. Lunch?\n     From: alice@example.com | Mon, 2 Feb 2026 \n", out)

	_, err = g.Execute(ctx, "unread", nil)
	require.NoError(t, err)
	require.Equal(t, "is:unread", api.queries[len(api.queries)-1])

	out, err = g.Execute(ctx, "read", intent.Args{"index": float64(1)})
	require.NoError(t, err)
	require.Contains(t, out, "Subject: Lunch?\nFrom: alice@example.com")
	require.True(t, strings.HasSuffix(out, "\n\nNoon works"))

	out, err = g.Execute(ctx, "read", intent.Args{"index": float64(2)})
	require.NoError(t, err)
	require.Contains(t, out, "Subject: No subject")
	require.Contains(t, out, "No body content")

	out, err = g.Execute(ctx, "read", intent.Args{"index": float64(9)})
	require.NoError(t, err)
	require.Equal(t, "Could not find that email.", out)

	out, err = g.Execute(ctx, "send", intent.Args{"to": "bob@example.com", "subject": "Hi"})
	require.NoError(t, err)
	require.Equal(t, "Email sent to bob@example.com with subject 'Hi'", out)
	require.Equal(t, []string{"bob@example.com|Hi|"}, api.sent)

	out, err = g.Execute(ctx, "send", intent.Args{"to": "bob@example.com"})
	require.NoError(t, err)
	require.Equal(t, "Need recipient and subject to send email.", out)

	out, err = g.Execute(ctx, "trash", intent.Args{"index": "2"})
	require.NoError(t, err)
	require.Equal(t, "Message moved to trash.", out)
	require.Equal(t, []string{"b"}, api.trashed)

	out, err = g.Execute(ctx, "labels", nil)
	require.NoError(t, err)
	require.Equal(t, "Your labels:\n  - INBOX\n  - Work\n", out)

	out, err = g.Execute(ctx, "search", intent.Args{"query": "lunch"})
	require.NoError(t, err)
	require.Contains(t, out, "for 'lunch'")

	summary, err := g.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, "4 unread emails", summary)
}

func TestTasks(t *testing.T) {
	ctx := context.Background()
	api := &fakeTasks{
		tasks: []Task{
			{ID: "1", Title: "Buy groceries", Due: "2026-02-05T00:00:00.000Z"},
			{ID: "2", Title: "File taxes", Status: taskCompleted},
			{ID: "3", Title: "Call mom"},
		},
		lists: []TaskList{{ID: "@default", Title: "My Tasks"}},
	}
	svc := NewTasks(api)

	out, err := svc.Execute(ctx, "list", nil)
	require.NoError(t, err)
	require.Equal(t, "Your tasks (2):\n  1. [ ] Buy groceries (due: 2026-02-05)\n  2. [ ] Call mom\n", out)

	out, err = svc.Execute(ctx, "list_all", nil)
	require.NoError(t, err)
	require.Contains(t, out, "[x] File taxes")

	out, err = svc.Execute(ctx, "create", intent.Args{"title": "Renew passport", "due": "2026-03-01"})
	require.NoError(t, err)
	require.Equal(t, "Created task: 'Renew passport'", out)
	require.Equal(t, "2026-03-01T00:00:00.000Z", api.inserted[0].Due)

	_, err = svc.Execute(ctx, "create", intent.Args{"title": "No due", "due": nil})
	require.NoError(t, err)
	require.Empty(t, api.inserted[1].Due)

	out, err = svc.Execute(ctx, "create", intent.Args{})
	require.NoError(t, err)
	require.Equal(t, "Need a task title.", out)

	out, err = svc.Execute(ctx, "complete", intent.Args{"title": "mom"})
	require.NoError(t, err)
	require.Equal(t, "Completed: 'Call mom'", out)
	require.Equal(t, []string{"3"}, api.completed)

	out, err = svc.Execute(ctx, "complete", intent.Args{"index": float64(1)})
	require.NoError(t, err)
	require.Equal(t, "Completed: 'Buy groceries'", out)

	out, err = svc.Execute(ctx, "complete", intent.Args{})
	require.NoError(t, err)
	require.Equal(t, "Need task index or title to complete.", out)

	out, err = svc.Execute(ctx, "complete", intent.Args{"title": "nothing like this"})
	require.NoError(t, err)
	require.Equal(t, "Could not find that task.", out)

	out, err = svc.Execute(ctx, "delete", intent.Args{"index": float64(2)})
	require.NoError(t, err)
	require.Equal(t, "Task deleted.", out)
	require.Equal(t, []string{"2"}, api.deleted)

	out, err = svc.Execute(ctx, "clear_completed", nil)
	require.NoError(t, err)
	require.True(t, api.cleared)
	require.Equal(t, "Cleared all completed tasks.", out)

	out, err = svc.Execute(ctx, "list_lists", nil)
	require.NoError(t, err)
	require.Equal(t, "Your task lists:\n  1. My Tasks\n", out)

	out, err = svc.Execute(ctx, "create_list", intent.Args{})
	require.NoError(t, err)
	require.Equal(t, "Created task list: 'New List'", out)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, "2 pending tasks", summary)
}

func TestDrive(t *testing.T) {
	ctx := context.Background()
	api := &fakeDrive{files: []File{
		{ID: "d1", Name: "Budget 2026", MimeType: "application/vnd.google-apps.spreadsheet", ModifiedTime: "2026-01-30T12:00:00Z"},
		{ID: "d2", Name: "photo.png", MimeType: "image/png", ModifiedTime: "2026-01-29T12:00:00Z"},
	}}
	d := NewDrive(api)

	out, err := d.Execute(ctx, "list", nil)
	require.NoError(t, err)
	require.Contains(t, out, "Your files (2):\n  1. Budget 2026\n     Type: spreadsheet | Modified: 2026-01-30\n")
	require.Contains(t, out, "Type: image/png")

	out, err = d.Execute(ctx, "search", intent.Args{"query": "budget"})
	require.NoError(t, err)
	require.Equal(t, "Found 1 file(s) matching 'budget':\n  1. Budget 2026\n", out)

	out, err = d.Execute(ctx, "search", intent.Args{"query": "zzz"})
	require.NoError(t, err)
	require.Equal(t, "No files found matching 'zzz'.", out)

	out, err = d.Execute(ctx, "create_folder", intent.Args{"name": "Projects"})
	require.NoError(t, err)
	require.Equal(t, "Created folder 'Projects'", out)

	out, err = d.Execute(ctx, "delete", intent.Args{"index": float64(2)})
	require.NoError(t, err)
	require.Equal(t, "Deleted 'photo.png'", out)
	require.Equal(t, []string{"d2"}, api.trashed)

	out, err = d.Execute(ctx, "share", intent.Args{"name": "budget", "email": "cfo@example.com"})
	require.NoError(t, err)
	require.Equal(t, "Shared file with cfo@example.com as reader", out)
	require.Equal(t, []string{"d1|cfo@example.com|reader"}, api.shared)

	out, err = d.Execute(ctx, "share", intent.Args{"index": float64(1)})
	require.NoError(t, err)
	require.Equal(t, "Need file and email to share.", out)
}

func TestScopes(t *testing.T) {
	s, err := Scopes([]string{"calendar", "tasks"})
	require.NoError(t, err)
	require.Equal(t, []string{calendar.CalendarScope, "https://www.googleapis.com/auth/tasks"}, s)

	_, err = Scopes([]string{"forms"})
	require.Error(t, err)
}

func TestGoogleCalendar_Upcoming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/calendars/primary/events", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("singleEvents"))
		require.Equal(t, "startTime", r.URL.Query().Get("orderBy"))
		require.Equal(t, "5", r.URL.Query().Get("maxResults"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":"e1","summary":"Standup","start":{"dateTime":"2026-02-05T09:00:00Z"}},
			{"id":"e2","summary":"Holiday","start":{"date":"2026-02-06"}}
		]}`))
	}))
	t.Cleanup(srv.Close)

	svc, err := calendar.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	events, err := NewGoogleCalendar(svc).Upcoming(context.Background(), time.Now(), 5)
	require.NoError(t, err)
	require.Equal(t, []Event{
		{ID: "e1", Summary: "Standup", Start: "2026-02-05T09:00:00Z"},
		{ID: "e2", Summary: "Holiday", Start: "2026-02-06"},
	}, events)
}
