package workspace

import (
	"context"
	"time"
)

type fakeCalendar struct {
	events  []Event
	err     error
	created []Event
	deleted []string
	max     int
}

func (f *fakeCalendar) Upcoming(ctx context.Context, from time.Time, max int) ([]Event, error) {
	f.max = max
	if f.err != nil {
		return nil, f.err
	}
	if len(f.events) > max {
		return f.events[:max], nil
	}
	return f.events, nil
}

func (f *fakeCalendar) CreateAllDay(ctx context.Context, summary, startDate, endDate string) (Event, error) {
	ev := Event{ID: "new", Summary: summary, Start: startDate + "/" + endDate}
	f.created = append(f.created, ev)
	return ev, f.err
}

func (f *fakeCalendar) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

type fakeGmail struct {
	messages []Message
	unread   int
	labels   []string
	queries  []string
	sent     []string
	trashed  []string
	err      error
}

func (f *fakeGmail) List(ctx context.Context, query string, max int) ([]Message, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.messages) > max {
		return f.messages[:max], nil
	}
	return f.messages, nil
}

func (f *fakeGmail) Get(ctx context.Context, id string) (Message, error) {
	for _, m := range f.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return Message{}, f.err
}

func (f *fakeGmail) UnreadCount(ctx context.Context) (int, error) { return f.unread, f.err }

func (f *fakeGmail) Send(ctx context.Context, to, subject, body string) error {
	f.sent = append(f.sent, to+"|"+subject+"|"+body)
	return f.err
}

func (f *fakeGmail) Trash(ctx context.Context, id string) error {
	f.trashed = append(f.trashed, id)
	return f.err
}

func (f *fakeGmail) Labels(ctx context.Context) ([]string, error) { return f.labels, f.err }

type fakeTasks struct {
	tasks     []Task
	lists     []TaskList
	inserted  []Task
	completed []string
	deleted   []string
	cleared   bool
	err       error
}

func (f *fakeTasks) List(ctx context.Context, listID string, showCompleted bool) ([]Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	if showCompleted {
		return f.tasks, nil
	}
	var out []Task
	for _, t := range f.tasks {
		if !t.Done() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) Insert(ctx context.Context, listID string, task Task) (Task, error) {
	f.inserted = append(f.inserted, task)
	return task, f.err
}

func (f *fakeTasks) Complete(ctx context.Context, listID, id string) (Task, error) {
	f.completed = append(f.completed, id)
	for _, t := range f.tasks {
		if t.ID == id {
			t.Status = taskCompleted
			return t, f.err
		}
	}
	return Task{}, f.err
}

func (f *fakeTasks) Delete(ctx context.Context, listID, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeTasks) ClearCompleted(ctx context.Context, listID string) error {
	f.cleared = true
	return f.err
}

func (f *fakeTasks) Lists(ctx context.Context) ([]TaskList, error) { return f.lists, f.err }

func (f *fakeTasks) InsertList(ctx context.Context, title string) (TaskList, error) {
	return TaskList{ID: "l", Title: title}, f.err
}

type fakeDrive struct {
	files   []File
	folders []string
	trashed []string
	shared  []string
	err     error
}

func (f *fakeDrive) Recent(ctx context.Context, max int) ([]File, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.files) > max {
		return f.files[:max], nil
	}
	return f.files, nil
}

func (f *fakeDrive) Search(ctx context.Context, query string, max int) ([]File, error) {
	var out []File
	for _, file := range f.files {
		if len(out) < max && containsFold(file.Name, query) {
			out = append(out, file)
		}
	}
	return out, f.err
}

func (f *fakeDrive) CreateFolder(ctx context.Context, name string) (File, error) {
	f.folders = append(f.folders, name)
	return File{ID: "folder", Name: name, MimeType: folderMimeType}, f.err
}

func (f *fakeDrive) Trash(ctx context.Context, id string) error {
	f.trashed = append(f.trashed, id)
	return f.err
}

func (f *fakeDrive) Share(ctx context.Context, id, email, role string) error {
	f.shared = append(f.shared, id+"|"+email+"|"+role)
	return f.err
}
