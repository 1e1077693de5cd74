package workspace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/priyanshu1677/agentic-ai/internal/intent"
)

const (
	defaultTaskList = "@default"
	taskCompleted   = "completed"
)

// Task is an item of a task list. Due is an RFC 3339 timestamp.
type Task struct {
	ID     string
	Title  string
	Notes  string
	Status string
	Due    string
}

// Done reports whether the task is completed.
func (t Task) Done() bool { return t.Status == taskCompleted }

// TaskList is a named list of tasks.
type TaskList struct {
	ID    string
	Title string
}

// TasksAPI is the subset of Google Tasks the tasks service needs.
type TasksAPI interface {
	List(ctx context.Context, listID string, showCompleted bool) ([]Task, error)
	Insert(ctx context.Context, listID string, task Task) (Task, error)
	Complete(ctx context.Context, listID, id string) (Task, error)
	Delete(ctx context.Context, listID, id string) error
	ClearCompleted(ctx context.Context, listID string) error
	Lists(ctx context.Context) ([]TaskList, error)
	InsertList(ctx context.Context, title string) (TaskList, error)
}

// Tasks manages the default task list.
type Tasks struct {
	api TasksAPI
}

func NewTasks(api TasksAPI) *Tasks {
	return &Tasks{api: api}
}

func (t *Tasks) Name() string  { return "tasks" }
func (t *Tasks) Title() string { return "Tasks" }

func (t *Tasks) Description() string {
	return "Manage your Google Tasks to-do list."
}

func (t *Tasks) Shortcuts() []string {
	return []string{"list", "tasks", "show tasks", "my tasks"}
}

func (t *Tasks) Actions() []Action {
	return []Action{
		{Name: "list", Description: "List pending tasks"},
		{Name: "list_all", Description: "List tasks including completed ones"},
		{Name: "create", Description: "Create a task", Params: []Param{
			{Name: "title", Example: "Task title", Required: true},
			{Name: "notes", Example: "optional notes"},
			{Name: "due", Example: "YYYY-MM-DD or null"},
		}},
		{Name: "complete", Description: "Complete a task by list position or partial title", Params: []Param{
			{Name: "index", Kind: ParamNumber, Example: "1"},
			{Name: "title", Example: "partial task title"},
		}},
		{Name: "delete", Description: "Delete the task at a list position", Params: []Param{
			{Name: "index", Kind: ParamNumber, Example: "1", Required: true},
		}},
		{Name: "clear_completed", Description: "Remove completed tasks"},
		{Name: "list_lists", Description: "List task lists"},
		{Name: "create_list", Description: "Create a task list", Params: []Param{
			{Name: "title", Example: "List name", Required: true},
		}},
	}
}

func (t *Tasks) Execute(ctx context.Context, action string, args intent.Args) (string, error) {
	switch action {
	case "list":
		return t.list(ctx, false)
	case "list_all":
		return t.list(ctx, true)
	case "create":
		title := args.String("title")
		if title == "" {
			return "Need a task title.", nil
		}
		return t.create(ctx, title, args.String("notes"), args.String("due"))
	case "complete":
		return t.complete(ctx, args)
	case "delete":
		task, ok, err := t.byIndex(ctx, args.IntOr("index", 1))
		if err != nil {
			return "", err
		}
		if !ok {
			return "Could not find that task.", nil
		}
		if err := t.api.Delete(ctx, defaultTaskList, task.ID); err != nil {
			return "", fmt.Errorf("delete task %s: %w", task.ID, err)
		}
		return "Task deleted.", nil
	case "clear_completed":
		if err := t.api.ClearCompleted(ctx, defaultTaskList); err != nil {
			return "", fmt.Errorf("clear completed: %w", err)
		}
		return "Cleared all completed tasks.", nil
	case "list_lists":
		return t.lists(ctx)
	case "create_list":
		created, err := t.api.InsertList(ctx, args.StringOr("title", "New List"))
		if err != nil {
			return "", fmt.Errorf("create task list: %w", err)
		}
		return fmt.Sprintf("Created task list: '%s'", created.Title), nil
	default:
		return "", fmt.Errorf("%w: tasks %s", ErrUnknownAction, action)
	}
}

func (t *Tasks) Summary(ctx context.Context) (string, error) {
	tasks, err := t.api.List(ctx, defaultTaskList, false)
	if err != nil {
		return "", fmt.Errorf("list tasks: %w", err)
	}
	pending := 0
	for _, task := range tasks {
		if !task.Done() {
			pending++
		}
	}
	return fmt.Sprintf("%d pending tasks", pending), nil
}

func (t *Tasks) list(ctx context.Context, showCompleted bool) (string, error) {
	tasks, err := t.api.List(ctx, defaultTaskList, showCompleted)
	if err != nil {
		return "", fmt.Errorf("list tasks: %w", err)
	}
	if len(tasks) == 0 {
		return "No tasks found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your tasks (%d):\n", len(tasks))
	for i, task := range tasks {
		icon := "[ ]"
		if task.Done() {
			icon = "[x]"
		}
		due := ""
		if task.Due != "" {
			due = fmt.Sprintf(" (due: %s)", truncate(task.Due, 10))
		}
		fmt.Fprintf(&b, "  %d. %s %s%s\n", i+1, icon, truncate(orDefault(task.Title, "Untitled"), 40), due)
	}
	return b.String(), nil
}

func (t *Tasks) create(ctx context.Context, title, notes, due string) (string, error) {
	task := Task{Title: title, Notes: notes}
	if due != "" && due != "null" {
		d, err := time.Parse(dateLayout, due)
		if err != nil {
			return fmt.Sprintf("I couldn't understand the due date '%s'. Use YYYY-MM-DD.", due), nil
		}
		task.Due = d.Format("2006-01-02T15:04:05.000Z")
	}
	created, err := t.api.Insert(ctx, defaultTaskList, task)
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	return fmt.Sprintf("Created task: '%s'", created.Title), nil
}

func (t *Tasks) complete(ctx context.Context, args intent.Args) (string, error) {
	var (
		task Task
		ok   bool
		err  error
	)
	switch {
	case args.Has("index"):
		task, ok, err = t.byIndex(ctx, args.IntOr("index", 0))
	case args.String("title") != "":
		task, ok, err = t.byTitle(ctx, args.String("title"))
	default:
		return "Need task index or title to complete.", nil
	}
	if err != nil {
		return "", err
	}
	if !ok {
		return "Could not find that task.", nil
	}

	done, err := t.api.Complete(ctx, defaultTaskList, task.ID)
	if err != nil {
		return "", fmt.Errorf("complete task %s: %w", task.ID, err)
	}
	return fmt.Sprintf("Completed: '%s'", orDefault(done.Title, task.Title)), nil
}

func (t *Tasks) byIndex(ctx context.Context, index int) (Task, bool, error) {
	tasks, err := t.api.List(ctx, defaultTaskList, true)
	if err != nil {
		return Task{}, false, fmt.Errorf("list tasks: %w", err)
	}
	task, ok := pick(tasks, index)
	return task, ok, nil
}

func (t *Tasks) byTitle(ctx context.Context, title string) (Task, bool, error) {
	tasks, err := t.api.List(ctx, defaultTaskList, true)
	if err != nil {
		return Task{}, false, fmt.Errorf("list tasks: %w", err)
	}
	needle := strings.ToLower(title)
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Title), needle) {
			return task, true, nil
		}
	}
	return Task{}, false, nil
}

func (t *Tasks) lists(ctx context.Context) (string, error) {
	lists, err := t.api.Lists(ctx)
	if err != nil {
		return "", fmt.Errorf("list task lists: %w", err)
	}
	if len(lists) == 0 {
		return "No task lists found.", nil
	}
	var b strings.Builder
	b.WriteString("Your task lists:\n")
	for i, l := range lists {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, l.Title)
	}
	return b.String(), nil
}
