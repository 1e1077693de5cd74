package workspace

import (
	"context"

	"google.golang.org/api/tasks/v1"
)

// GoogleTasks implements TasksAPI with the Tasks v1 API.
type GoogleTasks struct {
	svc *tasks.Service
}

func NewGoogleTasks(svc *tasks.Service) *GoogleTasks {
	return &GoogleTasks{svc: svc}
}

func (g *GoogleTasks) List(ctx context.Context, listID string, showCompleted bool) ([]Task, error) {
	res, err := g.svc.Tasks.List(listID).
		ShowCompleted(showCompleted).
		ShowHidden(showCompleted).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	out := make([]Task, 0, len(res.Items))
	for _, item := range res.Items {
		out = append(out, fromGoogleTask(item))
	}
	return out, nil
}

func (g *GoogleTasks) Insert(ctx context.Context, listID string, task Task) (Task, error) {
	created, err := g.svc.Tasks.Insert(listID, &tasks.Task{
		Title: task.Title,
		Notes: task.Notes,
		Due:   task.Due,
	}).Context(ctx).Do()
	if err != nil {
		return Task{}, err
	}
	return fromGoogleTask(created), nil
}

func (g *GoogleTasks) Complete(ctx context.Context, listID, id string) (Task, error) {
	updated, err := g.svc.Tasks.Patch(listID, id, &tasks.Task{Status: taskCompleted}).Context(ctx).Do()
	if err != nil {
		return Task{}, err
	}
	return fromGoogleTask(updated), nil
}

func (g *GoogleTasks) Delete(ctx context.Context, listID, id string) error {
	return g.svc.Tasks.Delete(listID, id).Context(ctx).Do()
}

func (g *GoogleTasks) ClearCompleted(ctx context.Context, listID string) error {
	return g.svc.Tasks.Clear(listID).Context(ctx).Do()
}

func (g *GoogleTasks) Lists(ctx context.Context) ([]TaskList, error) {
	res, err := g.svc.Tasklists.List().Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make([]TaskList, 0, len(res.Items))
	for _, l := range res.Items {
		out = append(out, TaskList{ID: l.Id, Title: l.Title})
	}
	return out, nil
}

func (g *GoogleTasks) InsertList(ctx context.Context, title string) (TaskList, error) {
	created, err := g.svc.Tasklists.Insert(&tasks.TaskList{Title: title}).Context(ctx).Do()
	if err != nil {
		return TaskList{}, err
	}
	return TaskList{ID: created.Id, Title: created.Title}, nil
}

func fromGoogleTask(t *tasks.Task) Task {
	return Task{ID: t.Id, Title: t.Title, Notes: t.Notes, Status: t.Status, Due: t.Due}
}
