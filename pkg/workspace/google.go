package workspace

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/tasks/v1"
)

// Names of the services that have a Google backend.
var Names = []string{"calendar", "gmail", "tasks", "drive"}

var scopes = map[string]string{
	"calendar": calendar.CalendarScope,
	"gmail":    gmail.GmailModifyScope,
	"tasks":    tasks.TasksScope,
	"drive":    drive.DriveScope,
}

// Scopes returns the OAuth scopes needed by the named services.
func Scopes(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, n := range names {
		s, ok := scopes[n]
		if !ok {
			return nil, fmt.Errorf("service not found: %s", n)
		}
		out = append(out, s)
	}
	return out, nil
}

// NewGoogleRegistry builds the named services on top of an authorised HTTP client.
func NewGoogleRegistry(ctx context.Context, hc *http.Client, names []string) (*Registry, error) {
	opt := option.WithHTTPClient(hc)
	reg := NewRegistry()
	for _, n := range names {
		switch n {
		case "calendar":
			svc, err := calendar.NewService(ctx, opt)
			if err != nil {
				return nil, fmt.Errorf("calendar service: %w", err)
			}
			reg.Register(NewCalendar(NewGoogleCalendar(svc)))
		case "gmail":
			svc, err := gmail.NewService(ctx, opt)
			if err != nil {
				return nil, fmt.Errorf("gmail service: %w", err)
			}
			reg.Register(NewGmail(NewGoogleGmail(svc)))
		case "tasks":
			svc, err := tasks.NewService(ctx, opt)
			if err != nil {
				return nil, fmt.Errorf("tasks service: %w", err)
			}
			reg.Register(NewTasks(NewGoogleTasks(svc)))
		case "drive":
			svc, err := drive.NewService(ctx, opt)
			if err != nil {
				return nil, fmt.Errorf("drive service: %w", err)
			}
			reg.Register(NewDrive(NewGoogleDrive(svc)))
		default:
			return nil, fmt.Errorf("service not found: %s", n)
		}
	}
	return reg, nil
}
