package workspace

import (
	"context"
	"time"

	"google.golang.org/api/calendar/v3"
)

const primaryCalendar = "primary"

// GoogleCalendar implements CalendarAPI with the Calendar v3 API.
type GoogleCalendar struct {
	svc *calendar.Service
}

func NewGoogleCalendar(svc *calendar.Service) *GoogleCalendar {
	return &GoogleCalendar{svc: svc}
}

func (g *GoogleCalendar) Upcoming(ctx context.Context, from time.Time, max int) ([]Event, error) {
	res, err := g.svc.Events.List(primaryCalendar).
		TimeMin(from.UTC().Format(time.RFC3339)).
		MaxResults(int64(max)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(res.Items))
	for _, item := range res.Items {
		ev := Event{ID: item.Id, Summary: item.Summary}
		if item.Start != nil {
			ev.Start = item.Start.DateTime
			if ev.Start == "" {
				ev.Start = item.Start.Date
			}
		}
		events = append(events, ev)
	}
	return events, nil
}

func (g *GoogleCalendar) CreateAllDay(ctx context.Context, summary, startDate, endDate string) (Event, error) {
	created, err := g.svc.Events.Insert(primaryCalendar, &calendar.Event{
		Summary: summary,
		Start:   &calendar.EventDateTime{Date: startDate},
		End:     &calendar.EventDateTime{Date: endDate},
	}).Context(ctx).Do()
	if err != nil {
		return Event{}, err
	}
	return Event{ID: created.Id, Summary: created.Summary, Start: startDate}, nil
}

func (g *GoogleCalendar) Delete(ctx context.Context, id string) error {
	return g.svc.Events.Delete(primaryCalendar, id).Context(ctx).Do()
}
