package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// Event is the transient representation of a calendar event the agent works
// with. Events are owned by the backing store; the agent fetches copies for a
// single operation and discards them afterwards.
type Event struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string
	HTMLLink    string
}

// toEvent converts a Google Calendar event to an Event
func toEvent(event *calendar.Event) Event {
	if event == nil {
		return Event{}
	}

	ev := Event{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		HTMLLink:    event.HtmlLink,
	}

	// Parse start time
	if event.Start != nil {
		ev.TimeZone = event.Start.TimeZone
		if event.Start.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, event.Start.DateTime); err == nil {
				ev.Start = t
			}
		} else if event.Start.Date != "" {
			if t, err := time.Parse("2006-01-02", event.Start.Date); err == nil {
				ev.Start = t
			}
		}
	}

	// Parse end time
	if event.End != nil {
		if event.End.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, event.End.DateTime); err == nil {
				ev.End = t
			}
		} else if event.End.Date != "" {
			if t, err := time.Parse("2006-01-02", event.End.Date); err == nil {
				ev.End = t
			}
		}
	}

	return ev
}

// toGoogleEvent converts an Event to the Google Calendar wire representation.
func toGoogleEvent(ev Event) *calendar.Event {
	out := &calendar.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
	}

	tz := ev.TimeZone
	if tz == "" {
		tz = "UTC"
	}

	if !ev.Start.IsZero() {
		out.Start = &calendar.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: tz,
		}
	}
	if !ev.End.IsZero() {
		out.End = &calendar.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
			TimeZone: tz,
		}
	}

	return out
}
