package calendar

import (
	"testing"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

func TestToEvent(t *testing.T) {
	// A nil wire event converts to a zero Event
	ev := toEvent(nil)
	if ev.ID != "" {
		t.Errorf("Expected empty ID for nil event, got %s", ev.ID)
	}

	wire := &gcal.Event{
		Id:          "ev123",
		Summary:     "Team Standup",
		Description: "Daily sync",
		Location:    "Room 4",
		HtmlLink:    "https://calendar.google.com/event?eid=ev123",
		Start: &gcal.EventDateTime{
			DateTime: "2026-03-02T10:00:00Z",
			TimeZone: "UTC",
		},
		End: &gcal.EventDateTime{
			DateTime: "2026-03-02T10:30:00Z",
			TimeZone: "UTC",
		},
	}

	ev = toEvent(wire)
	if ev.ID != "ev123" {
		t.Errorf("Expected ID ev123, got %s", ev.ID)
	}
	if ev.Summary != "Team Standup" {
		t.Errorf("Expected summary, got %s", ev.Summary)
	}
	if ev.HTMLLink == "" {
		t.Error("Expected html link to be carried over")
	}
	want := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if !ev.Start.Equal(want) {
		t.Errorf("Expected start %v, got %v", want, ev.Start)
	}
	if ev.End.Sub(ev.Start) != 30*time.Minute {
		t.Errorf("Expected 30m duration, got %v", ev.End.Sub(ev.Start))
	}
}

func TestToEvent_AllDayDate(t *testing.T) {
	wire := &gcal.Event{
		Id: "allday",
		Start: &gcal.EventDateTime{
			Date: "2026-03-02",
		},
		End: &gcal.EventDateTime{
			Date: "2026-03-03",
		},
	}

	ev := toEvent(wire)
	if ev.Start.IsZero() {
		t.Error("Expected all-day start date to be parsed")
	}
	if ev.Start.Hour() != 0 {
		t.Errorf("Expected midnight start, got hour %d", ev.Start.Hour())
	}
}

func TestToGoogleEvent(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	ev := Event{
		Summary:  "Lunch",
		Location: "Cafe",
		Start:    start,
		End:      start.Add(time.Hour),
		TimeZone: "Asia/Kolkata",
	}

	wire := toGoogleEvent(ev)
	if wire.Summary != "Lunch" {
		t.Errorf("Expected summary Lunch, got %s", wire.Summary)
	}
	if wire.Start == nil || wire.Start.TimeZone != "Asia/Kolkata" {
		t.Error("Expected start timezone to be set")
	}
	if wire.Start.DateTime != start.Format(time.RFC3339) {
		t.Errorf("Expected RFC3339 start, got %s", wire.Start.DateTime)
	}
}

func TestToGoogleEvent_DefaultsTimeZone(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	wire := toGoogleEvent(Event{Summary: "x", Start: start, End: start.Add(time.Hour)})
	if wire.Start.TimeZone != "UTC" {
		t.Errorf("Expected UTC fallback, got %s", wire.Start.TimeZone)
	}
}

func TestToGoogleEvent_ZeroTimesOmitted(t *testing.T) {
	wire := toGoogleEvent(Event{Summary: "no times"})
	if wire.Start != nil || wire.End != nil {
		t.Error("Expected zero times to be omitted from the wire event")
	}
}

func TestHasTokenForAccount(t *testing.T) {
	// Just exercise the path; no token files exist in the test environment.
	result := HasTokenForAccount("test-account")
	_ = result

	if HasTokenForAccount("") {
		t.Error("Expected false for empty account name")
	}
}
