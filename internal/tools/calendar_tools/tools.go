package calendar_tools

import (
	"fmt"
	"time"

	"github.com/teemow/calagent/internal/calendar"
	"github.com/teemow/calagent/internal/tools"
)

// Tool catalog operation names.
const (
	ToolListUpcomingEvents  = "listUpcomingEvents"
	ToolCurrentDateTime     = "currentDateTime"
	ToolCreateEvent         = "createEvent"
	ToolUpdateCalendarEvent = "updateCalendarEvent"
)

// DefaultMaxResults is the event count returned by listUpcomingEvents when
// the reasoning step does not ask for a specific number.
const DefaultMaxResults = 5

// Config binds the calendar tool handlers to a store and fixes the policy
// knobs the handlers rely on.
type Config struct {
	Store calendar.Store

	// TimeZone is the fixed event timezone used when creating events and
	// applying time updates.
	TimeZone string

	// Policy holds the resolver limits (candidate fetch cap, ambiguity
	// list length).
	Policy calendar.ResolverPolicy

	// Now returns the current instant; defaults to time.Now. Tests inject
	// a fixed clock here.
	Now func() time.Time
}

func (c *Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// NewCatalog builds the static tool registry for the calendar agent: the
// four operations of the catalog, bound to the configured store.
func NewCatalog(cfg Config) (*tools.Registry, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("calendar store is required")
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = "UTC"
	}
	if cfg.Policy.FetchLimit <= 0 {
		cfg.Policy = calendar.DefaultResolverPolicy()
	}

	return tools.NewRegistry(
		listUpcomingEventsTool(&cfg),
		currentDateTimeTool(&cfg),
		createEventTool(&cfg),
		updateCalendarEventTool(&cfg),
	)
}

// parseDateTime accepts RFC3339 timestamps as well as zone-less ISO-8601
// ("2026-01-24T14:00:00"), which is what the reasoning contract asks the
// model to produce. Zone-less values are interpreted in tz.
func parseDateTime(value, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q: expected ISO 8601 (e.g. 2026-01-24T14:00:00)", value)
	}
	return t, nil
}

// upcoming filters events to those starting at or after now and sorts them
// by start time ascending. The store already promises this ordering, but
// the handlers do not depend on it.
func upcoming(events []calendar.Event, now time.Time) []calendar.Event {
	var out []calendar.Event
	for _, ev := range events {
		if !ev.Start.Before(now) {
			out = append(out, ev)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Start.Before(out[j-1].Start); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
