package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teemow/calagent/internal/tools"
)

// NoUpcomingEventsText is the fixed reply when the filtered event set is
// empty.
const NoUpcomingEventsText = "No upcoming events found"

// currentDateTimeLayout renders the local wall clock the way the reasoning
// contract expects it: day name, month, day, year, 12-hour time.
const currentDateTimeLayout = "Monday, January 2, 2006, 3:04 PM"

func listUpcomingEventsTool(cfg *Config) tools.Definition {
	return tools.Definition{
		Name: ToolListUpcomingEvents,
		Description: "Fetch the next upcoming events from the user's calendar. " +
			"Use this whenever the user asks about their time, availability, or schedule.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"maxResults": map[string]any{
					"type":        "integer",
					"description": fmt.Sprintf("Maximum number of events to retrieve (default: %d)", DefaultMaxResults),
				},
			},
		},
		Handler: func(ctx context.Context, args map[string]any) tools.Result {
			maxResults := tools.IntArg(args, "maxResults", DefaultMaxResults)
			if maxResults <= 0 {
				maxResults = DefaultMaxResults
			}

			events, err := cfg.Store.ListUpcoming(ctx, int64(maxResults))
			if err != nil {
				return tools.Failuref("❌ Failed to list events: %v", err)
			}

			events = upcoming(events, cfg.now())
			if len(events) > maxResults {
				events = events[:maxResults]
			}

			if len(events) == 0 {
				return tools.Success(NoUpcomingEventsText)
			}

			var sb strings.Builder
			sb.WriteString("I found the following events:\n")
			for _, ev := range events {
				fmt.Fprintf(&sb, "- %s at %s\n", ev.Summary, ev.Start.Format(time.RFC3339))
			}
			return tools.Success(strings.TrimRight(sb.String(), "\n"))
		},
	}
}

func currentDateTimeTool(cfg *Config) tools.Definition {
	return tools.Definition{
		Name: ToolCurrentDateTime,
		Description: "Get the current date and time whenever it is required " +
			"or specifically asked by the user.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		Handler: func(ctx context.Context, args map[string]any) tools.Result {
			return tools.Success(cfg.now().Format(currentDateTimeLayout))
		},
	}
}
