package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teemow/calagent/internal/calendar"
	"github.com/teemow/calagent/internal/tools"
)

func createEventTool(cfg *Config) tools.Definition {
	return tools.Definition{
		Name: ToolCreateEvent,
		Description: "Create a new event in the user's calendar. " +
			"Start and end times must be ISO 8601 (e.g. 2026-01-24T14:00:00). " +
			"Both are required; default the end time to one hour after the start " +
			"before calling if the user did not specify one.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"summary": map[string]any{
					"type":        "string",
					"description": "Title/name of the event",
				},
				"startDateTime": map[string]any{
					"type":        "string",
					"description": "Start time in ISO 8601 format (e.g. 2026-01-24T14:00:00)",
				},
				"endDateTime": map[string]any{
					"type":        "string",
					"description": "End time in ISO 8601 format (e.g. 2026-01-24T15:00:00)",
				},
				"location": map[string]any{
					"type":        "string",
					"description": "Optional location of the event",
				},
				"description": map[string]any{
					"type":        "string",
					"description": "Optional description of the event",
				},
			},
			"required": []string{"summary", "startDateTime", "endDateTime"},
		},
		Handler: func(ctx context.Context, args map[string]any) tools.Result {
			summary := tools.StringArg(args, "summary")
			if summary == "" {
				return tools.Failure("❌ summary is required")
			}

			startStr := tools.StringArg(args, "startDateTime")
			if startStr == "" {
				return tools.Failure("❌ startDateTime is required")
			}
			start, err := parseDateTime(startStr, cfg.TimeZone)
			if err != nil {
				return tools.Failuref("❌ Failed to create event: %v", err)
			}

			endStr := tools.StringArg(args, "endDateTime")
			if endStr == "" {
				return tools.Failure("❌ endDateTime is required")
			}
			end, err := parseDateTime(endStr, cfg.TimeZone)
			if err != nil {
				return tools.Failuref("❌ Failed to create event: %v", err)
			}

			created, err := cfg.Store.Insert(ctx, calendar.Event{
				Summary:     summary,
				Location:    tools.StringArg(args, "location"),
				Description: tools.StringArg(args, "description"),
				Start:       start,
				End:         end,
				TimeZone:    cfg.TimeZone,
			})
			if err != nil {
				return tools.Failuref("❌ Failed to create event: %v", err)
			}

			return tools.Successf("✓ Event created successfully!\n\nTitle: %s\nStart: %s\nEnd: %s\nEvent link: %s",
				summary, startStr, endStr, created.HTMLLink)
		},
	}
}

func updateCalendarEventTool(cfg *Config) tools.Definition {
	return tools.Definition{
		Name: ToolUpdateCalendarEvent,
		Description: "Update an existing event in the user's calendar. " +
			"First finds the event by its current title, then updates only the " +
			"fields that were supplied.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"eventSummary": map[string]any{
					"type":        "string",
					"description": "Current title of the event to find and update",
				},
				"newSummary": map[string]any{
					"type":        "string",
					"description": "New title for the event (optional)",
				},
				"newStartDateTime": map[string]any{
					"type":        "string",
					"description": "New start time in ISO 8601 format (optional)",
				},
				"newEndDateTime": map[string]any{
					"type":        "string",
					"description": "New end time in ISO 8601 format (optional)",
				},
				"newDescription": map[string]any{
					"type":        "string",
					"description": "New description (optional)",
				},
				"newLocation": map[string]any{
					"type":        "string",
					"description": "New location (optional)",
				},
			},
			"required": []string{"eventSummary"},
		},
		Handler: func(ctx context.Context, args map[string]any) tools.Result {
			eventSummary := tools.StringArg(args, "eventSummary")
			if eventSummary == "" {
				return tools.Failure("❌ eventSummary is required")
			}

			updates := calendar.FieldUpdates{
				Summary:     tools.StringArg(args, "newSummary"),
				Description: tools.StringArg(args, "newDescription"),
				Location:    tools.StringArg(args, "newLocation"),
			}

			if s := tools.StringArg(args, "newStartDateTime"); s != "" {
				start, err := parseDateTime(s, cfg.TimeZone)
				if err != nil {
					return tools.Failuref("❌ Failed to update event: %v", err)
				}
				updates.Start = &start
			}
			if s := tools.StringArg(args, "newEndDateTime"); s != "" {
				end, err := parseDateTime(s, cfg.TimeZone)
				if err != nil {
					return tools.Failuref("❌ Failed to update event: %v", err)
				}
				updates.End = &end
			}

			// Fresh candidate pool for every resolution; event snapshots
			// are never cached across turns.
			candidates, err := cfg.Store.ListUpcoming(ctx, cfg.Policy.FetchLimit)
			if err != nil {
				return tools.Failuref("❌ Failed to update event: %v", err)
			}
			candidates = upcoming(candidates, cfg.now())

			res := calendar.ResolveBySummary(eventSummary, candidates, cfg.Policy)
			switch {
			case res.NotFound():
				return tools.Failuref("❌ No upcoming event found with title '%s'. Try listing your events to see the exact title.", eventSummary)
			case res.Ambiguous():
				return ambiguousResult(eventSummary, res)
			}

			merged, changes := calendar.MergeUpdates(*res.Match, updates, cfg.TimeZone)
			if len(changes) == 0 {
				return tools.Failuref("❌ No fields to update for '%s'. Supply at least one new value.", res.Match.Summary)
			}

			updated, err := cfg.Store.Patch(ctx, res.Match.ID, merged)
			if err != nil {
				return tools.Failuref("❌ Failed to update event: %v", err)
			}

			var sb strings.Builder
			sb.WriteString("✓ Event updated successfully!\n\nUpdated fields:\n")
			for _, ch := range changes {
				if ch.Field == "Title" {
					fmt.Fprintf(&sb, "Title: '%s' → '%s'\n", ch.Old, ch.New)
					continue
				}
				fmt.Fprintf(&sb, "%s: %s\n", ch.Field, ch.New)
			}
			fmt.Fprintf(&sb, "\nEvent link: %s", updated.HTMLLink)
			return tools.Success(sb.String())
		},
	}
}

// ambiguousResult formats the disambiguation list. Nothing has been mutated
// at this point; the resolver never guesses among multiple matches.
func ambiguousResult(query string, res calendar.Resolution) tools.Result {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⚠️ Found %d events matching '%s':\n\n", res.Total, query)
	for i, ev := range res.Candidates {
		fmt.Fprintf(&sb, "%d. '%s' on %s\n", i+1, ev.Summary, ev.Start.Format(time.RFC3339))
	}
	sb.WriteString("\nPlease be more specific with the event title and date/time to update the correct one.")
	return tools.Failure(sb.String())
}
