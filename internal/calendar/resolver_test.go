package calendar

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(id, summary string, start time.Time) Event {
	return Event{ID: id, Summary: summary, Start: start, End: start.Add(time.Hour)}
}

func TestResolveBySummary(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		query      string
		candidates []Event
		wantID     string
		ambiguous  bool
		notFound   bool
	}{
		{
			name:  "exact match wins over partial",
			query: "team standup",
			candidates: []Event{
				event("prep", "Team Standup Prep", base),
				event("standup", "Team Standup", base.Add(time.Hour)),
			},
			wantID: "standup",
		},
		{
			name:  "two partials with no exact is ambiguous",
			query: "dentist",
			candidates: []Event{
				event("d1", "Dentist cleaning", base),
				event("d2", "Dentist consultation", base.Add(2*time.Hour)),
			},
			ambiguous: true,
		},
		{
			name:  "exact match resolves even when partials coexist",
			query: "dentist",
			candidates: []Event{
				event("d1", "Dentist", base),
				event("d2", "Dentist Appointment", base.Add(2*time.Hour)),
			},
			wantID: "d1",
		},
		{
			name:  "case-insensitive exact",
			query: "TEAM STANDUP",
			candidates: []Event{
				event("standup", "team standup", base),
			},
			wantID: "standup",
		},
		{
			name:  "query containing the title is a partial match",
			query: "the big launch meeting",
			candidates: []Event{
				event("launch", "Launch Meeting", base),
			},
			wantID: "launch",
		},
		{
			name:  "unrelated long title containing the query still matches",
			query: "sync",
			candidates: []Event{
				event("s1", "Quarterly budget sync with finance and leadership", base),
			},
			wantID: "s1",
		},
		{
			name:  "no match",
			query: "yoga",
			candidates: []Event{
				event("d1", "Dentist", base),
			},
			notFound: true,
		},
		{
			name:       "empty candidate pool",
			query:      "anything",
			candidates: nil,
			notFound:   true,
		},
		{
			name:  "multiple exact matches are ambiguous too",
			query: "standup",
			candidates: []Event{
				event("a", "Standup", base),
				event("b", "standup", base.Add(time.Hour)),
			},
			ambiguous: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ResolveBySummary(tt.query, tt.candidates, DefaultResolverPolicy())

			switch {
			case tt.notFound:
				assert.True(t, res.NotFound())
				assert.Nil(t, res.Match)
			case tt.ambiguous:
				assert.True(t, res.Ambiguous())
				assert.Nil(t, res.Match)
				assert.GreaterOrEqual(t, res.Total, 2)
			default:
				require.NotNil(t, res.Match)
				assert.Equal(t, tt.wantID, res.Match.ID)
				assert.False(t, res.Ambiguous())
			}
		})
	}
}

func TestResolveBySummary_AmbiguityTruncation(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	policy := DefaultResolverPolicy()

	makeCandidates := func(n int) []Event {
		out := make([]Event, n)
		for i := range out {
			out[i] = event(fmt.Sprintf("m%d", i), fmt.Sprintf("Meeting %d", i), base.Add(time.Duration(i)*time.Hour))
		}
		return out
	}

	tests := []struct {
		name       string
		matches    int
		wantListed int
	}{
		{"exactly at the limit", policy.MaxAmbiguous, policy.MaxAmbiguous},
		{"one past the limit", policy.MaxAmbiguous + 1, policy.MaxAmbiguous},
		{"well past the limit", policy.MaxAmbiguous + 7, policy.MaxAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ResolveBySummary("meeting", makeCandidates(tt.matches), policy)
			require.True(t, res.Ambiguous())
			assert.Len(t, res.Candidates, tt.wantListed)
			assert.Equal(t, tt.matches, res.Total)
		})
	}
}

func TestMergeUpdates_FieldLocal(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	stored := Event{
		ID:          "ev1",
		Summary:     "Team Standup",
		Description: "Daily sync",
		Location:    "Room 4",
		Start:       start,
		End:         start.Add(30 * time.Minute),
		TimeZone:    "Asia/Kolkata",
	}

	newStart := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	merged, changes := MergeUpdates(stored, FieldUpdates{Start: &newStart}, "Asia/Kolkata")

	// Only the start time moved; every other field is byte-identical.
	assert.Equal(t, newStart, merged.Start)
	assert.Equal(t, stored.Summary, merged.Summary)
	assert.Equal(t, stored.Description, merged.Description)
	assert.Equal(t, stored.Location, merged.Location)
	assert.Equal(t, stored.End, merged.End)
	assert.Equal(t, stored.ID, merged.ID)

	require.Len(t, changes, 1)
	assert.Equal(t, "Start", changes[0].Field)
}

func TestMergeUpdates_TitleChangeRecordsOldValue(t *testing.T) {
	stored := Event{ID: "ev1", Summary: "Standup"}

	merged, changes := MergeUpdates(stored, FieldUpdates{Summary: "Daily Standup"}, "UTC")

	assert.Equal(t, "Daily Standup", merged.Summary)
	require.Len(t, changes, 1)
	assert.Equal(t, "Title", changes[0].Field)
	assert.Equal(t, "Standup", changes[0].Old)
	assert.Equal(t, "Daily Standup", changes[0].New)
}

func TestMergeUpdates_NoUpdates(t *testing.T) {
	stored := Event{ID: "ev1", Summary: "Standup", Location: "Room 4"}

	merged, changes := MergeUpdates(stored, FieldUpdates{}, "UTC")

	assert.Equal(t, stored, merged)
	assert.Empty(t, changes)
}

func TestMergeUpdates_AllFields(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	stored := Event{ID: "ev1", Summary: "Old", TimeZone: "UTC"}

	merged, changes := MergeUpdates(stored, FieldUpdates{
		Summary:     "New",
		Start:       &start,
		End:         &end,
		Description: "notes",
		Location:    "HQ",
	}, "Asia/Kolkata")

	assert.Equal(t, "New", merged.Summary)
	assert.Equal(t, start, merged.Start)
	assert.Equal(t, end, merged.End)
	assert.Equal(t, "notes", merged.Description)
	assert.Equal(t, "HQ", merged.Location)
	assert.Equal(t, "Asia/Kolkata", merged.TimeZone)
	assert.Len(t, changes, 5)
}
