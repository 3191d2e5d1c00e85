package calendar

import (
	"strings"
	"time"
)

// ResolverPolicy holds the tunable limits of event resolution.
type ResolverPolicy struct {
	// FetchLimit is the number of upcoming events fetched as the candidate
	// pool for a resolution (default 50).
	FetchLimit int64

	// MaxAmbiguous is the maximum number of candidates listed back to the
	// caller when a query matches more than one event (default 5).
	MaxAmbiguous int
}

// DefaultResolverPolicy returns the resolver limits used in production.
func DefaultResolverPolicy() ResolverPolicy {
	return ResolverPolicy{
		FetchLimit:   50,
		MaxAmbiguous: 5,
	}
}

// Resolution is the outcome of matching a free-text summary against the
// candidate pool. Exactly one of the three states holds:
//
//   - NotFound: no candidate matched at all
//   - Ambiguous: more than one candidate matched; Candidates lists up to
//     the policy limit and nothing was mutated
//   - resolved: Match points at the single matching event
type Resolution struct {
	Match      *Event
	Candidates []Event
	Total      int
}

// NotFound reports whether no candidate matched the query.
func (r Resolution) NotFound() bool {
	return r.Match == nil && r.Total == 0
}

// Ambiguous reports whether more than one candidate matched the query.
func (r Resolution) Ambiguous() bool {
	return r.Match == nil && r.Total > 1
}

// ResolveBySummary locates the event a free-text summary refers to.
//
// Matching is case-insensitive. Candidates whose title equals the query are
// exact matches; candidates whose title contains the query, or whose title
// is contained in the query, are partial matches. Exact matches strictly
// dominate: if any exist, partial matches are ignored no matter how many
// there are. Partial containment is deliberately tolerant of phrasing
// drift; a long unrelated title containing the query still counts, which is
// a known precision limitation.
func ResolveBySummary(query string, candidates []Event, policy ResolverPolicy) Resolution {
	search := strings.ToLower(strings.TrimSpace(query))

	var exact, partial []Event
	for _, ev := range candidates {
		title := strings.ToLower(ev.Summary)
		switch {
		case title == search:
			exact = append(exact, ev)
		case strings.Contains(title, search) || strings.Contains(search, title):
			partial = append(partial, ev)
		}
	}

	matching := exact
	if len(matching) == 0 {
		matching = partial
	}

	switch len(matching) {
	case 0:
		return Resolution{}
	case 1:
		ev := matching[0]
		return Resolution{Match: &ev, Total: 1}
	default:
		listed := matching
		if len(listed) > policy.MaxAmbiguous {
			listed = listed[:policy.MaxAmbiguous]
		}
		out := make([]Event, len(listed))
		copy(out, listed)
		return Resolution{Candidates: out, Total: len(matching)}
	}
}

// FieldUpdates carries the optional new values of an update request.
// Zero values mean "leave the stored value unchanged".
type FieldUpdates struct {
	Summary     string
	Start       *time.Time
	End         *time.Time
	Description string
	Location    string
}

// FieldChange records one applied update for the confirmation text.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// MergeUpdates applies the supplied field updates onto a copy of the matched
// event. Only fields with a non-zero new value are overwritten; everything
// else keeps its stored value. When a time changes, the event timezone is
// set to tz. The returned changes are in a fixed field order.
func MergeUpdates(ev Event, updates FieldUpdates, tz string) (Event, []FieldChange) {
	merged := ev
	var changes []FieldChange

	if updates.Summary != "" {
		changes = append(changes, FieldChange{Field: "Title", Old: ev.Summary, New: updates.Summary})
		merged.Summary = updates.Summary
	}
	if updates.Start != nil {
		merged.Start = *updates.Start
		merged.TimeZone = tz
		changes = append(changes, FieldChange{Field: "Start", New: updates.Start.Format(time.RFC3339)})
	}
	if updates.End != nil {
		merged.End = *updates.End
		merged.TimeZone = tz
		changes = append(changes, FieldChange{Field: "End", New: updates.End.Format(time.RFC3339)})
	}
	if updates.Location != "" {
		merged.Location = updates.Location
		changes = append(changes, FieldChange{Field: "Location", New: updates.Location})
	}
	if updates.Description != "" {
		merged.Description = updates.Description
		changes = append(changes, FieldChange{Field: "Description", New: updates.Description})
	}

	return merged, changes
}
