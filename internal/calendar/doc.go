// Package calendar provides the event store capability and the event
// resolution logic used by the agent's calendar tools.
//
// The Store interface exposes the three operations the agent needs (list
// upcoming, insert, patch); Client implements it against the Google
// Calendar API for the user's primary calendar. ResolveBySummary and
// MergeUpdates implement the pure matching and field-merge algorithm the
// update tool is built on.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := calendar.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	events, err := client.ListUpcoming(ctx, 5)
//	if err != nil {
//	    log.Fatal(err)
//	}
package calendar
