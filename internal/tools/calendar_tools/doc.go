// Package calendar_tools implements the four operations of the calendar
// agent's tool catalog: listUpcomingEvents, currentDateTime, createEvent
// and updateCalendarEvent.
//
// All four operations degrade to a textual failure result on any
// underlying store failure (auth, network, not-found) instead of
// propagating a structured error; the reasoning step consumes the failure
// text and may retry or apologize. Update resolution is delegated to the
// calendar package's resolver: exact title matches strictly dominate
// partial matches, and multiple matches never mutate anything.
package calendar_tools
