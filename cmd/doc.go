// Package cmd implements the calagent command line interface.
//
// The default command starts an interactive chat session. The auth
// command runs the Google OAuth flow, and serve exposes the calendar
// tool catalog over MCP stdio for AI assistants that bring their own
// reasoning loop.
package cmd
