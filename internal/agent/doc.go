// Package agent implements the conversation controller of the calendar
// assistant.
//
// A turn starts from a single user utterance and alternates between two
// nodes: the assistant node asks the reasoning client for either a final
// answer or a batch of tool calls, and the tools node dispatches those
// calls sequentially in the order they were requested. Every step appends
// to the turn's history; nothing is rewritten or dropped. The turn ends
// when a reasoning step produces no tool calls, and when multiple steps
// produced text along the way, the last answer wins.
package agent
