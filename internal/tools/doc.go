// Package tools defines the static tool registry shared by the conversation
// controller's dispatcher and the MCP server surface.
//
// Each catalog operation is a Definition: an operation name, a contract
// description consumed by the reasoning step, a JSON parameter schema, and
// a handler. Handlers return Result variants (Success/Failure) instead of
// errors; every failure below the tool boundary is text by design, because
// the reasoning step only consumes text.
package tools
