package agent

// Observer receives progress events while a turn runs. All callbacks fire
// synchronously on the controller goroutine, so implementations must be
// cheap or hand off to their own goroutine.
type Observer interface {
	// NodeEntered fires when the turn transitions into a node
	// (NodeAssistant, NodeTools, NodeDone).
	NodeEntered(turnID, node string)

	// ToolCallStarted fires before a single tool call is dispatched.
	ToolCallStarted(turnID string, call ToolCall)

	// ToolCallFinished fires after a tool call completed, with its result.
	ToolCallFinished(turnID string, result ToolResult)

	// AnswerProduced fires when an assistant step yields a textual answer.
	AnswerProduced(turnID, answer string)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) NodeEntered(string, string)           {}
func (NopObserver) ToolCallStarted(string, ToolCall)     {}
func (NopObserver) ToolCallFinished(string, ToolResult)  {}
func (NopObserver) AnswerProduced(string, string)        {}

// Observers fans events out to several observers in order.
type Observers []Observer

func (o Observers) NodeEntered(turnID, node string) {
	for _, obs := range o {
		obs.NodeEntered(turnID, node)
	}
}

func (o Observers) ToolCallStarted(turnID string, call ToolCall) {
	for _, obs := range o {
		obs.ToolCallStarted(turnID, call)
	}
}

func (o Observers) ToolCallFinished(turnID string, result ToolResult) {
	for _, obs := range o {
		obs.ToolCallFinished(turnID, result)
	}
}

func (o Observers) AnswerProduced(turnID, answer string) {
	for _, obs := range o {
		obs.AnswerProduced(turnID, answer)
	}
}
