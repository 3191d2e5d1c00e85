package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calagent/internal/llm"
	"github.com/teemow/calagent/internal/tools"
)

// scriptedLLM replays a fixed sequence of responses, one per Complete call.
type scriptedLLM struct {
	responses []*llm.Response
	err       error
	requests  []llm.Request
}

func (s *scriptedLLM) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	idx := len(s.requests) - 1
	if idx >= len(s.responses) {
		return &llm.Response{Content: "out of script"}, nil
	}
	return s.responses[idx], nil
}

func echoRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	reg, err := tools.NewRegistry(
		tools.Definition{
			Name: "echo",
			Handler: func(ctx context.Context, args map[string]any) tools.Result {
				return tools.Successf("echo: %s", tools.StringArg(args, "text"))
			},
		},
		tools.Definition{
			Name: "boom",
			Handler: func(ctx context.Context, args map[string]any) tools.Result {
				panic("handler exploded")
			},
		},
	)
	require.NoError(t, err)
	return reg
}

func newTestController(t *testing.T, client llm.Client) *Controller {
	t.Helper()
	ctrl, err := NewController(Config{LLM: client, Tools: echoRegistry(t)})
	require.NoError(t, err)
	return ctrl
}

func TestRun_DirectAnswer(t *testing.T) {
	client := &scriptedLLM{responses: []*llm.Response{
		{Content: "You have nothing scheduled."},
	}}
	ctrl := newTestController(t, client)

	turn, err := ctrl.Run(context.Background(), "am I free today?")
	require.NoError(t, err)

	assert.Equal(t, "You have nothing scheduled.", turn.Answer)
	assert.Equal(t, 1, turn.Cycles)
	assert.NotEmpty(t, turn.ID)
	require.NoError(t, turn.History.Validate())
	require.Len(t, turn.History, 2)
	assert.Equal(t, RoleUser, turn.History[0].Role)
	assert.Equal(t, "am I free today?", turn.History[0].Content)
	assert.Equal(t, RoleAssistant, turn.History[1].Role)
}

func TestRun_ToolCycle(t *testing.T) {
	client := &scriptedLLM{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCallResult{
			{ID: "call_1", Name: "echo", Args: map[string]any{"text": "first"}},
			{ID: "call_2", Name: "echo", Args: map[string]any{"text": "second"}},
		}},
		{Content: "Done."},
	}}
	ctrl := newTestController(t, client)

	turn, err := ctrl.Run(context.Background(), "run both")
	require.NoError(t, err)

	assert.Equal(t, "Done.", turn.Answer)
	assert.Equal(t, 2, turn.Cycles)
	assert.Equal(t, []string{"echo", "echo"}, turn.ToolsUsed)
	require.NoError(t, turn.History.Validate())

	// user, assistant(tool calls), tool, tool, assistant
	require.Len(t, turn.History, 5)
	assert.Equal(t, RoleAssistant, turn.History[1].Role)
	require.Len(t, turn.History[1].ToolCalls, 2)

	// Results come back in request order and answer their calls by ID.
	assert.Equal(t, "call_1", turn.History[2].ToolCallID)
	assert.Equal(t, "echo: first", turn.History[2].Content)
	assert.Equal(t, "call_2", turn.History[3].ToolCallID)
	assert.Equal(t, "echo: second", turn.History[3].Content)

	// The second reasoning request saw the tool results.
	require.Len(t, client.requests, 2)
	assert.Len(t, client.requests[1].Messages, 4)
}

func TestRun_LastAnswerWins(t *testing.T) {
	client := &scriptedLLM{responses: []*llm.Response{
		{
			Content: "Let me check your calendar.",
			ToolCalls: []llm.ToolCallResult{
				{ID: "call_1", Name: "echo", Args: map[string]any{"text": "events"}},
			},
		},
		{Content: "You have one event tomorrow."},
	}}
	ctrl := newTestController(t, client)

	turn, err := ctrl.Run(context.Background(), "what's coming up?")
	require.NoError(t, err)
	assert.Equal(t, "You have one event tomorrow.", turn.Answer)
}

func TestRunWithHistory_ContinuesConversation(t *testing.T) {
	client := &scriptedLLM{responses: []*llm.Response{
		{Content: "Yes, tomorrow at noon."},
	}}
	ctrl := newTestController(t, client)

	prior := Messages{
		Human("do I have lunch plans?"),
		AI("You have lunch with Sam tomorrow."),
	}
	turn, err := ctrl.RunWithHistory(context.Background(), prior, "what time?")
	require.NoError(t, err)

	// prior, user, assistant
	require.Len(t, turn.History, 4)
	assert.Equal(t, prior[0], turn.History[0])
	assert.Equal(t, "what time?", turn.History[2].Content)
	assert.Equal(t, "Yes, tomorrow at noon.", turn.Answer)

	// The reasoning request saw the prior messages too.
	require.Len(t, client.requests, 1)
	assert.Len(t, client.requests[0].Messages, 3)
}

func TestRun_ToolPanicDegradesToFailedResult(t *testing.T) {
	client := &scriptedLLM{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCallResult{
			{ID: "call_1", Name: "boom", Args: nil},
		}},
		{Content: "Something went wrong with that tool."},
	}}
	ctrl := newTestController(t, client)

	turn, err := ctrl.Run(context.Background(), "trigger it")
	require.NoError(t, err)

	// The panic became a failed tool result and the conversation went on.
	assert.Equal(t, "Something went wrong with that tool.", turn.Answer)
	require.Len(t, turn.History, 4)
	assert.Contains(t, turn.History[2].Content, "❌ Error: handler exploded")
	require.NoError(t, turn.History.Validate())
}

func TestRun_EmptyResponseDegradesToErrorAnswer(t *testing.T) {
	client := &scriptedLLM{responses: []*llm.Response{
		{},
	}}
	ctrl := newTestController(t, client)

	turn, err := ctrl.Run(context.Background(), "hello?")
	require.NoError(t, err)

	assert.Equal(t, "❌ Error: empty response from model", turn.Answer)
	require.NoError(t, turn.History.Validate())
}

func TestRun_UnknownTool(t *testing.T) {
	client := &scriptedLLM{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCallResult{
			{ID: "call_1", Name: "teleport", Args: nil},
		}},
		{Content: "I can't do that."},
	}}
	ctrl := newTestController(t, client)

	turn, err := ctrl.Run(context.Background(), "teleport me")
	require.NoError(t, err)
	assert.Contains(t, turn.History[2].Content, "❌ Unknown tool: teleport")
}

func TestRun_LLMErrorBecomesAnswer(t *testing.T) {
	client := &scriptedLLM{err: errors.New("LLM API error 429: rate limited")}
	ctrl := newTestController(t, client)

	turn, err := ctrl.Run(context.Background(), "hello")
	require.NoError(t, err)

	assert.Contains(t, turn.Answer, "❌ Error:")
	assert.Contains(t, turn.Answer, "rate limited")
	// The user message is still on record.
	require.NotEmpty(t, turn.History)
	assert.Equal(t, RoleUser, turn.History[0].Role)
}

func TestRun_ContextCancelled(t *testing.T) {
	client := &scriptedLLM{responses: []*llm.Response{{Content: "unused"}}}
	ctrl := newTestController(t, client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ctrl.Run(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_RequestCarriesCatalogAndPrompt(t *testing.T) {
	client := &scriptedLLM{responses: []*llm.Response{{Content: "ok"}}}
	ctrl := newTestController(t, client)

	_, err := ctrl.Run(context.Background(), "hello")
	require.NoError(t, err)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, llm.DefaultModel, req.Model)
	assert.Equal(t, DefaultSystemPrompt, req.SystemPrompt)
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.0, *req.Temperature)

	var names []string
	for _, schema := range req.Tools {
		names = append(names, schema.Name)
	}
	assert.Equal(t, []string{"echo", "boom"}, names)
}

type recordingObserver struct {
	events []string
}

func (r *recordingObserver) NodeEntered(_, node string)           { r.events = append(r.events, "node:"+node) }
func (r *recordingObserver) ToolCallStarted(_ string, c ToolCall) { r.events = append(r.events, "start:"+c.Name) }
func (r *recordingObserver) ToolCallFinished(_ string, res ToolResult) {
	r.events = append(r.events, "finish:"+res.Name)
}
func (r *recordingObserver) AnswerProduced(_, _ string) { r.events = append(r.events, "answer") }

func TestRun_ObserverSequence(t *testing.T) {
	client := &scriptedLLM{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCallResult{
			{ID: "call_1", Name: "echo", Args: map[string]any{"text": "hi"}},
		}},
		{Content: "done"},
	}}

	obs := &recordingObserver{}
	ctrl, err := NewController(Config{LLM: client, Tools: echoRegistry(t), Observer: obs})
	require.NoError(t, err)

	_, err = ctrl.Run(context.Background(), "go")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"node:assistant",
		"node:tools",
		"start:echo",
		"finish:echo",
		"node:assistant",
		"answer",
		"node:done",
	}, obs.events)
}

func TestNewController_Validation(t *testing.T) {
	reg := echoRegistry(t)

	_, err := NewController(Config{Tools: reg})
	assert.Error(t, err)

	_, err = NewController(Config{LLM: &scriptedLLM{}})
	assert.Error(t, err)
}

func TestMessagesValidate(t *testing.T) {
	good := Messages{
		System("be helpful"),
		Human("hi"),
		AI("", ToolCall{ID: "c1", Name: "echo"}),
		ToolMsg("c1", "echo", "hi"),
		AI("done"),
	}
	assert.NoError(t, good.Validate())

	tests := []struct {
		name string
		msgs Messages
	}{
		{"tool missing call id", Messages{ToolMsg("", "echo", "x")}},
		{"tool missing name", Messages{ToolMsg("c1", "", "x")}},
		{"empty assistant", Messages{AI("")}},
		{"tool call missing id", Messages{AI("", ToolCall{Name: "echo"})}},
		{"empty user", Messages{Human("")}},
		{"unknown role", Messages{{Role: "narrator", Content: "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.msgs.Validate())
		})
	}
}
