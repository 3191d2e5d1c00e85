package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/teemow/calagent/internal/llm"
	"github.com/teemow/calagent/internal/logging"
	"github.com/teemow/calagent/internal/tools"
)

// Conversation nodes. A turn alternates between the assistant node (one
// reasoning call) and the tools node (dispatching the requested calls)
// until the assistant answers without requesting tools.
const (
	NodeAssistant = "assistant"
	NodeTools     = "tools"
	NodeDone      = "done"
)

// DefaultSystemPrompt is the standing instruction for the calendar
// assistant.
const DefaultSystemPrompt = `You are a helpful calendar assistant. When you receive tool results,
summarize them clearly for the user. Only call tools when you need information
you don't have. After presenting information from tools, provide a final answer.

When creating events:
- Always get the current date/time first if the user uses relative terms like "tomorrow", "next week", etc.
- Convert times to ISO 8601 format (YYYY-MM-DDTHH:MM:SS)
- If the user doesn't specify end time, assume 1 hour duration
- Ask for clarification if critical information is missing (event title, date/time)
When updating events:
- First list events if the user is unsure of the exact event title
- You need the exact or partial current event title to find it
- Only update the fields the user specifically mentions
- Confirm what will be changed before updating`

// Config configures a conversation controller.
type Config struct {
	LLM   llm.Client
	Tools *tools.Registry

	// Model passed through to the reasoning client. Defaults to the
	// client package default.
	Model string

	// SystemPrompt defaults to DefaultSystemPrompt.
	SystemPrompt string

	// Temperature defaults to 0 for deterministic tool selection.
	Temperature *float64

	MaxTokens int

	Logger   *slog.Logger
	Observer Observer

	// Metrics receives turn, reasoning and tool telemetry. Optional.
	Metrics MetricsRecorder
}

// Controller runs conversation turns: it alternates reasoning and tool
// dispatch over an append-only history until the assistant produces a
// final answer.
type Controller struct {
	cfg     Config
	schemas []llm.ToolSchema
}

// NewController validates the configuration and applies defaults.
func NewController(cfg Config) (*Controller, error) {
	if cfg.LLM == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if cfg.Tools == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if cfg.Model == "" {
		cfg.Model = llm.DefaultModel
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.Temperature == nil {
		zero := 0.0
		cfg.Temperature = &zero
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Observer == nil {
		cfg.Observer = NopObserver{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}

	schemas := make([]llm.ToolSchema, 0, cfg.Tools.Len())
	for _, def := range cfg.Tools.All() {
		schemas = append(schemas, llm.ToolSchema{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  def.Parameters,
		})
	}

	return &Controller{cfg: cfg, schemas: schemas}, nil
}

// Turn is the completed record of one conversation turn.
type Turn struct {
	// ID identifies the turn in logs and observer events.
	ID string

	// Answer is the assistant's final text. When several reasoning steps
	// produced text, the last one wins.
	Answer string

	// History is the full message sequence after the turn: any prior
	// messages, the user message, and everything the turn appended.
	History Messages

	// Cycles counts the reasoning calls made during the turn.
	Cycles int

	// ToolsUsed lists the tool names invoked during the turn, in dispatch
	// order, including repeats.
	ToolsUsed []string
}

// Run executes one conversation turn for a user utterance as a fresh
// conversation, with no history carried over from previous turns.
//
// The returned error is non-nil only when ctx was cancelled. Reasoning
// failures and tool panics degrade to a Turn whose Answer reports the
// problem; the history up to the failure is preserved.
func (c *Controller) Run(ctx context.Context, input string) (*Turn, error) {
	return c.RunWithHistory(ctx, nil, input)
}

// RunWithHistory executes one conversation turn on top of the caller's
// prior messages. The controller holds no conversation state of its own;
// a caller that wants a continuing session keeps the returned History and
// passes it back in on the next turn.
func (c *Controller) RunWithHistory(ctx context.Context, prior Messages, input string) (turn *Turn, err error) {
	turnID := uuid.NewString()
	logger := logging.WithTurn(c.cfg.Logger, turnID)
	obs := c.cfg.Observer

	history := make(Messages, 0, len(prior)+1)
	history = append(history, prior...)
	history = append(history, Human(input))

	turn = &Turn{
		ID:      turnID,
		History: history,
	}

	start := time.Now()
	turnStatus := logging.StatusSuccess

	defer func() {
		if r := recover(); r != nil {
			logger.Error("turn panicked", logging.Err(fmt.Errorf("%v", r)))
			turn.Answer = fmt.Sprintf("❌ Error: %v", r)
			turn.History = append(turn.History, AI(turn.Answer))
			turnStatus = logging.StatusError
			err = nil
		}
		c.cfg.Metrics.RecordTurn(context.WithoutCancel(ctx), turnStatus, time.Since(start), turn.Cycles)
	}()

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			turnStatus = logging.StatusError
			return turn, ctxErr
		}

		obs.NodeEntered(turnID, NodeAssistant)
		turn.Cycles++

		resp, llmErr := c.complete(ctx, logger, turn.History)
		if llmErr != nil {
			if ctx.Err() != nil {
				turnStatus = logging.StatusError
				return turn, ctx.Err()
			}
			turnStatus = logging.StatusError
			turn.Answer = fmt.Sprintf("❌ Error: %v", llmErr)
			turn.History = append(turn.History, AI(turn.Answer))
			obs.AnswerProduced(turnID, turn.Answer)
			obs.NodeEntered(turnID, NodeDone)
			return turn, nil
		}

		calls := make([]ToolCall, 0, len(resp.ToolCalls))
		for _, tc := range resp.ToolCalls {
			calls = append(calls, ToolCall{ID: tc.ID, Name: tc.Name, Args: tc.Args})
		}

		content := resp.Content
		if content == "" && len(calls) == 0 {
			// An assistant message must carry content or tool calls.
			content = "❌ Error: empty response from model"
			logger.Warn("reasoning step returned neither content nor tool calls")
		}
		turn.History = append(turn.History, AI(content, calls...))

		if content != "" {
			turn.Answer = content
			obs.AnswerProduced(turnID, content)
		}

		if len(calls) == 0 {
			obs.NodeEntered(turnID, NodeDone)
			return turn, nil
		}

		obs.NodeEntered(turnID, NodeTools)
		for _, call := range calls {
			turn.ToolsUsed = append(turn.ToolsUsed, call.Name)
			obs.ToolCallStarted(turnID, call)
			result := c.dispatch(ctx, logger, call)
			turn.History = append(turn.History, ToolMsg(result.ToolCallID, result.Name, result.Output))
			obs.ToolCallFinished(turnID, result)
		}
	}
}

func (c *Controller) complete(ctx context.Context, logger *slog.Logger, history Messages) (*llm.Response, error) {
	start := time.Now()

	resp, err := c.cfg.LLM.Complete(ctx, llm.Request{
		Model:        c.cfg.Model,
		Messages:     toLLMMessages(history),
		Tools:        c.schemas,
		SystemPrompt: c.cfg.SystemPrompt,
		MaxTokens:    c.cfg.MaxTokens,
		Temperature:  c.cfg.Temperature,
	})
	if err != nil {
		logger.Error("reasoning call failed",
			logging.Model(c.cfg.Model),
			logging.Duration(time.Since(start)),
			logging.Status(logging.StatusError),
			logging.Err(err))
		c.cfg.Metrics.RecordReasoningCall(context.WithoutCancel(ctx), c.cfg.Model, logging.StatusError, time.Since(start))
		return nil, err
	}

	c.cfg.Metrics.RecordReasoningCall(ctx, c.cfg.Model, logging.StatusSuccess, time.Since(start))
	logger.Debug("reasoning call completed",
		logging.Model(c.cfg.Model),
		logging.Duration(time.Since(start)),
		logging.Status(logging.StatusSuccess),
		slog.Int("tool_calls", len(resp.ToolCalls)))
	return resp, nil
}

// dispatch runs a single tool call. Tool failures and panics become failed
// results with descriptive text; the conversation continues either way.
func (c *Controller) dispatch(ctx context.Context, logger *slog.Logger, call ToolCall) (result ToolResult) {
	start := time.Now()
	result = ToolResult{ToolCallID: call.ID, Name: call.Name}

	defer func() {
		if r := recover(); r != nil {
			result.Output = fmt.Sprintf("❌ Error: %v", r)
			result.Failed = true
		}
		status := logging.StatusSuccess
		if result.Failed {
			status = logging.StatusError
		}
		c.cfg.Metrics.RecordToolInvocation(context.WithoutCancel(ctx), call.Name, status, time.Since(start))
		logger.Debug("tool dispatched",
			logging.Tool(call.Name),
			logging.Duration(time.Since(start)),
			logging.Status(status))
	}()

	def, ok := c.cfg.Tools.Get(call.Name)
	if !ok {
		result.Output = fmt.Sprintf("❌ Unknown tool: %s", call.Name)
		result.Failed = true
		return result
	}

	res := def.Handler(ctx, call.Args)
	result.Output = res.Text
	result.Failed = res.Failed
	return result
}

func toLLMMessages(msgs Messages) []llm.Message {
	out := make([]llm.Message, len(msgs))
	for i, m := range msgs {
		out[i] = llm.Message{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
			Name:       m.Name,
		}
		for _, tc := range m.ToolCalls {
			out[i].ToolCalls = append(out[i].ToolCalls, llm.ToolCallInfo{
				ID:   tc.ID,
				Name: tc.Name,
				Args: tc.Args,
			})
		}
	}
	return out
}
