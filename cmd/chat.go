package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/teemow/calagent/internal/agent"
	"github.com/teemow/calagent/internal/calendar"
	"github.com/teemow/calagent/internal/config"
	"github.com/teemow/calagent/internal/instrumentation"
	"github.com/teemow/calagent/internal/llm"
	"github.com/teemow/calagent/internal/tools/calendar_tools"
)

func newChatCmd() *cobra.Command {
	var (
		configPath string
		account    string
		model      string
		timezone   string
		debugMode  bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive calendar chat session",
		Long: `Start an interactive chat session with the calendar assistant.

Each utterance is a fresh conversation: the assistant reasons over your
request, calls calendar tools as needed, and prints a final answer.
Type 'quit', 'stop' or 'exit' to leave the session.

Configuration:
  The Groq API key is read from GROQ_API_KEY (a .env file in the working
  directory is honored). Google OAuth credentials come from
  GOOGLE_OAUTH_CLIENT_ID and GOOGLE_OAUTH_CLIENT_SECRET; run
  'calagent auth' once to store a calendar token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(configPath, account, model, timezone, debugMode)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.config/calagent/config.yaml)")
	cmd.Flags().StringVar(&account, "account", "", "Google account to use (overrides config)")
	cmd.Flags().StringVar(&model, "model", "", "LLM model to use (overrides config)")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for created events (overrides config)")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	return cmd
}

func runChat(configPath, account, model, timezone string, debugMode bool) error {
	// A .env in the working directory is a convenience, not a requirement.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if account != "" {
		cfg.Calendar.Account = account
	}
	if model != "" {
		cfg.LLM.Model = model
	}
	if timezone != "" {
		cfg.Calendar.Timezone = timezone
	}

	setupLogging(cfg.Logging.Level, debugMode)

	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("no LLM API key configured; set GROQ_API_KEY (or llm.api_key in the config file)")
	}
	if !calendar.HasTokenForAccount(cfg.Calendar.Account) {
		return fmt.Errorf("no Google Calendar token for account %q; run 'calagent auth' first", cfg.Calendar.Account)
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Warn("instrumentation shutdown failed", "error", err)
		}
	}()

	client, err := calendar.NewClientForAccount(ctx, cfg.Calendar.Account)
	if err != nil {
		return fmt.Errorf("failed to create calendar client: %w", err)
	}
	store := calendar.NewInstrumentedStore(client, provider.Metrics())

	catalog, err := calendar_tools.NewCatalog(calendar_tools.Config{
		Store:    store,
		TimeZone: cfg.Calendar.Timezone,
		Policy: calendar.ResolverPolicy{
			FetchLimit:   cfg.Resolver.FetchLimit,
			MaxAmbiguous: cfg.Resolver.MaxAmbiguous,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to build tool catalog: %w", err)
	}

	controller, err := agent.NewController(agent.Config{
		LLM:      llm.NewOpenAIClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model),
		Tools:    catalog,
		Model:    cfg.LLM.Model,
		Observer: consoleObserver{},
		Metrics:  provider.Metrics(),
	})
	if err != nil {
		return fmt.Errorf("failed to create controller: %w", err)
	}

	return chatLoop(ctx, controller)
}

func chatLoop(ctx context.Context, controller *agent.Controller) error {
	fmt.Println("---CALENDAR AGENT ACTIVE---")
	fmt.Println("type 'exit','stop','quit' to stop")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("user:")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "stop", "exit":
			fmt.Println("Goodbye!!! 😔💔")
			return nil
		}

		// Each utterance starts a fresh conversation.
		if _, err := controller.Run(ctx, input); err != nil {
			if ctx.Err() != nil {
				fmt.Println("\nInterrupted.")
				return nil
			}
			return err
		}

		fmt.Println("\n" + strings.Repeat("-", 50) + "\n")
	}

	return scanner.Err()
}

// consoleObserver renders the turn's progress to stdout.
type consoleObserver struct{}

func (consoleObserver) NodeEntered(_, node string) {
	if node == agent.NodeDone {
		return
	}
	fmt.Printf("\n[Node:%s]\n", node)
}

func (consoleObserver) ToolCallStarted(_ string, call agent.ToolCall) {
	fmt.Printf("Action:calling tool '%s'..\n", call.Name)
}

func (consoleObserver) ToolCallFinished(string, agent.ToolResult) {}

func (consoleObserver) AnswerProduced(_, answer string) {
	fmt.Printf("Assistant:%s\n", answer)
}

func setupLogging(level string, debugMode bool) {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if debugMode {
		lvl = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})))
}
