package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/calagent/internal/calendar"
	"github.com/teemow/calagent/internal/config"
	"github.com/teemow/calagent/internal/instrumentation"
	"github.com/teemow/calagent/internal/server"
	"github.com/teemow/calagent/internal/tools"
	"github.com/teemow/calagent/internal/tools/calendar_tools"
)

func newServeCmd() *cobra.Command {
	var (
		configPath     string
		account        string
		timezone       string
		debugMode      bool
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start a Model Context Protocol (MCP) server over stdio, exposing the
calendar tool catalog (listUpcomingEvents, currentDateTime, createEvent,
updateCalendarEvent) to AI assistants.

The reasoning loop stays on the client side; this server only executes
tools. A stored Google Calendar token is required (run 'calagent auth').`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, account, timezone, debugMode, metricsEnabled, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.config/calagent/config.yaml)")
	cmd.Flags().StringVar(&account, "account", "", "Google account to use (overrides config)")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for created events (overrides config)")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", false, "Serve Prometheus metrics on a dedicated port")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address")

	return cmd
}

func runServe(configPath, account, timezone string, debugMode, metricsEnabled bool, metricsAddr string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if account != "" {
		cfg.Calendar.Account = account
	}
	if timezone != "" {
		cfg.Calendar.Timezone = timezone
	}

	// stdout carries the MCP protocol; logs must go to stderr.
	setupLogging(cfg.Logging.Level, debugMode)

	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Warn("instrumentation shutdown failed", "error", err)
		}
	}()

	var metricsServer *server.MetricsServer
	if metricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsAddr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			slog.Info("metrics server started", "addr", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Warn("metrics server shutdown failed", "error", err)
			}
		}()
	}

	if !calendar.HasTokenForAccount(cfg.Calendar.Account) {
		return fmt.Errorf("no Google Calendar token for account %q; run 'calagent auth' first", cfg.Calendar.Account)
	}

	client, err := calendar.NewClientForAccount(shutdownCtx, cfg.Calendar.Account)
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

	mcpSrv := mcpserver.NewMCPServer("calagent", version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := registerCatalog(mcpSrv, catalog, provider.Metrics()); err != nil {
		return err
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-shutdownCtx.Done():
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	}
}

// registerCatalog exposes every tool of the catalog over MCP. Failed tool
// results become MCP error results; the text is preserved verbatim either
// way.
func registerCatalog(mcpSrv *mcpserver.MCPServer, catalog *tools.Registry, metrics *instrumentation.Metrics) error {
	for _, def := range catalog.All() {
		schema, err := json.Marshal(def.Parameters)
		if err != nil {
			return fmt.Errorf("failed to marshal schema for tool %s: %w", def.Name, err)
		}

		def := def
		handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			res := def.Handler(ctx, request.GetArguments())

			status := instrumentation.StatusSuccess
			if res.Failed {
				status = instrumentation.StatusError
			}
			metrics.RecordToolInvocation(ctx, def.Name, status, time.Since(start))

			if res.Failed {
				return mcp.NewToolResultError(res.Text), nil
			}
			return mcp.NewToolResultText(res.Text), nil
		}

		mcpSrv.AddTool(mcp.NewToolWithRawSchema(def.Name, def.Description, schema), handler)
	}
	return nil
}
