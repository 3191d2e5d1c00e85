package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/teemow/calagent/internal/google"
	"github.com/teemow/calagent/internal/instrumentation"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to your Google Calendar",
		Long: `Run the OAuth authorization flow for Google Calendar and store the
resulting token locally.

Requires GOOGLE_OAUTH_CLIENT_ID and GOOGLE_OAUTH_CLIENT_SECRET in the
environment (a .env file in the working directory is honored). The
token is written to the user cache directory and picked up by the
chat and serve commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd, account)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Account name to store the token under")

	return cmd
}

// authRecorder is the slice of the metrics recorder the auth flow needs.
type authRecorder interface {
	RecordOAuthAuth(ctx context.Context, result string)
}

// exchangeToken trades the authorization code for a stored token via save
// and records the attempt's outcome.
func exchangeToken(ctx context.Context, account, code string, save func(context.Context, string, string) error, metrics authRecorder) error {
	if err := save(ctx, account, code); err != nil {
		metrics.RecordOAuthAuth(ctx, instrumentation.StatusError)
		return err
	}
	metrics.RecordOAuthAuth(ctx, instrumentation.StatusSuccess)
	return nil
}

func runAuth(cmd *cobra.Command, account string) error {
	_ = godotenv.Load()

	if os.Getenv("GOOGLE_OAUTH_CLIENT_ID") == "" || os.Getenv("GOOGLE_OAUTH_CLIENT_SECRET") == "" {
		return fmt.Errorf("GOOGLE_OAUTH_CLIENT_ID and GOOGLE_OAUTH_CLIENT_SECRET must be set")
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(cmd.Context(), instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slog.Warn("instrumentation shutdown failed", "error", err)
		}
	}()

	fmt.Println("Open the following URL in your browser and authorize access:")
	fmt.Println()
	fmt.Println("  " + google.GetAuthURLForAccount(account))
	fmt.Println()
	fmt.Print("Paste the authorization code here: ")

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("no authorization code provided")
	}

	if err := exchangeToken(cmd.Context(), account, code, google.SaveTokenForAccount, provider.Metrics()); err != nil {
		return err
	}

	fmt.Printf("Token stored for account %q. You can now run 'calagent chat'.\n", account)
	return nil
}
