package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/calagent/internal/google"
)

// Store is the capability the agent core uses to reach durable event
// storage. Each method may fail with a transport or auth error; the tool
// layer converts such failures into text for the reasoning step.
type Store interface {
	// ListUpcoming returns events starting at or after the current instant,
	// ordered by start time ascending, at most maxResults of them.
	ListUpcoming(ctx context.Context, maxResults int64) ([]Event, error)

	// Insert creates a new event and returns the stored copy (with link).
	Insert(ctx context.Context, ev Event) (*Event, error)

	// Patch applies the merged event to the stored event with the given ID
	// and returns the updated copy (with link).
	Patch(ctx context.Context, eventID string, ev Event) (*Event, error)
}

// Client wraps the Google Calendar service for a single calendar.
type Client struct {
	svc        *calendar.Service
	calendarID string
	account    string
}

var _ Store = (*Client)(nil)

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.NewFileTokenProvider().HasTokenForAccount(account)
}

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return HasTokenForAccount("default")
}

// NewClientForAccountWithProvider creates a new Calendar client with OAuth2
// authentication for a specific account. The OAuth token is retrieved from
// the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	conf := google.GetOAuthConfig()
	tokenSource := conf.TokenSource(ctx, token)

	client := oauth2.NewClient(ctx, tokenSource)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:        svc,
		calendarID: "primary",
		account:    account,
	}, nil
}

// NewClientForAccount creates a new Calendar client with OAuth2 authentication
// for a specific account, using the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a new Calendar client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ListUpcoming lists upcoming events on the primary calendar.
func (c *Client) ListUpcoming(ctx context.Context, maxResults int64) ([]Event, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	result, err := c.svc.Events.List(c.calendarID).
		TimeMin(now).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var events []Event
	for _, item := range result.Items {
		events = append(events, toEvent(item))
	}

	return events, nil
}

// Insert creates a new calendar event.
func (c *Client) Insert(ctx context.Context, ev Event) (*Event, error) {
	created, err := c.svc.Events.Insert(c.calendarID, toGoogleEvent(ev)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	out := toEvent(created)
	return &out, nil
}

// Patch applies the merged event fields to an existing event.
func (c *Client) Patch(ctx context.Context, eventID string, ev Event) (*Event, error) {
	updated, err := c.svc.Events.Patch(c.calendarID, eventID, toGoogleEvent(ev)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to patch event: %w", err)
	}

	out := toEvent(updated)
	return &out, nil
}
