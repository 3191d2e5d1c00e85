package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// TokenProvider supplies OAuth tokens for the Google Calendar API. The
// calendar client depends only on this interface, so token storage can be
// swapped (disk file, keychain, injected test token) without touching it.
type TokenProvider interface {
	// GetTokenForAccount returns a valid token for the account, refreshing
	// it if the stored one has expired.
	GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error)

	// HasTokenForAccount reports whether a token is stored for the account.
	HasTokenForAccount(account string) bool
}

// FileTokenProvider reads tokens persisted by the auth command under the
// user cache directory, one file per account.
type FileTokenProvider struct{}

// NewFileTokenProvider returns a provider backed by the on-disk token files.
func NewFileTokenProvider() *FileTokenProvider {
	return &FileTokenProvider{}
}

// GetTokenForAccount loads the account's token from disk. The returned
// token is refreshed through the OAuth config when necessary.
func (p *FileTokenProvider) GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	token, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to get token from file: %w", err)
	}

	return token, nil
}

// HasTokenForAccount reports whether a token file exists for the account.
func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	return HasTokenForAccount(account)
}
