// Package google provides shared Google OAuth2 authentication for the
// Calendar API client.
//
// Tokens are persisted under the user cache directory and refreshed
// automatically by the oauth2 token source. Credential acquisition is a
// shell concern: the agent core only ever sees an authenticated client.
package google
