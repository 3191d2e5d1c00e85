package google

// DefaultOAuthScopes are the Google OAuth scopes required by the agent.
// These scopes are used consistently across the application for OAuth
// configurations.
//
// The scopes provide access to:
//   - Google Calendar: full access (list, insert, patch events)
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Google Calendar scope
	"https://www.googleapis.com/auth/calendar",
}
