package google

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenFileForAccount(t *testing.T) {
	tests := []struct {
		name    string
		account string
		suffix  string
	}{
		{"default account keeps legacy name", "default", "calagent/google.token"},
		{"named account gets suffixed file", "work", "calagent/google-work.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tokenFileForAccount(tt.account)
			assert.True(t, strings.HasSuffix(path, tt.suffix), "got %s", path)
		})
	}
}

func TestHasTokenForAccount_Empty(t *testing.T) {
	assert.False(t, HasTokenForAccount(""))
}

func TestGetAuthURLForAccount(t *testing.T) {
	url := GetAuthURLForAccount("work")
	assert.Contains(t, url, "state-work")
	assert.Contains(t, url, "calendar")
}

func TestGetOAuthConfigScopes(t *testing.T) {
	conf := GetOAuthConfig()
	assert.Equal(t, DefaultOAuthScopes, conf.Scopes)
}
