package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calagent/internal/instrumentation"
)

type fakeAuthRecorder struct {
	results []string
}

func (f *fakeAuthRecorder) RecordOAuthAuth(_ context.Context, result string) {
	f.results = append(f.results, result)
}

func TestExchangeToken_RecordsSuccess(t *testing.T) {
	rec := &fakeAuthRecorder{}
	var gotAccount, gotCode string

	save := func(_ context.Context, account, code string) error {
		gotAccount, gotCode = account, code
		return nil
	}

	err := exchangeToken(context.Background(), "work", "auth-code-1", save, rec)
	require.NoError(t, err)

	assert.Equal(t, "work", gotAccount)
	assert.Equal(t, "auth-code-1", gotCode)
	assert.Equal(t, []string{instrumentation.StatusSuccess}, rec.results)
}

func TestExchangeToken_RecordsError(t *testing.T) {
	rec := &fakeAuthRecorder{}
	save := func(context.Context, string, string) error {
		return errors.New("invalid_grant")
	}

	err := exchangeToken(context.Background(), "default", "bad-code", save, rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")
	assert.Equal(t, []string{instrumentation.StatusError}, rec.results)
}
