package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlab/arlab/internal/logging"
	"github.com/arlab/arlab/internal/store"
)

func TestRecordingProvider_AppendsEvents(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "llm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	events := st.EventRepo()

	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"explanation":"x"}`), Usage: Usage{InputTokens: 12, OutputTokens: 4}},
		MockResponse{Err: errors.New("boom")},
	)
	p := WithRecorder(mock, ProviderMock, events, logging.Nop())
	ctx := WithPurpose(context.Background(), "explain")

	req := Request{
		System:   "be brief",
		Messages: []Message{{Role: RoleUser, Content: "why?"}},
		Schema:   explanationSchema,
	}
	_, err = p.Generate(ctx, req)
	require.NoError(t, err)
	_, err = p.Generate(ctx, req)
	require.Error(t, err)

	list, err := events.QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, list, 2)

	failed, succeeded := list[0], list[1]
	assert.False(t, failed.Success)
	assert.Equal(t, "boom", failed.ErrorMessage)

	assert.True(t, succeeded.Success)
	assert.Equal(t, "mock", succeeded.Provider)
	assert.Equal(t, "explain", succeeded.Purpose)
	assert.Equal(t, 12, succeeded.InputTokens)
	assert.Contains(t, succeeded.RequestBody, "[system]\nbe brief")
	assert.Contains(t, succeeded.RequestBody, "[schema: test-explanation]")
	assert.JSONEq(t, `{"explanation":"x"}`, succeeded.ResponseBody)
}

func TestRecordingProvider_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`"hi"`)})
	p := WithRecorder(mock, ProviderMock, nil, nil)
	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, `"hi"`, string(resp.Content))
	assert.Equal(t, "mock", p.ModelID())
}
