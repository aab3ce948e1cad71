package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKVs_RedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]any{
		"user_id", "u1",
		"api_key", "sk-123",
		"Authorization", "Bearer abc",
		"raw", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ1MSJ9.sig",
		"dangling",
	})
	want := []any{
		"user_id", "u1",
		"api_key", redacted,
		"Authorization", redacted,
		"raw", redacted,
		"dangling",
	}
	assert.Equal(t, want, got)
}

func TestSanitizeKVs_NonStringKey(t *testing.T) {
	got := sanitizeKVs([]any{42, "v"})
	assert.Equal(t, []any{"42", "v"}, got)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arlab.log")
	l, err := New(Options{Mode: "prod", Level: "info", File: path})
	require.NoError(t, err)

	l.Debug("hidden")
	l.With("lesson_id", "physics_001").Info("step completed", "step", 2, "token", "x")
	l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, `"msg":"step completed"`)
	assert.Contains(t, out, `"lesson_id":"physics_001"`)
	assert.Contains(t, out, `"token":"[REDACTED]"`)
	assert.False(t, strings.Contains(out, "hidden"), "debug entry should be filtered at info level")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	var l *Logger
	assert.NotNil(t, l.OrNop())
	l.OrNop().Info("discarded")
}
