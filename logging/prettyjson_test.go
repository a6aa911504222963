package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandler_Compact(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewJSONHandler(&buf, false, nil))
	log.With("game", "g1").WithGroup("search").Info("decided",
		"move", "up", "expansions", 12, "elapsed", 3*time.Millisecond, "err", errors.New("boom"))
	log.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, "decided", got["msg"])
	assert.Equal(t, "INFO", got["level"])
	assert.Equal(t, "g1", got["game"])
	group := got["search"].(map[string]any)
	assert.Equal(t, "up", group["move"])
	assert.Equal(t, float64(12), group["expansions"])
	assert.Equal(t, "3ms", group["elapsed"])
	assert.Equal(t, "boom", group["err"])
}

func TestJSONHandler_Indent(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewJSONHandler(&buf, true, &slog.HandlerOptions{AddSource: true})).Warn("careful", slog.Group("board", "w", 11))
	assert.Contains(t, buf.String(), "\n  \"board\": {")
	assert.Contains(t, buf.String(), "prettyjson_test.go:")
}

func TestSetup(t *testing.T) {
	assert.NoError(t, Setup(FormatText, &bytes.Buffer{}))
	assert.Error(t, Setup("xml", &bytes.Buffer{}))
}
