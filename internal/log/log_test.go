package log_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "tirupurhomes/internal/log"
)

func TestRecordsCarryActionAndFields(t *testing.T) {
	var buf bytes.Buffer
	prev := applog.Use(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { applog.Use(prev) })

	applog.Audit(nil, "listing.create", map[string]any{"slug": "villa", "id": 7})
	applog.Error(nil, "listing.image.orphan", errors.New("insert failed"), map[string]any{"ref": "abc"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "listing.create", first["action"])
	assert.Equal(t, "audit", first["kind"])
	assert.Equal(t, "villa", first["fields"].(map[string]any)["slug"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "ERROR", second["level"])
	assert.Equal(t, "insert failed", second["err"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, applog.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, applog.ParseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, applog.ParseLevel("nonsense"))
}
