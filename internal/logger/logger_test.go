package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   string
		wantJSON bool
	}{
		{name: "json", format: "json", wantJSON: true},
		{name: "text", format: "text", wantJSON: false},
		{name: "unknown falls back to text", format: "yaml", wantJSON: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := NewWithWriter(&buf, 0, tt.format)
			l.Info("hello", "k", "v")

			var entry map[string]any
			err := json.Unmarshal(buf.Bytes(), &entry)
			if tt.wantJSON {
				require.NoError(t, err)
				assert.Equal(t, "hello", entry["msg"])
			} else {
				assert.Error(t, err)
				assert.Contains(t, buf.String(), "msg=hello")
			}
		})
	}
}

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, 4, "text")

	l.Info("skipped")
	assert.Empty(t, buf.String())

	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestLogger_LogError(t *testing.T) {
	t.Run("coded error", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter(&buf, 0, "json")

		err := oops.Code("STORE_FAILED").With("collection", "users").Errorf("boom")
		l.LogError("Auth service: failed", err, "email", "a@b.c")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "ERROR", entry["level"])
		assert.Equal(t, "STORE_FAILED", entry["code"])
		assert.Equal(t, "a@b.c", entry["email"])
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter(&buf, 0, "json")

		l.LogError("failed", errors.New("plain"))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "plain", entry["error"])
		assert.NotContains(t, entry, "code")
	})
}
