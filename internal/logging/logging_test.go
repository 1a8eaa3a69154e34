package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		verbose   bool
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"default is warn", "", false, false, false, true},
		{"configured info", "info", false, false, true, true},
		{"verbose wins", "error", true, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Setup(tt.level, tt.verbose, false, &buf))

			Debug("debug line")
			Info("info line")
			Warn("warn line")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "debug line"))
			assert.Equal(t, tt.wantInfo, strings.Contains(out, "info line"))
			assert.Equal(t, tt.wantWarn, strings.Contains(out, "warn line"))
		})
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	err := Setup("chatty", false, false, &bytes.Buffer{})
	assert.ErrorContains(t, err, "chatty")
}

func TestJSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup("debug", false, true, &buf))

	With("change", "42").Info("shelved", "files", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "shelved", entry["msg"])
	assert.Equal(t, "42", entry["change"])
	assert.Equal(t, "p", entry["prefix"])
	assert.EqualValues(t, 3, entry["files"])
}
