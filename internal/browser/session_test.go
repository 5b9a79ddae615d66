// File: internal/browser/session_test.go
package browser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amitgur2000/web-tasks-bot/internal/config"
)

func TestAllocatorOptions(t *testing.T) {
	t.Run("baseline options always present", func(t *testing.T) {
		opts := allocatorOptions(config.BrowserConfig{})
		assert.GreaterOrEqual(t, len(opts), 5)
	})

	t.Run("headless and exec path add options", func(t *testing.T) {
		base := len(allocatorOptions(config.BrowserConfig{}))
		opts := allocatorOptions(config.BrowserConfig{Headless: true, ExecPath: "/usr/bin/chromium"})
		assert.Equal(t, base+2, len(opts))
	})

	t.Run("config args merge as flags", func(t *testing.T) {
		base := len(allocatorOptions(config.BrowserConfig{}))
		opts := allocatorOptions(config.BrowserConfig{
			Args: []string{"--window-size=1280,800", "disable-extensions"},
		})
		assert.Equal(t, base+2, len(opts))
	})
}

func TestDecodeResult(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"string unquoted", `"clicked:selector"`, "clicked:selector"},
		{"string with escapes", `"line one\nline two"`, "line one\nline two"},
		{"null collapses", `null`, ""},
		{"undefined collapses", `undefined`, ""},
		{"empty collapses", ``, ""},
		{"object kept as json", `{"error":"detached"}`, `{"error":"detached"}`},
		{"number kept", `42`, `42`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, decodeResult(json.RawMessage(tc.raw)))
		})
	}
}
