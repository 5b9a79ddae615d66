// File: api/schemas/jsontags_test.go
package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The reasoning service consumes these payloads verbatim, so the wire keys
// are part of the protocol and must not drift.
func TestSnapshotWireKeys(t *testing.T) {
	snap := PageSnapshot{
		URL:          "https://x.test/p/q",
		Origin:       "https://x.test",
		Path:         "/p/q",
		PathSegments: []string{"p", "q"},
		BaseHref:     "https://x.test/p/",
		Title:        "t",
		HTML:         "<html></html>",
		Resources:    []ResourceReference{{Tag: "img", Attr: "src", Value: "/a.png", Absolute: "https://x.test/a.png"}},
		Iframes:      []IframeSnapshot{{Src: "/f", Absolute: "https://x.test/f", SameOrigin: true, HTML: "<html></html>"}},
	}

	raw, err := json.Marshal(snap)
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))

	for _, key := range []string{"url", "origin", "path", "pathSegments", "baseHref", "title", "html", "resources", "iframes"} {
		assert.Contains(t, m, key)
	}
	// The error variant key is omitted on success.
	assert.NotContains(t, m, "error")

	var res []map[string]string
	require.NoError(t, json.Unmarshal(m["resources"], &res))
	require.Len(t, res, 1)
	for _, key := range []string{"tag", "attr", "value", "absolute"} {
		assert.Contains(t, res[0], key)
	}
}

func TestAgentRequestWireKeys(t *testing.T) {
	raw, err := json.Marshal(AgentRequest{PageSnapshot: &PageSnapshot{}})
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, key := range []string{"userPrompt", "previousAnswer", "pageHtml", "pageSnapshot", "constantPrompt"} {
		assert.Contains(t, m, key)
	}
}

func TestErrorSnapshotVariant(t *testing.T) {
	snap := ErrorSnapshot("capture failed")
	assert.True(t, snap.IsError())

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Contains(t, m, "error")
}

func TestPresetValidate(t *testing.T) {
	cases := []struct {
		name   string
		preset OperationPreset
		ok     bool
	}{
		{"navigate ok", OperationPreset{ID: "p1", Type: PresetNavigate, Value: "https://x.test"}, true},
		{"navigate missing url", OperationPreset{ID: "p1", Type: PresetNavigate}, false},
		{"click ok", OperationPreset{ID: "p2", Type: PresetClick, Selector: "#go"}, true},
		{"click missing selector", OperationPreset{ID: "p2", Type: PresetClick}, false},
		{"type ok", OperationPreset{ID: "p3", Type: PresetTypeText, Selector: "#q", Value: "hi"}, true},
		{"unknown type", OperationPreset{ID: "p4", Type: "hover"}, false},
		{"missing id", OperationPreset{Type: PresetClick, Selector: "#go"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.preset.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
