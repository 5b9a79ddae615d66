// File: internal/resolver/resolver_test.go
package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSurface struct {
	lastScript string
	result     string
	err        error
}

func (f *fakeSurface) EvaluateScript(_ context.Context, src string) (string, error) {
	f.lastScript = src
	return f.result, f.err
}

func TestResolveParsesClickedStatuses(t *testing.T) {
	cases := []struct {
		raw      string
		strategy string
		visible  bool
	}{
		{"clicked:selector", StrategySelector, true},
		{"clicked:id", StrategyID, true},
		{"clicked:match", StrategyMatch, true},
		{"clicked:hidden", StrategyHidden, false},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			surface := &fakeSurface{result: tc.raw}
			res := New(surface, zap.NewNop()).Resolve(context.Background(), "submit")
			assert.True(t, res.Clicked)
			assert.Equal(t, tc.strategy, res.Strategy)
			assert.Equal(t, tc.visible, res.Visible)
		})
	}
}

func TestResolveEmbedsTokenSafely(t *testing.T) {
	surface := &fakeSurface{result: "not found"}
	New(surface, zap.NewNop()).Resolve(context.Background(), `Sign "up" now`)

	// The token travels JSON-encoded; raw quotes must not reach the script.
	assert.Contains(t, surface.lastScript, `"Sign \"up\" now"`)
}

func TestResolveNotFound(t *testing.T) {
	surface := &fakeSurface{result: "not found"}
	res := New(surface, zap.NewNop()).Resolve(context.Background(), "nope")
	assert.False(t, res.Clicked)
	assert.Equal(t, StatusNotFound, res.Status)
}

// Evaluation errors are reported in the status, never propagated.
func TestResolveFoldsEvaluationErrors(t *testing.T) {
	surface := &fakeSurface{err: errors.New("target crashed")}
	res := New(surface, zap.NewNop()).Resolve(context.Background(), "submit")
	assert.False(t, res.Clicked)
	assert.Equal(t, "error:target crashed", res.Status)
	assert.Equal(t, "target crashed", res.Message)
}

func TestResolveWithoutSurfaceIsNoOp(t *testing.T) {
	res := New(nil, zap.NewNop()).Resolve(context.Background(), "submit")
	assert.Equal(t, StatusNotFound, res.Status)
}

func TestParseStatusErrorShape(t *testing.T) {
	res := ParseStatus("error:SyntaxError: unexpected token")
	assert.False(t, res.Clicked)
	assert.Equal(t, "SyntaxError: unexpected token", res.Message)
}

// The script must attempt its stages in a fixed order: selector probe,
// id lookup, attribute equality, label/value, exact text, substring text and
// finally label association.
func TestScriptStageOrdering(t *testing.T) {
	src := buildScript("go")

	probe := strings.Index(src, "doc.querySelector(token)")
	byID := strings.Index(src, "doc.getElementById(token)")
	attrEq := strings.Index(src, "el.getAttribute('name') === token")
	labelVal := strings.Index(src, "getAttribute('aria-label')")
	exactText := strings.Index(src, ") === wanted) { target = pool5[k]")
	substring := strings.Index(src, ".indexOf(wanted) !== -1) { target = pool6[m]")
	labels := strings.Index(src, "getElementsByTagName('label')")

	require.True(t, probe >= 0 && byID >= 0 && attrEq >= 0 && labelVal >= 0 &&
		exactText >= 0 && substring >= 0 && labels >= 0, "all stages present")

	assert.Less(t, probe, byID)
	assert.Less(t, byID, attrEq)
	assert.Less(t, attrEq, labelVal)
	assert.Less(t, labelVal, exactText)
	assert.Less(t, exactText, substring)
	assert.Less(t, substring, labels)
}

// A failed selector probe falls through: the probe's catch is empty and the
// later stages still run against the same token.
func TestScriptSelectorProbeFallsThrough(t *testing.T) {
	src := buildScript(".broken [")
	assert.Contains(t, src, "/* not a valid selector, fall through */")
	// The interaction steps are individually failure tolerant.
	assert.Contains(t, src, "scrollIntoView")
	assert.Contains(t, src, "mouseover")
	assert.Contains(t, src, "mousedown")
	assert.Contains(t, src, "mouseup")
}
