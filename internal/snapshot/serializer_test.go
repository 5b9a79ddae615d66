// File: internal/snapshot/serializer_test.go
package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amitgur2000/web-tasks-bot/internal/config"
)

type fakeSurface struct {
	lastScript string
	payload    string
	err        error
}

func (f *fakeSurface) EvaluateScript(_ context.Context, src string) (string, error) {
	f.lastScript = src
	return f.payload, f.err
}

const samplePayload = `{
	"url": "https://x.test/p/",
	"origin": "https://x.test",
	"path": "/p/",
	"baseHref": "https://x.test/p/",
	"title": "Products",
	"html": "<!DOCTYPE html><html><head><base href=\"https://x.test/p/\"></head><body></body></html>",
	"resources": [
		{"tag": "img", "attr": "src", "value": "/a.png"},
		{"tag": "a", "attr": "href", "value": "detail?id=3"},
		{"tag": "script", "attr": "src", "value": "https://cdn.test/app.js"},
		{"tag": "img", "attr": "src", "value": "http://bad host/%zz"}
	],
	"iframes": [
		{"src": "/widget", "sameOrigin": true, "html": "<html><body>w</body></html>"},
		{"src": "https://other.test/ad", "sameOrigin": false, "html": ""}
	]
}`

func newSerializer(surface *fakeSurface, settle time.Duration) *Serializer {
	return New(surface, config.SnapshotConfig{SettleInterval: settle}, nil, zap.NewNop())
}

func TestCaptureAssemblesSnapshot(t *testing.T) {
	surface := &fakeSurface{payload: samplePayload}
	snap := newSerializer(surface, 0).Capture(context.Background())

	require.False(t, snap.IsError(), "unexpected error variant: %s", snap.Error)
	assert.Equal(t, "https://x.test/p/", snap.URL)
	assert.Equal(t, "https://x.test", snap.Origin)
	assert.Equal(t, []string{"p"}, snap.PathSegments)
	assert.Equal(t, "Products", snap.Title)
	assert.Contains(t, snap.HTML, "<base href=")
}

// A root-relative resource on https://x.test/p/ resolves against the origin,
// a document-relative one against the base path, and an already-absolute one
// is untouched. An unparseable value keeps the raw form.
func TestCaptureResolvesResourceURLs(t *testing.T) {
	surface := &fakeSurface{payload: samplePayload}
	snap := newSerializer(surface, 0).Capture(context.Background())
	require.False(t, snap.IsError())
	require.Len(t, snap.Resources, 4)

	assert.Equal(t, "https://x.test/a.png", snap.Resources[0].Absolute)
	assert.Equal(t, "https://x.test/p/detail?id=3", snap.Resources[1].Absolute)
	assert.Equal(t, "https://cdn.test/app.js", snap.Resources[2].Absolute)
	assert.Equal(t, "http://bad host/%zz", snap.Resources[3].Absolute, "unresolvable value falls back to raw")
}

func TestCaptureIframes(t *testing.T) {
	surface := &fakeSurface{payload: samplePayload}
	snap := newSerializer(surface, 0).Capture(context.Background())
	require.False(t, snap.IsError())
	require.Len(t, snap.Iframes, 2)

	same := snap.Iframes[0]
	assert.True(t, same.SameOrigin)
	assert.Equal(t, "https://x.test/widget", same.Absolute)
	assert.NotEmpty(t, same.HTML)

	cross := snap.Iframes[1]
	assert.False(t, cross.SameOrigin)
	assert.Empty(t, cross.HTML, "cross-origin frames carry no markup")
}

func TestCaptureErrorVariants(t *testing.T) {
	t.Run("surface absent", func(t *testing.T) {
		snap := New(nil, config.SnapshotConfig{}, nil, zap.NewNop()).Capture(context.Background())
		assert.True(t, snap.IsError())
	})

	t.Run("evaluation failure", func(t *testing.T) {
		surface := &fakeSurface{err: errors.New("page gone")}
		snap := newSerializer(surface, 0).Capture(context.Background())
		assert.True(t, snap.IsError())
		assert.Contains(t, snap.Error, "page gone")
	})

	t.Run("malformed payload", func(t *testing.T) {
		surface := &fakeSurface{payload: "{nope"}
		snap := newSerializer(surface, 0).Capture(context.Background())
		assert.True(t, snap.IsError())
	})

	t.Run("script reported error", func(t *testing.T) {
		surface := &fakeSurface{payload: `{"error":"DOM detached"}`}
		snap := newSerializer(surface, 0).Capture(context.Background())
		assert.True(t, snap.IsError())
		assert.Equal(t, "DOM detached", snap.Error)
	})
}

func TestCaptureSettleHonorsCancellation(t *testing.T) {
	surface := &fakeSurface{payload: samplePayload}
	serializer := newSerializer(surface, 10*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	snap := serializer.Capture(ctx)
	assert.True(t, snap.IsError())
	assert.Less(t, time.Since(start), time.Second, "cancelled capture must not sit out the settle interval")
	assert.Empty(t, surface.lastScript, "no evaluation after cancellation")
}

// The capture script itself must carry the base-injection logic and the full
// fixed resource table; the Go side only post-processes.
func TestCaptureScriptShape(t *testing.T) {
	assert.Contains(t, captureScript, "cloneNode(true)")
	assert.Contains(t, captureScript, "shadowRoot")
	// Shadow injection must run deepest-first: a forward walk re-parses each
	// host's subtree and detaches the cloned nodes of nested hosts before
	// their own injection runs.
	assert.Contains(t, captureScript, "for (var i = limit - 1; i >= 0; i--)")
	assert.Contains(t, captureScript, "head.querySelector('base')")
	for _, pair := range []string{
		`['img', 'src']`,
		`['script', 'src']`,
		`['link[rel="stylesheet"]', 'href']`,
		`['a', 'href']`,
		`['source', 'src']`,
		`['video', 'src']`,
		`['audio', 'src']`,
		`['iframe', 'src']`,
	} {
		assert.Contains(t, captureScript, pair)
	}
	assert.Contains(t, captureScript, "contentDocument")
}

func TestSplitPathSegments(t *testing.T) {
	assert.Empty(t, splitPathSegments("/"))
	assert.Empty(t, splitPathSegments(""))
	assert.Equal(t, []string{"a", "b"}, splitPathSegments("/a/b"))
	assert.Equal(t, []string{"a", "b"}, splitPathSegments("/a//b/"))
}

func TestArchiveStore(t *testing.T) {
	dir := t.TempDir()
	archive := NewArchive(dir, zap.NewNop())
	archive.Store("https://x.test:8443/p", "<html></html>")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "x.test_8443-"))

	content, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(content))
}

func TestArchiveDisabled(t *testing.T) {
	assert.Nil(t, NewArchive("", zap.NewNop()))
	// A nil archive is safe to use.
	var archive *Archive
	archive.Store("https://x.test", "<html></html>")
}
