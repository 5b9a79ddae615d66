// File: internal/snapshot/serializer.go
package snapshot

import (
	"context"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/amitgur2000/web-tasks-bot/api/schemas"
	"github.com/amitgur2000/web-tasks-bot/internal/config"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// rawSnapshot mirrors the JSON payload produced by the capture script before
// the Go side fills in path segments and absolute resource URLs.
type rawSnapshot struct {
	URL      string `json:"url"`
	Origin   string `json:"origin"`
	Path     string `json:"path"`
	BaseHref string `json:"baseHref"`
	Title    string `json:"title"`
	HTML     string `json:"html"`
	Error    string `json:"error"`

	Resources []struct {
		Tag   string `json:"tag"`
		Attr  string `json:"attr"`
		Value string `json:"value"`
	} `json:"resources"`

	Iframes []struct {
		Src        string `json:"src"`
		SameOrigin bool   `json:"sameOrigin"`
		HTML       string `json:"html"`
	} `json:"iframes"`
}

// Serializer captures a serializable snapshot of the hosted page's state.
type Serializer struct {
	surface schemas.ScriptSurface
	logger  *zap.Logger
	settle  time.Duration
	archive *Archive
}

// New creates a serializer. The archive may be nil when diagnostics
// archiving is disabled.
func New(surface schemas.ScriptSurface, cfg config.SnapshotConfig, archive *Archive, logger *zap.Logger) *Serializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Serializer{
		surface: surface,
		logger:  logger.Named("snapshot"),
		settle:  cfg.SettleInterval,
		archive: archive,
	}
}

// Capture reads the current page state and assembles a PageSnapshot. It
// waits a fixed settle interval first so asynchronous rendering can finish.
// Capture never fails loudly: any problem yields the error variant.
func (s *Serializer) Capture(ctx context.Context) *schemas.PageSnapshot {
	if s.surface == nil {
		return schemas.ErrorSnapshot("page surface unavailable")
	}

	if s.settle > 0 {
		select {
		case <-time.After(s.settle):
		case <-ctx.Done():
			return schemas.ErrorSnapshot(ctx.Err().Error())
		}
	}

	payload, err := s.surface.EvaluateScript(ctx, captureScript)
	if err != nil {
		s.logger.Warn("Snapshot capture script failed.", zap.Error(err))
		return schemas.ErrorSnapshot(err.Error())
	}
	if payload == "" {
		return schemas.ErrorSnapshot("capture returned no payload")
	}

	var raw rawSnapshot
	if err := jsonAPI.UnmarshalFromString(payload, &raw); err != nil {
		s.logger.Warn("Snapshot payload is not valid JSON.", zap.Error(err))
		return schemas.ErrorSnapshot("malformed capture payload: " + err.Error())
	}
	if raw.Error != "" {
		return schemas.ErrorSnapshot(raw.Error)
	}

	snap := s.assemble(&raw)

	if s.archive != nil {
		// Diagnostics side-channel; its failure never affects the snapshot.
		s.archive.Store(snap.URL, snap.HTML)
	}
	return snap
}

func (s *Serializer) assemble(raw *rawSnapshot) *schemas.PageSnapshot {
	base, baseErr := url.Parse(raw.BaseHref)
	if baseErr != nil {
		s.logger.Debug("Base href does not parse; absolute resolution disabled.",
			zap.String("baseHref", raw.BaseHref), zap.Error(baseErr))
		base = nil
	}

	resources := make([]schemas.ResourceReference, 0, len(raw.Resources))
	for _, res := range raw.Resources {
		resources = append(resources, schemas.ResourceReference{
			Tag:      res.Tag,
			Attr:     res.Attr,
			Value:    res.Value,
			Absolute: resolveAgainst(base, res.Value),
		})
	}

	iframes := make([]schemas.IframeSnapshot, 0, len(raw.Iframes))
	for _, frame := range raw.Iframes {
		html := frame.HTML
		if !frame.SameOrigin {
			html = ""
		}
		iframes = append(iframes, schemas.IframeSnapshot{
			Src:        frame.Src,
			Absolute:   resolveAgainst(base, frame.Src),
			SameOrigin: frame.SameOrigin,
			HTML:       html,
		})
	}

	return &schemas.PageSnapshot{
		URL:          raw.URL,
		Origin:       raw.Origin,
		Path:         raw.Path,
		PathSegments: splitPathSegments(raw.Path),
		BaseHref:     raw.BaseHref,
		Title:        raw.Title,
		HTML:         raw.HTML,
		Resources:    resources,
		Iframes:      iframes,
	}
}

// resolveAgainst resolves ref against base, keeping the raw value whenever
// resolution is impossible.
func resolveAgainst(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	if base == nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}

// splitPathSegments returns the ordered non-empty segments of a URL path.
func splitPathSegments(path string) []string {
	segments := make([]string, 0, 4)
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
