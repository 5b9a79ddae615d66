// File: internal/resolver/resolver.go
package resolver

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/amitgur2000/web-tasks-bot/api/schemas"
)

// Status values reported by a resolution attempt.
const (
	StatusNotFound = "not found"

	clickedPrefix = "clicked:"
	errorPrefix   = "error:"
)

// Strategy names carried by clicked statuses.
const (
	StrategySelector = "selector"
	StrategyID       = "id"
	StrategyMatch    = "match"
	StrategyHidden   = "hidden"
)

// Result is the outcome of one resolution call.
type Result struct {
	// Status is the raw status string ("clicked:<strategy>", "not found"
	// or "error:<message>").
	Status string
	// Strategy names the stage that produced the match; empty when no
	// element was clicked.
	Strategy string
	// Clicked reports whether an element was matched and clicked.
	Clicked bool
	// Visible reports whether the clicked element had non-zero rendered
	// dimensions at match time. Meaningless unless Clicked.
	Visible bool
	// Message carries the evaluation error text for "error:" statuses.
	Message string
}

// Resolver turns a free-text token into a single clicked page element via an
// ordered heuristic evaluated in one round trip against the hosted page.
type Resolver struct {
	surface schemas.ScriptSurface
	logger  *zap.Logger
}

// New creates a resolver bound to the given (possibly nil) script surface.
func New(surface schemas.ScriptSurface, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		surface: surface,
		logger:  logger.Named("resolver"),
	}
}

// Resolve evaluates the staged matching heuristic for token and clicks the
// first match. It never returns an error: evaluation failures are folded
// into the result status, and an absent surface degrades to a silent
// not-found.
func (r *Resolver) Resolve(ctx context.Context, token string) Result {
	if r.surface == nil {
		r.logger.Debug("No script surface attached; resolution skipped.", zap.String("token", token))
		return Result{Status: StatusNotFound}
	}

	raw, err := r.surface.EvaluateScript(ctx, buildScript(token))
	if err != nil {
		r.logger.Warn("Resolution script evaluation failed.", zap.String("token", token), zap.Error(err))
		return Result{Status: errorPrefix + err.Error(), Message: err.Error()}
	}

	res := ParseStatus(raw)
	r.logger.Debug("Resolution finished.",
		zap.String("token", token),
		zap.String("status", res.Status),
	)
	return res
}

// ParseStatus interprets a status string produced by the resolution script.
func ParseStatus(raw string) Result {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, clickedPrefix):
		strategy := strings.TrimPrefix(s, clickedPrefix)
		return Result{
			Status:   s,
			Strategy: strategy,
			Clicked:  true,
			Visible:  strategy != StrategyHidden,
		}
	case strings.HasPrefix(s, errorPrefix):
		return Result{Status: s, Message: strings.TrimPrefix(s, errorPrefix)}
	case s == StatusNotFound, s == "":
		return Result{Status: StatusNotFound}
	default:
		// Unknown shape; surface it untouched so callers can log it.
		return Result{Status: s}
	}
}
