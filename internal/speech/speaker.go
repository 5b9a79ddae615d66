// File: internal/speech/speaker.go
package speech

import (
	"context"

	"go.uber.org/zap"

	"github.com/amitgur2000/web-tasks-bot/api/schemas"
	"github.com/amitgur2000/web-tasks-bot/internal/config"
)

// NewFromConfig builds the configured speaker. When speech is disabled the
// returned engine completes narration instantly, so callers never need to
// special-case a silent setup.
func NewFromConfig(cfg config.SpeechConfig, logger *zap.Logger) schemas.Speaker {
	if !cfg.Enabled || cfg.Command == "" {
		return Nop{}
	}
	return NewCommandSpeaker(cfg.Command, cfg.Args, logger)
}

// Nop is a speaker that narrates nothing and completes immediately.
type Nop struct{}

// Speak returns an already-closed completion channel.
func (Nop) Speak(context.Context, string) <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}

// Stop is a no-op.
func (Nop) Stop() {}
