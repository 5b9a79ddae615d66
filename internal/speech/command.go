// File: internal/speech/command.go
package speech

import (
	"context"
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

// CommandSpeaker narrates text by running an external text-to-speech command
// (e.g. say, espeak, piper) with the text appended as the final argument.
// At most one narration runs at a time; starting a new one stops the
// previous one first.
type CommandSpeaker struct {
	command string
	args    []string
	logger  *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewCommandSpeaker creates a subprocess-backed speaker.
func NewCommandSpeaker(command string, args []string, logger *zap.Logger) *CommandSpeaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandSpeaker{
		command: command,
		args:    args,
		logger:  logger.Named("speech"),
	}
}

// Speak starts narrating text and returns a channel closed once the
// narration process exits, for any reason. Failures to start are treated as
// instant completion; narration is best-effort.
func (s *CommandSpeaker) Speak(ctx context.Context, text string) <-chan struct{} {
	done := make(chan struct{})

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	args := append(append([]string{}, s.args...), text)
	cmd := exec.CommandContext(runCtx, s.command, args...)

	go func() {
		defer close(done)
		defer cancel()
		if err := cmd.Run(); err != nil && runCtx.Err() == nil {
			s.logger.Debug("Narration command exited with error.",
				zap.String("command", s.command), zap.Error(err))
		}
	}()

	return done
}

// Stop halts any in-progress narration immediately.
func (s *CommandSpeaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
