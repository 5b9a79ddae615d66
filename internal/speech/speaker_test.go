// File: internal/speech/speaker_test.go
package speech

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/amitgur2000/web-tasks-bot/internal/config"
)

func TestNopCompletesImmediately(t *testing.T) {
	done := Nop{}.Speak(context.Background(), "hello")
	select {
	case <-done:
	default:
		t.Fatal("nop speaker must complete immediately")
	}
}

func TestNewFromConfigDisabled(t *testing.T) {
	speaker := NewFromConfig(config.SpeechConfig{Enabled: false}, zap.NewNop())
	assert.IsType(t, Nop{}, speaker)
}

func TestCommandSpeakerCompletes(t *testing.T) {
	speaker := NewCommandSpeaker("true", nil, zap.NewNop())
	done := speaker.Speak(context.Background(), "hello")
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("narration command did not complete")
	}
}

func TestCommandSpeakerStopHaltsNarration(t *testing.T) {
	// The narration text doubles as the sleep duration, keeping the fake
	// engine busy until Stop fires.
	speaker := NewCommandSpeaker("sleep", nil, zap.NewNop())
	done := speaker.Speak(context.Background(), "30")

	speaker.Stop()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stop did not halt the narration process")
	}
}

func TestCommandSpeakerMissingBinary(t *testing.T) {
	speaker := NewCommandSpeaker("definitely-not-a-tts-engine", nil, zap.NewNop())
	done := speaker.Speak(context.Background(), "hello")
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("missing binary must still complete the narration signal")
	}
}
