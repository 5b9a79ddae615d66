// File: internal/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amitgur2000/web-tasks-bot/api/schemas"
	"github.com/amitgur2000/web-tasks-bot/internal/resolver"
)

var (
	// ErrExchangeInFlight is returned when a submission arrives while an
	// earlier exchange is still between snapshot capture and response
	// interpretation.
	ErrExchangeInFlight = errors.New("an exchange is already in flight")
	// ErrEmptyPrompt is returned for blank submissions.
	ErrEmptyPrompt = errors.New("prompt is empty")
)

const defaultDwell = 6 * time.Second

// SnapshotSource captures the current page state. Capture never fails; a
// broken page yields the error-variant snapshot, which is still forwarded to
// the assistant.
type SnapshotSource interface {
	Capture(ctx context.Context) *schemas.PageSnapshot
}

// ElementResolver dispatches a free-text action token against the live page.
type ElementResolver interface {
	Resolve(ctx context.Context, token string) resolver.Result
}

// Hooks let the embedding surface react to exchange milestones. All fields
// are optional and are invoked outside the orchestrator's lock.
type Hooks struct {
	// OnAnswer fires when a narrated answer becomes visible.
	OnAnswer func(answer string)
	// OnError fires when an exchange fails and input is re-enabled.
	OnError func(err error)
	// OnClose fires when the exchange surface closes, whether by action
	// dispatch, auto-close, or cancellation.
	OnClose func()
}

// Deps carries the collaborators an Orchestrator drives.
type Deps struct {
	Snapshots      SnapshotSource
	Resolver       ElementResolver
	Client         schemas.AgentClient
	Speaker        schemas.Speaker
	Logger         *zap.Logger
	Dwell          time.Duration
	ConstantPrompt string
	Hooks          Hooks
}

// Orchestrator runs the single-exchange loop: capture a snapshot, consult the
// assistant, then either dispatch the action token it returned or present the
// answer until both the dwell window and narration have finished.
type Orchestrator struct {
	snapshots      SnapshotSource
	resolver       ElementResolver
	client         schemas.AgentClient
	speaker        schemas.Speaker
	logger         *zap.Logger
	dwell          time.Duration
	constantPrompt string
	hooks          Hooks

	mu             sync.Mutex
	phase          Phase
	currentID      string
	cancelExchange context.CancelFunc
	previousAnswer string
}

// New validates the wiring and returns an idle Orchestrator.
func New(deps Deps) (*Orchestrator, error) {
	if deps.Snapshots == nil {
		return nil, errors.New("orchestrator requires a snapshot source")
	}
	if deps.Resolver == nil {
		return nil, errors.New("orchestrator requires an element resolver")
	}
	if deps.Client == nil {
		return nil, errors.New("orchestrator requires an agent client")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Dwell <= 0 {
		deps.Dwell = defaultDwell
	}
	return &Orchestrator{
		snapshots:      deps.Snapshots,
		resolver:       deps.Resolver,
		client:         deps.Client,
		speaker:        deps.Speaker,
		logger:         deps.Logger.Named("orchestrator"),
		dwell:          deps.Dwell,
		constantPrompt: deps.ConstantPrompt,
		hooks:          deps.Hooks,
		phase:          PhaseIdle,
	}, nil
}

// Phase reports the current lifecycle phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// PreviousAnswer returns the last narrated answer, carried into the next
// exchange for conversational continuity. Action dispatches do not update it.
func (o *Orchestrator) PreviousAnswer() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.previousAnswer
}

// Submit runs one full exchange for the given prompt. It blocks through
// snapshot capture and the assistant round trip; for narrated answers it
// returns once presentation starts and leaves auto-close to a background
// join. A submission is rejected only while an earlier exchange is between
// capture and interpretation; a presenting answer is superseded instead.
//
// A stricter reading of "one exchange in flight" would also reject input
// while an answer is presenting, but auto-close is required to stand down
// once a newer answer has superseded the presented one, and that is only
// reachable if Presenting accepts submissions. The guard therefore covers
// capture through interpretation only, and supersession is settled by
// exchange identity in the auto-close join.
func (o *Orchestrator) Submit(ctx context.Context, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ErrEmptyPrompt
	}

	o.mu.Lock()
	switch o.phase {
	case PhaseAwaitingSnapshot, PhaseAwaitingResponse, PhaseDispatching:
		o.mu.Unlock()
		return ErrExchangeInFlight
	}
	// A presented answer still waiting on auto-close loses currency here;
	// releasing its context retires the pending join promptly.
	if o.cancelExchange != nil {
		o.cancelExchange()
	}
	exCtx, cancel := context.WithCancel(ctx)
	id := uuid.NewString()
	o.currentID = id
	o.cancelExchange = cancel
	o.phase = PhaseAwaitingSnapshot
	prev := o.previousAnswer
	o.mu.Unlock()

	o.logger.Info("Exchange started.", zap.String("exchange_id", id))

	snap := o.snapshots.Capture(exCtx)
	if !o.advance(id, PhaseAwaitingResponse) {
		return nil
	}

	req := &schemas.AgentRequest{
		UserPrompt:     prompt,
		PreviousAnswer: prev,
		PageHTML:       snap.HTML,
		PageSnapshot:   snap,
		ConstantPrompt: o.constantPrompt,
	}
	resp, err := o.client.Exchange(exCtx, req)
	if err != nil {
		o.fail(id, err)
		return err
	}
	answer := resp.Answer

	if token, ok := ExtractActionToken(answer); ok {
		if !o.advance(id, PhaseDispatching) {
			return nil
		}
		o.stopSpeech()
		res := o.resolver.Resolve(exCtx, token)
		o.logger.Info("Action dispatched.",
			zap.String("exchange_id", id),
			zap.String("token", token),
			zap.String("status", res.Status))
		o.close(id)
		return nil
	}

	if !o.advance(id, PhasePresenting) {
		return nil
	}
	narrated := o.speak(exCtx, answer)
	o.mu.Lock()
	if o.currentID == id {
		o.previousAnswer = answer
	}
	o.mu.Unlock()
	if o.hooks.OnAnswer != nil {
		o.hooks.OnAnswer(answer)
	}
	go o.autoClose(exCtx, id, narrated)
	return nil
}

// Cancel abandons whatever exchange is current, halting narration and
// closing the surface. It is a no-op while idle.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	if o.currentID == "" {
		o.mu.Unlock()
		return
	}
	o.logger.Info("Exchange cancelled.", zap.String("exchange_id", o.currentID))
	o.currentID = ""
	o.phase = PhaseClosed
	if o.cancelExchange != nil {
		o.cancelExchange()
		o.cancelExchange = nil
	}
	o.mu.Unlock()

	o.stopSpeech()
	if o.hooks.OnClose != nil {
		o.hooks.OnClose()
	}
}

// autoClose holds the presented answer open until the dwell window has
// elapsed AND narration has finished, then closes if this exchange is still
// the current one. A superseding submission or cancellation makes it a no-op.
func (o *Orchestrator) autoClose(ctx context.Context, id string, narrated <-chan struct{}) {
	dwell := time.NewTimer(o.dwell)
	defer dwell.Stop()

	dwellElapsed := false
	narrationDone := narrated == nil
	for !dwellElapsed || !narrationDone {
		select {
		case <-ctx.Done():
			return
		case <-dwell.C:
			dwellElapsed = true
		case <-narrated:
			narrationDone = true
			narrated = nil
		}
	}

	o.mu.Lock()
	if o.currentID != id || o.phase != PhasePresenting {
		o.mu.Unlock()
		return
	}
	o.logger.Debug("Auto-closing presented answer.", zap.String("exchange_id", id))
	o.currentID = ""
	o.phase = PhaseClosed
	if o.cancelExchange != nil {
		o.cancelExchange()
		o.cancelExchange = nil
	}
	o.mu.Unlock()

	if o.hooks.OnClose != nil {
		o.hooks.OnClose()
	}
}

// advance moves to the next phase if this exchange is still current.
func (o *Orchestrator) advance(id string, next Phase) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.currentID != id {
		return false
	}
	o.phase = next
	return true
}

// fail returns the loop to idle so input is re-enabled immediately.
func (o *Orchestrator) fail(id string, err error) {
	o.mu.Lock()
	if o.currentID != id {
		o.mu.Unlock()
		return
	}
	o.logger.Warn("Exchange failed.", zap.String("exchange_id", id), zap.Error(err))
	o.currentID = ""
	o.phase = PhaseIdle
	if o.cancelExchange != nil {
		o.cancelExchange()
		o.cancelExchange = nil
	}
	o.mu.Unlock()

	if o.hooks.OnError != nil {
		o.hooks.OnError(err)
	}
}

// close ends a dispatched exchange.
func (o *Orchestrator) close(id string) {
	o.mu.Lock()
	if o.currentID != id {
		o.mu.Unlock()
		return
	}
	o.currentID = ""
	o.phase = PhaseClosed
	if o.cancelExchange != nil {
		o.cancelExchange()
		o.cancelExchange = nil
	}
	o.mu.Unlock()

	if o.hooks.OnClose != nil {
		o.hooks.OnClose()
	}
}

func (o *Orchestrator) speak(ctx context.Context, text string) <-chan struct{} {
	if o.speaker == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return o.speaker.Speak(ctx, text)
}

func (o *Orchestrator) stopSpeech() {
	if o.speaker != nil {
		o.speaker.Stop()
	}
}
