// File: internal/browser/session.go
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amitgur2000/web-tasks-bot/api/schemas"
	"github.com/amitgur2000/web-tasks-bot/internal/config"
)

// Session owns one Chrome tab and exposes the script surface the rest of the
// system drives the page through. It implements schemas.ScriptSurface and
// schemas.Navigator.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
	cfg    config.BrowserConfig

	allocCancel context.CancelFunc

	mu       sync.Mutex
	isClosed bool
}

var (
	_ schemas.ScriptSurface = (*Session)(nil)
	_ schemas.Navigator     = (*Session)(nil)
)

// allocatorOptions builds the ExecAllocator options from configuration.
// Defaults are chosen for stability in containers; config args are merged on
// top, with key=value flags parsed into typed chromedp flags.
func allocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	for _, arg := range cfg.Args {
		arg = strings.TrimPrefix(arg, "--")
		key, value, found := strings.Cut(arg, "=")
		if found {
			opts = append(opts, chromedp.Flag(key, value))
		} else {
			opts = append(opts, chromedp.Flag(key, true))
		}
	}
	return opts
}

// NewSession launches a browser process and connects a tab. The session stays
// alive until Close is called or the parent context ends.
func NewSession(parent context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sessionID := uuid.NewString()

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocatorOptions(cfg)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Force target creation now so a broken Chrome install fails fast.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to connect browser tab: %w", err)
	}

	s := &Session{
		id:          sessionID,
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
		logger:      logger.Named("browser").With(zap.String("session_id", sessionID)),
		cfg:         cfg,
	}
	s.logger.Info("Browser session established.")
	return s, nil
}

// run executes chromedp actions against the session tab while honoring the
// caller's context. chromedp actions run on the tab context; a watcher relays
// caller cancellation into the tab-scoped operation.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return fmt.Errorf("session %s is closed", s.id)
	}
	s.mu.Unlock()

	opCtx, opCancel := context.WithCancel(s.ctx)
	defer opCancel()

	watcherDone := make(chan struct{})
	defer close(watcherDone)
	go func() {
		select {
		case <-ctx.Done():
			opCancel()
		case <-watcherDone:
		}
	}()

	if err := chromedp.Run(opCtx, actions...); err != nil {
		// Prefer the caller's cancellation cause over the derived one.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// EvaluateScript evaluates a JavaScript expression in the page and returns
// its result rendered as a string. Promises are awaited; page-side exceptions
// stay silent and surface through the returned error.
func (s *Session) EvaluateScript(ctx context.Context, src string) (string, error) {
	timeout := s.cfg.EvalTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var res json.RawMessage
	err := s.run(opCtx,
		chromedp.Evaluate(src, &res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true).WithAwaitPromise(true).WithSilent(true)
		}),
	)
	if err != nil {
		if opCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("script evaluation timed out after %s: %w", timeout, opCtx.Err())
		}
		return "", fmt.Errorf("script evaluation failed: %w", err)
	}
	return decodeResult(res), nil
}

// decodeResult renders an evaluation result the way the page surface expects:
// strings are unquoted, null and undefined collapse to empty, everything else
// keeps its JSON encoding.
func decodeResult(res json.RawMessage) string {
	raw := string(res)
	if raw == "" || raw == "null" || raw == "undefined" {
		return ""
	}
	var str string
	if err := json.Unmarshal(res, &str); err == nil {
		return str
	}
	return raw
}

// LoadURL navigates the tab and waits for the load to settle.
func (s *Session) LoadURL(ctx context.Context, pageURL string) error {
	timeout := s.cfg.NavigationTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.logger.Debug("Navigating.", zap.String("url", pageURL))
	if err := s.run(opCtx, chromedp.Navigate(pageURL), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("navigation to %q failed: %w", pageURL, err)
	}
	return nil
}

// Close tears down the tab and the browser process. It is safe to call more
// than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return
	}
	s.isClosed = true
	s.mu.Unlock()

	s.logger.Info("Closing browser session.")
	s.cancel()
	s.allocCancel()
}
