// File: internal/agentclient/client.go
package agentclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/amitgur2000/web-tasks-bot/api/schemas"
	"github.com/amitgur2000/web-tasks-bot/internal/config"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Failure taxonomy for one exchange. A malformed body is still a transport
// failure from the orchestrator's point of view; the distinct sentinel only
// sharpens logging.
var (
	ErrTransport         = errors.New("reasoning service transport failure")
	ErrMalformedResponse = fmt.Errorf("%w: malformed response", ErrTransport)
)

// Client talks to the remote reasoning service: one HTTPS request, one JSON
// answer, no retries. A failed exchange is repeated only when the user
// explicitly re-submits.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// New initializes the client from configuration.
func New(cfg config.AgentConfig, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("reasoning service endpoint is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("agent_client"),
	}, nil
}

// Exchange performs a single request/response cycle. Any non-success status
// or unreadable body is reported as a transport failure.
func (c *Client) Exchange(ctx context.Context, req *schemas.AgentRequest) (*schemas.AgentResponse, error) {
	body, err := jsonAPI.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal exchange payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create exchange request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("Exchange request failed.", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Reasoning service returned non-success status.",
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	var answer schemas.AgentResponse
	if err := jsonAPI.Unmarshal(respBody, &answer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if answer.Answer == "" {
		return nil, fmt.Errorf("%w: missing answer field", ErrMalformedResponse)
	}

	c.logger.Info("Exchange complete.",
		zap.Duration("duration", time.Since(start)),
		zap.Int("answer_len", len(answer.Answer)),
	)
	return &answer, nil
}
