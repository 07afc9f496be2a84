package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/hupe1980/a2ahost/core"
	"github.com/hupe1980/a2ahost/logging"
)

// DefaultTimeout bounds every remote agent call on both execution paths.
const DefaultTimeout = 30 * time.Second

// Circuit breaker defaults for the fallback transport.
const (
	defaultBreakerMaxFailures uint32 = 5
	defaultBreakerInterval           = 60 * time.Second
	defaultBreakerTimeout            = 30 * time.Second
)

// Options configures a RemoteExecutor.
type Options struct {
	// Timeout bounds each remote call. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Protocol is the primary execution path. Defaults to a JSONRPCClient
	// sharing the executor's timeout and bearer token.
	Protocol ProtocolClient
	// DisableProtocol skips the primary path entirely so every call uses the
	// direct HTTP fallback.
	DisableProtocol bool
	// HTTPClient overrides the fallback transport client.
	HTTPClient *http.Client
	// BearerToken, when set, is passed through on the Authorization header
	// of both paths.
	BearerToken string
	// BreakerMaxFailures is the consecutive fallback failures before an
	// agent's circuit opens.
	BreakerMaxFailures uint32
	// Logger receives execution diagnostics.
	Logger logging.Logger
}

type invokeResult struct {
	output string
	data   map[string]any
}

// RemoteExecutor implements core.Executor with a primary protocol path and a
// direct HTTP fallback. Safe for concurrent use.
type RemoteExecutor struct {
	protocol    ProtocolClient
	client      *http.Client
	token       string
	maxFailures uint32
	logger      logging.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[*invokeResult]
}

var _ core.Executor = (*RemoteExecutor)(nil)

// New constructs a RemoteExecutor with optional overrides.
func New(optFns ...func(o *Options)) *RemoteExecutor {
	opts := Options{
		Timeout:            DefaultTimeout,
		BreakerMaxFailures: defaultBreakerMaxFailures,
		Logger:             logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	protocol := opts.Protocol
	if opts.DisableProtocol {
		protocol = nil
	} else if protocol == nil {
		protocol = NewJSONRPCClient(func(o *JSONRPCClientOptions) {
			o.Timeout = opts.Timeout
			o.BearerToken = opts.BearerToken
			o.Logger = opts.Logger
		})
	}

	return &RemoteExecutor{
		protocol:    protocol,
		client:      client,
		token:       opts.BearerToken,
		maxFailures: opts.BreakerMaxFailures,
		logger:      opts.Logger,
		breakers:    make(map[string]*gobreaker.CircuitBreaker[*invokeResult]),
	}
}

// Run invokes the agent via the primary protocol path, falling back to the
// direct HTTP path when the primary is unavailable, errors, or yields no
// usable output. Only a failure of both paths is returned, as *AgentError.
func (e *RemoteExecutor) Run(
	ctx context.Context,
	card *core.AgentCard,
	agentMessages []core.Message,
	global *core.GlobalSession,
	prompt string,
) (string, map[string]any, error) {
	if card.Endpoint == "" {
		return "", nil, &AgentError{AgentID: card.ID, AgentName: card.Name, Reason: ReasonNoEndpoint}
	}

	if e.protocol != nil {
		output, data, err := e.runProtocol(ctx, card, prompt)
		if err == nil {
			return output, data, nil
		}
		e.logger.Warn("protocol execution failed, falling back to direct HTTP",
			"agent_id", card.ID, "error", err)
	}

	return e.runDirect(ctx, card, agentMessages, global, prompt)
}

func (e *RemoteExecutor) runProtocol(ctx context.Context, card *core.AgentCard, prompt string) (string, map[string]any, error) {
	chunks, err := e.protocol.Send(ctx, card, prompt)
	if err != nil {
		return "", nil, err
	}
	if len(chunks) == 0 {
		return "", nil, &AgentError{AgentID: card.ID, AgentName: card.Name, Reason: ReasonEmptyResponse}
	}

	output, data := ProcessChunks(chunks)
	if output == "" {
		return "", nil, &AgentError{AgentID: card.ID, AgentName: card.Name, Reason: ReasonEmptyResponse}
	}
	return output, data, nil
}

func (e *RemoteExecutor) runDirect(
	ctx context.Context,
	card *core.AgentCard,
	agentMessages []core.Message,
	global *core.GlobalSession,
	prompt string,
) (string, map[string]any, error) {
	payload := buildPayload(card, agentMessages, global, prompt)

	res, err := e.breakerFor(card.ID).Execute(func() (*invokeResult, error) {
		return e.invoke(ctx, card, payload)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", nil, &AgentError{AgentID: card.ID, AgentName: card.Name, Reason: ReasonUnreachable, Err: err}
		}
		return "", nil, err
	}

	return res.output, res.data, nil
}

// invoke performs one direct HTTP round trip against the card's endpoint.
func (e *RemoteExecutor) invoke(ctx context.Context, card *core.AgentCard, payload map[string]any) (*invokeResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &AgentError{AgentID: card.ID, AgentName: card.Name, Reason: ReasonEmptyResponse, Err: err}
	}

	method := strings.ToUpper(card.Method)
	if method == "" {
		method = http.MethodPost
	}

	req, err := http.NewRequestWithContext(ctx, method, card.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &AgentError{AgentID: card.ID, AgentName: card.Name, Reason: ReasonUnreachable, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		reason := ReasonUnreachable
		var urlErr *url.Error
		if (errors.As(err, &urlErr) && urlErr.Timeout()) || errors.Is(err, context.DeadlineExceeded) {
			reason = ReasonTimeout
		}
		e.logger.Error("agent endpoint request failed", "agent_id", card.ID, "endpoint", card.Endpoint, "error", err)
		return nil, &AgentError{AgentID: card.ID, AgentName: card.Name, Reason: reason, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		e.logger.Error("agent endpoint returned error status", "agent_id", card.ID, "status", resp.StatusCode)
		return nil, &AgentError{AgentID: card.ID, AgentName: card.Name, Reason: ReasonHTTPStatus, Status: resp.StatusCode}
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &AgentError{AgentID: card.ID, AgentName: card.Name, Reason: ReasonEmptyResponse, Err: err}
	}

	output := ExtractOutput(data)
	if d, ok := ExtractDelegate(data); ok {
		data[fieldDelegate] = d
	}

	return &invokeResult{output: output, data: data}, nil
}

// buildPayload assembles the fallback request body: the prompt (duplicated
// as message for protocol compatibility) plus both conversation histories
// and the shared state.
func buildPayload(card *core.AgentCard, agentMessages []core.Message, global *core.GlobalSession, prompt string) map[string]any {
	globalMessages := []core.Message{}
	sharedState := map[string]any{}
	if global != nil {
		globalMessages = global.Messages
		sharedState = global.SharedState
	}

	return map[string]any{
		"prompt":     prompt,
		"message":    prompt, // A2A protocol compatibility
		"context_id": "host-" + card.ID,
		"task_id":    "task-" + uuid.NewString(),
		"metadata": map[string]any{
			"agent_messages":  encodeMessages(agentMessages),
			"global_messages": encodeMessages(globalMessages),
			"shared_state":    sharedState,
			"agent_id":        card.ID,
		},
	}
}

func encodeMessages(messages []core.Message) []map[string]any {
	encoded := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		encoded = append(encoded, map[string]any{
			"role":    m.Role,
			"content": m.Content,
			"ts":      m.Timestamp.Format(time.RFC3339Nano),
		})
	}
	return encoded
}

// breakerFor returns (allocating if needed) the circuit breaker guarding one
// agent's fallback transport.
func (e *RemoteExecutor) breakerFor(agentID string) *gobreaker.CircuitBreaker[*invokeResult] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if cb, ok := e.breakers[agentID]; ok {
		return cb
	}

	maxFailures := e.maxFailures
	cb := gobreaker.NewCircuitBreaker[*invokeResult](gobreaker.Settings{
		Name:        "agent:" + agentID,
		MaxRequests: 1, // allow one probe in half-open state
		Interval:    defaultBreakerInterval,
		Timeout:     defaultBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	e.breakers[agentID] = cb
	return cb
}
