package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/a2ahost/core"
	"github.com/hupe1980/a2ahost/logging"
)

// ProtocolClient is the primary execution path: a client speaking the rich
// remote-agent protocol, yielding the response as an ordered chunk sequence.
// Implementations should return an error (not panic) for any transport or
// protocol problem; the executor treats every ProtocolClient error as a
// signal to fall back to the direct HTTP path.
type ProtocolClient interface {
	Send(ctx context.Context, card *core.AgentCard, prompt string) ([]Chunk, error)
}

// JSONRPCClientOptions configures a JSONRPCClient.
type JSONRPCClientOptions struct {
	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration
	// BearerToken, when set, is passed through on the Authorization header.
	BearerToken string
	// HTTPClient overrides the underlying client (e.g. for tests).
	HTTPClient *http.Client
	// Logger receives protocol-level diagnostics.
	Logger logging.Logger
}

// JSONRPCClient speaks the A2A message/send JSON-RPC method over HTTP
// against an agent's card URL (falling back to its endpoint when the
// registry supplied no card URL).
type JSONRPCClient struct {
	client *http.Client
	token  string
	logger logging.Logger
}

// NewJSONRPCClient constructs a JSONRPCClient with optional overrides.
func NewJSONRPCClient(optFns ...func(o *JSONRPCClientOptions)) *JSONRPCClient {
	opts := JSONRPCClientOptions{
		Timeout: DefaultTimeout,
		Logger:  logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &JSONRPCClient{client: client, token: opts.BearerToken, logger: opts.Logger}
}

type rpcEnvelope struct {
	Result map[string]any `json:"result"`
	Error  *rpcError      `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send performs one message/send round trip and converts the result into
// chunks: one TextChunk per text part, one DataChunk per data part, plus a
// final DataChunk holding the whole result object.
func (c *JSONRPCClient) Send(ctx context.Context, card *core.AgentCard, prompt string) ([]Chunk, error) {
	url := card.CardURL()
	if url == "" {
		url = card.Endpoint
	}

	payload := map[string]any{
		"jsonrpc": "2.0",
		"id":      uuid.NewString(),
		"method":  "message/send",
		"params": map[string]any{
			"message": map[string]any{
				"messageId": uuid.NewString(),
				"role":      "user",
				"parts":     []map[string]any{{"kind": "text", "text": prompt}},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send message to %s: %w", card.ID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("agent %s protocol endpoint returned HTTP %d", card.ID, resp.StatusCode)
	}

	var envelope rpcEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", card.ID, err)
	}
	if envelope.Error != nil {
		return nil, fmt.Errorf("agent %s protocol error %d: %s", card.ID, envelope.Error.Code, envelope.Error.Message)
	}
	if envelope.Result == nil {
		return nil, fmt.Errorf("agent %s returned no result", card.ID)
	}

	chunks := resultToChunks(envelope.Result)
	c.logger.Debug("protocol send completed", "agent_id", card.ID, "chunks", len(chunks))
	return chunks, nil
}

// resultToChunks flattens a message/send result into the chunk sequence fed
// to ProcessChunks. Parts may live at the top level or nested under a
// message object.
func resultToChunks(result map[string]any) []Chunk {
	var chunks []Chunk

	parts, ok := result["parts"].([]any)
	if !ok {
		if msg, ok := result["message"].(map[string]any); ok {
			parts, _ = msg["parts"].([]any)
		}
	}

	for _, p := range parts {
		part, ok := p.(map[string]any)
		if !ok {
			continue
		}
		if text, ok := part["text"].(string); ok && text != "" {
			chunks = append(chunks, TextChunk{Text: text})
			continue
		}
		if data, ok := part["data"].(map[string]any); ok {
			chunks = append(chunks, DataChunk{Data: data})
		}
	}

	chunks = append(chunks, DataChunk{Data: result})
	return chunks
}
