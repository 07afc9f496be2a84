package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNotFound is returned when the registry has no record for the requested
// agent id.
var ErrNotFound = errors.New("agent not found in registry")

// Agent is the registry's full record for one published agent. Only the
// fields consumed by the card adapter are modeled.
type Agent struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Version     string       `json:"version"`
	Provider    string       `json:"provider"`
	Tags        []string     `json:"tags"`
	Skills      []Skill      `json:"skills"`
	LocationURL string       `json:"location_url"`
	AuthSchemes []AuthScheme `json:"auth_schemes"`
	Card        *Card        `json:"agent_card"`
}

// Skill is one capability record attached to a registry agent.
type Skill struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// AuthScheme describes where an agent expects credentials.
type AuthScheme struct {
	Type     string `json:"type"`
	Location string `json:"location"`
	Name     string `json:"name"`
}

// Card is the registry's agent-card document with endpoint information.
type Card struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	Version     string     `json:"version"`
	Provider    *Provider  `json:"provider"`
	Interface   *Interface `json:"interface"`
}

// Provider identifies the organization operating an agent.
type Provider struct {
	Organization string `json:"organization"`
	URL          string `json:"url"`
}

// Interface lists the transports an agent card advertises.
type Interface struct {
	PreferredTransport   string           `json:"preferredTransport"`
	AdditionalInterfaces []map[string]any `json:"additionalInterfaces"`
}

// agentSummary tolerates the id field spellings seen in registry listings.
type agentSummary struct {
	ID         string `json:"id"`
	AgentID    string `json:"agent_id"`
	AgentIDAlt string `json:"agentId"`
}

func (s agentSummary) ident() string {
	if s.ID != "" {
		return s.ID
	}
	if s.AgentID != "" {
		return s.AgentID
	}
	return s.AgentIDAlt
}

// ClientOptions configures a registry Client.
type ClientOptions struct {
	// RegistryURL is the registry base URL.
	RegistryURL string
	// APIKey authenticates requests when set; sent on APIKeyHeader.
	APIKey string
	// APIKeyHeader names the API key header. Defaults to X-API-Key.
	APIKeyHeader string
	// Timeout bounds each registry request.
	Timeout time.Duration
	// HTTPClient overrides the underlying client (e.g. for tests).
	HTTPClient *http.Client
}

// Client is a minimal HTTP client for the registry's public agent listing
// and card endpoints.
type Client struct {
	baseURL      string
	apiKey       string
	apiKeyHeader string
	client       *http.Client
}

// NewClient constructs a registry Client with optional overrides.
func NewClient(optFns ...func(o *ClientOptions)) *Client {
	opts := ClientOptions{
		RegistryURL:  "http://localhost:8000",
		APIKeyHeader: "X-API-Key",
		Timeout:      30 * time.Second,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:      strings.TrimSuffix(opts.RegistryURL, "/"),
		apiKey:       opts.APIKey,
		apiKeyHeader: opts.APIKeyHeader,
		client:       client,
	}
}

// ListPublicAgents returns the ids of the publicly listed agents on the
// given page.
func (c *Client) ListPublicAgents(ctx context.Context, page, limit int) ([]string, error) {
	var listing struct {
		Items []agentSummary `json:"items"`
	}
	path := fmt.Sprintf("/agents/public?page=%d&limit=%d", page, limit)
	if err := c.get(ctx, path, &listing); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(listing.Items))
	for _, item := range listing.Items {
		if id := item.ident(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// GetAgent fetches the full agent record including endpoint details.
func (c *Client) GetAgent(ctx context.Context, id string) (*Agent, error) {
	var agent Agent
	if err := c.get(ctx, "/agents/"+id, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// GetAgentCard fetches only the agent-card document, which is readable
// without full agent access on most registries.
func (c *Client) GetAgentCard(ctx context.Context, id string) (*Card, error) {
	var card Card
	if err := c.get(ctx, "/agents/"+id+"/card", &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build registry request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set(c.apiKeyHeader, c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("registry request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry returned HTTP %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode registry response: %w", err)
	}
	return nil
}
