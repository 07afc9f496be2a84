package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardFromAgent(t *testing.T) {
	agent := &Agent{
		ID:          "cs-agent",
		Name:        "Customer Service Agent",
		Description: "Handles orders and returns",
		Version:     "1.2.0",
		Provider:    "Acme",
		Tags:        []string{"Ecommerce", "orders", "returns"},
		Skills: []Skill{
			{ID: "s1", Name: "Order lookup", Tags: []string{"orders", "shopify"}},
		},
		LocationURL: "http://cs.internal/chat",
		AuthSchemes: []AuthScheme{{Type: "apiKey"}},
		Card: &Card{
			Name: "Customer Service Agent",
			URL:  "http://cs.internal/.well-known/agent.json",
		},
	}

	card := CardFromAgent(agent)
	require.NotNil(t, card)

	assert.Equal(t, "cs-agent", card.ID)
	assert.Equal(t, "Customer Service Agent", card.Name)
	assert.Equal(t, "http://cs.internal/chat", card.Endpoint)
	assert.Equal(t, "POST", card.Method)

	// tags + skill tags, lowercased, deduplicated in encounter order
	assert.Equal(t, []string{"ecommerce", "orders", "returns", "shopify"}, card.Skills)
	assert.Equal(t, "ecommerce", card.Domain)

	// 3 tags: 15 - 3
	assert.Equal(t, 12, card.Priority)

	assert.Equal(t, "1.2.0", card.Metadata["version"])
	assert.Equal(t, "Acme", card.Metadata["provider"])
	cardMeta, ok := card.Metadata["agent_card"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "http://cs.internal/.well-known/agent.json", cardMeta["url"])

	// auth scheme defaults
	auth, ok := card.Auth["apiKey"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "header", auth["location"])
	assert.Equal(t, "Authorization", auth["name"])
}

func TestCardFromAgent_PriorityClamp(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want int
	}{
		{"no tags uses default", nil, 10},
		{"few tags", []string{"a", "b"}, 13},
		{"many tags clamp at floor", []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := CardFromAgent(&Agent{ID: "x", Name: "X", Tags: tt.tags, LocationURL: "http://x/chat"})
			require.NotNil(t, card)
			assert.Equal(t, tt.want, card.Priority)
		})
	}
}

func TestCardFromAgent_IDFallbackFromName(t *testing.T) {
	card := CardFromAgent(&Agent{Name: "My Cool Agent", LocationURL: "http://x/chat"})
	require.NotNil(t, card)
	assert.Equal(t, "my-cool-agent", card.ID)
}

func TestCardFromAgent_NoEndpoint(t *testing.T) {
	assert.Nil(t, CardFromAgent(&Agent{ID: "x", Name: "X"}))
	assert.Nil(t, CardFromAgent(&Agent{
		ID:   "x",
		Name: "X",
		Card: &Card{URL: "https://example.com"},
	}))
}

func TestResolveEndpoint(t *testing.T) {
	t.Run("location url wins", func(t *testing.T) {
		agent := &Agent{
			LocationURL: "http://direct/chat",
			Card:        &Card{URL: "http://card/url"},
		}
		assert.Equal(t, "http://direct/chat", resolveEndpoint(agent))
	})

	t.Run("http transport from additional interfaces", func(t *testing.T) {
		agent := &Agent{
			Card: &Card{
				URL: "http://card/url",
				Interface: &Interface{
					AdditionalInterfaces: []map[string]any{
						{"transport": "grpc", "url": "grpc://x"},
						{"transport": "http", "url": "http://iface/chat"},
					},
				},
			},
		}
		assert.Equal(t, "http://iface/chat", resolveEndpoint(agent))
	})

	t.Run("api agent path rewritten to chat", func(t *testing.T) {
		agent := &Agent{Card: &Card{URL: "http://x/api/agent/"}}
		assert.Equal(t, "http://x/chat", resolveEndpoint(agent))
	})

	t.Run("card url as-is", func(t *testing.T) {
		agent := &Agent{Card: &Card{URL: "http://x/rpc/"}}
		assert.Equal(t, "http://x/rpc", resolveEndpoint(agent))
	})

	t.Run("placeholder url skipped", func(t *testing.T) {
		agent := &Agent{Card: &Card{URL: "https://example.com"}}
		assert.Equal(t, "", resolveEndpoint(agent))
	})
}

func TestInferDomain(t *testing.T) {
	assert.Equal(t, "logistics", inferDomain([]string{"shipping", "Logistics"}))
	assert.Equal(t, "", inferDomain([]string{"shipping", "api"}))
}
