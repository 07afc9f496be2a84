package core

// AgentCard carries identity and routing metadata for a remote agent. Cards
// are produced by the directory loader from registry data, are read-only to
// the host, and are replaced wholesale on each refresh cycle.
type AgentCard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Routing metadata. Skills are lowercase keyword tags; Domain is an
	// optional single keyword; lower Priority numbers mark more specialized
	// agents and are preferred by the selector.
	Skills   []string `json:"skills,omitempty"`
	Domain   string   `json:"domain,omitempty"`
	Priority int      `json:"priority"`

	// Remote execution target. Endpoint must be non-empty for any card that
	// is eligible for execution; Method defaults to POST.
	Endpoint string `json:"endpoint"`
	Method   string `json:"method,omitempty"`

	// Opaque pass-through bags.
	Metadata map[string]any `json:"metadata,omitempty"`
	Auth     map[string]any `json:"auth,omitempty"`
}

// CardURL returns the registry agent-card URL stashed in Metadata by the
// loader, or "" if none is known. The protocol client prefers this over the
// raw endpoint when present.
func (c *AgentCard) CardURL() string {
	if c.Metadata == nil {
		return ""
	}
	card, ok := c.Metadata["agent_card"].(map[string]any)
	if !ok {
		return ""
	}
	url, _ := card["url"].(string)
	return url
}

// Clone returns a shallow copy with independent slice/map headers so a card
// snapshot can outlive a directory refresh.
func (c *AgentCard) Clone() *AgentCard {
	clone := *c
	clone.Skills = append([]string(nil), c.Skills...)
	if c.Metadata != nil {
		clone.Metadata = make(map[string]any, len(c.Metadata))
		for k, v := range c.Metadata {
			clone.Metadata[k] = v
		}
	}
	if c.Auth != nil {
		clone.Auth = make(map[string]any, len(c.Auth))
		for k, v := range c.Auth {
			clone.Auth[k] = v
		}
	}
	return &clone
}
