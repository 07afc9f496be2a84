package registry

import (
	"strings"

	"github.com/hupe1980/a2ahost/core"
)

// knownDomains are the routing domains inferable from registry tags.
var knownDomains = map[string]bool{
	"ecommerce":  true,
	"logistics":  true,
	"support":    true,
	"finance":    true,
	"healthcare": true,
	"education":  true,
}

// CardFromAgent converts a registry agent record into a routing card.
// Returns nil when no usable endpoint can be resolved; such agents are
// skipped by the loader.
func CardFromAgent(agent *Agent) *core.AgentCard {
	endpoint := resolveEndpoint(agent)
	if endpoint == "" {
		return nil
	}

	id := agent.ID
	if id == "" {
		id = strings.ReplaceAll(strings.ToLower(agent.Name), " ", "-")
	}

	// Fewer tags usually means a more specialized agent; reward that with a
	// lower priority number.
	priority := 10
	if len(agent.Tags) > 0 {
		priority = 15 - len(agent.Tags)
		if priority < 5 {
			priority = 5
		}
	}

	card := &core.AgentCard{
		ID:          id,
		Name:        agent.Name,
		Description: agent.Description,
		Skills:      collectSkills(agent),
		Domain:      inferDomain(agent.Tags),
		Priority:    priority,
		Endpoint:    endpoint,
		Method:      "POST",
		Metadata: map[string]any{
			"version":  agent.Version,
			"provider": agent.Provider,
		},
	}

	if agent.Card != nil {
		card.Metadata["agent_card"] = map[string]any{
			"name":        agent.Card.Name,
			"description": agent.Card.Description,
			"url":         agent.Card.URL,
		}
	}

	if len(agent.AuthSchemes) > 0 {
		auth := make(map[string]any, len(agent.AuthSchemes))
		for _, scheme := range agent.AuthSchemes {
			location := scheme.Location
			if location == "" {
				location = "header"
			}
			name := scheme.Name
			if name == "" {
				name = "Authorization"
			}
			auth[scheme.Type] = map[string]any{"location": location, "name": name}
		}
		card.Auth = auth
	}

	return card
}

// collectSkills gathers routing keywords from the agent's tags and from the
// tags of each declared skill, deduplicated in encounter order.
func collectSkills(agent *Agent) []string {
	seen := map[string]bool{}
	var skills []string
	add := func(tag string) {
		tag = strings.ToLower(tag)
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		skills = append(skills, tag)
	}

	for _, tag := range agent.Tags {
		add(tag)
	}
	for _, skill := range agent.Skills {
		for _, tag := range skill.Tags {
			add(tag)
		}
	}
	return skills
}

func inferDomain(tags []string) string {
	for _, tag := range tags {
		if knownDomains[strings.ToLower(tag)] {
			return strings.ToLower(tag)
		}
	}
	return ""
}

// resolveEndpoint walks the places a registry record can carry endpoint
// information: the location URL, an http transport in the card's additional
// interfaces, the card URL itself, and finally a /chat guess derived from
// the card URL.
func resolveEndpoint(agent *Agent) string {
	if agent.LocationURL != "" {
		return agent.LocationURL
	}

	if agent.Card != nil {
		if agent.Card.Interface != nil {
			for _, iface := range agent.Card.Interface.AdditionalInterfaces {
				transport, _ := iface["transport"].(string)
				url, _ := iface["url"].(string)
				if transport == "http" && url != "" {
					return url
				}
			}
		}
		if url := agent.Card.URL; url != "" && url != "https://example.com" {
			base := strings.TrimSuffix(url, "/")
			if strings.Contains(base, "/api/agent") {
				return strings.ReplaceAll(base, "/api/agent", "/chat")
			}
			return base
		}
	}

	return ""
}
