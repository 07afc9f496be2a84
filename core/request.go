package core

// Delegate is the instruction a remote agent can return to ask the host to
// route a sub-prompt to another agent.
type Delegate struct {
	Prompt           string         `json:"prompt"`
	AgentID          string         `json:"agent_id,omitempty"`
	ContextOverrides map[string]any `json:"context_overrides,omitempty"`
}

// RunRequest is the contract at the host boundary. Trace is nil for
// top-level requests and carries the shared delegation trace on recursive
// sub-requests.
type RunRequest struct {
	Prompt           string           `json:"prompt"`
	Token            string           `json:"token"`
	ForceAgentID     string           `json:"force_agent_id,omitempty"`
	ContextOverrides map[string]any   `json:"context_overrides,omitempty"`
	Trace            *DelegationTrace `json:"delegation_trace,omitempty"`
}

// RunResponse reports the outcome of one host run. For delegated runs
// ChosenAgentID names the original (parent) agent, not the delegate, and
// Output contains the combined annotated text.
type RunResponse struct {
	ChosenAgentID string             `json:"chosen_agent_id"`
	Output        string             `json:"output"`
	Session       *AgentSession      `json:"session"`
	GlobalSession *GlobalSession     `json:"global_session"`
	RoutingScores map[string]float64 `json:"routing_scores"`
}
