package core

import "context"

// Directory stores agent cards indexed by id. Implementations must support
// an atomic wholesale swap so a refresh never exposes a partially-updated
// directory to concurrent readers.
type Directory interface {
	// Register upserts a card keyed by its id. Idempotent.
	Register(card *AgentCard)
	// List returns all cards in unspecified order. Callers must not assume
	// ordering stability across refresh cycles.
	List() []*AgentCard
	// Get returns the card for id, or (nil, false) if absent.
	Get(id string) (*AgentCard, bool)
	// Replace swaps the whole directory for the given cards atomically.
	Replace(cards []*AgentCard)
}

// SessionMemory is the two-level conversation store: one global session per
// token plus isolated sessions per (token, agent) pair. All operations are
// pure in-memory map updates and never fail; appends are atomic under
// concurrent use. Returned sessions are snapshots.
type SessionMemory interface {
	GetGlobal(token string) *GlobalSession
	AppendGlobalUser(token, content string) *GlobalSession
	AppendGlobalAgent(token, content string) *GlobalSession
	UpdateGlobalState(token string, patch map[string]any) *GlobalSession

	GetAgentSession(token, agentID string) *AgentSession
	AppendAgentUser(token, agentID, content string) *AgentSession
	AppendAgentAssistant(token, agentID, content string) *AgentSession
}

// Selector scores agents against a prompt. Score must be a pure function of
// its inputs; PickBest returns nil when agents is empty.
type Selector interface {
	Score(prompt string, agents []*AgentCard) map[string]float64
	PickBest(prompt string, agents []*AgentCard) (*AgentCard, map[string]float64)
}

// Executor invokes a remote agent and normalizes its heterogeneous response
// into one output string and one structured map. A `delegate` instruction,
// when the agent returned one anywhere the protocol allows, is hoisted to
// the top level of the returned map.
type Executor interface {
	Run(ctx context.Context, card *AgentCard, agentMessages []Message, global *GlobalSession, prompt string) (string, map[string]any, error)
}
