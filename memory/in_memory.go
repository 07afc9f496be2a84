package memory

import (
	"sync"

	"github.com/hupe1980/a2ahost/core"
)

// InMemoryStore is a volatile core.SessionMemory. A single store-wide mutex
// guards both levels so each append is atomic under concurrent requests for
// the same token; every returned session is a clone so callers can never
// mutate internal state.
type InMemoryStore struct {
	mu       sync.Mutex
	global   map[string]*core.GlobalSession
	perAgent map[string]*core.AgentSession
}

// NewInMemoryStore constructs an empty in-memory session memory.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		global:   make(map[string]*core.GlobalSession),
		perAgent: make(map[string]*core.AgentSession),
	}
}

// GetGlobal returns the global session for a token (clone), creating an
// empty one lazily.
func (m *InMemoryStore) GetGlobal(token string) *core.GlobalSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.globalLocked(token).Clone()
}

// AppendGlobalUser appends a user message to the token's global session.
func (m *InMemoryStore) AppendGlobalUser(token, content string) *core.GlobalSession {
	return m.appendGlobal(token, core.RoleUser, content)
}

// AppendGlobalAgent appends an assistant message to the token's global session.
func (m *InMemoryStore) AppendGlobalAgent(token, content string) *core.GlobalSession {
	return m.appendGlobal(token, core.RoleAssistant, content)
}

func (m *InMemoryStore) appendGlobal(token, role, content string) *core.GlobalSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := m.globalLocked(token)
	g.Messages = append(g.Messages, core.NewMessage(role, content))
	return g.Clone()
}

// UpdateGlobalState shallow-merges patch into the token's shared state;
// patch keys overwrite existing keys.
func (m *InMemoryStore) UpdateGlobalState(token string, patch map[string]any) *core.GlobalSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := m.globalLocked(token)
	for k, v := range patch {
		g.SharedState[k] = v
	}
	return g.Clone()
}

// GetAgentSession returns the session for the (token, agent) pair (clone),
// creating an empty one lazily.
func (m *InMemoryStore) GetAgentSession(token, agentID string) *core.AgentSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.agentLocked(token, agentID).Clone()
}

// AppendAgentUser appends a user message to the pair's session.
func (m *InMemoryStore) AppendAgentUser(token, agentID, content string) *core.AgentSession {
	return m.appendAgent(token, agentID, core.RoleUser, content)
}

// AppendAgentAssistant appends an assistant message to the pair's session.
func (m *InMemoryStore) AppendAgentAssistant(token, agentID, content string) *core.AgentSession {
	return m.appendAgent(token, agentID, core.RoleAssistant, content)
}

func (m *InMemoryStore) appendAgent(token, agentID, role, content string) *core.AgentSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.agentLocked(token, agentID)
	s.Messages = append(s.Messages, core.NewMessage(role, content))
	return s.Clone()
}

// globalLocked returns (allocating if needed) the token's global session;
// caller must hold the lock.
func (m *InMemoryStore) globalLocked(token string) *core.GlobalSession {
	g, ok := m.global[token]
	if !ok {
		g = core.NewGlobalSession(token)
		m.global[token] = g
	}
	return g
}

// agentLocked returns (allocating if needed) the pair's session; caller must
// hold the lock.
func (m *InMemoryStore) agentLocked(token, agentID string) *core.AgentSession {
	key := token + ":" + agentID
	s, ok := m.perAgent[key]
	if !ok {
		s = core.NewAgentSession(token, agentID)
		m.perAgent[key] = s
	}
	return s
}
