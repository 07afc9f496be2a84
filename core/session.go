package core

import "time"

// Conversation roles used in Message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one immutable turn in a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"ts"`
}

// NewMessage creates a message stamped with the current UTC time.
func NewMessage(role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now().UTC()}
}

// AgentSession is the isolated conversation state between one caller token
// and one agent. Messages are append-only; State is an agent-local bag.
type AgentSession struct {
	Token    string         `json:"token"`
	AgentID  string         `json:"agent_id"`
	Messages []Message      `json:"messages"`
	State    map[string]any `json:"state"`
}

// NewAgentSession creates an empty session for the (token, agent) pair.
func NewAgentSession(token, agentID string) *AgentSession {
	return &AgentSession{Token: token, AgentID: agentID, Messages: []Message{}, State: map[string]any{}}
}

// Clone returns a deep copy safe for use outside the memory store's lock.
func (s *AgentSession) Clone() *AgentSession {
	clone := &AgentSession{
		Token:    s.Token,
		AgentID:  s.AgentID,
		Messages: make([]Message, len(s.Messages)),
		State:    make(map[string]any, len(s.State)),
	}
	copy(clone.Messages, s.Messages)
	for k, v := range s.State {
		clone.State[k] = v
	}
	return clone
}

// GlobalSession is the per-token conversation state shared across all agents
// the token interacts with. SharedState is merged right-biased from request
// context overrides and delegation results.
type GlobalSession struct {
	Token       string         `json:"token"`
	Messages    []Message      `json:"messages"`
	SharedState map[string]any `json:"shared_state"`
}

// NewGlobalSession creates an empty global session for a token.
func NewGlobalSession(token string) *GlobalSession {
	return &GlobalSession{Token: token, Messages: []Message{}, SharedState: map[string]any{}}
}

// Clone returns a deep copy safe for use outside the memory store's lock.
func (s *GlobalSession) Clone() *GlobalSession {
	clone := &GlobalSession{
		Token:       s.Token,
		Messages:    make([]Message, len(s.Messages)),
		SharedState: make(map[string]any, len(s.SharedState)),
	}
	copy(clone.Messages, s.Messages)
	for k, v := range s.SharedState {
		clone.SharedState[k] = v
	}
	return clone
}
