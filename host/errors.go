package host

import (
	"errors"
	"fmt"
)

var (
	// ErrMaxDepth is returned when a request would exceed the delegation hop
	// bound. It is raised before any work is performed for the rejected hop.
	ErrMaxDepth = errors.New("max delegation depth reached")

	// ErrNoSuitableAgent is returned when the directory holds no agent
	// eligible for the request.
	ErrNoSuitableAgent = errors.New("no suitable agent found")
)

// BadDelegateError is a client-visible error describing a malformed delegate
// payload returned by an agent.
type BadDelegateError struct {
	AgentID string
	Detail  string
}

// Error implements the error interface.
func (e *BadDelegateError) Error() string {
	return fmt.Sprintf("agent %s returned an invalid delegate payload: %s", e.AgentID, e.Detail)
}
