package executor

import "fmt"

// Reason classifies why a remote agent invocation failed.
type Reason string

const (
	// ReasonNoEndpoint marks a card that is not eligible for execution.
	ReasonNoEndpoint Reason = "no_endpoint"
	// ReasonUnreachable marks a connection-level failure (including an open
	// circuit breaker).
	ReasonUnreachable Reason = "unreachable"
	// ReasonTimeout marks a request that exceeded the configured timeout.
	ReasonTimeout Reason = "timeout"
	// ReasonHTTPStatus marks a non-2xx response from the agent endpoint.
	ReasonHTTPStatus Reason = "http_status"
	// ReasonEmptyResponse marks an empty or unusable agent response.
	ReasonEmptyResponse Reason = "empty_response"
)

// AgentError is the single error type surfaced by the executor. It names the
// offending agent and carries a short human-readable cause; internal details
// stay in the wrapped error for logs only.
type AgentError struct {
	AgentID   string
	AgentName string
	Reason    Reason
	Status    int
	Err       error
}

// Error implements the error interface.
func (e *AgentError) Error() string {
	name := e.AgentName
	if name == "" {
		name = e.AgentID
	}
	switch e.Reason {
	case ReasonNoEndpoint:
		return fmt.Sprintf("agent %s has no endpoint configured", name)
	case ReasonUnreachable:
		return fmt.Sprintf("agent %s service is unreachable", name)
	case ReasonTimeout:
		return fmt.Sprintf("agent %s request timed out", name)
	case ReasonHTTPStatus:
		return fmt.Sprintf("agent %s endpoint returned HTTP %d", name, e.Status)
	case ReasonEmptyResponse:
		return fmt.Sprintf("agent %s returned an empty response", name)
	default:
		return fmt.Sprintf("agent %s execution failed", name)
	}
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *AgentError) Unwrap() error { return e.Err }
