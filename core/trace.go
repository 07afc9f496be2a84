package core

// DelegationTrace is the cycle/depth guard threaded through recursive
// delegation calls. One trace instance is shared by the whole call tree of a
// top-level request: Hops increases by exactly one per agent invocation and
// Chain records the visited agent ids in order.
type DelegationTrace struct {
	Chain []string `json:"chain"`
	Hops  int      `json:"hops"`
}

// NewDelegationTrace returns an empty trace for a fresh top-level request.
func NewDelegationTrace() *DelegationTrace {
	return &DelegationTrace{Chain: []string{}}
}

// Visit records one hop to the given agent.
func (t *DelegationTrace) Visit(agentID string) {
	t.Chain = append(t.Chain, agentID)
	t.Hops++
}
