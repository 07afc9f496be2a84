// Package host implements the delegation orchestrator. It accepts a run
// request, records it in memory, selects an agent, invokes the remote
// executor, and recursively routes any delegation instruction the agent
// returns, bounded by a shared hop counter, before merging results into a
// single response.
package host

import (
	"context"
	"fmt"

	"github.com/hupe1980/a2ahost/core"
	"github.com/hupe1980/a2ahost/logging"
)

// DefaultMaxHops bounds the delegation depth of one top-level request.
const DefaultMaxHops = 3

// Options holds configuration overrides passed to New().
type Options struct {
	// MaxHops is the maximum number of agent invocations per top-level
	// request, counting the initial one.
	MaxHops int
	// Logger receives orchestration diagnostics.
	Logger logging.Logger
}

// Host coordinates agent selection, remote execution and recursive
// delegation for one process. All dependencies are injected; Handle is safe
// for concurrent use.
type Host struct {
	memory    core.SessionMemory
	directory core.Directory
	executor  core.Executor
	selector  core.Selector
	maxHops   int
	logger    logging.Logger
}

// New constructs a Host with optional overrides.
func New(memory core.SessionMemory, directory core.Directory, executor core.Executor, selector core.Selector, optFns ...func(o *Options)) *Host {
	opts := Options{
		MaxHops: DefaultMaxHops,
		Logger:  logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Host{
		memory:    memory,
		directory: directory,
		executor:  executor,
		selector:  selector,
		maxHops:   opts.MaxHops,
		logger:    opts.Logger,
	}
}

// Handle runs one request through selection, execution and delegation. Delegated sub-requests re-enter Handle with the same trace
// so the hop bound covers the whole call tree; a failed sub-call fails the
// whole request.
func (h *Host) Handle(ctx context.Context, req *core.RunRequest) (*core.RunResponse, error) {
	trace := req.Trace
	if trace == nil {
		trace = core.NewDelegationTrace()
	}
	if trace.Hops >= h.maxHops {
		return nil, fmt.Errorf("%w (chain: %v)", ErrMaxDepth, trace.Chain)
	}

	global := h.memory.AppendGlobalUser(req.Token, req.Prompt)
	if len(req.ContextOverrides) > 0 {
		global = h.memory.UpdateGlobalState(req.Token, req.ContextOverrides)
	}

	card, scores := h.selectAgent(req)
	if card == nil {
		return nil, ErrNoSuitableAgent
	}

	trace.Visit(card.ID)
	agentSession := h.memory.AppendAgentUser(req.Token, card.ID, req.Prompt)

	h.logger.Info("invoking agent", "agent_id", card.ID, "token", req.Token, "hops", trace.Hops)

	output, data, err := h.executor.Run(ctx, card, agentSession.Messages, global, req.Prompt)
	if err != nil {
		return nil, fmt.Errorf("agent execution failed: %w", err)
	}

	agentSession = h.memory.AppendAgentAssistant(req.Token, card.ID, output)
	global = h.memory.AppendGlobalAgent(req.Token, output)

	delegate, err := h.parseDelegate(card.ID, data)
	if err != nil {
		return nil, err
	}
	if delegate == nil {
		return &core.RunResponse{
			ChosenAgentID: card.ID,
			Output:        output,
			Session:       agentSession,
			GlobalSession: global,
			RoutingScores: scores,
		}, nil
	}

	h.logger.Info("agent requested delegation",
		"agent_id", card.ID, "delegate_agent_id", delegate.AgentID, "hops", trace.Hops)

	subReq := &core.RunRequest{
		Prompt:           delegate.Prompt,
		Token:            req.Token,
		ForceAgentID:     delegate.AgentID,
		ContextOverrides: delegate.ContextOverrides,
		Trace:            trace,
	}
	subResp, err := h.Handle(ctx, subReq)
	if err != nil {
		return nil, err
	}

	h.memory.UpdateGlobalState(req.Token, subResp.GlobalSession.SharedState)
	combined := fmt.Sprintf("%s\n\n[Delegated to %s → %s]", output, subResp.ChosenAgentID, subResp.Output)
	global = h.memory.AppendGlobalAgent(req.Token, combined)

	return &core.RunResponse{
		ChosenAgentID: card.ID,
		Output:        combined,
		Session:       agentSession,
		GlobalSession: global,
		RoutingScores: scores,
	}, nil
}

// selectAgent honors a forced agent id when it resolves in the directory and
// otherwise scores every known agent against the prompt.
func (h *Host) selectAgent(req *core.RunRequest) (*core.AgentCard, map[string]float64) {
	if req.ForceAgentID != "" {
		if card, ok := h.directory.Get(req.ForceAgentID); ok {
			return card, map[string]float64{}
		}
	}
	return h.selector.PickBest(req.Prompt, h.directory.List())
}

// parseDelegate validates the delegate field of the structured response.
// Absence is a normal terminal result; a present but malformed payload is a
// client-visible error, never a silent no-op.
func (h *Host) parseDelegate(agentID string, data map[string]any) (*core.Delegate, error) {
	raw, ok := data["delegate"]
	if !ok || raw == nil {
		return nil, nil
	}

	payload, ok := raw.(map[string]any)
	if !ok {
		return nil, &BadDelegateError{AgentID: agentID, Detail: "delegate must be an object"}
	}

	prompt, _ := payload["prompt"].(string)
	if prompt == "" {
		return nil, &BadDelegateError{AgentID: agentID, Detail: "delegate must include a 'prompt' field"}
	}

	delegate := &core.Delegate{Prompt: prompt}
	if id, ok := payload["agent_id"].(string); ok {
		delegate.AgentID = id
	}
	if overrides, ok := payload["context_overrides"].(map[string]any); ok {
		delegate.ContextOverrides = overrides
	}
	return delegate, nil
}
