// Package executor invokes remote agents and normalizes their heterogeneous
// responses into one output string plus one structured map.
//
// Two execution strategies are supported with automatic fallback:
//
//  1. Primary: a ProtocolClient speaking the rich agent protocol against the
//     agent's card URL, yielding a sequence of response chunks (text
//     fragments and structured maps) that are normalized by ProcessChunks.
//  2. Fallback: a direct HTTP request to the card's endpoint carrying the
//     prompt plus the per-agent and global conversation histories, used when
//     the primary path is unavailable, errors, or produces unusable output.
//
// Primary-path failures are logged and silently trigger the fallback; only a
// failure of both paths surfaces to the caller, always as an *AgentError
// naming the agent. The fallback transport is guarded by a per-agent circuit
// breaker so a dead endpoint fails fast instead of re-timing-out on every
// delegation hop.
package executor
