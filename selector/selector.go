// Package selector implements the heuristic skill scorer used to route a
// prompt to the best-matching agent. It is a cheap token-overlap scorer, not
// an NLP engine: O(agents × prompt tokens), deterministic for fixed inputs.
package selector

import (
	"strings"

	"github.com/hupe1980/a2ahost/core"
)

// Scoring weights. Skill overlap dominates, domain match breaks near-ties,
// and a small bonus rewards lower (more specialized) priority numbers.
const (
	skillWeight     = 2.0
	domainBonus     = 1.5
	priorityWeight  = 0.2
	priorityCeiling = 5
)

// SkillSelector scores agents by skill overlap, domain keyword match and
// priority. It carries no state and is safe for concurrent use.
type SkillSelector struct{}

// New constructs a SkillSelector.
func New() *SkillSelector { return &SkillSelector{} }

// Score computes the score map for all agents against the prompt.
func (s *SkillSelector) Score(prompt string, agents []*core.AgentCard) map[string]float64 {
	lowered := strings.ToLower(prompt)
	tokens := map[string]bool{}
	for _, t := range strings.Fields(lowered) {
		tokens[t] = true
	}

	scores := make(map[string]float64, len(agents))
	for _, a := range agents {
		score := 0.0

		overlap := 0
		for _, skill := range a.Skills {
			if tokens[strings.ToLower(skill)] {
				overlap++
			}
		}
		score += float64(overlap) * skillWeight

		if a.Domain != "" && strings.Contains(lowered, strings.ToLower(a.Domain)) {
			score += domainBonus
		}

		if bonus := priorityCeiling - a.Priority; bonus > 0 {
			score += float64(bonus) * priorityWeight
		}

		scores[a.ID] = score
	}

	return scores
}

// PickBest returns the highest-scoring agent and the full score map, or
// (nil, empty) when agents is empty. Ties are broken deterministically in
// favor of the lexicographically lowest agent id.
func (s *SkillSelector) PickBest(prompt string, agents []*core.AgentCard) (*core.AgentCard, map[string]float64) {
	if len(agents) == 0 {
		return nil, map[string]float64{}
	}

	scores := s.Score(prompt, agents)

	var best *core.AgentCard
	for _, a := range agents {
		if best == nil {
			best = a
			continue
		}
		sc, bestSc := scores[a.ID], scores[best.ID]
		if sc > bestSc || (sc == bestSc && a.ID < best.ID) {
			best = a
		}
	}

	return best, scores
}
