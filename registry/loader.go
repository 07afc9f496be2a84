package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hupe1980/a2ahost/core"
	"github.com/hupe1980/a2ahost/logging"
)

// Loader defaults.
const (
	DefaultRefreshInterval = 5 * time.Minute
	defaultPageSize        = 50
	defaultMaxAgents       = 500
)

// RegistryAPI is the slice of the registry client consumed by the Loader.
type RegistryAPI interface {
	ListPublicAgents(ctx context.Context, page, limit int) ([]string, error)
	GetAgent(ctx context.Context, id string) (*Agent, error)
	GetAgentCard(ctx context.Context, id string) (*Card, error)
}

// LoaderOptions holds configuration overrides passed to NewLoader().
type LoaderOptions struct {
	// Interval between scheduled refreshes.
	Interval time.Duration
	// PageSize for registry listing requests.
	PageSize int
	// MaxAgents caps how many agents one refresh will load.
	MaxAgents int
	// Logger receives refresh diagnostics.
	Logger logging.Logger
}

// Loader rebuilds the agent directory from registry data. Refresh builds the
// full card set off to the side and swaps it in atomically; a failed refresh
// leaves the previous directory snapshot untouched.
type Loader struct {
	client    RegistryAPI
	directory core.Directory
	interval  time.Duration
	pageSize  int
	maxAgents int
	logger    logging.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// NewLoader constructs a Loader with optional overrides.
func NewLoader(client RegistryAPI, directory core.Directory, optFns ...func(o *LoaderOptions)) *Loader {
	opts := LoaderOptions{
		Interval:  DefaultRefreshInterval,
		PageSize:  defaultPageSize,
		MaxAgents: defaultMaxAgents,
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Loader{
		client:    client,
		directory: directory,
		interval:  opts.Interval,
		pageSize:  opts.PageSize,
		maxAgents: opts.MaxAgents,
		logger:    opts.Logger,
	}
}

// Refresh reloads all public agents from the registry and atomically
// replaces the directory contents, returning the resulting agent count.
// Safe to call concurrently with request serving.
func (l *Loader) Refresh(ctx context.Context) (int, error) {
	var cards []*core.AgentCard

	page := 1
	for len(cards) < l.maxAgents {
		ids, err := l.client.ListPublicAgents(ctx, page, l.pageSize)
		if err != nil {
			if page == 1 {
				return 0, fmt.Errorf("list public agents: %w", err)
			}
			l.logger.Error("listing page failed, keeping agents loaded so far", "page", page, "error", err)
			break
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			if len(cards) >= l.maxAgents {
				l.logger.Info("reached maximum agent limit, stopping", "max_agents", l.maxAgents)
				break
			}
			if card := l.fetchCard(ctx, id); card != nil {
				cards = append(cards, card)
			}
		}

		if len(ids) < l.pageSize {
			break
		}
		page++
	}

	l.directory.Replace(cards)
	l.logger.Info("directory refreshed", "agents", len(cards))
	return len(cards), nil
}

// fetchCard resolves one agent id to a routing card, trying the full agent
// record first and the public card document when full access is denied.
func (l *Loader) fetchCard(ctx context.Context, id string) *core.AgentCard {
	agent, err := l.client.GetAgent(ctx, id)
	if err != nil {
		l.logger.Debug("full agent record unavailable, trying agent card", "agent_id", id, "error", err)

		card, cardErr := l.client.GetAgentCard(ctx, id)
		if cardErr != nil {
			l.logger.Warn("skipping agent: no record or card available", "agent_id", id, "error", cardErr)
			return nil
		}
		agent = &Agent{
			ID:          id,
			Name:        card.Name,
			Description: card.Description,
			Version:     card.Version,
			Card:        card,
		}
		if card.Provider != nil {
			agent.Provider = card.Provider.Organization
		}
	}

	result := CardFromAgent(agent)
	if result == nil {
		l.logger.Warn("skipping agent: no endpoint found", "agent_id", id)
	}
	return result
}

// Start schedules periodic refreshes on a constant delay. Idempotent.
func (l *Loader) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cron != nil {
		return
	}

	l.cron = cron.New()
	l.cron.Schedule(cron.Every(l.interval), cron.FuncJob(func() {
		if _, err := l.Refresh(context.Background()); err != nil {
			l.logger.Error("scheduled refresh failed, keeping previous snapshot", "error", err)
		}
	}))
	l.cron.Start()
}

// Stop halts scheduled refreshes, waiting for an in-flight one to finish.
func (l *Loader) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cron == nil {
		return
	}
	<-l.cron.Stop().Done()
	l.cron = nil
}
