// Package a2ahost provides a high-level façade over the delegation host and
// its service abstractions (directory, memory, selector, executor & logging)
// enabling rapid construction of agent routing systems. Most applications
// interact with this package by:
//  1. Creating an A2AHost via New() (optionally overriding default in-memory services)
//  2. Registering one or more agent cards (or attaching a registry loader)
//  3. Running prompts through Run()
//
// The façade delegates orchestration to host.Host while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically attach a registry loader and a
// structured logger via the server and cmd packages.
package a2ahost

import (
	"context"
	"time"

	"github.com/hupe1980/a2ahost/core"
	"github.com/hupe1980/a2ahost/directory"
	"github.com/hupe1980/a2ahost/executor"
	"github.com/hupe1980/a2ahost/host"
	"github.com/hupe1980/a2ahost/logging"
	"github.com/hupe1980/a2ahost/memory"
	"github.com/hupe1980/a2ahost/selector"
)

// Options configures the A2AHost instance.
type Options struct {
	// MaxHops bounds delegation depth per top-level request.
	MaxHops int
	// ExecutorTimeout bounds each remote agent call.
	ExecutorTimeout time.Duration
	// BearerToken is passed through to remote agents when set.
	BearerToken string

	// Services (default to in-memory implementations if not provided).
	Directory core.Directory
	Memory    core.SessionMemory
	Executor  core.Executor
	Selector  core.Selector

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// A2AHost is the high-level façade aggregating the orchestrator and its services.
type A2AHost struct {
	host      *host.Host
	directory core.Directory
	memory    core.SessionMemory
}

// New creates a new A2AHost instance with optional overrides. Any unset
// service is initialized with its default implementation.
func New(optFns ...func(o *Options)) *A2AHost {
	opts := Options{
		MaxHops:         host.DefaultMaxHops,
		ExecutorTimeout: executor.DefaultTimeout,
		Directory:       directory.NewInMemoryStore(),
		Memory:          memory.NewInMemoryStore(),
		Selector:        selector.New(),
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Executor == nil {
		opts.Executor = executor.New(func(o *executor.Options) {
			o.Timeout = opts.ExecutorTimeout
			o.BearerToken = opts.BearerToken
			o.Logger = opts.Logger
		})
	}

	h := host.New(opts.Memory, opts.Directory, opts.Executor, opts.Selector, func(o *host.Options) {
		o.MaxHops = opts.MaxHops
		o.Logger = opts.Logger
	})

	return &A2AHost{host: h, directory: opts.Directory, memory: opts.Memory}
}

// RegisterAgent upserts an agent card into the directory.
func (a *A2AHost) RegisterAgent(card *core.AgentCard) { a.directory.Register(card) }

// Run routes one prompt through the orchestrator.
func (a *A2AHost) Run(ctx context.Context, req *core.RunRequest) (*core.RunResponse, error) {
	return a.host.Handle(ctx, req)
}

// Host exposes the underlying orchestrator (e.g. for mounting the HTTP server).
func (a *A2AHost) Host() *host.Host { return a.host }

// Directory exposes the agent directory (e.g. for a registry loader).
func (a *A2AHost) Directory() core.Directory { return a.directory }
