package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/a2ahost/directory"
)

// fakeRegistry scripts the registry API surface for loader tests.
type fakeRegistry struct {
	pages      map[int][]string
	agents     map[string]*Agent
	cards      map[string]*Card
	listErr    map[int]error
	agentCalls int
}

func (f *fakeRegistry) ListPublicAgents(_ context.Context, page, _ int) ([]string, error) {
	if err := f.listErr[page]; err != nil {
		return nil, err
	}
	return f.pages[page], nil
}

func (f *fakeRegistry) GetAgent(_ context.Context, id string) (*Agent, error) {
	f.agentCalls++
	if a, ok := f.agents[id]; ok {
		return a, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRegistry) GetAgentCard(_ context.Context, id string) (*Card, error) {
	if c, ok := f.cards[id]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

// Interface compliance (compile-time assertion)
var _ RegistryAPI = (*fakeRegistry)(nil)

func TestLoader_Refresh(t *testing.T) {
	fake := &fakeRegistry{
		pages: map[int][]string{1: {"a1", "a2"}},
		agents: map[string]*Agent{
			"a1": {ID: "a1", Name: "Agent One", LocationURL: "http://a1/chat"},
			"a2": {ID: "a2", Name: "Agent Two", LocationURL: "http://a2/chat"},
		},
	}
	dir := directory.NewInMemoryStore()
	loader := NewLoader(fake, dir)

	count, err := loader.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, dir.List(), 2)

	card, ok := dir.Get("a1")
	require.True(t, ok)
	assert.Equal(t, "http://a1/chat", card.Endpoint)
}

func TestLoader_RefreshPagination(t *testing.T) {
	// full first page forces a second listing request
	pageSize := 2
	fake := &fakeRegistry{
		pages:  map[int][]string{1: {"a1", "a2"}, 2: {"a3"}},
		agents: map[string]*Agent{},
	}
	for _, id := range []string{"a1", "a2", "a3"} {
		fake.agents[id] = &Agent{ID: id, Name: id, LocationURL: "http://" + id + "/chat"}
	}
	dir := directory.NewInMemoryStore()
	loader := NewLoader(fake, dir, func(o *LoaderOptions) { o.PageSize = pageSize })

	count, err := loader.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestLoader_RefreshMaxAgents(t *testing.T) {
	fake := &fakeRegistry{
		pages:  map[int][]string{1: {"a1", "a2", "a3"}},
		agents: map[string]*Agent{},
	}
	for _, id := range []string{"a1", "a2", "a3"} {
		fake.agents[id] = &Agent{ID: id, Name: id, LocationURL: "http://" + id + "/chat"}
	}
	dir := directory.NewInMemoryStore()
	loader := NewLoader(fake, dir, func(o *LoaderOptions) { o.MaxAgents = 2 })

	count, err := loader.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLoader_FailedRefreshKeepsSnapshot(t *testing.T) {
	fake := &fakeRegistry{
		pages: map[int][]string{1: {"a1"}},
		agents: map[string]*Agent{
			"a1": {ID: "a1", Name: "Agent One", LocationURL: "http://a1/chat"},
		},
	}
	dir := directory.NewInMemoryStore()
	loader := NewLoader(fake, dir)

	_, err := loader.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, dir.List(), 1)

	// registry goes down; the previous generation must survive
	fake.listErr = map[int]error{1: errors.New("registry unavailable")}

	_, err = loader.Refresh(context.Background())
	require.Error(t, err)
	assert.Len(t, dir.List(), 1)
}

func TestLoader_LaterPageFailureKeepsPartial(t *testing.T) {
	fake := &fakeRegistry{
		pages: map[int][]string{1: {"a1", "a2"}},
		agents: map[string]*Agent{
			"a1": {ID: "a1", Name: "Agent One", LocationURL: "http://a1/chat"},
			"a2": {ID: "a2", Name: "Agent Two", LocationURL: "http://a2/chat"},
		},
		listErr: map[int]error{2: errors.New("flaky page")},
	}
	dir := directory.NewInMemoryStore()
	loader := NewLoader(fake, dir, func(o *LoaderOptions) { o.PageSize = 2 })

	count, err := loader.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLoader_CardFallback(t *testing.T) {
	// full agent record denied; public card document still available
	fake := &fakeRegistry{
		pages:  map[int][]string{1: {"a1"}},
		agents: map[string]*Agent{},
		cards: map[string]*Card{
			"a1": {
				Name:     "Agent One",
				URL:      "http://a1/rpc",
				Provider: &Provider{Organization: "Acme"},
			},
		},
	}
	dir := directory.NewInMemoryStore()
	loader := NewLoader(fake, dir)

	count, err := loader.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	card, ok := dir.Get("a1")
	require.True(t, ok)
	assert.Equal(t, "http://a1/rpc", card.Endpoint)
	assert.Equal(t, "Acme", card.Metadata["provider"])
}

func TestLoader_SkipsAgentsWithoutEndpoint(t *testing.T) {
	fake := &fakeRegistry{
		pages: map[int][]string{1: {"a1", "a2"}},
		agents: map[string]*Agent{
			"a1": {ID: "a1", Name: "Agent One", LocationURL: "http://a1/chat"},
			"a2": {ID: "a2", Name: "No Endpoint"},
		},
	}
	dir := directory.NewInMemoryStore()
	loader := NewLoader(fake, dir)

	count, err := loader.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	_, ok := dir.Get("a2")
	assert.False(t, ok)
}

func TestLoader_StartStopIdempotent(t *testing.T) {
	fake := &fakeRegistry{pages: map[int][]string{}}
	loader := NewLoader(fake, directory.NewInMemoryStore(), func(o *LoaderOptions) {
		o.Interval = DefaultRefreshInterval
	})

	loader.Start()
	loader.Start()
	loader.Stop()
	loader.Stop()
}

func ExampleLoader_Refresh() {
	fake := &fakeRegistry{
		pages: map[int][]string{1: {"a1"}},
		agents: map[string]*Agent{
			"a1": {ID: "a1", Name: "Agent One", LocationURL: "http://a1/chat"},
		},
	}
	loader := NewLoader(fake, directory.NewInMemoryStore())
	count, _ := loader.Refresh(context.Background())
	fmt.Println(count)
	// Output: 1
}
