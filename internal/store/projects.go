// Package store holds the client-side caches for the server-owned
// collections. Each store keeps the last known good listing, mutates it
// in lockstep with successful API calls, and records the last error so
// callers can surface it without losing displayed data.
package store

import (
	"context"
	"sync"

	"github.com/Rahulsaha30/projectmanagement/internal/api"
)

const defaultPageLimit = 100

// projectAPI is the slice of the client the project store depends on.
type projectAPI interface {
	ListProjects(ctx context.Context, skip, limit int) ([]api.Project, error)
	CreateProject(ctx context.Context, in api.ProjectCreate) (api.Project, error)
	UpdateProject(ctx context.Context, id int, in api.ProjectUpdate) (api.Project, error)
	ProjectStats(ctx context.Context) (api.ProjectStats, error)
}

// Projects caches the project collection.
type Projects struct {
	api projectAPI

	mu      sync.Mutex
	items   []api.Project
	loading bool
	lastErr string
}

// NewProjects constructs an empty project store.
func NewProjects(a projectAPI) *Projects {
	return &Projects{api: a}
}

// FetchAll replaces the cached collection with the server listing. On
// failure the previous collection is left intact.
func (p *Projects) FetchAll(ctx context.Context) error {
	p.setLoading(true)
	defer p.setLoading(false)

	items, err := p.api.ListProjects(ctx, 0, defaultPageLimit)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.lastErr = err.Error()
		return err
	}
	p.items = items
	p.lastErr = ""
	return nil
}

// Create posts a new project and appends the server-assigned record.
func (p *Projects) Create(ctx context.Context, in api.ProjectCreate) (api.Project, error) {
	created, err := p.api.CreateProject(ctx, in)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.lastErr = err.Error()
		return api.Project{}, err
	}
	p.items = append(p.items, created)
	p.lastErr = ""
	return created, nil
}

// Update replaces the cached entity matching id with the server record;
// all other entries are untouched.
func (p *Projects) Update(ctx context.Context, id int, in api.ProjectUpdate) (api.Project, error) {
	updated, err := p.api.UpdateProject(ctx, id, in)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.lastErr = err.Error()
		return api.Project{}, err
	}
	for i := range p.items {
		if p.items[i].ProjectID == id {
			p.items[i] = updated
			break
		}
	}
	p.lastErr = ""
	return updated, nil
}

// Stats fetches portfolio counters; the cached collection is untouched.
func (p *Projects) Stats(ctx context.Context) (api.ProjectStats, error) {
	stats, err := p.api.ProjectStats(ctx)
	if err != nil {
		p.mu.Lock()
		p.lastErr = err.Error()
		p.mu.Unlock()
		return api.ProjectStats{}, err
	}
	return stats, nil
}

// Items returns a copy of the cached collection.
func (p *Projects) Items() []api.Project {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]api.Project, len(p.items))
	copy(out, p.items)
	return out
}

// Loading reports whether a FetchAll is in flight.
func (p *Projects) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Err returns the last recorded error message; empty when healthy.
func (p *Projects) Err() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// ResetErr clears the recorded error message.
func (p *Projects) ResetErr() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = ""
}

func (p *Projects) setLoading(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = v
}
