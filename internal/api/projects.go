package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListProjects returns a page of projects.
func (c *Client) ListProjects(ctx context.Context, skip, limit int) ([]Project, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var out []Project
	err := c.getJSON(ctx, "/api/admin/projects", q, &out)
	return out, err
}

// CreateProject registers a new project and returns the server record.
func (c *Client) CreateProject(ctx context.Context, in ProjectCreate) (Project, error) {
	var out Project
	err := c.postJSON(ctx, "/api/admin/projects", in, &out)
	return out, err
}

// GetProject fetches one project by id.
func (c *Client) GetProject(ctx context.Context, id int) (Project, error) {
	var out Project
	err := c.getJSON(ctx, fmt.Sprintf("/api/admin/projects/%d", id), nil, &out)
	return out, err
}

// UpdateProject applies a partial update and returns the full record.
func (c *Client) UpdateProject(ctx context.Context, id int, in ProjectUpdate) (Project, error) {
	var out Project
	err := c.putJSON(ctx, fmt.Sprintf("/api/admin/projects/%d", id), in, &out)
	return out, err
}

// ProjectStats returns portfolio-level counters.
func (c *Client) ProjectStats(ctx context.Context) (ProjectStats, error) {
	var out ProjectStats
	err := c.getJSON(ctx, "/api/admin/projects/stats", nil, &out)
	return out, err
}
