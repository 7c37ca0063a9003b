package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListEmployees returns the full employee roster.
func (c *Client) ListEmployees(ctx context.Context) ([]Employee, error) {
	var out []Employee
	err := c.getJSON(ctx, "/api/manager/employees", nil, &out)
	return out, err
}

// CreateEmployee adds an employee account on behalf of a manager.
func (c *Client) CreateEmployee(ctx context.Context, in EmployeeCreate) (Employee, error) {
	var out Employee
	err := c.postJSON(ctx, "/api/manager/employees", in, &out)
	return out, err
}

// GetEmployee fetches one employee by id.
func (c *Client) GetEmployee(ctx context.Context, id int) (Employee, error) {
	var out Employee
	err := c.getJSON(ctx, fmt.Sprintf("/api/manager/employees/%d", id), nil, &out)
	return out, err
}

// UpdateEmployee applies a partial update and returns the full record.
func (c *Client) UpdateEmployee(ctx context.Context, id int, in EmployeeUpdate) (Employee, error) {
	var out Employee
	err := c.putJSON(ctx, fmt.Sprintf("/api/manager/employees/%d", id), in, &out)
	return out, err
}

// SearchEmployeesBySkills finds employees matching a skills filter.
func (c *Client) SearchEmployeesBySkills(ctx context.Context, in SkillSearch) ([]Employee, error) {
	q := url.Values{}
	q.Set("skills", in.Skills)
	if in.MinExperience != nil {
		q.Set("min_experience", strconv.Itoa(*in.MinExperience))
	}
	if in.IncludeAssigned {
		q.Set("include_assigned", "true")
	}

	var out []Employee
	err := c.getJSON(ctx, "/api/manager/employees/search/by-skills", q, &out)
	return out, err
}
