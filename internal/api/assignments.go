package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListAssignments returns assignments, optionally filtered by employee
// or project.
func (c *Client) ListAssignments(ctx context.Context, filter AssignmentFilter) ([]Assignment, error) {
	q := url.Values{}
	if filter.EmpID != nil {
		q.Set("emp_id", strconv.Itoa(*filter.EmpID))
	}
	if filter.ProjectID != nil {
		q.Set("project_id", strconv.Itoa(*filter.ProjectID))
	}

	var out []Assignment
	err := c.getJSON(ctx, "/api/assignments", q, &out)
	return out, err
}

// CreateAssignment links an employee to a project with allotted hours.
func (c *Client) CreateAssignment(ctx context.Context, in AssignmentCreate) (Assignment, error) {
	var out Assignment
	err := c.postJSON(ctx, "/api/assignments", in, &out)
	return out, err
}

// UpdateAssignment adjusts the hours allotment and returns the record.
func (c *Client) UpdateAssignment(ctx context.Context, id int, in AssignmentUpdate) (Assignment, error) {
	var out Assignment
	err := c.putJSON(ctx, fmt.Sprintf("/api/assignments/%d", id), in, &out)
	return out, err
}

// DeleteAssignment removes an assignment; the server returns the unused
// hours to the employee.
func (c *Client) DeleteAssignment(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/assignments/%d", id))
}

// RemoveEmployeeFromProject detaches an employee from a project and
// reports the hours returned.
func (c *Client) RemoveEmployeeFromProject(ctx context.Context, in RemoveEmployeeRequest) (RemoveEmployeeResponse, error) {
	var out RemoveEmployeeResponse
	err := c.postJSON(ctx, "/api/assignments/remove-employee", in, &out)
	return out, err
}

// MyAssignments lists the calling employee's assignments.
func (c *Client) MyAssignments(ctx context.Context) ([]Assignment, error) {
	var out []Assignment
	err := c.getJSON(ctx, "/api/employee/my-assignments", nil, &out)
	return out, err
}

// GetMyAssignment fetches one of the calling employee's assignments.
func (c *Client) GetMyAssignment(ctx context.Context, id int) (Assignment, error) {
	var out Assignment
	err := c.getJSON(ctx, fmt.Sprintf("/api/employee/my-assignments/%d", id), nil, &out)
	return out, err
}

// CompleteTask submits hours worked and notes for an assignment.
func (c *Client) CompleteTask(ctx context.Context, in TaskCompletionCreate) (TaskCompletion, error) {
	var out TaskCompletion
	err := c.postJSON(ctx, "/api/employee/task-completions", in, &out)
	return out, err
}

// MyTaskCompletions lists the calling employee's completed tasks.
func (c *Client) MyTaskCompletions(ctx context.Context) ([]TaskCompletion, error) {
	var out []TaskCompletion
	err := c.getJSON(ctx, "/api/employee/my-task-completions", nil, &out)
	return out, err
}
