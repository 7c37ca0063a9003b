package store

import (
	"context"
	"errors"
	"sync"

	"github.com/Rahulsaha30/projectmanagement/internal/api"
)

// ErrAlreadyCompleted guards the one-way completion transition: a
// completed assignment is never mutated again, only read.
var ErrAlreadyCompleted = errors.New("store: assignment already completed")

// assignmentAPI is the slice of the client the assignment store depends on.
type assignmentAPI interface {
	ListAssignments(ctx context.Context, filter api.AssignmentFilter) ([]api.Assignment, error)
	CreateAssignment(ctx context.Context, in api.AssignmentCreate) (api.Assignment, error)
	UpdateAssignment(ctx context.Context, id int, in api.AssignmentUpdate) (api.Assignment, error)
	DeleteAssignment(ctx context.Context, id int) error
	RemoveEmployeeFromProject(ctx context.Context, in api.RemoveEmployeeRequest) (api.RemoveEmployeeResponse, error)
	MyAssignments(ctx context.Context) ([]api.Assignment, error)
	CompleteTask(ctx context.Context, in api.TaskCompletionCreate) (api.TaskCompletion, error)
}

// Assignments caches the manager-scoped assignment collection and the
// calling employee's own assignments.
type Assignments struct {
	api assignmentAPI

	mu      sync.Mutex
	items   []api.Assignment
	mine    []api.Assignment
	loading bool
	lastErr string
}

// NewAssignments constructs an empty assignment store.
func NewAssignments(a assignmentAPI) *Assignments {
	return &Assignments{api: a}
}

// FetchAll replaces the cached collection with the server listing. On
// failure the previous collection is left intact.
func (s *Assignments) FetchAll(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	items, err := s.api.ListAssignments(ctx, api.AssignmentFilter{})
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err.Error()
		return err
	}
	s.items = items
	s.lastErr = ""
	return nil
}

// FetchMine replaces the employee-scoped slice with the server listing.
func (s *Assignments) FetchMine(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	mine, err := s.api.MyAssignments(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err.Error()
		return err
	}
	s.mine = mine
	s.lastErr = ""
	return nil
}

// Create links an employee to a project and appends the server record.
func (s *Assignments) Create(ctx context.Context, in api.AssignmentCreate) (api.Assignment, error) {
	created, err := s.api.CreateAssignment(ctx, in)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err.Error()
		return api.Assignment{}, err
	}
	s.items = append(s.items, created)
	s.lastErr = ""
	return created, nil
}

// Update adjusts the allotment of the matching cached entity.
func (s *Assignments) Update(ctx context.Context, id int, in api.AssignmentUpdate) (api.Assignment, error) {
	updated, err := s.api.UpdateAssignment(ctx, id, in)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err.Error()
		return api.Assignment{}, err
	}
	for i := range s.items {
		if s.items[i].AssignID == id {
			s.items[i] = updated
			break
		}
	}
	s.lastErr = ""
	return updated, nil
}

// Remove deletes the assignment server-side, then filters it out of the
// cache. The server returns unused hours to the employee.
func (s *Assignments) Remove(ctx context.Context, id int) error {
	err := s.api.DeleteAssignment(ctx, id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err.Error()
		return err
	}
	kept := s.items[:0]
	for _, a := range s.items {
		if a.AssignID != id {
			kept = append(kept, a)
		}
	}
	s.items = kept
	s.lastErr = ""
	return nil
}

// RemoveEmployee detaches an employee from a project and drops the
// matching cached entry.
func (s *Assignments) RemoveEmployee(ctx context.Context, empID, projectID int) (api.RemoveEmployeeResponse, error) {
	resp, err := s.api.RemoveEmployeeFromProject(ctx, api.RemoveEmployeeRequest{
		EmpID:     empID,
		ProjectID: projectID,
	})
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err.Error()
		return api.RemoveEmployeeResponse{}, err
	}
	kept := s.items[:0]
	for _, a := range s.items {
		if a.EmpID != empID || a.ProjectID != projectID {
			kept = append(kept, a)
		}
	}
	s.items = kept
	s.lastErr = ""
	return resp, nil
}

// CompleteTask submits the completion, then optimistically patches the
// matching cached entry so the caller sees the change without a
// refetch. The patch is not authoritative; a later FetchMine reconciles
// any divergence.
// TODO: refetch after completion to close the eventual-consistency gap.
func (s *Assignments) CompleteTask(ctx context.Context, in api.TaskCompletionCreate) error {
	s.mu.Lock()
	for i := range s.mine {
		if s.mine[i].AssignID == in.AssignID && s.mine[i].IsCompleted {
			s.mu.Unlock()
			return ErrAlreadyCompleted
		}
	}
	s.mu.Unlock()

	if _, err := s.api.CompleteTask(ctx, in); err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	patch := func(list []api.Assignment) {
		for i := range list {
			if list[i].AssignID == in.AssignID && !list[i].IsCompleted {
				list[i].IsCompleted = true
				list[i].HoursWorked = in.HoursWorked
				list[i].CompletionNotes = in.CompletionNotes
			}
		}
	}
	patch(s.mine)
	patch(s.items)
	s.lastErr = ""
	return nil
}

// Items returns a copy of the cached collection.
func (s *Assignments) Items() []api.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Assignment, len(s.items))
	copy(out, s.items)
	return out
}

// Mine returns a copy of the employee-scoped slice.
func (s *Assignments) Mine() []api.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Assignment, len(s.mine))
	copy(out, s.mine)
	return out
}

// Loading reports whether a fetch is in flight.
func (s *Assignments) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last recorded error message; empty when healthy.
func (s *Assignments) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ResetErr clears the recorded error message.
func (s *Assignments) ResetErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

func (s *Assignments) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}
