package store

import (
	"context"
	"sync"

	"github.com/Rahulsaha30/projectmanagement/internal/api"
)

// employeeAPI is the slice of the client the employee store depends on.
type employeeAPI interface {
	ListEmployees(ctx context.Context) ([]api.Employee, error)
	CreateEmployee(ctx context.Context, in api.EmployeeCreate) (api.Employee, error)
	UpdateEmployee(ctx context.Context, id int, in api.EmployeeUpdate) (api.Employee, error)
	SearchEmployeesBySkills(ctx context.Context, in api.SkillSearch) ([]api.Employee, error)
}

// Employees caches the employee roster.
type Employees struct {
	api employeeAPI

	mu      sync.Mutex
	items   []api.Employee
	loading bool
	lastErr string
}

// NewEmployees constructs an empty employee store.
func NewEmployees(a employeeAPI) *Employees {
	return &Employees{api: a}
}

// FetchAll replaces the cached roster with the server listing. On
// failure the previous roster is left intact.
func (e *Employees) FetchAll(ctx context.Context) error {
	e.setLoading(true)
	defer e.setLoading(false)

	items, err := e.api.ListEmployees(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.lastErr = err.Error()
		return err
	}
	e.items = items
	e.lastErr = ""
	return nil
}

// Create adds an employee and appends the server-assigned record.
func (e *Employees) Create(ctx context.Context, in api.EmployeeCreate) (api.Employee, error) {
	created, err := e.api.CreateEmployee(ctx, in)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.lastErr = err.Error()
		return api.Employee{}, err
	}
	e.items = append(e.items, created)
	e.lastErr = ""
	return created, nil
}

// Update replaces the cached entity matching id with the server record.
func (e *Employees) Update(ctx context.Context, id int, in api.EmployeeUpdate) (api.Employee, error) {
	updated, err := e.api.UpdateEmployee(ctx, id, in)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.lastErr = err.Error()
		return api.Employee{}, err
	}
	for i := range e.items {
		if e.items[i].EmpID == id {
			e.items[i] = updated
			break
		}
	}
	e.lastErr = ""
	return updated, nil
}

// SearchBySkills queries the search endpoint; results are returned to
// the caller and the main roster cache is untouched.
func (e *Employees) SearchBySkills(ctx context.Context, in api.SkillSearch) ([]api.Employee, error) {
	results, err := e.api.SearchEmployeesBySkills(ctx, in)
	if err != nil {
		e.mu.Lock()
		e.lastErr = err.Error()
		e.mu.Unlock()
		return nil, err
	}
	return results, nil
}

// Items returns a copy of the cached roster.
func (e *Employees) Items() []api.Employee {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]api.Employee, len(e.items))
	copy(out, e.items)
	return out
}

// Loading reports whether a FetchAll is in flight.
func (e *Employees) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Err returns the last recorded error message; empty when healthy.
func (e *Employees) Err() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// ResetErr clears the recorded error message.
func (e *Employees) ResetErr() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastErr = ""
}

func (e *Employees) setLoading(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loading = v
}
