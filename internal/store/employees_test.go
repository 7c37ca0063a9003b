package store

import (
	"context"
	"testing"

	"github.com/Rahulsaha30/projectmanagement/internal/api"
)

type fakeEmployeeAPI struct {
	listFn   func(ctx context.Context) ([]api.Employee, error)
	createFn func(ctx context.Context, in api.EmployeeCreate) (api.Employee, error)
	updateFn func(ctx context.Context, id int, in api.EmployeeUpdate) (api.Employee, error)
	searchFn func(ctx context.Context, in api.SkillSearch) ([]api.Employee, error)
}

func (f *fakeEmployeeAPI) ListEmployees(ctx context.Context) ([]api.Employee, error) {
	return f.listFn(ctx)
}

func (f *fakeEmployeeAPI) CreateEmployee(ctx context.Context, in api.EmployeeCreate) (api.Employee, error) {
	return f.createFn(ctx, in)
}

func (f *fakeEmployeeAPI) UpdateEmployee(ctx context.Context, id int, in api.EmployeeUpdate) (api.Employee, error) {
	return f.updateFn(ctx, id, in)
}

func (f *fakeEmployeeAPI) SearchEmployeesBySkills(ctx context.Context, in api.SkillSearch) ([]api.Employee, error) {
	return f.searchFn(ctx, in)
}

func TestEmployeesSearchDoesNotTouchRoster(t *testing.T) {
	fake := &fakeEmployeeAPI{
		listFn: func(ctx context.Context) ([]api.Employee, error) {
			return []api.Employee{{EmpID: 1, EmpName: "Jane.Doe"}}, nil
		},
		searchFn: func(ctx context.Context, in api.SkillSearch) ([]api.Employee, error) {
			if in.Skills != "go,sql" {
				t.Errorf("unexpected skills filter %q", in.Skills)
			}
			return []api.Employee{{EmpID: 2, EmpName: "John.Smith"}}, nil
		},
	}
	e := NewEmployees(fake)
	if err := e.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	results, err := e.SearchBySkills(context.Background(), api.SkillSearch{Skills: "go,sql"})
	if err != nil {
		t.Fatalf("SearchBySkills: %v", err)
	}
	if len(results) != 1 || results[0].EmpID != 2 {
		t.Fatalf("unexpected search results: %+v", results)
	}
	if roster := e.Items(); len(roster) != 1 || roster[0].EmpID != 1 {
		t.Fatalf("search must not modify the roster, got %+v", roster)
	}
}

func TestEmployeesUpdateTouchesOnlyMatch(t *testing.T) {
	fake := &fakeEmployeeAPI{
		listFn: func(ctx context.Context) ([]api.Employee, error) {
			return []api.Employee{
				{EmpID: 1, EmpName: "Jane.Doe", BillableWorkHours: 40},
				{EmpID: 2, EmpName: "John.Smith", BillableWorkHours: 40},
			}, nil
		},
		updateFn: func(ctx context.Context, id int, in api.EmployeeUpdate) (api.Employee, error) {
			return api.Employee{EmpID: id, EmpName: "Jane.Doe", BillableWorkHours: 32}, nil
		},
	}
	e := NewEmployees(fake)
	if err := e.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	hours := 32.0
	if _, err := e.Update(context.Background(), 1, api.EmployeeUpdate{BillableWorkHours: &hours}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	roster := e.Items()
	if roster[0].BillableWorkHours != 32 {
		t.Fatalf("matching entry not replaced: %+v", roster[0])
	}
	if roster[1].BillableWorkHours != 40 {
		t.Fatalf("non-matching entry changed: %+v", roster[1])
	}
}
