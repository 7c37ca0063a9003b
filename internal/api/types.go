package api

// Wire types mirror the remote API schemas; field names follow the
// server's snake_case JSON exactly.

// TokenResponse is returned by login, signup and refresh. RefreshToken
// is only present on login and signup.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

// SignupRequest registers a new account. Pin authorizes the chosen role.
type SignupRequest struct {
	EmpName  string `json:"emp_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Pin      string `json:"pin"`
}

// ForgotPasswordRequest resets an account password using the role pin.
type ForgotPasswordRequest struct {
	Email       string `json:"email"`
	Pin         string `json:"pin"`
	NewPassword string `json:"new_password"`
}

// Project is the server representation of a project.
type Project struct {
	ProjectID     int      `json:"project_id"`
	Name          string   `json:"name"`
	Client        string   `json:"client"`
	ExpectedHours *float64 `json:"expected_hours"`
	Status        bool     `json:"status"`
	StartDate     string   `json:"start_date"`
	EndDate       *string  `json:"end_date"`
}

// ProjectCreate is the payload for creating a project.
type ProjectCreate struct {
	Name          string   `json:"name"`
	Client        string   `json:"client"`
	ExpectedHours *float64 `json:"expected_hours,omitempty"`
	Status        *bool    `json:"status,omitempty"`
	EndDate       *string  `json:"end_date,omitempty"`
}

// ProjectUpdate is a partial update; nil fields are left untouched.
type ProjectUpdate struct {
	Name          *string  `json:"name,omitempty"`
	Client        *string  `json:"client,omitempty"`
	ExpectedHours *float64 `json:"expected_hours,omitempty"`
	Status        *bool    `json:"status,omitempty"`
	EndDate       *string  `json:"end_date,omitempty"`
}

// ProjectStats summarizes the project portfolio.
type ProjectStats struct {
	TotalProjects      int     `json:"total_projects"`
	ActiveProjects     int     `json:"active_projects"`
	CompletedProjects  int     `json:"completed_projects"`
	TotalExpectedHours float64 `json:"total_expected_hours"`
}

// Employee is the server representation of an employee account.
type Employee struct {
	EmpID             int      `json:"emp_id"`
	EmpName           string   `json:"emp_name"`
	Email             string   `json:"email"`
	Role              string   `json:"role"`
	BillableWorkHours float64  `json:"billable_work_hours"`
	Skills            *string  `json:"skills"`
	Experience        *int     `json:"experience"`
	Dept              *string  `json:"dept"`
	IsActive          bool     `json:"is_active"`
	AddedBy           *int     `json:"added_by"`
}

// EmployeeCreate is the payload a manager sends to add an employee.
type EmployeeCreate struct {
	EmpName           string   `json:"emp_name"`
	Email             string   `json:"email"`
	Password          string   `json:"password"`
	BillableWorkHours *float64 `json:"billable_work_hours,omitempty"`
	Skills            *string  `json:"skills,omitempty"`
	Experience        *int     `json:"experience,omitempty"`
	Dept              *string  `json:"dept,omitempty"`
}

// EmployeeUpdate is a partial update; nil fields are left untouched.
type EmployeeUpdate struct {
	EmpName           *string  `json:"emp_name,omitempty"`
	Email             *string  `json:"email,omitempty"`
	Role              *string  `json:"role,omitempty"`
	BillableWorkHours *float64 `json:"billable_work_hours,omitempty"`
	Skills            *string  `json:"skills,omitempty"`
	Experience        *int     `json:"experience,omitempty"`
	Dept              *string  `json:"dept,omitempty"`
}

// SkillSearch filters the employee search endpoint.
type SkillSearch struct {
	Skills          string
	MinExperience   *int
	IncludeAssigned bool
}

// Assignment links an employee to a project with an hours allotment.
type Assignment struct {
	AssignID        int     `json:"assign_id"`
	EmpID           int     `json:"emp_id"`
	ProjectID       int     `json:"project_id"`
	AssignedAt      string  `json:"assigned_at"`
	AllottedHours   float64 `json:"allotted_hours"`
	EmpName         string  `json:"emp_name"`
	ProjectName     string  `json:"project_name"`
	IsCompleted     bool    `json:"is_completed"`
	CompletedAt     *string `json:"completed_at"`
	HoursWorked     float64 `json:"hours_worked"`
	CompletionNotes *string `json:"completion_notes"`
}

// AssignmentCreate is the payload for assigning an employee to a project.
type AssignmentCreate struct {
	EmpID         int     `json:"emp_id"`
	ProjectID     int     `json:"project_id"`
	AllottedHours float64 `json:"allotted_hours"`
}

// AssignmentUpdate adjusts the hours allotment.
type AssignmentUpdate struct {
	AllottedHours *float64 `json:"allotted_hours,omitempty"`
}

// AssignmentFilter narrows a listing; nil fields match everything.
type AssignmentFilter struct {
	EmpID     *int
	ProjectID *int
}

// RemoveEmployeeRequest detaches an employee from a project.
type RemoveEmployeeRequest struct {
	EmpID     int `json:"emp_id"`
	ProjectID int `json:"project_id"`
}

// RemoveEmployeeResponse reports the hours returned to the employee.
type RemoveEmployeeResponse struct {
	Message          string  `json:"message"`
	EmpID            int     `json:"emp_id"`
	ProjectID        int     `json:"project_id"`
	EmpName          string  `json:"emp_name"`
	ProjectName      string  `json:"project_name"`
	HoursReturned    float64 `json:"hours_returned"`
	NewBillableHours float64 `json:"new_billable_hours"`
}

// TaskCompletionCreate marks an assignment done with the hours spent.
type TaskCompletionCreate struct {
	AssignID        int     `json:"assign_id"`
	HoursWorked     float64 `json:"hours_worked"`
	CompletionNotes *string `json:"completion_notes,omitempty"`
}

// TaskCompletion is the server record of a completed assignment.
type TaskCompletion struct {
	AssignID        int     `json:"assign_id"`
	EmpID           int     `json:"emp_id"`
	ProjectID       int     `json:"project_id"`
	EmpName         string  `json:"emp_name"`
	ProjectName     string  `json:"project_name"`
	AssignedAt      string  `json:"assigned_at"`
	CompletedAt     string  `json:"completed_at"`
	AllottedHours   float64 `json:"allotted_hours"`
	HoursWorked     float64 `json:"hours_worked"`
	CompletionNotes *string `json:"completion_notes"`
}

// MessageResponse is the generic acknowledgement envelope.
type MessageResponse struct {
	Message string `json:"message"`
}
