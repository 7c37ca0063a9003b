package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rahulsaha30/projectmanagement/internal/api"
	"github.com/Rahulsaha30/projectmanagement/internal/config"
	"github.com/Rahulsaha30/projectmanagement/internal/obs"
	"github.com/Rahulsaha30/projectmanagement/internal/session"
	"github.com/Rahulsaha30/projectmanagement/internal/store"
)

const usage = `usage: pmcli <command> [flags]

commands:
  login          -email -password
  signup         -name -email -password -role -pin
  forgot         -email -pin -password
  logout
  whoami
  projects       list | create | stats | update
  employees      list | add | search
  assignments    list | assign | unassign | remove-employee
  tasks          list | complete
`

func main() {
	log.SetFlags(0)

	cfg := config.Load()
	level, levelErr := logrus.ParseLevel(cfg.LogLevel)
	if levelErr != nil {
		level = logrus.InfoLevel
	}
	if err := obs.InitLogger(cfg.LogFile, level); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	obs.Init()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, obs.Handler()); err != nil {
				obs.Logger().WithField("err", err).Warn("metrics listener stopped")
			}
		}()
	}

	client := api.New(cfg.APIURL, api.WithTimeout(cfg.RequestTimeout))
	sess := session.NewStore(client, session.NewStorage(cfg.SessionFile))
	client.SetCredentials(sess)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sess.Restore(); err != nil {
		obs.Logger().WithField("err", err).Warn("restore session state")
	}
	if err := sess.CheckExpiry(ctx); err != nil {
		obs.Logger().WithField("err", err).Warn("session expired, login required")
	}

	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "login":
		err = cmdLogin(ctx, sess, args[1:])
	case "signup":
		err = cmdSignup(ctx, sess, args[1:])
	case "forgot":
		err = cmdForgot(ctx, sess, args[1:])
	case "logout":
		sess.Logout()
		fmt.Println("logged out")
	case "whoami":
		err = cmdWhoami(sess)
	case "projects":
		err = cmdProjects(ctx, client, args[1:])
	case "employees":
		err = cmdEmployees(ctx, client, args[1:])
	case "assignments":
		err = cmdAssignments(ctx, client, args[1:])
	case "tasks":
		err = cmdTasks(ctx, client, args[1:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("pmcli: %v", err)
	}
}

func cmdLogin(ctx context.Context, sess *session.Store, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)
	if *email == "" || *password == "" {
		return fmt.Errorf("login requires -email and -password")
	}
	if err := sess.Login(ctx, *email, *password); err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", sess.Subject(), sess.Role())
	return nil
}

func cmdSignup(ctx context.Context, sess *session.Store, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "employee name (First.Last)")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	role := fs.String("role", session.RoleEmployee, "admin, manager or employee")
	pin := fs.String("pin", "", "role pin")
	_ = fs.Parse(args)
	if *name == "" || *email == "" || *password == "" || *pin == "" {
		return fmt.Errorf("signup requires -name, -email, -password and -pin")
	}
	if err := sess.Signup(ctx, *name, *email, *password, *role, *pin); err != nil {
		return err
	}
	fmt.Printf("account created, logged in as %s (%s)\n", sess.Subject(), sess.Role())
	return nil
}

func cmdForgot(ctx context.Context, sess *session.Store, args []string) error {
	fs := flag.NewFlagSet("forgot", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	pin := fs.String("pin", "", "role pin")
	password := fs.String("password", "", "new password")
	_ = fs.Parse(args)
	if *email == "" || *pin == "" || *password == "" {
		return fmt.Errorf("forgot requires -email, -pin and -password")
	}
	if err := sess.ForgotPassword(ctx, *email, *pin, *password); err != nil {
		return err
	}
	fmt.Println("password reset")
	return nil
}

func cmdWhoami(sess *session.Store) error {
	if !sess.Authenticated() {
		return session.ErrNotAuthenticated
	}
	fmt.Printf("%s\trole=%s\temp_id=%d\texpires=%s\n",
		sess.Subject(), sess.Role(), sess.EmpID(), sess.Expiry().Format(time.RFC3339))
	return nil
}

func cmdProjects(ctx context.Context, client *api.Client, args []string) error {
	projects := store.NewProjects(client)
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}
	switch sub {
	case "list":
		if err := projects.FetchAll(ctx); err != nil {
			return err
		}
		for _, p := range projects.Items() {
			fmt.Printf("%d\t%s\t%s\tactive=%v\n", p.ProjectID, p.Name, p.Client, p.Status)
		}
		return nil
	case "create":
		fs := flag.NewFlagSet("projects create", flag.ExitOnError)
		name := fs.String("name", "", "project name")
		clientName := fs.String("client", "", "client name")
		hours := fs.Float64("hours", 0, "expected hours")
		_ = fs.Parse(args)
		if *name == "" || *clientName == "" {
			return fmt.Errorf("projects create requires -name and -client")
		}
		in := api.ProjectCreate{Name: *name, Client: *clientName}
		if *hours > 0 {
			in.ExpectedHours = hours
		}
		created, err := projects.Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("created project %d\n", created.ProjectID)
		return nil
	case "update":
		fs := flag.NewFlagSet("projects update", flag.ExitOnError)
		id := fs.Int("id", 0, "project id")
		status := fs.Bool("status", true, "active flag")
		_ = fs.Parse(args)
		if *id == 0 {
			return fmt.Errorf("projects update requires -id")
		}
		updated, err := projects.Update(ctx, *id, api.ProjectUpdate{Status: status})
		if err != nil {
			return err
		}
		fmt.Printf("project %d active=%v\n", updated.ProjectID, updated.Status)
		return nil
	case "stats":
		stats, err := projects.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("total=%d active=%d completed=%d expected_hours=%.1f\n",
			stats.TotalProjects, stats.ActiveProjects, stats.CompletedProjects, stats.TotalExpectedHours)
		return nil
	default:
		return fmt.Errorf("unknown projects command %q", sub)
	}
}

func cmdEmployees(ctx context.Context, client *api.Client, args []string) error {
	employees := store.NewEmployees(client)
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}
	switch sub {
	case "list":
		if err := employees.FetchAll(ctx); err != nil {
			return err
		}
		for _, e := range employees.Items() {
			fmt.Printf("%d\t%s\t%s\t%s\thours=%.1f\n", e.EmpID, e.EmpName, e.Email, e.Role, e.BillableWorkHours)
		}
		return nil
	case "add":
		fs := flag.NewFlagSet("employees add", flag.ExitOnError)
		name := fs.String("name", "", "employee name (First.Last)")
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "initial password")
		skills := fs.String("skills", "", "comma-separated skills")
		_ = fs.Parse(args)
		if *name == "" || *email == "" || *password == "" {
			return fmt.Errorf("employees add requires -name, -email and -password")
		}
		in := api.EmployeeCreate{EmpName: *name, Email: *email, Password: *password}
		if *skills != "" {
			in.Skills = skills
		}
		created, err := employees.Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("added employee %d\n", created.EmpID)
		return nil
	case "search":
		fs := flag.NewFlagSet("employees search", flag.ExitOnError)
		skills := fs.String("skills", "", "comma-separated skills")
		minExp := fs.Int("min-experience", 0, "minimum years of experience")
		includeAssigned := fs.Bool("include-assigned", false, "include already assigned employees")
		_ = fs.Parse(args)
		if *skills == "" {
			return fmt.Errorf("employees search requires -skills")
		}
		in := api.SkillSearch{Skills: *skills, IncludeAssigned: *includeAssigned}
		if *minExp > 0 {
			in.MinExperience = minExp
		}
		results, err := employees.SearchBySkills(ctx, in)
		if err != nil {
			return err
		}
		for _, e := range results {
			fmt.Printf("%d\t%s\t%s\n", e.EmpID, e.EmpName, e.Email)
		}
		return nil
	default:
		return fmt.Errorf("unknown employees command %q", sub)
	}
}

func cmdAssignments(ctx context.Context, client *api.Client, args []string) error {
	assignments := store.NewAssignments(client)
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}
	switch sub {
	case "list":
		if err := assignments.FetchAll(ctx); err != nil {
			return err
		}
		for _, a := range assignments.Items() {
			fmt.Printf("%d\t%s -> %s\tallotted=%.1f\tdone=%v\n",
				a.AssignID, a.EmpName, a.ProjectName, a.AllottedHours, a.IsCompleted)
		}
		return nil
	case "assign":
		fs := flag.NewFlagSet("assignments assign", flag.ExitOnError)
		empID := fs.Int("emp", 0, "employee id")
		projectID := fs.Int("project", 0, "project id")
		hours := fs.Float64("hours", 0, "allotted hours")
		_ = fs.Parse(args)
		if *empID == 0 || *projectID == 0 || *hours <= 0 {
			return fmt.Errorf("assignments assign requires -emp, -project and -hours")
		}
		created, err := assignments.Create(ctx, api.AssignmentCreate{
			EmpID:         *empID,
			ProjectID:     *projectID,
			AllottedHours: *hours,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created assignment %d\n", created.AssignID)
		return nil
	case "unassign":
		fs := flag.NewFlagSet("assignments unassign", flag.ExitOnError)
		id := fs.Int("id", 0, "assignment id")
		_ = fs.Parse(args)
		if *id == 0 {
			return fmt.Errorf("assignments unassign requires -id")
		}
		if err := assignments.Remove(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("removed assignment %d\n", *id)
		return nil
	case "remove-employee":
		fs := flag.NewFlagSet("assignments remove-employee", flag.ExitOnError)
		empID := fs.Int("emp", 0, "employee id")
		projectID := fs.Int("project", 0, "project id")
		_ = fs.Parse(args)
		if *empID == 0 || *projectID == 0 {
			return fmt.Errorf("assignments remove-employee requires -emp and -project")
		}
		resp, err := assignments.RemoveEmployee(ctx, *empID, *projectID)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %.1f hours returned, billable now %.1f\n",
			resp.Message, resp.HoursReturned, resp.NewBillableHours)
		return nil
	default:
		return fmt.Errorf("unknown assignments command %q", sub)
	}
}

func cmdTasks(ctx context.Context, client *api.Client, args []string) error {
	assignments := store.NewAssignments(client)
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}
	switch sub {
	case "list":
		if err := assignments.FetchMine(ctx); err != nil {
			return err
		}
		for _, a := range assignments.Mine() {
			fmt.Printf("%d\t%s\tallotted=%.1f\tdone=%v\n",
				a.AssignID, a.ProjectName, a.AllottedHours, a.IsCompleted)
		}
		return nil
	case "complete":
		fs := flag.NewFlagSet("tasks complete", flag.ExitOnError)
		id := fs.Int("id", 0, "assignment id")
		hours := fs.Float64("hours", 0, "hours worked")
		notes := fs.String("notes", "", "completion notes")
		_ = fs.Parse(args)
		if *id == 0 || *hours <= 0 {
			return fmt.Errorf("tasks complete requires -id and -hours")
		}
		in := api.TaskCompletionCreate{AssignID: *id, HoursWorked: *hours}
		if *notes != "" {
			in.CompletionNotes = notes
		}
		if err := assignments.CompleteTask(ctx, in); err != nil {
			return err
		}
		fmt.Printf("assignment %d completed\n", *id)
		return nil
	default:
		return fmt.Errorf("unknown tasks command %q", sub)
	}
}
