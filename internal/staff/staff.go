// Package staff exposes the scaffold variant: employees, departments and projects served
// by crud view sets.
package staff

import (
	"log/slog"
	"sort"

	"github.com/frahmantamala/company-api/internal/core/common/validation"
	"github.com/frahmantamala/company-api/internal/core/datamodel/scaffold"
	"github.com/frahmantamala/company-api/internal/core/events"
	"github.com/frahmantamala/company-api/internal/crud"
	"github.com/frahmantamala/company-api/internal/employee"
	"github.com/go-chi/chi"
	"gorm.io/gorm"
)

const (
	Variant = "scaffold"

	ResourceEmployee   = "employee"
	ResourceDepartment = "department"
	ResourceProject    = "project"
)

type DepartmentResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type ProjectResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	DepartmentID int64  `json:"department_id"`
}

// EmployeeResponse maps the Projects relation to project_ids, sorted.
func EmployeeResponse(m *scaffold.Employee) employee.EmployeeResponse {
	ids := make([]int64, 0, len(m.Projects))
	for _, p := range m.Projects {
		ids = append(ids, p.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	departmentID := m.DepartmentID
	return employee.EmployeeResponse{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		DepartmentID: &departmentID,
		ProjectIDs:   ids,
		Birthdate:    validation.FormatDate(m.Birthdate),
	}
}

func NewDepartmentResponse(m *scaffold.Department) DepartmentResponse {
	return DepartmentResponse{ID: m.ID, Title: m.Title}
}

func NewProjectResponse(m *scaffold.Project) ProjectResponse {
	return ProjectResponse{ID: m.ID, Title: m.Title, DepartmentID: m.DepartmentID}
}

type Options struct {
	PageSize int
	Events   events.Publisher
	Logger   *slog.Logger
}

// Router serves the three scaffold resources from one database.
type Router struct {
	Employees   crud.Views
	Departments crud.Views
	Projects    crud.Views
}

func NewRouter(db *gorm.DB, opts Options) *Router {
	viewOpts := crud.Options{
		Variant:  Variant,
		PageSize: opts.PageSize,
		Events:   opts.Events,
		Logger:   opts.Logger,
	}

	employees := crud.NewViewSet(ResourceEmployee,
		crud.NewRepository[scaffold.Employee](db,
			crud.BelongsTo[scaffold.Department](FieldDepartmentID),
			crud.ManyToMany[scaffold.Project](FieldProjectIDs, "Projects"),
		).WithNotFound(employee.ErrEmployeeNotFound),
		EmployeeResponse, viewOpts)

	departments := crud.NewViewSet(ResourceDepartment,
		crud.NewRepository[scaffold.Department](db),
		NewDepartmentResponse, viewOpts)

	projects := crud.NewViewSet(ResourceProject,
		crud.NewRepository[scaffold.Project](db,
			crud.BelongsTo[scaffold.Department](FieldDepartmentID),
		),
		NewProjectResponse, viewOpts)

	return &Router{
		Employees:   crud.AllViews[EmployeeIn, *EmployeeIn, EmployeePatch, *EmployeePatch](employees),
		Departments: crud.AllViews[DepartmentIn, *DepartmentIn, DepartmentPatch, *DepartmentPatch](departments),
		Projects:    crud.AllViews[ProjectIn, *ProjectIn, ProjectPatch, *ProjectPatch](projects),
	}
}

// Routes mounts /employees, /departments and /projects on r.
func (s *Router) Routes(r chi.Router) {
	r.Route("/employees", s.Employees.Mount)
	r.Route("/departments", s.Departments.Mount)
	r.Route("/projects", s.Projects.Mount)
}
