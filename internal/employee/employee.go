package employee

import (
	"sort"
	"time"

	"github.com/frahmantamala/company-api/internal"
	"github.com/frahmantamala/company-api/internal/core/common/validation"
	"github.com/frahmantamala/company-api/internal/core/datamodel/basic"
)

const (
	Resource = "employee"
	Variant  = "basic"
)

var ErrEmployeeNotFound = internal.ErrEmployeeNotFound

// Employee is the domain view of a basic-variant employee. ProjectIDs is derived from
// the loaded project association and kept sorted.
type Employee struct {
	ID           int64
	FirstName    string
	LastName     string
	Birthdate    *time.Time
	DepartmentID *int64
	ProjectIDs   []int64
}

func FromDataModel(m *basic.Employee) *Employee {
	ids := make([]int64, 0, len(m.Projects))
	for _, p := range m.Projects {
		ids = append(ids, p.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return &Employee{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Birthdate:    m.Birthdate,
		DepartmentID: m.DepartmentID,
		ProjectIDs:   ids,
	}
}

// ToDataModel copies the scalar columns. Projects are written separately.
func (e *Employee) ToDataModel() *basic.Employee {
	return &basic.Employee{
		ID:           e.ID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Birthdate:    e.Birthdate,
		DepartmentID: e.DepartmentID,
	}
}

func (e *Employee) ToResponse() EmployeeResponse {
	projectIDs := e.ProjectIDs
	if projectIDs == nil {
		projectIDs = []int64{}
	}
	return EmployeeResponse{
		ID:           e.ID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		DepartmentID: e.DepartmentID,
		ProjectIDs:   projectIDs,
		Birthdate:    validation.FormatDate(e.Birthdate),
	}
}
