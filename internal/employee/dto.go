package employee

import (
	"strings"
	"time"

	"github.com/frahmantamala/company-api/internal/core/common/optional"
	"github.com/frahmantamala/company-api/internal/core/common/validation"
)

// EmployeeResponse is the wire shape of an employee in both variants.
type EmployeeResponse struct {
	ID           int64   `json:"id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	DepartmentID *int64  `json:"department_id"`
	ProjectIDs   []int64 `json:"project_ids"`
	Birthdate    *string `json:"birthdate"`
}

// CreateEmployeeDTO represents the request payload for creating an employee
type CreateEmployeeDTO struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	DepartmentID *int64  `json:"department_id"`
	Birthdate    *string `json:"birthdate"`
	ProjectIDs   []int64 `json:"project_ids"`
}

// Normalize trims surrounding whitespace from every string field.
func (dto *CreateEmployeeDTO) Normalize() {
	dto.FirstName = strings.TrimSpace(dto.FirstName)
	dto.LastName = strings.TrimSpace(dto.LastName)
	validation.TrimPtr(dto.Birthdate)
}

func (dto *CreateEmployeeDTO) Validate() error {
	dto.Normalize()

	v := validation.NewValidator()
	v.Field("first_name", dto.FirstName).Required().MaxLength(validation.NameMaxLength)
	v.Field("last_name", dto.LastName).Required().MaxLength(validation.NameMaxLength)
	v.Field("department_id", dto.DepartmentID).PositiveIDs()
	v.Field("birthdate", dto.Birthdate).Date()
	v.Field("project_ids", dto.ProjectIDs).PositiveIDs()

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ToEmployee assumes Validate has passed.
func (dto *CreateEmployeeDTO) ToEmployee() *Employee {
	projectIDs := dto.ProjectIDs
	if projectIDs == nil {
		projectIDs = []int64{}
	}
	return &Employee{
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		DepartmentID: dto.DepartmentID,
		Birthdate:    parseBirthdate(dto.Birthdate),
		ProjectIDs:   projectIDs,
	}
}

// UpdateEmployeeDTO is a partial update. Only keys present in the payload are applied;
// a null department_id or birthdate clears it, and project_ids replaces the whole set
// when present ([] clears it).
type UpdateEmployeeDTO struct {
	FirstName    optional.Optional[string]  `json:"first_name"`
	LastName     optional.Optional[string]  `json:"last_name"`
	DepartmentID optional.Optional[int64]   `json:"department_id"`
	Birthdate    optional.Optional[string]  `json:"birthdate"`
	ProjectIDs   optional.Optional[[]int64] `json:"project_ids"`
}

func (dto *UpdateEmployeeDTO) Normalize() {
	dto.FirstName.Value = strings.TrimSpace(dto.FirstName.Value)
	dto.LastName.Value = strings.TrimSpace(dto.LastName.Value)
	dto.Birthdate.Value = strings.TrimSpace(dto.Birthdate.Value)
}

func (dto *UpdateEmployeeDTO) Validate() error {
	dto.Normalize()

	v := validation.NewValidator()
	if dto.FirstName.Set {
		v.Field("first_name", dto.FirstName.Value).NotNull(dto.FirstName.Null).Required().MaxLength(validation.NameMaxLength)
	}
	if dto.LastName.Set {
		v.Field("last_name", dto.LastName.Value).NotNull(dto.LastName.Null).Required().MaxLength(validation.NameMaxLength)
	}
	if dto.DepartmentID.Present() {
		v.Field("department_id", dto.DepartmentID.Value).PositiveIDs()
	}
	if dto.Birthdate.Present() {
		v.Field("birthdate", dto.Birthdate.Value).Required().Date()
	}
	if dto.ProjectIDs.Present() {
		v.Field("project_ids", dto.ProjectIDs.Value).PositiveIDs()
	}

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ReplacesProjects reports whether the payload carries a project set to store.
func (dto *UpdateEmployeeDTO) ReplacesProjects() bool {
	return dto.ProjectIDs.Present()
}

// ApplyTo overwrites the fields present in the payload. It assumes Validate has passed.
func (dto *UpdateEmployeeDTO) ApplyTo(e *Employee) {
	if v, ok := dto.FirstName.Get(); ok {
		e.FirstName = v
	}
	if v, ok := dto.LastName.Get(); ok {
		e.LastName = v
	}
	if dto.DepartmentID.Set {
		if dto.DepartmentID.Null {
			e.DepartmentID = nil
		} else {
			id := dto.DepartmentID.Value
			e.DepartmentID = &id
		}
	}
	if dto.Birthdate.Set {
		if dto.Birthdate.Null {
			e.Birthdate = nil
		} else {
			e.Birthdate = parseBirthdate(&dto.Birthdate.Value)
		}
	}
	if ids, ok := dto.ProjectIDs.Get(); ok {
		if ids == nil {
			ids = []int64{}
		}
		e.ProjectIDs = ids
	}
}

func parseBirthdate(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	t, err := validation.ParseDate(*raw)
	if err != nil {
		return nil
	}
	return &t
}
