package staff

import (
	"strings"
	"time"

	"github.com/frahmantamala/company-api/internal/core/common/optional"
	"github.com/frahmantamala/company-api/internal/core/common/validation"
	"github.com/frahmantamala/company-api/internal/core/datamodel/scaffold"
	"github.com/frahmantamala/company-api/internal/crud"
)

// Wire names of the relation fields.
const (
	FieldDepartmentID = "department_id"
	FieldProjectIDs   = "project_ids"
)

// EmployeeIn is the create payload. department_id is required in this variant.
type EmployeeIn struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	DepartmentID *int64  `json:"department_id"`
	Birthdate    *string `json:"birthdate"`
	ProjectIDs   []int64 `json:"project_ids"`
}

func (in *EmployeeIn) Validate() error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	validation.TrimPtr(in.Birthdate)

	v := validation.NewValidator()
	v.Field("first_name", in.FirstName).Required().MaxLength(validation.NameMaxLength)
	v.Field("last_name", in.LastName).Required().MaxLength(validation.NameMaxLength)
	v.Field(FieldDepartmentID, in.DepartmentID).Required().PositiveIDs()
	v.Field("birthdate", in.Birthdate).Date()
	v.Field(FieldProjectIDs, in.ProjectIDs).PositiveIDs()

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (in *EmployeeIn) Bind() (*scaffold.Employee, crud.Relations) {
	m := &scaffold.Employee{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		DepartmentID: *in.DepartmentID,
		Birthdate:    parseDate(in.Birthdate),
	}
	refs := crud.Relations{FieldDepartmentID: {m.DepartmentID}}
	if len(in.ProjectIDs) > 0 {
		refs[FieldProjectIDs] = in.ProjectIDs
	}
	return m, refs
}

// EmployeePatch writes only the keys present in the payload. project_ids replaces the
// whole set when present; [] clears it.
type EmployeePatch struct {
	FirstName    optional.Optional[string]  `json:"first_name"`
	LastName     optional.Optional[string]  `json:"last_name"`
	DepartmentID optional.Optional[int64]   `json:"department_id"`
	Birthdate    optional.Optional[string]  `json:"birthdate"`
	ProjectIDs   optional.Optional[[]int64] `json:"project_ids"`
}

func (p *EmployeePatch) Validate() error {
	p.FirstName.Value = strings.TrimSpace(p.FirstName.Value)
	p.LastName.Value = strings.TrimSpace(p.LastName.Value)
	p.Birthdate.Value = strings.TrimSpace(p.Birthdate.Value)

	v := validation.NewValidator()
	if p.FirstName.Set {
		v.Field("first_name", p.FirstName.Value).NotNull(p.FirstName.Null).Required().MaxLength(validation.NameMaxLength)
	}
	if p.LastName.Set {
		v.Field("last_name", p.LastName.Value).NotNull(p.LastName.Null).Required().MaxLength(validation.NameMaxLength)
	}
	if p.DepartmentID.Set {
		v.Field(FieldDepartmentID, p.DepartmentID.Value).NotNull(p.DepartmentID.Null).PositiveIDs()
	}
	if p.Birthdate.Present() {
		v.Field("birthdate", p.Birthdate.Value).Required().Date()
	}
	if p.ProjectIDs.Present() {
		v.Field(FieldProjectIDs, p.ProjectIDs.Value).PositiveIDs()
	}

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (p *EmployeePatch) Patch(m *scaffold.Employee) crud.Relations {
	refs := crud.Relations{}
	if v, ok := p.FirstName.Get(); ok {
		m.FirstName = v
	}
	if v, ok := p.LastName.Get(); ok {
		m.LastName = v
	}
	if v, ok := p.DepartmentID.Get(); ok {
		m.DepartmentID = v
		refs[FieldDepartmentID] = []int64{v}
	}
	if p.Birthdate.Set {
		if p.Birthdate.Null {
			m.Birthdate = nil
		} else {
			m.Birthdate = parseDate(&p.Birthdate.Value)
		}
	}
	if ids, ok := p.ProjectIDs.Get(); ok {
		if ids == nil {
			ids = []int64{}
		}
		refs[FieldProjectIDs] = ids
	}
	return refs
}

type DepartmentIn struct {
	Title string `json:"title"`
}

func (in *DepartmentIn) Validate() error {
	in.Title = strings.TrimSpace(in.Title)

	v := validation.NewValidator()
	v.Field("title", in.Title).Required().MaxLength(validation.NameMaxLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (in *DepartmentIn) Bind() (*scaffold.Department, crud.Relations) {
	return &scaffold.Department{Title: in.Title}, nil
}

type DepartmentPatch struct {
	Title optional.Optional[string] `json:"title"`
}

func (p *DepartmentPatch) Validate() error {
	p.Title.Value = strings.TrimSpace(p.Title.Value)

	v := validation.NewValidator()
	if p.Title.Set {
		v.Field("title", p.Title.Value).NotNull(p.Title.Null).Required().MaxLength(validation.NameMaxLength)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (p *DepartmentPatch) Patch(m *scaffold.Department) crud.Relations {
	if v, ok := p.Title.Get(); ok {
		m.Title = v
	}
	return nil
}

type ProjectIn struct {
	Title        string `json:"title"`
	DepartmentID *int64 `json:"department_id"`
}

func (in *ProjectIn) Validate() error {
	in.Title = strings.TrimSpace(in.Title)

	v := validation.NewValidator()
	v.Field("title", in.Title).Required().MaxLength(validation.NameMaxLength)
	v.Field(FieldDepartmentID, in.DepartmentID).Required().PositiveIDs()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (in *ProjectIn) Bind() (*scaffold.Project, crud.Relations) {
	m := &scaffold.Project{Title: in.Title, DepartmentID: *in.DepartmentID}
	return m, crud.Relations{FieldDepartmentID: {m.DepartmentID}}
}

type ProjectPatch struct {
	Title        optional.Optional[string] `json:"title"`
	DepartmentID optional.Optional[int64]  `json:"department_id"`
}

func (p *ProjectPatch) Validate() error {
	p.Title.Value = strings.TrimSpace(p.Title.Value)

	v := validation.NewValidator()
	if p.Title.Set {
		v.Field("title", p.Title.Value).NotNull(p.Title.Null).Required().MaxLength(validation.NameMaxLength)
	}
	if p.DepartmentID.Set {
		v.Field(FieldDepartmentID, p.DepartmentID.Value).NotNull(p.DepartmentID.Null).PositiveIDs()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (p *ProjectPatch) Patch(m *scaffold.Project) crud.Relations {
	refs := crud.Relations{}
	if v, ok := p.Title.Get(); ok {
		m.Title = v
	}
	if v, ok := p.DepartmentID.Get(); ok {
		m.DepartmentID = v
		refs[FieldDepartmentID] = []int64{v}
	}
	return refs
}

func parseDate(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	t, err := validation.ParseDate(*raw)
	if err != nil {
		return nil
	}
	return &t
}
