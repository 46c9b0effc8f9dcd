package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/frahmantamala/company-api/internal"
	"github.com/frahmantamala/company-api/internal/core/datamodel/basic"
	"github.com/frahmantamala/company-api/internal/employee"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmployeeRepository implements the employee.Repository interface using GORM
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) List(ctx context.Context, limit, offset int) ([]*employee.Employee, int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&basic.Employee{}).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	var rows []basic.Employee
	err := r.db.WithContext(ctx).
		Preload("Projects").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}

	employees := make([]*employee.Employee, 0, len(rows))
	for i := range rows {
		employees = append(employees, employee.FromDataModel(&rows[i]))
	}
	return employees, count, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employee.Employee, error) {
	row, err := r.get(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return employee.FromDataModel(row), nil
}

func (r *EmployeeRepository) get(tx *gorm.DB, id int64) (*basic.Employee, error) {
	var row basic.Employee
	if err := tx.Preload("Projects").Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee %d: %w", id, err)
	}
	return &row, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkDepartment(tx, e.DepartmentID); err != nil {
			return err
		}
		projects, err := loadProjects(tx, e.ProjectIDs)
		if err != nil {
			return err
		}

		row := e.ToDataModel()
		if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}
		e.ID = row.ID

		return replaceProjects(tx, row, projects)
	})
}

func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee, withProjects bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.get(tx, e.ID); err != nil {
			return err
		}
		if err := checkDepartment(tx, e.DepartmentID); err != nil {
			return err
		}

		var projects []basic.Project
		if withProjects {
			var err error
			if projects, err = loadProjects(tx, e.ProjectIDs); err != nil {
				return err
			}
		}

		row := e.ToDataModel()
		err := tx.Model(row).
			Select("first_name", "last_name", "birthdate", "department_id").
			Updates(row).Error
		if err != nil {
			return fmt.Errorf("failed to update employee %d: %w", e.ID, err)
		}

		if !withProjects {
			return nil
		}
		return replaceProjects(tx, row, projects)
	})
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.get(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Select("Projects").Delete(row).Error; err != nil {
			return fmt.Errorf("failed to delete employee %d: %w", id, err)
		}
		return nil
	})
}

func checkDepartment(tx *gorm.DB, id *int64) error {
	if id == nil {
		return nil
	}

	var count int64
	if err := tx.Model(&basic.Department{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check department %d: %w", *id, err)
	}
	if count == 0 {
		return internal.NewValidationFieldError("department_id",
			fmt.Sprintf("department %d does not exist", *id), internal.ErrCodeUnknownReference)
	}
	return nil
}

// loadProjects fails with a validation error naming the first unknown id.
func loadProjects(tx *gorm.DB, ids []int64) ([]basic.Project, error) {
	projects := make([]basic.Project, 0, len(ids))
	if len(ids) == 0 {
		return projects, nil
	}

	if err := tx.Where("id IN ?", ids).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	found := make(map[int64]bool, len(projects))
	for _, p := range projects {
		found[p.ID] = true
	}
	missing := make([]int64, 0)
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, internal.NewValidationFieldError("project_ids",
			fmt.Sprintf("project %d does not exist", missing[0]), internal.ErrCodeUnknownReference)
	}
	return projects, nil
}

func replaceProjects(tx *gorm.DB, row *basic.Employee, projects []basic.Project) error {
	assoc := tx.Model(row).Association("Projects")
	if assoc.Error != nil {
		return fmt.Errorf("failed to open projects association: %w", assoc.Error)
	}

	var err error
	if len(projects) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(projects)
	}
	if err != nil {
		return fmt.Errorf("failed to replace projects of employee %d: %w", row.ID, err)
	}
	return nil
}
