package scaffold

import "gorm.io/gorm"

const employeeProjectsTable = "scaffold_employee_projects"

// BeforeDelete removes the department's employees and projects along with their
// association rows, so the cascade holds on databases that do not enforce it.
func (d *Department) BeforeDelete(tx *gorm.DB) error {
	if d.ID == 0 {
		return nil
	}

	statements := []string{
		"DELETE FROM " + employeeProjectsTable + " WHERE employee_id IN (SELECT id FROM scaffold_employees WHERE department_id = ?)",
		"DELETE FROM " + employeeProjectsTable + " WHERE project_id IN (SELECT id FROM scaffold_projects WHERE department_id = ?)",
		"DELETE FROM scaffold_employees WHERE department_id = ?",
		"DELETE FROM scaffold_projects WHERE department_id = ?",
	}
	for _, stmt := range statements {
		if err := tx.Exec(stmt, d.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

// BeforeDelete detaches the project from every employee.
func (p *Project) BeforeDelete(tx *gorm.DB) error {
	if p.ID == 0 {
		return nil
	}
	return tx.Exec("DELETE FROM "+employeeProjectsTable+" WHERE project_id = ?", p.ID).Error
}
