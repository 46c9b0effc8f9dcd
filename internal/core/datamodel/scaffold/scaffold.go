// Package scaffold holds the tables behind the view-set generated API.
package scaffold

import "time"

type Department struct {
	ID    int64  `gorm:"primaryKey"`
	Title string `gorm:"column:title;size:100;not null"`
}

func (Department) TableName() string {
	return "scaffold_departments"
}

func (d Department) PrimaryKey() int64 {
	return d.ID
}

type Project struct {
	ID           int64       `gorm:"primaryKey"`
	Title        string      `gorm:"column:title;size:100;not null"`
	DepartmentID int64       `gorm:"column:department_id;not null;index"`
	Department   *Department `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE"`
}

func (Project) TableName() string {
	return "scaffold_projects"
}

func (p Project) PrimaryKey() int64 {
	return p.ID
}

// Employee always belongs to a department in this variant.
type Employee struct {
	ID           int64       `gorm:"primaryKey"`
	FirstName    string      `gorm:"column:first_name;size:100;not null"`
	LastName     string      `gorm:"column:last_name;size:100;not null"`
	Birthdate    *time.Time  `gorm:"column:birthdate;type:date"`
	DepartmentID int64       `gorm:"column:department_id;not null;index"`
	Department   *Department `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE"`
	Projects     []Project   `gorm:"many2many:scaffold_employee_projects;constraint:OnDelete:CASCADE"`
}

func (Employee) TableName() string {
	return "scaffold_employees"
}

func (e Employee) PrimaryKey() int64 {
	return e.ID
}
