// Package datamodel lists every persisted model so schema creation stays in one place.
package datamodel

import (
	"github.com/frahmantamala/company-api/internal/core/datamodel/basic"
	"github.com/frahmantamala/company-api/internal/core/datamodel/scaffold"
	"github.com/frahmantamala/company-api/internal/core/datamodel/user"
)

// Models returns the models in dependency order, suitable for gorm AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&basic.Department{},
		&basic.Project{},
		&basic.Employee{},
		&scaffold.Department{},
		&scaffold.Project{},
		&scaffold.Employee{},
	}
}
