// Package seed fills an empty database with the demo user and one small company per variant.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/company-api/internal/core/datamodel/basic"
	"github.com/frahmantamala/company-api/internal/core/datamodel/scaffold"
	userDatamodel "github.com/frahmantamala/company-api/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	VariantBasic    = "basic"
	VariantScaffold = "scaffold"
	VariantAll      = "all"

	DemoUsername = "testuser"
)

var departmentTitles = []string{"Growth", "Infrastructure"}

// ParseVariants expands a --variant flag value.
func ParseVariants(raw string) ([]string, error) {
	switch raw {
	case VariantBasic, VariantScaffold:
		return []string{raw}, nil
	case VariantAll, "":
		return []string{VariantBasic, VariantScaffold}, nil
	default:
		return nil, fmt.Errorf("unknown variant %q (want basic, scaffold or all)", raw)
	}
}

type Options struct {
	// Password is hashed with bcrypt. Empty leaves the account without a usable password.
	Password string
	Variants []string
}

type Result struct {
	UserID int64
	Token  string
	// EmployeeIDs holds the seeded employee id per variant.
	EmployeeIDs map[string]int64
}

type Seeder struct {
	db     *gorm.DB
	secret string
	logger *slog.Logger
	now    func() time.Time
}

func New(db *gorm.DB, secret string, logger *slog.Logger) *Seeder {
	return &Seeder{db: db, secret: secret, logger: logger, now: time.Now}
}

// Run seeds everything in one transaction. It is not idempotent: running it twice fails on
// the unique username.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	hash := userDatamodel.UnusablePassword
	if opts.Password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = string(b)
	}

	variants := opts.Variants
	if len(variants) == 0 {
		variants = []string{VariantBasic, VariantScaffold}
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	result := &Result{EmployeeIDs: make(map[string]int64, len(variants))}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u := &userDatamodel.User{Username: DemoUsername, PasswordHash: hash, IsActive: true}
		if err := tx.Create(u).Error; err != nil {
			return fmt.Errorf("failed to insert %s user: %w", DemoUsername, err)
		}
		result.UserID = u.ID
		s.logger.Info("seeded user", "username", u.Username, "user_id", u.ID)

		for _, variant := range variants {
			var (
				employeeID int64
				err        error
			)
			switch variant {
			case VariantBasic:
				employeeID, err = seedBasic(tx, today)
			case VariantScaffold:
				employeeID, err = seedScaffold(tx, today)
			default:
				err = fmt.Errorf("unknown variant %q", variant)
			}
			if err != nil {
				return fmt.Errorf("failed to seed %s variant: %w", variant, err)
			}
			result.EmployeeIDs[variant] = employeeID
			s.logger.Info("seeded company", "variant", variant, "employee_id", employeeID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Token = fmt.Sprintf("%s:%d", s.secret, result.UserID)
	return result, nil
}

func seedBasic(tx *gorm.DB, birthdate time.Time) (int64, error) {
	var projects []basic.Project
	var firstDepartment int64
	for i, title := range departmentTitles {
		d := &basic.Department{Title: title}
		if err := tx.Create(d).Error; err != nil {
			return 0, err
		}
		if i == 0 {
			firstDepartment = d.ID
		}
		p := basic.Project{Title: title + " Project", DepartmentID: d.ID}
		if err := tx.Create(&p).Error; err != nil {
			return 0, err
		}
		projects = append(projects, p)
	}

	e := &basic.Employee{
		FirstName:    "Bob",
		LastName:     "Smith",
		Birthdate:    &birthdate,
		DepartmentID: &firstDepartment,
	}
	if err := tx.Omit(clause.Associations).Create(e).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(e).Association("Projects").Replace(projects); err != nil {
		return 0, err
	}
	return e.ID, nil
}

func seedScaffold(tx *gorm.DB, birthdate time.Time) (int64, error) {
	var projects []scaffold.Project
	var firstDepartment int64
	for i, title := range departmentTitles {
		d := &scaffold.Department{Title: title}
		if err := tx.Create(d).Error; err != nil {
			return 0, err
		}
		if i == 0 {
			firstDepartment = d.ID
		}
		p := scaffold.Project{Title: title + " Project", DepartmentID: d.ID}
		if err := tx.Create(&p).Error; err != nil {
			return 0, err
		}
		projects = append(projects, p)
	}

	e := &scaffold.Employee{
		FirstName:    "Bob",
		LastName:     "Smith",
		Birthdate:    &birthdate,
		DepartmentID: firstDepartment,
	}
	if err := tx.Omit(clause.Associations).Create(e).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(e).Association("Projects").Replace(projects); err != nil {
		return 0, err
	}
	return e.ID, nil
}
