package employee

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/company-api/internal/core/common/pagination"
	"github.com/frahmantamala/company-api/internal/core/events"
)

// Repository interface defines the data access methods for employees
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]*Employee, int64, error)
	GetByID(ctx context.Context, id int64) (*Employee, error)
	// Create stores e and sets its project associations to exactly e.ProjectIDs.
	Create(ctx context.Context, e *Employee) error
	// Update stores the scalar fields of e, and its project set when replaceProjects is true.
	Update(ctx context.Context, e *Employee, replaceProjects bool) error
	Delete(ctx context.Context, id int64) error
}

// Service handles employee business logic
type Service struct {
	repo   Repository
	events events.Publisher
	logger *slog.Logger
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: publisher,
		logger: logger,
	}
}

func (s *Service) ListEmployees(ctx context.Context, params pagination.Params) (pagination.Page[EmployeeResponse], error) {
	employees, count, err := s.repo.List(ctx, params.Limit(), params.Offset())
	if err != nil {
		s.logger.Error("failed to list employees", "error", err, "page", params.Page)
		return pagination.Page[EmployeeResponse]{}, err
	}

	items := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		items = append(items, e.ToResponse())
	}
	return pagination.NewPage(items, count), nil
}

func (s *Service) CreateEmployee(ctx context.Context, dto *CreateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("employee validation failed", "error", err)
		return nil, err
	}

	employee := dto.ToEmployee()
	if err := s.repo.Create(ctx, employee); err != nil {
		s.logger.Error("failed to create employee", "error", err)
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, employee.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.ActionCreated, created.ID)
	s.logger.Info("employee created successfully",
		"employee_id", created.ID,
		"project_ids", created.ProjectIDs)

	return created, nil
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Debug("failed to get employee", "error", err, "employee_id", id)
		return nil, err
	}
	return employee, nil
}

// UpdateEmployee applies only the fields present in dto.
func (s *Service) UpdateEmployee(ctx context.Context, id int64, dto *UpdateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("employee validation failed", "error", err, "employee_id", id)
		return nil, err
	}

	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dto.ApplyTo(employee)
	if err := s.repo.Update(ctx, employee, dto.ReplacesProjects()); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.ActionUpdated, id)
	return updated, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Debug("failed to delete employee", "error", err, "employee_id", id)
		return err
	}

	s.publish(ctx, events.ActionDeleted, id)
	s.logger.Info("employee deleted", "employee_id", id)
	return nil
}

func (s *Service) publish(ctx context.Context, action string, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, events.NewRecordChangedEvent(Variant, Resource, action, id)); err != nil {
		s.logger.Warn("failed to publish employee event", "error", err, "employee_id", id, "action", action)
	}
}
