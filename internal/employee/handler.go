package employee

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/company-api/internal/core/common/pagination"
	"github.com/frahmantamala/company-api/internal/transport"
	"github.com/frahmantamala/company-api/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListEmployees(ctx context.Context, params pagination.Params) (pagination.Page[EmployeeResponse], error)
	CreateEmployee(ctx context.Context, dto *CreateEmployeeDTO) (*Employee, error)
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	UpdateEmployee(ctx context.Context, id int64, dto *UpdateEmployeeDTO) (*Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	pageSize int
}

func NewHandler(service ServiceAPI, pageSize int) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		pageSize:    pageSize,
	}
}

// Routes mounts the five employee endpoints relative to the collection root.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.ListEmployees)
	r.Post("/", h.CreateEmployee)
	r.Get("/{id}", h.GetEmployee)
	r.Patch("/{id}", h.UpdateEmployee)
	r.Delete("/{id}", h.DeleteEmployee)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	params, appErr := pagination.FromRequest(r, h.pageSize)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	page, err := h.Service.ListEmployees(r.Context(), params)
	if err != nil {
		h.Logger.Error("ListEmployees: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	employee, err := h.Service.CreateEmployee(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateEmployee: employee created successfully", "employee_id", employee.ID)
	h.WriteJSON(w, http.StatusCreated, employee.ToResponse())
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.PathID(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	employee, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, employee.ToResponse())
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.PathID(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var dto UpdateEmployeeDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	employee, err := h.Service.UpdateEmployee(r.Context(), id, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, employee.ToResponse())
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.PathID(r)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	if err := h.Service.DeleteEmployee(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteNoContent(w)
}
