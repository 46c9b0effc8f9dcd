// Package crud builds list/create/read/update/delete endpoints for a gorm model from a
// request type, an update type and a response type.
package crud

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/company-api/internal/core/common/pagination"
	"github.com/frahmantamala/company-api/internal/core/events"
	"github.com/frahmantamala/company-api/internal/transport"
	"github.com/go-chi/chi"
)

// Binder is a create payload: it validates itself and builds a new model plus the
// relation ids to attach.
type Binder[M Model] interface {
	Validate() error
	Bind() (*M, Relations)
}

// Patcher is an update payload: it validates itself and writes only the fields it carries.
type Patcher[M Model] interface {
	Validate() error
	Patch(m *M) Relations
}

type Options struct {
	Variant  string
	PageSize int
	Events   events.Publisher
	Logger   *slog.Logger
}

// ViewSet binds a repository to a response mapper. Views are built from it with
// ListView, CreateView, ReadView, UpdateView and DeleteView.
type ViewSet[M Model, R any] struct {
	*transport.BaseHandler
	resource string
	variant  string
	repo     *Repository[M]
	response func(*M) R
	pageSize int
	events   events.Publisher
}

func NewViewSet[M Model, R any](resource string, repo *Repository[M], response func(*M) R, opts Options) *ViewSet[M, R] {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	return &ViewSet[M, R]{
		BaseHandler: transport.NewBaseHandler(opts.Logger),
		resource:    resource,
		variant:     opts.Variant,
		repo:        repo,
		response:    response,
		pageSize:    pageSize,
		events:      opts.Events,
	}
}

// Views holds the handlers of one resource. Nil views are not mounted.
type Views struct {
	List   http.HandlerFunc
	Create http.HandlerFunc
	Read   http.HandlerFunc
	Update http.HandlerFunc
	Delete http.HandlerFunc
}

// Mount registers the views on r, relative to the resource root.
func (v Views) Mount(r chi.Router) {
	if v.List != nil {
		r.Get("/", v.List)
	}
	if v.Create != nil {
		r.Post("/", v.Create)
	}
	if v.Read != nil {
		r.Get("/{id}", v.Read)
	}
	if v.Update != nil {
		r.Patch("/{id}", v.Update)
	}
	if v.Delete != nil {
		r.Delete("/{id}", v.Delete)
	}
}

func ListView[M Model, R any](vs *ViewSet[M, R]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, appErr := pagination.FromRequest(r, vs.pageSize)
		if appErr != nil {
			vs.WriteAppError(w, appErr)
			return
		}

		items, count, err := vs.repo.List(r.Context(), params.Limit(), params.Offset())
		if err != nil {
			vs.Logger.Error(vs.resource+" list: failed to list", "error", err)
			vs.HandleServiceError(w, err)
			return
		}

		out := make([]R, len(items))
		for i := range items {
			out[i] = vs.response(&items[i])
		}
		vs.WriteJSON(w, http.StatusOK, pagination.NewPage(out, count))
	}
}

func CreateView[B any, PB interface {
	*B
	Binder[M]
}, M Model, R any](vs *ViewSet[M, R]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body B
		if appErr := vs.DecodeJSON(r, &body); appErr != nil {
			vs.WriteAppError(w, appErr)
			return
		}

		in := PB(&body)
		if err := in.Validate(); err != nil {
			vs.HandleServiceError(w, err)
			return
		}

		m, refs := in.Bind()
		created, err := vs.repo.Create(r.Context(), m, refs)
		if err != nil {
			vs.HandleServiceError(w, err)
			return
		}

		vs.publish(r.Context(), events.ActionCreated, (*created).PrimaryKey())
		vs.WriteJSON(w, http.StatusCreated, vs.response(created))
	}
}

func ReadView[M Model, R any](vs *ViewSet[M, R]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, appErr := vs.PathID(r)
		if appErr != nil {
			vs.WriteAppError(w, appErr)
			return
		}

		m, err := vs.repo.Get(r.Context(), id)
		if err != nil {
			vs.HandleServiceError(w, err)
			return
		}

		vs.WriteJSON(w, http.StatusOK, vs.response(m))
	}
}

func UpdateView[B any, PB interface {
	*B
	Patcher[M]
}, M Model, R any](vs *ViewSet[M, R]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, appErr := vs.PathID(r)
		if appErr != nil {
			vs.WriteAppError(w, appErr)
			return
		}

		var body B
		if appErr := vs.DecodeJSON(r, &body); appErr != nil {
			vs.WriteAppError(w, appErr)
			return
		}

		in := PB(&body)
		if err := in.Validate(); err != nil {
			vs.HandleServiceError(w, err)
			return
		}

		updated, err := vs.repo.Update(r.Context(), id, in.Patch)
		if err != nil {
			vs.HandleServiceError(w, err)
			return
		}

		vs.publish(r.Context(), events.ActionUpdated, id)
		vs.WriteJSON(w, http.StatusOK, vs.response(updated))
	}
}

func DeleteView[M Model, R any](vs *ViewSet[M, R]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, appErr := vs.PathID(r)
		if appErr != nil {
			vs.WriteAppError(w, appErr)
			return
		}

		if err := vs.repo.Delete(r.Context(), id); err != nil {
			vs.HandleServiceError(w, err)
			return
		}

		vs.publish(r.Context(), events.ActionDeleted, id)
		vs.WriteNoContent(w)
	}
}

// AllViews builds the five standard views for vs.
func AllViews[B any, PB interface {
	*B
	Binder[M]
}, U any, PU interface {
	*U
	Patcher[M]
}, M Model, R any](vs *ViewSet[M, R]) Views {
	return Views{
		List:   ListView(vs),
		Create: CreateView[B, PB](vs),
		Read:   ReadView(vs),
		Update: UpdateView[U, PU](vs),
		Delete: DeleteView(vs),
	}
}

func (vs *ViewSet[M, R]) publish(ctx context.Context, action string, id int64) {
	if vs.events == nil {
		return
	}
	event := events.NewRecordChangedEvent(vs.variant, vs.resource, action, id)
	if err := vs.events.Publish(ctx, event); err != nil {
		vs.Logger.Warn(vs.resource+": failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
