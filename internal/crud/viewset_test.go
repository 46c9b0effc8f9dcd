package crud_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"

	"github.com/frahmantamala/company-api/internal"
	"github.com/frahmantamala/company-api/internal/core/datamodel/scaffold"
	"github.com/frahmantamala/company-api/internal/core/events"
	"github.com/frahmantamala/company-api/internal/crud"
	"github.com/frahmantamala/company-api/internal/testutil"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

type titleIn struct {
	Title string `json:"title"`
}

func (in *titleIn) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeRequired)
	}
	return nil
}

func (in *titleIn) Bind() (*scaffold.Department, crud.Relations) {
	return &scaffold.Department{Title: strings.TrimSpace(in.Title)}, nil
}

type titlePatch struct {
	Title *string `json:"title"`
}

func (p *titlePatch) Validate() error { return nil }

func (p *titlePatch) Patch(m *scaffold.Department) crud.Relations {
	if p.Title != nil {
		m.Title = *p.Title
	}
	return nil
}

type departmentOut struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type capturePublisher struct {
	mu   sync.Mutex
	seen []*events.RecordChangedEvent
	fail bool
}

func (p *capturePublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("bus closed")
	}
	p.seen = append(p.seen, event.(*events.RecordChangedEvent))
	return nil
}

var _ = Describe("ViewSet", func() {
	var (
		db        *gorm.DB
		router    *chi.Mux
		publisher *capturePublisher
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.NewTestDB()
		Expect(err).NotTo(HaveOccurred())

		publisher = &capturePublisher{}
		vs := crud.NewViewSet("department",
			crud.NewRepository[scaffold.Department](db),
			func(m *scaffold.Department) departmentOut { return departmentOut{ID: m.ID, Title: m.Title} },
			crud.Options{
				Variant:  "scaffold",
				PageSize: 1,
				Events:   publisher,
				Logger:   slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})),
			})

		router = chi.NewRouter()
		router.Route("/departments", crud.AllViews[titleIn, *titleIn, titlePatch, *titlePatch](vs).Mount)
	})

	AfterEach(func() {
		testutil.Close(db)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should run the five views end to end", func() {
		w := do(http.MethodPost, "/departments/", `{"title": " Growth "}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).To(MatchJSON(`{"id": 1, "title": "Growth"}`))

		Expect(do(http.MethodPost, "/departments/", `{"title": "Infra"}`).Code).To(Equal(http.StatusCreated))

		w = do(http.MethodGet, "/departments/?page=2", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"items": [{"id": 2, "title": "Infra"}], "count": 2}`))

		w = do(http.MethodPatch, "/departments/1", `{"title": "Growth 2"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"id": 1, "title": "Growth 2"}`))

		w = do(http.MethodGet, "/departments/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Growth 2"))

		Expect(do(http.MethodDelete, "/departments/1", "").Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodGet, "/departments/1", "").Code).To(Equal(http.StatusNotFound))

		types := make([]string, 0, len(publisher.seen))
		for _, e := range publisher.seen {
			Expect(e.Variant).To(Equal("scaffold"))
			types = append(types, e.EventType())
		}
		Expect(types).To(Equal([]string{"department.created", "department.created", "department.updated", "department.deleted"}))
	})

	It("should answer 404 for zero and negative ids", func() {
		Expect(do(http.MethodGet, "/departments/0", "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodDelete, "/departments/-3", "").Code).To(Equal(http.StatusNotFound))
		Expect(publisher.seen).To(BeEmpty())
	})

	It("should answer 422 for invalid payloads, ids and pages", func() {
		Expect(do(http.MethodPost, "/departments/", `{"title": "  "}`).Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(do(http.MethodPost, "/departments/", `not json`).Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(do(http.MethodPost, "/departments/", `{"title": "Ops"} {"title": "Dup"}`).Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(do(http.MethodGet, "/departments/x", "").Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(do(http.MethodGet, "/departments/?page=-1", "").Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(publisher.seen).To(BeEmpty())
	})

	It("should still answer when publishing fails", func() {
		publisher.fail = true
		Expect(do(http.MethodPost, "/departments/", `{"title": "Growth"}`).Code).To(Equal(http.StatusCreated))
	})
})
