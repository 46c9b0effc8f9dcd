package employee_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"

	"github.com/frahmantamala/company-api/internal"
	"github.com/frahmantamala/company-api/internal/core/common/pagination"
	"github.com/frahmantamala/company-api/internal/core/events"
	"github.com/frahmantamala/company-api/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Mock repository for testing
type mockRepository struct {
	employees       map[int64]*employee.Employee
	nextID          int64
	calls           int
	replaceProjects *bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{employees: map[int64]*employee.Employee{}, nextID: 1}
}

func (m *mockRepository) List(ctx context.Context, limit, offset int) ([]*employee.Employee, int64, error) {
	m.calls++
	var out []*employee.Employee
	for id := int64(1); id < m.nextID; id++ {
		if e, ok := m.employees[id]; ok {
			out = append(out, e)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*employee.Employee, error) {
	m.calls++
	e, ok := m.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockRepository) Create(ctx context.Context, e *employee.Employee) error {
	m.calls++
	e.ID = m.nextID
	m.nextID++
	cp := *e
	m.employees[e.ID] = &cp
	return nil
}

func (m *mockRepository) Update(ctx context.Context, e *employee.Employee, replaceProjects bool) error {
	m.calls++
	m.replaceProjects = &replaceProjects
	stored := m.employees[e.ID]
	projects := stored.ProjectIDs
	cp := *e
	if !replaceProjects {
		cp.ProjectIDs = projects
	}
	m.employees[e.ID] = &cp
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	m.calls++
	if _, ok := m.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	return nil
}

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, event.EventType())
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func decodeUpdate(payload string) *employee.UpdateEmployeeDTO {
	var dto employee.UpdateEmployeeDTO
	Expect(json.Unmarshal([]byte(payload), &dto)).To(Succeed())
	return &dto
}

var _ = Describe("Employee Service", func() {
	var (
		repo      *mockRepository
		publisher *recordingPublisher
		service   *employee.Service
		ctx       context.Context
	)

	BeforeEach(func() {
		repo = newMockRepository()
		publisher = &recordingPublisher{}
		service = employee.NewService(repo, publisher, quietLogger())
		ctx = context.Background()
	})

	createBob := func() *employee.Employee {
		dept := int64(3)
		birthdate := "1990-04-01"
		created, err := service.CreateEmployee(ctx, &employee.CreateEmployeeDTO{
			FirstName:    "Bob",
			LastName:     "Smith",
			DepartmentID: &dept,
			Birthdate:    &birthdate,
			ProjectIDs:   []int64{1, 2},
		})
		Expect(err).NotTo(HaveOccurred())
		return created
	}

	Describe("CreateEmployee", func() {
		It("should trim names and keep the requested projects", func() {
			created, err := service.CreateEmployee(ctx, &employee.CreateEmployeeDTO{
				FirstName:  "  Alice ",
				LastName:   "\tDoe\n",
				ProjectIDs: []int64{1, 2},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.FirstName).To(Equal("Alice"))
			Expect(created.LastName).To(Equal("Doe"))
			Expect(created.ProjectIDs).To(ConsistOf(int64(1), int64(2)))
			Expect(created.DepartmentID).To(BeNil())
			Expect(publisher.types).To(Equal([]string{"employee.created"}))
		})

		It("should reject blank names without touching the repository", func() {
			_, err := service.CreateEmployee(ctx, &employee.CreateEmployeeDTO{FirstName: "   ", LastName: "Doe"})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(422))
			Expect(repo.calls).To(Equal(0))
		})

		It("should reject malformed birthdates", func() {
			bad := "01/04/1990"
			_, err := service.CreateEmployee(ctx, &employee.CreateEmployeeDTO{FirstName: "A", LastName: "B", Birthdate: &bad})
			Expect(err).To(MatchError(ContainSubstring("YYYY-MM-DD")))
		})

		It("should default to an empty project list", func() {
			created, err := service.CreateEmployee(ctx, &employee.CreateEmployeeDTO{FirstName: "A", LastName: "B"})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ToResponse().ProjectIDs).To(BeEmpty())
			Expect(created.ToResponse().ProjectIDs).NotTo(BeNil())
		})
	})

	Describe("UpdateEmployee", func() {
		It("should change only last_name when that is all the payload carries", func() {
			bob := createBob()

			updated, err := service.UpdateEmployee(ctx, bob.ID, decodeUpdate(`{"last_name": "Jones"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.LastName).To(Equal("Jones"))
			Expect(updated.FirstName).To(Equal("Bob"))
			Expect(*updated.DepartmentID).To(Equal(int64(3)))
			Expect(updated.ToResponse().Birthdate).To(HaveValue(Equal("1990-04-01")))
			Expect(updated.ProjectIDs).To(ConsistOf(int64(1), int64(2)))
			Expect(*repo.replaceProjects).To(BeFalse())
		})

		It("should clear projects for an explicit empty list", func() {
			bob := createBob()

			updated, err := service.UpdateEmployee(ctx, bob.ID, decodeUpdate(`{"project_ids": []}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ProjectIDs).To(BeEmpty())
			Expect(*repo.replaceProjects).To(BeTrue())
		})

		It("should leave projects alone for a null project list", func() {
			bob := createBob()

			updated, err := service.UpdateEmployee(ctx, bob.ID, decodeUpdate(`{"project_ids": null}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ProjectIDs).To(ConsistOf(int64(1), int64(2)))
			Expect(*repo.replaceProjects).To(BeFalse())
		})

		It("should clear nullable fields sent as null", func() {
			bob := createBob()

			updated, err := service.UpdateEmployee(ctx, bob.ID, decodeUpdate(`{"department_id": null, "birthdate": null}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.DepartmentID).To(BeNil())
			Expect(updated.Birthdate).To(BeNil())
		})

		It("should reject a null first_name", func() {
			bob := createBob()

			_, err := service.UpdateEmployee(ctx, bob.ID, decodeUpdate(`{"first_name": null}`))
			Expect(err).To(MatchError(ContainSubstring("first_name cannot be null")))
		})

		It("should report a missing employee", func() {
			_, err := service.UpdateEmployee(ctx, 99, decodeUpdate(`{"last_name": "X"}`))
			Expect(err).To(MatchError(employee.ErrEmployeeNotFound))
		})

		It("should publish an update event", func() {
			bob := createBob()
			_, err := service.UpdateEmployee(ctx, bob.ID, decodeUpdate(`{"first_name": "Rob"}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(publisher.types).To(Equal([]string{"employee.created", "employee.updated"}))
		})
	})

	Describe("ListEmployees", func() {
		It("should page through employees", func() {
			for i := 0; i < 3; i++ {
				createBob()
			}

			page, err := service.ListEmployees(ctx, pagination.Params{Page: 2, PageSize: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Count).To(Equal(int64(3)))
			Expect(page.Items).To(HaveLen(1))
			Expect(page.Items[0].ID).To(Equal(int64(3)))
		})

		It("should return an empty items array past the end", func() {
			page, err := service.ListEmployees(ctx, pagination.Params{Page: 5, PageSize: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Items).NotTo(BeNil())
			Expect(page.Items).To(BeEmpty())
		})
	})

	Describe("DeleteEmployee", func() {
		It("should delete and publish", func() {
			bob := createBob()
			Expect(service.DeleteEmployee(ctx, bob.ID)).To(Succeed())

			_, err := service.GetEmployee(ctx, bob.ID)
			Expect(err).To(MatchError(employee.ErrEmployeeNotFound))
			Expect(publisher.types).To(ContainElement("employee.deleted"))
		})

		It("should report a missing employee", func() {
			Expect(service.DeleteEmployee(ctx, 42)).To(MatchError(employee.ErrEmployeeNotFound))
		})
	})
})
