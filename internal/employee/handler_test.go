package employee_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/company-api/internal/core/datamodel/basic"
	"github.com/frahmantamala/company-api/internal/employee"
	employeePostgres "github.com/frahmantamala/company-api/internal/employee/postgres"
	"github.com/frahmantamala/company-api/internal/testutil"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Employee Handler Integration", func() {
	var (
		db         *gorm.DB
		router     *chi.Mux
		growth     basic.Department
		projectOne basic.Project
		projectTwo basic.Project
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.NewTestDB()
		Expect(err).NotTo(HaveOccurred())

		growth = basic.Department{Title: "Growth"}
		Expect(db.Create(&growth).Error).To(Succeed())
		projectOne = basic.Project{Title: "Growth Project", DepartmentID: growth.ID}
		Expect(db.Create(&projectOne).Error).To(Succeed())
		projectTwo = basic.Project{Title: "Second Project", DepartmentID: growth.ID}
		Expect(db.Create(&projectTwo).Error).To(Succeed())

		repo := employeePostgres.NewEmployeeRepository(db)
		service := employee.NewService(repo, nil, quietLogger())
		handler := employee.NewHandler(service, 2)

		router = chi.NewRouter()
		router.Route("/employees", handler.Routes)
	})

	AfterEach(func() {
		testutil.Close(db)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var reader *bytes.Reader
		if body == "" {
			reader = bytes.NewReader(nil)
		} else {
			reader = bytes.NewReader([]byte(body))
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) employee.EmployeeResponse {
		var resp employee.EmployeeResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		return resp
	}

	create := func(body string) employee.EmployeeResponse {
		w := do(http.MethodPost, "/employees/", body)
		Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())
		return decode(w)
	}

	It("should store exactly the requested projects and read them back", func() {
		body := fmt.Sprintf(`{"first_name": "A", "last_name": "B", "project_ids": [%d, %d]}`, projectTwo.ID, projectOne.ID)
		created := create(body)
		Expect(created.ProjectIDs).To(Equal([]int64{projectOne.ID, projectTwo.ID}))

		w := do(http.MethodGet, fmt.Sprintf("/employees/%d", created.ID), "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w).ProjectIDs).To(ConsistOf(projectOne.ID, projectTwo.ID))
	})

	It("should clear projects on PATCH with an empty list", func() {
		created := create(fmt.Sprintf(`{"first_name": "A", "last_name": "B", "project_ids": [%d, %d]}`, projectOne.ID, projectTwo.ID))

		w := do(http.MethodPatch, fmt.Sprintf("/employees/%d", created.ID), `{"project_ids": []}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"project_ids":[]`))

		var count int64
		Expect(db.Table("basic_employee_projects").Where("employee_id = ?", created.ID).Count(&count).Error).To(Succeed())
		Expect(count).To(BeZero())
	})

	It("should leave every other field alone when only last_name is patched", func() {
		body := fmt.Sprintf(`{"first_name": "Bob", "last_name": "Smith", "department_id": %d, "birthdate": "1990-04-01", "project_ids": [%d]}`,
			growth.ID, projectOne.ID)
		created := create(body)

		w := do(http.MethodPatch, fmt.Sprintf("/employees/%d", created.ID), `{"last_name": "Jones"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		updated := decode(w)
		Expect(updated.LastName).To(Equal("Jones"))
		Expect(updated.FirstName).To(Equal("Bob"))
		Expect(updated.DepartmentID).To(HaveValue(Equal(growth.ID)))
		Expect(updated.Birthdate).To(HaveValue(Equal("1990-04-01")))
		Expect(updated.ProjectIDs).To(Equal([]int64{projectOne.ID}))
	})

	It("should trim surrounding whitespace from names", func() {
		created := create(`{"first_name": "  Ada ", "last_name": " Lovelace  "}`)
		Expect(created.FirstName).To(Equal("Ada"))
		Expect(created.LastName).To(Equal("Lovelace"))
		Expect(created.DepartmentID).To(BeNil())
		Expect(created.Birthdate).To(BeNil())
		Expect(created.ProjectIDs).To(BeEmpty())
	})

	It("should answer 404 for a missing employee", func() {
		Expect(do(http.MethodGet, "/employees/999", "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodDelete, "/employees/999", "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodPatch, "/employees/999", `{"last_name": "X"}`).Code).To(Equal(http.StatusNotFound))
	})

	DescribeTable("should answer 404 for ids no row can carry",
		func(method, id, body string) {
			Expect(do(method, "/employees/"+id, body).Code).To(Equal(http.StatusNotFound))
		},
		Entry("get zero", http.MethodGet, "0", ``),
		Entry("patch zero", http.MethodPatch, "0", `{"last_name": "X"}`),
		Entry("delete negative", http.MethodDelete, "-1", ``),
	)

	It("should accept a body followed only by whitespace", func() {
		created := create("{\"first_name\": \"A\", \"last_name\": \"B\"}\n\t ")
		Expect(created.FirstName).To(Equal("A"))
	})

	It("should delete an employee with an empty 204", func() {
		created := create(fmt.Sprintf(`{"first_name": "A", "last_name": "B", "project_ids": [%d]}`, projectOne.ID))

		w := do(http.MethodDelete, fmt.Sprintf("/employees/%d", created.ID), "")
		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Body.Len()).To(BeZero())

		Expect(do(http.MethodGet, fmt.Sprintf("/employees/%d", created.ID), "").Code).To(Equal(http.StatusNotFound))

		var count int64
		Expect(db.Table("basic_employee_projects").Count(&count).Error).To(Succeed())
		Expect(count).To(BeZero())
	})

	DescribeTable("should reject invalid input with 422",
		func(method, path, body string) {
			w := do(method, path, body)
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity), w.Body.String())
			Expect(w.Body.String()).To(ContainSubstring(`"error"`))
		},
		Entry("missing last_name", http.MethodPost, "/employees/", `{"first_name": "A"}`),
		Entry("name too long", http.MethodPost, "/employees/", fmt.Sprintf(`{"first_name": "%0101d", "last_name": "B"}`, 0)),
		Entry("unknown project", http.MethodPost, "/employees/", `{"first_name": "A", "last_name": "B", "project_ids": [4242]}`),
		Entry("unknown department", http.MethodPost, "/employees/", `{"first_name": "A", "last_name": "B", "department_id": 4242}`),
		Entry("wrong type", http.MethodPost, "/employees/", `{"first_name": 1, "last_name": "B"}`),
		Entry("malformed json", http.MethodPost, "/employees/", `{"first_name":`),
		Entry("empty body", http.MethodPost, "/employees/", ``),
		Entry("trailing data after the object", http.MethodPost, "/employees/", `{"first_name": "A", "last_name": "B"} trailing`),
		Entry("two objects", http.MethodPost, "/employees/", `{"first_name": "A", "last_name": "B"}{}`),
		Entry("page past the offset range", http.MethodGet, "/employees/?page=9223372036854775807", ``),
		Entry("non-numeric id", http.MethodGet, "/employees/abc", ``),
		Entry("bad page", http.MethodGet, "/employees/?page=zero", ``),
	)

	It("should paginate with a fixed page size", func() {
		for i := 0; i < 3; i++ {
			create(fmt.Sprintf(`{"first_name": "E%d", "last_name": "L"}`, i))
		}

		w := do(http.MethodGet, "/employees/", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var first struct {
			Items []employee.EmployeeResponse `json:"items"`
			Count int64                       `json:"count"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&first)).To(Succeed())
		Expect(first.Count).To(Equal(int64(3)))
		Expect(first.Items).To(HaveLen(2))
		Expect(first.Items[0].FirstName).To(Equal("E0"))

		w = do(http.MethodGet, "/employees/?page=2", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"count":3`))
		Expect(w.Body.String()).To(ContainSubstring(`"first_name":"E2"`))

		w = do(http.MethodGet, "/employees/?page=9", "")
		Expect(w.Body.String()).To(ContainSubstring(`"items":[]`))
	})
})
