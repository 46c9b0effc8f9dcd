package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/company-api/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testSpec = `
openapi: 3.0.3
info:
  title: test
  version: "1"
paths:
  /api/v1/things:
    get:
      parameters:
        - name: page
          in: query
          schema:
            type: integer
            minimum: 1
      responses:
        "200":
          description: ok
  /api/v1/things/{id}:
    parameters:
      - name: id
        in: path
        required: true
        schema:
          type: integer
          minimum: 1
    get:
      responses:
        "200":
          description: ok
`

var _ = Describe("OpenAPIValidator", func() {
	var (
		handler http.Handler
		reached bool
	)

	BeforeEach(func() {
		reached = false
		validator, err := NewOpenAPIValidator([]byte(testSpec), quietLogger())
		Expect(err).NotTo(HaveOccurred())

		handler = validator.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		}))
	})

	serve := func(method, target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
		return rec
	}

	It("should reject a malformed document", func() {
		_, err := NewOpenAPIValidator([]byte("openapi: ["), quietLogger())
		Expect(err).To(HaveOccurred())
	})

	DescribeTable("should pass valid requests through",
		func(method, target string) {
			rec := serve(method, target)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(reached).To(BeTrue())
		},
		Entry("collection", http.MethodGet, "/api/v1/things"),
		Entry("collection with a trailing slash", http.MethodGet, "/api/v1/things/?page=2"),
		Entry("item", http.MethodGet, "/api/v1/things/7"),
		Entry("undocumented path", http.MethodGet, "/api/v1/other/abc"),
		Entry("undocumented method", http.MethodDelete, "/api/v1/things/abc"),
	)

	DescribeTable("should answer 422 without reaching the handler",
		func(target, field, code string) {
			rec := serve(http.MethodGet, target)
			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(reached).To(BeFalse())

			var body struct {
				Error struct {
					Code    string `json:"code"`
					Details struct {
						Errors []struct {
							Field string `json:"field"`
							Code  string `json:"code"`
						} `json:"errors"`
					} `json:"details"`
				} `json:"error"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Error.Code).To(Equal("VALIDATION_FAILED"))
			Expect(body.Error.Details.Errors).To(HaveLen(1))
			Expect(body.Error.Details.Errors[0].Field).To(Equal(field))
			Expect(body.Error.Details.Errors[0].Code).To(Equal(code))
		},
		Entry("text id", "/api/v1/things/abc", "id", "INVALID_ID"),
		Entry("zero id", "/api/v1/things/0", "id", "INVALID_ID"),
		Entry("text page", "/api/v1/things?page=x", "page", "INVALID_PAGE"),
		Entry("negative page", "/api/v1/things?page=-1", "page", "INVALID_PAGE"),
	)
})

var _ = Describe("RecoveryMiddleware", func() {
	It("should turn a panic into a 500 envelope", func() {
		handler := RecoveryMiddleware(quietLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).To(ContainSubstring("INTERNAL_ERROR"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("boom"))
	})

	It("should let http.ErrAbortHandler through", func() {
		handler := RecoveryMiddleware(quietLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		Expect(func() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		}).To(PanicWith(http.ErrAbortHandler))
	})
})

var _ = Describe("RequestID", func() {
	It("should attach the id to the request scoped logger", func() {
		var buf bytes.Buffer
		base := slog.New(slog.NewJSONHandler(&buf, nil))

		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.From(r.Context()).Info("inside")
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(logger.Attach(req.Context(), base))
		req.Header.Set(RequestIDHeader, "abc-123")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		Expect(buf.String()).To(ContainSubstring(`"request_id":"abc-123"`))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("should mask credentials and keep the body readable downstream", func() {
		var buf bytes.Buffer
		base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		var seen string
		handler := LoggingMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			seen = string(b)
			w.WriteHeader(http.StatusCreated)
		}))

		body := `{"first_name":"Bob","password":"hunter2"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/basic/employees/", strings.NewReader(body))
		req = req.WithContext(logger.Attach(req.Context(), base))
		req.Header.Set("Authorization", "Bearer supersecret:1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(seen).To(Equal(body))

		logged := buf.String()
		Expect(logged).NotTo(ContainSubstring("supersecret:1"))
		Expect(logged).NotTo(ContainSubstring("hunter2"))
		Expect(logged).To(ContainSubstring("Bob"))
		Expect(logged).To(ContainSubstring(`"status_code":201`))
	})

	It("should summarize bodies that are not JSON", func() {
		Expect(filterSensitiveBody([]byte("plain text"))).To(Equal("[non-JSON body]"))
		Expect(filterSensitiveBody(nil)).To(BeEmpty())
	})

	It("should mask nested sensitive keys", func() {
		out := filterSensitiveJSON(map[string]interface{}{
			"items": []interface{}{map[string]interface{}{"api_key": "k", "title": "t"}},
		})
		items := out.(map[string]interface{})["items"].([]interface{})
		Expect(items[0]).To(HaveKeyWithValue("api_key", "[FILTERED]"))
		Expect(items[0]).To(HaveKeyWithValue("title", "t"))
	})
})
