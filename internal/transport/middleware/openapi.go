package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/company-api/internal"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// OpenAPIValidator checks path and query parameters against the API document before a
// request reaches its handler. Bodies are left to the handlers, which report per-field errors.
type OpenAPIValidator struct {
	router routers.Router
	logger *slog.Logger
}

// NewOpenAPIValidator loads and validates the document. Paths must be absolute and the
// document must not declare servers, so routes match on the raw request path.
func NewOpenAPIValidator(spec []byte, logger *slog.Logger) (*OpenAPIValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	return &OpenAPIValidator{router: router, logger: logger}, nil
}

func (v *OpenAPIValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := v.router.FindRoute(r)
		if err != nil {
			// unknown routes and methods are answered by chi
			next.ServeHTTP(w, r)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				ExcludeRequestBody: true,
				MultiError:         false,
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}

		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			v.writeError(r.Context(), w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (v *OpenAPIValidator) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed)

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Parameter != nil {
		code := internal.ErrCodeValidationFailed
		switch reqErr.Parameter.Name {
		case "id":
			code = internal.ErrCodeInvalidID
		case "page":
			code = internal.ErrCodeInvalidPage
		}
		appErr = internal.NewValidationFieldError(reqErr.Parameter.Name,
			fmt.Sprintf("%s is invalid", reqErr.Parameter.Name), code)
	}

	v.logger.WarnContext(ctx, "request rejected by openapi validation", "error", err)

	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
