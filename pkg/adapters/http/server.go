package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/conform/pkg/ports"
	"github.com/aretw0/conform/pkg/registry"
	"github.com/aretw0/conform/pkg/schema"
	"github.com/aretw0/conform/pkg/schemadoc"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// RequestIDHeader carries the request id, echoed back or generated.
const RequestIDHeader = "X-Request-Id"

//go:embed openapi.yaml
var openAPISpec []byte

// OpenAPISpec returns the OpenAPI description of the API.
func OpenAPISpec() []byte {
	return openAPISpec
}

// Registry is the part of *registry.Registry the server needs.
type Registry interface {
	Put(ctx context.Context, name string, doc []byte) (schema.Schema, error)
	Document(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
	Names(ctx context.Context) ([]string, error)
	Validate(ctx context.Context, name string, value any) (schema.Result, error)
}

// Server serves the schema registry over HTTP.
type Server struct {
	Registry Registry
	Logger   *slog.Logger

	metrics *metrics
	gather  prometheus.Gatherer
}

type Option func(*Server)

// WithLogger sets the request logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics registers the server metrics on reg and serves reg at /metrics.
// Without it a private registry is used.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.metrics = newMetrics(reg)
		s.gather = reg
	}
}

// NewHandler creates a new HTTP handler for the registry.
func NewHandler(reg Registry, opts ...Option) http.Handler {
	server := &Server{
		Registry: reg,
		Logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.metrics == nil {
		promReg := prometheus.NewRegistry()
		server.metrics = newMetrics(promReg)
		server.gather = promReg
	}

	r := chi.NewRouter()
	r.Use(server.requestID)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openAPISpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Get("/health", server.GetHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(server.gather, promhttp.HandlerOpts{}))

	r.Route("/schemas", func(r chi.Router) {
		r.Get("/", server.ListSchemas)
		r.Get("/{name}", server.GetSchema)
		r.Put("/{name}", server.PutSchema)
		r.Delete("/{name}", server.DeleteSchema)
		r.Post("/{name}/validate", server.ValidateValue)
	})
	return r
}

type requestIDKey struct{}

// RequestID returns the id assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		s.Logger.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "request_id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>conform API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

// SchemaList is the body of GET /schemas.
type SchemaList struct {
	Schemas []string `json:"schemas"`
}

// ValidationResponse is the body of POST /schemas/{name}/validate.
type ValidationResponse struct {
	Valid   bool           `json:"valid"`
	Message string         `json:"message,omitempty"`
	Issues  []schema.Issue `json:"issues,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.Logger.Error("Response encode failed", "error", err)
	}
}

// writeError maps registry errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var docErr *schemadoc.DocumentError
	switch {
	case errors.Is(err, ports.ErrSchemaNotFound):
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, registry.ErrInvalidName):
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &docErr):
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid schema document", Problems: docErr.Problems})
	default:
		s.Logger.Error("Request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListSchemas handles GET /schemas.
func (s *Server) ListSchemas(w http.ResponseWriter, r *http.Request) {
	names, err := s.Registry.Names(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, SchemaList{Schemas: names})
}

// GetSchema handles GET /schemas/{name}.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Registry.Document(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(doc)
}

// PutSchema handles PUT /schemas/{name}.
func (s *Server) PutSchema(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	name := chi.URLParam(r, "name")
	if _, err := s.Registry.Put(r.Context(), name, body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Logger.Info("Schema stored", "schema", name, "request_id", RequestID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSchema handles DELETE /schemas/{name}.
func (s *Server) DeleteSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.Registry.Delete(r.Context(), name); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Logger.Info("Schema deleted", "schema", name, "request_id", RequestID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// ValidateValue handles POST /schemas/{name}/validate.
func (s *Server) ValidateValue(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.UseNumber()
	var value any
	err := dec.Decode(&value)
	if err == nil {
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errors.New("unexpected data after the JSON value")
		}
	}
	if err != nil {
		s.Logger.Warn("ValidateValue: Invalid request body", "error", err, "request_id", RequestID(r.Context()))
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	start := time.Now()
	res, err := s.Registry.Validate(r.Context(), name, value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.observe(name, res.Success(), time.Since(start))

	resp := ValidationResponse{Valid: res.Success()}
	if !res.Success() {
		resp.Message = res.Description()
		resp.Issues = schema.Issues(res.Err())
	}
	s.writeJSON(w, http.StatusOK, resp)
}
