package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/conform"
	"github.com/aretw0/conform/pkg/ports"
	"github.com/aretw0/conform/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SchemasURI is the resource listing the stored schema names.
const SchemasURI = "conform://schemas"

// Registry is the part of *registry.Registry the MCP server needs.
type Registry interface {
	Document(ctx context.Context, name string) ([]byte, error)
	Names(ctx context.Context) ([]string, error)
	Validate(ctx context.Context, name string, value any) (schema.Result, error)
}

// ValidateArgs are the arguments of the validate tool.
type ValidateArgs struct {
	Schema string `json:"schema"`
	Value  string `json:"value"`
}

// ValidateResponse aligns with the HTTP validation response.
type ValidateResponse struct {
	Valid   bool           `json:"valid" jsonschema_description:"Whether the value conforms to the schema"`
	Message string         `json:"message,omitempty" jsonschema_description:"Flattened error description"`
	Issues  []schema.Issue `json:"issues,omitempty" jsonschema_description:"Errors addressed by JSON Pointer"`
}

// SchemaList is the result of the list_schemas tool.
type SchemaList struct {
	Schemas []string `json:"schemas" jsonschema_description:"Stored schema names in ascending order"`
}

// Server exposes the schema registry as an MCP Server.
type Server struct {
	registry  Registry
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(registry Registry) *Server {
	s := &Server{
		registry:  registry,
		mcpServer: server.NewMCPServer("conform-mcp", strings.TrimSpace(conform.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	validateTool := mcp.NewTool("validate",
		mcp.WithDescription("Validate a JSON value against a stored schema."),
		mcp.WithString("schema", mcp.Required(), mcp.Description("Name of the stored schema")),
		mcp.WithString("value", mcp.Required(), mcp.Description("The value to check, encoded as JSON")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	listTool := mcp.NewTool("list_schemas",
		mcp.WithDescription("List the names of the stored schemas."),
		mcp.WithOutputSchema[SchemaList](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListSchemas))

	s.mcpServer.AddTool(mcp.NewTool("get_schema",
		mcp.WithDescription("Get the document of a stored schema."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the stored schema")),
	), s.handleGetSchema)
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args ValidateArgs) (ValidateResponse, error) {
	dec := json.NewDecoder(strings.NewReader(args.Value))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return ValidateResponse{}, fmt.Errorf("value is not valid JSON: %w", err)
	}

	res, err := s.registry.Validate(ctx, args.Schema, value)
	if err != nil {
		return ValidateResponse{}, err
	}
	if res.Success() {
		return ValidateResponse{Valid: true}, nil
	}
	slog.Debug("MCP Validate: value rejected", "schema", args.Schema, "message", res.Description())
	return ValidateResponse{
		Valid:   false,
		Message: res.Description(),
		Issues:  schema.Issues(res.Err()),
	}, nil
}

func (s *Server) handleListSchemas(ctx context.Context, request mcp.CallToolRequest, _ map[string]any) (SchemaList, error) {
	names, err := s.registry.Names(ctx)
	if err != nil {
		return SchemaList{}, err
	}
	if names == nil {
		names = []string{}
	}
	return SchemaList{Schemas: names}, nil
}

func (s *Server) handleGetSchema(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.registry.Document(ctx, name)
	if errors.Is(err, ports.ErrSchemaNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("schema %q not found", name)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get schema failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(doc)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(SchemasURI, "Stored Schemas",
		mcp.WithMIMEType("application/json"),
	), s.readSchemas)
}

func (s *Server) readSchemas(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	list, err := s.handleListSchemas(ctx, mcp.CallToolRequest{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	jsonBytes, _ := json.Marshal(list)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      SchemasURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
