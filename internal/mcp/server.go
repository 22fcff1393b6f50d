// ABOUTME: HTTP server carrying JSON-RPC 2.0 for the multi-tenant MCP surface
// ABOUTME: Validates envelopes, gates on tenant config, dispatches and assembles responses

package mcp

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/2389/rag-gateway/internal/rag"
)

// basePath is the URL prefix all MCP endpoints live under.
const basePath = "/_v/rag_server/v1/mcp"

// AuditLogger is the fire-and-forget logging port. Implementations
// must not block the caller; failures are theirs to swallow. The core
// never depends on a log being written.
type AuditLogger interface {
	Log(instance, source, level string, detail map[string]any)
}

// Config holds configuration for the MCP server.
type Config struct {
	Documents rag.DocumentStore
	Configs   rag.ConfigStore
	Settings  rag.SettingsStore // optional; app settings skipped when nil
	Audit     AuditLogger       // optional; auditing skipped when nil
	Logger    *slog.Logger
	AppID     string // application identifier for app settings lookup
}

// Server implements the multi-tenant MCP HTTP endpoints.
type Server struct {
	documents rag.DocumentStore
	configs   rag.ConfigStore
	settings  rag.SettingsStore
	audit     AuditLogger
	logger    *slog.Logger
	appID     string
	handlers  map[method]handlerFunc
}

// NewServer creates a new MCP server with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Documents == nil {
		return nil, errors.New("document store is required")
	}
	if cfg.Configs == nil {
		return nil, errors.New("config store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		documents: cfg.Documents,
		configs:   cfg.Configs,
		settings:  cfg.Settings,
		audit:     cfg.Audit,
		logger:    logger,
		appID:     cfg.AppID,
	}

	// Dispatch table from canonical method to handler, built once.
	// Alias resolution is a separate lookup (methods.go).
	s.handlers = map[method]handlerFunc{
		methodInitialize:    s.handleInitialize,
		methodToolsList:     s.handleToolsList,
		methodToolsCall:     s.handleToolsCall,
		methodResourcesList: s.handleResourcesList,
		methodResourcesRead: s.handleResourcesRead,
		methodHandshake:     s.handleHandshake,
	}

	return s, nil
}

// RegisterRoutes registers the MCP endpoints on the given ServeMux:
// one generic JSON-RPC endpoint per instance plus one endpoint per
// method.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST "+basePath+"/{instance}", s.handleRouter)
	mux.HandleFunc("POST "+basePath+"/{instance}/initialize", s.methodEndpoint(methodInitialize))
	mux.HandleFunc("POST "+basePath+"/{instance}/tools/list", s.methodEndpoint(methodToolsList))
	mux.HandleFunc("POST "+basePath+"/{instance}/tools/call", s.methodEndpoint(methodToolsCall))
	mux.HandleFunc("POST "+basePath+"/{instance}/resources/list", s.methodEndpoint(methodResourcesList))
	mux.HandleFunc("POST "+basePath+"/{instance}/resources/read", s.methodEndpoint(methodResourcesRead))
	mux.HandleFunc("POST "+basePath+"/{instance}/notifications/initialized", s.methodEndpoint(methodInitialized))
	mux.HandleFunc("POST "+basePath+"/{instance}/handshake", s.methodEndpoint(methodHandshake))
	mux.HandleFunc("GET /healthz", s.handleHealth)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// requestState is the typed per-request context passed through the
// pipeline: raw body, parsed envelope, resolved tenant configuration
// and app settings. Constructed fresh per request, discarded after the
// response is written.
type requestState struct {
	instance    string
	raw         []byte
	req         *Request
	tenant      *rag.TenantConfig
	appSettings map[string]any
}

// prepare reads and parses the body and resolves per-request state.
// An unreadable or unparseable body leaves st.req nil, which the
// envelope classifier reports as invalid.
func (s *Server) prepare(r *http.Request) *requestState {
	st := &requestState{instance: r.PathValue("instance")}

	s.auditLog(st.instance, "auth", "info", map[string]any{
		"userAgent": r.UserAgent(),
		"url":       r.URL.Path,
		"method":    r.Method,
		"message":   "Request authenticated",
	})

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err == nil && len(body) > 0 && int64(len(body)) <= MaxRequestBodySize {
		st.raw = body
		var req Request
		if jsonErr := json.Unmarshal(body, &req); jsonErr == nil {
			st.req = &req
		}
	}

	ctx := r.Context()
	st.tenant = rag.ResolveTenantConfig(ctx, s.configs, st.instance, s.logger)

	if s.settings != nil && s.appID != "" {
		settings, err := s.settings.GetAppSettings(ctx, s.appID)
		if err != nil {
			s.logger.Warn("app settings lookup failed", "app_id", s.appID, "error", err)
		} else {
			st.appSettings = settings
		}
	}

	return st
}

// handleRouter is the generic JSON-RPC endpoint: it validates the
// envelope, resolves the method name through the alias table, gates
// tenant-scoped methods and dispatches.
func (s *Server) handleRouter(w http.ResponseWriter, r *http.Request) {
	defer s.recoverToError(w)

	st := s.prepare(r)
	kind := classifyEnvelope(st.req)

	if kind == envelopeInvalid {
		message := "Invalid Request"
		if st.req != nil && st.req.JSONRPC == "2.0" && string(st.req.ID) == "null" {
			message = "Invalid Request: id is required for requests"
		}
		s.writeError(w, echoID(st.req), &protocolError{
			code: codeInvalidRequest, message: message, status: 400,
		})
		return
	}

	m := resolveMethod(st.req.Method)
	if m == methodUnknown {
		s.writeError(w, echoID(st.req), &protocolError{
			code: codeMethodNotFound, message: "Method not found", status: 400,
		})
		return
	}

	s.auditLog(st.instance, "mcpRouter", "debug", map[string]any{
		"method":         st.req.Method,
		"isNotification": kind == envelopeNotification,
		"message":        "Routing MCP request: " + st.req.Method,
	})

	if m.gated() {
		if perr := s.tenantGate(st); perr != nil {
			s.writeError(w, echoID(st.req), perr)
			return
		}
	}

	if m.notification() {
		// True notification: a status code and no body, ever.
		s.auditLog(st.instance, "mcpInitialized", "info", map[string]any{
			"notification": "initialized",
			"message":      "MCP client sent initialized notification",
		})
		w.WriteHeader(http.StatusOK)
		return
	}

	if kind == envelopeNotification {
		// A notification body for a method that must respond.
		s.writeError(w, echoID(st.req), &protocolError{
			code: codeInvalidRequest, message: "Invalid Request: id is required for requests", status: 400,
		})
		return
	}

	s.dispatch(w, r, st, m)
}

// methodEndpoint builds the handler for one per-method endpoint. The
// body's method field must still carry one of the two accepted
// spellings for that method.
func (s *Server) methodEndpoint(m method) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer s.recoverToError(w)

		st := s.prepare(r)
		kind := classifyEnvelope(st.req)

		if m.notification() {
			// The notification endpoint accepts any id state, but the
			// envelope must still be a 2.0 one.
			if st.req == nil || st.req.JSONRPC != "2.0" {
				s.writeError(w, echoID(st.req), &protocolError{
					code: codeInvalidRequest, message: "Invalid Request", status: 400,
				})
				return
			}
		} else if kind != envelopeRequest {
			s.writeError(w, echoID(st.req), &protocolError{
				code: codeInvalidRequest, message: "Invalid Request", status: 400,
			})
			return
		}

		if m.gated() {
			if perr := s.tenantGate(st); perr != nil {
				s.writeError(w, echoID(st.req), perr)
				return
			}
		}

		if resolveMethod(st.req.Method) != m {
			s.writeError(w, echoID(st.req), &protocolError{
				code: codeMethodNotFound, message: "Method not found", status: 400,
			})
			return
		}

		if m.notification() {
			s.auditLog(st.instance, "mcpInitialized", "info", map[string]any{
				"notification": "initialized",
				"message":      "MCP client sent initialized notification",
			})
			w.WriteHeader(http.StatusOK)
			return
		}

		s.dispatch(w, r, st, m)
	}
}

// tenantGate rejects requests for tenants that are missing or
// disabled. It runs after envelope validation and before any
// method-specific validation so a disabled tenant never leaks
// method or parameter details.
func (s *Server) tenantGate(st *requestState) *protocolError {
	if st.tenant == nil {
		return &protocolError{
			code: codeServerForbidden, message: "RAG server not found", status: http.StatusForbidden,
		}
	}
	if !st.tenant.Enabled {
		return &protocolError{
			code: codeServerForbidden, message: "RAG server is disabled for this instance", status: http.StatusForbidden,
		}
	}
	return nil
}

// dispatch runs the handler for a canonical method and assembles the
// response envelope. Handler failures are logged and converted via
// the error mapper; they never propagate un-mapped.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, st *requestState, m method) {
	handler, ok := s.handlers[m]
	if !ok {
		s.writeError(w, echoID(st.req), &protocolError{
			code: codeMethodNotFound, message: "Method not found", status: 400,
		})
		return
	}

	result, err := handler(r.Context(), st)
	if err != nil {
		perr := asProtocolError(err)
		s.logger.Error("MCP handler failed",
			"method", m.String(),
			"instance", st.instance,
			"code", perr.code,
			"error", err,
		)
		s.auditLog(st.instance, "mcpRouter", "error", map[string]any{
			"method":  m.String(),
			"code":    perr.code,
			"message": "Failed to handle MCP request",
		})
		s.writeError(w, st.req.ID, perr)
		return
	}

	s.writeResult(w, st.req.ID, result)
}

// recoverToError turns a handler panic into a well-formed -32603
// envelope instead of a bare HTTP error page.
func (s *Server) recoverToError(w http.ResponseWriter) {
	if rec := recover(); rec != nil {
		s.logger.Error("panic handling MCP request", "panic", rec)
		s.writeError(w, json.RawMessage("null"), &protocolError{
			code: codeInternalError, message: "Internal error", status: 500,
		})
	}
}

func (s *Server) writeResult(w http.ResponseWriter, id json.RawMessage, result any) {
	s.writeResponse(w, http.StatusOK, &Response{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) writeError(w http.ResponseWriter, id json.RawMessage, perr *protocolError) {
	s.writeResponse(w, perr.status, &Response{JSONRPC: "2.0", ID: id, Error: perr.wire()})
}

func (s *Server) writeResponse(w http.ResponseWriter, status int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to write MCP response", "error", err)
	}
}

// auditLog emits one audit record through the fire-and-forget port.
func (s *Server) auditLog(instance, source, level string, detail map[string]any) {
	if s.audit == nil {
		return
	}
	s.audit.Log(instance, source, level, detail)
}
