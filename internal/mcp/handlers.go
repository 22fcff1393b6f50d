// ABOUTME: Per-method handlers implementing MCP protocol semantics
// ABOUTME: Each handler runs against the typed per-request state

package mcp

import (
	"context"
	"encoding/json"

	"github.com/2389/rag-gateway/internal/rag"
)

// supportedClientVersions are the client protocol versions the
// handshake reports as compatible.
var supportedClientVersions = []string{"1.0.0", protocolVersion}

// serverCapabilities advertised by the handshake.
var serverCapabilities = []string{"resources", "tools", "logging"}

// handlerFunc executes one protocol method. A returned *protocolError
// is written as-is; any other error goes through the error mapper.
type handlerFunc func(ctx context.Context, st *requestState) (any, error)

// service builds the per-request document service, scoped to the
// tenant's enabled configuration (nil when absent or disabled).
func (s *Server) service(st *requestState) *rag.Service {
	return rag.NewService(s.documents, st.tenant.Active(), s.logger)
}

func (s *Server) handleInitialize(ctx context.Context, st *requestState) (any, error) {
	s.auditLog(st.instance, "mcpInitialize", "info", map[string]any{
		"message": "MCP client initialized successfully",
	})
	return &InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: map[string]any{
			"tools":     map[string]any{},
			"resources": map[string]any{},
		},
		ServerInfo: ServerInfo{Name: serverName, Version: serverVersion},
	}, nil
}

func (s *Server) handleHandshake(ctx context.Context, st *requestState) (any, error) {
	params := HandshakeParams{Version: "unknown"}
	if len(st.req.Params) > 0 {
		// Malformed handshake params degrade to the defaults; the
		// handshake itself never fails on them.
		_ = json.Unmarshal(st.req.Params, &params)
		if params.Version == "" {
			params.Version = "unknown"
		}
	}

	compatible := false
	for _, v := range supportedClientVersions {
		if params.Version == v {
			compatible = true
			break
		}
	}

	s.auditLog(st.instance, "handleHandshake", "info", map[string]any{
		"clientVersion": params.Version,
		"compatible":    compatible,
		"message":       "MCP handshake completed",
	})

	return &HandshakeResult{
		Version:      serverVersion,
		Capabilities: serverCapabilities,
		Compatible:   compatible,
		ServerInfo: ServerInfo{
			Name:        serverName,
			Version:     serverVersion,
			Description: serverDescription,
		},
	}, nil
}

func (s *Server) handleToolsList(ctx context.Context, st *requestState) (any, error) {
	tool := buildSearchTool(st.tenant.Active())

	s.auditLog(st.instance, "mcpToolsList", "info", map[string]any{
		"toolsCount": 1,
		"tools":      []string{tool.Name},
		"message":    "MCP tools list retrieved successfully",
	})

	return &ToolsListResult{Tools: []ToolInfo{tool}}, nil
}

func (s *Server) handleToolsCall(ctx context.Context, st *requestState) (any, error) {
	var params ToolsCallParams
	if len(st.req.Params) > 0 {
		if err := json.Unmarshal(st.req.Params, &params); err != nil {
			return nil, &protocolError{
				code:    codeInvalidParams,
				message: "Invalid params: name and arguments are required",
				status:  400,
			}
		}
	}
	if params.Name == "" || len(params.Arguments) == 0 || string(params.Arguments) == "null" {
		return nil, &protocolError{
			code:    codeInvalidParams,
			message: "Invalid params: name and arguments are required",
			status:  400,
		}
	}

	switch params.Name {
	case searchToolName:
		result, err := executeSearchTool(ctx, s.service(st), params.Arguments)
		if err != nil {
			return nil, err
		}
		s.auditLog(st.instance, "mcpToolsCall", "info", map[string]any{
			"toolName": params.Name,
			"message":  "MCP tool call executed successfully",
		})
		return result, nil
	default:
		return nil, &protocolError{
			code:    codeMethodNotFound,
			message: "Unknown tool: " + params.Name,
			status:  400,
		}
	}
}

func (s *Server) handleResourcesList(ctx context.Context, st *requestState) (any, error) {
	resources, err := buildResourceList(ctx, s.service(st))
	if err != nil {
		return nil, err
	}

	s.auditLog(st.instance, "mcpResourcesList", "info", map[string]any{
		"resourcesCount": len(resources),
		"message":        "MCP resources list retrieved successfully",
	})

	return &ResourcesListResult{Resources: resources}, nil
}

func (s *Server) handleResourcesRead(ctx context.Context, st *requestState) (any, error) {
	var params ResourcesReadParams
	if len(st.req.Params) > 0 {
		_ = json.Unmarshal(st.req.Params, &params)
	}
	if params.URI == "" {
		return nil, &protocolError{
			code:    codeInvalidParams,
			message: "Invalid params: uri is required",
			status:  400,
		}
	}

	result, err := readResource(ctx, s.service(st), params.URI)
	if err != nil {
		return nil, err
	}

	s.auditLog(st.instance, "mcpResourcesRead", "info", map[string]any{
		"uri":     params.URI,
		"message": "MCP resource read successfully",
	})

	return result, nil
}
