// ABOUTME: JSON-RPC 2.0 and MCP wire types shared by the server and handlers
// ABOUTME: Defines envelopes, protocol error codes and MCP result shapes

package mcp

import "encoding/json"

// Protocol identity advertised by the server.
const (
	serverName        = "rag-gateway"
	serverVersion     = "1.0.0"
	serverDescription = "Model Context Protocol server for document search and retrieval"
	protocolVersion   = "2024-11-05"
)

// MaxRequestBodySize is the maximum allowed size for request bodies (1MB).
const MaxRequestBodySize = 1 << 20

// Request represents a JSON-RPC 2.0 request or notification. ID keeps
// the raw bytes so an absent id (notification) can be told apart from
// an explicit null (invalid).
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC 2.0 response. Exactly one of Result
// and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// JSON-RPC error codes. The -32000 range below the standard block is
// used for domain errors so clients can tell a policy rejection from a
// generic failure.
const (
	codeInvalidRequest  = -32600
	codeMethodNotFound  = -32601
	codeInvalidParams   = -32602
	codeInternalError   = -32603
	codeServerForbidden = -32000
	codeUnauthorized    = -32001
	codeTooManyRequests = -32002
)

// ToolInfo describes one tool in a tools/list result.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// ToolsListResult is the result for tools/list.
type ToolsListResult struct {
	Tools []ToolInfo `json:"tools"`
}

// ToolsCallParams are the params for tools/call.
type ToolsCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Content is one content block in a tools/call result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ToolsCallResult is the result for tools/call.
type ToolsCallResult struct {
	Content []Content `json:"content"`
}

// ResourceInfo describes one resource in a resources/list result.
type ResourceInfo struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
}

// ResourcesListResult is the result for resources/list.
type ResourcesListResult struct {
	Resources []ResourceInfo `json:"resources"`
}

// ResourcesReadParams are the params for resources/read.
type ResourcesReadParams struct {
	URI string `json:"uri"`
}

// ResourceContent is one content block in a resources/read result.
type ResourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// ResourcesReadResult is the result for resources/read.
type ResourcesReadResult struct {
	Contents []ResourceContent `json:"contents"`
}

// InitializeResult is the result for initialize.
type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      ServerInfo     `json:"serverInfo"`
}

// ServerInfo identifies this server in initialize and handshake results.
type ServerInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// HandshakeParams are the params for handshake.
type HandshakeParams struct {
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

// HandshakeResult is the result for handshake.
type HandshakeResult struct {
	Version      string     `json:"version"`
	Capabilities []string   `json:"capabilities"`
	Compatible   bool       `json:"compatible"`
	ServerInfo   ServerInfo `json:"serverInfo"`
}
