// Package mcp implements the multi-tenant Model Context Protocol server.
//
// # Overview
//
// MCP (Model Context Protocol) is a standard for AI tool integration. This
// package provides an MCP-compatible HTTP server that exposes a document
// search tool and browsable rag:// resources to external AI clients, scoped
// per tenant instance.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0 over plain HTTP POST. Every method is
// reachable two ways: through the generic per-instance endpoint, which routes
// on the JSON-RPC method field, and through a dedicated per-method path.
//
//   - POST /_v/rag_server/v1/mcp/{instance} - generic JSON-RPC router
//   - POST /_v/rag_server/v1/mcp/{instance}/initialize
//   - POST /_v/rag_server/v1/mcp/{instance}/tools/list
//   - POST /_v/rag_server/v1/mcp/{instance}/tools/call
//   - POST /_v/rag_server/v1/mcp/{instance}/resources/list
//   - POST /_v/rag_server/v1/mcp/{instance}/resources/read
//   - POST /_v/rag_server/v1/mcp/{instance}/notifications/initialized
//   - POST /_v/rag_server/v1/mcp/{instance}/handshake
//
// Each method accepts both its bare spelling ("tools/list") and an
// "mcp/"-prefixed spelling ("mcp/tools/list"). Matching is exact and
// case-sensitive; anything else is -32601.
//
// # Request Pipeline
//
// Every request moves through a fixed pipeline: envelope validation
// (jsonrpc must be "2.0", a request must carry a non-null id), method
// resolution, the tenant gate for tenant-scoped methods, then
// method-specific parameter validation and execution. The gate rejects
// missing tenants with "RAG server not found" and disabled ones with
// "RAG server is disabled for this instance", both -32000 over HTTP 403,
// before any parameter is inspected.
//
// # Tool Discovery
//
// tools/list returns the search_documents tool. Its input schema is built
// from the tenant's search settings: disabled filter fields are omitted
// entirely, and the limit property carries the tenant's default and
// maximum. Clients therefore never see a knob the tenant has turned off.
//
// # Resources
//
// resources/list advertises fixed rag:// resources (all documents,
// categories, tags) plus one resource per category and up to ten tag
// resources. resources/read resolves those URIs; unknown or malformed ones
// return -32601 "Resource not found".
//
// # Errors
//
// Handler failures are mapped onto the JSON-RPC error surface in one place
// (errmap.go). Domain errors carry an HTTP status which selects both the
// JSON-RPC code and the response status; the originating status is echoed
// in error.data.httpStatusCode.
package mcp
