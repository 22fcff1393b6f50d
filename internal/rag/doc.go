// Package rag implements the document-search domain for the RAG gateway.
//
// # Overview
//
// The package is the policy-enforcement pipeline between the MCP
// protocol layer and the document store:
//
//   - TenantConfig: per-instance policy record (enable flag, allowed
//     categories/tags, search limit settings)
//   - ApplyTenantPolicy: narrows caller search parameters to policy
//   - BuildSearchQuery: translates parameters into the store's
//     predicate grammar
//   - Service: search / list / get / category / tag operations
//
// # Policy Semantics
//
// Tenant policy only ever narrows a request. Limits are clamped to the
// tenant maximum, tags are intersected with the allow-list, and a
// category outside the allow-list drops the category filter. The
// service additionally enforces a hard ceiling of 100 rows per page
// independent of tenant policy.
//
// # Errors
//
// Backend failures are wrapped into *Error with a fixed human message
// per operation ("Failed to search documents", ...). The underlying
// cause is logged, never returned to callers. Error also carries an
// optional HTTP-like status used by the protocol layer's error mapper.
package rag
