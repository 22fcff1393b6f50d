// Package store provides persistent storage for the RAG gateway using SQLite.
//
// # Architecture
//
// SQLiteStore backs every external collaborator the protocol core
// needs:
//
//   - Document store: predicate search, get-by-id, pagination, upsert
//   - Tenant config store: at most one enabled RAG config per instance
//   - App settings store: tenant-independent settings by app ID
//   - Audit sink: structured fire-and-forget request records
//
// The document store accepts predicates in a small query grammar (see
// predicate.go) and returns raw rows; mapping to domain documents is
// owned by the rag package. One bounded, fingerprint-keyed cache sits
// in front of document queries and is wiped on every write.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Use NewSQLiteStore(":memory:") in tests for a throwaway database.
//
// # Error Handling
//
// Absence is not an error: missing documents, configs and settings
// come back as nil without an error. ErrNotFound is reserved for
// callers that need a sentinel.
package store
