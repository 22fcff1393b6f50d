// ABOUTME: Audit log entity and store methods for request monitoring
// ABOUTME: Records structured per-request entries, appended fire-and-forget

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEntry is a single structured log record. Source names the
// component that emitted it (mcpRouter, mcpToolsCall, auth, ...),
// Level is debug/info/error.
type AuditEntry struct {
	ID        string
	Instance  string
	Source    string
	Level     string
	Detail    map[string]any
	Timestamp time.Time
}

// AppendAuditLog appends an entry to the audit log. Generates ID and
// Timestamp if not set.
func (s *SQLiteStore) AppendAuditLog(ctx context.Context, e *AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	var detailJSON *string
	if e.Detail != nil {
		data, err := json.Marshal(e.Detail)
		if err != nil {
			return fmt.Errorf("marshaling audit detail: %w", err)
		}
		str := string(data)
		detailJSON = &str
	}

	query := `
		INSERT INTO audit_log (audit_id, instance, source, level, detail_json, ts)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.Instance,
		e.Source,
		e.Level,
		detailJSON,
		e.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// normalizeAuditLimit applies default (100) and cap (1000) to audit limit.
func normalizeAuditLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > 1000:
		return 1000
	default:
		return limit
	}
}

// ListAuditLog returns audit entries for an instance, newest first.
// An empty instance matches all instances.
func (s *SQLiteStore) ListAuditLog(ctx context.Context, instance string, limit int) ([]AuditEntry, error) {
	query := `
		SELECT audit_id, instance, source, level, detail_json, ts
		FROM audit_log
		WHERE (? = '' OR instance = ?)
		ORDER BY ts DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, instance, instance, normalizeAuditLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []AuditEntry{}
	for rows.Next() {
		var (
			e          AuditEntry
			detailJSON *string
			tsStr      string
		)
		if err := rows.Scan(&e.ID, &e.Instance, &e.Source, &e.Level, &detailJSON, &tsStr); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.Timestamp, err = time.Parse(time.RFC3339, tsStr)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}
		if detailJSON != nil {
			if err := json.Unmarshal([]byte(*detailJSON), &e.Detail); err != nil {
				return nil, fmt.Errorf("unmarshaling detail: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return entries, nil
}
