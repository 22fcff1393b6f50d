// ABOUTME: Fire-and-forget audit adapter writing entries in a background goroutine
// ABOUTME: Append failures are logged and swallowed so callers never block on auditing

package store

import (
	"context"
	"log/slog"
	"time"
)

// auditWriteTimeout bounds each background audit insert.
const auditWriteTimeout = 5 * time.Second

// AsyncAuditLogger writes audit entries to a SQLiteStore without
// blocking the caller. Each Log call spawns a short-lived goroutine;
// a failed insert is logged and dropped. Request handling never
// depends on a log record landing.
type AsyncAuditLogger struct {
	store  *SQLiteStore
	logger *slog.Logger
}

// NewAsyncAuditLogger creates an async audit logger backed by the store.
func NewAsyncAuditLogger(store *SQLiteStore, logger *slog.Logger) *AsyncAuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncAuditLogger{store: store, logger: logger}
}

// Log appends one audit entry in the background.
func (a *AsyncAuditLogger) Log(instance, source, level string, detail map[string]any) {
	entry := &AuditEntry{
		Instance: instance,
		Source:   source,
		Level:    level,
		Detail:   detail,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		defer cancel()
		if err := a.store.AppendAuditLog(ctx, entry); err != nil {
			a.logger.Warn("failed to append audit entry",
				"instance", instance,
				"source", source,
				"error", err,
			)
		}
	}()
}
