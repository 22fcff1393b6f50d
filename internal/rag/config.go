// ABOUTME: Tenant configuration resolver fetching the per-instance config record
// ABOUTME: Lookup failures yield absence rather than an error

package rag

import (
	"context"
	"log/slog"
)

// ConfigStore resolves tenant configurations. GetConfig returns the
// configuration record for the instance whatever its enabled state, or
// (nil, nil) when none exists. The store guarantees at most one
// configuration per instance.
type ConfigStore interface {
	GetConfig(ctx context.Context, instance string) (*TenantConfig, error)
}

// SettingsStore fetches tenant-independent application settings by
// application identifier.
type SettingsStore interface {
	GetAppSettings(ctx context.Context, appID string) (map[string]any, error)
}

// ResolveTenantConfig fetches the configuration for an instance.
// Lookup failures are logged and treated as absence: a tenant the
// resolver cannot see behaves exactly like a tenant that does not
// exist. Absence and enabled=false are first-class states for the
// caller to distinguish, not errors.
func ResolveTenantConfig(ctx context.Context, store ConfigStore, instance string, logger *slog.Logger) *TenantConfig {
	if logger == nil {
		logger = slog.Default()
	}
	if instance == "" {
		return nil
	}

	config, err := store.GetConfig(ctx, instance)
	if err != nil {
		logger.Error("tenant config lookup failed", "instance", instance, "error", err)
		return nil
	}
	return config
}

// Active returns the config when it is enabled, else nil. Search
// policy only ever derives from an enabled configuration.
func (c *TenantConfig) Active() *TenantConfig {
	if c != nil && c.Enabled {
		return c
	}
	return nil
}
