// ABOUTME: Tenant configuration and app settings persistence
// ABOUTME: Resolves at most one enabled RAG config per instance

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2389/rag-gateway/internal/rag"
)

// GetConfig returns the tenant configuration for an instance whether
// or not it is enabled, or (nil, nil) when none exists. The primary
// key on instance guarantees at most one configuration per instance.
func (s *SQLiteStore) GetConfig(ctx context.Context, instance string) (*rag.TenantConfig, error) {
	query := `
		SELECT instance, enabled, description, search_settings, allowed_categories, allowed_tags
		FROM rag_configs
		WHERE instance = ?
	`

	var (
		cfg            rag.TenantConfig
		enabled        int64
		description    sql.NullString
		settingsJSON   sql.NullString
		categoriesJSON sql.NullString
		tagsJSON       sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, instance).Scan(
		&cfg.Instance, &enabled, &description, &settingsJSON, &categoriesJSON, &tagsJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying tenant config: %w", err)
	}

	cfg.Enabled = enabled != 0
	cfg.Description = description.String

	if settingsJSON.Valid && settingsJSON.String != "" {
		cfg.SearchSettings = &rag.SearchSettings{}
		if err := json.Unmarshal([]byte(settingsJSON.String), cfg.SearchSettings); err != nil {
			return nil, fmt.Errorf("unmarshaling search settings: %w", err)
		}
	}
	if err := unmarshalStrings(categoriesJSON, &cfg.AllowedCategories); err != nil {
		return nil, fmt.Errorf("unmarshaling allowed categories: %w", err)
	}
	if err := unmarshalStrings(tagsJSON, &cfg.AllowedTags); err != nil {
		return nil, fmt.Errorf("unmarshaling allowed tags: %w", err)
	}

	return &cfg, nil
}

// PutConfig inserts or replaces a tenant configuration.
func (s *SQLiteStore) PutConfig(ctx context.Context, cfg *rag.TenantConfig) error {
	if cfg.Instance == "" {
		return errors.New("instance is required")
	}

	var settingsJSON *string
	if cfg.SearchSettings != nil {
		data, err := json.Marshal(cfg.SearchSettings)
		if err != nil {
			return fmt.Errorf("marshaling search settings: %w", err)
		}
		str := string(data)
		settingsJSON = &str
	}

	categoriesJSON, err := json.Marshal(orEmpty(cfg.AllowedCategories))
	if err != nil {
		return fmt.Errorf("marshaling allowed categories: %w", err)
	}
	tagsJSON, err := json.Marshal(orEmpty(cfg.AllowedTags))
	if err != nil {
		return fmt.Errorf("marshaling allowed tags: %w", err)
	}

	query := `
		INSERT INTO rag_configs (instance, enabled, description, search_settings, allowed_categories, allowed_tags, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(instance) DO UPDATE SET
			enabled = excluded.enabled,
			description = excluded.description,
			search_settings = excluded.search_settings,
			allowed_categories = excluded.allowed_categories,
			allowed_tags = excluded.allowed_tags,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		cfg.Instance,
		boolToInt(cfg.Enabled),
		cfg.Description,
		settingsJSON,
		string(categoriesJSON),
		string(tagsJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting tenant config: %w", err)
	}

	s.logger.Debug("tenant config stored", "instance", cfg.Instance, "enabled", cfg.Enabled)
	return nil
}

// GetAppSettings fetches tenant-independent application settings by
// application identifier. Missing settings are (nil, nil).
func (s *SQLiteStore) GetAppSettings(ctx context.Context, appID string) (map[string]any, error) {
	var settingsJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT settings FROM app_settings WHERE app_id = ?", appID,
	).Scan(&settingsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying app settings: %w", err)
	}

	var settings map[string]any
	if err := json.Unmarshal([]byte(settingsJSON), &settings); err != nil {
		return nil, fmt.Errorf("unmarshaling app settings: %w", err)
	}
	return settings, nil
}

// PutAppSettings inserts or replaces application settings.
func (s *SQLiteStore) PutAppSettings(ctx context.Context, appID string, settings map[string]any) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling app settings: %w", err)
	}

	query := `
		INSERT INTO app_settings (app_id, settings, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(app_id) DO UPDATE SET
			settings = excluded.settings,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, appID, string(data), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("upserting app settings: %w", err)
	}
	return nil
}

func unmarshalStrings(col sql.NullString, dst *[]string) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), dst)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
