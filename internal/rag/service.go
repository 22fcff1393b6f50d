// ABOUTME: Document service implementing search, listing and enumeration operations
// ABOUTME: Applies tenant policy, builds store queries and maps raw rows to Documents

package rag

import (
	"context"
	"log/slog"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// enumerationScanSize bounds the number of enabled documents scanned
// when collecting distinct categories or tags.
const enumerationScanSize = 1000

// DocumentStore is the queryable document collection the service runs
// against. Search takes a predicate in the store's query grammar and
// returns raw rows; the service owns the mapping to Document.
type DocumentStore interface {
	SearchDocuments(ctx context.Context, where string, page, pageSize int) ([]map[string]any, error)
	GetDocument(ctx context.Context, id string) (map[string]any, error)
}

// collator sorts enumeration results with locale-aware comparison.
var collator = collate.New(language.Und)

// Service executes document operations for a single request, scoped to
// one tenant's configuration. It holds no cross-request state.
type Service struct {
	store  DocumentStore
	config *TenantConfig
	logger *slog.Logger
}

// NewService creates a document service bound to the given tenant
// configuration. A nil config means no tenant policy is applied.
func NewService(store DocumentStore, config *TenantConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, config: config, logger: logger}
}

// Search runs a filtered document search. Tenant policy is applied to
// the parameters first, then the query is built and one page fetched.
// HasMore is approximate: it is true whenever the page came back full.
func (s *Service) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	configured := ApplyTenantPolicy(params, s.config)

	where := BuildSearchQuery(configured)
	limit := configured.Limit
	if limit == 0 {
		limit = DefaultSearchLimit
	}
	limit = min(limit, MaxSearchLimit)
	page := configured.Offset/limit + 1

	rows, err := s.store.SearchDocuments(ctx, where, page, limit)
	if err != nil {
		s.logger.Error("document search failed", "where", where, "error", err)
		return nil, &Error{Message: "Failed to search documents", Err: err}
	}

	documents := mapRows(rows)
	return &SearchResult{
		Documents: documents,
		Total:     len(documents),
		HasMore:   len(documents) == limit,
	}, nil
}

// ListDocuments returns one page of all enabled documents, ignoring
// every filter except enabled=true.
func (s *Service) ListDocuments(ctx context.Context, page, pageSize int) (*SearchResult, error) {
	rows, err := s.store.SearchDocuments(ctx, "enabled=true", page, pageSize)
	if err != nil {
		s.logger.Error("document listing failed", "page", page, "error", err)
		return nil, &Error{Message: "Failed to list documents", Err: err}
	}

	documents := mapRows(rows)
	return &SearchResult{
		Documents: documents,
		Total:     len(documents),
		HasMore:   len(documents) == pageSize,
	}, nil
}

// GetDocument fetches a single document by ID. A missing document is
// returned as (nil, nil).
func (s *Service) GetDocument(ctx context.Context, id string) (*Document, error) {
	row, err := s.store.GetDocument(ctx, id)
	if err != nil {
		s.logger.Error("document fetch failed", "id", id, "error", err)
		return nil, &Error{Message: "Failed to retrieve document with ID: " + id, Err: err}
	}
	if row == nil {
		return nil, nil
	}
	doc := docFromRow(row)
	return &doc, nil
}

// Categories returns the distinct non-empty categories of enabled
// documents, sorted ascending with locale-aware comparison.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.store.SearchDocuments(ctx, "enabled=true", 1, enumerationScanSize)
	if err != nil {
		s.logger.Error("category enumeration failed", "error", err)
		return nil, &Error{Message: "Failed to retrieve categories", Err: err}
	}

	seen := make(map[string]bool)
	categories := []string{}
	for _, row := range rows {
		category, _ := row["category"].(string)
		if category == "" || seen[category] {
			continue
		}
		seen[category] = true
		categories = append(categories, category)
	}

	collator.SortStrings(categories)
	return categories, nil
}

// Tags returns the distinct non-empty tags of enabled documents,
// sorted ascending with locale-aware comparison.
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	rows, err := s.store.SearchDocuments(ctx, "enabled=true", 1, enumerationScanSize)
	if err != nil {
		s.logger.Error("tag enumeration failed", "error", err)
		return nil, &Error{Message: "Failed to retrieve tags", Err: err}
	}

	seen := make(map[string]bool)
	tags := []string{}
	for _, row := range rows {
		for _, tag := range rowTags(row) {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	collator.SortStrings(tags)
	return tags, nil
}

func mapRows(rows []map[string]any) []Document {
	documents := make([]Document, len(rows))
	for i, row := range rows {
		documents[i] = docFromRow(row)
	}
	return documents
}

// docFromRow maps one raw store row to the Document shape. Missing
// tags materialize as an empty slice and enabled is coerced to bool
// whatever the row carries.
func docFromRow(row map[string]any) Document {
	return Document{
		ID:       stringField(row, "id"),
		Title:    stringField(row, "title"),
		Content:  stringField(row, "content"),
		URL:      stringField(row, "url"),
		Category: stringField(row, "category"),
		Tags:     rowTags(row),
		Author:   stringField(row, "author"),
		Enabled:  boolField(row, "enabled"),
		Summary:  stringField(row, "summary"),
	}
}

func stringField(row map[string]any, key string) string {
	s, _ := row[key].(string)
	return s
}

func boolField(row map[string]any, key string) bool {
	switch v := row[key].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v == "true" || v == "1"
	default:
		return false
	}
}

func rowTags(row map[string]any) []string {
	switch v := row["tags"].(type) {
	case []string:
		if v == nil {
			return []string{}
		}
		return v
	case []any:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	default:
		return []string{}
	}
}
