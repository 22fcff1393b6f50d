// ABOUTME: Document table operations implementing the rag.DocumentStore contract
// ABOUTME: Predicate search with pagination, get-by-id, and upsert for ingestion

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Document is the persisted document record.
type Document struct {
	ID        string
	Title     string
	Content   string
	URL       string
	Category  string
	Tags      []string
	Author    string
	Enabled   bool
	Summary   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const documentColumns = "id, title, content, url, category, tags, author, enabled, summary"

// SearchDocuments runs a predicate query against the documents table
// and returns one page of raw rows, ordered by title then id. The
// predicate uses the grammar described in predicate.go. Results for a
// given (predicate, page, pageSize) triple are served from the bounded
// query cache until the next write.
func (s *SQLiteStore) SearchDocuments(ctx context.Context, where string, page, pageSize int) ([]map[string]any, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	fingerprint := fmt.Sprintf("%s|%d|%d", where, page, pageSize)
	if rows, ok := s.cache.get(fingerprint); ok {
		return rows, nil
	}

	whereSQL, args, err := translatePredicate(where)
	if err != nil {
		return nil, fmt.Errorf("parsing predicate: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM documents WHERE %s ORDER BY title, id LIMIT ? OFFSET ?",
		documentColumns, whereSQL,
	)
	args = append(args, pageSize, (page-1)*pageSize)

	dbRows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer func() { _ = dbRows.Close() }()

	results := []map[string]any{}
	for dbRows.Next() {
		row, err := scanDocumentRow(dbRows)
		if err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	if err := dbRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	s.cache.put(fingerprint, results)
	return results, nil
}

// GetDocument fetches a single document row by ID. A missing document
// returns (nil, nil).
func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (map[string]any, error) {
	query := fmt.Sprintf("SELECT %s FROM documents WHERE id = ?", documentColumns)
	row, err := scanDocumentRow(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

// PutDocument inserts or updates a document. A missing ID gets a fresh
// UUID. Any write invalidates the query cache.
func (s *SQLiteStore) PutDocument(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshaling tags: %w", err)
	}

	query := `
		INSERT INTO documents (id, title, content, url, category, tags, author, enabled, summary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			url = excluded.url,
			category = excluded.category,
			tags = excluded.tags,
			author = excluded.author,
			enabled = excluded.enabled,
			summary = excluded.summary,
			updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		doc.ID,
		doc.Title,
		doc.Content,
		doc.URL,
		doc.Category,
		string(tagsJSON),
		doc.Author,
		boolToInt(doc.Enabled),
		doc.Summary,
		doc.CreatedAt.Format(time.RFC3339),
		doc.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	s.cache.clear()
	s.logger.Debug("document stored", "id", doc.ID, "title", doc.Title)
	return nil
}

// scanDocumentRow scans one document row into the raw map shape the
// document service consumes.
func scanDocumentRow(scanner interface{ Scan(dest ...any) error }) (map[string]any, error) {
	var (
		id, title, category, tagsJSON string
		content, url, author, summary sql.NullString
		enabled                       int64
	)
	if err := scanner.Scan(&id, &title, &content, &url, &category, &tagsJSON, &author, &enabled, &summary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	var tags []string
	if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
		return nil, fmt.Errorf("unmarshaling tags: %w", err)
	}

	return map[string]any{
		"id":       id,
		"title":    title,
		"content":  content.String,
		"url":      url.String,
		"category": category,
		"tags":     tags,
		"author":   author.String,
		"enabled":  enabled != 0,
		"summary":  summary.String,
	}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
