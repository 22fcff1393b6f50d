// ABOUTME: Tests for document persistence and predicate search
// ABOUTME: Runs against an in-memory SQLite database

package store

import (
	"context"
	"testing"

	"github.com/2389/rag-gateway/internal/rag"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:", nil)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedTestDocuments(t *testing.T, s *SQLiteStore) {
	t.Helper()
	docs := []*Document{
		{ID: "d1", Title: "Account setup", Content: "How to set up your account", Category: "Guides", Tags: []string{"install", "account"}, Author: "amy", Enabled: true},
		{ID: "d2", Title: "Billing FAQ", Content: "Answers about invoices", Category: "FAQ", Tags: []string{"billing"}, Author: "bob", Enabled: true},
		{ID: "d3", Title: "Legacy notes", Content: "Old setup instructions", Category: "Guides", Tags: []string{"install"}, Author: "amy", Enabled: false},
		{ID: "d4", Title: "Zebra care", Content: "Nothing to do with setup", Category: "Misc", Tags: []string{}, Author: "carol", Enabled: true},
	}
	for _, doc := range docs {
		if err := s.PutDocument(context.Background(), doc); err != nil {
			t.Fatalf("PutDocument(%s) error = %v", doc.ID, err)
		}
	}
}

func TestPutAndGetDocument(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := &Document{
		Title:    "Hello",
		Content:  "World",
		Category: "FAQ",
		Tags:     []string{"a", "b"},
		Author:   "amy",
		Enabled:  true,
		Summary:  "greeting",
	}
	if err := s.PutDocument(ctx, doc); err != nil {
		t.Fatalf("PutDocument() error = %v", err)
	}
	if doc.ID == "" {
		t.Fatal("PutDocument() did not assign an ID")
	}

	row, err := s.GetDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if row == nil {
		t.Fatal("GetDocument() returned nil row")
	}
	if row["title"] != "Hello" {
		t.Errorf("title = %v, want Hello", row["title"])
	}
	if row["enabled"] != true {
		t.Errorf("enabled = %v, want true", row["enabled"])
	}
	tags, ok := row["tags"].([]string)
	if !ok || len(tags) != 2 {
		t.Errorf("tags = %v, want [a b]", row["tags"])
	}
}

func TestGetDocument_Missing(t *testing.T) {
	s := newTestStore(t)

	row, err := s.GetDocument(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if row != nil {
		t.Errorf("GetDocument() = %v, want nil", row)
	}
}

func TestSearchDocuments_EnabledOnly(t *testing.T) {
	s := newTestStore(t)
	seedTestDocuments(t, s)

	rows, err := s.SearchDocuments(context.Background(), "enabled=true", 1, 10)
	if err != nil {
		t.Fatalf("SearchDocuments() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for _, row := range rows {
		if row["enabled"] != true {
			t.Errorf("disabled document leaked: %v", row["id"])
		}
	}
}

func TestSearchDocuments_TextSearch(t *testing.T) {
	s := newTestStore(t)
	seedTestDocuments(t, s)

	rows, err := s.SearchDocuments(context.Background(),
		`enabled=true AND (title contains "setup" OR content contains "setup")`, 1, 10)
	if err != nil {
		t.Fatalf("SearchDocuments() error = %v", err)
	}
	// d1 matches title and content, d4 matches content only. d3 matches
	// but is disabled.
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
}

func TestSearchDocuments_TagMembership(t *testing.T) {
	s := newTestStore(t)
	seedTestDocuments(t, s)

	rows, err := s.SearchDocuments(context.Background(),
		`enabled=true AND (tags contains "install")`, 1, 10)
	if err != nil {
		t.Fatalf("SearchDocuments() error = %v", err)
	}
	if len(rows) != 1 || rows[0]["id"] != "d1" {
		t.Fatalf("got %v, want just d1", rows)
	}

	// Membership is exact, not substring.
	rows, err = s.SearchDocuments(context.Background(),
		`enabled=true AND (tags contains "inst")`, 1, 10)
	if err != nil {
		t.Fatalf("SearchDocuments() error = %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("partial tag matched %d rows, want 0", len(rows))
	}
}

func TestSearchDocuments_OrderingAndPaging(t *testing.T) {
	s := newTestStore(t)
	seedTestDocuments(t, s)

	page1, err := s.SearchDocuments(context.Background(), "enabled=true", 1, 2)
	if err != nil {
		t.Fatalf("SearchDocuments() error = %v", err)
	}
	page2, err := s.SearchDocuments(context.Background(), "enabled=true", 2, 2)
	if err != nil {
		t.Fatalf("SearchDocuments() error = %v", err)
	}

	if len(page1) != 2 || len(page2) != 1 {
		t.Fatalf("page sizes = %d, %d; want 2, 1", len(page1), len(page2))
	}
	if page1[0]["title"] != "Account setup" || page1[1]["title"] != "Billing FAQ" {
		t.Errorf("page 1 order = %v, %v", page1[0]["title"], page1[1]["title"])
	}
	if page2[0]["title"] != "Zebra care" {
		t.Errorf("page 2 = %v, want Zebra care", page2[0]["title"])
	}
}

func TestSearchDocuments_BuiltQueryRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	quoted := &Document{
		ID:      "q1",
		Title:   `He said "done"`,
		Content: "quoting",
		Enabled: true,
	}
	if err := s.PutDocument(ctx, quoted); err != nil {
		t.Fatalf("PutDocument() error = %v", err)
	}

	// A query term with embedded quotes survives the builder, the
	// parser, and the database untouched.
	where := rag.BuildSearchQuery(rag.SearchParams{Query: `said "done"`})
	rows, err := s.SearchDocuments(ctx, where, 1, 10)
	if err != nil {
		t.Fatalf("SearchDocuments(%q) error = %v", where, err)
	}
	if len(rows) != 1 || rows[0]["id"] != "q1" {
		t.Fatalf("got %v, want just q1", rows)
	}
}

func TestSearchDocuments_CacheInvalidatedOnWrite(t *testing.T) {
	s := newTestStore(t)
	seedTestDocuments(t, s)
	ctx := context.Background()

	before, err := s.SearchDocuments(ctx, "enabled=true", 1, 10)
	if err != nil {
		t.Fatalf("SearchDocuments() error = %v", err)
	}

	if err := s.PutDocument(ctx, &Document{ID: "d5", Title: "New doc", Enabled: true}); err != nil {
		t.Fatalf("PutDocument() error = %v", err)
	}

	after, err := s.SearchDocuments(ctx, "enabled=true", 1, 10)
	if err != nil {
		t.Fatalf("SearchDocuments() error = %v", err)
	}
	if len(after) != len(before)+1 {
		t.Errorf("after write got %d rows, want %d", len(after), len(before)+1)
	}
}

func TestSearchDocuments_BadPredicate(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.SearchDocuments(context.Background(), `secret="x"`, 1, 10); err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
}
