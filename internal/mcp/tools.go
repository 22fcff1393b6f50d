// ABOUTME: Tool descriptor construction and search_documents execution
// ABOUTME: The advertised input schema mirrors what tenant policy will honor

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2389/rag-gateway/internal/rag"
)

// searchToolName is the single tool this server exposes.
const searchToolName = "search_documents"

// buildSearchTool builds the search_documents descriptor. The property
// set is config-driven so the advertised schema stays consistent with
// the filters Tools/Call will actually honor.
func buildSearchTool(cfg *rag.TenantConfig) ToolInfo {
	var settings *rag.SearchSettings
	if cfg != nil {
		settings = cfg.SearchSettings
	}

	defaultLimit := cfg.DefaultLimit()
	maxLimit := cfg.MaxLimit()

	properties := map[string]any{}

	if settings == nil || rag.FlagEnabled(settings.EnableTextSearch) {
		properties["query"] = map[string]any{
			"type":        "string",
			"description": "Search query to match against document title and content",
		}
	}
	if settings == nil || rag.FlagEnabled(settings.EnableCategoryFilter) {
		properties["category"] = map[string]any{
			"type":        "string",
			"description": "Filter documents by category (e.g., Product, Business, Technical, FAQ)",
		}
	}
	if settings == nil || rag.FlagEnabled(settings.EnableTagFilter) {
		properties["tags"] = map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Filter documents by tags",
		}
	}
	if settings == nil || rag.FlagEnabled(settings.EnableAuthorFilter) {
		properties["author"] = map[string]any{
			"type":        "string",
			"description": "Filter documents by author",
		}
	}

	// The limit property is always present.
	properties["limit"] = map[string]any{
		"type":        "number",
		"description": fmt.Sprintf("Maximum number of results to return (default: %d, max: %d)", defaultLimit, maxLimit),
		"minimum":     1,
		"maximum":     maxLimit,
		"default":     defaultLimit,
	}

	return ToolInfo{
		Name:        searchToolName,
		Description: "Search for documents in the knowledge base using text matching",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": properties,
			"required":   []string{},
		},
	}
}

// searchArguments are the caller-supplied arguments of search_documents.
type searchArguments struct {
	Query    string   `json:"query"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Author   string   `json:"author"`
	Limit    int      `json:"limit"`
}

// searchResultDocument is the reduced document shape embedded in the
// tool result. Content stays in even though it may be large; url and
// enabled are dropped.
type searchResultDocument struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Content  string   `json:"content,omitempty"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Author   string   `json:"author,omitempty"`
	Summary  string   `json:"summary,omitempty"`
}

// executeSearchTool runs search_documents and renders the result as a
// single JSON text block.
func executeSearchTool(ctx context.Context, svc *rag.Service, raw json.RawMessage) (*ToolsCallResult, error) {
	var args searchArguments
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, &rag.Error{Status: 422, Message: "Invalid params", Err: err}
		}
	}

	// Hard ceiling independent of tenant policy; the service applies
	// the tenant's own narrower limit afterwards.
	searchLimit := args.Limit
	if searchLimit <= 0 {
		searchLimit = rag.DefaultSearchLimit
	}
	searchLimit = min(searchLimit, rag.MaxSearchLimit)

	result, err := svc.Search(ctx, rag.SearchParams{
		Query:    args.Query,
		Category: args.Category,
		Tags:     args.Tags,
		Author:   args.Author,
		Limit:    searchLimit,
	})
	if err != nil {
		return nil, err
	}

	formatted := make([]searchResultDocument, len(result.Documents))
	for i, doc := range result.Documents {
		formatted[i] = searchResultDocument{
			ID:       doc.ID,
			Title:    doc.Title,
			Content:  doc.Content,
			Category: doc.Category,
			Tags:     doc.Tags,
			Author:   doc.Author,
			Summary:  doc.Summary,
		}
	}

	payload := map[string]any{
		"results": formatted,
		"total":   result.Total,
		"hasMore": result.HasMore,
		"query": map[string]any{
			"query":    args.Query,
			"category": args.Category,
			"tags":     args.Tags,
			"author":   args.Author,
			"limit":    searchLimit,
		},
	}

	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling search result: %w", err)
	}

	return &ToolsCallResult{
		Content: []Content{{Type: "text", Text: string(text)}},
	}, nil
}
