// ABOUTME: Core domain types for the RAG document-search service
// ABOUTME: Defines Document, TenantConfig, SearchParams and SearchResult shapes

package rag

// Default and hard-ceiling limits applied to document searches. Tenant
// policy can narrow these but never widen them.
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// Document is a single knowledge-base document. Only enabled documents
// are ever visible through search, listing, or enumeration.
type Document struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Content  string   `json:"content,omitempty"`
	URL      string   `json:"url,omitempty"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Author   string   `json:"author,omitempty"`
	Enabled  bool     `json:"enabled"`
	Summary  string   `json:"summary,omitempty"`
}

// SearchParams are the caller-supplied search filters. Tenant policy
// mutates a copy of these before they reach the query builder; the
// mutation only narrows, never widens, the request.
type SearchParams struct {
	Query    string
	Category string
	Tags     []string
	Author   string
	Limit    int // 0 means unspecified
	Offset   int
}

// SearchResult is one page of matching documents. HasMore is a
// heuristic: true iff the page came back full, so a page that is
// exactly full with nothing behind it still reports true.
type SearchResult struct {
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
	HasMore   bool       `json:"hasMore"`
}

// SearchSettings controls which search filters a tenant exposes and
// the limit policy applied to its searches. The Enable* fields are
// tri-state: nil means enabled, matching a config record that predates
// the flag.
type SearchSettings struct {
	DefaultLimit         int   `json:"defaultLimit,omitempty" yaml:"defaultLimit"`
	MaxLimit             int   `json:"maxLimit,omitempty" yaml:"maxLimit"`
	EnableTextSearch     *bool `json:"enableTextSearch,omitempty" yaml:"enableTextSearch"`
	EnableCategoryFilter *bool `json:"enableCategoryFilter,omitempty" yaml:"enableCategoryFilter"`
	EnableTagFilter      *bool `json:"enableTagFilter,omitempty" yaml:"enableTagFilter"`
	EnableAuthorFilter   *bool `json:"enableAuthorFilter,omitempty" yaml:"enableAuthorFilter"`
}

// FlagEnabled reports whether a tri-state feature flag is on.
func FlagEnabled(b *bool) bool {
	return b == nil || *b
}

// TenantConfig is the per-instance policy record gating visibility and
// search behavior. At most one enabled config exists per instance.
type TenantConfig struct {
	Instance          string          `json:"instance" yaml:"instance"`
	Enabled           bool            `json:"enabled" yaml:"enabled"`
	Description       string          `json:"description,omitempty" yaml:"description"`
	SearchSettings    *SearchSettings `json:"searchSettings,omitempty" yaml:"searchSettings"`
	AllowedCategories []string        `json:"allowedCategories,omitempty" yaml:"allowedCategories"`
	AllowedTags       []string        `json:"allowedTags,omitempty" yaml:"allowedTags"`
}

// DefaultLimit returns the tenant's default page size, falling back to
// DefaultSearchLimit when unset.
func (c *TenantConfig) DefaultLimit() int {
	if c != nil && c.SearchSettings != nil && c.SearchSettings.DefaultLimit > 0 {
		return c.SearchSettings.DefaultLimit
	}
	return DefaultSearchLimit
}

// MaxLimit returns the tenant's maximum page size, falling back to
// MaxSearchLimit when unset.
func (c *TenantConfig) MaxLimit() int {
	if c != nil && c.SearchSettings != nil && c.SearchSettings.MaxLimit > 0 {
		return c.SearchSettings.MaxLimit
	}
	return MaxSearchLimit
}
