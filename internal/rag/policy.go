// ABOUTME: Tenant policy enforcement applied to search parameters before querying
// ABOUTME: Clamps limits and narrows category/tag filters to the tenant allow-lists

package rag

import "slices"

// ApplyTenantPolicy narrows caller-supplied search parameters to what
// the tenant configuration permits. A nil config passes parameters
// through unchanged. The returned value is a narrowed copy; the input
// is never mutated. A requested category outside the allow-list drops
// the category filter entirely rather than failing or matching
// nothing.
func ApplyTenantPolicy(params SearchParams, cfg *TenantConfig) SearchParams {
	if cfg == nil {
		return params
	}

	if s := cfg.SearchSettings; s != nil {
		if params.Limit == 0 {
			params.Limit = min(cfg.DefaultLimit(), cfg.MaxLimit())
		} else if s.MaxLimit > 0 {
			params.Limit = min(params.Limit, s.MaxLimit)
		}
	}

	if len(cfg.AllowedCategories) > 0 && params.Category != "" {
		if !slices.Contains(cfg.AllowedCategories, params.Category) {
			params.Category = ""
		}
	}

	if len(cfg.AllowedTags) > 0 && len(params.Tags) > 0 {
		allowed := make([]string, 0, len(params.Tags))
		for _, tag := range params.Tags {
			if slices.Contains(cfg.AllowedTags, tag) {
				allowed = append(allowed, tag)
			}
		}
		params.Tags = allowed
	}

	return params
}
