// ABOUTME: Resource catalog construction and rag:// URI resolution
// ABOUTME: Fixed entries plus derived per-category and capped per-tag entries

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/2389/rag-gateway/internal/rag"
)

// maxTagResources caps the number of tag-derived catalog entries. The
// cap bounds catalog size and is a fixed design choice, not config.
const maxTagResources = 10

// resourcePageSize is the page size served by resources/read document
// listings.
const resourcePageSize = 50

const resourceMimeType = "application/json"

// buildResourceList assembles the resources/list catalog: three fixed
// entries, one entry per known category, and up to the first
// maxTagResources known tags. Category and tag enumerations are
// fetched concurrently; they populate disjoint parts of the catalog so
// no ordering between them is needed.
func buildResourceList(ctx context.Context, svc *rag.Service) ([]ResourceInfo, error) {
	var categories, tags []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = svc.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = svc.Tags(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resources := []ResourceInfo{
		{
			URI:         "rag://documents",
			Name:        "All Documents",
			Description: "Access to all documents in the knowledge base",
			MimeType:    resourceMimeType,
		},
		{
			URI:         "rag://categories",
			Name:        "Document Categories",
			Description: "List of available document categories",
			MimeType:    resourceMimeType,
		},
		{
			URI:         "rag://tags",
			Name:        "Document Tags",
			Description: "List of available document tags",
			MimeType:    resourceMimeType,
		},
	}

	for _, category := range categories {
		resources = append(resources, ResourceInfo{
			URI:         "rag://documents/category/" + url.PathEscape(category),
			Name:        category + " Documents",
			Description: fmt.Sprintf("Documents in the %s category", category),
			MimeType:    resourceMimeType,
		})
	}

	for _, tag := range tags[:min(len(tags), maxTagResources)] {
		resources = append(resources, ResourceInfo{
			URI:         "rag://documents/tag/" + url.PathEscape(tag),
			Name:        "Documents tagged with " + tag,
			Description: "Documents tagged with " + tag,
			MimeType:    resourceMimeType,
		})
	}

	return resources, nil
}

// errResourceNotFound marks a URI that resolves to nothing.
var errResourceNotFound = &protocolError{
	code:    codeMethodNotFound,
	message: "Resource not found",
	status:  404,
}

// readResource resolves a rag:// URI into its content. Recognized
// forms: rag://documents, rag://documents/category/{category},
// rag://documents/tag/{tag}, rag://categories, rag://tags. Anything
// else is a resource-not-found protocol error.
func readResource(ctx context.Context, svc *rag.Service, uri string) (*ResourcesReadResult, error) {
	var payload any

	switch {
	case uri == "rag://documents":
		result, err := svc.ListDocuments(ctx, 1, resourcePageSize)
		if err != nil {
			return nil, err
		}
		payload = map[string]any{
			"documents": result.Documents,
			"total":     result.Total,
			"hasMore":   result.HasMore,
		}

	case strings.HasPrefix(uri, "rag://documents/category/"):
		category, ok := decodeURISegment(strings.TrimPrefix(uri, "rag://documents/category/"))
		if !ok {
			return nil, errResourceNotFound
		}
		result, err := svc.Search(ctx, rag.SearchParams{Category: category, Limit: resourcePageSize})
		if err != nil {
			return nil, err
		}
		payload = map[string]any{
			"category":  category,
			"documents": result.Documents,
			"total":     result.Total,
			"hasMore":   result.HasMore,
		}

	case strings.HasPrefix(uri, "rag://documents/tag/"):
		tag, ok := decodeURISegment(strings.TrimPrefix(uri, "rag://documents/tag/"))
		if !ok {
			return nil, errResourceNotFound
		}
		result, err := svc.Search(ctx, rag.SearchParams{Tags: []string{tag}, Limit: resourcePageSize})
		if err != nil {
			return nil, err
		}
		payload = map[string]any{
			"tag":       tag,
			"documents": result.Documents,
			"total":     result.Total,
			"hasMore":   result.HasMore,
		}

	case uri == "rag://categories":
		categories, err := svc.Categories(ctx)
		if err != nil {
			return nil, err
		}
		payload = map[string]any{
			"categories": categories,
			"total":      len(categories),
		}

	case uri == "rag://tags":
		tags, err := svc.Tags(ctx)
		if err != nil {
			return nil, err
		}
		payload = map[string]any{
			"tags":  tags,
			"total": len(tags),
		}

	default:
		return nil, errResourceNotFound
	}

	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling resource payload: %w", err)
	}

	return &ResourcesReadResult{
		Contents: []ResourceContent{{
			URI:      uri,
			MimeType: resourceMimeType,
			Text:     string(text),
		}},
	}, nil
}

// decodeURISegment percent-decodes the final path segment of a
// resource URI. A segment that is empty, undecodable, or spans
// multiple path segments does not resolve.
func decodeURISegment(segment string) (string, bool) {
	if segment == "" || strings.Contains(segment, "/") {
		return "", false
	}
	decoded, err := url.PathUnescape(segment)
	if err != nil || decoded == "" {
		return "", false
	}
	return decoded, true
}
