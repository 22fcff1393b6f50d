// ABOUTME: Seed command loading Markdown documents and tenant configs into the store
// ABOUTME: Parses YAML front matter and derives summaries from the first paragraph

package main

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/2389/rag-gateway/internal/config"
	"github.com/2389/rag-gateway/internal/rag"
	"github.com/2389/rag-gateway/internal/store"
)

// frontMatter is the YAML block at the top of a seed document.
type frontMatter struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	URL      string   `yaml:"url"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
	Author   string   `yaml:"author"`
	Enabled  *bool    `yaml:"enabled"`
	Summary  string   `yaml:"summary"`
}

// tenantsFile is the shape of a --tenants YAML file.
type tenantsFile struct {
	Tenants []rag.TenantConfig `yaml:"tenants"`
}

func runSeed(ctx context.Context) error {
	args := os.Args[2:]
	configPath := getConfigPath(args)

	var docsDir, tenantsPath string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--docs" && i+1 < len(args):
			docsDir = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--docs="):
			docsDir = strings.TrimPrefix(args[i], "--docs=")
		case args[i] == "--tenants" && i+1 < len(args):
			tenantsPath = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--tenants="):
			tenantsPath = strings.TrimPrefix(args[i], "--tenants=")
		}
	}

	if docsDir == "" && tenantsPath == "" {
		return fmt.Errorf("seed requires --docs DIR and/or --tenants FILE")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	s, err := store.NewSQLiteStore(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = s.Close() }()

	green := color.New(color.FgGreen)

	if docsDir != "" {
		count, err := seedDocuments(ctx, s, docsDir)
		if err != nil {
			return err
		}
		green.Printf("  ✓ Seeded %d document(s) from %s\n", count, docsDir)
	}

	if tenantsPath != "" {
		count, err := seedTenants(ctx, s, tenantsPath)
		if err != nil {
			return err
		}
		green.Printf("  ✓ Seeded %d tenant config(s) from %s\n", count, tenantsPath)
	}

	return nil
}

// seedDocuments walks dir for .md files and upserts one document per file.
func seedDocuments(ctx context.Context, s *store.SQLiteStore, dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		doc, err := parseMarkdownDocument(path)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		if err := s.PutDocument(ctx, doc); err != nil {
			return fmt.Errorf("storing %s: %w", path, err)
		}
		count++
		return nil
	})
	return count, err
}

// parseMarkdownDocument reads one Markdown file into a document record.
// Front matter supplies the metadata; the title falls back to the first
// heading and the summary to the first paragraph.
func parseMarkdownDocument(path string) (*store.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fm, body, err := splitFrontMatter(raw)
	if err != nil {
		return nil, err
	}

	heading, paragraph := scanMarkdown(body)

	title := fm.Title
	if title == "" {
		title = heading
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), ".md")
	}

	summary := fm.Summary
	if summary == "" {
		summary = paragraph
	}

	enabled := true
	if fm.Enabled != nil {
		enabled = *fm.Enabled
	}

	return &store.Document{
		ID:       fm.ID,
		Title:    title,
		Content:  string(body),
		URL:      fm.URL,
		Category: fm.Category,
		Tags:     fm.Tags,
		Author:   fm.Author,
		Enabled:  enabled,
		Summary:  summary,
	}, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from
// the Markdown body. Files without front matter pass through unchanged.
func splitFrontMatter(raw []byte) (frontMatter, []byte, error) {
	var fm frontMatter

	if !bytes.HasPrefix(raw, []byte("---\n")) {
		return fm, raw, nil
	}

	rest := raw[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return fm, raw, nil
	}

	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return fm, nil, fmt.Errorf("parsing front matter: %w", err)
	}

	body := rest[end+len("\n---"):]
	body = bytes.TrimLeft(body, "\n")
	return fm, body, nil
}

// scanMarkdown parses the body and returns the first heading and the
// first paragraph's plain text.
func scanMarkdown(body []byte) (heading, paragraph string) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading:
			if heading == "" {
				heading = nodeText(n, body)
			}
		case ast.KindParagraph:
			if paragraph == "" {
				paragraph = nodeText(n, body)
			}
		}
		if heading != "" && paragraph != "" {
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	return heading, paragraph
}

// nodeText collects the raw text content under a node.
func nodeText(n ast.Node, source []byte) string {
	var buf strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
			continue
		}
		buf.WriteString(nodeText(c, source))
	}
	return strings.TrimSpace(buf.String())
}

// seedTenants loads tenant configurations from a YAML file.
func seedTenants(ctx context.Context, s *store.SQLiteStore, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading tenants file: %w", err)
	}

	var tf tenantsFile
	if err := yaml.Unmarshal(raw, &tf); err != nil {
		return 0, fmt.Errorf("parsing tenants file: %w", err)
	}

	for i := range tf.Tenants {
		tc := &tf.Tenants[i]
		if tc.Instance == "" {
			return 0, fmt.Errorf("tenant %d: instance is required", i)
		}
		if err := s.PutConfig(ctx, tc); err != nil {
			return 0, fmt.Errorf("storing tenant %s: %w", tc.Instance, err)
		}
	}
	return len(tf.Tenants), nil
}
