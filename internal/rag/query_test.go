// ABOUTME: Tests for the search query builder
// ABOUTME: Covers filter combinations, escaping, and the enabled anchor

package rag

import "testing"

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name   string
		params SearchParams
		want   string
	}{
		{
			name:   "empty params",
			params: SearchParams{},
			want:   "enabled=true",
		},
		{
			name:   "query only",
			params: SearchParams{Query: "setup"},
			want:   `enabled=true AND (title contains "setup" OR content contains "setup")`,
		},
		{
			name:   "category only",
			params: SearchParams{Category: "FAQ"},
			want:   `enabled=true AND category="FAQ"`,
		},
		{
			name:   "author only",
			params: SearchParams{Author: "amy"},
			want:   `enabled=true AND author="amy"`,
		},
		{
			name:   "single tag",
			params: SearchParams{Tags: []string{"install"}},
			want:   `enabled=true AND (tags contains "install")`,
		},
		{
			name:   "multiple tags form an OR group",
			params: SearchParams{Tags: []string{"install", "billing"}},
			want:   `enabled=true AND (tags contains "install" OR tags contains "billing")`,
		},
		{
			name: "all filters in fixed order",
			params: SearchParams{
				Query:    "reset",
				Category: "Guides",
				Tags:     []string{"auth"},
				Author:   "amy",
			},
			want: `enabled=true AND (title contains "reset" OR content contains "reset") AND category="Guides" AND (tags contains "auth") AND author="amy"`,
		},
		{
			name:   "embedded quotes escaped",
			params: SearchParams{Query: `say "hello"`},
			want:   `enabled=true AND (title contains "say \"hello\"" OR content contains "say \"hello\"")`,
		},
		{
			name:   "quotes escaped in category",
			params: SearchParams{Category: `a"b`},
			want:   `enabled=true AND category="a\"b"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildSearchQuery(tt.params)
			if got != tt.want {
				t.Errorf("BuildSearchQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildSearchQuery_LimitAndOffsetIgnored(t *testing.T) {
	got := BuildSearchQuery(SearchParams{Limit: 50, Offset: 100})
	if got != "enabled=true" {
		t.Errorf("BuildSearchQuery() = %q, want %q", got, "enabled=true")
	}
}
