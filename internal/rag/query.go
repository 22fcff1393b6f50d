// ABOUTME: Search query builder translating SearchParams into a store predicate
// ABOUTME: Emits a conjunction of equality, contains and OR-group clauses

package rag

import (
	"fmt"
	"strings"
)

// BuildSearchQuery converts search parameters into the document
// store's predicate grammar. The result is always anchored on
// enabled=true; each supplied filter adds one AND clause and absent
// filters add nothing.
func BuildSearchQuery(params SearchParams) string {
	conditions := []string{"enabled=true"}

	if params.Query != "" {
		term := escapeQueryTerm(params.Query)
		conditions = append(conditions,
			fmt.Sprintf(`(title contains "%s" OR content contains "%s")`, term, term))
	}

	if params.Category != "" {
		conditions = append(conditions,
			fmt.Sprintf(`category="%s"`, escapeQueryTerm(params.Category)))
	}

	if len(params.Tags) > 0 {
		tagConditions := make([]string, len(params.Tags))
		for i, tag := range params.Tags {
			tagConditions[i] = fmt.Sprintf(`tags contains "%s"`, escapeQueryTerm(tag))
		}
		conditions = append(conditions, "("+strings.Join(tagConditions, " OR ")+")")
	}

	if params.Author != "" {
		conditions = append(conditions,
			fmt.Sprintf(`author="%s"`, escapeQueryTerm(params.Author)))
	}

	return strings.Join(conditions, " AND ")
}

// escapeQueryTerm escapes embedded double quotes so a term containing
// quotes survives the round trip through the store's grammar.
func escapeQueryTerm(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
