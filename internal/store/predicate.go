// ABOUTME: Parser for the document query predicate grammar used by SearchDocuments
// ABOUTME: Translates AND/OR clauses of equality and contains terms into SQL

package store

import (
	"fmt"
	"strings"
)

// The predicate grammar accepted by the document store:
//
//	predicate := clause { " AND " clause }
//	clause    := "(" term { " OR " term } ")" | term
//	term      := field "=" value | field " contains " string
//	value     := string | "true" | "false"
//	string    := '"' characters-with-backslash-escapes '"'
//
// Fields are restricted to the document columns. The tags field is a
// JSON array column; "tags contains" matches array membership, every
// other "contains" is a substring match.

var queryFields = map[string]bool{
	"id":       true,
	"title":    true,
	"content":  true,
	"url":      true,
	"category": true,
	"tags":     true,
	"author":   true,
	"enabled":  true,
	"summary":  true,
}

// translatePredicate converts a predicate string into a SQL WHERE
// fragment with positional args.
func translatePredicate(predicate string) (string, []any, error) {
	p := &predicateParser{input: predicate}
	sqlClauses := []string{}

	for {
		clause, args, err := p.parseClause()
		if err != nil {
			return "", nil, err
		}
		sqlClauses = append(sqlClauses, clause)
		p.allArgs = append(p.allArgs, args...)

		if !p.consumeKeyword("AND") {
			break
		}
	}

	if !p.atEnd() {
		return "", nil, fmt.Errorf("unexpected input at position %d in predicate %q", p.pos, predicate)
	}
	return strings.Join(sqlClauses, " AND "), p.allArgs, nil
}

type predicateParser struct {
	input   string
	pos     int
	allArgs []any
}

func (p *predicateParser) atEnd() bool {
	p.skipSpaces()
	return p.pos >= len(p.input)
}

func (p *predicateParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

// consumeKeyword consumes a space-delimited keyword like AND or OR.
func (p *predicateParser) consumeKeyword(kw string) bool {
	save := p.pos
	p.skipSpaces()
	if strings.HasPrefix(p.input[p.pos:], kw+" ") || strings.HasPrefix(p.input[p.pos:], kw+"(") {
		p.pos += len(kw)
		return true
	}
	p.pos = save
	return false
}

// parseClause parses either a parenthesized OR group or a single term.
func (p *predicateParser) parseClause() (string, []any, error) {
	p.skipSpaces()
	if p.pos < len(p.input) && p.input[p.pos] == '(' {
		p.pos++
		terms := []string{}
		var args []any
		for {
			term, termArgs, err := p.parseTerm()
			if err != nil {
				return "", nil, err
			}
			terms = append(terms, term)
			args = append(args, termArgs...)

			if p.consumeKeyword("OR") {
				continue
			}
			p.skipSpaces()
			if p.pos < len(p.input) && p.input[p.pos] == ')' {
				p.pos++
				return "(" + strings.Join(terms, " OR ") + ")", args, nil
			}
			return "", nil, fmt.Errorf("expected OR or ) at position %d", p.pos)
		}
	}
	return p.parseTerm()
}

// parseTerm parses one field comparison.
func (p *predicateParser) parseTerm() (string, []any, error) {
	p.skipSpaces()
	field := p.readIdentifier()
	if !queryFields[field] {
		return "", nil, fmt.Errorf("unknown field %q at position %d", field, p.pos)
	}

	if p.pos < len(p.input) && p.input[p.pos] == '=' {
		p.pos++
		return p.parseEquality(field)
	}

	if strings.HasPrefix(p.input[p.pos:], " contains ") {
		p.pos += len(" contains ")
		value, err := p.readString()
		if err != nil {
			return "", nil, err
		}
		if field == "tags" {
			// Array membership on the JSON tags column.
			return "EXISTS (SELECT 1 FROM json_each(documents.tags) WHERE json_each.value = ?)",
				[]any{value}, nil
		}
		return fmt.Sprintf(`%s LIKE '%%' || ? || '%%' ESCAPE '\'`, field),
			[]any{escapeLike(value)}, nil
	}

	return "", nil, fmt.Errorf("expected = or contains after %q", field)
}

func (p *predicateParser) parseEquality(field string) (string, []any, error) {
	switch {
	case strings.HasPrefix(p.input[p.pos:], "true"):
		p.pos += len("true")
		return field + " = 1", nil, nil
	case strings.HasPrefix(p.input[p.pos:], "false"):
		p.pos += len("false")
		return field + " = 0", nil, nil
	default:
		value, err := p.readString()
		if err != nil {
			return "", nil, err
		}
		return field + " = ?", []any{value}, nil
	}
}

func (p *predicateParser) readIdentifier() string {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}

// readString reads a double-quoted string honoring backslash escapes.
func (p *predicateParser) readString() (string, error) {
	if p.pos >= len(p.input) || p.input[p.pos] != '"' {
		return "", fmt.Errorf("expected string at position %d", p.pos)
	}
	p.pos++

	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case '\\':
			if p.pos+1 < len(p.input) {
				b.WriteByte(p.input[p.pos+1])
				p.pos += 2
				continue
			}
			return "", fmt.Errorf("dangling escape at position %d", p.pos)
		case '"':
			p.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", fmt.Errorf("unterminated string at position %d", p.pos)
}

// escapeLike escapes LIKE wildcards so a term matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
