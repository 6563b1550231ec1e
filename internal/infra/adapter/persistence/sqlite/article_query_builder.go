package sqlite

import (
	"fmt"
	"strings"

	"blog-publication/internal/pkg/search"
)

// ArticleQueryBuilder builds the WHERE clause of the article search for SQLite.
// SQLite's LIKE is already case-insensitive for ASCII and uses ? placeholders,
// so the pattern is bound once per column.
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildWhereClause returns a WHERE clause matching articles whose title or
// content contains query literally. An empty query yields no clause.
func (qb *ArticleQueryBuilder) BuildWhereClause(query, tableAlias string) (clause string, args []any) {
	if strings.TrimSpace(query) == "" {
		return "", nil
	}

	prefix := ""
	if tableAlias != "" {
		prefix = tableAlias + "."
	}

	pattern := search.ContainsPattern(query)
	clause = fmt.Sprintf(`WHERE (%stitle LIKE ? ESCAPE '\' OR %scontent LIKE ? ESCAPE '\')`, prefix, prefix)
	return clause, []any{pattern, pattern}
}
