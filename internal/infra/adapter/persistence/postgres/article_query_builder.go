// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"

	"blog-publication/internal/pkg/search"
)

// ArticleQueryBuilder builds the WHERE clause of the article search.
// The clause is shared by the COUNT and SELECT queries so that the page and
// the total always agree.
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildWhereClause returns a WHERE clause matching articles whose title or
// content contains query literally (case-insensitive, wildcards escaped).
// An empty query yields no clause. Placeholders start at $1.
func (qb *ArticleQueryBuilder) BuildWhereClause(query, tableAlias string) (clause string, args []any) {
	if strings.TrimSpace(query) == "" {
		return "", nil
	}

	titleCol, contentCol := "title", "content"
	if tableAlias != "" {
		titleCol = tableAlias + ".title"
		contentCol = tableAlias + ".content"
	}

	clause = fmt.Sprintf(`WHERE (%s ILIKE $1 ESCAPE '\' OR %s ILIKE $1 ESCAPE '\')`, titleCol, contentCol)
	return clause, []any{search.ContainsPattern(query)}
}
