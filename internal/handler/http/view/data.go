package view

import (
	"net/url"
	"strconv"

	"blog-publication/internal/common/pagination"
	"blog-publication/internal/domain/entity"
	"blog-publication/internal/repository"
)

// Pager links the pages of a listing.
type Pager struct {
	Meta  pagination.Metadata
	Path  string
	Query url.Values
}

// URL returns the link to page n, keeping the other query parameters.
func (p Pager) URL(n int) string {
	q := url.Values{}
	for k, v := range p.Query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(n))
	return p.Path + "?" + q.Encode()
}

// ListData is the data of the list and search pages.
type ListData struct {
	Articles []repository.ArticleWithAuthor
	Pager    Pager
	Search   string
}

// FormState holds submitted values and their errors, for redisplay.
type FormState[T any] struct {
	Values T
	Errors entity.ValidationErrors
}

// ArticleData is the data of the article page. CommentForm is nil for
// anonymous visitors.
type ArticleData struct {
	Article          *entity.Article
	AuthorPseudonym  string
	Comments         []repository.CommentWithAuthor
	CommentForm      *FormState[entity.CommentForm]
	CommentMaxLength int
}

// ArticleFormData is the data of the create and edit pages.
type ArticleFormData struct {
	Heading string
	Action  string
	Submit  string
	Form    FormState[entity.ArticleForm]
}

// LoginData is the data of the login page.
type LoginData struct {
	Email  string
	Next   string
	Errors entity.ValidationErrors
}
