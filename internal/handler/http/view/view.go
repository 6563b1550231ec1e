// Package view renders the HTML pages of the blog from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/handler/http/csrf"
	"blog-publication/internal/handler/http/flash"
	"blog-publication/internal/handler/http/principal"
	"blog-publication/internal/handler/http/respond"
	"blog-publication/internal/observability/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	PageList        = "list"
	PageSearch      = "search"
	PageArticle     = "article"
	PageArticleForm = "article_form"
	PageLogin       = "login"
	PageError       = "error"
)

// Page is the data every template receives.
type Page struct {
	Title   string
	User    *entity.User
	IsAdmin bool
	Flashes []flash.Message
	Path    string
	Query   string // current search text, shown in the navbar
	Data    any

	token func(scope string) string
}

// Token returns the CSRF token of scope for the current browser.
func (p Page) Token(scope string) string {
	if p.token == nil {
		return ""
	}
	return p.token(scope)
}

// ErrorData is the Data of the error page.
type ErrorData struct {
	Status  int
	Message string
}

// Renderer executes page templates.
type Renderer struct {
	pages map[string]*template.Template
	csrf  *csrf.Manager
}

var textPolicy = bluemonday.StrictPolicy()

var funcs = template.FuncMap{
	// trusted marks article HTML that was sanitized before it was stored
	"trusted": func(s string) template.HTML { return template.HTML(s) }, // #nosec G203
	"excerpt": excerpt,
	"date": func(t time.Time) string {
		return t.Format("January 2, 2006 at 15:04")
	},
	"deleteArticleScope": csrf.ArticleDeleteScope,
	"deleteCommentScope": csrf.CommentDeleteScope,
	"add":                func(a, b int) int { return a + b },
}

// excerpt returns the first n characters of the text of an HTML fragment.
func excerpt(fragment string, n int) string {
	text := strings.Join(strings.Fields(html.UnescapeString(textPolicy.Sanitize(fragment))), " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "…"
}

// New parses the embedded templates. tokens may be nil when no page needs CSRF tokens.
func New(tokens *csrf.Manager) (*Renderer, error) {
	return newRenderer(templateFS, tokens)
}

func newRenderer(fsys fs.FS, tokens *csrf.Manager) (*Renderer, error) {
	names := []string{PageList, PageSearch, PageArticle, PageArticleForm, PageLogin, PageError}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys,
			"templates/layout.html",
			"templates/pager.html",
			"templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages, csrf: tokens}, nil
}

// Render writes page name with status. The flash messages of the request
// are consumed only when the page rendered; a failed render leaves them
// pending for the next page.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	t, ok := rd.pages[name]
	if !ok {
		respond.SafeError(w, logging.FromContext(r.Context()), http.StatusInternalServerError,
			fmt.Errorf("unknown page %q", name))
		return
	}

	ctx := r.Context()
	user := principal.User(ctx)
	page := Page{
		Title:   title,
		User:    user,
		IsAdmin: principal.IsAdmin(ctx),
		Path:    r.URL.Path,
		Query:   r.URL.Query().Get("q"),
		Data:    data,
	}
	if rd.csrf != nil {
		page.token = func(scope string) string { return rd.csrf.Token(ctx, scope) }
	}
	page.Flashes = flash.Peek(ctx)

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", page); err != nil {
		logging.FromContext(ctx).Error("template execution failed",
			slog.String("page", name),
			slog.String("error", err.Error()))
		respond.Text(w, http.StatusInternalServerError)
		return
	}
	flash.Drop(ctx, len(page.Flashes))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error renders the error page for status.
func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, status int) {
	msg := "An unexpected error occurred."
	switch status {
	case http.StatusNotFound:
		msg = "The page you are looking for does not exist."
	case http.StatusForbidden:
		msg = "You are not allowed to access this page."
	case http.StatusTooManyRequests:
		msg = "Too many attempts, please wait a moment."
	}
	rd.Render(w, r, status, PageError, http.StatusText(status), ErrorData{Status: status, Message: msg})
}
