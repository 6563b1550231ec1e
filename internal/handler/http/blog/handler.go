// Package blog serves the publication pages: list, search, view with
// comments, and the administration forms.
package blog

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/handler/http/csrf"
	"blog-publication/internal/handler/http/respond"
	"blog-publication/internal/handler/http/view"
	"blog-publication/internal/observability/logging"
	"blog-publication/internal/usecase/article"
	"blog-publication/internal/usecase/comment"
)

// ListPath is the first page of the publication list.
const ListPath = "/blog/publications/liste/"

const (
	createPath = "/blog/nouvelle-publication/"
	searchPath = "/blog/recherche/"

	msgBadToken    = "The security token is invalid. Please try to resubmit the form."
	msgBadLinkTok  = "Invalid security token, please try again."
	msgPublished   = "Article published successfully!"
	msgEdited      = "Article edited successfully!"
	msgDeleted     = "The publication was deleted successfully!"
	msgCommented   = "Your comment was published successfully!"
	msgUncommented = "The comment was deleted successfully!"
)

// Handler serves the blog routes.
type Handler struct {
	Articles *article.Service
	Comments *comment.Service
	View     *view.Renderer
	CSRF     *csrf.Manager
}

// Register mounts the blog routes on mux. require returns the guard for a
// role; it protects the administration routes and comment posting.
func (h *Handler) Register(mux *http.ServeMux, require func(role string) func(http.Handler) http.Handler) {
	admin := require(entity.RoleAdmin)
	user := require(entity.RoleUser)

	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET "+ListPath+"{$}", h.List)
	mux.HandleFunc("GET "+searchPath+"{$}", h.Search)
	mux.HandleFunc("GET /blog/publication/{slug}/{$}", h.Show)
	mux.Handle("POST /blog/publication/{slug}/{$}", user(http.HandlerFunc(h.PostComment)))

	mux.Handle("GET "+createPath+"{$}", admin(http.HandlerFunc(h.NewForm)))
	mux.Handle("POST "+createPath+"{$}", admin(http.HandlerFunc(h.Create)))
	mux.Handle("GET /blog/publication/modifier/{id}/{$}", admin(http.HandlerFunc(h.EditForm)))
	mux.Handle("POST /blog/publication/modifier/{id}/{$}", admin(http.HandlerFunc(h.Edit)))
	mux.Handle("GET /blog/publication/suppression/{id}/{$}", admin(http.HandlerFunc(h.Delete)))
	mux.Handle("GET /blog/commentaire/suppression/{id}/{$}", admin(http.HandlerFunc(h.DeleteComment)))
}

// Home sends visitors to the publication list.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, ListPath, http.StatusFound)
}

// ArticlePath is the view page of the article published under slug.
func ArticlePath(slug string) string {
	return "/blog/publication/" + url.PathEscape(slug) + "/"
}

func editPath(id int64) string {
	return "/blog/publication/modifier/" + strconv.FormatInt(id, 10) + "/"
}

// fail renders the error page matching err.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case article.IsNotFound(err),
		errors.Is(err, comment.ErrCommentNotFound),
		errors.Is(err, comment.ErrArticleNotFound):
		h.View.Error(w, r, http.StatusNotFound)
	case errors.Is(err, article.ErrForbidden), errors.Is(err, comment.ErrForbidden):
		h.View.Error(w, r, http.StatusForbidden)
	default:
		logging.FromContext(r.Context()).Error("blog request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", respond.SanitizeError(err)))
		h.View.Error(w, r, http.StatusInternalServerError)
	}
}
