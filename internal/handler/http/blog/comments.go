package blog

import (
	"net/http"

	"blog-publication/internal/domain/entity"
	"blog-publication/internal/handler/http/csrf"
	"blog-publication/internal/handler/http/flash"
	"blog-publication/internal/handler/http/pathutil"
	"blog-publication/internal/handler/http/principal"
	"blog-publication/internal/handler/http/view"
	"blog-publication/internal/usecase/article"
	"blog-publication/internal/usecase/comment"
)

// Show renders an article with its comments. Signed-in readers get the
// comment form.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	v, err := h.Articles.View(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var form *view.FormState[entity.CommentForm]
	if principal.User(r.Context()) != nil {
		form = &view.FormState[entity.CommentForm]{}
	}
	h.renderArticle(w, r, v, form)
}

// PostComment attaches a comment to the article and renders the page again
// with an empty form.
func (h *Handler) PostComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v, err := h.Articles.View(ctx, r.PathValue("slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	form := entity.CommentForm{Content: r.PostFormValue("content")}

	if !h.CSRF.Valid(ctx, csrf.ScopeCommentForm, r.PostFormValue(csrf.FieldName)) {
		h.renderArticle(w, r, v, &view.FormState[entity.CommentForm]{
			Values: form,
			Errors: entity.FormError(msgBadToken),
		})
		return
	}

	_, err = h.Comments.Post(ctx, principal.User(ctx), v.Article.ID, form)
	if ves, ok := entity.AsValidationErrors(err); ok {
		h.renderArticle(w, r, v, &view.FormState[entity.CommentForm]{Values: form, Errors: ves})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	flash.Add(ctx, flash.KindSuccess, msgCommented)
	// reload so the new comment is listed
	if v, err = h.Articles.View(ctx, v.Article.Slug); err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderArticle(w, r, v, &view.FormState[entity.CommentForm]{})
}

// DeleteComment removes a comment and goes back to its article.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, comment.ErrCommentNotFound)
		return
	}
	c, err := h.Comments.Get(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	slug, err := h.Comments.ParentSlug(ctx, c)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if !h.CSRF.Valid(ctx, csrf.CommentDeleteScope(c.ID), r.URL.Query().Get("csrf_token")) {
		flash.Add(ctx, flash.KindError, msgBadLinkTok)
		http.Redirect(w, r, ArticlePath(slug), http.StatusFound)
		return
	}
	if _, err := h.Comments.Delete(ctx, principal.User(ctx), c.ID); err != nil {
		h.fail(w, r, err)
		return
	}

	flash.Add(ctx, flash.KindSuccess, msgUncommented)
	http.Redirect(w, r, ArticlePath(slug), http.StatusFound)
}

func (h *Handler) renderArticle(w http.ResponseWriter, r *http.Request, v *article.ArticleView, form *view.FormState[entity.CommentForm]) {
	h.View.Render(w, r, http.StatusOK, view.PageArticle, v.Article.Title, view.ArticleData{
		Article:          v.Article,
		AuthorPseudonym:  v.AuthorPseudonym,
		Comments:         v.Comments,
		CommentForm:      form,
		CommentMaxLength: h.Comments.CommentMaxLength(),
	})
}
