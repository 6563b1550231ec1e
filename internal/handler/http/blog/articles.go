package blog

import (
	"net/http"
	"net/url"

	"blog-publication/internal/common/pagination"
	"blog-publication/internal/domain/entity"
	"blog-publication/internal/handler/http/csrf"
	"blog-publication/internal/handler/http/flash"
	"blog-publication/internal/handler/http/pathutil"
	"blog-publication/internal/handler/http/principal"
	"blog-publication/internal/handler/http/view"
	"blog-publication/internal/usecase/article"
)

// List renders one page of the publications, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.ParsePage(r.URL.Query().Get("page"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.Articles.List(r.Context(), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.View.Render(w, r, http.StatusOK, view.PageList, "Publications", view.ListData{
		Articles: res.Data,
		Pager:    view.Pager{Meta: res.Pagination, Path: ListPath},
	})
}

// Search renders the articles whose title or content contains q.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.ParsePage(r.URL.Query().Get("page"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := r.URL.Query().Get("q")
	res, err := h.Articles.Search(r.Context(), q, page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.View.Render(w, r, http.StatusOK, view.PageSearch, "Search", view.ListData{
		Articles: res.Data,
		Pager:    view.Pager{Meta: res.Pagination, Path: searchPath, Query: url.Values{"q": {q}}},
		Search:   q,
	})
}

// NewForm renders the empty publication form.
func (h *Handler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, view.ArticleFormData{}, false, 0)
}

// Create publishes a new article and redirects to it.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form := readArticleForm(r)

	if !h.CSRF.Valid(ctx, csrf.ScopeArticleForm, r.PostFormValue(csrf.FieldName)) {
		h.renderForm(w, r, formData(form, entity.FormError(msgBadToken)), false, 0)
		return
	}

	art, err := h.Articles.Create(ctx, principal.User(ctx), form)
	if ves, ok := entity.AsValidationErrors(err); ok {
		h.renderForm(w, r, formData(form, ves), false, 0)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	flash.Add(ctx, flash.KindSuccess, msgPublished)
	http.Redirect(w, r, ArticlePath(art.Slug), http.StatusFound)
}

// EditForm renders the publication form filled with the stored article.
func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	art, err := h.lookup(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	form := entity.ArticleForm{Title: art.Title, Content: art.Content}
	h.renderForm(w, r, formData(form, nil), true, art.ID)
}

// Edit updates the title and content of an article.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	art, err := h.lookup(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	form := readArticleForm(r)

	if !h.CSRF.Valid(ctx, csrf.ScopeArticleForm, r.PostFormValue(csrf.FieldName)) {
		h.renderForm(w, r, formData(form, entity.FormError(msgBadToken)), true, art.ID)
		return
	}

	updated, err := h.Articles.Edit(ctx, principal.User(ctx), art.ID, form)
	if ves, ok := entity.AsValidationErrors(err); ok {
		h.renderForm(w, r, formData(form, ves), true, art.ID)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	flash.Add(ctx, flash.KindSuccess, msgEdited)
	http.Redirect(w, r, ArticlePath(updated.Slug), http.StatusFound)
}

// Delete removes an article and its comments. The link carries a token
// scoped to the article; without it nothing is deleted.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	art, err := h.lookup(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if !h.CSRF.Valid(ctx, csrf.ArticleDeleteScope(art.ID), r.URL.Query().Get("csrf_token")) {
		flash.Add(ctx, flash.KindError, msgBadLinkTok)
		http.Redirect(w, r, ListPath, http.StatusFound)
		return
	}
	if err := h.Articles.Delete(ctx, principal.User(ctx), art.ID); err != nil {
		h.fail(w, r, err)
		return
	}

	flash.Add(ctx, flash.KindSuccess, msgDeleted)
	http.Redirect(w, r, ListPath, http.StatusFound)
}

func (h *Handler) lookup(r *http.Request) (*entity.Article, error) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		return nil, article.ErrInvalidArticleID
	}
	return h.Articles.Get(r.Context(), id)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, data view.ArticleFormData, editing bool, id int64) {
	title := "New publication"
	data.Heading, data.Action, data.Submit = title, createPath, "Publish"
	if editing {
		title = "Edit publication"
		data.Heading, data.Action, data.Submit = title, editPath(id), "Save"
	}
	h.View.Render(w, r, http.StatusOK, view.PageArticleForm, title, data)
}

func readArticleForm(r *http.Request) entity.ArticleForm {
	return entity.ArticleForm{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	}
}

func formData(form entity.ArticleForm, errs entity.ValidationErrors) view.ArticleFormData {
	return view.ArticleFormData{Form: view.FormState[entity.ArticleForm]{Values: form, Errors: errs}}
}
