package flash_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-publication/internal/handler/http/flash"
)

var hashKey = []byte("0123456789abcdef0123456789abcdef")

func findCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == flash.CookieName {
			return c
		}
	}
	return nil
}

func TestStore_SurvivesRedirect(t *testing.T) {
	t.Parallel()

	store := flash.NewStore(hashKey, false)

	// POST that redirects
	rec := httptest.NewRecorder()
	store.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flash.Add(r.Context(), flash.KindSuccess, "Article published successfully!")
		http.Redirect(w, r, "/blog/publication/hello-world/", http.StatusFound)
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/blog/nouvelle-publication/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	cookie := findCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	// GET that renders the message
	var got []flash.Message
	req := httptest.NewRequest(http.MethodGet, "/blog/publication/hello-world/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	store.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = flash.Consume(r.Context())
		_, _ = w.Write([]byte("page"))
	})).ServeHTTP(rec, req)

	assert.Equal(t, []flash.Message{{Kind: flash.KindSuccess, Text: "Article published successfully!"}}, got)
	cleared := findCookie(rec)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestStore_RenderedInSameRequestNotPersisted(t *testing.T) {
	t.Parallel()

	store := flash.NewStore(hashKey, false)
	rec := httptest.NewRecorder()
	var got []flash.Message
	store.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flash.Add(r.Context(), flash.KindSuccess, "Your comment was published successfully!")
		got = flash.Consume(r.Context())
		_, _ = w.Write([]byte("page"))
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/blog/publication/x/", nil))

	assert.Len(t, got, 1)
	assert.Nil(t, findCookie(rec))
}

func TestStore_TamperedCookieIgnored(t *testing.T) {
	t.Parallel()

	store := flash.NewStore(hashKey, false)
	other := flash.NewStore([]byte("another-key-another-key-another-k"), false)

	rec := httptest.NewRecorder()
	other.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flash.Add(r.Context(), flash.KindError, "forged")
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	forged := findCookie(rec)
	require.NotNil(t, forged)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(forged)
	var got []flash.Message
	store.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = flash.Consume(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), req)
	assert.Empty(t, got)
}

func TestAddOutsideMiddleware(t *testing.T) {
	t.Parallel()

	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	flash.Add(ctx, flash.KindSuccess, "ignored")
	assert.Nil(t, flash.Consume(ctx))
}

func TestPeekAndDrop(t *testing.T) {
	t.Parallel()

	store := flash.NewStore(hashKey, false)
	var peeked, rest []flash.Message
	rec := httptest.NewRecorder()
	store.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		flash.Add(ctx, flash.KindSuccess, "Comment posted successfully!")
		peeked = flash.Peek(ctx)
		flash.Add(ctx, flash.KindError, "Invalid security token, please try again.")
		flash.Drop(ctx, len(peeked))
		rest = flash.Peek(ctx)
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []flash.Message{{Kind: flash.KindSuccess, Text: "Comment posted successfully!"}}, peeked)
	assert.Equal(t, []flash.Message{{Kind: flash.KindError, Text: "Invalid security token, please try again."}}, rest)
	require.NotNil(t, findCookie(rec), "messages added after the peek are still persisted")
}
