package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		path         string
		status       string
		duration     time.Duration
		responseSize int
	}{
		{name: "list page", method: "GET", path: "/blog/publications/liste/", status: "200", duration: 15 * time.Millisecond, responseSize: 4096},
		{name: "redirect without body", method: "POST", path: "/blog/nouvelle-publication/", status: "302", duration: time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(tt.method, tt.path, tt.status))
			assert.NotPanics(t, func() {
				RecordHTTPRequest(tt.method, tt.path, tt.status, tt.duration, tt.responseSize)
			})
			after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(tt.method, tt.path, tt.status))
			assert.Equal(t, before+1, after)
		})
	}
}

func TestBlogCounters(t *testing.T) {
	before := testutil.ToFloat64(CommentsTotal.WithLabelValues("posted"))
	RecordCommentMutation("posted")
	assert.Equal(t, before+1, testutil.ToFloat64(CommentsTotal.WithLabelValues("posted")))

	before = testutil.ToFloat64(FormRejectionsTotal.WithLabelValues("comment_form", "csrf"))
	RecordFormRejection("comment_form", "csrf")
	assert.Equal(t, before+1, testutil.ToFloat64(FormRejectionsTotal.WithLabelValues("comment_form", "csrf")))

	before = testutil.ToFloat64(LoginAttemptsTotal.WithLabelValues("failure"))
	RecordLoginAttempt("failure")
	assert.Equal(t, before+1, testutil.ToFloat64(LoginAttemptsTotal.WithLabelValues("failure")))

	before = testutil.ToFloat64(AccessDeniedTotal.WithLabelValues("forbidden"))
	RecordAccessDenied("forbidden")
	assert.Equal(t, before+1, testutil.ToFloat64(AccessDeniedTotal.WithLabelValues("forbidden")))
}

func TestSetDBCircuitState(t *testing.T) {
	SetDBCircuitState(2)
	assert.Equal(t, float64(2), testutil.ToFloat64(DBCircuitState))
	SetDBCircuitState(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(DBCircuitState))
}

func TestRecordOperationDuration(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordOperationDuration("article_list", 3*time.Millisecond)
	})
}
