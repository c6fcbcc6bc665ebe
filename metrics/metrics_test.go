package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestRecordersAreExposed(t *testing.T) {
	ObserveRender("invoice", 20*time.Millisecond)
	AssetFallback("qr")
	Export("quotation", "share", "cancelled")
	NumberingFallback()

	body := scrape(t)
	assert.Contains(t, body, `invoicepro_renders_total{kind="invoice"}`)
	assert.Contains(t, body, `invoicepro_render_duration_seconds_bucket{kind="invoice",le="0.025"}`)
	assert.Contains(t, body, `invoicepro_asset_fallbacks_total{asset="qr"}`)
	assert.Contains(t, body, `invoicepro_exports_total{action="share",kind="quotation",outcome="cancelled"}`)
	assert.Contains(t, body, "invoicepro_numbering_fallbacks_total")
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/numbers/{kind}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/numbers/invoice", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	body := scrape(t)
	assert.Contains(t, body, `invoicepro_http_requests_total{code="418",route="/numbers/{kind}"}`)
	assert.NotContains(t, body, `route="/numbers/invoice"`)
}
