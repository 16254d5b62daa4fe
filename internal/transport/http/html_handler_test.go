package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/services"
)

var testTemplates = fstest.MapFS{
	"index.html":         {Data: []byte(`<html><title>{{.Title}}</title></html>`)},
	"about.html":         {Data: []byte(`<html><h1>{{.Title}}</h1></html>`)},
	"documentation.html": {Data: []byte(`<html><h1>{{.Title}}</h1></html>`)},
	"dashboard.html": {Data: []byte(
		`<html>{{range .Core}}<section id="{{.Name}}">{{.Title}}</section>{{end}}` +
			`{{range $kind, $img := .Charts}}<img alt="{{$kind}}" src="data:image/png;base64,{{$img}}">{{end}}</html>`)},
	"error.html": {Data: []byte(`<html><h1>{{.Status}}</h1><p>{{.Message}}</p></html>`)},
}

func testHTMLHandler(t *testing.T, svc AnalyticsService) *HTMLHandler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h, err := NewHTMLHandler(svc, testTemplates, logger)
	require.NoError(t, err)
	return h
}

func TestStaticPages(t *testing.T) {
	h := testHTMLHandler(t, &stubService{})
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	for _, path := range []string{"/", "/about", "/documentation"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, "path %s", path)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode, "path %s", path)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		assert.NotEmpty(t, body)
	}
}

func TestDashboardPage(t *testing.T) {
	svc := &stubService{dashboard: &services.DashboardData{
		Report: stubReport(),
		Charts: map[string]string{"price": "aGVsbG8="},
	}}
	h := testHTMLHandler(t, svc)

	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/dashboard")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `id="descriptive"`)
	assert.Contains(t, string(body), `id="risk"`)
	assert.Contains(t, string(body), "data:image/png;base64,aGVsbG8=")
}

func TestDashboardDataNotFoundRendersErrorPage(t *testing.T) {
	h := testHTMLHandler(t, &stubService{err: services.ErrDataNotFound})

	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/dashboard")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "404")
}
