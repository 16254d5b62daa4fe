package http

import (
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"marketlens/internal/analytics"
	"marketlens/internal/services"
)

// HTMLHandler renders the web pages from templates embedded at build
// time.
type HTMLHandler struct {
	service   AnalyticsService
	templates *template.Template
	logger    *slog.Logger
}

// NewHTMLHandler parses every template in templateFS and creates the
// page handler.
func NewHTMLHandler(service AnalyticsService, templateFS fs.FS, logger *slog.Logger) (*HTMLHandler, error) {
	templates, err := template.ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, err
	}
	return &HTMLHandler{
		service:   service,
		templates: templates,
		logger:    logger.With(slog.String("component", "html_handler")),
	}, nil
}

// Routes returns the page routes.
func (h *HTMLHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Index)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/about", h.About)
	r.Get("/documentation", h.Documentation)

	return r
}

type pageData struct {
	Title string
	Year  int
}

// Index handles GET /.
func (h *HTMLHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "index.html", pageData{Title: "MarketLens", Year: time.Now().Year()})
}

// About handles GET /about.
func (h *HTMLHandler) About(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "about.html", pageData{Title: "About", Year: time.Now().Year()})
}

// Documentation handles GET /documentation.
func (h *HTMLHandler) Documentation(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "documentation.html", pageData{Title: "Documentation", Year: time.Now().Year()})
}

type dashboardPageData struct {
	pageData
	Core   []analytics.Group
	Charts map[string]string
}

// Dashboard handles GET /dashboard: the four core metric groups plus
// inline charts.
func (h *HTMLHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.GetDashboard(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderPage(w, r, "dashboard.html", dashboardPageData{
		pageData: pageData{Title: "Dashboard", Year: time.Now().Year()},
		Core:     data.Report.Core(),
		Charts:   data.Charts,
	})
}

func (h *HTMLHandler) renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render page",
			slog.String("template", name),
			slog.String("error", err.Error()))
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
	}
}

// renderError shows the error page. Missing data renders as 404, the
// rest as 500 without internals.
func (h *HTMLHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong while preparing the page."
	if errors.Is(err, services.ErrDataNotFound) {
		status = http.StatusNotFound
		message = "The market data source could not be found."
	}

	h.logger.ErrorContext(r.Context(), "page request failed",
		slog.Int("status", status),
		slog.String("error", err.Error()))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if tplErr := h.templates.ExecuteTemplate(w, "error.html", struct {
		Title   string
		Year    int
		Status  int
		Message string
	}{Title: "Error", Year: time.Now().Year(), Status: status, Message: message}); tplErr != nil {
		http.Error(w, message, status)
	}
}
