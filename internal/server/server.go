// Package server is the preview server: it renders stored field documents as
// HTML pages, serves the documents in the shape the controller fetches, and
// ships the browser runtime assets.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	theme "github.com/goliatone/go-theme"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
)

// Route prefixes.
const (
	FormsPath  = "/forms"
	APIPath    = "/api"
	AssetsPath = "/assets"
)

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRegistry registers metrics with reg and serves them from gatherer.
func WithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.registerer = reg
		s.gatherer = gatherer
	}
}

// WithTheme applies theme tokens and asset overrides to rendered pages.
func WithTheme(rc *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = rc
	}
}

// WithDecorators runs decorators on every document before rendering.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(s *Server) {
		s.decorators = append(s.decorators, decorators...)
	}
}

// Server serves form previews.
type Server struct {
	cfg        config.Config
	store      Store
	logger     zerolog.Logger
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	theme      *theme.RendererConfig
	decorators []model.Decorator

	renderers *render.Registry
	metrics   *Collector
	router    chi.Router
}

// New builds a server over store.
func New(cfg config.Config, store Store, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, errors.New("server: store is required")
	}
	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.registerer == nil {
		reg := prometheus.NewRegistry()
		s.registerer, s.gatherer = reg, reg
	}

	page, err := html.New(
		html.WithPage(""),
		html.WithTheme(s.theme),
		html.WithAssetsBase(AssetsPath+"/"),
	)
	if err != nil {
		return nil, fmt.Errorf("server: html renderer: %w", err)
	}
	fragment, err := html.New(html.WithTheme(s.theme), html.WithAssetsBase(AssetsPath+"/"))
	if err != nil {
		return nil, fmt.Errorf("server: html renderer: %w", err)
	}
	s.renderers = render.NewRegistry()
	s.renderers.MustRegister(namedRenderer{Renderer: page, name: outputPage})
	s.renderers.MustRegister(namedRenderer{Renderer: fragment, name: outputFragment})

	s.metrics = NewCollector(s.registerer)
	s.router = s.routes()
	return s, nil
}

const (
	outputPage     = "page"
	outputFragment = "fragment"
)

// namedRenderer registers a renderer under another name.
type namedRenderer struct {
	render.Renderer
	name string
}

func (n namedRenderer) Name() string { return n.name }

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware(s.metrics))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.cfg.Server.Metrics {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get(FormsPath+"/{formID}", s.handleForm)
	r.Get(APIPath+"/*", s.handleDocument)
	r.Handle(AssetsPath+"/*", http.StripPrefix(AssetsPath+"/", http.FileServer(http.FS(html.AssetsFS()))))
	return r
}

// handleForm renders a stored form. ?tenantId= (or ?portalId=) sets the
// tenant and ?fragment=1 omits the page shell.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")
	form, ok := s.loadForm(w, r, formID)
	if !ok {
		return
	}

	output := outputPage
	if r.URL.Query().Get("fragment") != "" {
		output = outputFragment
	}
	body, contentType, err := s.renderers.Render(r.Context(), output, form, render.RenderOptions{
		SubmitURL: s.cfg.SaveURL,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("form_id", formID).Msg("render form")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	s.metrics.FormsRendered.WithLabelValues(formID, output).Inc()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// handleDocument answers the controller's field fetch:
// GET /api/{assets_prefix}{formId}.json?formId=..&portalId=..
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(chi.URLParam(r, "*"), strings.Trim(s.cfg.AssetsPrefix, "/"))
	name = strings.TrimPrefix(name, "/")
	formID, ok := strings.CutSuffix(name, ".json")
	if !ok {
		http.NotFound(w, r)
		return
	}
	form, ok := s.loadForm(w, r, formID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, form.Fields)
}

func (s *Server) loadForm(w http.ResponseWriter, r *http.Request, formID string) (model.Form, bool) {
	fields, err := s.store.Load(r.Context(), formID)
	if err != nil {
		if errors.Is(err, ErrFormNotFound) {
			s.metrics.DocumentErrors.WithLabelValues("not_found").Inc()
			http.NotFound(w, r)
			return model.Form{}, false
		}
		s.metrics.DocumentErrors.WithLabelValues("load").Inc()
		s.logger.Error().Err(err).Str("form_id", formID).Msg("load field document")
		http.Error(w, "field document unavailable", http.StatusInternalServerError)
		return model.Form{}, false
	}

	query := r.URL.Query()
	tenant := query.Get("tenantId")
	if tenant == "" {
		tenant = query.Get("portalId")
	}
	form := model.Form{ID: formID, TenantID: tenant, Fields: fields}
	for _, decorator := range s.decorators {
		if err := decorator.Decorate(&form); err != nil {
			s.logger.Error().Err(err).Str("form_id", formID).Msg("decorate form")
			http.Error(w, "field document unavailable", http.StatusInternalServerError)
			return model.Form{}, false
		}
	}
	return form, true
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("preview server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
