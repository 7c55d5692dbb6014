// Package server is the dashboard's HTTP surface: the tabbed HTML page, the
// JSON API behind it, workbook downloads and the operational endpoints.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/koustreak/chococrunch/internal/catalog"
	"github.com/koustreak/chococrunch/internal/export"
	"github.com/koustreak/chococrunch/internal/logger"
	"github.com/koustreak/chococrunch/internal/render"
	"github.com/koustreak/chococrunch/internal/schema"
)

// Pinger is anything /readyz can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Verifier checks the store has the tables the catalog reads.
type Verifier interface {
	Verify(ctx context.Context) (*schema.Report, error)
}

// Deps are the collaborators the router serves from. Archiver and Store may
// be nil when object storage is not configured.
type Deps struct {
	Renderer *render.Renderer
	DB       Pinger
	Schema   Verifier
	Archiver *export.Archiver
	Store    Pinger
	Log      *logger.Logger

	// RequestTimeout bounds each request; zero leaves requests unbounded.
	RequestTimeout time.Duration
}

// NewRouter wires all handlers and returns the chi router.
func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	h := &handler{deps: d, page: pageTemplate}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(d.Log.Middleware)
	r.Use(middleware.Recoverer)
	if d.RequestTimeout > 0 {
		r.Use(middleware.Timeout(d.RequestTimeout))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/tabs/"+catalog.Product, http.StatusFound)
	})
	r.Get("/tabs/{domain}", h.Page)

	r.Route("/api/domains", func(r chi.Router) {
		r.Get("/", h.Domains)
		r.Get("/{domain}/queries/{ordinal}", h.Query)
		r.Post("/{domain}/queries/{ordinal}/archive", h.Archive)
	})
	r.Get("/export/{domain}/{ordinal}.xlsx", h.Export)

	r.Get("/healthz", handleHealthz)
	r.Get("/readyz", h.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
