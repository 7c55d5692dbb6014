package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/koustreak/chococrunch/internal/catalog"
	"github.com/koustreak/chococrunch/internal/errs"
	"github.com/koustreak/chococrunch/internal/export"
	"github.com/koustreak/chococrunch/internal/logger"
	"github.com/koustreak/chococrunch/internal/render"
)

type handler struct {
	deps Deps
	page *template.Template
}

// ────────────────────────────────────────────────────────────────────────────
// GET /tabs/{domain}?q=&top=&zoom=
// ────────────────────────────────────────────────────────────────────────────

type tab struct {
	Key    string
	Title  string
	Active bool
}

type option struct {
	Ordinal  int
	Label    string
	Selected bool
}

type pageData struct {
	Tabs    []tab
	Domain  *catalog.Domain
	Options []option
	View    *render.View
	Spec    template.JS
	Error   string
}

// Page renders the dashboard with one domain tab active. Every request
// re-executes the selected query; the sliders submit as plain GET forms.
func (h *handler) Page(w http.ResponseWriter, r *http.Request) {
	d, ok := catalog.Lookup(chi.URLParam(r, "domain"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := pageData{Domain: d}
	for _, dom := range catalog.Domains() {
		data.Tabs = append(data.Tabs, tab{Key: dom.Key, Title: dom.Title, Active: dom.Key == d.Key})
	}

	status := http.StatusOK
	ordinal, params, err := parseSelection(r, 1)
	if err == nil {
		data.View, err = h.deps.Renderer.RenderOrdinal(r.Context(), d.Key, ordinal, params)
	}
	if err != nil {
		status = errs.HTTPStatus(err)
		data.Error = err.Error()
		logger.FromContext(r.Context()).ErrorWith("render failed", err, map[string]any{"domain": d.Key, "q": ordinal})
	}

	for _, q := range d.Queries {
		data.Options = append(data.Options, option{Ordinal: q.Ordinal(), Label: q.Label, Selected: q.Ordinal() == ordinal})
	}
	if data.View != nil && data.View.Chart != nil {
		spec, err := json.Marshal(data.View.Chart.Spec)
		if err != nil {
			status = http.StatusInternalServerError
			data.Error = fmt.Sprintf("failed to encode chart: %v", err)
		}
		data.Spec = template.JS(spec)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.page.Execute(w, data); err != nil {
		logger.FromContext(r.Context()).ErrorWith("page template failed", err, nil)
	}
}

// ────────────────────────────────────────────────────────────────────────────
// GET /api/domains
// ────────────────────────────────────────────────────────────────────────────

type queryEntry struct {
	Ordinal int    `json:"ordinal"`
	Label   string `json:"label"`
}

type domainEntry struct {
	Key     string       `json:"key"`
	Title   string       `json:"title"`
	Queries []queryEntry `json:"queries"`
}

// Domains lists the catalog.
func (h *handler) Domains(w http.ResponseWriter, _ *http.Request) {
	out := make([]domainEntry, 0, len(catalog.Domains()))
	for _, d := range catalog.Domains() {
		e := domainEntry{Key: d.Key, Title: d.Title}
		for _, q := range d.Queries {
			e.Queries = append(e.Queries, queryEntry{Ordinal: q.Ordinal(), Label: q.Label})
		}
		out = append(out, e)
	}
	writeJSON(w, http.StatusOK, out)
}

// ────────────────────────────────────────────────────────────────────────────
// GET /api/domains/{domain}/queries/{ordinal}?top=&zoom=
// ────────────────────────────────────────────────────────────────────────────

// Query renders one entry as JSON.
func (h *handler) Query(w http.ResponseWriter, r *http.Request) {
	v, err := h.render(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ────────────────────────────────────────────────────────────────────────────
// GET /export/{domain}/{ordinal}.xlsx
// ────────────────────────────────────────────────────────────────────────────

// Export downloads the full result of one entry as a workbook.
func (h *handler) Export(w http.ResponseWriter, r *http.Request) {
	v, err := h.render(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	name := fmt.Sprintf("%s-%s", v.Domain, export.Slug(v.Label))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, name))
	if err := export.WriteXLSX(w, name, v.Data); err != nil {
		logger.FromContext(r.Context()).ErrorWith("export failed", err, map[string]any{"domain": v.Domain})
	}
}

// ────────────────────────────────────────────────────────────────────────────
// POST /api/domains/{domain}/queries/{ordinal}/archive
// ────────────────────────────────────────────────────────────────────────────

// Archive stores the entry's result in the report bucket and returns a
// presigned link to it.
func (h *handler) Archive(w http.ResponseWriter, r *http.Request) {
	if h.deps.Archiver == nil {
		h.fail(w, r, errs.New(errs.ErrKindDisabled, "report archive is not configured"))
		return
	}
	v, err := h.render(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := h.deps.Archiver.Archive(r.Context(), v.Domain, v.Label, v.Data)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// ────────────────────────────────────────────────────────────────────────────
// Health
// ────────────────────────────────────────────────────────────────────────────

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz pings the store and checks the schema; object storage is probed
// only when configured.
func (h *handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checks := map[string]string{"database": "ok"}
	status := http.StatusOK

	if err := h.deps.DB.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	} else if h.deps.Schema != nil {
		checks["schema"] = "ok"
		report, err := h.deps.Schema.Verify(ctx)
		switch {
		case err != nil:
			checks["schema"] = err.Error()
			status = http.StatusServiceUnavailable
		case !report.OK():
			checks["schema"] = fmt.Sprintf("missing tables %v, missing columns %v", report.MissingTables, report.MissingColumns)
			status = http.StatusServiceUnavailable
		}
	}
	if h.deps.Store != nil {
		checks["filestore"] = "ok"
		if err := h.deps.Store.Ping(ctx); err != nil {
			checks["filestore"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, checks)
}

// ────────────────────────────────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────────────────────────────────

func (h *handler) render(r *http.Request) (*render.View, error) {
	domain := chi.URLParam(r, "domain")
	ordinal, err := strconv.Atoi(chi.URLParam(r, "ordinal"))
	if err != nil {
		return nil, errs.Newf(errs.ErrKindNotFound, "no query %q", chi.URLParam(r, "ordinal"))
	}
	_, params, err := parseSelection(r, ordinal)
	if err != nil {
		return nil, err
	}
	return h.deps.Renderer.RenderOrdinal(r.Context(), domain, ordinal, params)
}

// parseSelection reads q, top and zoom from the query string. A missing q
// selects def.
func parseSelection(r *http.Request, def int) (int, render.Params, error) {
	var p render.Params
	ordinal, err := intParam(r, "q", def)
	if err != nil {
		return def, p, err
	}
	if p.TopN, err = intParam(r, "top", 0); err != nil {
		return ordinal, p, err
	}
	if p.Zoom, err = intParam(r, "zoom", 0); err != nil {
		return ordinal, p, err
	}
	return ordinal, p, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def, errs.Newf(errs.ErrKindInvalidInput, "%s must be an integer, got %q", name, s)
	}
	return n, nil
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).ErrorWith("request failed", err, map[string]any{"path": r.URL.Path})
	}
	writeError(w, status, err.Error())
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
