// Package render turns a catalog selection into a View: the result table or
// metric card, an optional Vega-Lite chart shaped by the top-N and zoom
// sliders, a word cloud and any notices.
//
// Every render executes its statement afresh; nothing is remembered between
// calls.
package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/koustreak/chococrunch/internal/catalog"
	"github.com/koustreak/chococrunch/internal/errs"
	"github.com/koustreak/chococrunch/internal/frame"
	"github.com/koustreak/chococrunch/internal/logger"
	"github.com/koustreak/chococrunch/internal/wordcloud"
)

const (
	ZoomMin     = 90
	ZoomMax     = 100
	ZoomDefault = 99
)

// Runner executes a statement for a domain.
type Runner interface {
	Execute(ctx context.Context, domain, statement string) (*frame.Frame, error)
}

// Params are the slider positions of a request. Zero means "use the default".
type Params struct {
	TopN int
	Zoom int
}

// Validate rejects slider values no control can produce. A top-N value past
// the row count is not an error: it is clamped during rendering.
func (p Params) Validate() error {
	if p.TopN < 0 {
		return errs.Newf(errs.ErrKindInvalidInput, "top must be positive, got %d", p.TopN)
	}
	if p.Zoom != 0 && (p.Zoom < ZoomMin || p.Zoom > ZoomMax) {
		return errs.Newf(errs.ErrKindInvalidInput, "zoom must be within [%d, %d], got %d", ZoomMin, ZoomMax, p.Zoom)
	}
	return nil
}

// Renderer applies the rule table to executed results.
type Renderer struct {
	exec Runner
	log  *logger.Logger
}

// New returns a Renderer executing statements through exec.
func New(exec Runner, log *logger.Logger) *Renderer {
	if log == nil {
		log = logger.Nop()
	}
	return &Renderer{exec: exec, log: log}
}

// Render executes the entry labelled label in domain and renders it.
func (r *Renderer) Render(ctx context.Context, domain, label string, p Params) (*View, error) {
	d, ok := catalog.Lookup(domain)
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "unknown domain %q", domain)
	}
	q, ok := d.Query(label)
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "unknown query %q in domain %q", label, domain)
	}
	return r.render(ctx, d, q, p)
}

// RenderOrdinal is Render addressed by the entry's ordinal.
func (r *Renderer) RenderOrdinal(ctx context.Context, domain string, ordinal int, p Params) (*View, error) {
	d, ok := catalog.Lookup(domain)
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "unknown domain %q", domain)
	}
	q, ok := d.At(ordinal)
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "no query %d in domain %q", ordinal, domain)
	}
	return r.render(ctx, d, q, p)
}

func (r *Renderer) render(ctx context.Context, d *catalog.Domain, q catalog.Query, p Params) (*View, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rule := RuleFor(d.Key, q.Label)
	v := &View{Domain: d.Key, Label: q.Label, Ordinal: q.Ordinal()}

	if rule.Display == DisplayWordCloud {
		if err := r.wordCloud(ctx, d.Key, q, v); err != nil {
			return nil, err
		}
		return v, nil
	}

	f, err := r.exec.Execute(ctx, d.Key, q.Statement)
	if err != nil {
		return nil, err
	}
	v.Data = f

	switch rule.Display {
	case DisplayMetric:
		value, err := f.Scalar()
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindRenderFailed, "metric needs a single value", err)
		}
		label := rule.MetricLabel
		if label == "" {
			label = q.Label
		}
		v.Metric = &Metric{Label: label, Value: FormatValue(value)}
	default:
		v.Table = f
	}

	if rule.Chart != nil {
		if err := chart(rule.Chart, f, p, v); err != nil {
			return nil, err
		}
	}

	r.log.Zerolog().Debug().
		Str("domain", d.Key).
		Int("ordinal", v.Ordinal).
		Int("rows", f.Len()).
		Bool("chart", v.Chart != nil).
		Msg("rendered")
	return v, nil
}

// wordCloud runs the variant statement, which also selects the product code,
// and builds the cloud from the cleaned names.
func (r *Renderer) wordCloud(ctx context.Context, domain string, q catalog.Query, v *View) error {
	stmt := q.Variant
	if stmt == "" {
		stmt = q.Statement
	}
	f, err := r.exec.Execute(ctx, domain, stmt)
	if err != nil {
		return err
	}

	clean := frame.New()
	for _, c := range f.Columns {
		clean.Columns = append(clean.Columns, frame.Column{Name: c.Name, Kind: frame.KindText})
	}
	for _, row := range f.Rows {
		out := make([]any, len(row))
		for i, cell := range row {
			out[i] = strings.TrimSpace(frame.Text(cell))
		}
		clean.Append(out...)
	}
	v.Table, v.Data = clean, clean

	if clean.Empty() {
		v.notify(LevelWarning, "No product names available for WordCloud.")
		return nil
	}
	name := clean.Index("product_name")
	if name < 0 {
		return errs.Newf(errs.ErrKindRenderFailed, "word cloud needs product_name, got %v", clean.Names())
	}

	names := make([]string, clean.Len())
	for i := range clean.Rows {
		names[i] = clean.Cell(i, name).(string)
	}
	v.notify(LevelSuccess, fmt.Sprintf("✅ Found %d products starting with code '3'", clean.Len()))
	v.Cloud = wordcloud.Frequencies(strings.Join(names, " "), wordcloud.DefaultMax)
	return nil
}

// chart applies the chart rule to f. Empty or too-short results produce a
// notice instead of a chart.
func chart(rule *ChartRule, f *frame.Frame, p Params, v *View) error {
	needed := []string{rule.Category, rule.Rank}
	if rule.Transform != TransformGroupCount {
		// group counts produce their value column
		needed = append(needed, rule.Value)
	}
	for _, col := range needed {
		if col != "" && f.Index(col) < 0 {
			return errs.Newf(errs.ErrKindRenderFailed, "chart needs column %q, result has %v", col, f.Names())
		}
	}

	if empty(rule, f) {
		if rule.Empty != nil {
			v.notify(rule.Empty.Level, rule.Empty.Text)
		} else {
			v.notify(LevelInfo, "No rows returned, so there is nothing to chart.")
		}
		return nil
	}

	data := f
	var err error
	switch rule.Transform {
	case TransformGroupCount:
		data, err = f.GroupCount(rule.Category, rule.Count)
	case TransformMeltShare:
		data, err = f.MeltShare(rule.Category, rule.Value, rule.Other, rule.Color, rule.Count)
	}
	if err != nil {
		return errs.Wrap(errs.ErrKindRenderFailed, "failed to reshape result", err)
	}

	c := &Chart{Title: rule.Title}
	if rule.TopN != nil {
		rows := data.Len()
		if rows < rule.TopN.Min {
			v.notify(LevelInfo, fmt.Sprintf(
				"Only %d rows available; at least %d are needed to chart a top-N selection.", rows, rule.TopN.Min))
			return nil
		}
		n := clamp(p.TopN, rule.TopN.Default, rule.TopN.Min, rows)
		c.TopN = &Slider{Label: rule.TopN.Label, Min: rule.TopN.Min, Max: rows, Value: n, Param: "top"}

		if rule.Transform == TransformNLargest {
			data, err = data.NLargest(n, rule.Rank)
			if err != nil {
				return errs.Wrap(errs.ErrKindRenderFailed, "failed to rank result", err)
			}
		} else {
			data = data.Head(n)
		}
	}

	var domains [][]float64
	if rule.Zoom {
		z := p.Zoom
		if z == 0 {
			z = ZoomDefault
		}
		c.Zoom = &Slider{Label: zoomLabel, Min: ZoomMin, Max: ZoomMax, Value: z, Param: "zoom"}
		xs, _ := data.Values(rule.Category)
		ys, _ := data.Values(rule.Value)
		domains = [][]float64{zoomDomain(xs, z), zoomDomain(ys, z)}
	}

	c.Frame = data
	c.Spec = spec(rule, data, domains)
	v.Chart = c
	return nil
}

func empty(rule *ChartRule, f *frame.Frame) bool {
	if f.Empty() {
		return true
	}
	if rule.Empty != nil && rule.Empty.ZeroSum {
		sum, err := f.Sum(rule.Value)
		return err == nil && sum == 0
	}
	return false
}

// clamp resolves a requested slider value: zero picks def, and the result is
// kept within [lo, hi].
func clamp(n, def, lo, hi int) int {
	if n == 0 {
		n = def
	}
	if n < lo {
		n = lo
	}
	if n > hi {
		n = hi
	}
	return n
}
