package render

import (
	"math"

	"github.com/koustreak/chococrunch/internal/frame"
)

const vegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

const (
	nominal      = "nominal"
	quantitative = "quantitative"
)

// spec assembles a Vega-Lite specification for rule over the rows of f.
// Scatter plots get their axis domains from domains (x then y); nil leaves
// the scale unclipped.
func spec(rule *ChartRule, f *frame.Frame, domains [][]float64) map[string]any {
	s := map[string]any{
		"$schema": vegaLiteSchema,
		"width":   "container",
		"data":    map[string]any{"values": f.Records()},
	}

	switch rule.Mark {
	case MarkBar, MarkStacked:
		value := rule.Value
		if rule.Mark == MarkStacked {
			value = rule.Count
		}
		x := field(rule.Category, nominal, rule.CategoryTitle)
		if rule.Mark == MarkBar {
			withSort(x, rule, f, "-y")
		}
		s["mark"] = barMark(rule)
		s["encoding"] = withColor(rule, f, map[string]any{
			"x": x,
			"y": field(value, quantitative, rule.ValueTitle),
		})

	case MarkHBar:
		y := field(rule.Category, nominal, rule.CategoryTitle)
		withSort(y, rule, f, "-x")
		s["mark"] = barMark(rule)
		s["encoding"] = withColor(rule, f, map[string]any{
			"y": y,
			"x": field(rule.Value, quantitative, rule.ValueTitle),
		})

	case MarkLollipop:
		s["encoding"] = map[string]any{
			"x": field(rule.Category, nominal, rule.CategoryTitle),
			"y": field(rule.Value, quantitative, rule.ValueTitle),
		}
		s["layer"] = []any{
			map[string]any{
				"mark":     map[string]any{"type": "rule", "color": "black"},
				"encoding": map[string]any{"y2": map[string]any{"datum": 0}},
			},
			map[string]any{
				"mark":     map[string]any{"type": "circle", "size": 200},
				"encoding": withColor(rule, f, map[string]any{}),
			},
		}

	case MarkDonut:
		s["mark"] = map[string]any{"type": "arc", "innerRadius": rule.InnerRadius}
		enc := map[string]any{
			"theta": map[string]any{"field": rule.Value, "type": quantitative, "stack": true},
			"color": field(rule.Category, nominal, rule.ColorTitle),
		}
		s["encoding"] = withTooltip(rule, enc)

	case MarkScatter:
		x := field(rule.Category, quantitative, rule.CategoryTitle)
		y := field(rule.Value, quantitative, rule.ValueTitle)
		if len(domains) == 2 && domains[0] != nil {
			x["scale"] = scale(domains[0])
		}
		if len(domains) == 2 && domains[1] != nil {
			y["scale"] = scale(domains[1])
		}
		s["mark"] = map[string]any{"type": "circle", "size": 100, "clip": true}
		s["encoding"] = withColor(rule, f, map[string]any{"x": x, "y": y})
		s["params"] = []any{map[string]any{
			"name":   "grid",
			"select": "interval",
			"bind":   "scales",
		}}
	}
	return s
}

func field(name, typ, title string) map[string]any {
	m := map[string]any{"field": name, "type": typ}
	if title != "" {
		m["title"] = title
	}
	return m
}

func barMark(rule *ChartRule) map[string]any {
	m := map[string]any{"type": "bar"}
	if rule.Color == "" && rule.FixedColor != "" {
		m["color"] = rule.FixedColor
	}
	return m
}

// withSort sets the sort of a category channel. Result order is pinned with
// an explicit list of the category values.
func withSort(ch map[string]any, rule *ChartRule, f *frame.Frame, byValue string) {
	switch rule.Sort {
	case SortByValue:
		ch["sort"] = byValue
	case SortResultOrder:
		idx := f.Index(rule.Category)
		if idx < 0 {
			return
		}
		order := make([]string, 0, f.Len())
		for i := range f.Rows {
			order = append(order, frame.Text(f.Cell(i, idx)))
		}
		ch["sort"] = order
	}
}

// withColor adds the colour channel. Numeric columns get a sequential
// scheme, anything else a categorical one.
func withColor(rule *ChartRule, f *frame.Frame, enc map[string]any) map[string]any {
	if rule.Color != "" {
		typ := nominal
		if i := f.Index(rule.Color); i >= 0 && numericKind(f.Columns[i].Kind) {
			typ = quantitative
		}
		c := field(rule.Color, typ, rule.ColorTitle)
		if rule.Scheme != "" {
			c["scale"] = map[string]any{"scheme": rule.Scheme}
		}
		if rule.NoLegend {
			c["legend"] = nil
		}
		enc["color"] = c
	}
	return withTooltip(rule, enc)
}

func withTooltip(rule *ChartRule, enc map[string]any) map[string]any {
	if len(rule.Tooltip) == 0 {
		return enc
	}
	tips := make([]any, len(rule.Tooltip))
	for i, name := range rule.Tooltip {
		tips[i] = map[string]any{"field": name}
	}
	enc["tooltip"] = tips
	return enc
}

func scale(domain []float64) map[string]any {
	return map[string]any{"domain": domain, "zero": false}
}

// zoomDomain is the [(100-z)th, zth] percentile range of vals, or nil when
// vals has no numbers.
func zoomDomain(vals []float64, zoom int) []float64 {
	lo := frame.Quantile(vals, float64(100-zoom)/100)
	hi := frame.Quantile(vals, float64(zoom)/100)
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return nil
	}
	return []float64{lo, hi}
}

func numericKind(k frame.Kind) bool {
	return k == frame.KindInt || k == frame.KindFloat
}
