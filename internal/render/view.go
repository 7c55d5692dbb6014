package render

import (
	"math"
	"strconv"

	"github.com/koustreak/chococrunch/internal/frame"
	"github.com/koustreak/chococrunch/internal/wordcloud"
)

// Level is the severity of a Notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
)

// Notice is a message shown in place of, or next to, a chart.
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Metric is a single labelled value.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Slider describes an integer range control and its current position.
type Slider struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Value int    `json:"value"`
	Param string `json:"param"` // query parameter carrying the value
}

// Chart is a Vega-Lite specification plus the controls that shaped it.
type Chart struct {
	Title string         `json:"title"`
	Spec  map[string]any `json:"spec"`
	TopN  *Slider        `json:"top_n,omitempty"`
	Zoom  *Slider        `json:"zoom,omitempty"`
	Frame *frame.Frame   `json:"-"` // rows the chart plots
}

// View is everything one query selection renders to.
type View struct {
	Domain  string           `json:"domain"`
	Label   string           `json:"label"`
	Ordinal int              `json:"ordinal"`
	Table   *frame.Frame     `json:"table,omitempty"`
	Metric  *Metric          `json:"metric,omitempty"`
	Chart   *Chart           `json:"chart,omitempty"`
	Cloud   []wordcloud.Word `json:"cloud,omitempty"`
	Notices []Notice         `json:"notices,omitempty"`

	// Data is the result the view was rendered from; the cleaned frame for
	// the word cloud entry. Exports read it.
	Data *frame.Frame `json:"-"`
}

func (v *View) notify(level Level, text string) {
	v.Notices = append(v.Notices, Notice{Level: level, Text: text})
}

// FormatValue renders a metric cell: integers without a fractional part,
// floats in their shortest form and NULL as "n/a".
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "n/a"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if math.IsNaN(x) {
			return "n/a"
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return frame.Text(x)
	}
}
