package server

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/koustreak/chococrunch/internal/frame"
	"github.com/koustreak/chococrunch/internal/render"
)

//go:embed templates/*.html
var templates embed.FS

var pageTemplate = template.Must(
	template.New("page.html").Funcs(template.FuncMap{
		"cell":     frame.Text,
		"fontSize": fontSize,
		"notice":   noticeClass,
	}).ParseFS(templates, "templates/page.html"),
)

// fontSize maps a cloud weight in (0, 1] onto 14..72px.
func fontSize(weight float64) string {
	return fmt.Sprintf("%.0fpx", 14+58*weight)
}

func noticeClass(l render.Level) string {
	switch l {
	case render.LevelSuccess:
		return "notice success"
	case render.LevelWarning:
		return "notice warning"
	default:
		return "notice info"
	}
}
