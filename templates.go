package main

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"
)

//go:embed templates/*
var templateFS embed.FS

var tmpl *template.Template

func initTemplates() {
	funcMap := template.FuncMap{
		"markdown": func(content string) template.HTML {
			var buf strings.Builder
			if err := goldmark.Convert([]byte(content), &buf); err != nil {
				return template.HTML("<p>Error rendering markdown</p>")
			}
			return template.HTML(buf.String())
		},
		"percent": func(current, target int64) int64 {
			if target <= 0 {
				return 0
			}
			p := current * 100 / target
			if p > 100 {
				p = 100
			}
			if p < 0 {
				p = 0
			}
			return p
		},
		"roleLabel": func(role string) string {
			if role == "manager" {
				return "Manager"
			}
			return "Member"
		},
	}
	tmpl = template.Must(template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html"))
}

func renderTemplate(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, err.Error(), 500)
	}
}
