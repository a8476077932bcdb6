package gen

import (
	"strings"
	"text/template"
)

const indexName = "index.ts"

// headerData feeds the banner printed above every unit file.
type headerData struct {
	Source   string
	Adapters []string
}

// indexData feeds a package index file.
type indexData struct {
	Header  bool
	Modules []string
}

var headerTemplate = template.Must(template.New("header").Funcs(template.FuncMap{"join": strings.Join}).Parse(`// Code generated by go2ts from {{.Source}}. DO NOT EDIT.
{{- if .Adapters}}
// adapters: {{join .Adapters ", "}}
{{- end}}

`))

var indexTemplate = template.Must(template.New("index").Parse(`{{if .Header}}// Code generated by go2ts. DO NOT EDIT.

{{end}}
{{- range .Modules}}export * from "{{.}}";
{{end}}`))

func renderHeader(data headerData) string {
	var sb strings.Builder
	if err := headerTemplate.Execute(&sb, data); err != nil {
		panic(err)
	}

	return sb.String()
}

func renderIndex(data indexData) string {
	var sb strings.Builder
	if err := indexTemplate.Execute(&sb, data); err != nil {
		panic(err)
	}

	return sb.String()
}
