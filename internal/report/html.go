package report

import (
	"html/template"
	"io"

	"github.com/thomas-vilte/forkdiff/internal/models"
)

// Markers already carry escaped commit details, so they are inserted as HTML.
var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"marker": func(m models.DivergenceMarker) template.HTML {
		if m.IsEmpty() {
			return ""
		}
		return template.HTML(m)
	},
	"date": formatDate,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Forks of {{.Repository}}</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@4.6.2/dist/css/bootstrap.min.css">
</head>
<body class="container-fluid py-3">
<h1 class="h4">Forks of <a href="https://github.com/{{.Repository}}">{{.Repository}}</a></h1>
<table class="table table-sm table-striped">
<thead>
<tr><th>Repository</th><th>Branch</th><th>Stars</th><th>Forks</th><th>Issues</th><th>Size</th><th>Last push</th><th>Behind</th><th>Ahead</th></tr>
</thead>
<tbody>
{{- range .Records}}
<tr>
<td><a href="https://github.com/{{.FullName}}">{{.FullName}}</a></td>
<td>{{.DefaultBranch}}</td>
<td>{{.StargazersCount}}</td>
<td>{{.Forks}}</td>
<td>{{.OpenIssuesCount}}</td>
<td>{{.Size}}</td>
<td>{{date .}}</td>
<td>{{marker .DiffFromOriginal}}</td>
<td>{{marker .DiffToOriginal}}</td>
</tr>
{{- end}}
</tbody>
</table>
<p class="text-muted small">{{.Footer}}</p>
<script src="https://cdn.jsdelivr.net/npm/jquery@3.7.1/dist/jquery.slim.min.js"></script>
<script src="https://cdn.jsdelivr.net/npm/bootstrap@4.6.2/dist/js/bootstrap.bundle.min.js"></script>
<script>$(function () { $('[data-toggle="popover"]').popover(); });</script>
</body>
</html>
`))

type page struct {
	Repository string
	Records    []models.ForkRecord
	Footer     string
}

func writeHTML(w io.Writer, r *models.DivergenceReport, records []models.ForkRecord) error {
	return pageTemplate.Execute(w, page{
		Repository: r.Original.FullName,
		Records:    records,
		Footer:     footer(r),
	})
}
