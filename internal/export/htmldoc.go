package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/University-Of-Livingstonia/EMS-sub000/internal/domain"
)

// PDFDocument renders the report as a print-oriented HTML page. The source
// system served this for its "PDF" download; the shortcut is kept, but the
// document is served honestly as text/html with an .html filename.
func PDFDocument(report domain.Report) ([]byte, error) {
	data := documentData{
		Title:       capitalize(string(report.Type)) + " Report",
		Start:       report.Range.Start.Format(dateLayout),
		End:         report.Range.End.Format(dateLayout),
		GeneratedAt: report.GeneratedAt.Format("2006-01-02 15:04 MST"),
		Tables:      Tables(report),
	}
	for _, section := range report.Omitted {
		data.Omitted = append(data.Omitted, strings.ReplaceAll(section, "_", " "))
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render report document: %w", err)
	}
	return buf.Bytes(), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type documentData struct {
	Title       string
	Start       string
	End         string
	GeneratedAt string
	Tables      []Table
	Omitted     []string
}

var documentTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
	body { font-family: Arial, Helvetica, sans-serif; margin: 2em; color: #222; }
	h1 { font-size: 1.4em; margin-bottom: 0; }
	p.meta { color: #666; margin-top: 0.2em; }
	h2 { font-size: 1.1em; margin-top: 1.5em; text-transform: capitalize; }
	table { border-collapse: collapse; width: 100%; margin-top: 0.5em; }
	th, td { border: 1px solid #bbb; padding: 4px 8px; font-size: 0.85em; text-align: left; }
	th { background: #f0f0f0; }
	tr:nth-child(even) td { background: #fafafa; }
	p.empty { color: #888; font-style: italic; }
	p.omitted { color: #a33; font-size: 0.85em; }
	@media print { body { margin: 0.5em; } }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">{{.Start}} to {{.End}} &middot; generated {{.GeneratedAt}}</p>
{{- if .Omitted}}
<p class="omitted">Unavailable sections: {{range $i, $s := .Omitted}}{{if $i}}, {{end}}{{$s}}{{end}}</p>
{{- end}}
{{- range .Tables}}
<h2>{{.Name}}</h2>
{{- if .Rows}}
<table>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</table>
{{- else}}
<p class="empty">No data for this period.</p>
{{- end}}
{{- end}}
</body>
</html>
`))
