package handlers

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"
	"sort"
	"strings"
)

//go:embed openapi.json
var openAPISpec []byte

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}} <small>{{.Version}}</small></h1>
<p>Machine-readable document: <a href="/v1/openapi.json">/v1/openapi.json</a></p>
<table>
<tr><th>Method</th><th>Path</th><th>Summary</th></tr>
{{- range .Routes}}
<tr><td><code>{{.Method}}</code></td><td><code>{{.Path}}</code></td><td>{{.Summary}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

type docsRoute struct {
	Method, Path, Summary string
}

// renderDocs lists the operations of the embedded document. The page works
// offline, like the rest of the bridge.
func renderDocs(spec []byte) ([]byte, error) {
	var doc struct {
		Info struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Paths map[string]map[string]struct {
			Summary string `json:"summary"`
		} `json:"paths"`
	}
	if err := json.Unmarshal(spec, &doc); err != nil {
		return nil, err
	}
	var routes []docsRoute
	for path, ops := range doc.Paths {
		for method, op := range ops {
			routes = append(routes, docsRoute{Method: strings.ToUpper(method), Path: path, Summary: op.Summary})
		}
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	var buf bytes.Buffer
	err := docsPage.Execute(&buf, map[string]any{
		"Title":   doc.Info.Title,
		"Version": doc.Info.Version,
		"Routes":  routes,
	})
	return buf.Bytes(), err
}

func writeStatic(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	writeStatic(w, "application/json; charset=utf-8", openAPISpec)
}

func (a *App) OpenAPIDocs(w http.ResponseWriter, _ *http.Request) {
	page, err := renderDocs(openAPISpec)
	if err != nil {
		a.Logger.Error().Err(err).Msg("render api docs")
		a.error(w, http.StatusInternalServerError, "internal", "api docs unavailable")
		return
	}
	writeStatic(w, "text/html; charset=utf-8", page)
}
