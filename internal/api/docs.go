package api

import (
	_ "embed"
	"net/http"
)

//go:embed openapi.json
var openAPIDocument []byte

// docsPage is a minimal viewer for the OpenAPI document.
const docsPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>proxherald API</title>
  <style>
    body { background: #1e1e2e; color: #cdd6f4; font-family: sans-serif; margin: 2rem; }
    a { color: #89b4fa; }
    code { background: #313244; padding: 0.1rem 0.4rem; border-radius: 3px; }
  </style>
</head>
<body>
  <h1>proxherald API</h1>
  <p>Forward Proxmox alerts to Discord and archive the raw alert text.</p>
  <ul>
    <li><code>POST /api/notify</code> &mdash; forward an alert and archive its message</li>
    <li><code>GET /api/logs/{id}</code> &mdash; fetch an archived alert log</li>
    <li><code>GET /health</code> &mdash; liveness check</li>
  </ul>
  <p>Full schema: <a href="/api/openapi.json">openapi.json</a></p>
</body>
</html>
`

// handleOpenAPI serves the embedded OpenAPI document.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(openAPIDocument)
}

// handleDocs serves the API docs page.
func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(docsPage))
}
