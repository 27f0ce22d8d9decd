package http

import (
	"html/template"
	"net/http"
)

// appShell is the single page served for every navigation the guard allows.
// The browser bundle takes over routing from here.
var appShell = template.Must(template.New("shell").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Veriport</title>
<link rel="stylesheet" href="/assets/app.css">
</head>
<body>
<div id="app" data-version="{{.Version}}"></div>
<script src="/assets/app.js" defer></script>
</body>
</html>
`))

// PageHandler renders the application shell. Route-level access decisions
// happen in the guard middleware before this handler runs.
func PageHandler(buildVersion string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := appShell.Execute(w, struct{ Version string }{Version: buildVersion}); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	})
}
