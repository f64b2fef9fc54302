package ui

import "embed"

//go:embed templates/*.html static/css/* static/js/* content/*.md
var embeddedFiles embed.FS
