// Package web embeds the single-page editor served at the root route
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
