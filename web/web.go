// Package web holds the single-page quiz UI served at "/".
package web

import _ "embed"

//go:embed index.html
var indexHTML []byte

// Index returns the UI page.
func Index() []byte {
	return indexHTML
}
