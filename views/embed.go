// Package views embeds the HTML templates and static assets so the binary
// can run from any working directory.
package views

import (
	"embed"
	"io/fs"
)

//go:embed layouts/*.html partials/*.html *.html
var Templates embed.FS

//go:embed static
var static embed.FS

// Static returns the static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
