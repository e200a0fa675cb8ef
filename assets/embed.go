// Package assets embeds the browser client: a canvas page and the script
// that paints server frames and forwards arrow keys.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed web
var files embed.FS

// Web returns the client files rooted at web/.
func Web() fs.FS {
	sub, err := fs.Sub(files, "web")
	if err != nil {
		panic(err)
	}
	return sub
}
