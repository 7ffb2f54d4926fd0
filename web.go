package mapty

import "embed"

// WebFS holds the browser client served at the root path.
//
//go:embed web/dist
var WebFS embed.FS
