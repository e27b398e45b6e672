// Package templates embeds the HTML pages and static assets.
package templates

import "embed"

//go:embed layouts partials store admin static
var FS embed.FS
