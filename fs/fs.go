// Package appfs embeds runtime assets (database migrations).
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
