// Package appfs embeds the app's static assets: database migrations and
// email templates.
package appfs

import "embed"

//go:embed migrations templates
var FS embed.FS
