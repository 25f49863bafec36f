// Package migrations embeds the slot table schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
