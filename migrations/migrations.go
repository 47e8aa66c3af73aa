// Package migrations embeds the registry's PostgreSQL schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
