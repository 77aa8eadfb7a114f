// Package migrations embeds the SQL migration files into the binary so the
// server can apply them at startup without the files being present on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
