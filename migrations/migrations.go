// Package migrations embeds the SQL schema applied at startup.
package migrations

import "embed"

// FS holds every migration file. database.RunMigrations only applies the
// *.up.sql files.
//
//go:embed *.sql
var FS embed.FS
