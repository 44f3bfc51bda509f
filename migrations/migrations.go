// Package migrations embeds the schema for each supported driver. Files are
// applied in name order and checksummed by internal/core/db.
package migrations

import "embed"

//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
