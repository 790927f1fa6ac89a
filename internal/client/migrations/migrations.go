// Package migrations embeds the client's local database migrations,
// applied with goose at startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
