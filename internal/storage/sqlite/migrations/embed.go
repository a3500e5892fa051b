package migrations

import "embed"

// FS contains the embedded schema for the sheet store.
//
//go:embed *.sql
var FS embed.FS
