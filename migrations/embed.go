package migrations

import "embed"

// FS holds the SQL migration files compiled into the binary so the
// server can bootstrap its schema without a deploy artifact.
//
//go:embed *.sql
var FS embed.FS
