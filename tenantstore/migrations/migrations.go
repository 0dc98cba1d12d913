// Package migrations embeds the SQL migration set applied to every tenant
// schema when it is provisioned.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
