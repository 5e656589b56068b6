// Package migration holds the schema scripts, applied in lexical order.
package migration

import "embed"

//go:embed *.sql
var Scripts embed.FS
