package assets

import "embed"

// Functions holds the jq helpers installed by `forest-bench functions install`.
//
//go:embed functions/*.jq
var Functions embed.FS
