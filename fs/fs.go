package appfs

import "embed"

// FS embeds non-Go assets shipped with the binaries.
//go:embed migrations
var FS embed.FS
