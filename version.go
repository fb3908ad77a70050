package voyant

import _ "embed"

// Version is the library release, read from version.txt at build time.
//
//go:embed version.txt
var Version string
