package questflow

import _ "embed"

// Version is the release of the library and the questflow binary.
//
//go:embed VERSION
var Version string
