// Copyright © 2024 The schym authors

// Package docs embeds the schym language guide for use by the CLI.
package docs

import _ "embed"

//go:embed lang.md
var LangGuide string
