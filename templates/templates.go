// Package templates embeds the files copied into every new project.
package templates

import "embed"

// FS holds the template trees. Each top-level directory is one project kind.
//
//go:embed all:application
var FS embed.FS

// Application is the root of the application template tree in FS.
const Application = "application"
