package renderer

import (
	"embed"
)

// templatesFS contains the Handlebars templates for the site shell.
//
//go:embed templates
var templatesFS embed.FS
