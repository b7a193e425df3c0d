package suggest

import (
	"embed"
	"strings"
	"text/template"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

//go:embed prompts/system.txt
var systemPromptRaw string

// SystemMessage fixes tone and format for every category.
var SystemMessage = strings.TrimSpace(systemPromptRaw)

// promptTemplates holds one template per category, named "<category>.tmpl".
// Parsed once at package init; reused on every Generate call.
var promptTemplates = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

// promptData is what the category templates render.
type promptData struct {
	JobTitle   string
	Count      int
	References []string
}
