package workflow

import (
	"bytes"
	"embed"
	"sync"
	"text/template"
	"time"
)

const (
	CodeFileName   = "calendly_integration.py"
	ReadmeFileName = "README.md"
)

//go:embed templates/README.md.tmpl
var templatesFS embed.FS

var readmeFeatures = []string{
	"OAuth 2.0 authentication",
	"Automatic token refresh",
	"Pagination support",
	"Error handling with retry logic",
	"Rate limit compliance",
	"Structured logging",
}

var (
	readmeOnce sync.Once
	readmeTmpl *template.Template
	readmeErr  error
)

// RenderReadme produces the setup guide shipped alongside generated code,
// stamped with generatedAt.
func RenderReadme(generatedAt time.Time) string {
	readmeOnce.Do(func() {
		readmeTmpl, readmeErr = template.ParseFS(templatesFS, "templates/README.md.tmpl")
	})
	if readmeErr != nil {
		// The template is embedded; a parse failure is a build defect.
		panic(readmeErr)
	}

	var buf bytes.Buffer
	data := struct {
		GeneratedAt  string
		CodeFileName string
		Features     []string
	}{
		GeneratedAt:  generatedAt.Format("2006-01-02 15:04:05"),
		CodeFileName: CodeFileName,
		Features:     readmeFeatures,
	}
	if err := readmeTmpl.Execute(&buf, data); err != nil {
		panic(err)
	}
	return buf.String()
}
