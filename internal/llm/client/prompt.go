package client

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"apiforge/internal/models"
)

const integrationPromptFile = "prompts/integration.txt"

var (
	integrationTmplOnce sync.Once
	integrationTmpl     *template.Template
	integrationTmplErr  error
)

type promptData struct {
	DocURL     string
	AuthMethod string
	Language   string
	Extras     []string
}

func loadIntegrationTemplate() (*template.Template, error) {
	integrationTmplOnce.Do(func() {
		raw, err := embeddedPrompts.ReadFile(integrationPromptFile)
		if err != nil {
			integrationTmplErr = fmt.Errorf("read prompt template: %w", err)
			return
		}
		integrationTmpl, integrationTmplErr = template.New("integration").Parse(string(raw))
	})
	return integrationTmpl, integrationTmplErr
}

// BuildIntegrationPrompt renders the generation prompt for req. The output is
// a pure function of req and opts.
func BuildIntegrationPrompt(req models.GenerationRequest, opts models.IntegrationOptions) (string, error) {
	docURL := strings.TrimSpace(req.DocURL)
	if docURL == "" {
		return "", fmt.Errorf("doc URL is required")
	}
	lang := req.Language
	if lang == "" {
		lang = models.DefaultLanguage
	}

	tmpl, err := loadIntegrationTemplate()
	if err != nil {
		return "", err
	}

	data := promptData{
		DocURL:     docURL,
		AuthMethod: req.AuthMethod.Label(),
		Language:   string(lang),
		Extras:     optionRequirements(opts),
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

func optionRequirements(opts models.IntegrationOptions) []string {
	var out []string
	if opts.CustomRateLimit {
		out = append(out, "Custom rate limit handling with a configurable requests-per-minute budget")
	}
	if opts.Webhooks {
		out = append(out, "Webhook support: subscription management and signature verification")
	}
	if opts.CustomRetry {
		out = append(out, "Custom retry logic with configurable attempts and backoff base")
	}
	return out
}
