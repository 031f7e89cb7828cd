package models

// GenerationMode records which path produced the session's code.
type GenerationMode string

const (
	ModeAI       GenerationMode = "ai"
	ModeFallback GenerationMode = "fallback"
)

// GenerationRequest is built fresh for every generation attempt and never mutated.
type GenerationRequest struct {
	DocURL     string
	AuthMethod AuthMethod
	Language   Language
}

// NewGenerationRequest builds a request, defaulting the language when empty.
func NewGenerationRequest(docURL string, auth AuthMethod, lang Language) GenerationRequest {
	if lang == "" {
		lang = DefaultLanguage
	}
	return GenerationRequest{DocURL: docURL, AuthMethod: auth, Language: lang}
}

// GeneratedCode is what the workflow observes from a generation run. Code is
// never empty: failures are folded into the fallback sample and described in
// Diagnostic.
type GeneratedCode struct {
	Code       string         `json:"code"`
	Insights   []string       `json:"insights"`
	Mode       GenerationMode `json:"mode"`
	ModelKey   string         `json:"modelKey,omitempty"`
	Diagnostic string         `json:"diagnostic,omitempty"`
}
