package workflow

import "strings"

const (
	sectionLength      = 2000
	clientSearchOffset = 500
)

// ProgressStage is one status line shown while code is being generated.
type ProgressStage struct {
	Label   string
	Percent int
}

// GenerationProgress lists the status lines displayed during generation, in
// order, ending at 100 percent.
func GenerationProgress() []ProgressStage {
	return []ProgressStage{
		{"Analyzing API documentation...", 15},
		{"Identifying authentication requirements...", 30},
		{"Mapping API endpoints...", 50},
		{"Generating authentication code...", 70},
		{"Creating data retrieval methods...", 85},
		{"Adding error handling and pagination...", 95},
		{"Finalizing code...", 100},
	}
}

// CodeSections are the excerpts shown beside the full code during review.
type CodeSections struct {
	Auth   string
	Client string
}

// SplitSections approximates the auth setup as the head of the file and the
// API client as the first class declared past the preamble.
func SplitSections(code string) CodeSections {
	runes := []rune(code)
	sections := CodeSections{Auth: string(runes[:min(len(runes), sectionLength)])}

	if len(runes) <= clientSearchOffset {
		return sections
	}
	idx := strings.Index(string(runes[clientSearchOffset:]), "class")
	if idx < 0 {
		return sections
	}
	start := clientSearchOffset + len([]rune(string(runes[clientSearchOffset:])[:idx]))
	end := min(len(runes), start+sectionLength)
	sections.Client = string(runes[start:end])
	return sections
}
