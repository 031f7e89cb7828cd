package models

import "time"

// Step is a stage of the integration workflow.
type Step int

const (
	StepConfigure Step = iota + 1
	StepGenerate
	StepReview
	StepSandbox
	StepDeploy
)

var stepNames = map[Step]string{
	StepConfigure: "Configure",
	StepGenerate:  "Generate",
	StepReview:    "Review Code",
	StepSandbox:   "Test Sandbox",
	StepDeploy:    "Deploy",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether s is one of the five workflow stages.
func (s Step) Valid() bool {
	return s >= StepConfigure && s <= StepDeploy
}

// AllSteps lists the stages in workflow order.
func AllSteps() []Step {
	return []Step{StepConfigure, StepGenerate, StepReview, StepSandbox, StepDeploy}
}

// IntegrationOptions are the optional toggles offered on the configure form.
type IntegrationOptions struct {
	CustomRateLimit bool `json:"customRateLimit"`
	Webhooks        bool `json:"webhooks"`
	CustomRetry     bool `json:"customRetry"`
}

// Session holds the state of one interactive integration run. It is owned by
// the caller and passed by reference to every workflow operation; only the
// workflow engine mutates it.
type Session struct {
	ID             string             `json:"id"`
	Step           Step               `json:"step"`
	APIDocURL      string             `json:"apiDocUrl"`
	AuthMethod     AuthMethod         `json:"authMethod"`
	Language       Language           `json:"language"`
	Options        IntegrationOptions `json:"options"`
	GeneratedCode  string             `json:"generatedCode,omitempty"`
	GenerationMode GenerationMode     `json:"generationMode,omitempty"`
	Insights       []string           `json:"insights,omitempty"`
	SandboxPassed  bool               `json:"sandboxPassed"`
	// SessionAPIKey is a generation credential entered during the session.
	// It is never persisted.
	SessionAPIKey string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HasGeneratedCode reports whether a generation has completed in this integration.
func (s *Session) HasGeneratedCode() bool {
	return s != nil && s.GeneratedCode != ""
}
