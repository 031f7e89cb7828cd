package models

import "time"

type Environment string

const (
	EnvironmentProduction Environment = "Production"
	EnvironmentStaging    Environment = "Staging"
)

type RolloutStrategy string

const (
	RolloutFull    RolloutStrategy = "Full deployment"
	RolloutGradual RolloutStrategy = "Gradual (10% → 50% → 100%)"
)

// DeployOptions mirrors the choices offered on the deploy stage.
type DeployOptions struct {
	Environment   Environment     `json:"environment"`
	Rollout       RolloutStrategy `json:"rollout"`
	AlertOnErrors bool            `json:"alertOnErrors"`
	AutoRollback  bool            `json:"autoRollback"`
	CodeReviewed  bool            `json:"codeReviewed"`
}

// DefaultDeployOptions matches the preselected deploy form.
func DefaultDeployOptions() DeployOptions {
	return DeployOptions{
		Environment:   EnvironmentProduction,
		Rollout:       RolloutFull,
		AlertOnErrors: true,
		AutoRollback:  true,
	}
}

// ChecklistItem is one line of the pre-deployment checklist.
type ChecklistItem struct {
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// DeploymentResult describes a completed deployment.
type DeploymentResult struct {
	ID          string          `json:"id"`
	Environment Environment     `json:"environment"`
	Rollout     RolloutStrategy `json:"rollout"`
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	Checklist   []ChecklistItem `json:"checklist"`
	NextSteps   []string        `json:"nextSteps"`
	DeployedAt  time.Time       `json:"deployedAt"`
}

// Artifacts are the downloadable text contents of an integration.
type Artifacts struct {
	Code   string `json:"code"`
	Readme string `json:"readme"`
}
