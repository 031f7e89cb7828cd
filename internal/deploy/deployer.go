// Package deploy promotes a tested integration to an environment.
package deploy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"apiforge/internal/models"
)

// Request is what a Deployer receives.
type Request struct {
	SessionID string
	Code      string
	Options   models.DeployOptions
}

type Deployer interface {
	Deploy(ctx context.Context, req Request) (models.DeploymentResult, error)
}

// SimulatedDeployer reports a successful deployment without touching any
// environment.
type SimulatedDeployer struct {
	Now func() time.Time
}

func NewSimulatedDeployer() *SimulatedDeployer {
	return &SimulatedDeployer{}
}

func (d *SimulatedDeployer) Deploy(ctx context.Context, req Request) (models.DeploymentResult, error) {
	if err := ctx.Err(); err != nil {
		return models.DeploymentResult{}, err
	}
	opts := normalizeOptions(req.Options)

	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	return models.DeploymentResult{
		ID:          uuid.NewString(),
		Environment: opts.Environment,
		Rollout:     opts.Rollout,
		Success:     true,
		Message:     fmt.Sprintf("Successfully deployed to %s!", lowerEnv(opts.Environment)),
		Checklist:   Checklist(opts),
		NextSteps: []string{
			"Monitor integration health in dashboard",
			"Set up data sync schedule",
			"Configure alerting rules",
		},
		DeployedAt: now(),
	}, nil
}

// Checklist is the pre-deployment checklist shown before deploying.
func Checklist(opts models.DeployOptions) []models.ChecklistItem {
	return []models.ChecklistItem{
		{Label: "Sandbox tests passed", Checked: true},
		{Label: "Production credentials configured", Checked: true},
		{Label: "Error alerting enabled", Checked: true},
		{Label: "Rate limit monitoring active", Checked: true},
		{Label: "Code review approved (Optional)", Checked: opts.CodeReviewed},
		{Label: "Alert on >5% error rate", Checked: opts.AlertOnErrors},
		{Label: "Auto-rollback enabled", Checked: opts.AutoRollback},
	}
}

func normalizeOptions(opts models.DeployOptions) models.DeployOptions {
	if opts.Environment == "" {
		opts.Environment = models.EnvironmentProduction
	}
	if opts.Rollout == "" {
		opts.Rollout = models.RolloutFull
	}
	return opts
}

func lowerEnv(env models.Environment) string {
	switch env {
	case models.EnvironmentStaging:
		return "staging"
	default:
		return "production"
	}
}
