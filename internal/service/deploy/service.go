package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/slipway-sh/slipway/internal/builder"
	"github.com/slipway-sh/slipway/internal/domain"
	"github.com/slipway-sh/slipway/internal/events"
	"github.com/slipway-sh/slipway/internal/repository"
	"github.com/slipway-sh/slipway/internal/ws"
)

// Status constants for deployments. Only StatusPending is assigned here;
// downstream consumers of the creation event move deployments through the
// remaining states.
const (
	StatusPending   = "PENDING"
	StatusBuilding  = "BUILDING"
	StatusDeployed  = "DEPLOYED"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
)

// maxCreateAttempts bounds version-conflict retries, counting the first try.
const maxCreateAttempts = 4

// BuildRequester starts a container image build with the external provider.
type BuildRequester interface {
	StartBuild(ctx context.Context, req builder.BuildRequest) (string, error)
}

// Service orchestrates deployment creation.
type Service struct {
	deployments repository.DeploymentRepository
	builds      BuildRequester
	publisher   events.Publisher
	hub         *ws.Hub
	logger      *slog.Logger
}

// New returns a deployment service.
func New(deployments repository.DeploymentRepository, builds BuildRequester, publisher events.Publisher, hub *ws.Hub, logger *slog.Logger) Service {
	return Service{
		deployments: deployments,
		builds:      builds,
		publisher:   publisher,
		hub:         hub,
		logger:      logger,
	}
}

// Create requests a build for the project and records a pending deployment.
//
// Version numbers are assigned optimistically: two concurrent calls can
// compute the same next version, in which case the insert fails on the
// (project, version) constraint and the whole attempt is replayed with a
// fresh version, at most maxCreateAttempts times in total. When the budget is
// exhausted Create returns (nil, nil) — no deployment and no error. Any
// non-conflict persistence error aborts immediately.
//
// Each attempt issues its own build request; builds from abandoned attempts
// are not cancelled.
func (s Service) Create(ctx context.Context, project domain.Project, auth domain.Authorization, env domain.Environment, commit domain.Commit) (*domain.Deployment, error) {
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		deployment, err := s.createOnce(ctx, project, auth, env, commit)
		if err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				s.logger.Warn("deployment version conflict",
					"project_id", project.ID, "attempt", attempt+1)
				continue
			}
			return nil, err
		}
		return deployment, nil
	}
	s.logger.Warn("deployment abandoned after repeated version conflicts",
		"project_id", project.ID, "attempts", maxCreateAttempts)
	return nil, nil
}

func (s Service) createOnce(ctx context.Context, project domain.Project, auth domain.Authorization, env domain.Environment, commit domain.Commit) (*domain.Deployment, error) {
	version, err := s.deployments.NextDeploymentVersion(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	dockerfile := RenderDockerfile(project.BuildCommand, project.StartCommand)
	dockerignore := RenderDockerignore()

	buildID, err := s.builds.StartBuild(ctx, builder.BuildRequest{
		Dockerfile:   dockerfile,
		Dockerignore: dockerignore,
		Token:        auth.AccessToken,
		Repository:   project.RepoName,
		Branch:       project.Branch,
	})
	if err != nil {
		return nil, err
	}

	// Build work has begun, so the start timestamp is recorded now even
	// though the row's eventual fate is not yet known.
	now := time.Now().UTC()
	deployment := &domain.Deployment{
		ID:             uuid.NewString(),
		ProjectID:      project.ID,
		EnvironmentID:  env.ID,
		Version:        version,
		BuildID:        buildID,
		Status:         StatusPending,
		Branch:         project.Branch,
		CommitSHA:      commit.SHA,
		CommitMessage:  commit.Message,
		CommitterName:  ResolveCommitter(commit),
		Dockerfile:     dockerfile,
		Dockerignore:   dockerignore,
		BuildStartedAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.deployments.CreateDeployment(ctx, deployment); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.ProjectDeploymentCreated, events.DeploymentCreatedPayload{ID: deployment.ID})
	s.broadcast(deployment)
	s.logger.Info("deployment created",
		"deployment_id", deployment.ID,
		"project_id", project.ID,
		"version", version,
		"build_id", buildID)
	return deployment, nil
}

// GetByID returns a single deployment.
func (s Service) GetByID(ctx context.Context, deploymentID string) (*domain.Deployment, error) {
	return s.deployments.GetDeploymentByID(ctx, deploymentID)
}

// ListByProject returns recent deployments for a project.
func (s Service) ListByProject(ctx context.Context, projectID string, limit int) ([]domain.Deployment, error) {
	return s.deployments.ListDeploymentsByProject(ctx, projectID, limit)
}

func (s Service) broadcast(deployment *domain.Deployment) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"id":             deployment.ID,
		"project_id":     deployment.ProjectID,
		"environment_id": deployment.EnvironmentID,
		"version":        deployment.Version,
		"status":         deployment.Status,
		"build_id":       deployment.BuildID,
		"commit_sha":     deployment.CommitSHA,
		"committer":      deployment.CommitterName,
		"created_at":     deployment.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		s.logger.Warn("failed to marshal deployment broadcast", "error", err)
		return
	}
	s.hub.Broadcast(deployment.ProjectID, payload)
}
