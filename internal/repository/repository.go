package repository

import (
	"context"

	"github.com/slipway-sh/slipway/internal/domain"
)

// UserRepository persists users.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

// WorkspaceRepository manages workspaces, memberships and stored
// source-control authorizations.
type WorkspaceRepository interface {
	CreateWorkspace(ctx context.Context, workspace *domain.Workspace) error
	GetWorkspaceByID(ctx context.Context, workspaceID string) (*domain.Workspace, error)
	UpsertMember(ctx context.Context, member *domain.WorkspaceMember) error
	ListWorkspacesByUser(ctx context.Context, userID string) ([]domain.Workspace, error)
	UpsertAuthorization(ctx context.Context, workspaceID, provider string, token []byte) error
	GetAuthorization(ctx context.Context, workspaceID string) (provider string, token []byte, err error)
}

// InviteRepository stores workspace invites. Redemption only reads.
type InviteRepository interface {
	CreateInvite(ctx context.Context, invite *domain.Invite) error
	GetInviteByToken(ctx context.Context, token string) (*domain.Invite, error)
}

// ProjectRepository persists project configuration.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project *domain.Project) error
	GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjectsByWorkspace(ctx context.Context, workspaceID string) ([]domain.Project, error)
}

// EnvironmentRepository persists deployment targets.
type EnvironmentRepository interface {
	CreateEnvironment(ctx context.Context, environment *domain.Environment) error
	GetEnvironmentByID(ctx context.Context, environmentID string) (*domain.Environment, error)
	GetEnvironmentBySlug(ctx context.Context, projectID, slug string) (*domain.Environment, error)
	ListEnvironmentsByProject(ctx context.Context, projectID string) ([]domain.Environment, error)
}

// DeploymentRepository stores deployment history.
type DeploymentRepository interface {
	// NextDeploymentVersion returns a fresh version number for the project.
	// Versions are monotonic per project but not guaranteed gap-free.
	NextDeploymentVersion(ctx context.Context, projectID string) (int, error)
	// CreateDeployment inserts a deployment row. A (project, version)
	// uniqueness violation is reported as ErrVersionConflict.
	CreateDeployment(ctx context.Context, deployment *domain.Deployment) error
	GetDeploymentByID(ctx context.Context, deploymentID string) (*domain.Deployment, error)
	ListDeploymentsByProject(ctx context.Context, projectID string, limit int) ([]domain.Deployment, error)
}

// WebhookRepository stores per-project webhook secrets.
type WebhookRepository interface {
	UpsertWebhook(ctx context.Context, projectID string, secret []byte) error
	GetWebhookSecret(ctx context.Context, projectID string) ([]byte, error)
}
