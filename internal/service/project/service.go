package project

import (
	"context"
	"errors"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/slipway-sh/slipway/internal/domain"
	"github.com/slipway-sh/slipway/internal/repository"
)

// CreateInput encapsulates project creation attributes.
type CreateInput struct {
	WorkspaceID  string `json:"workspace_id"`
	Name         string `json:"name"`
	RepoName     string `json:"repo_name"`
	Branch       string `json:"branch"`
	BuildCommand string `json:"build_command"`
	StartCommand string `json:"start_command"`
}

// Service orchestrates project management.
type Service struct {
	projects     repository.ProjectRepository
	environments repository.EnvironmentRepository
	logger       *slog.Logger
}

// New returns a project service.
func New(projects repository.ProjectRepository, environments repository.EnvironmentRepository, logger *slog.Logger) Service {
	return Service{projects: projects, environments: environments, logger: logger}
}

var (
	errInvalidProjectName = errors.New("project name is required")
	errInvalidRepoName    = errors.New("repository name is required")
	errMissingWorkspaceID = errors.New("workspace id required")
)

// defaultEnvironments are created for every new project.
var defaultEnvironments = []struct{ slug, name string }{
	{"production", "Production"},
	{"preview", "Preview"},
}

// Create registers a new project along with its default environments.
func (s Service) Create(ctx context.Context, input CreateInput) (*domain.Project, error) {
	if strings.TrimSpace(input.WorkspaceID) == "" {
		return nil, errMissingWorkspaceID
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, errInvalidProjectName
	}
	if strings.TrimSpace(input.RepoName) == "" {
		return nil, errInvalidRepoName
	}
	branch := strings.TrimSpace(input.Branch)
	if branch == "" {
		branch = "main"
	}
	buildCommand := strings.TrimSpace(input.BuildCommand)
	if buildCommand == "" {
		buildCommand = "npm run build"
	}
	startCommand := strings.TrimSpace(input.StartCommand)
	if startCommand == "" {
		startCommand = "npm start"
	}
	project := &domain.Project{
		ID:           uuid.NewString(),
		WorkspaceID:  input.WorkspaceID,
		Name:         input.Name,
		RepoName:     input.RepoName,
		Branch:       branch,
		BuildCommand: buildCommand,
		StartCommand: startCommand,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.projects.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	for _, env := range defaultEnvironments {
		environment := &domain.Environment{
			ID:        uuid.NewString(),
			ProjectID: project.ID,
			Slug:      env.slug,
			Name:      env.name,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.environments.CreateEnvironment(ctx, environment); err != nil {
			return nil, err
		}
	}
	s.logger.Info("project created", "project_id", project.ID, "workspace_id", project.WorkspaceID)
	return project, nil
}

// Get returns a project by id.
func (s Service) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.projects.GetProjectByID(ctx, projectID)
}

// ListByWorkspace returns all projects in a workspace.
func (s Service) ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.Project, error) {
	return s.projects.ListProjectsByWorkspace(ctx, workspaceID)
}

// Environment resolves a deployment target by id or slug.
func (s Service) Environment(ctx context.Context, projectID, idOrSlug string) (*domain.Environment, error) {
	if strings.TrimSpace(idOrSlug) == "" {
		idOrSlug = "production"
	}
	env, err := s.environments.GetEnvironmentBySlug(ctx, projectID, idOrSlug)
	if err == nil {
		return env, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.environments.GetEnvironmentByID(ctx, idOrSlug)
}
