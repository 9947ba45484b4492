package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slipway-sh/slipway/internal/domain"
	"github.com/slipway-sh/slipway/internal/repository"
)

const deploymentVersionConstraint = "deployments_project_id_version_key"

// Repository implements persistence interfaces on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ensure Repository satisfies interfaces.
var (
	_ repository.UserRepository        = (*Repository)(nil)
	_ repository.WorkspaceRepository   = (*Repository)(nil)
	_ repository.InviteRepository      = (*Repository)(nil)
	_ repository.ProjectRepository     = (*Repository)(nil)
	_ repository.EnvironmentRepository = (*Repository)(nil)
	_ repository.DeploymentRepository  = (*Repository)(nil)
	_ repository.WebhookRepository     = (*Repository)(nil)
)

// CreateUser inserts a user.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	const query = `INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, query, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	return mapWriteError(err)
}

// GetUserByEmail fetches a user by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`
	row := r.pool.QueryRow(ctx, query, email)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetUserByID retrieves a user by identifier.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateWorkspace creates a workspace record.
func (r *Repository) CreateWorkspace(ctx context.Context, workspace *domain.Workspace) error {
	const query = `INSERT INTO workspaces (id, name, owner_id, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, query, workspace.ID, workspace.Name, workspace.OwnerID, workspace.CreatedAt)
	return mapWriteError(err)
}

// GetWorkspaceByID returns a workspace by identifier.
func (r *Repository) GetWorkspaceByID(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	const query = `SELECT id, name, owner_id, created_at FROM workspaces WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, workspaceID)
	var ws domain.Workspace
	if err := row.Scan(&ws.ID, &ws.Name, &ws.OwnerID, &ws.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &ws, nil
}

// UpsertMember adds a member to a workspace or updates the role.
func (r *Repository) UpsertMember(ctx context.Context, member *domain.WorkspaceMember) error {
	const query = `INSERT INTO workspace_members (workspace_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (workspace_id, user_id) DO UPDATE SET role = EXCLUDED.role`
	_, err := r.pool.Exec(ctx, query, member.WorkspaceID, member.UserID, member.Role, member.CreatedAt)
	return mapWriteError(err)
}

// ListWorkspacesByUser returns workspaces the user belongs to.
func (r *Repository) ListWorkspacesByUser(ctx context.Context, userID string) ([]domain.Workspace, error) {
	const query = `SELECT w.id, w.name, w.owner_id, w.created_at
		FROM workspaces w
		JOIN workspace_members m ON m.workspace_id = w.id
		WHERE m.user_id = $1
		ORDER BY w.created_at`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var workspaces []domain.Workspace
	for rows.Next() {
		var ws domain.Workspace
		if err := rows.Scan(&ws.ID, &ws.Name, &ws.OwnerID, &ws.CreatedAt); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, ws)
	}
	return workspaces, rows.Err()
}

// UpsertAuthorization stores the encrypted source-control token for a workspace.
func (r *Repository) UpsertAuthorization(ctx context.Context, workspaceID, provider string, token []byte) error {
	const query = `INSERT INTO workspace_authorizations (workspace_id, provider, access_token, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (workspace_id) DO UPDATE SET provider = EXCLUDED.provider,
			access_token = EXCLUDED.access_token, updated_at = NOW()`
	_, err := r.pool.Exec(ctx, query, workspaceID, provider, token)
	return mapWriteError(err)
}

// GetAuthorization loads the encrypted source-control token for a workspace.
func (r *Repository) GetAuthorization(ctx context.Context, workspaceID string) (string, []byte, error) {
	const query = `SELECT provider, access_token FROM workspace_authorizations WHERE workspace_id = $1`
	row := r.pool.QueryRow(ctx, query, workspaceID)
	var provider string
	var token []byte
	if err := row.Scan(&provider, &token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, repository.ErrNotFound
		}
		return "", nil, err
	}
	return provider, token, nil
}

// CreateInvite stores a workspace invite.
func (r *Repository) CreateInvite(ctx context.Context, invite *domain.Invite) error {
	const query = `INSERT INTO invites (id, workspace_id, token, email, role, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		invite.ID,
		invite.WorkspaceID,
		invite.Token,
		invite.Email,
		invite.Role,
		invite.CreatedBy,
		invite.CreatedAt,
	)
	return mapWriteError(err)
}

// GetInviteByToken looks up an invite by its opaque token.
func (r *Repository) GetInviteByToken(ctx context.Context, token string) (*domain.Invite, error) {
	const query = `SELECT id, workspace_id, token, email, role, created_by, created_at
		FROM invites WHERE token = $1`
	row := r.pool.QueryRow(ctx, query, token)
	var inv domain.Invite
	if err := row.Scan(&inv.ID, &inv.WorkspaceID, &inv.Token, &inv.Email, &inv.Role, &inv.CreatedBy, &inv.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// CreateProject inserts a project.
func (r *Repository) CreateProject(ctx context.Context, project *domain.Project) error {
	const query = `INSERT INTO projects (id, workspace_id, name, repo_name, branch, build_command, start_command, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		project.ID,
		project.WorkspaceID,
		project.Name,
		project.RepoName,
		project.Branch,
		project.BuildCommand,
		project.StartCommand,
		project.CreatedAt,
	)
	return mapWriteError(err)
}

// GetProjectByID retrieves a project.
func (r *Repository) GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	const query = `SELECT id, workspace_id, name, repo_name, branch, build_command, start_command, created_at
		FROM projects WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, projectID)
	var p domain.Project
	if err := row.Scan(&p.ID, &p.WorkspaceID, &p.Name, &p.RepoName, &p.Branch, &p.BuildCommand, &p.StartCommand, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListProjectsByWorkspace returns projects in creation order.
func (r *Repository) ListProjectsByWorkspace(ctx context.Context, workspaceID string) ([]domain.Project, error) {
	const query = `SELECT id, workspace_id, name, repo_name, branch, build_command, start_command, created_at
		FROM projects WHERE workspace_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.WorkspaceID, &p.Name, &p.RepoName, &p.Branch, &p.BuildCommand, &p.StartCommand, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CreateEnvironment inserts a deployment target.
func (r *Repository) CreateEnvironment(ctx context.Context, environment *domain.Environment) error {
	const query = `INSERT INTO environments (id, project_id, slug, name, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query,
		environment.ID,
		environment.ProjectID,
		environment.Slug,
		environment.Name,
		environment.CreatedAt,
	)
	return mapWriteError(err)
}

// GetEnvironmentByID retrieves an environment.
func (r *Repository) GetEnvironmentByID(ctx context.Context, environmentID string) (*domain.Environment, error) {
	const query = `SELECT id, project_id, slug, name, created_at FROM environments WHERE id = $1`
	return scanEnvironment(r.pool.QueryRow(ctx, query, environmentID))
}

// GetEnvironmentBySlug retrieves an environment by project and slug.
func (r *Repository) GetEnvironmentBySlug(ctx context.Context, projectID, slug string) (*domain.Environment, error) {
	const query = `SELECT id, project_id, slug, name, created_at
		FROM environments WHERE project_id = $1 AND slug = $2`
	return scanEnvironment(r.pool.QueryRow(ctx, query, projectID, slug))
}

// ListEnvironmentsByProject returns environments in creation order.
func (r *Repository) ListEnvironmentsByProject(ctx context.Context, projectID string) ([]domain.Environment, error) {
	const query = `SELECT id, project_id, slug, name, created_at
		FROM environments WHERE project_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var environments []domain.Environment
	for rows.Next() {
		var env domain.Environment
		if err := rows.Scan(&env.ID, &env.ProjectID, &env.Slug, &env.Name, &env.CreatedAt); err != nil {
			return nil, err
		}
		environments = append(environments, env)
	}
	return environments, rows.Err()
}

func scanEnvironment(row pgx.Row) (*domain.Environment, error) {
	var env domain.Environment
	if err := row.Scan(&env.ID, &env.ProjectID, &env.Slug, &env.Name, &env.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &env, nil
}

// NextDeploymentVersion computes the next version number for a project.
// Concurrent callers may observe the same value; CreateDeployment reports the
// resulting constraint violation as ErrVersionConflict.
func (r *Repository) NextDeploymentVersion(ctx context.Context, projectID string) (int, error) {
	const query = `SELECT COALESCE(MAX(version), 0) + 1 FROM deployments WHERE project_id = $1`
	row := r.pool.QueryRow(ctx, query, projectID)
	var version int
	if err := row.Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

// CreateDeployment inserts a deployment row.
func (r *Repository) CreateDeployment(ctx context.Context, deployment *domain.Deployment) error {
	const query = `INSERT INTO deployments (id, project_id, environment_id, version, build_id, status,
			branch, commit_sha, commit_message, committer_name, dockerfile, dockerignore,
			build_started_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.pool.Exec(ctx, query,
		deployment.ID,
		deployment.ProjectID,
		deployment.EnvironmentID,
		deployment.Version,
		deployment.BuildID,
		deployment.Status,
		deployment.Branch,
		deployment.CommitSHA,
		deployment.CommitMessage,
		deployment.CommitterName,
		deployment.Dockerfile,
		deployment.Dockerignore,
		deployment.BuildStartedAt,
		deployment.CreatedAt,
		deployment.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				if pgErr.ConstraintName == deploymentVersionConstraint {
					return repository.ErrVersionConflict
				}
				return repository.ErrInvalidArgument
			case "23503":
				return repository.ErrNotFound
			case "23514", "22P02":
				return repository.ErrInvalidArgument
			}
		}
		return err
	}
	return nil
}

// GetDeploymentByID retrieves a deployment.
func (r *Repository) GetDeploymentByID(ctx context.Context, deploymentID string) (*domain.Deployment, error) {
	const query = `SELECT id, project_id, environment_id, version, build_id, status,
			branch, commit_sha, commit_message, committer_name, dockerfile, dockerignore,
			build_started_at, created_at, updated_at
		FROM deployments WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, deploymentID)
	var d domain.Deployment
	if err := scanDeployment(row, &d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListDeploymentsByProject returns the most recent deployments first.
func (r *Repository) ListDeploymentsByProject(ctx context.Context, projectID string, limit int) ([]domain.Deployment, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT id, project_id, environment_id, version, build_id, status,
			branch, commit_sha, commit_message, committer_name, dockerfile, dockerignore,
			build_started_at, created_at, updated_at
		FROM deployments WHERE project_id = $1 ORDER BY version DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var deployments []domain.Deployment
	for rows.Next() {
		var d domain.Deployment
		if err := scanDeployment(rows, &d); err != nil {
			return nil, err
		}
		deployments = append(deployments, d)
	}
	return deployments, rows.Err()
}

func scanDeployment(row pgx.Row, d *domain.Deployment) error {
	return row.Scan(
		&d.ID,
		&d.ProjectID,
		&d.EnvironmentID,
		&d.Version,
		&d.BuildID,
		&d.Status,
		&d.Branch,
		&d.CommitSHA,
		&d.CommitMessage,
		&d.CommitterName,
		&d.Dockerfile,
		&d.Dockerignore,
		&d.BuildStartedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
}

// UpsertWebhook stores an encrypted webhook secret for a project.
func (r *Repository) UpsertWebhook(ctx context.Context, projectID string, secret []byte) error {
	const query = `INSERT INTO webhooks (project_id, secret, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (project_id) DO UPDATE SET secret = EXCLUDED.secret, updated_at = NOW()`
	_, err := r.pool.Exec(ctx, query, projectID, secret)
	return mapWriteError(err)
}

// GetWebhookSecret loads the encrypted webhook secret for a project.
func (r *Repository) GetWebhookSecret(ctx context.Context, projectID string) ([]byte, error) {
	const query = `SELECT secret FROM webhooks WHERE project_id = $1`
	row := r.pool.QueryRow(ctx, query, projectID)
	var secret []byte
	if err := row.Scan(&secret); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return secret, nil
}

// mapWriteError translates common postgres error codes to repository sentinels.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return repository.ErrNotFound
		case "23505", "23514", "22P02":
			return fmt.Errorf("%w: %s", repository.ErrInvalidArgument, pgErr.ConstraintName)
		}
	}
	return err
}
