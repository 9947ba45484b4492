package workspace

import (
	"context"
	"errors"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/slipway-sh/slipway/internal/domain"
	"github.com/slipway-sh/slipway/internal/repository"
	"github.com/slipway-sh/slipway/pkg/config"
	"github.com/slipway-sh/slipway/pkg/crypto"
)

// Service handles workspace workflows.
type Service struct {
	repo   repository.WorkspaceRepository
	logger *slog.Logger
	cfg    config.Config
}

// New constructs a Service.
func New(repo repository.WorkspaceRepository, logger *slog.Logger, cfg config.Config) Service {
	return Service{repo: repo, logger: logger, cfg: cfg}
}

var (
	errInvalidName  = errors.New("workspace name is required")
	errInvalidToken = errors.New("access token is required")
)

// Create registers a workspace and makes the creator its owner.
func (s Service) Create(ctx context.Context, ownerID, name string) (*domain.Workspace, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errInvalidName
	}
	workspace := &domain.Workspace{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateWorkspace(ctx, workspace); err != nil {
		return nil, err
	}
	member := &domain.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      ownerID,
		Role:        "owner",
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.UpsertMember(ctx, member); err != nil {
		return nil, err
	}
	s.logger.Info("workspace created", "workspace_id", workspace.ID, "owner_id", ownerID)
	return workspace, nil
}

// UpsertMember adds or updates a membership.
func (s Service) UpsertMember(ctx context.Context, workspaceID, userID, role string) error {
	member := &domain.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		CreatedAt:   time.Now().UTC(),
	}
	return s.repo.UpsertMember(ctx, member)
}

// StoreAuthorization encrypts and stores a source-control access token.
func (s Service) StoreAuthorization(ctx context.Context, workspaceID, provider, accessToken string) error {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return errInvalidToken
	}
	if strings.TrimSpace(provider) == "" {
		provider = "github"
	}
	payload, err := crypto.EncryptString(s.cfg.TokenEncryptionKey, accessToken)
	if err != nil {
		return err
	}
	return s.repo.UpsertAuthorization(ctx, workspaceID, provider, payload)
}

// Authorization loads and decrypts the stored source-control token.
func (s Service) Authorization(ctx context.Context, workspaceID string) (domain.Authorization, error) {
	provider, payload, err := s.repo.GetAuthorization(ctx, workspaceID)
	if err != nil {
		return domain.Authorization{}, err
	}
	token, err := crypto.DecryptToString(s.cfg.TokenEncryptionKey, payload)
	if err != nil {
		return domain.Authorization{}, err
	}
	return domain.Authorization{
		WorkspaceID: workspaceID,
		Provider:    provider,
		AccessToken: token,
	}, nil
}
