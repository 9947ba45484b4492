package invite

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

// Outcome classifies the result of an invite redemption attempt.
type Outcome int

const (
	OutcomeMissingToken Outcome = iota
	OutcomeNotFound
	OutcomeLoginRequired
	OutcomeEmailMismatch
	OutcomeRetrieved
)

// Result carries the redemption outcome and, when found, the invite.
type Result struct {
	Outcome Outcome
	Invite  *domain.Invite
}

// Service handles workspace invites.
type Service struct {
	invites repository.InviteRepository
	logger  *slog.Logger
}

// New constructs a Service.
func New(invites repository.InviteRepository, logger *slog.Logger) Service {
	return Service{invites: invites, logger: logger}
}

var errInvalidEmail = errors.New("invite email is required")

// Create issues a new invite addressed to an email.
func (s Service) Create(ctx context.Context, workspaceID, email, role, createdBy string) (*domain.Invite, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errInvalidEmail
	}
	if strings.TrimSpace(role) == "" {
		role = "member"
	}
	inv := &domain.Invite{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		Token:       uuid.NewString(),
		Email:       email,
		Role:        role,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.invites.CreateInvite(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("invite created", "invite_id", inv.ID, "workspace_id", workspaceID)
	return inv, nil
}

// Redeem evaluates an invite token against the current user, if any. Emails
// are compared case-sensitively. The invite is never mutated here;
// membership creation happens elsewhere.
func (s Service) Redeem(ctx context.Context, token string, user *domain.User) (Result, error) {
	if strings.TrimSpace(token) == "" {
		return Result{Outcome: OutcomeMissingToken}, nil
	}
	inv, err := s.invites.GetInviteByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Result{Outcome: OutcomeNotFound}, nil
		}
		return Result{}, err
	}
	if user == nil {
		return Result{Outcome: OutcomeLoginRequired, Invite: inv}, nil
	}
	if user.Email != inv.Email {
		return Result{Outcome: OutcomeEmailMismatch, Invite: inv}, nil
	}
	return Result{Outcome: OutcomeRetrieved, Invite: inv}, nil
}
