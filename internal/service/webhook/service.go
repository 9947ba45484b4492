package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"log/slog"

	"github.com/slipway-sh/slipway/internal/repository"
	"github.com/slipway-sh/slipway/pkg/config"
	"github.com/slipway-sh/slipway/pkg/crypto"
)

// Service stores webhook secrets and validates push payload signatures.
type Service struct {
	repo   repository.WebhookRepository
	logger *slog.Logger
	cfg    config.Config
}

// New constructs a webhook service.
func New(repo repository.WebhookRepository, logger *slog.Logger, cfg config.Config) Service {
	return Service{repo: repo, logger: logger, cfg: cfg}
}

// UpsertSecret stores encrypted secret bytes for a project.
func (s Service) UpsertSecret(ctx context.Context, projectID string, secret string) error {
	value := strings.TrimSpace(secret)
	if value == "" {
		return errors.New("secret is required")
	}
	payload, err := crypto.EncryptString(s.cfg.TokenEncryptionKey, value)
	if err != nil {
		return err
	}
	return s.repo.UpsertWebhook(ctx, projectID, payload)
}

// ValidateSignature checks the HMAC-SHA256 signature for a payload.
func (s Service) ValidateSignature(payload []byte, secret []byte, provided string) error {
	if provided == "" {
		return errors.New("missing webhook signature")
	}
	hasher := hmac.New(sha256.New, secret)
	hasher.Write(payload)
	expected := hex.EncodeToString(hasher.Sum(nil))
	if !hmac.Equal([]byte(provided), []byte(expected)) {
		return errors.New("invalid webhook signature")
	}
	return nil
}

// CheckSignature loads the secret for a project and verifies the payload.
func (s Service) CheckSignature(ctx context.Context, projectID string, payload []byte, provided string) error {
	secret, err := s.repo.GetWebhookSecret(ctx, projectID)
	if err != nil {
		return err
	}
	raw, err := crypto.DecryptToString(s.cfg.TokenEncryptionKey, secret)
	if err != nil {
		return err
	}
	return s.ValidateSignature(payload, []byte(raw), provided)
}
