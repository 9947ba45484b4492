package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"testing"

	"log/slog"

	"github.com/slipway-sh/slipway/internal/repository"
	"github.com/slipway-sh/slipway/pkg/config"
)

func TestUpsertSecretRejectsBlank(t *testing.T) {
	svc := newTestService(&fakeWebhookRepo{})
	if err := svc.UpsertSecret(context.Background(), "proj-1", "   "); err == nil {
		t.Fatal("expected an error for a blank secret")
	}
}

func TestCheckSignatureRoundTrip(t *testing.T) {
	repo := &fakeWebhookRepo{}
	svc := newTestService(repo)

	if err := svc.UpsertSecret(context.Background(), "proj-1", "hunter2"); err != nil {
		t.Fatalf("store secret: %v", err)
	}

	payload := []byte(`{"ref":"refs/heads/main"}`)
	if err := svc.CheckSignature(context.Background(), "proj-1", payload, sign(payload, "hunter2")); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
}

func TestCheckSignatureRejectsTampering(t *testing.T) {
	repo := &fakeWebhookRepo{}
	svc := newTestService(repo)

	if err := svc.UpsertSecret(context.Background(), "proj-1", "hunter2"); err != nil {
		t.Fatalf("store secret: %v", err)
	}

	payload := []byte(`{"ref":"refs/heads/main"}`)
	signature := sign(payload, "hunter2")

	if err := svc.CheckSignature(context.Background(), "proj-1", []byte(`{"ref":"refs/heads/evil"}`), signature); err == nil {
		t.Fatal("expected a tampered payload to fail")
	}
	if err := svc.CheckSignature(context.Background(), "proj-1", payload, sign(payload, "wrong")); err == nil {
		t.Fatal("expected a wrong secret to fail")
	}
	if err := svc.CheckSignature(context.Background(), "proj-1", payload, ""); err == nil {
		t.Fatal("expected a missing signature to fail")
	}
}

func TestCheckSignatureUnknownProject(t *testing.T) {
	svc := newTestService(&fakeWebhookRepo{})
	if err := svc.CheckSignature(context.Background(), "missing", []byte("{}"), "sig"); err == nil {
		t.Fatal("expected an error when no secret is stored")
	}
}

func sign(payload []byte, secret string) string {
	hasher := hmac.New(sha256.New, []byte(secret))
	hasher.Write(payload)
	return hex.EncodeToString(hasher.Sum(nil))
}

type fakeWebhookRepo struct {
	secrets map[string][]byte
}

func (f *fakeWebhookRepo) UpsertWebhook(ctx context.Context, projectID string, secret []byte) error {
	if f.secrets == nil {
		f.secrets = make(map[string][]byte)
	}
	f.secrets[projectID] = secret
	return nil
}

func (f *fakeWebhookRepo) GetWebhookSecret(ctx context.Context, projectID string) ([]byte, error) {
	if secret, ok := f.secrets[projectID]; ok {
		return secret, nil
	}
	return nil, repository.ErrNotFound
}

func newTestService(repo repository.WebhookRepository) Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{TokenEncryptionKey: "test-encryption-key"}
	return New(repo, logger, cfg)
}
