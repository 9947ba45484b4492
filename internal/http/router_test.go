package httpx

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"github.com/slipway-sh/slipway/internal/builder"
	"github.com/slipway-sh/slipway/internal/domain"
	"github.com/slipway-sh/slipway/internal/events"
	"github.com/slipway-sh/slipway/internal/repository"
	"github.com/slipway-sh/slipway/internal/service/auth"
	"github.com/slipway-sh/slipway/internal/service/deploy"
	"github.com/slipway-sh/slipway/internal/service/invite"
	"github.com/slipway-sh/slipway/internal/service/project"
	"github.com/slipway-sh/slipway/internal/service/workspace"
	"github.com/slipway-sh/slipway/pkg/config"
	"github.com/slipway-sh/slipway/pkg/crypto"
	jwtpkg "github.com/slipway-sh/slipway/pkg/jwt"
)

const testJWTSecret = "test-secret"

func TestInviteAcceptMissingToken(t *testing.T) {
	router, _ := setupInviteRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/invites/accept", nil)
	rr := httptest.NewRecorder()
	router.handleInviteAccept(rr, req)

	assertRedirect(t, rr)
	flash := popTestFlash(t, rr)
	if flash.Kind != flashError {
		t.Fatalf("expected error flash, got %q", flash.Kind)
	}
	if flash.Message != "Invalid invite url, no invite token provided." {
		t.Fatalf("unexpected flash message %q", flash.Message)
	}
}

func TestInviteAcceptUnknownToken(t *testing.T) {
	router, _ := setupInviteRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/invites/accept?token=deadbeef", nil)
	rr := httptest.NewRecorder()
	router.handleInviteAccept(rr, req)

	assertRedirect(t, rr)
	flash := popTestFlash(t, rr)
	if flash.Kind != flashError {
		t.Fatalf("expected error flash, got %q", flash.Kind)
	}
	if flash.Message != "Invite not found, please ask for a new invite." {
		t.Fatalf("unexpected flash message %q", flash.Message)
	}
}

func TestInviteAcceptRequiresLogin(t *testing.T) {
	router, _ := setupInviteRouter(t, &domain.Invite{Token: "tok-1", Email: "a@x.com"})

	req := httptest.NewRequest(http.MethodGet, "/invites/accept?token=tok-1", nil)
	rr := httptest.NewRecorder()
	router.handleInviteAccept(rr, req)

	assertRedirect(t, rr)
	flash := popTestFlash(t, rr)
	if flash.Kind != flashSuccess {
		t.Fatalf("expected success flash, got %q", flash.Kind)
	}
	if flash.Message != "Please login to accept the invite." {
		t.Fatalf("unexpected flash message %q", flash.Message)
	}
}

func TestInviteAcceptEmailMismatch(t *testing.T) {
	router, sessionToken := setupInviteRouter(t, &domain.Invite{Token: "tok-1", Email: "a@x.com"})

	req := httptest.NewRequest(http.MethodGet, "/invites/accept?token=tok-1", nil)
	req.AddCookie(&http.Cookie{Name: router.sessionCookie, Value: sessionToken})
	rr := httptest.NewRecorder()
	router.handleInviteAccept(rr, req)

	assertRedirect(t, rr)
	flash := popTestFlash(t, rr)
	if flash.Kind != flashError {
		t.Fatalf("expected error flash, got %q", flash.Kind)
	}
	want := "This invite was sent to a@x.com but you are logged in as b@x.com."
	if flash.Message != want {
		t.Fatalf("expected %q, got %q", want, flash.Message)
	}
}

func TestInviteAcceptMatchingEmail(t *testing.T) {
	router, sessionToken := setupInviteRouter(t, &domain.Invite{Token: "tok-1", Email: "b@x.com"})

	req := httptest.NewRequest(http.MethodGet, "/invites/accept?token=tok-1", nil)
	req.AddCookie(&http.Cookie{Name: router.sessionCookie, Value: sessionToken})
	rr := httptest.NewRecorder()
	router.handleInviteAccept(rr, req)

	assertRedirect(t, rr)
	flash := popTestFlash(t, rr)
	if flash.Kind != flashSuccess {
		t.Fatalf("expected success flash, got %q", flash.Kind)
	}
	if flash.Message != "Invite retrieved" {
		t.Fatalf("unexpected flash message %q", flash.Message)
	}
}

func TestInviteAcceptIgnoresInvalidSession(t *testing.T) {
	router, _ := setupInviteRouter(t, &domain.Invite{Token: "tok-1", Email: "a@x.com"})

	req := httptest.NewRequest(http.MethodGet, "/invites/accept?token=tok-1", nil)
	req.AddCookie(&http.Cookie{Name: router.sessionCookie, Value: "garbage"})
	rr := httptest.NewRecorder()
	router.handleInviteAccept(rr, req)

	assertRedirect(t, rr)
	flash := popTestFlash(t, rr)
	if flash.Message != "Please login to accept the invite." {
		t.Fatalf("expected login prompt for invalid session, got %q", flash.Message)
	}
}

func TestInviteAcceptRejectsNonGet(t *testing.T) {
	router, _ := setupInviteRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/invites/accept?token=tok-1", nil)
	rr := httptest.NewRecorder()
	router.handleInviteAccept(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestRootSurfacesFlash(t *testing.T) {
	router, _ := setupInviteRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	cookiePayload, _ := json.Marshal(flashMessage{Kind: flashSuccess, Message: "Invite retrieved"})
	req.AddCookie(&http.Cookie{
		Name:  flashCookieName,
		Value: base64.URLEncoding.EncodeToString(cookiePayload),
	})
	rr := httptest.NewRecorder()
	router.handleRoot(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Status string        `json:"status"`
		Flash  *flashMessage `json:"flash"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Flash == nil || body.Flash.Message != "Invite retrieved" {
		t.Fatalf("expected flash surfaced in body, got %+v", body.Flash)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == flashCookieName && c.MaxAge != -1 {
			t.Fatal("expected the flash cookie cleared")
		}
	}
}

func TestCreateDeploymentAbandonedAfterConflicts(t *testing.T) {
	router := setupDeployRouter(t, &conflictingDeploymentRepo{})

	body, _ := json.Marshal(map[string]any{
		"environment": "production",
		"commit":      map[string]any{"sha": "abc123"},
	})
	req := httptest.NewRequest(http.MethodPost, "/projects/proj-1/deployments", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.handleProjectDeployments(rr, req, "proj-1")

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202 for abandoned deployment, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Deployment *domain.Deployment `json:"deployment"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Deployment != nil {
		t.Fatalf("expected null deployment, got %+v", resp.Deployment)
	}
}

func TestCreateDeploymentWithoutAuthorization(t *testing.T) {
	router := setupDeployRouter(t, &conflictingDeploymentRepo{})
	router.workspace = workspace.New(&workspaceRepoStub{}, testLogger(), testConfig())

	body, _ := json.Marshal(map[string]any{"commit": map[string]any{"sha": "abc123"}})
	req := httptest.NewRequest(http.MethodPost, "/projects/proj-1/deployments", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.handleProjectDeployments(rr, req, "proj-1")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without stored authorization, got %d", rr.Code)
	}
}

func assertRedirect(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 redirect, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != landingPath {
		t.Fatalf("expected redirect to %q, got %q", landingPath, loc)
	}
}

func popTestFlash(t *testing.T, rr *httptest.ResponseRecorder) flashMessage {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name != flashCookieName {
			continue
		}
		raw, err := base64.URLEncoding.DecodeString(c.Value)
		if err != nil {
			t.Fatalf("decode flash cookie: %v", err)
		}
		var msg flashMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("unmarshal flash cookie: %v", err)
		}
		return msg
	}
	t.Fatal("no flash cookie set")
	return flashMessage{}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:          testJWTSecret,
		TokenEncryptionKey: "test-encryption-key",
		AccessTokenTTL:     time.Hour,
		RefreshTokenTTL:    24 * time.Hour,
		SessionCookieName:  "slipway_session",
	}
}

// setupInviteRouter builds a router with a logged-in user b@x.com and, when
// given, one stored invite. Returns the router and a session token for the
// user.
func setupInviteRouter(t *testing.T, inv *domain.Invite) (*Router, string) {
	t.Helper()
	cfg := testConfig()

	userRepo := newUserRepoStub()
	userRepo.users["user-123"] = &domain.User{ID: "user-123", Email: "b@x.com"}

	inviteRepo := &inviteRepoStub{}
	if inv != nil {
		inviteRepo.invites = map[string]*domain.Invite{inv.Token: inv}
	}

	router := &Router{
		logger:        testLogger(),
		auth:          auth.New(userRepo, testLogger(), cfg),
		invite:        invite.New(inviteRepo, testLogger()),
		sessionCookie: cfg.SessionCookieName,
	}

	token, err := jwtpkg.GenerateToken("user-123", "", cfg.JWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return router, token
}

func setupDeployRouter(t *testing.T, deployments repository.DeploymentRepository) *Router {
	t.Helper()
	cfg := testConfig()

	workspaceRepo := &workspaceRepoStub{}
	encrypted, err := crypto.EncryptString(cfg.TokenEncryptionKey, "gh-token")
	if err != nil {
		t.Fatalf("encrypt token: %v", err)
	}
	workspaceRepo.authorization = encrypted

	projectRepo := &projectRepoStub{project: &domain.Project{
		ID:           "proj-1",
		WorkspaceID:  "ws-1",
		Name:         "storefront",
		RepoName:     "acme/storefront",
		Branch:       "main",
		BuildCommand: "npm run build",
		StartCommand: "npm start",
	}}
	envRepo := &environmentRepoStub{environment: &domain.Environment{
		ID: "env-1", ProjectID: "proj-1", Slug: "production", Name: "Production",
	}}

	return &Router{
		logger:        testLogger(),
		workspace:     workspace.New(workspaceRepo, testLogger(), cfg),
		project:       project.New(projectRepo, envRepo, testLogger()),
		deploy:        deploy.New(deployments, stubBuildRequester{}, events.NopPublisher{}, nil, testLogger()),
		sessionCookie: cfg.SessionCookieName,
	}
}

type userRepoStub struct {
	users map[string]*domain.User
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: make(map[string]*domain.User)}
}

func (s *userRepoStub) CreateUser(ctx context.Context, user *domain.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *userRepoStub) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *userRepoStub) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

type inviteRepoStub struct {
	invites map[string]*domain.Invite
}

func (s *inviteRepoStub) CreateInvite(ctx context.Context, inv *domain.Invite) error {
	if s.invites == nil {
		s.invites = make(map[string]*domain.Invite)
	}
	s.invites[inv.Token] = inv
	return nil
}

func (s *inviteRepoStub) GetInviteByToken(ctx context.Context, token string) (*domain.Invite, error) {
	if inv, ok := s.invites[token]; ok {
		return inv, nil
	}
	return nil, repository.ErrNotFound
}

type workspaceRepoStub struct {
	authorization []byte
}

func (s *workspaceRepoStub) CreateWorkspace(ctx context.Context, w *domain.Workspace) error {
	return nil
}

func (s *workspaceRepoStub) GetWorkspaceByID(ctx context.Context, id string) (*domain.Workspace, error) {
	return nil, repository.ErrNotFound
}

func (s *workspaceRepoStub) UpsertMember(ctx context.Context, member *domain.WorkspaceMember) error {
	return nil
}

func (s *workspaceRepoStub) ListWorkspacesByUser(ctx context.Context, userID string) ([]domain.Workspace, error) {
	return nil, nil
}

func (s *workspaceRepoStub) UpsertAuthorization(ctx context.Context, workspaceID, provider string, token []byte) error {
	s.authorization = token
	return nil
}

func (s *workspaceRepoStub) GetAuthorization(ctx context.Context, workspaceID string) (string, []byte, error) {
	if s.authorization == nil {
		return "", nil, repository.ErrNotFound
	}
	return "github", s.authorization, nil
}

type projectRepoStub struct {
	project *domain.Project
}

func (s *projectRepoStub) CreateProject(ctx context.Context, p *domain.Project) error {
	s.project = p
	return nil
}

func (s *projectRepoStub) GetProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	if s.project != nil && s.project.ID == id {
		return s.project, nil
	}
	return nil, repository.ErrNotFound
}

func (s *projectRepoStub) ListProjectsByWorkspace(ctx context.Context, workspaceID string) ([]domain.Project, error) {
	if s.project == nil {
		return nil, nil
	}
	return []domain.Project{*s.project}, nil
}

type environmentRepoStub struct {
	environment *domain.Environment
}

func (s *environmentRepoStub) CreateEnvironment(ctx context.Context, env *domain.Environment) error {
	return nil
}

func (s *environmentRepoStub) GetEnvironmentByID(ctx context.Context, id string) (*domain.Environment, error) {
	if s.environment != nil && s.environment.ID == id {
		return s.environment, nil
	}
	return nil, repository.ErrNotFound
}

func (s *environmentRepoStub) GetEnvironmentBySlug(ctx context.Context, projectID, slug string) (*domain.Environment, error) {
	if s.environment != nil && s.environment.ProjectID == projectID && s.environment.Slug == slug {
		return s.environment, nil
	}
	return nil, repository.ErrNotFound
}

func (s *environmentRepoStub) ListEnvironmentsByProject(ctx context.Context, projectID string) ([]domain.Environment, error) {
	if s.environment == nil {
		return nil, nil
	}
	return []domain.Environment{*s.environment}, nil
}

// conflictingDeploymentRepo reports a version conflict on every insert.
type conflictingDeploymentRepo struct {
	createCalls int
}

func (s *conflictingDeploymentRepo) NextDeploymentVersion(ctx context.Context, projectID string) (int, error) {
	return 1, nil
}

func (s *conflictingDeploymentRepo) CreateDeployment(ctx context.Context, d *domain.Deployment) error {
	s.createCalls++
	return repository.ErrVersionConflict
}

func (s *conflictingDeploymentRepo) GetDeploymentByID(ctx context.Context, id string) (*domain.Deployment, error) {
	return nil, repository.ErrNotFound
}

func (s *conflictingDeploymentRepo) ListDeploymentsByProject(ctx context.Context, projectID string, limit int) ([]domain.Deployment, error) {
	return nil, nil
}

type stubBuildRequester struct{}

func (stubBuildRequester) StartBuild(ctx context.Context, req builder.BuildRequest) (string, error) {
	return "build-test", nil
}
