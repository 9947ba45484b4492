package httpx

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slipway-sh/slipway/internal/domain"
	"github.com/slipway-sh/slipway/internal/repository"
	"github.com/slipway-sh/slipway/internal/service/auth"
	"github.com/slipway-sh/slipway/internal/service/deploy"
	"github.com/slipway-sh/slipway/internal/service/invite"
	"github.com/slipway-sh/slipway/internal/service/project"
	"github.com/slipway-sh/slipway/internal/service/webhook"
	"github.com/slipway-sh/slipway/internal/service/workspace"
	"github.com/slipway-sh/slipway/internal/ws"
)

// Router wires HTTP endpoints to services.
type Router struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	auth          auth.Service
	workspace     workspace.Service
	invite        invite.Service
	project       project.Service
	deploy        deploy.Service
	webhook       webhook.Service
	hub           *ws.Hub
	upgrader      websocket.Upgrader
	limiter       RateLimiter
	sessionCookie string
	dbHealth      func(context.Context) error

	metricsOnce    sync.Once
	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	rateLimitHits  *prometheus.CounterVec
	deployOutcomes *prometheus.CounterVec
}

const (
	rateWindowDefault  = time.Minute
	rateLimitSignup    = 5
	rateLimitLogin     = 12
	rateLimitInvite    = 30
	rateLimitUserWrite = 60
	rateLimitUserRead  = 120
	rateLimitWebsocket = 30
	rateLimitWebhook   = 120
	healthCheckTimeout = 2 * time.Second
	sessionMaxAge      = 24 * 60 * 60
)

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, authSvc auth.Service, workspaceSvc workspace.Service, inviteSvc invite.Service, projectSvc project.Service, deploySvc deploy.Service, webhookSvc webhook.Service, hub *ws.Hub, limiter RateLimiter, sessionCookie string, dbHealth func(context.Context) error) *Router {
	r := &Router{
		mux:       http.NewServeMux(),
		logger:    logger,
		auth:      authSvc,
		workspace: workspaceSvc,
		invite:    inviteSvc,
		project:   projectSvc,
		deploy:    deploySvc,
		webhook:   webhookSvc,
		hub:       hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		limiter:       limiter,
		sessionCookie: sessionCookie,
		dbHealth:      dbHealth,
	}
	if r.limiter == nil {
		r.limiter = NewMemoryRateLimiter()
	}
	if r.sessionCookie == "" {
		r.sessionCookie = "slipway_session"
	}
	r.initMetrics()
	r.register()
	return r
}

// ServeHTTP delegates to the underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close releases background resources.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Close()
	}
}

func (r *Router) register() {
	r.mux.HandleFunc("/", r.audit("/", r.handleRoot))
	r.mux.HandleFunc("/healthz", r.audit("/healthz", r.handleHealthz))
	r.mux.Handle("/metrics", promhttp.Handler())
	r.mux.HandleFunc("/auth/signup", r.audit("/auth/signup", r.withRateLimit("/auth/signup", rateLimitSignup, rateWindowDefault, rateLimitKeyIP, r.handleSignup)))
	r.mux.HandleFunc("/auth/login", r.audit("/auth/login", r.withRateLimit("/auth/login", rateLimitLogin, rateWindowDefault, rateLimitKeyIP, r.handleLogin)))
	r.mux.HandleFunc("/workspaces", r.audit("/workspaces", r.handlerAuthRate("/workspaces", rateLimitUserWrite, rateWindowDefault, r.handleWorkspaces)))
	r.mux.HandleFunc("/workspaces/", r.audit("/workspaces/", r.handlerAuthRate("/workspaces/", rateLimitUserWrite, rateWindowDefault, r.handleWorkspaceSubroutes)))
	r.mux.HandleFunc("/invites/accept", r.audit("/invites/accept", r.withRateLimit("/invites/accept", rateLimitInvite, rateWindowDefault, rateLimitKeyIP, r.handleInviteAccept)))
	r.mux.HandleFunc("/projects", r.audit("/projects", r.handlerAuthRate("/projects", rateLimitUserWrite, rateWindowDefault, r.handleProjects)))
	r.mux.HandleFunc("/projects/", r.audit("/projects/", r.handlerAuthRate("/projects/", rateLimitUserWrite, rateWindowDefault, r.handleProjectSubroutes)))
	r.mux.HandleFunc("/webhooks/", r.audit("/webhooks/", r.withRateLimit("/webhooks/", rateLimitWebhook, rateWindowDefault, rateLimitKeyIP, r.handleWebhookPush)))
	r.mux.HandleFunc("/ws/deployments", r.audit("/ws/deployments", r.handlerAuthRate("/ws/deployments", rateLimitWebsocket, rateWindowDefault, r.handleDeploymentsWS)))
}

// handleRoot is the landing path browser flows redirect to. It surfaces any
// pending flash message for the frontend to render.
func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		r.notFound(w)
		return
	}
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	payload := map[string]any{"status": "ok"}
	if msg, ok := popFlash(w, req); ok {
		payload["flash"] = msg
	}
	writeJSON(w, http.StatusOK, payload)
}

func (r *Router) handleSignup(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, tokens, err := r.auth.Signup(req.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	r.setSession(w, tokens.AccessToken, sessionMaxAge)
	writeJSON(w, http.StatusCreated, map[string]any{
		"user": map[string]any{
			"id":    user.ID,
			"email": user.Email,
		},
		"tokens": tokens,
	})
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, tokens, err := r.auth.Login(req.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	r.setSession(w, tokens.AccessToken, sessionMaxAge)
	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":    user.ID,
			"email": user.Email,
		},
		"tokens": tokens,
	})
}

func (r *Router) handleWorkspaces(w http.ResponseWriter, req *http.Request) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for workspace route", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	workspace, err := r.workspace.Create(req.Context(), info.UserID, payload.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, workspace)
}

func (r *Router) handleWorkspaceSubroutes(w http.ResponseWriter, req *http.Request) {
	trimmed := strings.TrimPrefix(req.URL.Path, "/workspaces/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[0] == "" {
		r.notFound(w)
		return
	}
	workspaceID := parts[0]
	switch parts[1] {
	case "invites":
		r.handleWorkspaceInvites(w, req, workspaceID)
	case "authorization":
		r.handleWorkspaceAuthorization(w, req, workspaceID)
	default:
		r.notFound(w)
	}
}

func (r *Router) handleWorkspaceInvites(w http.ResponseWriter, req *http.Request, workspaceID string) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	info, _ := authInfoFromContext(req.Context())
	var payload struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	inv, err := r.invite.Create(req.Context(), workspaceID, payload.Email, payload.Role, info.UserID)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, repository.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (r *Router) handleWorkspaceAuthorization(w http.ResponseWriter, req *http.Request, workspaceID string) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Provider    string `json:"provider"`
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := r.workspace.StoreAuthorization(req.Context(), workspaceID, payload.Provider, payload.AccessToken); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, repository.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "stored"})
}

// handleInviteAccept validates an invite token for the browser and answers
// with a redirect carrying a flash message. Nothing is mutated here.
func (r *Router) handleInviteAccept(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	user := r.sessionUser(req)
	token := req.URL.Query().Get("token")

	result, err := r.invite.Redeem(req.Context(), token, user)
	if err != nil {
		r.logger.Error("invite lookup failed", "error", err)
		r.redirectError(w, req, "Invite lookup failed, please try again.")
		return
	}
	switch result.Outcome {
	case invite.OutcomeMissingToken:
		r.redirectError(w, req, "Invalid invite url, no invite token provided.")
	case invite.OutcomeNotFound:
		r.redirectError(w, req, "Invite not found, please ask for a new invite.")
	case invite.OutcomeLoginRequired:
		r.redirectSuccess(w, req, "Please login to accept the invite.")
	case invite.OutcomeEmailMismatch:
		r.redirectError(w, req, fmt.Sprintf("This invite was sent to %s but you are logged in as %s.", result.Invite.Email, user.Email))
	case invite.OutcomeRetrieved:
		r.redirectSuccess(w, req, "Invite retrieved")
	default:
		r.redirectError(w, req, "Invite could not be processed.")
	}
}

func (r *Router) handleProjects(w http.ResponseWriter, req *http.Request) {
	if _, ok := authInfoFromContext(req.Context()); !ok {
		r.logger.Error("auth context missing for project route", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	switch req.Method {
	case http.MethodPost:
		var payload project.CreateInput
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		proj, err := r.project.Create(req.Context(), payload)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, proj)
	case http.MethodGet:
		workspaceID := req.URL.Query().Get("workspace_id")
		if workspaceID == "" {
			writeError(w, http.StatusBadRequest, "workspace_id query parameter required")
			return
		}
		projects, err := r.project.ListByWorkspace(req.Context(), workspaceID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, projects)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleProjectSubroutes(w http.ResponseWriter, req *http.Request) {
	trimmed := strings.TrimPrefix(req.URL.Path, "/projects/")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 || parts[0] == "" {
		r.notFound(w)
		return
	}
	projectID := parts[0]
	switch {
	case len(parts) == 2 && parts[1] == "deployments":
		r.handleProjectDeployments(w, req, projectID)
	case len(parts) == 3 && parts[1] == "webhook" && parts[2] == "secret":
		r.handleWebhookSecret(w, req, projectID)
	default:
		r.notFound(w)
	}
}

type commitActorPayload struct {
	Name  string `json:"name"`
	Login string `json:"login"`
}

type commitPayload struct {
	SHA       string              `json:"sha"`
	Message   string              `json:"message"`
	Author    *commitActorPayload `json:"author"`
	Committer *commitActorPayload `json:"committer"`
}

func (p commitPayload) toDomain() domain.Commit {
	commit := domain.Commit{SHA: p.SHA, Message: p.Message}
	if p.Author != nil {
		commit.Author = &domain.CommitActor{Name: p.Author.Name, Login: p.Author.Login}
	}
	if p.Committer != nil {
		commit.Committer = &domain.CommitActor{Name: p.Committer.Name, Login: p.Committer.Login}
	}
	return commit
}

func (r *Router) handleProjectDeployments(w http.ResponseWriter, req *http.Request, projectID string) {
	switch req.Method {
	case http.MethodPost:
		var payload struct {
			Environment string        `json:"environment"`
			Commit      commitPayload `json:"commit"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		r.createDeployment(w, req, projectID, payload.Environment, payload.Commit.toDomain())
	case http.MethodGet:
		limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
		deployments, err := r.deploy.ListByProject(req.Context(), projectID, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, deployments)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) createDeployment(w http.ResponseWriter, req *http.Request, projectID, environment string, commit domain.Commit) {
	proj, err := r.project.Get(req.Context(), projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	env, err := r.project.Environment(req.Context(), projectID, environment)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "environment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	authz, err := r.workspace.Authorization(req.Context(), proj.WorkspaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "workspace has no source control authorization")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	deployment, err := r.deploy.Create(req.Context(), *proj, authz, *env, commit)
	if err != nil {
		r.recordDeployOutcome("failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if deployment == nil {
		// Retry budget exhausted on version conflicts; reported as accepted
		// with no deployment attached.
		r.recordDeployOutcome("abandoned")
		writeJSON(w, http.StatusAccepted, map[string]any{"deployment": nil})
		return
	}
	r.recordDeployOutcome("created")
	writeJSON(w, http.StatusCreated, deployment)
}

func (r *Router) handleWebhookSecret(w http.ResponseWriter, req *http.Request, projectID string) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Secret string `json:"secret"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := r.webhook.UpsertSecret(req.Context(), projectID, payload.Secret); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "stored"})
}

// handleWebhookPush turns a signed git push notification into a deployment
// on the project's configured branch.
func (r *Router) handleWebhookPush(w http.ResponseWriter, req *http.Request) {
	projectID := strings.TrimPrefix(req.URL.Path, "/webhooks/")
	if projectID == "" || strings.Contains(projectID, "/") {
		r.notFound(w)
		return
	}
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read body")
		return
	}
	signature := req.Header.Get("X-Webhook-Signature")
	if err := r.webhook.CheckSignature(req.Context(), projectID, body, signature); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var event struct {
		Ref        string `json:"ref"`
		After      string `json:"after"`
		HeadCommit *struct {
			ID      string `json:"id"`
			Message string `json:"message"`
			Author  *struct {
				Name     string `json:"name"`
				Username string `json:"username"`
			} `json:"author"`
			Committer *struct {
				Name     string `json:"name"`
				Username string `json:"username"`
			} `json:"committer"`
		} `json:"head_commit"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	proj, err := r.project.Get(req.Context(), projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if event.Ref != "refs/heads/"+proj.Branch {
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "ignored"})
		return
	}

	commit := domain.Commit{SHA: event.After}
	if event.HeadCommit != nil {
		if commit.SHA == "" {
			commit.SHA = event.HeadCommit.ID
		}
		commit.Message = event.HeadCommit.Message
		if event.HeadCommit.Author != nil {
			commit.Author = &domain.CommitActor{Name: event.HeadCommit.Author.Name, Login: event.HeadCommit.Author.Username}
		}
		if event.HeadCommit.Committer != nil {
			commit.Committer = &domain.CommitActor{Name: event.HeadCommit.Committer.Name, Login: event.HeadCommit.Committer.Username}
		}
	}
	r.createDeployment(w, req, projectID, "production", commit)
}

func (r *Router) handleDeploymentsWS(w http.ResponseWriter, req *http.Request) {
	if _, ok := authInfoFromContext(req.Context()); !ok {
		r.logger.Error("auth context missing for deployments websocket", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	if r.hub == nil {
		writeError(w, http.StatusServiceUnavailable, "deployment stream unavailable")
		return
	}
	projectID := req.URL.Query().Get("project_id")
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "project_id query parameter required")
		return
	}
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	client := ws.NewClient(conn, r.logger)
	r.hub.Register(projectID, client)
	go func() {
		defer func() {
			r.hub.Unregister(projectID, client)
			client.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	components := make(map[string]any)
	status := "ok"
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			status = "degraded"
			components["database"] = map[string]any{"status": "down", "error": err.Error()}
		} else {
			components["database"] = map[string]any{"status": "up"}
		}
	}
	payload := map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, payload)
}

func (r *Router) audit(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		r.recordRequest(req.Method, route, status, duration)

		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
		}
		if ip := clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}
		if reqID := strings.TrimSpace(req.Header.Get("X-Request-ID")); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		switch {
		case status >= http.StatusInternalServerError:
			r.logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			r.logger.Warn("http_request", fields...)
		default:
			r.logger.Info("http_request", fields...)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

// Hijack is required for the websocket upgrade to pass through the recorder.
func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := sr.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("hijacker not supported")
}

func clientIP(req *http.Request) string {
	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(req.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r *Router) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not found")
}
