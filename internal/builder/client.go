package builder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"log/slog"
)

// BuildRequest carries everything the build provider needs to produce a
// container image for one deployment attempt.
type BuildRequest struct {
	Dockerfile   string `json:"dockerfile"`
	Dockerignore string `json:"dockerignore"`
	Token        string `json:"token"`
	Repository   string `json:"repository"`
	Branch       string `json:"branch"`
}

type buildResponse struct {
	BuildID string `json:"buildId"`
}

// Client talks to the external build provider over HTTP. The provider
// answers synchronously with a build identifier; the image build itself runs
// out of band.
type Client struct {
	baseURL   string
	authToken string
	client    *http.Client
	logger    *slog.Logger
}

// NewClient constructs a build provider client.
func NewClient(baseURL, authToken string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		authToken: authToken,
		client:    &http.Client{Timeout: 30 * time.Second},
		logger:    logger,
	}
}

// StartBuild submits a build request and returns the provider's build id.
func (c *Client) StartBuild(ctx context.Context, req BuildRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/builds", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Error("build request failed", "repository", req.Repository, "branch", req.Branch, "error", err)
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		c.logger.Error("build provider returned error", "repository", req.Repository, "status", resp.Status)
		return "", fmt.Errorf("build provider rejected request: %s", resp.Status)
	}
	var body buildResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if strings.TrimSpace(body.BuildID) == "" {
		return "", errors.New("build provider returned empty build id")
	}
	return body.BuildID, nil
}
