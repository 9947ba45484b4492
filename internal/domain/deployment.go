package domain

import "time"

// Deployment captures a single deployment attempt. Version is a monotonically
// increasing integer unique within the owning project.
type Deployment struct {
	ID             string
	ProjectID      string
	EnvironmentID  string
	Version        int
	BuildID        string
	Status         string
	Branch         string
	CommitSHA      string
	CommitMessage  string
	CommitterName  string
	Dockerfile     string
	Dockerignore   string
	BuildStartedAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
