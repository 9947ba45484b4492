package domain

import "time"

// Project describes a deployable repository.
type Project struct {
	ID           string
	WorkspaceID  string
	Name         string
	RepoName     string
	Branch       string
	BuildCommand string
	StartCommand string
	CreatedAt    time.Time
}

// Environment represents a deployment target such as production or preview.
type Environment struct {
	ID        string
	ProjectID string
	Slug      string
	Name      string
	CreatedAt time.Time
}
