package domain

import "time"

// Workspace groups projects and members under one account boundary.
type Workspace struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
}

// WorkspaceMember links a user to a workspace with a role.
type WorkspaceMember struct {
	WorkspaceID string
	UserID      string
	Role        string
	CreatedAt   time.Time
}

// Invite is an outstanding offer to join a workspace, addressed to an email.
// The redemption flow reads invites but never mutates them.
type Invite struct {
	ID          string
	WorkspaceID string
	Token       string
	Email       string
	Role        string
	CreatedBy   string
	CreatedAt   time.Time
}

// Authorization holds a currently valid access token for the source-control
// provider a workspace is connected to.
type Authorization struct {
	WorkspaceID string
	Provider    string
	AccessToken string
	UpdatedAt   time.Time
}
