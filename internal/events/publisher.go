package events

import "context"

// ProjectDeploymentCreated is published once per persisted deployment.
const ProjectDeploymentCreated = "PROJECT_DEPLOYMENT_CREATED"

// DeploymentCreatedPayload is the payload for ProjectDeploymentCreated.
type DeploymentCreatedPayload struct {
	ID string `json:"id"`
}

// Publisher delivers named events to the task channel. Publishing is
// fire-and-forget: implementations log failures and never return them, and no
// delivery acknowledgement is awaited.
type Publisher interface {
	Publish(ctx context.Context, name string, payload any)
	Close()
}

// NopPublisher discards all events.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, string, any) {}

// Close does nothing.
func (NopPublisher) Close() {}
