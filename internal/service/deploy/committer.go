package deploy

import "github.com/slipway-sh/slipway/internal/domain"

const unknownCommitter = "Unknown"

// ResolveCommitter picks a display name for the person behind a commit.
// Priority: author name, committer login, author login, then "Unknown".
// Always returns a non-empty string.
func ResolveCommitter(commit domain.Commit) string {
	if commit.Author != nil && commit.Author.Name != "" {
		return commit.Author.Name
	}
	if commit.Committer != nil && commit.Committer.Login != "" {
		return commit.Committer.Login
	}
	if commit.Author != nil && commit.Author.Login != "" {
		return commit.Author.Login
	}
	return unknownCommitter
}
