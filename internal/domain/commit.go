package domain

// Commit is the commit payload supplied by callers when triggering a
// deployment. Author and Committer may both be absent.
type Commit struct {
	SHA       string
	Message   string
	Author    *CommitActor
	Committer *CommitActor
}

// CommitActor identifies a person attached to a commit. Name is the display
// name from the commit metadata; Login is the provider account handle.
type CommitActor struct {
	Name  string
	Login string
}
