package deploy

import (
	"testing"

	"github.com/slipway-sh/slipway/internal/domain"
)

func TestResolveCommitter(t *testing.T) {
	cases := []struct {
		name   string
		commit domain.Commit
		want   string
	}{
		{
			name:   "author name wins",
			commit: domain.Commit{Author: &domain.CommitActor{Name: "Ada Lovelace", Login: "ada"}, Committer: &domain.CommitActor{Login: "bot"}},
			want:   "Ada Lovelace",
		},
		{
			name:   "committer login when author name empty",
			commit: domain.Commit{Author: &domain.CommitActor{Login: "ada"}, Committer: &domain.CommitActor{Login: "bot"}},
			want:   "bot",
		},
		{
			name:   "author login as last resort before unknown",
			commit: domain.Commit{Author: &domain.CommitActor{Login: "ada"}},
			want:   "ada",
		},
		{
			name:   "nil actors",
			commit: domain.Commit{},
			want:   "Unknown",
		},
		{
			name:   "empty actors",
			commit: domain.Commit{Author: &domain.CommitActor{}, Committer: &domain.CommitActor{}},
			want:   "Unknown",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveCommitter(tc.commit); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
