package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// initRepo creates a repository with one commit on "main" and a "v1" tag.
func initRepo(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	if err != nil {
		t.Fatalf("cannot initialize git repo: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "index.js"), []byte("let a = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := worktree.Add("index.js"); err != nil {
		t.Fatal(err)
	}

	hash, err := worktree.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("cannot commit: %v", err)
	}

	if _, err := repo.CreateTag("v1", hash, nil); err != nil {
		t.Fatal(err)
	}

	return dir, hash.String()
}

func TestClient_IsGitRepo(t *testing.T) {
	repoDir, _ := initRepo(t)
	sub := filepath.Join(repoDir, "src", "components")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "repo_root", path: repoDir, want: true},
		{name: "subdirectory", path: sub, want: true},
		{name: "not_a_repo", path: t.TempDir(), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewClient(tt.path).IsGitRepo(context.Background())
			if err != nil {
				t.Fatalf("IsGitRepo() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsGitRepo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_ResolveRef(t *testing.T) {
	repoDir, head := initRepo(t)
	client := NewClient(repoDir)

	tests := []struct {
		name    string
		ref     string
		wantErr error
	}{
		{name: "branch", ref: "main"},
		{name: "tag", ref: "v1"},
		{name: "head", ref: "HEAD"},
		{name: "hash", ref: head},
		{name: "unknown_branch", ref: "does-not-exist", wantErr: ErrUnknownRef},
		{name: "empty", ref: "", wantErr: ErrEmptyRef},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.ResolveRef(context.Background(), tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveRef() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveRef() error = %v", err)
			}
			if got != head {
				t.Errorf("ResolveRef(%q) = %s, want %s", tt.ref, got, head)
			}
		})
	}
}

func TestClient_ResolveRefOutsideRepo(t *testing.T) {
	_, err := NewClient(t.TempDir()).ResolveRef(context.Background(), "main")
	if !errors.Is(err, ErrNotAGitRepo) {
		t.Errorf("ResolveRef() error = %v, want ErrNotAGitRepo", err)
	}
}

func TestClient_GetHeadCommit(t *testing.T) {
	repoDir, head := initRepo(t)

	got, err := NewClient(repoDir).GetHeadCommit(context.Background())
	if err != nil {
		t.Fatalf("GetHeadCommit() error = %v", err)
	}
	if got != head {
		t.Errorf("GetHeadCommit() = %s, want %s", got, head)
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(t.TempDir())
	if _, err := client.IsGitRepo(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("IsGitRepo() error = %v, want context.Canceled", err)
	}
	if _, err := client.ResolveRef(ctx, "main"); !errors.Is(err, context.Canceled) {
		t.Errorf("ResolveRef() error = %v, want context.Canceled", err)
	}
	if _, err := client.GetHeadCommit(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("GetHeadCommit() error = %v, want context.Canceled", err)
	}
}
