// Package git provides an interface-based wrapper for the Git lookups the
// check command needs before handing VCS filters to the tool.
package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Common Git errors
var (
	ErrNotAGitRepo = errors.New("not a git repository")
	ErrInvalidRepo = errors.New("invalid git repository")
	ErrUnknownRef  = errors.New("unknown revision")
	ErrEmptyRef    = errors.New("revision cannot be empty")
)

// Git is the interface for Git operations.
type Git interface {
	IsGitRepo(ctx context.Context) (bool, error)
	ResolveRef(ctx context.Context, ref string) (string, error)
	GetHeadCommit(ctx context.Context) (string, error)
}

// Client implements the Git interface.
type Client struct {
	path string // Any path inside the worktree
}

// NewClient creates a new Git client. path may be a subdirectory of the
// worktree; the repository is found by walking up to the nearest .git.
func NewClient(path string) *Client {
	return &Client{
		path: path,
	}
}

func (c *Client) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(c.path, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotAGitRepo, c.path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRepo, err.Error())
	}
	return repo, nil
}

// IsGitRepo checks if the path is inside a valid git repository.
// Returns (true, nil) if valid, (false, nil) if not found, (false, err) if corrupted.
func (c *Client) IsGitRepo(ctx context.Context) (bool, error) {
	// Check context cancellation
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context cancelled: %w", err)
	}

	_, err := c.open()
	if errors.Is(err, ErrNotAGitRepo) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ResolveRef resolves a branch, tag, or commit-ish to a commit hash.
func (c *Client) ResolveRef(ctx context.Context, ref string) (string, error) {
	// Check context cancellation
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}

	if ref == "" {
		return "", ErrEmptyRef
	}

	repo, err := c.open()
	if err != nil {
		return "", err
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return "", fmt.Errorf("%w %q: %s", ErrUnknownRef, ref, err.Error())
	}

	return hash.String(), nil
}

// GetHeadCommit returns the commit hash of HEAD.
func (c *Client) GetHeadCommit(ctx context.Context) (string, error) {
	// Check context cancellation
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}

	repo, err := c.open()
	if err != nil {
		return "", err
	}

	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}

	return ref.Hash().String(), nil
}
