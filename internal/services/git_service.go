package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNothingToCommit is returned by Commit when none of the given paths changed.
var ErrNothingToCommit = errors.New("nothing to commit")

type GitService struct {
	now func() time.Time
}

func NewGitService() *GitService {
	return &GitService{now: time.Now}
}

// Init initializes a new git repo at given path
func (g *GitService) Init(path string) (*git.Repository, error) {
	repo, err := git.PlainInit(path, false)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// Open an existing repo
func (g *GitService) Open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}
	return repo, nil
}

// OpenOrInit opens the repository at path, creating it if none exists.
func (g *GitService) OpenOrInit(path string) (*git.Repository, bool, error) {
	repo, err := git.PlainOpen(path)
	if err == nil {
		return repo, false, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, false, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}
	repo, err = g.Init(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to init repository at %s: %w", path, err)
	}
	return repo, true, nil
}

// Commit stages the given paths and records a commit.
func (g *GitService) Commit(repo *git.Repository, message string, author object.Signature, paths ...string) (string, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to load worktree: %w", err)
	}
	for _, p := range paths {
		if _, err := wt.Add(p); err != nil {
			return "", fmt.Errorf("failed to stage %s: %w", p, err)
		}
	}

	status, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("failed to read status: %w", err)
	}
	if !hasStagedChanges(status, paths) {
		return "", ErrNothingToCommit
	}

	if author.When.IsZero() {
		author.When = g.now()
	}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: &author})
	if errors.Is(err, git.ErrEmptyCommit) {
		return "", ErrNothingToCommit
	}
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return hash.String(), nil
}

// hasStagedChanges reports whether any of paths is staged with a change.
// Files outside paths, such as untracked notes next to the export, are ignored.
func hasStagedChanges(status git.Status, paths []string) bool {
	for _, p := range paths {
		// Status.File would insert an Untracked entry for unchanged paths.
		fs, ok := status[filepath.ToSlash(p)]
		if !ok {
			continue
		}
		if fs.Staging != git.Unmodified && fs.Staging != git.Untracked {
			return true
		}
	}
	return false
}

// LatestCommit returns the HEAD commit hash of the repository at repoPath.
func (g *GitService) LatestCommit(repoPath string) (string, error) {
	repo, err := g.Open(repoPath)
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}
