package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
	"go.uber.org/zap"

	"apiforge/internal/events"
	"apiforge/internal/models"
	"apiforge/internal/utils"
	"apiforge/internal/workflow"
)

// ExportResult describes an export written to disk.
type ExportResult struct {
	Dir        string
	Files      []string
	CreatedDir bool
	// Initialized is set when a git repository was created in Dir.
	Initialized bool
	// CommitHash is empty when committing was skipped or nothing changed.
	CommitHash string
	// Head is the repository HEAD after the commit step.
	Head string
}

type ExportOptions struct {
	Commit      bool
	Message     string
	AuthorName  string
	AuthorEmail string
}

// ExportService writes integration artifacts to a directory and optionally
// commits them to a git repository there.
type ExportService struct {
	git    *GitService
	logger *zap.Logger
}

func NewExportService(git *GitService, logger *zap.Logger) *ExportService {
	if git == nil {
		git = NewGitService()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{git: git, logger: logger}
}

func (s *ExportService) Export(ctx context.Context, dir string, artifacts models.Artifacts, opts ExportOptions) (*ExportResult, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("export directory is required")
	}
	if strings.TrimSpace(artifacts.Code) == "" {
		return nil, errors.New("no generated code to export")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve export directory: %w", err)
	}
	createdDir := !utils.DirectoryExists(abs)
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	files := map[string]string{
		workflow.CodeFileName:   artifacts.Code,
		workflow.ReadmeFileName: artifacts.Readme,
	}
	names := []string{workflow.CodeFileName, workflow.ReadmeFileName}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(abs, name), []byte(files[name]), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}
	res := &ExportResult{Dir: abs, Files: names, CreatedDir: createdDir}

	if !opts.Commit {
		return res, nil
	}

	repo, created, err := s.git.OpenOrInit(abs)
	if err != nil {
		return nil, err
	}
	res.Initialized = created

	message := strings.TrimSpace(opts.Message)
	if message == "" {
		message = "Add generated API integration"
	}
	author := object.Signature{Name: opts.AuthorName, Email: opts.AuthorEmail}
	if author.Name == "" {
		author.Name = "apiforge"
	}
	if author.Email == "" {
		author.Email = "apiforge@localhost"
	}

	hash, err := s.git.Commit(repo, message, author, names...)
	if errors.Is(err, ErrNothingToCommit) {
		res.Head, err = s.git.LatestCommit(abs)
		if err != nil {
			s.logger.Warn("resolve HEAD after unchanged export", zap.String("dir", abs), zap.Error(err))
		}
		s.logger.Info("export unchanged, nothing committed", zap.String("dir", abs), zap.String("head", res.Head))
		return res, nil
	}
	if err != nil {
		return nil, err
	}
	res.CommitHash = hash
	res.Head = hash

	s.logger.Info("exported integration", zap.String("dir", abs), zap.String("commit", hash))
	events.Emit(ctx, events.DeployStatus, events.NewInfo("Artifacts committed").With("commit", hash))
	return res, nil
}
