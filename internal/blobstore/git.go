package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const gitAuthor = "inknote"

// Git keeps each blob as a JSON file in a local repository and commits every
// change, so earlier saves stay recoverable through Revisions.
type Git struct {
	mu   sync.Mutex
	dir  string
	repo *git.Repository
}

// Revision describes one committed save.
type Revision struct {
	Hash      string
	Message   string
	CreatedAt time.Time
}

// OpenGit opens the repository at dir, initialising it when missing.
func OpenGit(dir string) (*Git, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("git store dir is required")
	}
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create repo dir: %w", err)
		}
		repo, err = git.PlainInit(dir, false)
		if err != nil {
			return nil, fmt.Errorf("init repo: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}
	return &Git{dir: dir, repo: repo}, nil
}

func (s *Git) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	commitObj, err := s.head()
	if err != nil {
		return nil, err
	}
	file, err := commitObj.File(fileName(key))
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s from commit: %w", fileName(key), err)
	}
	reader, err := file.Reader()
	if err != nil {
		return nil, fmt.Errorf("open blob reader: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob bytes: %w", err)
	}
	return data, nil
}

func (s *Git) Set(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	worktree, err := s.repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	name := fileName(key)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if _, err := worktree.Add(name); err != nil {
		return fmt.Errorf("git add %s: %w", name, err)
	}
	return s.commit(worktree, "Save "+key)
}

func (s *Git) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := fileName(key)
	if _, err := os.Stat(filepath.Join(s.dir, name)); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	worktree, err := s.repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	if _, err := worktree.Remove(name); err != nil {
		return fmt.Errorf("git rm %s: %w", name, err)
	}
	return s.commit(worktree, "Delete "+key)
}

// Revisions lists the most recent commits touching key, newest first.
func (s *Git) Revisions(key string, limit int) ([]Revision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.head(); errors.Is(err, ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	name := fileName(key)
	iter, err := s.repo.Log(&git.LogOptions{FileName: &name})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	var items []Revision
	err = iter.ForEach(func(commitObj *object.Commit) error {
		items = append(items, Revision{
			Hash:      commitObj.Hash.String()[:7],
			Message:   strings.TrimSpace(commitObj.Message),
			CreatedAt: commitObj.Author.When,
		})
		if limit > 0 && len(items) >= limit {
			return io.EOF
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("iterate log: %w", err)
	}
	return items, nil
}

func (s *Git) Ping(context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("stat repo dir: %w", err)
	}
	return nil
}

func (s *Git) Close() error { return nil }

func (s *Git) head() (*object.Commit, error) {
	ref, err := s.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve head: %w", err)
	}
	commitObj, err := s.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("load commit object: %w", err)
	}
	return commitObj, nil
}

func (s *Git) commit(worktree *git.Worktree, message string) error {
	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("git status: %w", err)
	}
	if status.IsClean() {
		return nil
	}
	_, err = worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  gitAuthor,
			Email: gitAuthor + "@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("commit blob: %w", err)
	}
	return nil
}

func fileName(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "blob.json"
	}
	return b.String() + ".json"
}
