// Package git reads repository metadata and working tree changes with go-git,
// so scans can run in CI images that ship without a git binary.
package git

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// Metadata identifies the revision a scan ran against.
type Metadata struct {
	Repo   string `json:"repo,omitempty"`
	Commit string `json:"commit,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// validateRoot validates and normalizes a repository root path.
func validateRoot(root string) (string, error) {
	if strings.ContainsRune(root, 0) {
		return "", fmt.Errorf("invalid path: contains null byte")
	}
	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access path %q: %w", root, err)
	}
	if !info.IsDir() {
		abs = filepath.Dir(abs)
	}
	return abs, nil
}

func open(root string) (*gogit.Repository, string, error) {
	dir, err := validateRoot(root)
	if err != nil {
		return nil, "", err
	}
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, "", err
	}
	return repo, dir, nil
}

// RepoMetadata returns repository metadata best-effort for the given root.
// Fields are empty when they cannot be determined.
func RepoMetadata(root string) Metadata {
	var md Metadata
	repo, _, err := open(root)
	if err != nil {
		return md
	}
	if remote, err := repo.Remote("origin"); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			md.Repo = shortRepo(urls[0])
		}
	}
	if head, err := repo.Head(); err == nil {
		md.Commit = head.Hash().String()
		if head.Name().IsBranch() {
			md.Branch = head.Name().Short()
		}
	}
	return md
}

// shortRepo keeps owner/name of a remote URL when possible.
func shortRepo(s string) string {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".git")
	if i := strings.Index(s, "github.com/"); i >= 0 {
		return s[i+len("github.com/"):]
	}
	if i := strings.LastIndex(s, ":"); i >= 0 && !strings.Contains(s[i:], "//") {
		return s[i+1:]
	}
	return s
}

// ChangedFiles lists files that are added, modified or untracked in the
// working tree or index, relative to root and slash-separated. Deleted files
// and files outside root are omitted.
func ChangedFiles(root string) ([]string, error) {
	repo, dir, err := open(root)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("worktree: %w", err)
	}
	st, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	wtRoot := wt.Filesystem.Root()
	if r, err := filepath.EvalSymlinks(wtRoot); err == nil {
		wtRoot = r
	}
	if r, err := filepath.EvalSymlinks(dir); err == nil {
		dir = r
	}

	var out []string
	for p, fs := range st {
		if fs.Worktree == gogit.Deleted || (fs.Staging == gogit.Deleted && fs.Worktree != gogit.Untracked) {
			continue
		}
		if fs.Worktree == gogit.Unmodified && fs.Staging == gogit.Unmodified {
			continue
		}
		rel, err := filepath.Rel(dir, filepath.Join(wtRoot, filepath.FromSlash(p)))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out, nil
}
