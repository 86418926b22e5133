package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	appctx "github.com/requiem-ai/repobot/context"
)

const GIT_SVC = "git_svc"

// GitService clones repositories into per-run working directories and
// discovers source files inside them. All git operations shell out to the
// git binary.
type GitService struct {
	appctx.DefaultService

	BaseDir string
}

func (svc GitService) Id() string {
	return GIT_SVC
}

func (svc *GitService) Configure(ctx *appctx.Context) error {
	if err := svc.DefaultService.Configure(ctx); err != nil {
		return err
	}

	baseDir := strings.TrimSpace(os.Getenv("REPO_CACHE_ROOT"))
	if baseDir == "" {
		baseDir = filepath.Join(os.TempDir(), "repobot")
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(absBase, 0o755); err != nil {
		return err
	}

	svc.BaseDir = absBase

	return nil
}

// Clone clones repoURL into a fresh directory under BaseDir and checks out
// the given branch or tag. It returns the working tree path.
func (svc *GitService) Clone(ctx context.Context, repoURL, checkout string) (string, error) {
	if strings.TrimSpace(repoURL) == "" {
		return "", errors.New("missing repository url")
	}

	dir, err := os.MkdirTemp(svc.BaseDir, repoSlug(repoURL)+"-*")
	if err != nil {
		return "", err
	}

	if err := runGit(ctx, "", "clone", repoURL, dir); err != nil {
		return "", fmt.Errorf("clone %s: %w", repoURL, err)
	}

	if checkout != "" {
		if err := runGit(ctx, dir, "checkout", checkout); err != nil {
			return "", fmt.Errorf("checkout %s: %w", checkout, err)
		}
	}

	return dir, nil
}

// Remove deletes a working tree created by Clone.
func (svc *GitService) Remove(path string) {
	if path == "" || !strings.HasPrefix(path, svc.BaseDir) {
		return
	}
	if err := os.RemoveAll(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to remove working tree")
	}
}

// DiscoverFiles walks root and returns the paths of regular files whose
// extension is in exts (without leading dot), sorted. The .git directory is
// skipped. Counts per extension are logged.
func (svc *GitService) DiscoverFiles(root string, exts []string) ([]string, error) {
	wanted := make(map[string]bool, len(exts))
	counts := make(map[string]int, len(exts))
	for _, e := range exts {
		wanted[strings.TrimPrefix(strings.TrimSpace(e), ".")] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		if wanted[ext] {
			files = append(files, path)
			counts[ext]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, e := range exts {
		ext := strings.TrimPrefix(strings.TrimSpace(e), ".")
		log.Info().Int("count", counts[ext]).Str("extension", ext).Msg("found source files")
	}

	sort.Strings(files)
	return files, nil
}

func runGit(ctx context.Context, repoPath string, args ...string) error {
	if repoPath != "" {
		args = append([]string{"-C", repoPath}, args...)
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// repoSlug derives a filesystem-friendly name from a repository URL.
func repoSlug(repoURL string) string {
	name := strings.TrimSuffix(repoURL, ".git")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	name = slugRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	name = strings.Trim(name, "-")
	if name == "" {
		return "repo"
	}
	return name
}
