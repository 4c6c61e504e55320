package source

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog"

	"github.com/neelbansal/leetion/internal/storage"
)

// IsGitURL reports whether a source path looks like a git repository rather
// than a local directory.
func IsGitURL(path string) bool {
	return strings.HasSuffix(path, ".git") ||
		strings.HasPrefix(path, "git@") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "http://")
}

// SyncRepo clones a git repository if it doesn't exist at the given path, or
// pulls the latest changes if it does.
func SyncRepo(url, localPath string, logger zerolog.Logger) error {
	_, err := os.Stat(localPath)
	switch {
	case os.IsNotExist(err):
		logger.Info().Str("url", url).Str("path", localPath).Msg("cloning repository")
		if _, err := git.PlainClone(localPath, false, &git.CloneOptions{URL: url}); err != nil {
			return fmt.Errorf("failed to clone repo %s: %w", url, err)
		}
	case err == nil:
		logger.Info().Str("path", localPath).Msg("pulling latest changes")
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
		}
		err = worktree.Pull(&git.PullOptions{RemoteName: "origin"})
		if err != nil && err != git.NoErrAlreadyUpToDate {
			return fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
		}
	default:
		return fmt.Errorf("error checking path %s: %w", localPath, err)
	}
	return nil
}

// LocalPathFor maps a git URL to a stable checkout location under baseDir,
// so repeated imports reuse the same clone. Both https and scp-style ssh
// URLs are understood.
func LocalPathFor(baseDir, repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err == nil && (parsed.Scheme == "https" || parsed.Scheme == "http") {
		return filepath.Join(baseDir, parsed.Host, strings.TrimSuffix(parsed.Path, ".git")), nil
	}

	if strings.Contains(repoURL, "@") {
		parts := strings.SplitN(repoURL, ":", 2)
		if len(parts) == 2 {
			hostAndUser := strings.SplitN(parts[0], "@", 2)
			if len(hostAndUser) == 2 {
				return filepath.Join(baseDir, hostAndUser[1], strings.TrimSuffix(parts[1], ".git")), nil
			}
		}
	}
	return "", fmt.Errorf("could not parse git URL: %s", repoURL)
}

// ImportRepo syncs a git repository into baseDir and imports its solution
// files.
func ImportRepo(db *storage.DB, repoURL, baseDir string, logger zerolog.Logger) (Report, error) {
	localPath, err := LocalPathFor(baseDir, repoURL)
	if err != nil {
		return Report{}, err
	}
	if err := SyncRepo(repoURL, localPath, logger); err != nil {
		return Report{}, err
	}
	return ImportDir(db, localPath, logger)
}
