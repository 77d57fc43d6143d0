package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// GitClient reads the commit that triggered a build. It lets the week
// command fall back to the HEAD commit message outside CI.
type GitClient interface {
	// Run executes a git command and returns its stdout.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// LastCommitMessage returns the full message of HEAD.
	LastCommitMessage(ctx context.Context, repoPath string) (string, error)
}

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// LastCommitMessage implements the GitClient interface.
func (c *LocalGitClient) LastCommitMessage(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "log", "-n", "1", "--pretty=format:%B")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ResolveCommitMessage picks the commit message used for week detection: the
// explicit flag, then the CI environment, then HEAD when fromGit is set.
// A git failure means there is no message.
func ResolveCommitMessage(ctx context.Context, client GitClient, flag, env string, fromGit bool, repoPath string) string {
	if msg := strings.TrimSpace(flag); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(env); msg != "" {
		return msg
	}
	if !fromGit {
		return ""
	}
	msg, err := client.LastCommitMessage(ctx, repoPath)
	if err != nil {
		return ""
	}
	return msg
}
