package contract

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGitClient is a mock type for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, repoPath}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// LastCommitMessage implements the GitClient interface.
func (m *MockGitClient) LastCommitMessage(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	return ret.String(0), ret.Error(1)
}

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

func TestResolveCommitMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit message wins", func(t *testing.T) {
		client := new(MockGitClient)
		msg := ResolveCommitMessage(ctx, client, "Rebuild 3", "42", true, ".")
		assert.Equal(t, "Rebuild 3", msg)
		client.AssertNotCalled(t, "LastCommitMessage", mock.Anything, mock.Anything)
	})

	t.Run("environment before git", func(t *testing.T) {
		client := new(MockGitClient)
		assert.Equal(t, "CI week 9", ResolveCommitMessage(ctx, client, "", "CI week 9", true, "."))
	})

	t.Run("git only when asked", func(t *testing.T) {
		client := new(MockGitClient)
		assert.Empty(t, ResolveCommitMessage(ctx, client, "", "", false, "."))

		client.On("LastCommitMessage", ctx, "repo").Return("Add week 12", nil).Once()
		assert.Equal(t, "Add week 12", ResolveCommitMessage(ctx, client, "", "", true, "repo"))
		client.AssertExpectations(t)
	})

	t.Run("git failure leaves the message empty", func(t *testing.T) {
		client := new(MockGitClient)
		client.On("LastCommitMessage", ctx, "repo").Return("", assert.AnError).Once()
		assert.Empty(t, ResolveCommitMessage(ctx, client, "", "", true, "repo"))
	})
}

// TestNewLocalGitClient tests the constructor for LocalGitClient.
func TestNewLocalGitClient(t *testing.T) {
	client := NewLocalGitClient()
	assert.NotNil(t, client, "NewLocalGitClient should return a non-nil client")
	assert.IsType(t, &LocalGitClient{}, client)
}

func TestLocalGitClient_Run(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	_, err := client.Run(context.Background(), filepath.Join(t.TempDir(), "nonexistent"), "status")
	assert.Error(t, err, "Run should fail outside a repository")
}

func TestLocalGitClient_LastCommitMessage(t *testing.T) {
	skipIfGitNotAvailable(t)

	dir := t.TempDir()
	git := func(args ...string) {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=t", "GIT_AUTHOR_EMAIL=t@example.org",
			"GIT_COMMITTER_NAME=t", "GIT_COMMITTER_EMAIL=t@example.org")
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	git("init", "-q")
	git("commit", "--allow-empty", "-q", "-m", "Upload submissions for 44")

	msg, err := NewLocalGitClient().LastCommitMessage(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "Upload submissions for 44", msg)

	_, err = NewLocalGitClient().LastCommitMessage(context.Background(), t.TempDir())
	assert.Error(t, err)
}
