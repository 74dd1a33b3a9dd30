package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountd/accountd/internal/api"
	"github.com/accountd/accountd/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "accountctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/accountctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// Create application with in-memory storage; reset emails go to the log
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AccountService: app.AccountService,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type accountResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type authResponse struct {
	Account      accountResponse `json:"account"`
	SessionToken string          `json:"session_token"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_RegisterAndMe(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Register
	output, err := cli.run("account", "register",
		"--email", "alice@example.com", "--pass", "secret123", "--user", "alice")
	require.NoError(t, err, "output: %s", output)

	var authResp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &authResp))
	assert.Equal(t, "alice", authResp.Account.Username)
	assert.Equal(t, "alice@example.com", authResp.Account.Email)
	assert.NotEmpty(t, authResp.SessionToken)

	// Get me (token should be saved in token file)
	output, err = cli.run("account", "me")
	require.NoError(t, err, "output: %s", output)

	var me accountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &me))
	assert.Equal(t, authResp.Account.ID, me.ID)
	assert.Equal(t, "alice@example.com", me.Email)
}

func TestCLI_LoginAndLogout(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("account", "register",
		"--email", "alice@example.com", "--pass", "secret123", "--user", "alice")
	require.NoError(t, err, "output: %s", output)

	// Login with fresh credentials
	output, err = cli.run("account", "login",
		"--email", "alice@example.com", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)

	var authResp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &authResp))
	assert.NotEmpty(t, authResp.SessionToken)

	// Logout
	output, err = cli.runWithToken(authResp.SessionToken, "account", "logout")
	require.NoError(t, err, "output: %s", output)

	var okResp okResponse
	require.NoError(t, json.Unmarshal([]byte(output), &okResp))
	assert.True(t, okResp.OK)

	// The destroyed session no longer works
	output, err = cli.runWithToken(authResp.SessionToken, "account", "me")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")
}

func TestCLI_AccountLookupHidesEmail(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	other := &cliRunner{
		binaryPath: cli.binaryPath,
		serverURL:  cli.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token2"),
	}

	output, err := cli.run("account", "register",
		"--email", "alice@example.com", "--pass", "secret123", "--user", "alice")
	require.NoError(t, err, "output: %s", output)
	var alice authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &alice))

	output, err = other.run("account", "register",
		"--email", "bob@example.com", "--pass", "secret123", "--user", "bob")
	require.NoError(t, err, "output: %s", output)
	var bob authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &bob))

	aliceID := strconv.FormatInt(alice.Account.ID, 10)

	// Bob looks up Alice: no email
	output, err = other.runWithToken(bob.SessionToken, "account", "get", aliceID)
	require.NoError(t, err, "output: %s", output)
	var seen accountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &seen))
	assert.Equal(t, "alice", seen.Username)
	assert.Empty(t, seen.Email)

	// Alice looks herself up: email visible
	output, err = cli.runWithToken(alice.SessionToken, "account", "get", aliceID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &seen))
	assert.Equal(t, "alice@example.com", seen.Email)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Me without auth
	output, err := cli.run("account", "me")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")

	// Weak password surfaces the validation message
	output, err = cli.run("account", "register",
		"--email", "alice@example.com", "--pass", "short")
	assert.Error(t, err)
	assert.Contains(t, output, "Passwords must be at least 6 characters long")

	// Invalid reset token
	output, err = cli.run("account", "change-password",
		"--reset-token", "bogus", "--pass", "newsecret")
	assert.Error(t, err)
	assert.Contains(t, output, "Invalid token")
}

