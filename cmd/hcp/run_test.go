//go:build unix

package main

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertti/hcp/pkg/testutil"
)

const testID = "abcdefgh-1234-5678-9012-ijklmnopqrst"

func startPingServer(t *testing.T, statuses ...int) (*testutil.PingRecorder, string) {
	t.Helper()
	clearHCPEnv(t)

	originalDelay := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = originalDelay })

	rec := &testutil.PingRecorder{Statuses: statuses}
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)
	return rec, srv.URL
}

func TestRun_Lifecycle(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantCode  int
		wantPaths []string
		wantBody  string
	}{
		{
			name:      "success",
			args:      []string{"sh", "-c", "echo all good"},
			wantCode:  0,
			wantPaths: []string{"/" + testID + "/start", "/" + testID},
			wantBody:  "all good",
		},
		{
			name:      "failure forwards code",
			args:      []string{"sh", "-c", "echo out; echo err >&2; exit 3"},
			wantCode:  3,
			wantPaths: []string{"/" + testID + "/start", "/" + testID + "/fail/3"},
		},
		{
			name:      "ignore code",
			args:      []string{"--hcp-ignore-code", "sh", "-c", "echo ignored; exit 7"},
			wantCode:  0,
			wantPaths: []string{"/" + testID + "/start", "/" + testID},
			wantBody:  "ignored",
		},
		{
			name:      "killed by signal",
			args:      []string{"sh", "-c", "kill -TERM $$"},
			wantCode:  964,
			wantPaths: []string{"/" + testID + "/start", "/" + testID + "/fail"},
		},
		{
			name:      "killed by signal with ignore code",
			args:      []string{"--hcp-ignore-code", "sh", "-c", "kill -TERM $$"},
			wantCode:  0,
			wantPaths: []string{"/" + testID + "/start", "/" + testID},
		},
		{
			name:      "no command",
			args:      nil,
			wantCode:  0,
			wantPaths: []string{"/" + testID},
			wantBody:  "No command given",
		},
		{
			name:      "spawn failure",
			args:      []string{"nonexistent-command-that-does-not-exist-12345"},
			wantCode:  961,
			wantPaths: []string{"/" + testID + "/start"},
		},
		{
			name:      "child flags are not parsed by hcp",
			args:      []string{"sh", "-c", `echo "$0 $1"`, "--hcp-tee", "-v"},
			wantCode:  0,
			wantPaths: []string{"/" + testID + "/start", "/" + testID},
			wantBody:  "--hcp-tee -v",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, url := startPingServer(t)

			args := append([]string{"--hcp-id", testID, "--hcp-url", url}, tt.args...)
			_, _, code := executeCommand(args...)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantPaths, rec.Paths())
			if tt.wantBody != "" {
				reqs := rec.Requests()
				assert.Equal(t, tt.wantBody, reqs[len(reqs)-1].Body)
			}
		})
	}
}

func TestRun_FailureBodyHasBothStreams(t *testing.T) {
	rec, url := startPingServer(t)

	_, _, code := executeCommand("--hcp-id", testID, "--hcp-url", url, "sh", "-c", "echo out; echo err >&2; exit 3")

	assert.Equal(t, 3, code)
	reqs := rec.Requests()
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[1].Body, "out")
	assert.Contains(t, reqs[1].Body, "err")
}

func TestRun_StartFailureSkipsCommand(t *testing.T) {
	rec, url := startPingServer(t, 500, 500)
	marker := filepath.Join(t.TempDir(), "ran")

	_, stderr, code := executeCommand("--hcp-id", testID, "--hcp-url", url, "touch", marker)

	assert.Equal(t, 963, code)
	assert.Len(t, rec.Requests(), 2)
	assert.NoFileExists(t, marker)
	assert.Contains(t, stderr, "after 2 attempts")
}

func TestRun_FinishFailureOverridesCode(t *testing.T) {
	rec, url := startPingServer(t, 200, 404)

	_, _, code := executeCommand("--hcp-id", testID, "--hcp-url", url, "sh", "-c", "exit 0")

	assert.Equal(t, 963, code)
	assert.Len(t, rec.Requests(), 2)
}

func TestRun_Tee(t *testing.T) {
	_, url := startPingServer(t)

	stdout, stderr, code := executeCommand("--hcp-id", testID, "--hcp-url", url, "--hcp-tee", "sh", "-c", "printf 'to out'; printf 'to err' >&2")

	assert.Equal(t, 0, code)
	assert.Equal(t, "to out", stdout)
	assert.Contains(t, stderr, "to err")
}

func TestRun_NoTeeKeepsOutputQuiet(t *testing.T) {
	_, url := startPingServer(t)

	stdout, _, code := executeCommand("--hcp-id", testID, "--hcp-url", url, "sh", "-c", "echo quiet")

	assert.Equal(t, 0, code)
	assert.Empty(t, stdout)
}

func TestRun_EnvironmentConfiguration(t *testing.T) {
	rec, url := startPingServer(t)
	t.Setenv("HCP_ID", testID)
	t.Setenv("HCP_URL", url)
	t.Setenv("HCP_IGNORE_CODE", "1")

	_, _, code := executeCommand("sh", "-c", `echo "${HCP_ID-unset} ${HCP_URL-unset} ${HCP_IGNORE_CODE-unset}"; exit 5`)

	assert.Equal(t, 0, code)
	reqs := rec.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/"+testID, reqs[1].Path)
	assert.Equal(t, "unset unset unset", reqs[1].Body)
}

func TestRun_ConfigFile(t *testing.T) {
	rec, url := startPingServer(t)
	path := filepath.Join(t.TempDir(), "hcp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: "+testID+"\nurl: "+url+"\n"), 0o600))

	_, _, code := executeCommand("--hcp-config", path, "true")

	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"/" + testID + "/start", "/" + testID}, rec.Paths())
}
