package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/foundernote/notes-contract-tests/framework"
	"github.com/foundernote/notes-contract-tests/notesapi"
	"github.com/foundernote/notes-contract-tests/notetests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func parseArgs(t *testing.T, args ...string) (commandParams, error) {
	var params commandParams
	var err error
	app := &cli.App{
		Name:  commandName,
		Flags: commandFlags(),

		DisableSliceFlagSeparator: true,
		Action: func(c *cli.Context) error {
			params, err = readParams(c)
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{commandName}, args...)))
	return params, err
}

func TestDefaultParams(t *testing.T) {
	params, err := parseArgs(t, "--url", "http://localhost:3000/api")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/api", params.ServiceURL)
	assert.Equal(t, notetests.DefaultUserID, params.UserID)
	assert.Equal(t, notesapi.DefaultTimeout, params.Timeout)
	assert.Equal(t, time.Duration(0), params.AwaitService)
	assert.False(t, params.filters.IsDefined())
}

func TestURLIsRequired(t *testing.T) {
	_, err := parseArgs(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url: cannot be blank")
}

func TestURLMustBeValid(t *testing.T) {
	_, err := parseArgs(t, "--url", "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url:")
}

func TestParamsFromEnvironment(t *testing.T) {
	t.Setenv("NOTES_API_URL", "http://notes.example.com/api")
	t.Setenv("NOTES_USER_ID", "someone-else")
	t.Setenv("NOTES_TIMEOUT", "5s")

	params, err := parseArgs(t)
	require.NoError(t, err)
	assert.Equal(t, "http://notes.example.com/api", params.ServiceURL)
	assert.Equal(t, "someone-else", params.UserID)
	assert.Equal(t, 5*time.Second, params.Timeout)
}

func TestParamsFromConfigFile(t *testing.T) {
	t.Setenv("TEST_NOTES_HOST", "notes.example.com")
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
url: https://${TEST_NOTES_HOST}/api
user_id: from-file
timeout: 10s
await_service: 1m
run:
  - ^tag
debug: true
`), 0o600))

	params, err := parseArgs(t, "--config", file, "--user-id", "from-flag")
	require.NoError(t, err)
	assert.Equal(t, "https://notes.example.com/api", params.ServiceURL)
	assert.Equal(t, file, params.ConfigFile)
	assert.Equal(t, "from-flag", params.UserID)
	assert.Equal(t, 10*time.Second, params.Timeout)
	assert.Equal(t, time.Minute, params.AwaitService)
	assert.True(t, params.Debug)
	assert.True(t, params.filters.AsFilter(framework.TestID{}.Plus("tag persistence")))
	assert.False(t, params.filters.AsFilter(framework.TestID{}.Plus("folder persistence")))
}

func TestMissingConfigFile(t *testing.T) {
	_, err := parseArgs(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestInvalidFilter(t *testing.T) {
	_, err := parseArgs(t, "--url", "http://localhost:3000", "--skip", "(")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid regex")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := parseArgs(t, "--url", "http://localhost:3000", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestRerunCommand(t *testing.T) {
	params := defaultParams()
	params.ServiceURL = "http://localhost:3000/api"

	assert.Equal(t, "", params.rerunCommand(framework.Results{}))

	partial := framework.TestID{}.Plus("partial update keeps other fields")
	results := framework.Results{
		Failures: []framework.TestResult{
			{TestID: framework.TestID{}.Plus("tags filter"), Failed: true},
			{TestID: partial.Plus("removing folder"), Failed: true},
			{TestID: partial, Failed: true},
		},
	}
	assert.Equal(t,
		`notes-contract-tests --url http://localhost:3000/api --run '^(tags filter|partial update keeps other fields)(/|$)' --debug`,
		params.rerunCommand(results))

	params.UserID = "me"
	params.Timeout = 5 * time.Second
	assert.Equal(t,
		`notes-contract-tests --url http://localhost:3000/api --user-id me --timeout 5s --run '^(tags filter|partial update keeps other fields)(/|$)' --debug`,
		params.rerunCommand(results))

	params.ConfigFile = "my notes.yaml"
	params.AwaitService = 10 * time.Second
	assert.Equal(t,
		`notes-contract-tests --config 'my notes.yaml' --url http://localhost:3000/api --user-id me --timeout 5s --await 10s --run '^(tags filter|partial update keeps other fields)(/|$)' --debug`,
		params.rerunCommand(results))
}
