package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Copies definition fixtures into an in-memory filesystem under "defs/".
func testFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, name := range []string{"users.yaml", "bad_param.yaml"} {
		data, err := os.ReadFile(filepath.Join("testdata", "defs", name))
		require.NoError(t, err)
		require.NoError(t, afero.WriteFile(fs, filepath.Join("defs", name), data, 0o644))
	}
	return fs
}

func execute(t *testing.T, fs afero.Fs, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand(fs)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(afero.NewMemMapFs())
	require.NotNil(t, cmd)
	assert.Equal(t, "sqlcrit", cmd.Use)

	for _, name := range []string{"render", "check", "version"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestRenderText(t *testing.T) {
	out, _, err := execute(t, testFs(t), "render", "defs/users.yaml")
	require.NoError(t, err)
	golden(t).Assert(t, "render_users", []byte(out))
}

func TestRenderJSON(t *testing.T) {
	out, _, err := execute(t, testFs(t), "--format", "json", "render", "defs/users.yaml")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   RenderResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Contains(t, resp.Data.SQL, `left join "orders" as "o"`)
	assert.Equal(t, []any{true, float64(18), float64(7), float64(10)}, resp.Data.Args)
}

func TestRenderMissingFile(t *testing.T) {
	out, _, err := execute(t, testFs(t), "render", "defs/missing.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ErrCodeNotFound+"]")
}

func TestRenderBuildError(t *testing.T) {
	out, _, err := execute(t, testFs(t), "--format", "json", "render", "defs/bad_param.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeBuild, resp.Error.Code)
	assert.Equal(t, "OrdinalOutOfBounds", resp.Error.Details)
}

func TestRenderParseError(t *testing.T) {
	fs := testFs(t)
	require.NoError(t, afero.WriteFile(fs, "defs/unknown.yaml", []byte("select: {from: users, limit: 1}\n"), 0o644))

	out, _, err := execute(t, fs, "render", "defs/unknown.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ErrCodeParse+"]")
	assert.Contains(t, out, "limit")
}

func TestCheck(t *testing.T) {
	out, _, err := execute(t, testFs(t), "check", "defs/users.yaml")
	require.NoError(t, err)
	golden(t).Assert(t, "check_users", []byte(out))
}

func TestCheckJSON(t *testing.T) {
	out, _, err := execute(t, testFs(t), "--format", "json", "check", "defs/users.yaml")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   CheckResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 3, resp.Data.Where)
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, testFs(t), "--format", "xml", "version")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestFormatFromConfigFile(t *testing.T) {
	fs := testFs(t)
	require.NoError(t, afero.WriteFile(fs, ".sqlcrit.yaml", []byte("format: json\n"), 0o644))

	out, _, err := execute(t, fs, "version")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"version":"dev"}}`, out)

	out, _, err = execute(t, fs, "--format", "text", "version")
	require.NoError(t, err)
	assert.Equal(t, "sqlcrit dev\n", out)
}

func TestVerboseLogsToStderr(t *testing.T) {
	out, errOut, err := execute(t, testFs(t), "-v", "--format", "json", "render", "defs/users.yaml")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Contains(t, errOut, "loaded definition")
	assert.Contains(t, errOut, "Loaded defs/users.yaml")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "x", assert.AnError)))
	assert.Equal(t, "x: "+assert.AnError.Error(), WrapExitError(ExitCommandError, "x", assert.AnError).Error())
}

func TestOutputFormatterErrorDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}
	require.NoError(t, f.Error(ErrCodeBuild, "bad", "InvalidInput"))
	assert.Equal(t, "Error [E003]: bad\n", buf.String())

	buf.Reset()
	f.Verbose = true
	require.NoError(t, f.Error(ErrCodeBuild, "bad", "InvalidInput"))
	assert.Equal(t, "Error [E003]: bad\nDetails: InvalidInput\n", buf.String())
}
