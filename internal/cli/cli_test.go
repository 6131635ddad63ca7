package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/skyf0l/basecracker/pkg/errors"
)

const layered = "596d467a5a574e7959574e725a58493d" // hex(base64("basecracker"))

type result struct {
	stdout string
	stderr string
	err    error
}

// isolate points the config and cache directories at fresh temp dirs.
func isolate(t *testing.T) (configHome, cacheHome string) {
	t.Helper()
	configHome, cacheHome = t.TempDir(), t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	return configHome, cacheHome
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errb bytes.Buffer
	root := New(strings.NewReader(stdin), &out, &errb).RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errb.String(), err: err}
}

func TestEncodeDecode(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"encode separate args", []string{"encode", "hi", "64", "16"}, "61476b3d\n"},
		{"encode comma list", []string{"encode", "hi", "64,16"}, "61476b3d\n"},
		{"decode aliases", []string{"decode", "61476b3d", "hex b64"}, "hi\n"},
		{"base58", []string{"encode", "Hello World!", "58"}, "2NEpo7TZRRrLZSi2U\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := execute(t, "", tt.args...)
			require.NoError(t, r.err)
			assert.Equal(t, tt.want, r.stdout)
		})
	}
}

func TestEncodeStdin(t *testing.T) {
	isolate(t)
	r := execute(t, "abc\n", "encode", "-", "64")
	require.NoError(t, r.err)
	assert.Equal(t, "YWJj\n", r.stdout)
}

func TestEncodeTrace(t *testing.T) {
	isolate(t)
	r := execute(t, "", "encode", "--trace", "abc", "64", "16")
	require.NoError(t, r.err)
	assert.Equal(t, "59574a6a\n", r.stdout)
	assert.Contains(t, r.stderr, "base64")
	assert.Contains(t, r.stderr, "YWJj")
	assert.Contains(t, r.stderr, "2 steps")
}

func TestEncodeUnknownSchemeWarns(t *testing.T) {
	isolate(t)
	r := execute(t, "", "encode", "hi", "nonsense", "16")
	require.NoError(t, r.err)
	assert.Equal(t, "6869\n", r.stdout)
	assert.Contains(t, r.stderr, `unknown base "nonsense"`)
}

func TestEncodeErrors(t *testing.T) {
	isolate(t)

	r := execute(t, "", "encode", "hi")
	require.Error(t, r.err)
	assert.Equal(t, errs.ErrCodeInvalidInput, errs.GetCode(r.err))

	r = execute(t, "", "encode", "-r", "missing", "hi")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), `unknown recipe "missing"`)

	r = execute(t, "", "decode", "!!!", "64")
	require.Error(t, r.err)
	assert.True(t, errs.IsDecodeFailure(r.err), r.err)
	assert.Empty(t, r.stdout)
}

func TestRecipe(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[recipes]\ndouble64 = [\"64\", \"64\"]\n"), 0o644))

	r := execute(t, "", "--config", path, "encode", "-r", "double64", "a")
	require.NoError(t, r.err)
	assert.Equal(t, "WVE9PQ==\n", r.stdout)

	r = execute(t, "", "--config", path, "decode", "-r", "double64", "WVE9PQ==")
	require.NoError(t, r.err)
	assert.Equal(t, "a\n", r.stdout)
}

func TestInvalidConfig(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[crack]\nthreshold = 3.0\n"), 0o644))

	r := execute(t, "", "--config", path, "schemes")
	require.Error(t, r.err)
	assert.Equal(t, errs.ErrCodeInvalidConfig, errs.GetCode(r.err))
}

func TestCrackText(t *testing.T) {
	isolate(t)
	r := execute(t, "", "crack", layered)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "base64 → base16")
	assert.Contains(t, r.stdout, "basecracker")
	assert.Contains(t, r.stderr, "Found 1 chain")
	assert.Contains(t, r.stderr, "fresh")
}

func TestCrackJSONCached(t *testing.T) {
	isolate(t)

	var first crackOutput
	r := execute(t, "", "crack", "--format", "json", layered)
	require.NoError(t, r.err)
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &first))
	assert.False(t, first.Cached)
	assert.Equal(t, "found", first.Report.Status.String())
	require.Len(t, first.Report.Results, 1)
	assert.Equal(t, []string{"64", "16"}, first.Report.Results[0].IDs)

	var second crackOutput
	r = execute(t, "", "crack", "--format", "json", layered)
	require.NoError(t, r.err)
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &second))
	assert.True(t, second.Cached)
	assert.Equal(t, first.Report.ID, second.Report.ID)

	var third crackOutput
	r = execute(t, "", "crack", "--format", "json", "--refresh", layered)
	require.NoError(t, r.err)
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &third))
	assert.False(t, third.Cached)
	assert.NotEqual(t, first.Report.ID, third.Report.ID)
}

func TestCrackYAML(t *testing.T) {
	isolate(t)
	r := execute(t, "", "crack", "--no-cache", "-f", "yaml", layered)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "status: found")
	assert.Contains(t, r.stdout, "plaintext: basecracker")
	assert.Contains(t, r.stdout, "cached: false")
}

func TestCrackTruncated(t *testing.T) {
	isolate(t)
	r := execute(t, "", "crack", "--max-depth", "1", layered)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "YmFzZWNyYWNrZXI=")
	assert.Contains(t, r.stderr, "search truncated after 2 chains")
}

func TestCrackNothingFound(t *testing.T) {
	isolate(t)
	r := execute(t, "", "crack", "--threshold", "1", "hello world")
	require.NoError(t, r.err)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "No readable plaintext found")

	r = execute(t, "", "crack", "")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "Empty input")
}

func TestCrackDOT(t *testing.T) {
	isolate(t)
	dot := filepath.Join(t.TempDir(), "tree.dot")

	// Warm the cache so the tree has to be rebuilt.
	require.NoError(t, execute(t, "", "crack", layered).err)

	r := execute(t, "", "crack", "--dot", dot, layered)
	require.NoError(t, r.err)
	data, err := os.ReadFile(dot)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "digraph crack {"))
	assert.Contains(t, string(data), `n1 -> n2 [label="64"];`)

	r = execute(t, "", "crack", "--dot", "-", "--format", "json", layered)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "digraph crack {")
}

func TestCrackBadFlags(t *testing.T) {
	isolate(t)

	r := execute(t, "", "crack", "--format", "xml", layered)
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), `unknown format "xml"`)

	r = execute(t, "", "crack", "-i", layered)
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "terminal")

	for _, th := range []string{"2", "0", "-0.5"} {
		r = execute(t, "", "crack", "--threshold", th, layered)
		require.Error(t, r.err, "threshold %s", th)
		assert.Equal(t, errs.ErrCodeInvalidConfig, errs.GetCode(r.err))
		assert.Contains(t, r.err.Error(), "(0, 1]")
	}
}

func TestSchemes(t *testing.T) {
	isolate(t)
	r := execute(t, "", "schemes")
	require.NoError(t, r.err)
	for _, want := range []string{"Base", "base64", "b64", "bit-packing", "85"} {
		assert.Contains(t, r.stdout, want)
	}
}

func TestCachePathAndClear(t *testing.T) {
	_, cacheHome := isolate(t)

	r := execute(t, "", "cache", "path")
	require.NoError(t, r.err)
	assert.Equal(t, filepath.Join(cacheHome, appName)+"\n", r.stdout)

	require.NoError(t, execute(t, "", "crack", layered).err)

	r = execute(t, "", "cache", "clear")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "Cleared 1 cached entry")

	r = execute(t, "", "cache", "clear")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "Cleared 0 cached entries")
}

func TestCacheNotFileBackend(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cache]\nbackend = \"none\"\n"), 0o644))

	r := execute(t, "", "--config", path, "cache", "path")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), `"none"`)
}

func TestCompletion(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			r := execute(t, "", "completion", shell)
			require.NoError(t, r.err)
			assert.Contains(t, r.stdout, appName)
		})
	}
	assert.Error(t, execute(t, "", "completion", "tcsh").err)
}

func TestVersion(t *testing.T) {
	isolate(t)
	r := execute(t, "", "--version")
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, "basecracker version: "), r.stdout)
}
