package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/userstore/internal/principal"
)

const fixedTraceID = "trace-0001"

// testStore is a sqlite-backed store shared by successive CLI runs.
type testStore struct {
	t    *testing.T
	path string
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	return &testStore{t: t, path: filepath.Join(t.TempDir(), "userstore.db")}
}

// run executes the CLI against the store and returns stdout, stderr and the exit code.
func (s *testStore) run(args ...string) (string, string, int) {
	s.t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	opts := &RootOptions{TraceGenerator: func() string { return fixedTraceID }}

	full := append([]string{"--engine", "sqlite", "--path", s.path}, args...)
	code := execute(context.Background(), opts, full, stdout, stderr)
	return stdout.String(), stderr.String(), code
}

func (s *testStore) mustRun(args ...string) string {
	s.t.Helper()
	stdout, stderr, code := s.run(args...)
	require.Equal(s.t, ExitSuccess, code, "stderr: %s", stderr)
	return stdout
}

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}

func callerFlag(raw ...byte) []string {
	return []string{"--caller", principal.MustFromBytes(raw).String()}
}

func TestAddThenGet_JSONGolden(t *testing.T) {
	s := newTestStore(t)
	caller := callerFlag(0x10)

	picture := filepath.Join(t.TempDir(), "pic.bin")
	require.NoError(t, os.WriteFile(picture, []byte{1, 2, 3}, 0644))

	s.mustRun(append(caller, "add", "--name", "Alice", "--email", "alice@example.com")...)
	s.mustRun(append(caller, "add", "--name", "Alice", "--email", "alice2@example.com", "--picture", picture)...)

	out := s.mustRun(append(caller, "--format", "json", "get")...)
	assertGolden(t, "get_after_add", out)
}

func TestListPage_JSONGolden(t *testing.T) {
	s := newTestStore(t)

	for i, name := range []string{"a", "b", "c"} {
		s.mustRun(append(callerFlag(byte(i+1)), "add", "--name", name, "--email", name+"@example.com")...)
	}

	out := s.mustRun(append(callerFlag(0x01), "--format", "json", "list", "--page", "2", "--page-size", "2")...)
	assertGolden(t, "list_page_two", out)
}

func TestAnonymousCaller_JSONGolden(t *testing.T) {
	s := newTestStore(t)

	stdout, _, code := s.run("--format", "json", "get")
	assert.Equal(t, ExitCommandError, code)
	assertGolden(t, "anonymous_get", stdout)
}

func TestAdd_TextOutput(t *testing.T) {
	s := newTestStore(t)

	out := s.mustRun(append(callerFlag(0x01), "add", "--name", "Alice")...)
	assert.Equal(t, "user data added successfully\n", out)
}

func TestSetUsername_Text(t *testing.T) {
	s := newTestStore(t)
	caller := callerFlag(0x07)

	out := s.mustRun(append(caller, "set-username", "nobody")...)
	assert.Equal(t, "User not found.\n", out)

	s.mustRun(append(caller, "add", "--name", "one", "--email", "1@example.com")...)
	s.mustRun(append(caller, "add", "--name", "two", "--email", "2@example.com")...)

	out = s.mustRun(append(caller, "set-username", "renamed")...)
	assert.Equal(t, "Username updated successfully\n", out)

	out = s.mustRun(append(caller, "get")...)
	assert.Equal(t, "[0] renamed <1@example.com>\n[1] renamed <2@example.com>\n", out)
}

func TestSetUsername_AnonymousAllowed(t *testing.T) {
	s := newTestStore(t)

	out := s.mustRun("set-username", "x")
	assert.Equal(t, "User not found.\n", out)
}

func TestList_BeyondRange(t *testing.T) {
	s := newTestStore(t)
	s.mustRun(append(callerFlag(0x01), "add", "--name", "a")...)

	out := s.mustRun(append(callerFlag(0x01), "list", "--page", "9", "--page-size", "5")...)
	assert.Equal(t, "Page 9 (size 5): 0 of 1 users\n", out)
}

func TestAnonymousCaller_Text(t *testing.T) {
	s := newTestStore(t)

	stdout, stderr, code := s.run("add", "--name", "x")
	assert.Equal(t, ExitCommandError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error [E003]")
	assert.Contains(t, stderr, "anonymous caller not allowed")
}

func TestInvalidUTF8Name(t *testing.T) {
	s := newTestStore(t)
	caller := callerFlag(0x01)

	_, stderr, code := s.run(append(caller, "add", "--name", "a\xffb")...)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "Error [E005]")
	assert.Contains(t, stderr, "not valid UTF-8")

	out := s.mustRun(append(caller, "get")...)
	assert.Equal(t, "No records.\n", out)
}

func TestDecomposedNameKeptInJSON(t *testing.T) {
	s := newTestStore(t)
	caller := callerFlag(0x01)

	s.mustRun(append(caller, "add", "--name", "A\u030a")...)

	out := s.mustRun(append(caller, "--format", "json", "get")...)
	assert.Contains(t, out, "\"name\":\"A\u030a\"")

	text := s.mustRun(append(caller, "get")...)
	assert.Equal(t, "[0] \u00c5 <>\n", text)
}

func TestVerboseDiagnosticsGoToStderr(t *testing.T) {
	s := newTestStore(t)
	caller := callerFlag(0x01)

	stdout, stderr, code := s.run(append(caller, "--verbose", "--format", "json", "get")...)
	require.Equal(t, ExitSuccess, code, "stderr: %s", stderr)
	assert.Contains(t, stderr, "storage: sqlite engine at "+s.path)
	assert.Contains(t, stderr, "caller: "+caller[1])
	assert.Equal(t, `{"status":"ok","data":[],"trace_id":"trace-0001"}`+"\n", stdout)

	_, quiet, code := s.run(append(caller, "get")...)
	require.Equal(t, ExitSuccess, code)
	assert.NotContains(t, quiet, "storage:")
}

func TestInvalidCaller(t *testing.T) {
	s := newTestStore(t)

	_, stderr, code := s.run("--caller", "not-a-principal", "get")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "invalid --caller")
}

func TestInvalidFormat(t *testing.T) {
	s := newTestStore(t)

	_, stderr, code := s.run("--format", "xml", "get")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, `invalid format "xml"`)
}

func TestMissingRequiredFlag(t *testing.T) {
	s := newTestStore(t)

	_, stderr, code := s.run(append(callerFlag(0x01), "add")...)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "required flag")
	assert.Contains(t, stderr, "name")
}

func TestUnknownEngine(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := Execute(context.Background(), []string{"--engine", "btree", "get"}, stdout, stderr)

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr.String(), "invalid storage flags")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "userstore.yaml")
	dataDir := filepath.Join(dir, "pebble")
	require.NoError(t, os.WriteFile(cfgPath, []byte("engine: pebble\npath: "+dataDir+"\n"), 0644))

	caller := principal.MustFromBytes([]byte{0x42}).String()
	run := func(args ...string) string {
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		full := append([]string{"--config", cfgPath, "--caller", caller}, args...)
		code := Execute(context.Background(), full, stdout, stderr)
		require.Equal(t, ExitSuccess, code, "stderr: %s", stderr)
		return stdout.String()
	}

	run("add", "--name", "Pebble", "--email", "p@example.com")
	assert.Equal(t, "[0] Pebble <p@example.com>\n", run("get"))

	_, err := os.Stat(dataDir)
	assert.NoError(t, err, "pebble directory should be created from config")
}

func TestIdentityNewAndUse(t *testing.T) {
	s := newTestStore(t)
	keyFile := filepath.Join(t.TempDir(), "me.pem")

	out := s.mustRun("identity", "new", "--out", keyFile)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	minted, err := principal.FromText(lines[0])
	require.NoError(t, err)
	assert.Equal(t, principal.MaxLength, minted.Len())

	shown := s.mustRun("--identity", keyFile, "identity", "show")
	assert.Equal(t, lines[0]+"\n", shown)

	s.mustRun("--identity", keyFile, "add", "--name", "Keyed")
	byCaller := s.mustRun("--caller", lines[0], "get")
	assert.Equal(t, "[0] Keyed <>\n", byCaller)
}

func TestIdentityNew_RefusesOverwrite(t *testing.T) {
	s := newTestStore(t)
	keyFile := filepath.Join(t.TempDir(), "me.pem")
	require.NoError(t, os.WriteFile(keyFile, []byte("existing"), 0600))

	_, stderr, code := s.run("identity", "new", "--out", keyFile)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "failed to create key file")

	data, err := os.ReadFile(keyFile)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestIdentityShow_Anonymous(t *testing.T) {
	s := newTestStore(t)

	out := s.mustRun("--format", "json", "identity", "show")
	assert.Equal(t, `{"status":"ok","data":{"principal":"2vxsx-fae","anonymous":true},"trace_id":"trace-0001"}`+"\n", out)
}

func TestIdentityAndCallerConflict(t *testing.T) {
	s := newTestStore(t)

	_, stderr, code := s.run("--identity", "x.pem", "--caller", "2vxsx-fae", "get")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "mutually exclusive")
}
