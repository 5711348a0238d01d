package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// versionPkg is the linker target documented in internal/version.
const versionPkg = "github.com/54b3r/netatmo-cli/internal/version"

// buildBinary compiles this command with ldflags into a temp dir.
func buildBinary(t *testing.T, ldflags string) string {
	t.Helper()
	if testing.Short() {
		t.Skip("builds the binary; skipped in -short mode")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not on PATH")
	}

	bin := filepath.Join(t.TempDir(), "netatmo-cli")
	build := exec.Command(goBin, "build", "-o", bin, "-ldflags", ldflags, ".")
	out, err := build.CombinedOutput()
	require.NoError(t, err, "go build: %s", out)
	return bin
}

// runBinary runs bin with an isolated environment and returns stdout.
func runBinary(t *testing.T, bin string, args ...string) string {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+t.TempDir(),
		"NETATMO_CLI_CONFIG=",
		"NETATMO_CLI_REQUIRED_VERSION=",
		"NETATMO_CLI_STATE_DB=disabled",
		"LOG_LEVEL=error",
	)
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestBinary_LdflagsVersion(t *testing.T) {
	bin := buildBinary(t, strings.Join([]string{
		"-X " + versionPkg + ".generated=1.2.3",
		"-X " + versionPkg + ".commit=abc1234",
		"-X " + versionPkg + ".buildDate=2025-01-01T00:00:00Z",
	}, " "))

	assert.Equal(t, "1.2.3\n", runBinary(t, bin, "version", "-o", "short"))
	assert.Equal(t, "netatmo-cli 1.2.3 (commit: abc1234, built: 2025-01-01T00:00:00Z)\n",
		runBinary(t, bin, "version"))
	assert.Equal(t, "netatmo-cli 1.2.3\n", runBinary(t, bin, "--version"))
}

func TestBinary_NoInjectedVersion(t *testing.T) {
	bin := buildBinary(t, "")

	// A build from a checkout has no tagged module version either.
	got := strings.TrimSpace(runBinary(t, bin, "version", "-o", "short"))
	assert.NotEmpty(t, got)
	if !strings.HasPrefix(got, "v") {
		assert.Equal(t, "0.0.0+unknown", got)
	}
}
