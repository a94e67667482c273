package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/scene2json/testutil"
)

func TestCacheCommands(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	cacheDir := filepath.Join(dir, "cache")
	input := testutil.WriteSceneFixture(t, dir, "root.yaml", testutil.MinimalSceneYAML)

	out, err := executeCommand(t, "--cache-dir", cacheDir, "cache", "list")
	if err != nil {
		t.Fatalf("cache list error = %v", err)
	}
	if !strings.Contains(out, "No cached exports") {
		t.Errorf("empty cache list = %q", out)
	}

	if _, err := executeCommand(t, "--cache-dir", cacheDir, input); err != nil {
		t.Fatalf("export error = %v", err)
	}
	if _, err := executeCommand(t, "--cache-dir", cacheDir, "-c", input); err != nil {
		t.Fatalf("export error = %v", err)
	}

	out, err = executeCommand(t, "--cache-dir", cacheDir, "cache", "list")
	if err != nil {
		t.Fatalf("cache list error = %v", err)
	}
	if !strings.Contains(out, "2 cached export(s)") || !strings.Contains(out, "root.yaml") {
		t.Errorf("cache list = %q", out)
	}
	if !strings.Contains(out, "json-compact") {
		t.Errorf("cache list should show the format: %q", out)
	}

	if _, err := executeCommand(t, "--cache-dir", cacheDir, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	out, err = executeCommand(t, "--cache-dir", cacheDir, "cache", "list")
	if err != nil {
		t.Fatalf("cache list error = %v", err)
	}
	if !strings.Contains(out, "No cached exports") {
		t.Errorf("cache list after clear = %q", out)
	}
}

func TestCacheCommands_RejectArgs(t *testing.T) {
	_, err := executeCommand(t, "--cache-dir", testutil.CreateTempDir(t), "cache", "list", "extra")
	if err == nil {
		t.Error("cache list should reject arguments")
	}
}
