package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/scene2json/testutil"
)

func TestHealthcheckCommand(t *testing.T) {
	cacheDir := filepath.Join(testutil.CreateTempDir(t), "cache")

	out, err := executeCommand(t, "--cache-dir", cacheDir, "healthcheck", "--detailed")
	if err != nil {
		t.Fatalf("healthcheck error = %v", err)
	}
	for _, want := range []string{"Sample scene exported", "valid and equivalent", "Cache available (0 entries)", "Health check passed", cacheDir} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHealthcheckCommand_CacheUnavailable(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	blocker := filepath.Join(dir, "cache")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "--cache-dir", filepath.Join(blocker, "sub"), "healthcheck")
	if err != nil {
		t.Fatalf("healthcheck error = %v", err)
	}
	if !strings.Contains(out, "cache is unavailable") {
		t.Errorf("output = %q", out)
	}
}

func TestCheckSameDocument(t *testing.T) {
	tests := []struct {
		name     string
		indented string
		compact  string
		wantErr  bool
	}{
		{name: "equal", indented: "{\n\t\"a\": [1,2]\n}", compact: `{"a":[1,2]}`},
		{name: "different", indented: `{"a": 1}`, compact: `{"a":2}`, wantErr: true},
		{name: "invalid", indented: `{"a": `, compact: `{"a":1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkSameDocument([]byte(tt.indented), []byte(tt.compact))
			if (err != nil) != tt.wantErr {
				t.Errorf("checkSameDocument() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
