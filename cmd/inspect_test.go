package cmd

import (
	"strings"
	"testing"

	"github.com/iksnae/scene2json/testutil"
)

func TestInspectCommand(t *testing.T) {
	input := testutil.WriteSceneFixture(t, testutil.CreateTempDir(t), "sample.yaml", testutil.SampleSceneYAML)

	out, err := executeCommand(t, "inspect", input)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"Root node: \"Root\"", "Vertices", "Materials", "Animations"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output should contain %q:\n%s", want, out)
		}
	}
}

func TestInspectCommand_JSON(t *testing.T) {
	input := testutil.WriteSceneFixture(t, testutil.CreateTempDir(t), "sample.yaml", testutil.SampleSceneYAML)

	out, err := executeCommand(t, "inspect", "--json", input)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var stats map[string]int
	testutil.JSONUnmarshal(t, []byte(out), &stats)
	want := map[string]int{
		"nodes":     2,
		"meshes":    1,
		"vertices":  3,
		"faces":     1,
		"materials": 1,
		"textures":  2,
		"lights":    3,
		"cameras":   1,
	}
	for k, v := range want {
		if stats[k] != v {
			t.Errorf("stats[%q] = %d, want %d", k, stats[k], v)
		}
	}
}

func TestInspectCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{name: "no input", args: []string{"inspect"}, wantCode: ExitUsage},
		{name: "missing file", args: []string{"inspect", "missing.yaml"}, wantCode: ExitReadFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			if got := ExitCode(err); got != tt.wantCode {
				t.Errorf("ExitCode() = %d, want %d (err = %v)", got, tt.wantCode, err)
			}
		})
	}
}
