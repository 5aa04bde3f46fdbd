package biome

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeScript creates an executable shell script standing in for the tool.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "biome")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		script     string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "success",
			script:     "echo \"$@\"\n",
			wantStdout: "check --colors=off src/\n",
		},
		{
			name:       "findings",
			script:     "echo 'Found 2 errors.' >&2\nexit 1\n",
			wantCode:   1,
			wantStderr: "Found 2 errors.\n",
		},
		{
			name:     "other_exit_status",
			script:   "exit 3\n",
			wantCode: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Invocation{Path: writeScript(t, tt.script), Args: []string{"check", "--colors=off", "src/"}}

			var stdout, stderr bytes.Buffer
			code, err := Run(context.Background(), inv, "", &stdout, &stderr)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if stdout.String() != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if stderr.String() != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestRunWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	inv := Invocation{Path: writeScript(t, "pwd\n")}

	var stdout bytes.Buffer
	if _, err := Run(context.Background(), inv, dir, &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(stdout.String()))
	if got != want {
		t.Errorf("pwd = %q, want %q", got, want)
	}
}

func TestRunMissingBinary(t *testing.T) {
	inv := Invocation{Path: filepath.Join(t.TempDir(), "missing")}

	code, err := Run(context.Background(), inv, "", &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if code != -1 {
		t.Errorf("exit code = %d, want -1", code)
	}
}
