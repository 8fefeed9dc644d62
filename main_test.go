package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintUsage_WritesHelpToStderr(t *testing.T) {
	saved := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w

	printUsage()

	w.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	os.Stderr = saved

	out := buf.String()
	assert.Contains(t, out, "Usage: railsim <command> [flags]")
	assert.Contains(t, out, "Commands:")
	assert.Contains(t, out, "shell")
	assert.Contains(t, out, "Flags:")
}

// TestRun_Unit calls run() in-process with a stubbed shell. TestMain_Subprocess
// below exercises main() by re-executing the test binary in a child process.
// The child path is selected with -test.run and an env var toggles child
// behavior. This avoids calling os.Exit() in the test process.

func TestRun_Unit(t *testing.T) {
	origShell := runShell
	defer func() { runShell = origShell }()

	tests := map[string]struct {
		args               []string
		stubShell          func([]string) error
		wantCode           int
		wantStderrContains []string
	}{
		"no args": {
			args:               []string{},
			wantCode:           1,
			wantStderrContains: []string{"Usage: railsim"},
		},
		"unknown command": {
			args:               []string{"badcmd"},
			wantCode:           1,
			wantStderrContains: []string{"unknown command"},
		},
		"shell success": {
			args:      []string{"shell"},
			stubShell: func(_ []string) error { return nil },
			wantCode:  0,
		},
		"shell error": {
			args:               []string{"shell"},
			stubShell:          func(_ []string) error { return fmt.Errorf("boom") },
			wantCode:           1,
			wantStderrContains: []string{"error: boom"},
		},
		"shell passes args": {
			args: []string{"shell", "-config", "x"},
			stubShell: func(a []string) error {
				assert.Equal(t, []string{"-config", "x"}, a)
				return nil
			},
			wantCode: 0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if tt.stubShell != nil {
				runShell = tt.stubShell
			} else {
				runShell = func([]string) error { return nil }
			}

			saved := os.Stderr
			r, w, err := os.Pipe()
			require.NoError(t, err)
			os.Stderr = w

			code := run(tt.args)

			w.Close()
			var buf bytes.Buffer
			_, err = buf.ReadFrom(r)
			require.NoError(t, err)
			os.Stderr = saved

			out := buf.String()

			assert.Equal(t, tt.wantCode, code)
			for _, want := range tt.wantStderrContains {
				assert.Contains(t, out, want)
			}
			if tt.wantCode == 0 {
				assert.NotContains(t, out, "error:")
			}
		})
	}
}

func TestMain_Subprocess(t *testing.T) {
	tests := map[string]struct {
		args               []string
		wantExitNonZero    bool
		wantOutputContains []string
	}{
		"no args": {
			args:               []string{},
			wantExitNonZero:    true,
			wantOutputContains: []string{"Usage: railsim"},
		},
		"unknown command": {
			args:               []string{"badcmd"},
			wantExitNonZero:    true,
			wantOutputContains: []string{"unknown command", "Usage: railsim"},
		},
		"shell missing config file": {
			args:               []string{"shell", "-config", "does-not-exist.yaml"},
			wantExitNonZero:    true,
			wantOutputContains: []string{"failed to load config", "error:"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, exitErr := runChildMain(t, tt.args...)

			if tt.wantExitNonZero {
				if exitErr == nil {
					t.Fatalf("expected child to exit non-zero, got success; output=%q", out)
				}
			} else {
				require.NoError(t, exitErr)
			}

			for _, want := range tt.wantOutputContains {
				assert.Contains(t, out, want)
			}
		})
	}
}

// runChildMain re-executes the test binary in a special child mode that calls
// main(). It returns combined stdout+stderr and any exec error.
func runChildMain(t *testing.T, args ...string) (string, error) {
	cmdArgs := append([]string{"-test.run=TestMain_ChildProcess", "--"}, args...)
	cmd := exec.Command(os.Args[0], cmdArgs...)
	cmd.Env = append(os.Environ(), "RAILSIM_TEST_MAIN=1")
	b, err := cmd.CombinedOutput()
	return string(b), err
}

// TestMain_ChildProcess runs inside the spawned child test binary. When the
// RAILSIM_TEST_MAIN env var is set the child will call main() with the
// arguments provided after "--" on the command line and then exit.
func TestMain_ChildProcess(t *testing.T) {
	if os.Getenv("RAILSIM_TEST_MAIN") != "1" {
		return
	}

	sep := "--"
	var progArgs []string
	for i, a := range os.Args {
		if a == sep && i+1 < len(os.Args) {
			progArgs = os.Args[i+1:]
			break
		}
	}
	if progArgs == nil {
		progArgs = []string{}
	}

	os.Args = append([]string{"railsim"}, progArgs...)
	main()
	t.Fatalf("main() returned unexpectedly")
}
