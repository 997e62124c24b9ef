// Package mirror invokes the external mirror-copy tool and classifies its
// exit code. The tool's copy algorithm is a black box; the only observable
// outputs are the exit code and the tool's own log file.
package mirror

import (
	"errors"
	"fmt"
	"os/exec"
)

// Runner runs one mirror copy and blocks until the tool exits.
type Runner interface {
	Run(src, dst, logFile string) (int, error)
}

// Exit codes below FailureThreshold are informational through "some files
// copied"; at or above it one or more files or directories could not be
// copied.
const FailureThreshold = 8

// Succeeded classifies a mirror tool exit code.
func Succeeded(code int) bool {
	return code >= 0 && code < FailureThreshold
}

// Tool shells out to the mirror binary (robocopy arg surface).
type Tool struct {
	Binary    string
	Retries   int
	RetryWait int // seconds between retries on file-level errors
}

func NewTool() Tool {
	return Tool{Binary: "robocopy", Retries: 5, RetryWait: 10}
}

func (t Tool) args(src, dst, logFile string) []string {
	return []string{
		src,
		dst,
		"*.*",
		"/MIR",
		fmt.Sprintf("/R:%d", t.Retries),
		fmt.Sprintf("/W:%d", t.RetryWait),
		"/LOG+:" + logFile,
	}
}

// Run invokes the tool and waits for it to exit. A nonzero exit code is a
// classification input, not an error; the error return is reserved for
// failing to run the tool at all.
func (t Tool) Run(src, dst, logFile string) (int, error) {
	cmd := exec.Command(t.Binary, t.args(src, dst, logFile)...)
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("run %s: %w", t.Binary, err)
}
