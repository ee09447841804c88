package extension

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/ifweave/ifweave/src/internal/expr"
	"github.com/ifweave/ifweave/src/internal/log"
)

// Result is the verdict of one extension operation.
type Result struct {
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

func failure(detail string) Result {
	return Result{Detail: detail}
}

// Runner supervises the lifecycle of extension child processes: template
// evaluation, spawning through the command shell, EINTR-safe reaping and
// result classification.
type Runner struct {
	shell string

	// indirections for tests; production uses the real thing
	spawn func(shell, cmdline string, extraEnv []string) (int, error)
	wait  func(pid int) (unix.WaitStatus, error)
	stat  func(path string) error
}

// NewRunner creates a runner spawning through /bin/sh.
func NewRunner() *Runner {
	return &Runner{
		shell: "/bin/sh",
		spawn: spawnShell,
		wait:  reapChild,
		stat: func(path string) error {
			_, err := os.Stat(path)
			return err
		},
	}
}

// Start runs the extension's start command for an interface.
func (r *Runner) Start(ex *Extension, ifname string, doc *expr.Document) Result {
	return r.Run(ex, OpStart, ifname, doc)
}

// Stop runs the extension's stop command for an interface.
func (r *Runner) Stop(ex *Extension, ifname string, doc *expr.Document) Result {
	return r.Run(ex, OpStop, ifname, doc)
}

// Run executes one extension operation and classifies the outcome.
//
// The call blocks until the child exits; no timeout is applied, so a
// hung helper blocks its caller. A command template that is not
// configured makes the operation a no-op success. Template failures
// abort before any process is spawned; once spawned, the child is always
// reaped before Run returns.
func (r *Runner) Run(ex *Extension, op Op, ifname string, doc *expr.Document) Result {
	template := ex.command(op)
	if template == "" {
		return Result{OK: true}
	}

	log.Debugf("%s extension %s for interface %s", op, ex.Name, ifname)

	// Expand the environment variable templates first. More than one
	// result per template is ambiguous and aborts; zero results skips
	// the variable.
	var extraEnv []string
	for _, envTemplate := range ex.Environment {
		values, err := expr.Evaluate(envTemplate, doc)
		if err != nil || len(values) > 1 {
			log.Errorf("unable to %s extension %s for %s: error evaluating expression %q",
				op, ex.Name, ifname, envTemplate)
			return failure("expression error")
		}
		if len(values) == 1 {
			log.Debugf("  setenv %s", values[0])
			extraEnv = append(extraEnv, values[0])
		}
	}

	values, err := expr.Evaluate(template, doc)
	if err != nil || len(values) != 1 {
		log.Errorf("unable to %s extension %s for %s: error evaluating command expression",
			op, ex.Name, ifname)
		return failure("expression error")
	}
	cmdline := values[0]

	log.Debugf("  run %s", cmdline)

	pid, err := r.spawn(r.shell, cmdline, extraEnv)
	if err != nil {
		// A missing command shell is a broken execution environment, not
		// something a retry can fix.
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, exec.ErrNotFound) {
			log.Fatalf("unable to execute %s: %v", r.shell, err)
		}
		log.Errorf("extension %s: unable to spawn %s command: %v", ex.Name, op, err)
		return failure("spawn failure")
	}

	status, err := r.wait(pid)
	if err != nil {
		log.Errorf("error waiting for extension process to finish: %v", err)
		return failure("wait failure")
	}

	switch {
	case !status.Exited():
		log.Errorf("extension %s: %s command terminated abnormally", ex.Name, op)
		return failure("terminated abnormally")

	case status.ExitStatus() != 0:
		log.Errorf("extension %s: %s command exited with error status %d",
			ex.Name, op, status.ExitStatus())
		return failure(fmt.Sprintf("exited with status %d", status.ExitStatus()))

	case ex.PIDFile != "":
		active := r.Active(ex, ifname, doc)
		if op == OpStart && !active {
			log.Errorf("extension %s: %s command succeeded, but service not running",
				ex.Name, op)
			return failure("service not running")
		}
		if op == OpStop && active {
			log.Errorf("extension %s: %s command succeeded, but service still running",
				ex.Name, op)
			return failure("service still running")
		}
	}

	return Result{OK: true}
}

// Active reports whether the extension's service is running for the
// given interface. Liveness is the existence of the evaluated pid file
// path; the file's contents are deliberately not inspected.
func (r *Runner) Active(ex *Extension, ifname string, doc *expr.Document) bool {
	if ex.PIDFile == "" {
		return false
	}

	paths, err := expr.Evaluate(ex.PIDFile, doc)
	if err != nil || len(paths) != 1 {
		log.Errorf("unable to check extension %s for %s: error evaluating pid file expression",
			ex.Name, ifname)
		return false
	}

	return r.stat(paths[0]) == nil
}

// spawnShell starts `shell -c cmdline` with the extra environment
// applied in the child only. The SIGCHLD disposition is reset first so
// the exit status is collectable even if it was set to ignore elsewhere.
func spawnShell(shell, cmdline string, extraEnv []string) (int, error) {
	signal.Reset(syscall.SIGCHLD)

	cmd := exec.Command(shell, "-c", cmdline)
	cmd.Env = append(os.Environ(), extraEnv...)

	if err := cmd.Start(); err != nil {
		return 0, err
	}
	return cmd.Process.Pid, nil
}

// reapChild waits for exactly the given child. Interrupted waits are
// retried, notifications about other children or a stopped-but-alive
// child are ignored; only an exit (or a wait error) terminates the loop.
func reapChild(pid int) (unix.WaitStatus, error) {
	var status unix.WaitStatus
	for {
		reaped, err := unix.Wait4(pid, &status, 0, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return status, err
		}
		if reaped != pid {
			continue
		}
		if status.Stopped() {
			continue
		}
		return status, nil
	}
}
