package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"
)

// Outcome is the terminal state of a bounded invocation. Exactly one
// outcome is ever recorded per invocation.
type Outcome string

const (
	OutcomeCompleted     Outcome = "completed"
	OutcomeTimedOut      Outcome = "timedOut"
	OutcomeFailedToStart Outcome = "failedToStart"
)

type ExecResult struct {
	ID       string
	Outcome  Outcome
	ExitCode int
	PID      int
	Output   string
	LogPath  string
	Err      error
}

const boundedExcerptBytes = 2000

// pipeDrainDelay bounds how long Wait may block on the output pipe
// after the shell exits. A descendant that escaped the process group
// (setsid) inherits the pipe and can hold it open long past the kill;
// Wait must not be hostage to it.
const pipeDrainDelay = time.Second

// runBounded executes command under cwd with a hard deadline. The log
// header is committed before the process starts, so even a spawn
// failure leaves a readable record. Output is captured combined and
// appended on completion together with a footer carrying the exit code
// or a timeout marker.
func (s *RunStore) runBounded(command, cwd string, timeout time.Duration) ExecResult {
	id := newRunID()
	logPath := s.boundedLogPath(id)

	header := fmt.Sprintf("=== AI-Safe Execution ===\nCommand: %s\nCWD: %s\nTimeout: %s\nStarted: %s\n%s\n",
		command, cwd, timeout, time.Now().Format(time.RFC1123), strings.Repeat("=", 40))
	if err := os.WriteFile(logPath, []byte(header), 0o644); err != nil {
		return ExecResult{ID: id, Outcome: OutcomeFailedToStart, Err: fmt.Errorf("create log: %w", err)}
	}
	s.Prune()

	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = cwd
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	// Own process group so the timeout can signal the whole tree.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.WaitDelay = pipeDrainDelay

	if err := cmd.Start(); err != nil {
		return ExecResult{ID: id, Outcome: OutcomeFailedToStart, LogPath: logPath, Err: err}
	}
	pid := cmd.Process.Pid
	logger.Info().Str("id", id).Int("pid", pid).Str("command", command).Msg("bounded run started")

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		exitCode := 0
		if errors.Is(err, exec.ErrWaitDelay) {
			// The shell exited but a lingering descendant held the
			// pipe open; the real exit status is on ProcessState.
			exitCode = cmd.ProcessState.ExitCode()
		} else if err != nil {
			exitCode = exitCodeOf(err)
		}
		appendLog(logPath, fmt.Sprintf("%s\n%s\nExit Code: %d\nCompleted: %s\n",
			output.String(), strings.Repeat("=", 40), exitCode, time.Now().Format(time.RFC1123)))
		return ExecResult{ID: id, Outcome: OutcomeCompleted, ExitCode: exitCode, PID: pid, Output: output.String(), LogPath: logPath}
	case <-timer.C:
		// Kill the whole group, then wait for the exit to be observed
		// so no zombie is left behind. Descendants that moved to their
		// own group may still survive; WaitDelay keeps their open pipe
		// from stalling the wait.
		if pgid, err := syscall.Getpgid(pid); err == nil {
			_ = syscall.Kill(-pgid, syscall.SIGKILL)
		} else {
			_ = cmd.Process.Kill()
		}
		<-done
		appendLog(logPath, fmt.Sprintf("\n⏰ TIMEOUT: Command terminated\nTimeout: %s\nTerminated: %s\n",
			timeout, time.Now().Format(time.RFC1123)))
		logger.Warn().Str("id", id).Int("pid", pid).Dur("timeout", timeout).Msg("bounded run timed out")
		return ExecResult{ID: id, Outcome: OutcomeTimedOut, PID: pid, Output: output.String(), LogPath: logPath}
	}
}

func exitCodeOf(err error) int {
	if exitErr, ok := err.(*exec.ExitError); ok {
		if waitStatus, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			return waitStatus.ExitStatus()
		}
	}
	return 1
}

func appendLog(path, text string) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.Error().Err(err).Str("log", path).Msg("log append failed")
		return
	}
	defer f.Close()
	if _, err := f.WriteString(text); err != nil {
		logger.Error().Err(err).Str("log", path).Msg("log write failed")
	}
}

// excerpt cuts s to at most n bytes, backing off to a rune boundary so
// a multi-byte character is never split.
func excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
