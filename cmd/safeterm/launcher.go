package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"
)

type LaunchResult struct {
	ID            string
	PID           int
	LogPath       string
	PIDPath       string
	InitialOutput string
	Err           error
}

const initialOutputBytes = 500

// runBackground detaches the command and returns after a short grace
// period with whatever output has accumulated so far. Completion is
// never awaited here; a later check_command_status call re-derives it
// from the pid marker.
func (s *RunStore) runBackground(command, cwd string, grace time.Duration) LaunchResult {
	id := newRunID()
	logPath, pidPath := s.backgroundPaths(id, sanitizeName(command))

	// The opened log file becomes the child's stdout+stderr, so output
	// lands on disk without this process ever streaming it.
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return LaunchResult{ID: id, Err: fmt.Errorf("create log: %w", err)}
	}
	s.Prune()

	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = cwd
	cmd.Stdout = f
	cmd.Stderr = f
	// Own session: the command outlives this request.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	started := time.Now()
	if err := cmd.Start(); err != nil {
		f.Close()
		return LaunchResult{ID: id, LogPath: logPath, Err: err}
	}
	pid := cmd.Process.Pid

	go func() {
		// Reap promptly so the pid probe sees "completed", not a
		// zombie. If this process dies first, reaping falls to init;
		// that window is a documented non-goal.
		_ = cmd.Wait()
		f.Close()
	}()

	if err := s.WritePIDMarker(pidPath, pid, started); err != nil {
		return LaunchResult{ID: id, PID: pid, LogPath: logPath, Err: fmt.Errorf("write pid marker: %w", err)}
	}
	logger.Info().Str("id", id).Int("pid", pid).Str("command", command).Msg("background run launched")

	time.Sleep(grace)

	initial, err := headBytes(logPath, initialOutputBytes)
	if err != nil {
		initial = ""
	}
	return LaunchResult{ID: id, PID: pid, LogPath: logPath, PIDPath: pidPath, InitialOutput: initial}
}
