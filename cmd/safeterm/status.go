package main

import (
	"fmt"
	"path/filepath"
	"strings"
)

const statusTailBytes = 1000

// checkStatus reports the most recent background invocations, liveness
// re-derived from the OS on every call — a cached "still running" flag
// is never trusted.
func (s *RunStore) checkStatus(showOutput bool, limit int) (string, error) {
	runs, err := s.Recent(backgroundPrefix, limit)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "No background commands found", nil
	}

	var sb strings.Builder
	sb.WriteString("=== Background Command Status ===\n")
	for _, run := range runs {
		status := LivenessUnknown
		if run.PIDPath != "" {
			if pid, started, err := s.ReadPIDMarker(run.PIDPath); err == nil {
				status = s.Prober.Probe(pid, started)
			}
		}

		sb.WriteString("\nCommand: " + run.Name + "\n")
		sb.WriteString("Status: " + statusLabel(status) + "\n")
		sb.WriteString("Log: " + run.LogPath + "\n")
		if showOutput {
			if recent, err := tailBytes(run.LogPath, statusTailBytes); err == nil && strings.TrimSpace(recent) != "" {
				sb.WriteString("Recent output:\n" + recent + "\n")
			}
		}
		sb.WriteString(strings.Repeat("-", 40) + "\n")
	}
	return sb.String(), nil
}

func statusLabel(l Liveness) string {
	switch l {
	case LivenessRunning:
		return "🔄 Running"
	case LivenessCompleted:
		return "✅ Completed"
	default:
		return "❓ Unknown"
	}
}

// getContext emits the tail of the most recent logs of any mode. Logs
// deleted or unreadable mid-scan are skipped, not fatal.
func (s *RunStore) getContext(lineCount, limit int) (string, error) {
	runs, err := s.Recent("", limit)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("=== Recent Terminal Activity ===\n")
	for _, run := range runs {
		lines, truncated, err := tailLines(run.LogPath, lineCount)
		if err != nil {
			continue
		}
		sb.WriteString("\n📄 " + filepath.Base(run.LogPath) + "\n")
		sb.WriteString(strings.Repeat("-", 40) + "\n")
		if truncated {
			sb.WriteString(fmt.Sprintf("... (showing last %d lines)\n", lineCount))
		}
		sb.WriteString(strings.Join(lines, "\n"))
		sb.WriteString("\n" + strings.Repeat("=", 40) + "\n")
	}
	return sb.String(), nil
}
