package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// RunRecord is the JSONL history entry for one invocation. It
// supplements the per-invocation log files; the log file stays the
// source of truth for output and outcome.
type RunRecord struct {
	ID         string `json:"id"`
	Mode       string `json:"mode"`
	Command    string `json:"command"`
	Cwd        string `json:"cwd,omitempty"`
	Category   string `json:"category,omitempty"`
	Status     string `json:"status"`
	ExitCode   int    `json:"exit_code"`
	PID        int    `json:"pid,omitempty"`
	LogPath    string `json:"log_path,omitempty"`
	StartedAt  string `json:"started_at"`
	EndedAt    string `json:"ended_at,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
	Error      string `json:"error,omitempty"`
}

var runLogMu sync.Mutex

func runHistoryPath() string {
	return filepath.Join(safetermHome(), "runs", "run-history.jsonl")
}

func appendRunRecord(record RunRecord) error {
	line, err := json.Marshal(record)
	if err != nil {
		return err
	}

	path := runHistoryPath()
	runLogMu.Lock()
	defer runLogMu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(line, '\n'))
	return err
}

func readRunHistory(limit int, mode, status string) ([]RunRecord, error) {
	data, err := os.ReadFile(runHistoryPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []RunRecord{}, nil
		}
		return nil, err
	}

	records := []RunRecord{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec RunRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if mode != "" && rec.Mode != mode {
			continue
		}
		if status != "" && rec.Status != status {
			continue
		}
		records = append(records, rec)
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	reverseRecords(records)
	return records, nil
}

func reverseRecords(records []RunRecord) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
}
