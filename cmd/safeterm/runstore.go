package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	boundedPrefix    = "safe"
	backgroundPrefix = "bg"
	logExt           = ".log"
	pidExt           = ".pid"
)

// RunStore is the filesystem-backed collection of per-invocation log
// and pid marker files. It is the system's only durable state: status
// and context queries reconstruct everything by scanning the directory,
// never from memory.
type RunStore struct {
	Dir       string
	Retention RetentionConfig
	Prober    Prober
}

func newRunStore(dir string, retention RetentionConfig) (*RunStore, error) {
	if dir == "" {
		dir = defaultOutputDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &RunStore{Dir: dir, Retention: retention, Prober: osProber{}}, nil
}

// newRunID keeps the epoch-seconds ordering the readers rely on while a
// uuid suffix makes same-second submissions collision-free.
func newRunID() string {
	return fmt.Sprintf("%d_%s", time.Now().Unix(), uuid.NewString()[:8])
}

// sanitizeName derives a filesystem-safe suffix from the first 20 bytes
// of the command.
func sanitizeName(command string) string {
	limit := 20
	if len(command) < limit {
		limit = len(command)
	}
	var b strings.Builder
	for _, r := range command[:limit] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (s *RunStore) boundedLogPath(id string) string {
	return filepath.Join(s.Dir, boundedPrefix+"_"+id+logExt)
}

func (s *RunStore) backgroundPaths(id, name string) (string, string) {
	base := backgroundPrefix + "_" + id
	if name != "" {
		base += "_" + name
	}
	return filepath.Join(s.Dir, base+logExt), filepath.Join(s.Dir, base+pidExt)
}

// RunEntry is one invocation recovered from a directory scan.
type RunEntry struct {
	Name       string
	LogPath    string
	PIDPath    string
	ModTime    time.Time
	Background bool
}

// Recent lists invocations newest-first by log modification time,
// capped at limit when positive. prefix filters by mode; "" matches
// any. Entries that disappear mid-scan are skipped, not errors.
func (s *RunStore) Recent(prefix string, limit int) ([]RunEntry, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan output dir: %w", err)
	}

	runs := []RunEntry{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), logExt) {
			continue
		}
		if prefix != "" && !strings.HasPrefix(entry.Name(), prefix+"_") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), logExt)
		run := RunEntry{
			Name:       base,
			LogPath:    filepath.Join(s.Dir, entry.Name()),
			ModTime:    info.ModTime(),
			Background: strings.HasPrefix(base, backgroundPrefix+"_"),
		}
		pidPath := filepath.Join(s.Dir, base+pidExt)
		if pathExists(pidPath) {
			run.PIDPath = pidPath
		}
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].ModTime.After(runs[j].ModTime)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// WritePIDMarker persists the pid and launch time so a later, unrelated
// call can re-derive liveness without any in-memory handle.
func (s *RunStore) WritePIDMarker(path string, pid int, started time.Time) error {
	data := fmt.Sprintf("%d\n%d\n", pid, started.Unix())
	return os.WriteFile(path, []byte(data), 0o644)
}

// ReadPIDMarker returns the recorded pid and launch time. Markers with
// only a bare pid are accepted; started is zero then and the probe
// skips the start-time check.
func (s *RunStore) ReadPIDMarker(path string) (int, time.Time, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, time.Time{}, err
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	pid, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("malformed pid marker %s: %w", path, err)
	}
	var started time.Time
	if len(lines) > 1 {
		if unix, err := strconv.ParseInt(strings.TrimSpace(lines[1]), 10, 64); err == nil && unix > 0 {
			started = time.Unix(unix, 0)
		}
	}
	return pid, started, nil
}

// Prune applies the retention policy. With a zero policy it is a no-op:
// unbounded accumulation is the documented default and cleanup belongs
// to the operator.
func (s *RunStore) Prune() {
	if s.Retention.MaxAgeHours <= 0 && s.Retention.MaxCount <= 0 {
		return
	}
	runs, err := s.Recent("", 0)
	if err != nil {
		return
	}
	var cutoff time.Time
	if s.Retention.MaxAgeHours > 0 {
		cutoff = time.Now().Add(-time.Duration(s.Retention.MaxAgeHours) * time.Hour)
	}
	for i, run := range runs {
		expired := !cutoff.IsZero() && run.ModTime.Before(cutoff)
		overflow := s.Retention.MaxCount > 0 && i >= s.Retention.MaxCount
		if !expired && !overflow {
			continue
		}
		_ = os.Remove(run.LogPath)
		if run.PIDPath != "" {
			_ = os.Remove(run.PIDPath)
		}
	}
}

func headBytes(path string, n int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}
	return string(buf[:read]), err
}

func tailBytes(path string, n int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) > n {
		data = data[len(data)-n:]
	}
	return string(data), nil
}

// tailLines returns the last n lines of the file and whether older
// lines were dropped.
func tailLines(path string, n int) ([]string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	all := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if n > 0 && len(all) > n {
		return all[len(all)-n:], true, nil
	}
	return all, false, nil
}
