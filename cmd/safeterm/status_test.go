package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeProber returns a fixed liveness per pid so status tests do not
// depend on real processes.
type fakeProber struct {
	byPID map[int]Liveness
}

func (f fakeProber) Probe(pid int, started time.Time) Liveness {
	if l, ok := f.byPID[pid]; ok {
		return l
	}
	return LivenessUnknown
}

func writeBackgroundRun(t *testing.T, store *RunStore, name, output string, pid int, age time.Duration) {
	t.Helper()
	logPath := filepath.Join(store.Dir, name+logExt)
	if err := os.WriteFile(logPath, []byte(output), 0o644); err != nil {
		t.Fatal(err)
	}
	if pid > 0 {
		if err := store.WritePIDMarker(filepath.Join(store.Dir, name+pidExt), pid, time.Now()); err != nil {
			t.Fatal(err)
		}
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(logPath, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestCheckStatusEmpty(t *testing.T) {
	store := newTestStore(t)
	report, err := store.checkStatus(true, 5)
	if err != nil {
		t.Fatal(err)
	}
	if report != "No background commands found" {
		t.Errorf("report = %q", report)
	}
}

func TestCheckStatusLiveness(t *testing.T) {
	store := newTestStore(t)
	store.Prober = fakeProber{byPID: map[int]Liveness{
		101: LivenessRunning,
		102: LivenessCompleted,
	}}

	writeBackgroundRun(t, store, "bg_1_aaaaaaaa_sleep", "tick\n", 101, 3*time.Hour)
	writeBackgroundRun(t, store, "bg_2_bbbbbbbb_make", "built ok\n", 102, 2*time.Hour)
	writeBackgroundRun(t, store, "bg_3_cccccccc_orphan", "no marker\n", 0, 1*time.Hour)

	report, err := store.checkStatus(true, 5)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"=== Background Command Status ===",
		"Command: bg_1_aaaaaaaa_sleep",
		"Status: 🔄 Running",
		"Status: ✅ Completed",
		"Status: ❓ Unknown",
		"Recent output:",
		"built ok",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}

	// Newest first: the orphan run has the freshest mtime.
	if strings.Index(report, "bg_3_cccccccc_orphan") > strings.Index(report, "bg_1_aaaaaaaa_sleep") {
		t.Error("runs not ordered newest-first")
	}
}

func TestCheckStatusHidesOutput(t *testing.T) {
	store := newTestStore(t)
	store.Prober = fakeProber{byPID: map[int]Liveness{9: LivenessRunning}}
	writeBackgroundRun(t, store, "bg_1_aaaaaaaa_x", "secret output\n", 9, time.Hour)

	report, err := store.checkStatus(false, 5)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(report, "secret output") {
		t.Errorf("show_output=false leaked output:\n%s", report)
	}
}

func TestCheckStatusLimit(t *testing.T) {
	store := newTestStore(t)
	store.Prober = fakeProber{}
	for i := 0; i < 8; i++ {
		writeBackgroundRun(t, store, fmt.Sprintf("bg_%d_aaaaaaa%d_x", i, i), "x\n", 0, time.Duration(i)*time.Hour)
	}

	report, err := store.checkStatus(false, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(report, "Command: "); got != 5 {
		t.Errorf("expected 5 runs in report, got %d", got)
	}
}

func TestCheckStatusIgnoresBoundedLogs(t *testing.T) {
	store := newTestStore(t)
	store.Prober = fakeProber{}
	writeBackgroundRun(t, store, "safe_1_aaaaaaaa", "bounded\n", 0, time.Hour)

	report, err := store.checkStatus(true, 5)
	if err != nil {
		t.Fatal(err)
	}
	if report != "No background commands found" {
		t.Errorf("bounded log leaked into status:\n%s", report)
	}
}

func TestGetContextTruncation(t *testing.T) {
	store := newTestStore(t)

	var long strings.Builder
	for i := 1; i <= 100; i++ {
		fmt.Fprintf(&long, "line %d\n", i)
	}
	writeBackgroundRun(t, store, "safe_1_aaaaaaaa", long.String(), 0, 2*time.Hour)
	writeBackgroundRun(t, store, "bg_2_bbbbbbbb_short", "a\nb\nc\n", 0, time.Hour)

	report, err := store.getContext(10, 3)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(report, "=== Recent Terminal Activity ===") {
		t.Error("missing header")
	}
	if !strings.Contains(report, "... (showing last 10 lines)") {
		t.Error("missing truncation note for long log")
	}
	if !strings.Contains(report, "line 100") || strings.Contains(report, "line 90\n") {
		t.Errorf("long log not tailed to last 10 lines:\n%s", report)
	}
	if !strings.Contains(report, "a\nb\nc") {
		t.Error("short log content missing")
	}
	// Short log gets no truncation note.
	if strings.Count(report, "showing last") != 1 {
		t.Error("truncation note count wrong")
	}
	// Both modes appear, newest first.
	if strings.Index(report, "bg_2_bbbbbbbb_short") > strings.Index(report, "safe_1_aaaaaaaa") {
		t.Error("context not ordered newest-first")
	}
}

func TestGetContextLimit(t *testing.T) {
	store := newTestStore(t)
	for i := 0; i < 6; i++ {
		writeBackgroundRun(t, store, fmt.Sprintf("safe_%d_aaaaaaa%d", i, i), "x\n", 0, time.Duration(i)*time.Hour)
	}

	report, err := store.getContext(50, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(report, "📄 "); got != 3 {
		t.Errorf("expected 3 logs in context, got %d", got)
	}
}

func TestGetContextSkipsUnreadable(t *testing.T) {
	store := newTestStore(t)
	writeBackgroundRun(t, store, "safe_1_aaaaaaaa", "ok\n", 0, time.Hour)
	// A log that vanishes between scan and read must be skipped.
	gone := filepath.Join(store.Dir, "safe_2_bbbbbbbb"+logExt)
	if err := os.WriteFile(gone, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	runs, err := store.Recent("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("setup: expected 2 runs, got %d", len(runs))
	}
	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}

	report, err := store.getContext(50, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(report, "ok") {
		t.Errorf("surviving log missing from context:\n%s", report)
	}
}
