package main

import (
	"os"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

func TestProbeOwnProcess(t *testing.T) {
	p := osProber{}

	if got := p.Probe(os.Getpid(), time.Time{}); got != LivenessRunning {
		t.Errorf("own pid without start check = %s, want running", got)
	}

	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		t.Fatal(err)
	}
	createMs, err := self.CreateTime()
	if err != nil {
		t.Skipf("create time unavailable: %v", err)
	}

	if got := p.Probe(os.Getpid(), time.UnixMilli(createMs)); got != LivenessRunning {
		t.Errorf("own pid with matching start = %s, want running", got)
	}

	// A start time far from the real one means the pid was recycled.
	stale := time.UnixMilli(createMs).Add(-time.Hour)
	if got := p.Probe(os.Getpid(), stale); got != LivenessUnknown {
		t.Errorf("own pid with stale start = %s, want unknown", got)
	}
}

func TestProbeInvalidPID(t *testing.T) {
	p := osProber{}
	for _, pid := range []int{0, -1} {
		if got := p.Probe(pid, time.Now()); got != LivenessUnknown {
			t.Errorf("Probe(%d) = %s, want unknown", pid, got)
		}
	}
}

func TestProbeExitedProcess(t *testing.T) {
	store := newTestStore(t)
	res := store.runBounded("true", t.TempDir(), 5*time.Second)
	if res.Outcome != OutcomeCompleted {
		t.Fatalf("setup run failed: %s", res.Outcome)
	}

	if got := (osProber{}).Probe(res.PID, time.Time{}); got != LivenessCompleted {
		t.Errorf("exited pid = %s, want completed", got)
	}
}

func TestLivenessString(t *testing.T) {
	tests := []struct {
		l    Liveness
		want string
	}{
		{LivenessRunning, "running"},
		{LivenessCompleted, "completed"},
		{LivenessUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.l.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
