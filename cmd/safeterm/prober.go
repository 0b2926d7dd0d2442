package main

import (
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// Liveness is the re-derived state of a background invocation's pid.
type Liveness int

const (
	LivenessRunning Liveness = iota
	LivenessCompleted
	LivenessUnknown
)

func (l Liveness) String() string {
	switch l {
	case LivenessRunning:
		return "running"
	case LivenessCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Prober answers whether a recorded pid still refers to the process we
// launched. started is the launch time from the marker; a zero value
// disables the start-time check.
type Prober interface {
	Probe(pid int, started time.Time) Liveness
}

// startTimeTolerance absorbs the gap between our wall-clock launch
// stamp and the kernel-reported process start time.
const startTimeTolerance = 5 * time.Second

type osProber struct{}

func (osProber) Probe(pid int, started time.Time) Liveness {
	if pid <= 0 {
		return LivenessUnknown
	}
	exists, err := process.PidExists(int32(pid))
	if err != nil {
		return LivenessUnknown
	}
	if !exists {
		return LivenessCompleted
	}
	if started.IsZero() {
		return LivenessRunning
	}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return LivenessCompleted
	}
	createMs, err := p.CreateTime()
	if err != nil {
		// Existence probe stands on its own when the kernel won't say.
		return LivenessRunning
	}
	delta := time.UnixMilli(createMs).Sub(started)
	if delta < -startTimeTolerance || delta > startTimeTolerance {
		// The OS recycled the pid for another process; neither
		// "running" nor "completed" would be honest here.
		return LivenessUnknown
	}
	return LivenessRunning
}
