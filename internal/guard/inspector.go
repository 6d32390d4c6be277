package guard

import (
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessInspector enumerates and terminates OS-level helper processes
// by executable name. It exists so that process-table access, which is
// global mutable state outside this component's control, stays behind a
// narrow port that can be mocked in tests or replaced with a no-op on
// platforms without reliable process enumeration.
type ProcessInspector interface {
	// Snapshot returns the PIDs of processes whose executable name
	// matches the inspector's filter. Enumeration errors yield an
	// empty snapshot; a snapshot is never required for correctness.
	Snapshot() []int32

	// Terminate sends a terminate signal to pid and waits up to grace
	// for the process to exit. The returned error is informational:
	// callers treat cleanup as advisory and ignore failures.
	Terminate(pid int32, grace time.Duration) error
}

// NopInspector is a ProcessInspector that tracks nothing and
// terminates nothing.
type NopInspector struct{}

// Snapshot returns an empty snapshot.
func (NopInspector) Snapshot() []int32 { return nil }

// Terminate does nothing and reports success.
func (NopInspector) Terminate(int32, time.Duration) error { return nil }

// PsInspector matches processes whose executable name contains a
// substring, using the system process table.
type PsInspector struct {
	name string
}

// NewPsInspector creates an inspector matching executable names that
// contain name (case-insensitive), e.g. "tesseract".
func NewPsInspector(name string) *PsInspector {
	return &PsInspector{name: strings.ToLower(name)}
}

// Snapshot lists PIDs of currently running processes whose name
// contains the inspector's filter substring.
func (i *PsInspector) Snapshot() []int32 {
	procs, err := process.Processes()
	if err != nil {
		return nil
	}
	var pids []int32
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(name), i.name) {
			pids = append(pids, p.Pid)
		}
	}
	return pids
}

// Terminate sends SIGTERM to pid and polls until the process exits or
// grace elapses. A PID that no longer exists, or that has been reused
// by a non-matching process, is treated as already cleaned up.
func (i *PsInspector) Terminate(pid int32, grace time.Duration) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return fmt.Errorf("process %d not found: %w", pid, err)
	}

	// Guard against PID reuse between snapshot and cleanup.
	name, err := p.Name()
	if err != nil {
		return nil
	}
	if !strings.Contains(strings.ToLower(name), i.name) {
		return nil
	}

	if err := p.Terminate(); err != nil {
		return fmt.Errorf("terminate %d: %w", pid, err)
	}

	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		running, err := p.IsRunning()
		if err != nil || !running {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("process %d still running after %s", pid, grace)
}
