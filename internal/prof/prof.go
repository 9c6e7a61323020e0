// Package prof wraps runtime profiling for the CLI: CPU samples while a
// check runs, a heap snapshot after it finishes.
package prof

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Session owns the files opened for one profiled run. Zero value means
// profiling is off; Stop is always safe to call.
type Session struct {
	cpu *os.File
}

// Start begins CPU profiling into cpuPath. Empty path disables it.
func Start(cpuPath string) (*Session, error) {
	s := &Session{}
	if cpuPath == "" {
		return s, nil
	}
	f, err := os.Create(cpuPath)
	if err != nil {
		return nil, fmt.Errorf("prof: create cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("prof: start cpu profile: %w", err)
	}
	s.cpu = f
	return s, nil
}

// Stop ends CPU profiling and closes the sample file.
func (s *Session) Stop() {
	if s == nil || s.cpu == nil {
		return
	}
	pprof.StopCPUProfile()
	s.cpu.Close()
	s.cpu = nil
}

// WriteHeap forces a GC and snapshots the heap to path. Empty path is a
// no-op.
func WriteHeap(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("prof: create heap profile: %w", err)
	}
	defer f.Close()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("prof: write heap profile: %w", err)
	}
	return nil
}
