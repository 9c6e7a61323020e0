package trace

import (
	"sync/atomic"
	"time"
)

// Tracer is the main interface for emitting trace events.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev *Event)

	// Flush ensures all buffered events are written.
	Flush() error

	// Close flushes and releases resources.
	Close() error

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

var seq atomic.Uint64

// NextSeq returns the next global event sequence number.
func NextSeq() uint64 {
	return seq.Add(1)
}

// Point emits an instant event through t when its scope is enabled.
func Point(t Tracer, scope Scope, name, detail string) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(&Event{Time: time.Now(), Kind: KindPoint, Scope: scope, Name: name, Detail: detail})
}

// Begin emits a begin event and returns a func emitting the matching end.
func Begin(t Tracer, scope Scope, name string) func() {
	if t == nil || !t.Enabled() {
		return func() {}
	}
	t.Emit(&Event{Time: time.Now(), Kind: KindBegin, Scope: scope, Name: name})
	return func() {
		t.Emit(&Event{Time: time.Now(), Kind: KindEnd, Scope: scope, Name: name})
	}
}
