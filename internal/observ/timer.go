// Package observ collects per-phase wall-clock timings for one pipeline
// run.
package observ

import "time"

// Timer accumulates completed phases in start order. Not goroutine-safe;
// the driver times phases from its own goroutine only.
type Timer struct {
	phases []phase
}

type phase struct {
	name  string
	start time.Time
	dur   time.Duration
	note  string
}

func NewTimer() *Timer { return &Timer{phases: make([]phase, 0, 4)} }

// Phase starts a named phase. The returned stop function records the
// elapsed time together with a short note ("" for none).
func (t *Timer) Phase(name string) func(note string) {
	idx := len(t.phases)
	t.phases = append(t.phases, phase{name: name, start: time.Now()})
	return func(note string) {
		p := &t.phases[idx]
		p.dur = time.Since(p.start)
		p.note = note
	}
}

// PhaseReport is the serializable snapshot of one phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report aggregates all phases of a run.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report returns the phases and total duration in milliseconds.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	rep := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		total += p.dur
		rep.Phases[i] = PhaseReport{
			Name:       p.name,
			DurationMS: durationToMillis(p.dur),
			Note:       p.note,
		}
	}
	rep.TotalMS = durationToMillis(total)
	return rep
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
