// Package observ records phase timings for --timings output.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one timed step of a run: load, parse, check or report.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
	// Calls counts Add calls folded into a summed phase; zero for phases
	// timed with Begin and End.
	Calls int
}

// Timer collects phases. Safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
	summed map[string]int
}

func NewTimer() *Timer {
	return &Timer{summed: make(map[string]int)}
}

// Begin opens a phase and returns the handle End expects.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End closes the phase opened by Begin. Unknown handles are ignored.
func (t *Timer) End(handle int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if handle < 0 || handle >= len(t.phases) {
		return
	}
	p := &t.phases[handle]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Add folds d into the summed phase name. Parallel per-file work reports
// through Add, so the result is CPU time spent, not wall time.
func (t *Timer) Add(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.summed[name]
	if !ok {
		i = len(t.phases)
		t.summed[name] = i
		t.phases = append(t.phases, Phase{Name: name, Note: "summed"})
	}
	t.phases[i].Dur += d
	t.phases[i].Calls++
}

// PhaseReport is the serialisable form of a Phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Calls      int     `json:"calls,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// Report: снимок всех фаз и их суммарной длительности.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	var r Report
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		r.Phases = append(r.Phases, PhaseReport{
			Name:       p.Name,
			DurationMS: millis(p.Dur),
			Calls:      p.Calls,
			Note:       p.Note,
		})
	}
	r.TotalMS = millis(total)
	return r
}

// Summary renders the report as an aligned table for stderr.
func (t *Timer) Summary() string {
	r := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		switch {
		case p.Calls > 0:
			fmt.Fprintf(&b, "  // %s over %d call(s)", p.Note, p.Calls)
		case p.Note != "":
			fmt.Fprintf(&b, "  // %s", p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
