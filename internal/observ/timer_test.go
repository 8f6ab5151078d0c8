package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerBeginEnd(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("load")
	tm.End(idx, "3 files")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 1 || r.Phases[0].Name != "load" || r.Phases[0].Note != "3 files" {
		t.Fatalf("report = %+v", r)
	}
	if r.Phases[0].DurationMS < 0 {
		t.Fatalf("negative duration")
	}
}

func TestTimerAddConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Add("check", time.Millisecond)
		}()
	}
	wg.Wait()

	r := tm.Report()
	if len(r.Phases) != 1 {
		t.Fatalf("phases = %+v", r.Phases)
	}
	if r.Phases[0].DurationMS != 8 || r.TotalMS != 8 {
		t.Fatalf("report = %+v", r)
	}
}

func TestSummary(t *testing.T) {
	tm := NewTimer()
	tm.Add("parse", 1500*time.Microsecond)
	s := tm.Summary()
	for _, want := range []string{"timings:", "parse", "1.50 ms", "// summed", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
	if len(NewTimer().Report().Phases) != 0 {
		t.Fatalf("empty timer reported phases")
	}
}

func TestAddCountsCalls(t *testing.T) {
	tm := NewTimer()
	tm.Add("check", time.Millisecond)
	tm.Add("check", time.Millisecond)
	if r := tm.Report(); r.Phases[0].Calls != 2 {
		t.Fatalf("calls = %d", r.Phases[0].Calls)
	}
	if s := tm.Summary(); !strings.Contains(s, "summed over 2 call(s)") {
		t.Fatalf("summary:\n%s", s)
	}
}
