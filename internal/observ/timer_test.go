package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("parse")
	time.Sleep(time.Millisecond)
	tm.End(idx, "2 unions")

	idx2 := tm.Begin("emit")
	tm.End(idx2, "")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(report.Phases))
	}
	if report.Phases[0].Name != "parse" || report.Phases[0].Note != "2 unions" {
		t.Errorf("phase[0] = %+v", report.Phases[0])
	}
	if report.Phases[0].DurationMS <= 0 {
		t.Errorf("parse duration = %f, want > 0", report.Phases[0].DurationMS)
	}
	if report.TotalMS < report.Phases[0].DurationMS {
		t.Errorf("total %f < phase %f", report.TotalMS, report.Phases[0].DurationMS)
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	tm := NewTimer()
	tm.End(-1, "")
	tm.End(5, "")
	if len(tm.Report().Phases) != 0 {
		t.Error("out-of-range End must be a no-op")
	}
}

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("classify")
	tm.End(idx, "note")

	s := tm.Summary()
	for _, frag := range []string{"timings:", "classify", "// note", "total"} {
		if !strings.Contains(s, frag) {
			t.Errorf("summary missing %q:\n%s", frag, s)
		}
	}
}
