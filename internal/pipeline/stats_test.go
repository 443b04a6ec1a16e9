package pipeline

import (
	"testing"
	"time"
)

func TestParseStats_Percentiles(t *testing.T) {
	stats := NewParseStats(time.Hour)
	for _, ms := range []int64{500, 100, 300, 200, 400} {
		stats.Record("chapter", time.Duration(ms)*time.Millisecond, false)
	}

	snap := stats.Snapshot()
	o := snap.Overall
	if o.Count != 5 {
		t.Fatalf("expected count=5, got %d", o.Count)
	}
	if o.MinMs != 100 || o.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", o.MinMs, o.MaxMs)
	}
	if o.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", o.AvgMs)
	}
	if o.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", o.P50Ms)
	}
	if o.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", o.P95Ms)
	}
	if o.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", o.P99Ms)
	}
	if snap.Window != "1h0m0s" {
		t.Errorf("expected window 1h0m0s, got %q", snap.Window)
	}
}

func TestParseStats_ByKindAndFailures(t *testing.T) {
	stats := NewParseStats(time.Hour)
	stats.Record("chapter", 10*time.Millisecond, false)
	stats.Record("assessment", 30*time.Millisecond, false)
	stats.Record("assessment", 50*time.Millisecond, false)
	stats.Record("assessment", time.Second, true)

	snap := stats.Snapshot()
	if snap.Failures != 1 {
		t.Errorf("expected 1 failure, got %d", snap.Failures)
	}
	if snap.Overall.Count != 3 {
		t.Errorf("expected failures excluded from latency, got count %d", snap.Overall.Count)
	}
	if got := snap.ByKind["assessment"]; got.Count != 2 || got.AvgMs != 40 {
		t.Errorf("unexpected assessment latency %+v", got)
	}
	if got := snap.ByKind["chapter"]; got.Count != 1 || got.MaxMs != 10 {
		t.Errorf("unexpected chapter latency %+v", got)
	}
}

func TestParseStats_PrunesExpiredSamples(t *testing.T) {
	stats := NewParseStats(10 * time.Millisecond)
	stats.Record("chapter", 100*time.Millisecond, false)
	time.Sleep(25 * time.Millisecond)

	if snap := stats.Snapshot(); snap.Overall.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Overall.Count)
	}

	stats.Record("chapter", 200*time.Millisecond, false)
	snap := stats.Snapshot()
	if snap.Overall.Count != 1 || snap.Overall.MinMs != 200 {
		t.Fatalf("expected one fresh sample of 200ms, got %+v", snap.Overall)
	}
}

func TestParseStats_ClampsNegativeDuration(t *testing.T) {
	stats := NewParseStats(time.Hour)
	stats.Record("chapter", -10*time.Millisecond, false)
	snap := stats.Snapshot()
	if snap.Overall.Count != 1 || snap.Overall.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got %+v", snap.Overall)
	}
}

func TestParseStats_EmptySnapshot(t *testing.T) {
	snap := NewParseStats(0).Snapshot()
	if snap.Overall.Count != 0 || snap.ByKind == nil {
		t.Errorf("expected empty snapshot with non-nil map, got %+v", snap)
	}
}
