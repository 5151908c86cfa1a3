package extract

import (
	"testing"
	"time"

	"github.com/dgallion1/xapidoc/internal/apitree"
)

func TestParseStatsSnapshotPercentiles(t *testing.T) {
	stats := NewParseStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Record(apitree.KindConfiguration, time.Duration(ms)*time.Millisecond, 1000)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %d", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %d", snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
	if snap.Words != 5000 {
		t.Fatalf("expected words=5000, got %d", snap.Words)
	}
	if snap.WordsPerSec < 3333 || snap.WordsPerSec > 3334 {
		t.Fatalf("expected ~3333 words/sec, got %f", snap.WordsPerSec)
	}
}

func TestParseStatsGroupsBySection(t *testing.T) {
	stats := NewParseStats(time.Hour)
	stats.Record(apitree.KindCommand, 40*time.Millisecond, 10)
	stats.Record(apitree.KindStatus, 10*time.Millisecond, 20)
	stats.Record(apitree.KindStatus, 30*time.Millisecond, 30)

	snap := stats.Snapshot()
	if len(snap.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(snap.Sections))
	}
	if _, ok := snap.Sections[apitree.KindConfiguration]; ok {
		t.Error("expected no configuration entry")
	}
	st := snap.Sections[apitree.KindStatus]
	if st.Count != 2 || st.MinMs != 10 || st.MaxMs != 30 || st.Words != 50 {
		t.Errorf("unexpected status aggregate %+v", st)
	}
	if snap.Sections[apitree.KindCommand].Count != 1 {
		t.Errorf("expected 1 command sample, got %d", snap.Sections[apitree.KindCommand].Count)
	}
}

func TestParseStatsPrunesExpiredSamples(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stats := NewParseStats(time.Minute)
	stats.now = func() time.Time { return clock }

	stats.Record(apitree.KindStatus, 100*time.Millisecond, 1)
	clock = clock.Add(2 * time.Minute)

	snap := stats.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}
	if snap.Sections != nil {
		t.Fatalf("expected no sections, got %v", snap.Sections)
	}

	stats.Record(apitree.KindStatus, 200*time.Millisecond, 1)
	snap = stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestParseStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewParseStats(time.Hour)
	stats.Record(apitree.KindCommand, -10*time.Millisecond, -3)
	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 || snap.Words != 0 {
		t.Fatalf("expected clamped sample, got min=%d max=%d words=%d", snap.MinMs, snap.MaxMs, snap.Words)
	}
	if snap.WordsPerSec != 0 {
		t.Fatalf("expected words/sec=0 for zero duration, got %f", snap.WordsPerSec)
	}
}
