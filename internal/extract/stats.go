package extract

import (
	"slices"
	"sync"
	"time"

	"github.com/dgallion1/xapidoc/internal/apitree"
)

type sample struct {
	at         time.Time
	kind       apitree.Kind
	durationMs int64
	words      int
}

// DurationSnapshot aggregates parse durations of one group of samples.
type DurationSnapshot struct {
	Count       int     `json:"count"`
	Words       int     `json:"words"`
	MinMs       int64   `json:"min_ms"`
	MaxMs       int64   `json:"max_ms"`
	AvgMs       float64 `json:"avg_ms"`
	P50Ms       float64 `json:"p50_ms"`
	P95Ms       float64 `json:"p95_ms"`
	P99Ms       float64 `json:"p99_ms"`
	WordsPerSec float64 `json:"words_per_sec"`
}

// StatsSnapshot is a point-in-time view of recent section runs.
type StatsSnapshot struct {
	DurationSnapshot
	Sections map[apitree.Kind]DurationSnapshot `json:"sections,omitempty"`
}

// ParseStats keeps section parse durations for a rolling window.
type ParseStats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
	now     func() time.Time
}

func NewParseStats(maxAge time.Duration) *ParseStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &ParseStats{
		samples: make([]sample, 0, 64),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// Record adds one section run.
func (s *ParseStats) Record(kind apitree.Kind, d time.Duration, words int) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	if words < 0 {
		words = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, sample{at: now, kind: kind, durationMs: ms, words: words})
}

func (s *ParseStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	snap := StatsSnapshot{
		DurationSnapshot: aggregate(s.samples),
		Sections:         make(map[apitree.Kind]DurationSnapshot),
	}
	for _, kind := range apitree.Kinds {
		var group []sample
		for _, sm := range s.samples {
			if sm.kind == kind {
				group = append(group, sm)
			}
		}
		if len(group) > 0 {
			snap.Sections[kind] = aggregate(group)
		}
	}
	return snap
}

func (s *ParseStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	s.samples = slices.DeleteFunc(s.samples, func(sm sample) bool {
		return sm.at.Before(cutoff)
	})
}

func aggregate(samples []sample) DurationSnapshot {
	values := make([]int64, 0, len(samples))
	var sum int64
	words := 0
	for _, sm := range samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		words += sm.words
	}
	slices.Sort(values)

	out := DurationSnapshot{
		Count: len(values),
		Words: words,
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
	if sum > 0 {
		out.WordsPerSec = float64(words) / (float64(sum) / 1000)
	}
	return out
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	lo := float64(sorted[lower])
	hi := float64(sorted[upper])
	return lo + ((hi - lo) * weight)
}
