// Package perf keeps a bounded in-memory history of request and query timings
// for the admin perf endpoint.
package perf

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// Kind distinguishes request and query entries.
type Kind uint8

const (
	KindRequest Kind = iota
	KindQuery
)

// Entry is a single timing sample.
type Entry struct {
	Kind       Kind
	Label      string // "METHOD /path" for requests, "VERB table" for queries
	Status     int    // HTTP status, 0 for queries
	Failed     bool   // 5xx response or a query error other than no-rows
	DurationMs float64
	At         time.Time
}

// Collector is a fixed-size ring of entries. When full the oldest sample is overwritten.
// Aggregation happens only in Snapshot.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	total   atomic.Int64
}

// NewCollector creates a collector holding the last size entries.
// PRE: none; size <= 0 selects DefaultRingSize
// POST: Returns a ready-to-use collector
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores e, overwriting the oldest sample when the ring is full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.next] = e
	c.next = (c.next + 1) % len(c.entries)
	c.mu.Unlock()
	c.total.Add(1)
}

// TotalRecorded returns the number of entries ever recorded, including overwritten ones.
func (c *Collector) TotalRecorded() int64 {
	return c.total.Load()
}

// LabelStat aggregates the samples sharing one label.
type LabelStat struct {
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Failures int     `json:"failures"`
	AvgMs    float64 `json:"avgMs"`
	MaxMs    float64 `json:"maxMs"`
	totalMs  float64
}

// Snapshot is the aggregated view returned to admins.
type Snapshot struct {
	Since          time.Time   `json:"since"`
	TotalRecorded  int64       `json:"totalRecorded"`
	Requests       int         `json:"requests"`
	Queries        int         `json:"queries"`
	RequestP50Ms   float64     `json:"requestP50Ms"`
	RequestP95Ms   float64     `json:"requestP95Ms"`
	RequestP99Ms   float64     `json:"requestP99Ms"`
	SlowestPaths   []LabelStat `json:"slowestPaths"`
	SlowestQueries []LabelStat `json:"slowestQueries"`
}

// Snapshot aggregates the samples recorded at or after since.
// PRE: topN >= 0
// POST: Slowest lists are ordered by average duration, longest first, at most topN long
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := slices.Clone(c.entries)
	c.mu.Unlock()

	snap := Snapshot{Since: since, TotalRecorded: c.TotalRecorded()}
	var durations []float64
	paths := map[string]*LabelStat{}
	queries := map[string]*LabelStat{}

	for _, e := range buf {
		if e.At.IsZero() || e.At.Before(since) {
			continue
		}
		group := queries
		if e.Kind == KindRequest {
			group = paths
			durations = append(durations, e.DurationMs)
			snap.Requests++
		} else {
			snap.Queries++
		}
		s, ok := group[e.Label]
		if !ok {
			s = &LabelStat{Label: e.Label}
			group[e.Label] = s
		}
		s.Count++
		s.totalMs += e.DurationMs
		s.MaxMs = max(s.MaxMs, e.DurationMs)
		if e.Failed {
			s.Failures++
		}
	}

	snap.SlowestPaths = slowest(paths, topN)
	snap.SlowestQueries = slowest(queries, topN)
	if len(durations) > 0 {
		slices.Sort(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lo, hi := int(math.Floor(idx)), int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func slowest(stats map[string]*LabelStat, n int) []LabelStat {
	out := make([]LabelStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.totalMs / float64(s.Count)
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b LabelStat) int {
		if c := cmp.Compare(b.AvgMs, a.AvgMs); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
