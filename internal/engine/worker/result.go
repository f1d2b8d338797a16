package worker

import (
	"fmt"

	"go.trai.ch/kiln/internal/core/domain"
)

// Result is the outcome of processing one file.
type Result struct {
	Path    string
	Content string
	Err     error
	Cached  bool
}

// Outcome classifies the result.
func (r Result) Outcome() domain.Outcome {
	switch {
	case r.Err != nil:
		return domain.OutcomeFailed
	case r.Cached:
		return domain.OutcomeCached
	default:
		return domain.OutcomeTransformed
	}
}

// Text returns the output, or "error: <message>" when the file failed.
func (r Result) Text() string {
	if r.Err != nil {
		return "error: " + r.Err.Error()
	}
	return r.Content
}

// Stats is a snapshot of the worker's counters.
type Stats struct {
	Entries  int
	Nodes    int
	Edges    int
	Hits     uint64
	Misses   uint64
	PoolSize int
}

// String renders the stats on one line.
func (s Stats) String() string {
	return fmt.Sprintf("cache entries: %d, graph: %d nodes / %d edges, hits: %d, misses: %d, pool size: %d",
		s.Entries, s.Nodes, s.Edges, s.Hits, s.Misses, s.PoolSize)
}
