package main

import (
	"log"
	"sync"
)

// errAgg aggregates fail-soft row errors: it keeps the first N distinct-ish
// messages for the end-of-run summary and counts the rest, so a source with
// thousands of bad lines does not flood the log.
type errAgg struct {
	mu    sync.Mutex
	limit int
	msgs  []string
	total int64
}

func newErrAgg(limit int) *errAgg {
	return &errAgg{limit: limit}
}

func (a *errAgg) add(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.total++
	if len(a.msgs) < a.limit {
		a.msgs = append(a.msgs, msg)
	}
}

// summarize logs the aggregate once, under the given stage label. A clean
// stage logs nothing.
func (a *errAgg) summarize(stage string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.total == 0 {
		return
	}
	log.Printf("%s: %d row-level schema errors (coerced to null)", stage, a.total)
	for _, m := range a.msgs {
		log.Printf("%s: e.g. %s", stage, m)
	}
	if int64(len(a.msgs)) < a.total {
		log.Printf("%s: ... %d more suppressed", stage, a.total-int64(len(a.msgs)))
	}
}
