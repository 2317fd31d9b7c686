// internal/batch/ledger.go
package batch

import "sync"

// Ledger records which experiments have begun averaging within one pipeline
// invocation, guaranteeing at most one averaging pass per experiment. It is
// created by the coordinator and discarded when the invocation returns; there
// is no process-wide instance.
type Ledger struct {
	mu      sync.Mutex
	started map[string]struct{}
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{started: make(map[string]struct{})}
}

// Begin marks an experiment as claimed. It returns false if the experiment
// was already claimed during this invocation.
func (l *Ledger) Begin(experimentDir string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.started[experimentDir]; ok {
		return false
	}
	l.started[experimentDir] = struct{}{}
	return true
}

// Count returns how many experiments have been claimed.
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.started)
}
