package fixture

import (
	"fmt"
	"sync"
)

// Recorder is a TestingT that collects failures instead of failing a test,
// for running fixtures outside go test.
type Recorder struct {
	mu       sync.Mutex
	failures []string
}

type failNow struct{}

// Helper implements TestingT.
func (*Recorder) Helper() {}

// Errorf implements TestingT.
func (r *Recorder) Errorf(format string, args ...any) {
	r.mu.Lock()
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

// FailNow implements TestingT. It unwinds to the enclosing Run.
func (*Recorder) FailNow() {
	panic(failNow{})
}

// Run calls fn with r and reports whether it passed.
func (r *Recorder) Run(fn func(t TestingT)) (passed bool) {
	before := len(r.Failures())

	defer func() {
		if p := recover(); p != nil {
			if _, ok := p.(failNow); !ok {
				panic(p)
			}

			passed = false

			return
		}

		passed = len(r.Failures()) == before
	}()

	fn(r)

	return true
}

// Failures returns the collected messages.
func (r *Recorder) Failures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.failures))
	copy(out, r.failures)

	return out
}

// Failed reports whether any failure was recorded.
func (r *Recorder) Failed() bool {
	return len(r.Failures()) > 0
}
