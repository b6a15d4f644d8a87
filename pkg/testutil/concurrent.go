package testutil

import (
	"sync"

	dErrors "vctbuilder/pkg/domain-errors"
)

// Outcomes tallies the results of RunConcurrent.
type Outcomes struct {
	mu        sync.Mutex
	Successes int
	// ByCode counts failures carrying a domain code.
	ByCode map[dErrors.Code]int
	// Uncoded counts failures without one.
	Uncoded int
}

// Count returns the number of failures with code.
func (o *Outcomes) Count(code dErrors.Code) int {
	return o.ByCode[code]
}

func (o *Outcomes) Total() int {
	n := o.Successes + o.Uncoded
	for _, c := range o.ByCode {
		n += c
	}
	return n
}

func (o *Outcomes) record(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err == nil {
		o.Successes++
		return
	}
	if code, ok := dErrors.CodeOf(err); ok {
		o.ByCode[code]++
		return
	}
	o.Uncoded++
}

// RunConcurrent starts n goroutines running fn(0..n-1) and waits for all of
// them.
func RunConcurrent(n int, fn func(idx int) error) *Outcomes {
	out := &Outcomes{ByCode: make(map[dErrors.Code]int)}
	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() { out.record(fn(i)) })
	}
	wg.Wait()
	return out
}
