package driver

import (
	"time"

	"typeflow/internal/observ"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during Analyze.
type PhaseObserver func(PhaseEvent)

// phases wraps the optional timer and observer behind one begin/end pair.
type phases struct {
	timer    *observ.Timer
	observer PhaseObserver
	started  map[int]time.Time
	next     int
}

func newPhases(timings bool, observer PhaseObserver) *phases {
	p := &phases{observer: observer, started: make(map[int]time.Time)}
	if timings {
		p.timer = observ.NewTimer()
	}
	return p
}

func (p *phases) begin(name string) int {
	idx := p.next
	if p.timer != nil {
		idx = p.timer.Begin(name)
	}
	p.next = idx + 1
	p.started[idx] = time.Now()
	if p.observer != nil {
		p.observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	return idx
}

func (p *phases) end(idx int, name, note string) {
	if p.timer != nil {
		p.timer.End(idx, note)
	}
	if p.observer != nil {
		p.observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(p.started[idx])})
	}
	delete(p.started, idx)
}

func (p *phases) report() *observ.Report {
	if p.timer == nil {
		return nil
	}
	r := p.timer.Report()
	return &r
}
