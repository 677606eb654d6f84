package calculator

import "sync"

// CalcHub carries the start/stop signals of a running simulation.
type CalcHub struct {
	mu   sync.Mutex
	stop chan struct{}
	// 运行中时为 true
	running bool
}

func NewCalcHub() *CalcHub {
	return &CalcHub{}
}

// StartSignal arms a new stop channel. It returns false if a run is already
// in progress.
func (ch *CalcHub) StartSignal() (<-chan struct{}, bool) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.running {
		return nil, false
	}
	ch.stop = make(chan struct{})
	ch.running = true
	return ch.stop, true
}

// StopSignal asks the current run to stop. It returns false when nothing is
// running.
func (ch *CalcHub) StopSignal() bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if !ch.running {
		return false
	}
	select {
	case <-ch.stop:
	default:
		close(ch.stop)
	}
	return true
}

// Finished must be called by the run once it has returned.
func (ch *CalcHub) Finished() {
	ch.mu.Lock()
	ch.running = false
	ch.mu.Unlock()
}

func (ch *CalcHub) Running() bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.running
}
