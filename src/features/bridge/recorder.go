package bridge

import "sync"

// Recorder is an in-memory Sink. It is what the CLI attaches for one-shot
// commands and what tests attach in place of a live stream.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

// Emit records ev, or fails with r.Err when set.
func (r *Recorder) Emit(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
