package bridge

import (
	"log/slog"
	"sync"
)

// Sink is an attached application context able to receive events.
type Sink interface {
	Emit(ev Event) error
}

// closer is implemented by sinks holding a connection open.
type closer interface {
	Close()
}

// Observer is told how each event was delivered.
type Observer interface {
	ObserveEvent(name, delivery string)
}

// Emitter delivers events to the application once its context is ready.
// Until a Sink is attached it keeps a single pending event; a newer event
// replaces an older one.
type Emitter struct {
	mu       sync.Mutex
	sink     Sink
	pending  *Event
	closed   bool
	observer Observer
}

// NewEmitter creates an emitter with no attached context.
func NewEmitter(observer Observer) *Emitter {
	return &Emitter{observer: observer}
}

// Notify sends onPathReceived for path, or queues it until the context is ready.
// It reports whether the event was delivered immediately.
func (e *Emitter) Notify(path string) bool {
	return e.Send(PathReceived(path))
}

// Send delivers ev or queues it as the pending event.
func (e *Emitter) Send(ev Event) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sink != nil && e.deliver(ev) {
		return true
	}
	if e.pending != nil {
		slog.Debug("Replacing pending event", "dropped", e.pending.Name, "dropped_id", e.pending.ID)
	}
	e.pending = &ev
	e.observe(ev.Name, "queued")
	slog.Debug("Application context not ready, event queued", "event", ev.Name, "id", ev.ID)
	return false
}

// Attach marks the application context ready and flushes the pending event.
// Attaching a new sink replaces and closes the previous one. After Close the
// sink is closed right away.
func (e *Emitter) Attach(sink Sink) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		closeSink(sink)
		return
	}
	if old := e.sink; old != nil && old != sink {
		closeSink(old)
		slog.Debug("Application context replaced")
	}
	e.sink = sink
	slog.Info("Application context attached")
	if e.pending == nil {
		return
	}
	ev := *e.pending
	if e.deliver(ev) {
		e.pending = nil
	}
}

// Detach forgets sink if it is the attached context. Later events queue again.
func (e *Emitter) Detach(sink Sink) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sink != sink {
		return
	}
	e.sink = nil
	slog.Info("Application context detached")
}

// Close detaches and closes the attached context. Later events stay pending.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	if e.sink != nil {
		closeSink(e.sink)
		e.sink = nil
	}
}

// Ready reports whether a context is attached.
func (e *Emitter) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sink != nil
}

// deliver emits ev to the attached sink. A failing sink is dropped. Callers hold mu.
func (e *Emitter) deliver(ev Event) bool {
	if err := e.sink.Emit(ev); err != nil {
		slog.Warn("Failed to emit event, detaching context", "event", ev.Name, "id", ev.ID, "error", err)
		closeSink(e.sink)
		e.sink = nil
		return false
	}
	e.observe(ev.Name, "sent")
	slog.Debug("Event emitted", "event", ev.Name, "id", ev.ID)
	return true
}

// requeue hands back events a closed stream never wrote, oldest first. With no
// context attached the newest becomes pending unless a newer event already is.
func (e *Emitter) requeue(events []Event) {
	if len(events) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, ev := range events {
		if e.sink != nil && e.deliver(ev) {
			continue
		}
		if e.pending == nil {
			last := events[len(events)-1]
			e.pending = &last
			e.observe(last.Name, "queued")
			slog.Debug("Unwritten event queued again", "event", last.Name, "id", last.ID)
		}
		return
	}
}

func (e *Emitter) observe(name, delivery string) {
	if e.observer != nil {
		e.observer.ObserveEvent(name, delivery)
	}
}

func closeSink(sink Sink) {
	if c, ok := sink.(closer); ok {
		c.Close()
	}
}
