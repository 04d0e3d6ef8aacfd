package bridge

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var errStreamClosed = errors.New("event stream closed")

// StreamSink buffers events for a server-sent events connection.
type StreamSink struct {
	mu     sync.Mutex
	events chan Event
	closed bool
}

// NewStreamSink creates a sink holding up to size undelivered events.
func NewStreamSink(size int) *StreamSink {
	return &StreamSink{events: make(chan Event, size)}
}

// Emit queues ev on the stream. It fails when the stream is closed or backed up.
func (s *StreamSink) Emit(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStreamClosed
	}
	select {
	case s.events <- ev:
		return nil
	default:
		return fmt.Errorf("event stream is backed up, dropping %s", ev.Name)
	}
}

// Events returns the channel the connection drains.
func (s *StreamSink) Events() <-chan Event {
	return s.events
}

// Close stops the sink from accepting events.
func (s *StreamSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
}

// writeEvent writes ev in the text/event-stream format and flushes it.
func writeEvent(w *bufio.Writer, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", ev.ID, ev.Name, data); err != nil {
		return err
	}
	return w.Flush()
}

func writeKeepAlive(w *bufio.Writer) error {
	if _, err := w.WriteString(": ping\n\n"); err != nil {
		return err
	}
	return w.Flush()
}
