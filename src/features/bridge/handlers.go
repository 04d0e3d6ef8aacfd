package bridge

import (
	"bufio"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	streamBuffer      = 16
	keepAliveInterval = 15 * time.Second
)

// Handler serves the application's event stream.
type Handler struct {
	emitter *Emitter
}

// NewHandler creates a new handler for the bridge feature.
func NewHandler(emitter *Emitter) *Handler {
	return &Handler{emitter: emitter}
}

// Stream attaches the connection as the application context and streams
// events until the client goes away. Events the connection could not write
// are handed back to the emitter.
func (h *Handler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Context().SetConnectionClose()

	remote := c.IP()
	gone := watchConn(c.Context().Conn())
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		if err := writeKeepAlive(w); err != nil {
			slog.Debug("Event stream dead before attach", "remote", remote, "error", err)
			return
		}
		sink := NewStreamSink(streamBuffer)
		h.emitter.Attach(sink)
		slog.Debug("Event stream opened", "remote", remote)

		var unwritten []Event
		defer func() {
			h.emitter.Detach(sink)
			sink.Close()
			for ev := range sink.Events() {
				unwritten = append(unwritten, ev)
			}
			h.emitter.requeue(unwritten)
			slog.Debug("Event stream closed", "remote", remote, "requeued", len(unwritten))
		}()

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gone:
				return
			case ev, ok := <-sink.Events():
				if !ok {
					return
				}
				if isClosed(gone) {
					unwritten = append(unwritten, ev)
					return
				}
				if err := writeEvent(w, ev); err != nil {
					slog.Warn("Failed to write event", "event", ev.Name, "error", err)
					unwritten = append(unwritten, ev)
					return
				}
			case <-ticker.C:
				if err := writeKeepAlive(w); err != nil {
					return
				}
			}
		}
	})
	return nil
}

// watchConn closes the returned channel once the client hangs up. Bytes the
// client sends after its request are discarded.
func watchConn(conn net.Conn) <-chan struct{} {
	gone := make(chan struct{})
	if conn == nil {
		return gone
	}
	go func() {
		defer close(gone)
		buf := make([]byte, 1)
		for {
			_, err := conn.Read(buf)
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				if conn.SetReadDeadline(time.Time{}) != nil {
					return
				}
				continue
			}
			if err != nil {
				return
			}
		}
	}()
	return gone
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// Status reports whether an application context is attached.
func (h *Handler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ready": h.emitter.Ready()})
}
