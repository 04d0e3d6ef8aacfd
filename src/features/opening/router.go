package opening

import (
	"context"
	"log/slog"

	"github.com/contre95/lxbridge/src/features/bridge"
	"github.com/contre95/lxbridge/src/features/config"
)

// Emitter delivers events to the application.
type Emitter interface {
	Notify(path string) bool
	Send(ev bridge.Event) bool
}

// Observer counts intent outcomes.
type Observer interface {
	ObserveIntent(outcome string)
}

// Result describes what happened to one intent.
type Result struct {
	Matched   bool   `json:"matched"`
	Path      string `json:"path,omitempty"`
	Delivered bool   `json:"delivered"`
	Reason    string `json:"reason,omitempty"`
}

// Router forwards matching intents to the application as events.
type Router struct {
	filter        *Filter
	resolver      *Resolver
	emitter       Emitter
	configManager *config.Manager
	observer      Observer
}

// NewRouter creates a new intent router.
func NewRouter(filter *Filter, resolver *Resolver, emitter Emitter, cfgManager *config.Manager, observer Observer) *Router {
	return &Router{
		filter:        filter,
		resolver:      resolver,
		emitter:       emitter,
		configManager: cfgManager,
		observer:      observer,
	}
}

// HandleIntent matches, resolves and forwards in. Intents that do not match
// or do not resolve produce no onPathReceived event.
func (r *Router) HandleIntent(ctx context.Context, in Intent) Result {
	if err := r.filter.Check(in); err != nil {
		slog.Debug("Ignoring intent", "uri", in.URI, "action", in.Action, "reason", err)
		r.observe("dropped")
		return Result{Reason: err.Error()}
	}
	r.observe("matched")

	path, err := r.resolver.Resolve(ctx, in)
	if err != nil {
		slog.Info("Dropping intent with no resolvable path", "uri", in.URI, "error", err)
		r.observe("unresolved")
		res := Result{Matched: true, Reason: err.Error()}
		if r.reportUnsupported() {
			res.Delivered = r.emitter.Send(bridge.NewEvent(bridge.EventUnsupportedFile, map[string]string{"uri": in.URI}))
		}
		return res
	}

	delivered := r.emitter.Notify(path)
	if delivered {
		r.observe("delivered")
	} else {
		r.observe("queued")
	}
	slog.Info("Intent forwarded", "uri", in.URI, "path", path, "delivered", delivered)
	return Result{Matched: true, Path: path, Delivered: delivered}
}

func (r *Router) reportUnsupported() bool {
	return r.configManager != nil && r.configManager.Get().Opening.ReportUnsupported
}

func (r *Router) observe(outcome string) {
	if r.observer != nil {
		r.observer.ObserveIntent(outcome)
	}
}
