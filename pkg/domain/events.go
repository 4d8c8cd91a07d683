package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventExpand      EventType = "expand"
	EventEmpty       EventType = "empty"
	EventSizeDecided EventType = "size_decided"
	EventExpandError EventType = "expand_error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// ExpansionEvent describes one expansion of a container node.
type ExpansionEvent struct {
	EventBase
	Path     string `json:"path"`
	NodeType string `json:"node_type"`
	// FromSource counts children replayed from the source value.
	FromSource int `json:"from_source"`
	// Synthesized counts placeholder children.
	Synthesized int `json:"synthesized"`
	// Size is the decided or committed element count, when known.
	Size  int   `json:"size"`
	Error error `json:"-"`
}

// LifecycleHooks defines callbacks for expansion observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnExpand      func(*ExpansionEvent)
	OnEmpty       func(*ExpansionEvent)
	OnSizeDecided func(*ExpansionEvent)
	OnError       func(*ExpansionEvent)
}

// Emit dispatches e to the callback matching its type.
func (h LifecycleHooks) Emit(e *ExpansionEvent) {
	var fn func(*ExpansionEvent)
	switch e.Type {
	case EventExpand:
		fn = h.OnExpand
	case EventEmpty:
		fn = h.OnEmpty
	case EventSizeDecided:
		fn = h.OnSizeDecided
	case EventExpandError:
		fn = h.OnError
	}
	if fn != nil {
		fn(e)
	}
}

// ChainHooks fans each event out to every hook set, in order.
func ChainHooks(hooks ...LifecycleHooks) LifecycleHooks {
	emit := func(e *ExpansionEvent) {
		for _, h := range hooks {
			h.Emit(e)
		}
	}
	return LifecycleHooks{
		OnExpand:      emit,
		OnEmpty:       emit,
		OnSizeDecided: emit,
		OnError:       emit,
	}
}
