package dom

// Event types dispatched by the controller and widgets.
const (
	EventInput  = "input"
	EventChange = "change"
	EventBlur   = "blur"
	EventClick  = "click"
	EventSubmit = "submit"
)

// Event is delivered to listeners. Target is the element the event was
// dispatched on; CurrentTarget is the element whose listener is running.
type Event struct {
	Type          string
	Target        *Element
	CurrentTarget *Element

	stopped   bool
	prevented bool
}

// StopPropagation prevents the event from reaching further ancestors.
func (ev *Event) StopPropagation() {
	ev.stopped = true
}

// PreventDefault marks the default action as cancelled.
func (ev *Event) PreventDefault() {
	ev.prevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (ev *Event) DefaultPrevented() bool {
	return ev.prevented
}

// Listener handles an event.
type Listener func(*Event)

// Bubbles reports whether events of kind propagate to ancestors.
func Bubbles(kind string) bool {
	switch kind {
	case EventBlur, "focus":
		return false
	default:
		return true
	}
}

// AddEventListener registers fn for kind. Listeners run in registration order.
func (e *Element) AddEventListener(kind string, fn Listener) {
	if fn == nil {
		return
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]Listener)
	}
	e.listeners[kind] = append(e.listeners[kind], fn)
}

// ListenerCount reports how many listeners are registered for kind.
func (e *Element) ListenerCount(kind string) int {
	return len(e.listeners[kind])
}

// Dispatch delivers an event of kind to e and, for bubbling kinds, to its
// ancestors. It returns the event so callers can inspect DefaultPrevented.
func (e *Element) Dispatch(kind string) *Event {
	ev := &Event{Type: kind, Target: e}
	for cursor := e; cursor != nil; cursor = cursor.parent {
		ev.CurrentTarget = cursor
		for _, fn := range cursor.listenersFor(kind) {
			fn(ev)
		}
		if ev.stopped || !Bubbles(kind) {
			break
		}
	}
	return ev
}

func (e *Element) listenersFor(kind string) []Listener {
	// copy so listeners registered during dispatch run from the next dispatch
	return append([]Listener(nil), e.listeners[kind]...)
}

// Click dispatches a click on e.
func (e *Element) Click() *Event {
	return e.Dispatch(EventClick)
}

// Input sets the value of a control and dispatches input then change, the
// sequence a user edit produces.
func (e *Element) Input(value string) {
	e.SetValue(value)
	e.Dispatch(EventInput)
	e.Dispatch(EventChange)
}
