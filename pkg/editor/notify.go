package editor

// Gate is a suppressible notification channel for "selection changed"
// events. Listeners receive no payload; they are expected to ask the editor
// for the last-change delta (or the full selection) when woken.
//
// Suppression is reference counted so nested Disable/Enable pairs are safe.
// While suppressed, any number of notifications collapse into a single
// pending one, flushed exactly once when the count returns to zero. This is
// what keeps bulk undo/redo replay from waking a display cache once per
// voxel change.
type Gate struct {
	depth     int
	pending   bool
	listeners []func()
}

// NewGate returns a gate with no listeners and notification enabled.
func NewGate() *Gate {
	return &Gate{}
}

// Subscribe registers a listener invoked on every non-suppressed
// notification.
func (g *Gate) Subscribe(fn func()) {
	g.listeners = append(g.listeners, fn)
}

// Notify emits a notification, or marks one pending while suppressed.
func (g *Gate) Notify() {
	if g.depth > 0 {
		g.pending = true
		return
	}
	g.fire()
}

// Disable increments the suppression count.
func (g *Gate) Disable() {
	g.depth++
}

// Enable decrements the suppression count. When the count reaches zero and
// a notification arrived while suppressed, exactly one is flushed. Calling
// Enable with a zero count is ignored.
func (g *Gate) Enable() {
	if g.depth == 0 {
		return
	}
	g.depth--
	if g.depth == 0 && g.pending {
		g.pending = false
		g.fire()
	}
}

// Suspend disables notification and returns a release function that
// re-enables it. The release function is idempotent, which makes the
// acquire/release pairing safe under deferred or repeated calls.
func (g *Gate) Suspend() (release func()) {
	g.Disable()
	released := false
	return func() {
		if released {
			return
		}
		released = true
		g.Enable()
	}
}

func (g *Gate) fire() {
	for _, fn := range g.listeners {
		fn()
	}
}
