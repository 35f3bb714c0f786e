package viewer

import "sync"

// Midpoint is the point halfway between the two touch contacts, in surface
// coordinates.
type Midpoint struct {
	X, Y float64
}

// PinchTracker converts two-finger pinch distances into zoom changes. The
// reference distance is rebased on every move, so each event contributes an
// incremental factor and a fast pinch accelerates the zoom naturally. The
// midpoint of the two contacts is tracked alongside as the zoom anchor.
type PinchTracker struct {
	mu           sync.Mutex
	doc          *Document
	active       bool
	lastDistance float64
	lastMidpoint Midpoint
}

// NewPinchTracker creates a tracker bound to a document.
func NewPinchTracker(doc *Document) *PinchTracker {
	return &PinchTracker{doc: doc}
}

// Begin starts a gesture with the initial distance between the two touch
// points and their midpoint. Non-positive distances are ignored.
func (p *PinchTracker) Begin(distance float64, mid Midpoint) {
	if distance <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = true
	p.lastDistance = distance
	p.lastMidpoint = mid
}

// Move applies the zoom change since the previous event and rebases the
// reference distance and midpoint. Events outside an active gesture are
// ignored.
func (p *PinchTracker) Move(distance float64, mid Midpoint) {
	if distance <= 0 {
		return
	}

	p.mu.Lock()
	if !p.active || p.lastDistance <= 0 {
		p.mu.Unlock()
		return
	}
	factor := distance / p.lastDistance
	p.lastDistance = distance
	p.lastMidpoint = mid
	p.mu.Unlock()

	p.doc.SetScale(p.doc.Scale() * factor)
}

// End finishes the gesture.
func (p *PinchTracker) End() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = false
	p.lastDistance = 0
	p.lastMidpoint = Midpoint{}
}

// Active reports whether a gesture is in progress.
func (p *PinchTracker) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// LastMidpoint returns the midpoint of the most recent gesture event.
func (p *PinchTracker) LastMidpoint() Midpoint {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastMidpoint
}
