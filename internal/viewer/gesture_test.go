package viewer

import (
	"math"
	"testing"
)

func newPinchDoc() *Document {
	surface := NewImageSurface(800, 600)
	return NewDocument(nil, surface, nil)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPinchZoomDoublesScale(t *testing.T) {
	doc := newPinchDoc()
	tracker := NewPinchTracker(doc)

	tracker.Begin(100, Midpoint{X: 400, Y: 300})
	tracker.Move(200, Midpoint{X: 400, Y: 300})
	tracker.End()

	if !almostEqual(doc.Scale(), 2.0) {
		t.Errorf("expected scale 2.0, got %v", doc.Scale())
	}
}

func TestPinchRebasesEveryMove(t *testing.T) {
	doc := newPinchDoc()
	tracker := NewPinchTracker(doc)

	mid := Midpoint{X: 400, Y: 300}
	tracker.Begin(100, mid)
	tracker.Move(150, mid)
	if !almostEqual(doc.Scale(), 1.5) {
		t.Fatalf("expected 1.5 after first move, got %v", doc.Scale())
	}

	// Same distance again contributes a factor of 1, not 1.5.
	tracker.Move(150, mid)
	if !almostEqual(doc.Scale(), 1.5) {
		t.Errorf("repeated distance changed scale to %v", doc.Scale())
	}

	tracker.Move(300, mid)
	if !almostEqual(doc.Scale(), 3.0) {
		t.Errorf("expected 3.0, got %v", doc.Scale())
	}
}

func TestPinchTracksMidpoint(t *testing.T) {
	doc := newPinchDoc()
	tracker := NewPinchTracker(doc)

	tracker.Begin(100, Midpoint{X: 100, Y: 200})
	if mid := tracker.LastMidpoint(); !almostEqual(mid.X, 100) || !almostEqual(mid.Y, 200) {
		t.Errorf("begin midpoint not recorded, got %+v", mid)
	}

	tracker.Move(150, Midpoint{X: 120, Y: 210})
	if mid := tracker.LastMidpoint(); !almostEqual(mid.X, 120) || !almostEqual(mid.Y, 210) {
		t.Errorf("move midpoint not rebased, got %+v", mid)
	}
}

func TestPinchClampsAtLimits(t *testing.T) {
	doc := newPinchDoc()
	tracker := NewPinchTracker(doc)

	mid := Midpoint{X: 400, Y: 300}
	tracker.Begin(100, mid)
	tracker.Move(1000, mid)
	if doc.Scale() != MaxScale {
		t.Errorf("expected clamp to %v, got %v", MaxScale, doc.Scale())
	}

	tracker.Move(10, mid)
	if doc.Scale() != MinScale {
		t.Errorf("expected clamp to %v, got %v", MinScale, doc.Scale())
	}
	tracker.End()
}

func TestPinchIgnoresMoveWithoutBegin(t *testing.T) {
	doc := newPinchDoc()
	tracker := NewPinchTracker(doc)

	tracker.Move(200, Midpoint{})
	if doc.Scale() != DefaultScale {
		t.Errorf("move without begin changed scale to %v", doc.Scale())
	}

	tracker.Begin(0, Midpoint{})
	tracker.Move(200, Midpoint{})
	if doc.Scale() != DefaultScale {
		t.Errorf("zero-distance begin activated the gesture, scale %v", doc.Scale())
	}
}

func TestPinchEndsCleanly(t *testing.T) {
	doc := newPinchDoc()
	tracker := NewPinchTracker(doc)

	tracker.Begin(100, Midpoint{X: 1, Y: 2})
	tracker.End()
	if tracker.Active() {
		t.Error("tracker still active after End")
	}

	tracker.Move(500, Midpoint{})
	if doc.Scale() != DefaultScale {
		t.Errorf("move after end changed scale to %v", doc.Scale())
	}
}
