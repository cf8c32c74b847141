package playback

import (
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/jscyril/playdeck/internal/pointer"
)

// Bounds is the horizontal extent of a bar in pointer coordinates.
type Bounds struct {
	Left  float64
	Width float64
}

// Fraction maps x to a position in [0,1] along the bar.
func (b Bounds) Fraction(x float64) float64 {
	if b.Width <= 0 {
		return 0
	}
	return clampFraction((x - b.Left) / b.Width)
}

// DragKind names the control a drag session is attached to.
type DragKind int

const (
	DragKindSeek DragKind = iota
	DragKindVolume
)

func (k DragKind) String() string {
	if k == DragKindVolume {
		return "volume"
	}
	return "seek"
}

// DragSession tracks one press-move-release gesture. Its pointer
// subscription is released exactly once, on release or End.
type DragSession struct {
	kind   DragKind
	bounds Bounds
	sub    *pointer.Subscription
	once   sync.Once
	onEnd  func()
}

// Kind returns the control the session drives.
func (s *DragSession) Kind() DragKind {
	return s.kind
}

// End releases the session's pointer subscription. Safe to call repeatedly.
func (s *DragSession) End() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.sub.Cancel()
		if s.onEnd != nil {
			s.onEnd()
		}
		zlog.Debug().Stringer("kind", s.kind).Msg("playback: drag ended")
	})
}

// DragSeek starts a seek gesture at pointer x on a progress bar with the
// given bounds. The press itself seeks; moves keep seeking until release.
func (c *Controller) DragSeek(bounds Bounds, x float64) *DragSession {
	c.seekDrag.End()
	s := c.beginDrag(DragKindSeek, bounds, c.Seek)
	c.seekDrag = s
	s.onEnd = func() {
		if c.seekDrag == s {
			c.seekDrag = nil
		}
	}
	c.Seek(bounds.Fraction(x))
	return s
}

// DragVolume starts a volume gesture at pointer x on a volume bar.
func (c *Controller) DragVolume(bounds Bounds, x float64) *DragSession {
	c.volumeDrag.End()
	s := c.beginDrag(DragKindVolume, bounds, c.SetVolume)
	c.volumeDrag = s
	s.onEnd = func() {
		if c.volumeDrag == s {
			c.volumeDrag = nil
		}
	}
	c.SetVolume(bounds.Fraction(x))
	return s
}

// Dragging reports whether a session of kind is live.
func (c *Controller) Dragging(kind DragKind) bool {
	if kind == DragKindVolume {
		return c.volumeDrag != nil
	}
	return c.seekDrag != nil
}

func (c *Controller) beginDrag(kind DragKind, bounds Bounds, apply func(float64)) *DragSession {
	s := &DragSession{kind: kind, bounds: bounds}
	s.sub = c.hub.Subscribe(
		func(x float64) { apply(s.bounds.Fraction(x)) },
		s.End,
	)
	zlog.Debug().Stringer("kind", kind).Msg("playback: drag started")
	return s
}
