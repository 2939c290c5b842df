package carousel

import (
	"image"
	"time"
)

// FrameScheduler hands the engine its animation frames. Schedule queues frame
// to run exactly once and returns a cancel func that prevents a pending
// frame from firing. Implementations must not invoke frame synchronously
// from inside Schedule.
type FrameScheduler interface {
	Schedule(frame func()) (cancel func())
}

// BackgroundTarget receives the ambient radial-gradient string whenever the
// blend between the two centermost accents changes.
type BackgroundTarget interface {
	SetBackground(gradient string)
}

// OverlayTarget receives a CSS transform each time the centered tile changes.
type OverlayTarget interface {
	SetTransform(transform string)
}

// ImageLoader fetches a tile texture. A failed load leaves the tile without
// a texture and is not an engine error.
type ImageLoader func(url string) (image.Image, error)

// Timer is the handle returned by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

// Clock abstracts wall time so the snap debounce and the touch exit lock can
// be driven deterministically in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
