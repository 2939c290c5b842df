// Package carousel is the headless engine behind the storefront's circular
// product gallery. It owns the scroll physics, tile layout, wraparound,
// snap-to-tile correction, and the ambient background blend, and pushes its
// visual side effects through injected surfaces so hosts decide how frames
// are scheduled and where gradients land.
package carousel

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/westwooddairy/storefront-backend/pkg/colors"
)

// Direction is the scroll travel direction for the current frame.
type Direction int

const (
	DirectionLeft Direction = iota
	DirectionRight
)

const (
	defaultBend        = 1.0
	defaultScrollSpeed = 2.0
	defaultScrollEase  = 0.05

	wheelStep    = 0.2
	dragFactor   = 0.025
	snapDebounce = 200 * time.Millisecond

	exitLock           = 450 * time.Millisecond
	exitSwipeThreshold = 28.0
	verticalIntentMin  = 10.0

	idleFrameLimit = 60
	idleEpsilon    = 1e-3

	backgroundSnapFraction = 0.1
	backgroundBlendGamma   = 1.6
)

// Options configures a Controller. Scheduler is required; everything else
// has a usable default.
type Options struct {
	Items       []Item
	Bend        float64
	ScrollSpeed float64
	ScrollEase  float64
	Screen      Screen

	Scheduler  FrameScheduler
	Clock      Clock
	Background BackgroundTarget
	Overlay    OverlayTarget
	Loader     ImageLoader
}

// TileState is a read-only copy of a tile's pose for hosts and tests.
type TileState struct {
	Index          int
	Caption        string
	PosX           float64
	PosY           float64
	RotationZ      float64
	ScaleX         float64
	ScaleY         float64
	CaptionVisible bool
}

// State is a consistent snapshot of the engine.
type State struct {
	Current     float64
	Target      float64
	TileWidth   float64
	CenterIndex int
	Background  string
	Running     bool
	Tiles       []TileState
}

type scrollState struct {
	ease     float64
	current  float64
	target   float64
	last     float64
	position float64
}

// Controller runs the gallery. All methods are safe for concurrent use; the
// frame step itself runs on whatever goroutine the scheduler provides.
type Controller struct {
	mu sync.Mutex

	scheduler  FrameScheduler
	clock      Clock
	background BackgroundTarget
	overlay    OverlayTarget

	scroll      scrollState
	scrollSpeed float64
	bend        float64

	screen   Screen
	viewport Viewport

	tiles   []*Tile
	palette []colors.RGB

	isDown      bool
	isTouching  bool
	allowScroll bool
	startX      float64
	touchStartX float64
	touchStartY float64
	touchBegan  time.Time

	lastBackground  string
	lastCenterIndex int
	overlayRotation int

	running     bool
	idleFrames  int
	cancelFrame func()
	snapTimer   Timer
	destroyed   bool
}

// New builds the controller, lays out the doubled tile strip, and starts the
// frame loop. Items are duplicated once internally so the strip wraps
// seamlessly; an empty item list falls back to the built-in placeholders.
func New(opts Options) (*Controller, error) {
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("frame scheduler required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	items := opts.Items
	if len(items) == 0 {
		items = defaultItems()
	}
	bend := opts.Bend
	if bend == 0 {
		bend = defaultBend
	}
	speed := opts.ScrollSpeed
	if speed == 0 {
		speed = defaultScrollSpeed
	}
	ease := opts.ScrollEase
	if ease == 0 {
		ease = defaultScrollEase
	}
	screen := opts.Screen
	if screen.Width <= 0 || screen.Height <= 0 {
		screen = Screen{Width: 1280, Height: 800}
	}

	c := &Controller{
		scheduler:       opts.Scheduler,
		clock:           clock,
		background:      opts.Background,
		overlay:         opts.Overlay,
		scroll:          scrollState{ease: ease},
		scrollSpeed:     speed,
		bend:            bend,
		screen:          screen,
		viewport:        viewportFor(screen),
		palette:         buildPalette(items),
		lastCenterIndex: -1,
	}
	c.buildTiles(items, opts.Loader)

	c.mu.Lock()
	c.startLoopLocked()
	c.mu.Unlock()
	return c, nil
}

// buildTiles doubles the item strip and lays every tile out for the current
// screen. Texture loads are best effort.
func (c *Controller) buildTiles(items []Item, loader ImageLoader) {
	doubled := append(append([]Item{}, items...), items...)
	c.tiles = make([]*Tile, 0, len(doubled))
	for i, item := range doubled {
		accent := c.palette[i%len(c.palette)]
		tile := &Tile{
			Index:   i,
			Image:   item.Image,
			Caption: item.Caption,
			Accent:  accent,
		}
		if loader != nil && item.Image != "" {
			if img, err := loader(item.Image); err == nil {
				tile.Texture = img
			}
		}
		if item.Caption != "" {
			label := RenderLabel(item.Caption, color.White, color.RGBA{
				R: uint8(accent.R), G: uint8(accent.G), B: uint8(accent.B), A: 255,
			})
			tile.CaptionBitmap = label.Image
		}
		tile.Resize(c.screen, c.viewport, len(doubled))
		c.tiles = append(c.tiles, tile)
	}
}

// Wheel feeds a wheel delta into the scroll target and arms the debounced
// snap correction.
func (c *Controller) Wheel(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	step := c.scrollSpeed * wheelStep
	if delta > 0 {
		c.scroll.target += step
	} else {
		c.scroll.target -= step
	}
	if c.snapTimer != nil {
		c.snapTimer.Stop()
	}
	c.snapTimer = c.clock.AfterFunc(snapDebounce, c.snapNow)
	c.startLoopLocked()
}

func (c *Controller) snapNow() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.snapLocked()
	c.startLoopLocked()
}

// PointerDown begins a mouse drag at screen x.
func (c *Controller) PointerDown(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.isDown = true
	c.scroll.position = c.scroll.current
	c.startX = x
	c.startLoopLocked()
}

// PointerMove updates the drag. The target is rewritten relative to the
// scroll position captured at gesture start, not accumulated.
func (c *Controller) PointerMove(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed || !c.isDown {
		return
	}
	c.applyDragLocked(x)
}

// PointerUp ends the drag and snaps to the nearest tile.
func (c *Controller) PointerUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.isDown = false
	c.snapLocked()
	c.startLoopLocked()
}

// TouchStart begins a touch gesture at screen (x, y).
func (c *Controller) TouchStart(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.isDown = true
	c.isTouching = true
	c.allowScroll = false
	c.scroll.position = c.scroll.current
	c.touchStartX = x
	c.touchStartY = y
	c.touchBegan = c.clock.Now()
	c.startX = x
	c.startLoopLocked()
}

// TouchMove advances a touch gesture and reports whether the host should
// consume the event (cancel native page scroll). A downward swipe past the
// exit threshold after the lock interval releases the gesture back to the
// page; vertical movement before that is consumed without scrolling the
// strip.
func (c *Controller) TouchMove(x, y float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed || !c.isDown {
		return false
	}
	if c.isTouching {
		dx := x - c.touchStartX
		dy := y - c.touchStartY
		absDx := math.Abs(dx)
		absDy := math.Abs(dy)
		sinceStart := c.clock.Now().Sub(c.touchBegan)
		isVertical := absDy > absDx && absDy > verticalIntentMin
		wantsExit := dy > 0 && absDy > exitSwipeThreshold
		if c.allowScroll {
			return false
		}
		if isVertical && wantsExit && sinceStart > exitLock {
			c.allowScroll = true
			c.isDown = false
			c.isTouching = false
			return false
		}
		if isVertical {
			return true
		}
	}
	c.applyDragLocked(x)
	return true
}

// TouchEnd finishes the gesture and snaps to the nearest tile.
func (c *Controller) TouchEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.isDown = false
	c.isTouching = false
	c.allowScroll = false
	c.snapLocked()
	c.startLoopLocked()
}

func (c *Controller) applyDragLocked(x float64) {
	distance := (c.startX - x) * (c.scrollSpeed * dragFactor)
	c.scroll.target = c.scroll.position + distance
	c.startLoopLocked()
}

// snapLocked rounds the target to the nearest whole tile width, preserving
// the scroll sign.
func (c *Controller) snapLocked() {
	if len(c.tiles) == 0 {
		return
	}
	width := c.tiles[0].width
	if width <= 0 {
		return
	}
	index := math.Round(math.Abs(c.scroll.target) / width)
	snapped := width * index
	if c.scroll.target < 0 {
		c.scroll.target = -snapped
	} else {
		c.scroll.target = snapped
	}
}

// Resize recomputes the viewport and every tile's layout for a new screen
// size. Scroll position is preserved.
func (c *Controller) Resize(screen Screen) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed || screen.Width <= 0 || screen.Height <= 0 {
		return
	}
	c.screen = screen
	c.viewport = viewportFor(screen)
	for _, tile := range c.tiles {
		tile.Resize(c.screen, c.viewport, len(c.tiles))
	}
	c.startLoopLocked()
}

func (c *Controller) startLoopLocked() {
	if c.running || c.destroyed {
		return
	}
	c.running = true
	c.cancelFrame = c.scheduler.Schedule(c.step)
}

// step is one animation frame.
func (c *Controller) step() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running || c.destroyed {
		return
	}
	c.scroll.current = lerp(c.scroll.current, c.scroll.target, c.scroll.ease)
	direction := DirectionLeft
	if c.scroll.current > c.scroll.last {
		direction = DirectionRight
	}

	if len(c.tiles) > 0 {
		centerIndex, secondIndex, minDistance, secondDistance := c.nearestTilesLocked()

		centerScale := 1.4
		if c.screen.Width < mobileBreakpoint {
			centerScale = 1.25
		}
		baseScaleX := c.tiles[centerIndex].baseScaleX
		pushAmount := (centerScale - 1) * baseScaleX * 0.6

		for i, tile := range c.tiles {
			tile.Update(c.scroll.current, c.scroll.last, direction, i == centerIndex, pushAmount, c.viewport, c.bend)
		}

		if centerIndex != c.lastCenterIndex {
			c.overlayRotation = (c.overlayRotation + 90) % 360
			if c.overlay != nil {
				c.overlay.SetTransform(fmt.Sprintf("rotate(%ddeg) scale(1.3)", c.overlayRotation))
			}
			c.lastCenterIndex = centerIndex
		}
		c.updateBackgroundLocked(centerIndex, secondIndex, minDistance, secondDistance)
	}

	delta := math.Abs(c.scroll.target - c.scroll.current)
	speed := math.Abs(c.scroll.current - c.scroll.last)
	active := c.isDown || delta > idleEpsilon || speed > idleEpsilon
	if active {
		c.idleFrames = 0
	} else {
		c.idleFrames++
	}
	if c.idleFrames > idleFrameLimit {
		c.running = false
		c.cancelFrame = nil
		c.scroll.last = c.scroll.current
		return
	}
	c.scroll.last = c.scroll.current
	c.cancelFrame = c.scheduler.Schedule(c.step)
}

// nearestTilesLocked finds the two tiles closest to center by absolute base
// position.
func (c *Controller) nearestTilesLocked() (centerIndex, secondIndex int, minDistance, secondDistance float64) {
	minDistance = math.Inf(1)
	secondDistance = math.Inf(1)
	for i, tile := range c.tiles {
		dist := math.Abs(tile.BaseX(c.scroll.current))
		if dist < minDistance {
			secondDistance = minDistance
			secondIndex = centerIndex
			minDistance = dist
			centerIndex = i
		} else if dist < secondDistance {
			secondDistance = dist
			secondIndex = i
		}
	}
	return centerIndex, secondIndex, minDistance, secondDistance
}

// updateBackgroundLocked blends the two centermost accents and writes the
// gradient only when it changed. Inside a tenth of a tile width the blend
// snaps fully to the centered accent so settled frames are stable.
func (c *Controller) updateBackgroundLocked(centerIndex, secondIndex int, minDistance, secondDistance float64) {
	if len(c.palette) == 0 {
		return
	}
	width := 1.0
	if len(c.tiles) > 0 && c.tiles[0].width > 0 {
		width = c.tiles[0].width
	}
	total := minDistance + secondDistance
	t := 0.0
	if total > 0 {
		t = minDistance / total
	}
	if minDistance < width*backgroundSnapFraction {
		t = 0
	} else {
		t = math.Pow(t, backgroundBlendGamma)
	}
	center := colors.Mix(
		c.palette[centerIndex%len(c.palette)],
		c.palette[secondIndex%len(c.palette)],
		t,
	)
	edgeMid := colors.Shade(center, 0.75)
	edgeOuter := colors.Shade(center, 0.6)
	gradient := fmt.Sprintf(
		"radial-gradient(circle at center, %s 0%%, %s 70%%, %s 100%%)",
		center.CSS(), edgeMid.CSS(), edgeOuter.CSS(),
	)
	if gradient == c.lastBackground {
		return
	}
	c.lastBackground = gradient
	if c.background != nil {
		c.background.SetBackground(gradient)
	}
}

// Snapshot returns a consistent copy of the engine state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := State{
		Current:     c.scroll.current,
		Target:      c.scroll.target,
		CenterIndex: c.lastCenterIndex,
		Background:  c.lastBackground,
		Running:     c.running,
		Tiles:       make([]TileState, 0, len(c.tiles)),
	}
	if len(c.tiles) > 0 {
		state.TileWidth = c.tiles[0].width
	}
	for _, tile := range c.tiles {
		state.Tiles = append(state.Tiles, TileState{
			Index:          tile.Index,
			Caption:        tile.Caption,
			PosX:           tile.PosX,
			PosY:           tile.PosY,
			RotationZ:      tile.RotationZ,
			ScaleX:         tile.ScaleX,
			ScaleY:         tile.ScaleY,
			CaptionVisible: tile.CaptionVisible,
		})
	}
	return state
}

// Destroy stops the loop, disarms the snap timer, and detaches the surfaces.
// Surfaces implementing io.Closer are closed; their errors are aggregated.
func (c *Controller) Destroy() error {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return nil
	}
	c.destroyed = true
	c.running = false
	if c.cancelFrame != nil {
		c.cancelFrame()
		c.cancelFrame = nil
	}
	if c.snapTimer != nil {
		c.snapTimer.Stop()
		c.snapTimer = nil
	}
	background := c.background
	overlay := c.overlay
	c.background = nil
	c.overlay = nil
	c.mu.Unlock()

	var err error
	if closer, ok := background.(io.Closer); ok {
		err = multierr.Append(err, closer.Close())
	}
	if closer, ok := overlay.(io.Closer); ok {
		err = multierr.Append(err, closer.Close())
	}
	return err
}
