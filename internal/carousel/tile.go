package carousel

import (
	"image"
	"math"

	"github.com/westwooddairy/storefront-backend/pkg/colors"
)

// Screen is the host surface size in pixels.
type Screen struct {
	Width  float64
	Height float64
}

// Viewport is the world-space extent visible to the fixed camera.
type Viewport struct {
	Width  float64
	Height float64
}

const (
	mobileBreakpoint = 640

	// Camera constants the viewport derives from: a 45 degree vertical fov
	// at distance 20.
	cameraFOVDegrees = 45
	cameraDistance   = 20

	tileReferenceHeight = 1500
	tileHeightFactor    = 900
	tileWidthFactor     = 700
	tilePadding         = 2

	focusScale = 1.5
)

// viewportFor computes the world-space viewport for a screen size.
func viewportFor(screen Screen) Viewport {
	fov := cameraFOVDegrees * math.Pi / 180
	height := 2 * math.Tan(fov/2) * cameraDistance
	width := height * (screen.Width / screen.Height)
	return Viewport{Width: width, Height: height}
}

// Tile is the per-frame runtime state of one strip entry. Tiles are owned by
// the Controller and recomputed every frame; they are never persisted.
type Tile struct {
	Index   int
	Image   string
	Caption string
	Accent  colors.RGB

	Texture       image.Image
	CaptionBitmap *image.RGBA

	// Layout recomputed on resize.
	baseScaleX float64
	baseScaleY float64
	width      float64
	widthTotal float64
	x          float64

	// Pose recomputed every frame.
	PosX           float64
	PosY           float64
	RotationZ      float64
	ScaleX         float64
	ScaleY         float64
	Speed          float64
	CaptionVisible bool

	extra    float64
	isBefore bool
	isAfter  bool
}

// BaseX is the tile's strip position relative to the current scroll before
// the focus push is applied.
func (t *Tile) BaseX(current float64) float64 {
	return t.x - current - t.extra
}

// Width is the tile's slot width including padding.
func (t *Tile) Width() float64 { return t.width }

// Resize recomputes the tile's layout for a new screen and viewport without
// touching its scroll-relative state.
func (t *Tile) Resize(screen Screen, viewport Viewport, length int) {
	scale := screen.Height / tileReferenceHeight
	sizeScale := 0.84
	if screen.Width < mobileBreakpoint {
		sizeScale = 0.72
	}
	t.baseScaleY = (viewport.Height * (tileHeightFactor * scale) * sizeScale) / screen.Height
	t.baseScaleX = (viewport.Width * (tileWidthFactor * scale) * sizeScale) / screen.Width
	t.ScaleX = t.baseScaleX
	t.ScaleY = t.baseScaleY
	t.width = t.baseScaleX + tilePadding
	t.widthTotal = t.width * float64(length)
	t.x = t.width * float64(t.Index)
}

// Update advances the tile one frame. The centered tile scales up and shows
// its caption; the rest are pushed outward by pushAmount to keep clear of
// the enlarged center. Tiles fully past an edge in the travel direction wrap
// around by one strip length.
func (t *Tile) Update(current, last float64, direction Direction, isCenter bool, pushAmount float64, viewport Viewport, bend float64) {
	baseX := t.BaseX(current)

	scaleFactor := 1.0
	if isCenter {
		scaleFactor = focusScale
	}
	t.ScaleX = t.baseScaleX * scaleFactor
	t.ScaleY = t.baseScaleY * scaleFactor

	push := 0.0
	if !isCenter {
		push = signOf(baseX) * pushAmount
	}
	t.PosX = baseX + push

	x := t.PosX
	half := viewport.Width / 2
	if bend == 0 {
		t.PosY = 0
		t.RotationZ = 0
	} else {
		b := math.Abs(bend)
		r := (half*half + b*b) / (2 * b)
		effectiveX := math.Min(math.Abs(x), half)
		arc := r - math.Sqrt(r*r-effectiveX*effectiveX)
		if bend > 0 {
			t.PosY = -arc
			t.RotationZ = -signOf(x) * math.Asin(effectiveX/r)
		} else {
			t.PosY = arc
			t.RotationZ = signOf(x) * math.Asin(effectiveX/r)
		}
	}

	t.Speed = current - last
	t.CaptionVisible = isCenter

	planeOffset := t.baseScaleX / 2
	viewportOffset := viewport.Width / 2
	t.isBefore = baseX+planeOffset < -viewportOffset
	t.isAfter = baseX-planeOffset > viewportOffset
	if direction == DirectionRight && t.isBefore {
		t.extra -= t.widthTotal
		t.isBefore, t.isAfter = false, false
	}
	if direction == DirectionLeft && t.isAfter {
		t.extra += t.widthTotal
		t.isBefore, t.isAfter = false, false
	}
}

func signOf(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}
