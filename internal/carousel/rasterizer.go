package carousel

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const labelPadding = 10

// Label is a rasterized caption ready to upload as a texture.
type Label struct {
	Image  *image.RGBA
	Width  int
	Height int
}

// RenderLabel draws text centered on a transparent bitmap with a one-pixel
// outline pass under the fill, mirroring the stroke-then-fill caption
// rendering of the storefront gallery. Outline may be nil to skip the pass.
func RenderLabel(text string, fill color.Color, outline color.Color) Label {
	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	textHeight := metrics.Height.Ceil()

	width := textWidth + 2*labelPadding
	height := textHeight + 2*labelPadding
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Baseline for vertically centered text.
	baseline := (height+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2 - 1
	originX := (width - textWidth) / 2

	if outline != nil {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				drawString(img, face, text, outline, originX+dx, baseline+dy)
			}
		}
	}
	drawString(img, face, text, fill, originX, baseline)

	return Label{Image: img, Width: width, Height: height}
}

func drawString(dst draw.Image, face font.Face, text string, c color.Color, x, y int) {
	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}
