package render

// Box is a rectangle in inches on the reference canvas.
type Box struct {
	X, Y, W, H float64
}

// RGB is an 8-bit color channel triple.
type RGB struct {
	R, G, B uint8
}

// Layout is the single description of the slide consumed by both the
// vector composer and the raster preview renderer, so every position,
// size and color exists in exactly one place.
type Layout struct {
	// Reference canvas in inches, 16:9.
	CanvasW, CanvasH float64

	// TitleBox holds the left-aligned "presentation to" text.
	TitleBox Box
	// MadeByBox holds the right-aligned "made by" text.
	MadeByBox Box

	TitleFontPt  float64
	MadeByFontPt float64

	TextColor    RGB
	FallbackFill RGB

	// Raster projection.
	DPI                  float64
	LineHeightPx         float64
	MadeByRightMarginPx  float64
	MadeByBottomMarginPx float64
}

// Slide is the fixed single-slide layout.
var Slide = Layout{
	CanvasW: 13.333,
	CanvasH: 7.5,

	TitleBox:  Box{X: 8.5, Y: 4.0, W: 4.5, H: 1.5},
	MadeByBox: Box{X: 10.0, Y: 6.2, W: 2.5, H: 0.8},

	TitleFontPt:  18.5,
	MadeByFontPt: 16,

	TextColor:    RGB{R: 68, G: 68, B: 68},
	FallbackFill: RGB{R: 245, G: 245, B: 245},

	DPI:                  96,
	LineHeightPx:         30,
	MadeByRightMarginPx:  20,
	MadeByBottomMarginPx: 50,
}

// PxW is the raster canvas width in pixels (1280 at 96 DPI).
func (l Layout) PxW() int { return int(l.CanvasW*l.DPI + 0.5) }

// PxH is the raster canvas height in pixels (720 at 96 DPI).
func (l Layout) PxH() int { return int(l.CanvasH*l.DPI + 0.5) }

// Px projects a length in inches onto the raster canvas.
func (l Layout) Px(in float64) float64 { return in * l.DPI }

// PxFont converts a point size to a pixel size at the layout's DPI.
func (l Layout) PxFont(pt float64) float64 { return pt * l.DPI / 72 }
