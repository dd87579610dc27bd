package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"strings"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"slidegen/internal/domain"
)

// PreviewRenderer reproduces the slide layout as a flat raster image.
// It shares the composer's Layout, so positions, sizes and colors match
// the document by construction; only text shaping differs (manual
// greedy wrapping against measured glyph widths).
type PreviewRenderer struct {
	layout         Layout
	backgroundPath string
	fontPath       string
	embedded       *opentype.Font
}

// NewPreviewRenderer creates a renderer. fontPath may name a TTF file;
// empty means the embedded Go Regular face.
func NewPreviewRenderer(layout Layout, backgroundPath, fontPath string) (*PreviewRenderer, error) {
	embedded, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	return &PreviewRenderer{
		layout:         layout,
		backgroundPath: backgroundPath,
		fontPath:       fontPath,
		embedded:       embedded,
	}, nil
}

// Render produces the PNG preview. Callers treat any error as a signal
// to substitute Fallback; a render failure never fails the request.
func (r *PreviewRenderer) Render(cust domain.Customization) ([]byte, error) {
	w, h := r.layout.PxW(), r.layout.PxH()
	dc := gg.NewContext(w, h)
	r.drawBackground(dc, w, h)

	titleFace, err := r.face(r.layout.PxFont(r.layout.TitleFontPt))
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(titleFace)
	dc.SetRGB255(int(r.layout.TextColor.R), int(r.layout.TextColor.G), int(r.layout.TextColor.B))

	lines := wrapText(dc, TitleText(cust), r.layout.Px(r.layout.TitleBox.W))
	x := r.layout.Px(r.layout.TitleBox.X)
	top := r.layout.Px(r.layout.TitleBox.Y)
	for i, line := range lines {
		// DrawString wants the baseline, not the top edge.
		baseline := top + float64(i)*r.layout.LineHeightPx + r.layout.PxFont(r.layout.TitleFontPt)
		dc.DrawString(line, x, baseline)
	}

	madeByFace, err := r.face(r.layout.PxFont(r.layout.MadeByFontPt))
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(madeByFace)
	madeBy := MadeByText(cust)
	tw, _ := dc.MeasureString(madeBy)
	dc.DrawString(madeBy,
		float64(w)-tw-r.layout.MadeByRightMarginPx,
		float64(h)-r.layout.MadeByBottomMarginPx)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode preview png: %w", err)
	}
	return buf.Bytes(), nil
}

// Fallback is the plain flat-color image substituted when Render fails.
func (r *PreviewRenderer) Fallback() []byte {
	dc := gg.NewContext(r.layout.PxW(), r.layout.PxH())
	r.fill(dc)
	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		// Encoding an in-memory RGBA image to a buffer cannot fail in
		// practice; return an empty payload rather than panicking.
		return nil
	}
	return buf.Bytes()
}

func (r *PreviewRenderer) fill(dc *gg.Context) {
	dc.SetRGB255(int(r.layout.FallbackFill.R), int(r.layout.FallbackFill.G), int(r.layout.FallbackFill.B))
	dc.Clear()
}

// drawBackground paints the background asset scaled to the canvas, or
// the flat fallback fill when the asset is absent or undecodable.
func (r *PreviewRenderer) drawBackground(dc *gg.Context, w, h int) {
	f, err := os.Open(r.backgroundPath)
	if err != nil {
		r.fill(dc)
		return
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		r.fill(dc)
		return
	}
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	dc.DrawImage(scaled, 0, 0)
}

// face returns a font face at the given pixel size.
func (r *PreviewRenderer) face(sizePx float64) (font.Face, error) {
	if r.fontPath != "" {
		return gg.LoadFontFace(r.fontPath, sizePx)
	}
	return opentype.NewFace(r.embedded, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// wrapText splits text into lines that fit maxWidth using greedy
// word-by-word measurement. A single word wider than the box is emitted
// on its own line rather than broken mid-word.
func wrapText(dc *gg.Context, text string, maxWidth float64) []string {
	var lines []string
	current := ""
	for _, word := range strings.Split(text, " ") {
		test := word
		if current != "" {
			test = current + " " + word
		}
		if tw, _ := dc.MeasureString(test); tw <= maxWidth {
			current = test
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = word
		} else {
			lines = append(lines, word)
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
