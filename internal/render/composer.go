package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"

	"slidegen/internal/domain"
)

const emuPerInch = 914400

// The PPTX writer's native canvas is 10 x 5.625 inches; all layout
// geometry is projected from the reference canvas onto it so the two
// renderers stay in visual agreement.
const writerCanvasW = 10.0

// Composer builds the single-slide presentation document from a
// Customization and the fixed background asset.
type Composer struct {
	layout         Layout
	backgroundPath string
}

func NewComposer(layout Layout, backgroundPath string) *Composer {
	return &Composer{layout: layout, backgroundPath: backgroundPath}
}

// Compose returns the serialized pptx document. Geometry, type sizes
// and colors come from the shared layout only.
func (c *Composer) Compose(cust domain.Customization) ([]byte, error) {
	p := ppt.New()
	p.GetDocumentProperties().Title = "Presentation Preview"
	p.GetDocumentProperties().Creator = "slidegen"

	slide := p.GetActiveSlide()
	c.addBackground(slide)

	title := slide.CreateRichTextShape()
	title.SetOffsetX(c.emu(c.layout.TitleBox.X)).SetOffsetY(c.emu(c.layout.TitleBox.Y))
	title.SetWidth(c.emu(c.layout.TitleBox.W)).SetHeight(c.emu(c.layout.TitleBox.H))
	titleRun := title.CreateTextRun(TitleText(cust))
	titleRun.GetFont().SetSize(c.pt(c.layout.TitleFontPt)).SetColor(ppt.NewColor(argb(c.layout.TextColor)))
	title.GetActiveParagraph().SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalLeft))

	madeBy := slide.CreateRichTextShape()
	madeBy.SetOffsetX(c.emu(c.layout.MadeByBox.X)).SetOffsetY(c.emu(c.layout.MadeByBox.Y))
	madeBy.SetWidth(c.emu(c.layout.MadeByBox.W)).SetHeight(c.emu(c.layout.MadeByBox.H))
	madeByRun := madeBy.CreateTextRun(MadeByText(cust))
	madeByRun.GetFont().SetSize(c.pt(c.layout.MadeByFontPt)).SetColor(ppt.NewColor(argb(c.layout.TextColor)))
	madeBy.GetActiveParagraph().SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalRight))

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("create pptx writer: %w", err)
	}
	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write pptx: %w", err)
	}
	return buf.Bytes(), nil
}

// addBackground places the full-bleed background picture, or a flat
// fill shape when the asset is absent or unreadable.
func (c *Composer) addBackground(slide *ppt.Slide) {
	if data, err := os.ReadFile(c.backgroundPath); err == nil {
		img := slide.CreateDrawingShape()
		img.SetImageData(data, imageMIME(c.backgroundPath))
		img.SetOffsetX(0).SetOffsetY(0)
		img.SetWidth(c.emu(c.layout.CanvasW)).SetHeight(c.emu(c.layout.CanvasH))
		return
	}

	fill := slide.CreateRichTextShape()
	fill.SetOffsetX(0).SetOffsetY(0)
	fill.SetWidth(c.emu(c.layout.CanvasW)).SetHeight(c.emu(c.layout.CanvasH))
	fill.SetFill(ppt.NewFill().SetSolid(ppt.NewColor(argb(c.layout.FallbackFill))))
}

func (c *Composer) emu(in float64) int64 {
	return int64(in * writerCanvasW / c.layout.CanvasW * emuPerInch)
}

func (c *Composer) pt(pt float64) int {
	return int(pt*writerCanvasW/c.layout.CanvasW + 0.5)
}

func argb(c RGB) string {
	return fmt.Sprintf("FF%02X%02X%02X", c.R, c.G, c.B)
}

func imageMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}
