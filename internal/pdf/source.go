package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"resumelens/internal/errors"

	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Source exposes a parsed PDF to the viewer: page geometry from pdfcpu and
// a text-layer rasterization of each page.
type Source struct {
	pageCount int
	dims      []pageDim
	pageText  []string
	dpi       float64
}

type pageDim struct {
	width  float64 // points
	height float64
}

// Open parses and validates the document and prepares per-page content.
// dpi controls rasterization density; 0 means 96.
func Open(ctx context.Context, filename string, data []byte, maxSize int64, dpi float64) (*Source, error) {
	if err := Validate(filename, data, maxSize); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pdfCtx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeUnreadablePDF,
			"Unable to read PDF content. The PDF may be image-based or corrupted", err)
	}

	if err := pdfCtx.EnsurePageCount(); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeUnreadablePDF,
			"Unable to read PDF content. The PDF may be image-based or corrupted", err)
	}

	rawDims, err := pdfCtx.PageDims()
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeUnreadablePDF,
			"Unable to read PDF content. The PDF may be image-based or corrupted", err)
	}

	dims := make([]pageDim, len(rawDims))
	for i, d := range rawDims {
		dims[i] = pageDim{width: d.Width, height: d.Height}
	}

	if dpi <= 0 {
		dpi = 96
	}

	s := &Source{
		pageCount: pdfCtx.PageCount,
		dims:      dims,
		pageText:  readPageText(data, pdfCtx.PageCount),
		dpi:       dpi,
	}
	return s, nil
}

// readPageText extracts per-page text for rasterization. Extraction
// failures degrade to blank pages rather than failing the open.
func readPageText(data []byte, pageCount int) []string {
	text := make([]string, pageCount)

	reader, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return text
	}

	for i := 1; i <= pageCount && i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		if t, err := page.GetPlainText(nil); err == nil {
			text[i-1] = strings.TrimSpace(t)
		}
	}
	return text
}

// PageCount returns the number of pages.
func (s *Source) PageCount() int {
	return s.pageCount
}

// PageSize returns the page dimensions in pixels at scale 1.0, converting
// the PDF's point geometry at the configured density. RenderPage applies
// the same conversion, so a scale derived from these dimensions produces a
// raster of exactly that size.
func (s *Source) PageSize(pageNum int) (float64, float64, error) {
	if pageNum < 1 || pageNum > s.pageCount {
		return 0, 0, fmt.Errorf("page %d out of range (1-%d)", pageNum, s.pageCount)
	}
	d := s.dims[pageNum-1]
	pxPerPoint := s.dpi / 72.0
	return d.width * pxPerPoint, d.height * pxPerPoint, nil
}

// RenderPage rasterizes the page's text layer onto a white canvas at the
// given scale. Cancellation is honored between text lines.
func (s *Source) RenderPage(ctx context.Context, pageNum int, scale float64) (image.Image, error) {
	if pageNum < 1 || pageNum > s.pageCount {
		return nil, fmt.Errorf("page %d out of range (1-%d)", pageNum, s.pageCount)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("invalid scale %v", scale)
	}

	d := s.dims[pageNum-1]
	pxPerPoint := scale * s.dpi / 72.0
	width := max(int(math.Round(d.width*pxPerPoint)), 1)
	height := max(int(math.Round(d.height*pxPerPoint)), 1)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	const margin = 8
	lineHeight := face.Height + 2
	maxCols := (width - 2*margin) / face.Advance
	if maxCols < 1 {
		maxCols = 1
	}

	y := margin + face.Ascent
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}

	for _, line := range wrapLines(s.pageText[pageNum-1], maxCols) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if y > height-margin {
			break
		}
		drawer.Dot = fixed.P(margin, y)
		drawer.DrawString(line)
		y += lineHeight
	}

	return img, nil
}

// wrapLines splits text into lines no wider than maxCols characters.
func wrapLines(text string, maxCols int) []string {
	if text == "" {
		return nil
	}

	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		for len(raw) > maxCols {
			cut := strings.LastIndex(raw[:maxCols], " ")
			if cut <= 0 {
				cut = maxCols
			}
			lines = append(lines, strings.TrimSpace(raw[:cut]))
			raw = strings.TrimSpace(raw[cut:])
		}
		if raw != "" {
			lines = append(lines, raw)
		}
	}
	return lines
}
