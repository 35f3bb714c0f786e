package pdf

import (
	"context"
	"math"
	"testing"
)

func letterSource() *Source {
	// US Letter, 612x792 points.
	return &Source{
		pageCount: 1,
		dims:      []pageDim{{width: 612, height: 792}},
		pageText:  []string{"Experienced Go engineer."},
		dpi:       96,
	}
}

func TestPageSizeReportsPixels(t *testing.T) {
	s := letterSource()

	w, h, err := s.PageSize(1)
	if err != nil {
		t.Fatalf("PageSize failed: %v", err)
	}
	if math.Abs(w-816) > 1e-9 || math.Abs(h-1056) > 1e-9 {
		t.Errorf("expected 816x1056 px at 96 dpi, got %gx%g", w, h)
	}

	if _, _, err := s.PageSize(2); err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestRenderMatchesPageSize(t *testing.T) {
	s := letterSource()

	img, err := s.RenderPage(context.Background(), 1, 1.0)
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	if got := img.Bounds().Dx(); got != 816 {
		t.Errorf("expected width 816 at scale 1.0, got %d", got)
	}
	if got := img.Bounds().Dy(); got != 1056 {
		t.Errorf("expected height 1056 at scale 1.0, got %d", got)
	}
}

func TestRenderAtFitScaleFillsSurfaceWidth(t *testing.T) {
	s := letterSource()

	const surfaceWidth = 800.0
	w, _, err := s.PageSize(1)
	if err != nil {
		t.Fatalf("PageSize failed: %v", err)
	}
	scale := surfaceWidth / w

	img, err := s.RenderPage(context.Background(), 1, scale)
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	if got := img.Bounds().Dx(); got != int(surfaceWidth) {
		t.Errorf("expected fit-to-width render of %d px, got %d", int(surfaceWidth), got)
	}
}
