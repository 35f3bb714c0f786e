package viewer

import (
	"context"
	goerrors "errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"resumelens/internal/errors"
)

// fakeSource renders solid pages whose red channel encodes the page number,
// so tests can tell which render reached the surface.
type fakeSource struct {
	pages  int
	width  float64
	height float64
	delay  time.Duration

	mu       sync.Mutex
	renders  int
	canceled int
}

func (f *fakeSource) PageCount() int { return f.pages }

func (f *fakeSource) PageSize(pageNum int) (float64, float64, error) {
	if pageNum < 1 || pageNum > f.pages {
		return 0, 0, fmt.Errorf("page %d out of range", pageNum)
	}
	return f.width, f.height, nil
}

func (f *fakeSource) RenderPage(ctx context.Context, pageNum int, scale float64) (image.Image, error) {
	f.mu.Lock()
	f.renders++
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			f.mu.Lock()
			f.canceled++
			f.mu.Unlock()
			return nil, ctx.Err()
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	c := color.RGBA{R: uint8(pageNum), A: 255}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img, nil
}

func newLoadedDocument(t *testing.T, source *fakeSource) (*Document, *ImageSurface) {
	t.Helper()

	surface := NewImageSurface(800, 600)
	doc := NewDocument(func(ctx context.Context) (PageSource, error) {
		return source, nil
	}, surface, nil)

	if err := doc.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := doc.WaitRender(); err != nil {
		t.Fatalf("initial render failed: %v", err)
	}
	return doc, surface
}

func renderedPage(surface *ImageSurface) int {
	return int(surface.Image().RGBAAt(0, 0).R)
}

func TestLoadRendersFirstPage(t *testing.T) {
	doc, surface := newLoadedDocument(t, &fakeSource{pages: 5, width: 612, height: 792})
	defer doc.Close()

	if doc.State() != StateReady {
		t.Errorf("expected ready state, got %s", doc.State())
	}
	if doc.CurrentPage() != 1 {
		t.Errorf("expected page 1, got %d", doc.CurrentPage())
	}
	if doc.Scale() != DefaultScale {
		t.Errorf("expected default scale, got %v", doc.Scale())
	}
	if got := renderedPage(surface); got != 1 {
		t.Errorf("surface shows page %d, want 1", got)
	}
}

func TestLoadFailureAndRetry(t *testing.T) {
	attempts := 0
	surface := NewImageSurface(800, 600)
	doc := NewDocument(func(ctx context.Context) (PageSource, error) {
		attempts++
		if attempts == 1 {
			return nil, fmt.Errorf("corrupt file")
		}
		return &fakeSource{pages: 2, width: 612, height: 792}, nil
	}, surface, nil)
	defer doc.Close()

	err := doc.Load(context.Background())
	if err == nil {
		t.Fatal("expected load failure")
	}
	if doc.State() != StateError {
		t.Fatalf("expected error state, got %s", doc.State())
	}

	var appErr *errors.AppError
	if !goerrors.As(err, &appErr) || appErr.Type != errors.ErrorTypeLoad {
		t.Errorf("expected load error, got %v", err)
	}

	if err := doc.Retry(context.Background()); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if doc.State() != StateReady {
		t.Errorf("expected ready after retry, got %s", doc.State())
	}
	if attempts != 2 {
		t.Errorf("expected 2 open attempts, got %d", attempts)
	}
}

func TestRetryIsNoOpWhenReady(t *testing.T) {
	attempts := 0
	surface := NewImageSurface(800, 600)
	doc := NewDocument(func(ctx context.Context) (PageSource, error) {
		attempts++
		return &fakeSource{pages: 1, width: 612, height: 792}, nil
	}, surface, nil)
	defer doc.Close()

	if err := doc.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := doc.Retry(context.Background()); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if attempts != 1 {
		t.Errorf("retry on a ready document must not reopen, attempts=%d", attempts)
	}
}

func TestGoToPageValidation(t *testing.T) {
	doc, surface := newLoadedDocument(t, &fakeSource{pages: 5, width: 612, height: 792})
	defer doc.Close()

	tests := []struct {
		target  int
		wantErr bool
	}{
		{0, true},
		{6, true},
		{-3, true},
		{1, false},
		{5, false},
		{3, false},
	}

	for _, tt := range tests {
		before := doc.CurrentPage()
		err := doc.GoToPage(tt.target)
		if tt.wantErr {
			if err == nil {
				t.Errorf("GoToPage(%d): expected error", tt.target)
			}
			if doc.CurrentPage() != before {
				t.Errorf("GoToPage(%d): page changed on invalid input", tt.target)
			}
			continue
		}
		if err != nil {
			t.Errorf("GoToPage(%d): unexpected error %v", tt.target, err)
		}
		if doc.CurrentPage() != tt.target {
			t.Errorf("GoToPage(%d): landed on %d", tt.target, doc.CurrentPage())
		}
	}

	if err := doc.WaitRender(); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if got := renderedPage(surface); got != 3 {
		t.Errorf("surface shows page %d, want 3", got)
	}
}

func TestStepPageClampsSilently(t *testing.T) {
	doc, _ := newLoadedDocument(t, &fakeSource{pages: 3, width: 612, height: 792})
	defer doc.Close()

	doc.PrevPage()
	if doc.CurrentPage() != 1 {
		t.Errorf("PrevPage at first page moved to %d", doc.CurrentPage())
	}

	doc.NextPage()
	doc.NextPage()
	doc.NextPage()
	doc.NextPage()
	if doc.CurrentPage() != 3 {
		t.Errorf("NextPage past last page landed on %d", doc.CurrentPage())
	}
}

func TestScaleClamping(t *testing.T) {
	doc, _ := newLoadedDocument(t, &fakeSource{pages: 1, width: 612, height: 792})
	defer doc.Close()

	doc.SetScale(10)
	if doc.Scale() != MaxScale {
		t.Errorf("expected clamp to %v, got %v", MaxScale, doc.Scale())
	}

	doc.SetScale(0.01)
	if doc.Scale() != MinScale {
		t.Errorf("expected clamp to %v, got %v", MinScale, doc.Scale())
	}

	doc.SetScale(1.0)
	doc.ZoomIn()
	if doc.Scale() != 1.25 {
		t.Errorf("expected 1.25 after zoom in, got %v", doc.Scale())
	}
	doc.ZoomOut()
	doc.ZoomOut()
	if doc.Scale() != 0.75 {
		t.Errorf("expected 0.75 after two zoom outs, got %v", doc.Scale())
	}

	doc.SetScale(MaxScale)
	doc.ZoomIn()
	if doc.Scale() != MaxScale {
		t.Errorf("zoom in at max moved scale to %v", doc.Scale())
	}
}

func TestFitToWidth(t *testing.T) {
	doc, surface := newLoadedDocument(t, &fakeSource{pages: 1, width: 400, height: 800})
	defer doc.Close()

	surface.SetSize(800, 600)
	if err := doc.FitToWidth(); err != nil {
		t.Fatalf("FitToWidth failed: %v", err)
	}
	if doc.Scale() != 2.0 {
		t.Errorf("expected scale 2.0, got %v", doc.Scale())
	}

	// A narrow page would need a scale beyond the maximum.
	surface.SetSize(4000, 600)
	if err := doc.FitToWidth(); err != nil {
		t.Fatalf("FitToWidth failed: %v", err)
	}
	if doc.Scale() != MaxScale {
		t.Errorf("expected clamp to %v, got %v", MaxScale, doc.Scale())
	}
}

func TestMostRecentRenderWins(t *testing.T) {
	source := &fakeSource{pages: 5, width: 612, height: 792, delay: 30 * time.Millisecond}
	doc, surface := newLoadedDocument(t, source)
	defer doc.Close()

	// Two quick navigations; the first render must be superseded.
	if err := doc.GoToPage(2); err != nil {
		t.Fatalf("GoToPage(2) failed: %v", err)
	}
	if err := doc.GoToPage(4); err != nil {
		t.Fatalf("GoToPage(4) failed: %v", err)
	}

	if err := doc.WaitRender(); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if got := renderedPage(surface); got != 4 {
		t.Errorf("surface shows page %d, want 4", got)
	}

	source.mu.Lock()
	canceled := source.canceled
	source.mu.Unlock()
	if canceled == 0 {
		t.Error("expected the superseded render to be canceled")
	}
}

func TestKeyboardNavigation(t *testing.T) {
	doc, _ := newLoadedDocument(t, &fakeSource{pages: 5, width: 612, height: 792})
	defer doc.Close()

	if !doc.HandleKey("ArrowRight", false) {
		t.Error("ArrowRight should be consumed")
	}
	if doc.CurrentPage() != 2 {
		t.Errorf("expected page 2, got %d", doc.CurrentPage())
	}

	doc.HandleKey("End", false)
	if doc.CurrentPage() != 5 {
		t.Errorf("expected last page, got %d", doc.CurrentPage())
	}

	doc.HandleKey("Home", false)
	if doc.CurrentPage() != 1 {
		t.Errorf("expected first page, got %d", doc.CurrentPage())
	}

	doc.HandleKey("+", false)
	if doc.Scale() != 1.25 {
		t.Errorf("expected scale 1.25, got %v", doc.Scale())
	}

	if !doc.HandleKey("0", false) {
		t.Error("0 should be consumed")
	}
	if doc.Scale() != DefaultScale {
		t.Errorf("expected 0 to reset scale to %v, got %v", DefaultScale, doc.Scale())
	}

	if doc.HandleKey("x", false) {
		t.Error("unbound key should not be consumed")
	}
}

func TestKeyboardSuppressedWhileTyping(t *testing.T) {
	doc, _ := newLoadedDocument(t, &fakeSource{pages: 5, width: 612, height: 792})
	defer doc.Close()

	if doc.HandleKey("ArrowRight", true) {
		t.Error("keys must be suppressed in a text input")
	}
	if doc.CurrentPage() != 1 {
		t.Errorf("typing navigation moved to page %d", doc.CurrentPage())
	}
	doc.HandleKey("+", true)
	if doc.Scale() != DefaultScale {
		t.Errorf("typing zoom changed scale to %v", doc.Scale())
	}
}
