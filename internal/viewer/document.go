// Package viewer implements the page viewing engine: document lifecycle,
// page navigation, zoom, and cancellable page rendering where only the most
// recent request may touch the surface.
package viewer

import (
	"context"
	"fmt"
	"image"
	"sync"

	"resumelens/internal/errors"
)

// Scale limits and the keyboard/button zoom step.
const (
	MinScale     = 0.5
	MaxScale     = 3.0
	ScaleStep    = 0.25
	DefaultScale = 1.0
)

// PageSource provides page geometry and rasterization for a loaded
// document. Implementations live outside this package.
type PageSource interface {
	PageCount() int
	// PageSize returns the page dimensions in surface pixels at scale 1.0.
	PageSize(pageNum int) (width, height float64, err error)
	// RenderPage rasterizes one page at the given scale. It must honor
	// context cancellation.
	RenderPage(ctx context.Context, pageNum int, scale float64) (image.Image, error)
}

// OpenFunc opens the underlying document. Load and Retry call it.
type OpenFunc func(ctx context.Context) (PageSource, error)

// DocState is the document lifecycle state.
type DocState int

const (
	StateIdle DocState = iota
	StateLoading
	StateReady
	StateError
)

func (s DocState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// RenderTask tracks one page render request. A newer request cancels it;
// a superseded task settles silently without touching the surface.
type RenderTask struct {
	page     int
	scale    float64
	done     chan struct{}
	err      error
	canceled bool
}

// Err returns the task's failure, nil when it drew successfully or was
// superseded.
func (t *RenderTask) Err() error {
	<-t.done
	if t.canceled {
		return nil
	}
	return t.err
}

// Canceled reports whether the task was superseded before completing.
func (t *RenderTask) Canceled() bool {
	<-t.done
	return t.canceled
}

// Document owns the viewing state for one open file.
type Document struct {
	mu      sync.Mutex
	open    OpenFunc
	surface Surface
	logger  *errors.Logger

	state   DocState
	loadErr error
	source  PageSource

	page  int // 1-based
	scale float64

	renderSeq    uint64
	renderCancel context.CancelFunc
	lastTask     *RenderTask
}

// NewDocument creates a document that renders onto surface when loaded.
func NewDocument(open OpenFunc, surface Surface, logger *errors.Logger) *Document {
	return &Document{
		open:    open,
		surface: surface,
		logger:  logger,
		state:   StateIdle,
		page:    1,
		scale:   DefaultScale,
	}
}

// Load opens the document and renders the first page. On failure the
// document enters the error state and Retry may be used.
func (d *Document) Load(ctx context.Context) error {
	d.mu.Lock()
	d.state = StateLoading
	d.loadErr = nil
	open := d.open
	d.mu.Unlock()

	source, err := open(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.state = StateError
		d.loadErr = errors.NewLoadError(errors.ErrCodeDocumentLoad,
			"Failed to load the document", err)
		if d.logger != nil {
			d.logger.LogError(d.loadErr, "Document load failed")
		}
		return d.loadErr
	}

	d.source = source
	d.state = StateReady
	d.page = 1
	d.scale = DefaultScale
	d.requestRenderLocked()
	return nil
}

// Retry re-runs a failed load. It is a no-op unless the document is in the
// error state.
func (d *Document) Retry(ctx context.Context) error {
	d.mu.Lock()
	if d.state != StateError {
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()
	return d.Load(ctx)
}

// State returns the lifecycle state.
func (d *Document) State() DocState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// LoadErr returns the last load failure, if any.
func (d *Document) LoadErr() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loadErr
}

// PageCount returns the number of pages, 0 before a successful load.
func (d *Document) PageCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.source == nil {
		return 0
	}
	return d.source.PageCount()
}

// CurrentPage returns the 1-based current page.
func (d *Document) CurrentPage() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.page
}

// Scale returns the current zoom scale.
func (d *Document) Scale() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scale
}

// GoToPage jumps to a page from direct input. Out-of-range values leave
// the current page unchanged and return a validation error.
func (d *Document) GoToPage(pageNum int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.source == nil {
		return errors.NewValidationError(errors.ErrCodePageOutOfRange,
			"No document is loaded", nil)
	}

	count := d.source.PageCount()
	if pageNum < 1 || pageNum > count {
		return errors.NewValidationError(errors.ErrCodePageOutOfRange,
			fmt.Sprintf("Page %d is out of range (1-%d)", pageNum, count), nil)
	}

	if pageNum == d.page {
		return nil
	}
	d.page = pageNum
	d.requestRenderLocked()
	return nil
}

// NextPage advances one page, clamping silently at the last page.
func (d *Document) NextPage() {
	d.stepPage(1)
}

// PrevPage steps back one page, clamping silently at the first page.
func (d *Document) PrevPage() {
	d.stepPage(-1)
}

func (d *Document) stepPage(delta int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.source == nil {
		return
	}

	target := d.page + delta
	count := d.source.PageCount()
	if target < 1 {
		target = 1
	}
	if target > count {
		target = count
	}
	if target == d.page {
		return
	}
	d.page = target
	d.requestRenderLocked()
}

// SetScale sets the zoom scale, clamped to the supported range.
func (d *Document) SetScale(scale float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setScaleLocked(scale)
}

// ZoomIn increases the scale by one step.
func (d *Document) ZoomIn() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setScaleLocked(d.scale + ScaleStep)
}

// ZoomOut decreases the scale by one step.
func (d *Document) ZoomOut() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setScaleLocked(d.scale - ScaleStep)
}

// FitToWidth sets the scale so the current page fills the surface width,
// clamped to the supported range.
func (d *Document) FitToWidth() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.source == nil {
		return errors.NewValidationError(errors.ErrCodePageOutOfRange,
			"No document is loaded", nil)
	}

	pageWidth, _, err := d.source.PageSize(d.page)
	if err != nil {
		return errors.NewRenderError(errors.ErrCodeRenderFailed,
			"Failed to measure the page", err)
	}
	if pageWidth <= 0 {
		return errors.NewRenderError(errors.ErrCodeRenderFailed,
			"Page has no width", nil)
	}

	surfaceWidth, _ := d.surface.Size()
	d.setScaleLocked(float64(surfaceWidth) / pageWidth)
	return nil
}

// setScaleLocked clamps and applies a new scale. Caller holds the lock.
func (d *Document) setScaleLocked(scale float64) {
	scale = clampScale(scale)
	if scale == d.scale {
		return
	}
	d.scale = scale
	if d.source != nil {
		d.requestRenderLocked()
	}
}

func clampScale(scale float64) float64 {
	if scale < MinScale {
		return MinScale
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}

// requestRenderLocked starts an async render of the current page and scale,
// cancelling whatever render was in flight. Caller holds the lock.
func (d *Document) requestRenderLocked() *RenderTask {
	if d.renderCancel != nil {
		d.renderCancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.renderCancel = cancel
	d.renderSeq++
	seq := d.renderSeq

	task := &RenderTask{
		page:  d.page,
		scale: d.scale,
		done:  make(chan struct{}),
	}
	d.lastTask = task

	source := d.source
	go d.render(ctx, source, task, seq)
	return task
}

// render runs off the lock. Only the task matching the latest sequence may
// draw or record an error; superseded tasks settle silently.
func (d *Document) render(ctx context.Context, source PageSource, task *RenderTask, seq uint64) {
	defer close(task.done)

	img, err := source.RenderPage(ctx, task.page, task.scale)

	// The stale check and the draw must be atomic, or a newer task could
	// slip in between and have its output overwritten.
	d.mu.Lock()
	defer d.mu.Unlock()

	if seq != d.renderSeq || ctx.Err() != nil {
		task.canceled = true
		return
	}

	if err != nil {
		task.err = errors.NewRenderError(errors.ErrCodeRenderFailed,
			fmt.Sprintf("Failed to render page %d", task.page), err)
		if d.logger != nil {
			d.logger.LogError(task.err, "Page render failed",
				"page", task.page, "scale", task.scale)
		}
		return
	}

	d.surface.Draw(img)
	if d.logger != nil {
		d.logger.Debug("Page rendered", "page", task.page, "scale", task.scale)
	}
}

// WaitRender blocks until the most recent render settles and returns its
// failure, if any. Superseded renders report nil.
func (d *Document) WaitRender() error {
	d.mu.Lock()
	task := d.lastTask
	d.mu.Unlock()

	if task == nil {
		return nil
	}
	return task.Err()
}

// Close cancels any in-flight render.
func (d *Document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.renderCancel != nil {
		d.renderCancel()
		d.renderCancel = nil
	}
}
