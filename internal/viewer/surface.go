package viewer

import (
	"image"
	"image/draw"
	"sync"
)

// Surface is the pixel target a document renders pages onto.
type Surface interface {
	// SetSize resizes the drawable area in pixels.
	SetSize(width, height int)
	// Size returns the current drawable area in pixels.
	Size() (width, height int)
	// Draw replaces the surface content with the rendered page.
	Draw(img image.Image)
}

// ImageSurface is an in-memory Surface backed by an RGBA image. It is safe
// for concurrent use by the render goroutine and readers.
type ImageSurface struct {
	mu  sync.Mutex
	img *image.RGBA
}

// NewImageSurface creates a surface with the given pixel dimensions.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

func (s *ImageSurface) SetSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

func (s *ImageSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ImageSurface) Draw(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := img.Bounds()
	s.img = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(s.img, s.img.Bounds(), img, b.Min, draw.Src)
}

// Image returns a copy-free view of the current content. Callers must not
// mutate it.
func (s *ImageSurface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img
}
