package render

import "github.com/hajimehoshi/ebiten/v2"

// Surface is a widget's drawable target.
type Surface interface {
	Clear(c Color)
	Size() (width, height int)
}

// ImageSurface is a Surface backed by an offscreen ebiten.Image.
type ImageSurface struct {
	img *ebiten.Image
}

// NewImageSurface allocates a width x height surface.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{img: ebiten.NewImage(width, height)}
}

// Clear implements Surface.
func (s *ImageSurface) Clear(c Color) {
	s.img.Fill(c)
}

// Size implements Surface.
func (s *ImageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the backing image, or nil after Dispose.
func (s *ImageSurface) Image() *ebiten.Image {
	return s.img
}

// Dispose releases the backing image.
func (s *ImageSurface) Dispose() {
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
}
