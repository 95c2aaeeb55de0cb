package textures

import (
	"fmt"
	"image"
	"runtime"

	"github.com/bloeys/cubefx/renderer"
	"github.com/mandykoh/prism"
)

// Image is a decoded, tightly packed pixel buffer with the first row at the top
type Image struct {
	Width  int
	Height int
	Format renderer.PixelFormat
	Pix    []byte
}

// Validate checks that the image can be uploaded as is. Errors wrap renderer.ErrTextureUpload
func (img *Image) Validate() error {

	if !img.Format.IsValid() {
		return fmt.Errorf("unsupported pixel format %d: %w", img.Format, renderer.ErrTextureUpload)
	}

	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d: %w", img.Width, img.Height, renderer.ErrTextureUpload)
	}

	expectedLen := img.Width * img.Height * img.Format.BytesPerPixel()
	if len(img.Pix) != expectedLen {
		return fmt.Errorf("image of %dx%d needs %d bytes but has %d: %w", img.Width, img.Height, expectedLen, len(img.Pix), renderer.ErrTextureUpload)
	}

	return nil
}

// FromImage converts any decoded image into non-premultiplied RGBA8
func FromImage(img image.Image) *Image {

	nrgba := prism.ConvertImageToNRGBA(img, runtime.NumCPU())
	bounds := nrgba.Bounds()

	width, height := bounds.Dx(), bounds.Dy()
	pix := make([]byte, 0, width*height*4)

	// Copy row by row as the stride can be larger than the row
	for y := 0; y < height; y++ {
		rowStart := y * nrgba.Stride
		pix = append(pix, nrgba.Pix[rowStart:rowStart+width*4]...)
	}

	return &Image{
		Width:  width,
		Height: height,
		Format: renderer.PixelFormat_RGBA8,
		Pix:    pix,
	}
}
