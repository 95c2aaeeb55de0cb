package renderer

import "github.com/chewxy/math32"

type Viewport struct {
	X      int32
	Y      int32
	Width  uint32
	Height uint32
}

func NewViewportAtOrigin(width, height uint32) Viewport {
	return Viewport{Width: width, Height: height}
}

func (v Viewport) IsEmpty() bool {
	return v.Width == 0 || v.Height == 0
}

// Aspect returns width/height. An empty viewport returns NaN
func (v Viewport) Aspect() float32 {

	if v.Height == 0 {
		return math32.NaN()
	}

	return float32(v.Width) / float32(v.Height)
}
