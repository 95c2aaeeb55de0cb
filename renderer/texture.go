package renderer

type PixelFormat int32

const (
	PixelFormat_Unknown PixelFormat = iota
	PixelFormat_R8
	PixelFormat_RG8
	PixelFormat_RGB8
	PixelFormat_RGBA8
)

// BytesPerPixel returns 0 for unknown formats
func (f PixelFormat) BytesPerPixel() int {

	switch f {
	case PixelFormat_R8:
		return 1
	case PixelFormat_RG8:
		return 2
	case PixelFormat_RGB8:
		return 3
	case PixelFormat_RGBA8:
		return 4
	default:
		return 0
	}
}

func (f PixelFormat) IsValid() bool {
	return f.BytesPerPixel() > 0
}

type Interpolation int32

const (
	// Interpolation_None is only valid as a mip filter, where it means no mipmaps
	Interpolation_None Interpolation = iota
	Interpolation_Nearest
	Interpolation_Linear
)

type Wrapping int32

const (
	Wrapping_Repeat Wrapping = iota
	Wrapping_MirroredRepeat
	Wrapping_ClampToEdge
)

type Texture2DDesc struct {
	Width  uint32
	Height uint32
	Format PixelFormat

	MinFilter Interpolation
	MagFilter Interpolation
	MipFilter Interpolation

	WrapS Wrapping
	WrapT Wrapping
}

func (d *Texture2DDesc) HasMipmaps() bool {
	return d.MipFilter != Interpolation_None
}
