package textures

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/bloeys/cubefx/renderer"
	"github.com/chewxy/math32"
)

type TextureOptions struct {
	MinFilter renderer.Interpolation
	MagFilter renderer.Interpolation
	// MipFilter of Interpolation_None means no mipmaps are generated
	MipFilter renderer.Interpolation

	WrapS renderer.Wrapping
	WrapT renderer.Wrapping
}

// LinearRepeatOptions is linear filtering with linear mipmaps, repeating on both axes
var LinearRepeatOptions = TextureOptions{
	MinFilter: renderer.Interpolation_Linear,
	MagFilter: renderer.Interpolation_Linear,
	MipFilter: renderer.Interpolation_Linear,
	WrapS:     renderer.Wrapping_Repeat,
	WrapT:     renderer.Wrapping_Repeat,
}

// Texture2D is a reference counted GPU texture.
// It starts with one reference and the GPU texture is deleted when the last one is released.
type Texture2D struct {
	TexID  uint32
	Width  int
	Height int
	Format renderer.PixelFormat

	refs   atomic.Int32
	ctx    renderer.TextureContext
	onFree func(*Texture2D)
}

// Retain adds a reference and returns the texture for convenience.
// A freed texture can't be revived, retaining one panics and leaves the count untouched
func (t *Texture2D) Retain() *Texture2D {

	for {
		refs := t.refs.Load()
		if refs <= 0 {
			panic(fmt.Sprintf("retain of freed texture %d", t.TexID))
		}

		if t.refs.CompareAndSwap(refs, refs+1) {
			return t
		}
	}
}

// Release drops a reference and reports whether that freed the texture
func (t *Texture2D) Release() bool {

	for {
		refs := t.refs.Load()
		if refs <= 0 {
			panic(fmt.Sprintf("texture %d released more times than retained", t.TexID))
		}

		if !t.refs.CompareAndSwap(refs, refs-1) {
			continue
		}

		if refs > 1 {
			return false
		}

		break
	}

	t.ctx.DeleteTexture(t.TexID)
	if t.onFree != nil {
		t.onFree(t)
	}

	return true
}

func (t *Texture2D) RefCount() int32 {
	return t.refs.Load()
}

func (t *Texture2D) IsAlive() bool {
	return t.refs.Load() > 0
}

// OnFree sets a function called once the texture is deleted
func (t *Texture2D) OnFree(fn func(*Texture2D)) {
	t.onFree = fn
}

// NewTexture2D uploads img. Errors wrap renderer.ErrTextureUpload and leave nothing allocated
func NewTexture2D(ctx renderer.TextureContext, img *Image, opts TextureOptions) (*Texture2D, error) {

	if err := img.Validate(); err != nil {
		return nil, err
	}

	if opts.MinFilter == renderer.Interpolation_None || opts.MagFilter == renderer.Interpolation_None {
		return nil, fmt.Errorf("min and mag filters must be set: %w", renderer.ErrTextureUpload)
	}

	desc := renderer.Texture2DDesc{
		Width:     uint32(img.Width),
		Height:    uint32(img.Height),
		Format:    img.Format,
		MinFilter: opts.MinFilter,
		MagFilter: opts.MagFilter,
		MipFilter: opts.MipFilter,
		WrapS:     opts.WrapS,
		WrapT:     opts.WrapT,
	}

	texId, err := ctx.CreateTexture2D(desc, img.Pix)
	if err != nil {
		if errors.Is(err, renderer.ErrTextureUpload) {
			return nil, fmt.Errorf("failed to upload %dx%d texture: %w", img.Width, img.Height, err)
		}

		return nil, fmt.Errorf("failed to upload %dx%d texture: %w: %w", img.Width, img.Height, renderer.ErrTextureUpload, err)
	}

	t := &Texture2D{
		TexID:  texId,
		Width:  img.Width,
		Height: img.Height,
		Format: img.Format,
		ctx:    ctx,
	}
	t.refs.Store(1)

	return t, nil
}

// MipLevelCount is the number of levels in a full mip chain for a texture of this size
func MipLevelCount(width, height int) int {

	largest := max(width, height)
	if largest <= 0 {
		return 0
	}

	return int(math32.Floor(math32.Log2(float32(largest)))) + 1
}

// Bind binds the texture to the given texture unit
func (t *Texture2D) Bind(slot uint32) {
	t.ctx.BindTexture2D(slot, t.TexID)
}
