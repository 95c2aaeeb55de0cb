package buffers

import (
	"fmt"

	"github.com/bloeys/cubefx/renderer"
)

// CubemapFramebuffer is a framebuffer whose single color attachment is one face/mip of a cubemap it owns.
// It is the render target the cube effect draws into; binding a face is always done here, never by the effect.
type CubemapFramebuffer struct {
	Id        uint32
	CubemapId uint32
	Size      uint32
	MipLevels uint32

	ctx CubemapContext
}

// MipSize returns the width/height of a mip level, which is never below 1
func (fbo *CubemapFramebuffer) MipSize(mipLevel uint32) uint32 {
	return max(fbo.Size>>mipLevel, 1)
}

// BindFace attaches the given face and mip to the framebuffer and binds it.
// The returned viewport covers the whole face at that mip level
func (fbo *CubemapFramebuffer) BindFace(side renderer.CubeMapSide, mipLevel uint32) (renderer.Viewport, error) {

	if mipLevel >= fbo.MipLevels {
		return renderer.Viewport{}, fmt.Errorf("mip level %d is out of range for cubemap with %d levels: %w", mipLevel, fbo.MipLevels, renderer.ErrContextState)
	}

	if err := fbo.ctx.AttachCubemapFace(fbo.Id, fbo.CubemapId, side, mipLevel); err != nil {
		return renderer.Viewport{}, err
	}

	fbo.ctx.BindFramebuffer(fbo.Id)

	mipSize := fbo.MipSize(mipLevel)
	return renderer.NewViewportAtOrigin(mipSize, mipSize), nil
}

func (fbo *CubemapFramebuffer) UnBind() {
	fbo.ctx.BindFramebuffer(0)
}

// ReadFace returns the RGBA8 pixels of a face at a mip level, bottom row first. Leaves the framebuffer bound
func (fbo *CubemapFramebuffer) ReadFace(side renderer.CubeMapSide, mipLevel uint32) ([]byte, error) {

	vp, err := fbo.BindFace(side, mipLevel)
	if err != nil {
		return nil, err
	}

	return fbo.ctx.ReadPixelsRGBA(vp.X, vp.Y, vp.Width, vp.Height)
}

// Delete frees the framebuffer and its cubemap. Calling it more than once is a no-op
func (fbo *CubemapFramebuffer) Delete() {

	if fbo.Id != 0 {
		fbo.ctx.DeleteFramebuffer(fbo.Id)
		fbo.Id = 0
	}

	if fbo.CubemapId != 0 {
		fbo.ctx.DeleteTexture(fbo.CubemapId)
		fbo.CubemapId = 0
	}
}

// CubemapContext is the part of renderer.Context a CubemapFramebuffer needs
type CubemapContext interface {
	renderer.TargetContext
	DeleteTexture(texId uint32)
}

func NewCubemapFramebuffer(ctx CubemapContext, size, mipLevels uint32) (*CubemapFramebuffer, error) {

	if size == 0 || mipLevels == 0 {
		return nil, fmt.Errorf("cubemap framebuffer needs a non-zero size and mip level count, got size=%d mipLevels=%d: %w", size, mipLevels, renderer.ErrResourceAllocation)
	}

	cubemapId, err := ctx.CreateCubemap(size, mipLevels)
	if err != nil {
		return nil, err
	}

	fboId, err := ctx.CreateFramebuffer()
	if err != nil {
		ctx.DeleteTexture(cubemapId)
		return nil, err
	}

	return &CubemapFramebuffer{
		Id:        fboId,
		CubemapId: cubemapId,
		Size:      size,
		MipLevels: mipLevels,
		ctx:       ctx,
	}, nil
}
