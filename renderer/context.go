package renderer

import (
	"github.com/bloeys/gglm/gglm"
)

// ProgramContext compiles shader programs, binds their inputs and submits draws.
type ProgramContext interface {
	// CreateProgram compiles and links a vertex+fragment program.
	// Failures wrap ErrShaderCompilation.
	CreateProgram(vertShaderSrc, fragShaderSrc string) (uint32, error)
	DeleteProgram(progId uint32)

	// GetUniformLocation and GetAttribLocation return -1 when the name isn't an active input of the program
	GetUniformLocation(progId uint32, uniformName string) int32
	GetAttribLocation(progId uint32, attribName string) int32

	SetUniformInt32(progId uint32, loc int32, val int32)
	SetUniformFloat32(progId uint32, loc int32, val float32)
	SetUniformVec4(progId uint32, loc int32, val *gglm.Vec4)
	SetUniformMat4(progId uint32, loc int32, val *gglm.Mat4)

	// UseAttribute sources the attribute at loc from the float buffer bufId,
	// with compCount floats per vertex every stride bytes starting at offset bytes.
	UseAttribute(progId uint32, loc int32, bufId uint32, compCount, stride, offset int32)

	// DrawArrays draws count non-indexed triangle vertices starting at first
	DrawArrays(progId uint32, states RenderStates, viewport Viewport, first, count int32)
}

type BufferContext interface {
	// CreateBuffer allocates a float buffer and uploads data into it.
	// Failures wrap ErrResourceAllocation.
	CreateBuffer(data []float32, usage BufUsage) (uint32, error)
	DeleteBuffer(bufId uint32)
}

type TextureContext interface {
	// CreateTexture2D allocates and uploads a 2D texture, generating mipmaps if desc.MipFilter is set.
	// On failure nothing stays allocated.
	CreateTexture2D(desc Texture2DDesc, pix []byte) (uint32, error)
	DeleteTexture(texId uint32)
	BindTexture2D(slot uint32, texId uint32)
}

// TargetContext is the render target side of the context. The render operations of this module
// only ever ask IsRenderTargetComplete, binding is left to the caller.
type TargetContext interface {
	// IsRenderTargetComplete reports whether the currently bound draw framebuffer can be rendered into
	IsRenderTargetComplete() bool

	CreateCubemap(size, mipLevels uint32) (uint32, error)
	CreateFramebuffer() (uint32, error)
	DeleteFramebuffer(fboId uint32)

	// BindFramebuffer binds fboId for drawing and reading. Zero binds the default framebuffer
	BindFramebuffer(fboId uint32)
	AttachCubemapFace(fboId, cubemapId uint32, side CubeMapSide, mipLevel uint32) error

	// ReadPixelsRGBA reads back an RGBA8 rectangle of the bound framebuffer
	ReadPixelsRGBA(x, y int32, width, height uint32) ([]byte, error)
}

// Context is everything needed from a live graphics context
type Context interface {
	ProgramContext
	BufferContext
	TextureContext
	TargetContext
}
