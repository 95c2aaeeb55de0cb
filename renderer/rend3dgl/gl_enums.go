package rend3dgl

import (
	"github.com/bloeys/cubefx/assert"
	"github.com/bloeys/cubefx/renderer"
	"github.com/go-gl/gl/v4.1-core/gl"
)

func applyRenderStates(states renderer.RenderStates) {

	// Depth
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(depthTestToGl(states.DepthTest))
	gl.DepthMask(!states.Write.NoDepth)

	colorWrite := !states.Write.NoColor
	gl.ColorMask(colorWrite, colorWrite, colorWrite, colorWrite)

	// Culling
	if states.Cull == renderer.Cull_None {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(cullToGl(states.Cull))
		gl.FrontFace(gl.CCW)
	}

	// Blending
	switch states.Blend {
	case renderer.Blend_None:
		gl.Disable(gl.BLEND)
	case renderer.Blend_Alpha:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	case renderer.Blend_Additive:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.ONE, gl.ONE)
	default:
		assert.T(false, "Unknown blend mode '%d'", states.Blend)
	}
}

func depthTestToGl(d renderer.DepthTest) uint32 {

	switch d {
	case renderer.DepthTest_Less:
		return gl.LESS
	case renderer.DepthTest_Never:
		return gl.NEVER
	case renderer.DepthTest_Equal:
		return gl.EQUAL
	case renderer.DepthTest_LessOrEqual:
		return gl.LEQUAL
	case renderer.DepthTest_Greater:
		return gl.GREATER
	case renderer.DepthTest_NotEqual:
		return gl.NOTEQUAL
	case renderer.DepthTest_GreaterOrEqual:
		return gl.GEQUAL
	case renderer.DepthTest_Always:
		return gl.ALWAYS
	}

	assert.T(false, "Unknown depth test '%d'", d)
	return gl.LESS
}

func cullToGl(c renderer.Cull) uint32 {

	switch c {
	case renderer.Cull_Back:
		return gl.BACK
	case renderer.Cull_Front:
		return gl.FRONT
	case renderer.Cull_FrontAndBack:
		return gl.FRONT_AND_BACK
	}

	assert.T(false, "Unexpected cull mode '%d'", c)
	return gl.BACK
}

func bufUsageToGl(b renderer.BufUsage) uint32 {

	switch b {
	case renderer.BufUsage_Static_Draw:
		return gl.STATIC_DRAW
	case renderer.BufUsage_Dynamic_Draw:
		return gl.DYNAMIC_DRAW
	case renderer.BufUsage_Stream_Draw:
		return gl.STREAM_DRAW

	case renderer.BufUsage_Static_Read:
		return gl.STATIC_READ
	case renderer.BufUsage_Dynamic_Read:
		return gl.DYNAMIC_READ
	case renderer.BufUsage_Stream_Read:
		return gl.STREAM_READ

	case renderer.BufUsage_Static_Copy:
		return gl.STATIC_COPY
	case renderer.BufUsage_Dynamic_Copy:
		return gl.DYNAMIC_COPY
	case renderer.BufUsage_Stream_Copy:
		return gl.STREAM_COPY
	}

	assert.T(false, "Unexpected BufUsage value '%v'", b)
	return gl.STATIC_DRAW
}

func pixelFormatToGl(f renderer.PixelFormat) uint32 {

	switch f {
	case renderer.PixelFormat_R8:
		return gl.RED
	case renderer.PixelFormat_RG8:
		return gl.RG
	case renderer.PixelFormat_RGB8:
		return gl.RGB
	case renderer.PixelFormat_RGBA8:
		return gl.RGBA
	}

	assert.T(false, "Unknown pixel format '%d'", f)
	return gl.RGBA
}

func pixelFormatToGlInternal(f renderer.PixelFormat) int32 {

	switch f {
	case renderer.PixelFormat_R8:
		return gl.R8
	case renderer.PixelFormat_RG8:
		return gl.RG8
	case renderer.PixelFormat_RGB8:
		return gl.RGB8
	case renderer.PixelFormat_RGBA8:
		return gl.RGBA8
	}

	assert.T(false, "Unknown pixel format '%d'", f)
	return gl.RGBA8
}

func magFilterToGl(i renderer.Interpolation) int32 {

	if i == renderer.Interpolation_Nearest {
		return gl.NEAREST
	}

	assert.T(i == renderer.Interpolation_Linear, "Invalid mag filter '%d'", i)
	return gl.LINEAR
}

// minFilterToGl combines the min filter with the mip filter, e.g. linear+linear is GL_LINEAR_MIPMAP_LINEAR
func minFilterToGl(minFilter, mipFilter renderer.Interpolation) int32 {

	assert.T(minFilter != renderer.Interpolation_None, "Min filter can't be none")

	switch mipFilter {
	case renderer.Interpolation_None:
		if minFilter == renderer.Interpolation_Nearest {
			return gl.NEAREST
		}
		return gl.LINEAR

	case renderer.Interpolation_Nearest:
		if minFilter == renderer.Interpolation_Nearest {
			return gl.NEAREST_MIPMAP_NEAREST
		}
		return gl.LINEAR_MIPMAP_NEAREST

	default:
		if minFilter == renderer.Interpolation_Nearest {
			return gl.NEAREST_MIPMAP_LINEAR
		}
		return gl.LINEAR_MIPMAP_LINEAR
	}
}

func wrappingToGl(w renderer.Wrapping) int32 {

	switch w {
	case renderer.Wrapping_Repeat:
		return gl.REPEAT
	case renderer.Wrapping_MirroredRepeat:
		return gl.MIRRORED_REPEAT
	case renderer.Wrapping_ClampToEdge:
		return gl.CLAMP_TO_EDGE
	}

	assert.T(false, "Unknown wrapping '%d'", w)
	return gl.REPEAT
}
