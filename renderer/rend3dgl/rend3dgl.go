package rend3dgl

import (
	"fmt"
	"math"
	"strings"

	"github.com/bloeys/cubefx/assert"
	"github.com/bloeys/cubefx/logging"
	"github.com/bloeys/cubefx/renderer"
	"github.com/bloeys/gglm/gglm"
	"github.com/go-gl/gl/v4.1-core/gl"
)

var _ renderer.Context = &Rend3DGL{}

const glslVersionLine = "#version 410 core\n"

// unknownBindingId is never a GL object name, unlike 0 which is the default framebuffer
const unknownBindingId = math.MaxUint32

// Rend3DGL implements renderer.Context on top of an OpenGL 4.1 core context that must be current on the calling thread.
// It caches some bound state to skip redundant binds; call FrameEnd if anything outside of it touched GL bindings.
type Rend3DGL struct {
	BoundProgramId uint32
	BoundFboId     uint32

	// attribVaoId is the one vao all attribute bindings go through, since core profile requires a bound vao
	attribVaoId uint32
}

func (r *Rend3DGL) CreateProgram(vertShaderSrc, fragShaderSrc string) (uint32, error) {

	vertShaderId, err := compileShaderOfType(vertShaderSrc, gl.VERTEX_SHADER, renderer.ShaderStage_Vertex)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShaderId)

	fragShaderId, err := compileShaderOfType(fragShaderSrc, gl.FRAGMENT_SHADER, renderer.ShaderStage_Fragment)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShaderId)

	progId := gl.CreateProgram()
	if progId == 0 {
		return 0, fmt.Errorf("failed to create shader program. GlError=%d: %w", gl.GetError(), renderer.ErrResourceAllocation)
	}

	gl.AttachShader(progId, vertShaderId)
	gl.AttachShader(progId, fragShaderId)
	gl.LinkProgram(progId)

	if err := getProgramLinkErrors(progId); err != nil {
		gl.DeleteProgram(progId)
		return 0, err
	}

	// Shaders are flagged for deletion by the defers, detaching lets them actually go
	gl.DetachShader(progId, vertShaderId)
	gl.DetachShader(progId, fragShaderId)

	return progId, nil
}

func (r *Rend3DGL) DeleteProgram(progId uint32) {

	if progId == 0 {
		return
	}

	if r.BoundProgramId == progId {
		gl.UseProgram(0)
		r.BoundProgramId = 0
	}

	gl.DeleteProgram(progId)
}

func (r *Rend3DGL) GetUniformLocation(progId uint32, uniformName string) int32 {
	return gl.GetUniformLocation(progId, gl.Str(uniformName+"\x00"))
}

func (r *Rend3DGL) GetAttribLocation(progId uint32, attribName string) int32 {
	return gl.GetAttribLocation(progId, gl.Str(attribName+"\x00"))
}

func (r *Rend3DGL) SetUniformInt32(progId uint32, loc int32, val int32) {
	gl.ProgramUniform1i(progId, loc, val)
}

func (r *Rend3DGL) SetUniformFloat32(progId uint32, loc int32, val float32) {
	gl.ProgramUniform1f(progId, loc, val)
}

func (r *Rend3DGL) SetUniformVec4(progId uint32, loc int32, val *gglm.Vec4) {
	gl.ProgramUniform4fv(progId, loc, 1, &val.Data[0])
}

func (r *Rend3DGL) SetUniformMat4(progId uint32, loc int32, val *gglm.Mat4) {
	gl.ProgramUniformMatrix4fv(progId, loc, 1, false, &val.Data[0][0])
}

func (r *Rend3DGL) UseAttribute(progId uint32, loc int32, bufId uint32, compCount, stride, offset int32) {

	assert.T(loc >= 0, "UseAttribute called with invalid location %d on program %d", loc, progId)

	if r.attribVaoId == 0 {
		gl.GenVertexArrays(1, &r.attribVaoId)
		if r.attribVaoId == 0 {
			logging.ErrLog.Println("Failed to create OpenGL vertex array object")
		}
	}

	// NOTE: The buffer is captured by the vao at the 'VertexAttribPointer' call
	gl.BindVertexArray(r.attribVaoId)
	gl.BindBuffer(gl.ARRAY_BUFFER, bufId)
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointerWithOffset(uint32(loc), compCount, gl.FLOAT, false, stride, uintptr(offset))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (r *Rend3DGL) DrawArrays(progId uint32, states renderer.RenderStates, viewport renderer.Viewport, first, count int32) {

	applyRenderStates(states)
	gl.Viewport(viewport.X, viewport.Y, int32(viewport.Width), int32(viewport.Height))

	if progId != r.BoundProgramId {
		gl.UseProgram(progId)
		r.BoundProgramId = progId
	}

	gl.BindVertexArray(r.attribVaoId)
	gl.DrawArrays(gl.TRIANGLES, first, count)
}

func (r *Rend3DGL) CreateBuffer(data []float32, usage renderer.BufUsage) (uint32, error) {

	var bufId uint32
	gl.GenBuffers(1, &bufId)
	if bufId == 0 {
		return 0, fmt.Errorf("failed to create OpenGL buffer. GlError=%d: %w", gl.GetError(), renderer.ErrResourceAllocation)
	}

	// Clear stale errors so the check below only sees the upload
	drainGlErrors()

	gl.BindBuffer(gl.ARRAY_BUFFER, bufId)
	sizeInBytes := len(data) * 4
	if sizeInBytes == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, gl.Ptr(nil), bufUsageToGl(usage))
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, sizeInBytes, gl.Ptr(&data[0]), bufUsageToGl(usage))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		gl.DeleteBuffers(1, &bufId)
		return 0, fmt.Errorf("failed to upload %d bytes to OpenGL buffer. GlError=%d: %w", sizeInBytes, glErr, renderer.ErrResourceAllocation)
	}

	return bufId, nil
}

func (r *Rend3DGL) DeleteBuffer(bufId uint32) {

	if bufId == 0 {
		return
	}

	gl.DeleteBuffers(1, &bufId)
}

func (r *Rend3DGL) CreateTexture2D(desc renderer.Texture2DDesc, pix []byte) (uint32, error) {

	if !desc.Format.IsValid() {
		return 0, fmt.Errorf("unsupported pixel format %d: %w", desc.Format, renderer.ErrTextureUpload)
	}

	var texId uint32
	gl.GenTextures(1, &texId)
	if texId == 0 {
		return 0, fmt.Errorf("failed to generate texture. GlError=%d: %w", gl.GetError(), renderer.ErrTextureUpload)
	}

	drainGlErrors()

	gl.BindTexture(gl.TEXTURE_2D, texId)

	// Rows of RGB8 and friends aren't 4 byte aligned
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	var pixPtr = gl.Ptr(nil)
	if len(pix) > 0 {
		pixPtr = gl.Ptr(&pix[0])
	}

	gl.TexImage2D(gl.TEXTURE_2D, 0, pixelFormatToGlInternal(desc.Format), int32(desc.Width), int32(desc.Height), 0, pixelFormatToGl(desc.Format), gl.UNSIGNED_BYTE, pixPtr)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilterToGl(desc.MinFilter, desc.MipFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilterToGl(desc.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrappingToGl(desc.WrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrappingToGl(desc.WrapT))

	if desc.HasMipmaps() {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)

	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		gl.DeleteTextures(1, &texId)
		return 0, fmt.Errorf("failed to upload %dx%d texture. GlError=%d: %w", desc.Width, desc.Height, glErr, renderer.ErrTextureUpload)
	}

	return texId, nil
}

func (r *Rend3DGL) DeleteTexture(texId uint32) {

	if texId == 0 {
		return
	}

	gl.DeleteTextures(1, &texId)
}

func (r *Rend3DGL) BindTexture2D(slot uint32, texId uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + slot)
	gl.BindTexture(gl.TEXTURE_2D, texId)
}

func (r *Rend3DGL) IsRenderTargetComplete() bool {
	return gl.CheckFramebufferStatus(gl.DRAW_FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE
}

func (r *Rend3DGL) CreateCubemap(size, mipLevels uint32) (uint32, error) {

	assert.T(mipLevels > 0, "CreateCubemap needs at least one mip level")

	var texId uint32
	gl.GenTextures(1, &texId)
	if texId == 0 {
		return 0, fmt.Errorf("failed to generate cubemap texture. GlError=%d: %w", gl.GetError(), renderer.ErrResourceAllocation)
	}

	drainGlErrors()

	gl.BindTexture(gl.TEXTURE_CUBE_MAP, texId)
	for level := uint32(0); level < mipLevels; level++ {

		levelSize := int32(max(size>>level, 1))
		for i := 0; i < len(renderer.CubeMapSides); i++ {
			gl.TexImage2D(uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X+i), int32(level), gl.RGBA8, levelSize, levelSize, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
		}
	}

	if mipLevels > 1 {
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	} else {
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAX_LEVEL, int32(mipLevels-1))
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		gl.DeleteTextures(1, &texId)
		return 0, fmt.Errorf("failed to allocate %dx%d cubemap with %d levels. GlError=%d: %w", size, size, mipLevels, glErr, renderer.ErrResourceAllocation)
	}

	return texId, nil
}

func (r *Rend3DGL) CreateFramebuffer() (uint32, error) {

	var fboId uint32
	gl.GenFramebuffers(1, &fboId)
	if fboId == 0 {
		return 0, fmt.Errorf("failed to generate framebuffer. GlError=%d: %w", gl.GetError(), renderer.ErrResourceAllocation)
	}

	return fboId, nil
}

func (r *Rend3DGL) DeleteFramebuffer(fboId uint32) {

	if fboId == 0 {
		return
	}

	if r.BoundFboId == fboId {
		r.BindFramebuffer(0)
	}

	gl.DeleteFramebuffers(1, &fboId)
}

func (r *Rend3DGL) BindFramebuffer(fboId uint32) {

	if fboId == r.BoundFboId {
		return
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, fboId)
	r.BoundFboId = fboId
}

func (r *Rend3DGL) AttachCubemapFace(fboId, cubemapId uint32, side renderer.CubeMapSide, mipLevel uint32) error {

	if !side.IsValid() {
		return fmt.Errorf("unknown cube map side %d: %w", side, renderer.ErrContextState)
	}

	r.BindFramebuffer(fboId)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X+side), cubemapId, int32(mipLevel))

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer %d incomplete after attaching face %s mip %d. Status=%d: %w", fboId, side, mipLevel, status, renderer.ErrContextState)
	}

	return nil
}

func (r *Rend3DGL) ReadPixelsRGBA(x, y int32, width, height uint32) ([]byte, error) {

	pix := make([]byte, width*height*4)
	if len(pix) == 0 {
		return pix, nil
	}

	drainGlErrors()

	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(x, y, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pix[0]))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 4)

	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		return nil, fmt.Errorf("failed to read pixels. GlError=%d: %w", glErr, renderer.ErrContextState)
	}

	return pix, nil
}

// FrameEnd forgets cached bindings, so the next bind of anything, the default framebuffer included, reaches GL
func (r *Rend3DGL) FrameEnd() {
	r.BoundProgramId = unknownBindingId
	r.BoundFboId = unknownBindingId
}

// Delete frees the objects the renderer created for itself
func (r *Rend3DGL) Delete() {

	if r.attribVaoId != 0 {
		gl.DeleteVertexArrays(1, &r.attribVaoId)
		r.attribVaoId = 0
	}
}

func compileShaderOfType(shaderSrc string, shaderType uint32, stage renderer.ShaderStage) (uint32, error) {

	shaderId := gl.CreateShader(shaderType)
	if shaderId == 0 {
		return 0, fmt.Errorf("failed to create OpenGl shader. OpenGl Error=%d: %w", gl.GetError(), renderer.ErrResourceAllocation)
	}

	if !strings.HasPrefix(strings.TrimSpace(shaderSrc), "#version") {
		shaderSrc = glslVersionLine + shaderSrc
	}

	//Load shader source and compile
	shaderCStr, shaderFree := gl.Strs(shaderSrc + "\x00")
	defer shaderFree()
	gl.ShaderSource(shaderId, 1, shaderCStr, nil)

	gl.CompileShader(shaderId)
	if err := getShaderCompileErrors(shaderId, stage); err != nil {
		gl.DeleteShader(shaderId)
		return 0, err
	}

	return shaderId, nil
}

func getShaderCompileErrors(shaderId uint32, stage renderer.ShaderStage) error {

	var compiledSuccessfully int32
	gl.GetShaderiv(shaderId, gl.COMPILE_STATUS, &compiledSuccessfully)
	if compiledSuccessfully == gl.TRUE {
		return nil
	}

	var logLength int32
	gl.GetShaderiv(shaderId, gl.INFO_LOG_LENGTH, &logLength)

	log := gl.Str(strings.Repeat("\x00", int(logLength+1)))
	gl.GetShaderInfoLog(shaderId, logLength, nil, log)

	errMsg := gl.GoStr(log)
	logging.ErrLog.Println("Compilation of", stage, "shader with id", shaderId, "failed. Err:", errMsg)
	return &renderer.ShaderError{Stage: stage, Log: errMsg}
}

func getProgramLinkErrors(progId uint32) error {

	var linkedSuccessfully int32
	gl.GetProgramiv(progId, gl.LINK_STATUS, &linkedSuccessfully)
	if linkedSuccessfully == gl.TRUE {
		return nil
	}

	var logLength int32
	gl.GetProgramiv(progId, gl.INFO_LOG_LENGTH, &logLength)

	log := gl.Str(strings.Repeat("\x00", int(logLength+1)))
	gl.GetProgramInfoLog(progId, logLength, nil, log)

	errMsg := gl.GoStr(log)
	logging.ErrLog.Println("Linking of shader program with id", progId, "failed. Err:", errMsg)
	return &renderer.ShaderError{Stage: renderer.ShaderStage_Link, Log: errMsg}
}

// drainGlErrors clears pending errors. Bounded since a lost context can keep reporting errors
func drainGlErrors() {
	for i := 0; i < 32 && gl.GetError() != gl.NO_ERROR; i++ {
	}
}
