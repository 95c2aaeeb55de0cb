// Package rendtest has an in-memory renderer.Context that records everything done to it.
//
// Shaders are not executed. Sources are parsed at the declaration level so that compile/link failures,
// uniform and attribute lookups behave like a real driver for the cases tests care about.
package rendtest

import (
	"fmt"
	"maps"
	"slices"

	"github.com/bloeys/cubefx/renderer"
	"github.com/bloeys/gglm/gglm"
)

var _ renderer.Context = &Context{}

type AttribBinding struct {
	BufId     uint32
	CompCount int32
	Stride    int32
	Offset    int32
}

type Program struct {
	Id      uint32
	VertSrc string
	FragSrc string

	UniformLocs map[string]int32
	AttribLocs  map[string]int32

	UniformValues  map[string]any
	AttribBindings map[string]AttribBinding

	Deleted bool
}

func (p *Program) uniformName(loc int32) (string, bool) {

	for name, l := range p.UniformLocs {
		if l == loc {
			return name, true
		}
	}

	return "", false
}

type Buffer struct {
	Id      uint32
	Data    []float32
	Usage   renderer.BufUsage
	Deleted bool
}

type Texture struct {
	Id   uint32
	Desc renderer.Texture2DDesc
	Pix  []byte

	IsCubemap bool
	MipLevels uint32

	Deleted bool
}

type Framebuffer struct {
	Id        uint32
	CubemapId uint32
	Side      renderer.CubeMapSide
	MipLevel  uint32
	Attached  bool
	Deleted   bool
}

type DrawCall struct {
	ProgId   uint32
	FboId    uint32
	States   renderer.RenderStates
	Viewport renderer.Viewport
	First    int32
	Count    int32

	// Face and mip attached to FboId at draw time. Only meaningful if FboId != 0
	Side     renderer.CubeMapSide
	MipLevel uint32

	// Snapshots taken at draw time
	Uniforms      map[string]any
	Attribs       map[string]AttribBinding
	BoundTextures map[uint32]uint32
}

type Context struct {
	Programs     map[uint32]*Program
	Buffers      map[uint32]*Buffer
	Textures     map[uint32]*Texture
	Framebuffers map[uint32]*Framebuffer
	Draws        []DrawCall

	BoundFboId    uint32
	BoundTextures map[uint32]uint32

	// Failure knobs
	FailBufferAlloc  bool
	FailTextureAlloc bool
	FailTargetAlloc  bool
	IncompleteTarget bool

	// StrippedInputs are uniform/attribute names reported as inactive, like a driver optimizing them out
	StrippedInputs map[string]bool

	lastId uint32
}

func NewContext() *Context {
	return &Context{
		Programs:       map[uint32]*Program{},
		Buffers:        map[uint32]*Buffer{},
		Textures:       map[uint32]*Texture{},
		Framebuffers:   map[uint32]*Framebuffer{},
		BoundTextures:  map[uint32]uint32{},
		StrippedInputs: map[string]bool{},
	}
}

func (c *Context) newId() uint32 {
	c.lastId++
	return c.lastId
}

func (c *Context) CreateProgram(vertShaderSrc, fragShaderSrc string) (uint32, error) {

	vert, errLog := parseStage(vertShaderSrc)
	if errLog != "" {
		return 0, &renderer.ShaderError{Stage: renderer.ShaderStage_Vertex, Log: errLog}
	}

	frag, errLog := parseStage(fragShaderSrc)
	if errLog != "" {
		return 0, &renderer.ShaderError{Stage: renderer.ShaderStage_Fragment, Log: errLog}
	}

	if errLog := linkStages(vert, frag); errLog != "" {
		return 0, &renderer.ShaderError{Stage: renderer.ShaderStage_Link, Log: errLog}
	}

	p := &Program{
		Id:             c.newId(),
		VertSrc:        vertShaderSrc,
		FragSrc:        fragShaderSrc,
		UniformLocs:    map[string]int32{},
		AttribLocs:     map[string]int32{},
		UniformValues:  map[string]any{},
		AttribBindings: map[string]AttribBinding{},
	}

	uniformNames := []string{}
	for _, u := range append(vert.Uniforms, frag.Uniforms...) {
		if !slices.Contains(uniformNames, u.Name) {
			uniformNames = append(uniformNames, u.Name)
		}
	}
	slices.Sort(uniformNames)

	for i, name := range uniformNames {
		p.UniformLocs[name] = int32(i)
	}

	for i, in := range vert.Ins {
		p.AttribLocs[in.Name] = int32(i)
	}

	c.Programs[p.Id] = p
	return p.Id, nil
}

func (c *Context) DeleteProgram(progId uint32) {

	if p, ok := c.Programs[progId]; ok {
		p.Deleted = true
	}
}

func (c *Context) liveProgram(progId uint32) *Program {

	p, ok := c.Programs[progId]
	if !ok || p.Deleted {
		return nil
	}

	return p
}

func (c *Context) GetUniformLocation(progId uint32, uniformName string) int32 {

	p := c.liveProgram(progId)
	if p == nil || c.StrippedInputs[uniformName] {
		return -1
	}

	loc, ok := p.UniformLocs[uniformName]
	if !ok {
		return -1
	}

	return loc
}

func (c *Context) GetAttribLocation(progId uint32, attribName string) int32 {

	p := c.liveProgram(progId)
	if p == nil || c.StrippedInputs[attribName] {
		return -1
	}

	loc, ok := p.AttribLocs[attribName]
	if !ok {
		return -1
	}

	return loc
}

func (c *Context) setUniform(progId uint32, loc int32, val any) {

	p := c.liveProgram(progId)
	if p == nil {
		return
	}

	// Like GL, location -1 is silently ignored
	name, ok := p.uniformName(loc)
	if !ok {
		return
	}

	p.UniformValues[name] = val
}

func (c *Context) SetUniformInt32(progId uint32, loc int32, val int32) {
	c.setUniform(progId, loc, val)
}

func (c *Context) SetUniformFloat32(progId uint32, loc int32, val float32) {
	c.setUniform(progId, loc, val)
}

func (c *Context) SetUniformVec4(progId uint32, loc int32, val *gglm.Vec4) {
	c.setUniform(progId, loc, *val)
}

func (c *Context) SetUniformMat4(progId uint32, loc int32, val *gglm.Mat4) {
	c.setUniform(progId, loc, *val)
}

func (c *Context) UseAttribute(progId uint32, loc int32, bufId uint32, compCount, stride, offset int32) {

	p := c.liveProgram(progId)
	if p == nil {
		return
	}

	for name, l := range p.AttribLocs {
		if l == loc {
			p.AttribBindings[name] = AttribBinding{BufId: bufId, CompCount: compCount, Stride: stride, Offset: offset}
			return
		}
	}
}

func (c *Context) DrawArrays(progId uint32, states renderer.RenderStates, viewport renderer.Viewport, first, count int32) {

	p := c.liveProgram(progId)
	if p == nil {
		panic(fmt.Sprintf("rendtest: draw with unknown or deleted program %d", progId))
	}

	var side renderer.CubeMapSide
	var mipLevel uint32
	if fbo, ok := c.Framebuffers[c.BoundFboId]; ok {
		side = fbo.Side
		mipLevel = fbo.MipLevel
	}

	c.Draws = append(c.Draws, DrawCall{
		ProgId:        progId,
		Side:          side,
		MipLevel:      mipLevel,
		FboId:         c.BoundFboId,
		States:        states,
		Viewport:      viewport,
		First:         first,
		Count:         count,
		Uniforms:      maps.Clone(p.UniformValues),
		Attribs:       maps.Clone(p.AttribBindings),
		BoundTextures: maps.Clone(c.BoundTextures),
	})
}

func (c *Context) CreateBuffer(data []float32, usage renderer.BufUsage) (uint32, error) {

	if c.FailBufferAlloc {
		return 0, fmt.Errorf("rendtest: buffer of %d floats: %w", len(data), renderer.ErrResourceAllocation)
	}

	b := &Buffer{
		Id:    c.newId(),
		Data:  slices.Clone(data),
		Usage: usage,
	}

	c.Buffers[b.Id] = b
	return b.Id, nil
}

func (c *Context) DeleteBuffer(bufId uint32) {

	if b, ok := c.Buffers[bufId]; ok {
		b.Deleted = true
	}
}

func (c *Context) CreateTexture2D(desc renderer.Texture2DDesc, pix []byte) (uint32, error) {

	if !desc.Format.IsValid() {
		return 0, fmt.Errorf("rendtest: unsupported pixel format %d: %w", desc.Format, renderer.ErrTextureUpload)
	}

	if c.FailTextureAlloc {
		return 0, fmt.Errorf("rendtest: %dx%d texture: %w", desc.Width, desc.Height, renderer.ErrTextureUpload)
	}

	t := &Texture{
		Id:   c.newId(),
		Desc: desc,
		Pix:  slices.Clone(pix),
	}

	c.Textures[t.Id] = t
	return t.Id, nil
}

func (c *Context) DeleteTexture(texId uint32) {

	if t, ok := c.Textures[texId]; ok {
		t.Deleted = true
	}
}

func (c *Context) BindTexture2D(slot uint32, texId uint32) {
	c.BoundTextures[slot] = texId
}

func (c *Context) IsRenderTargetComplete() bool {

	if c.IncompleteTarget {
		return false
	}

	if c.BoundFboId == 0 {
		return true
	}

	fbo, ok := c.Framebuffers[c.BoundFboId]
	return ok && !fbo.Deleted && fbo.Attached
}

func (c *Context) CreateCubemap(size, mipLevels uint32) (uint32, error) {

	if c.FailTargetAlloc {
		return 0, fmt.Errorf("rendtest: cubemap of size %d: %w", size, renderer.ErrResourceAllocation)
	}

	t := &Texture{
		Id:        c.newId(),
		Desc:      renderer.Texture2DDesc{Width: size, Height: size, Format: renderer.PixelFormat_RGBA8},
		IsCubemap: true,
		MipLevels: mipLevels,
	}

	c.Textures[t.Id] = t
	return t.Id, nil
}

func (c *Context) CreateFramebuffer() (uint32, error) {

	if c.FailTargetAlloc {
		return 0, fmt.Errorf("rendtest: framebuffer: %w", renderer.ErrResourceAllocation)
	}

	fbo := &Framebuffer{Id: c.newId()}
	c.Framebuffers[fbo.Id] = fbo
	return fbo.Id, nil
}

func (c *Context) DeleteFramebuffer(fboId uint32) {

	if fbo, ok := c.Framebuffers[fboId]; ok {
		fbo.Deleted = true
	}

	if c.BoundFboId == fboId {
		c.BoundFboId = 0
	}
}

func (c *Context) BindFramebuffer(fboId uint32) {
	c.BoundFboId = fboId
}

func (c *Context) AttachCubemapFace(fboId, cubemapId uint32, side renderer.CubeMapSide, mipLevel uint32) error {

	fbo, ok := c.Framebuffers[fboId]
	if !ok || fbo.Deleted {
		return fmt.Errorf("rendtest: unknown framebuffer %d: %w", fboId, renderer.ErrContextState)
	}

	cmap, ok := c.Textures[cubemapId]
	if !ok || cmap.Deleted || !cmap.IsCubemap {
		return fmt.Errorf("rendtest: unknown cubemap %d: %w", cubemapId, renderer.ErrContextState)
	}

	if !side.IsValid() || mipLevel >= cmap.MipLevels {
		return fmt.Errorf("rendtest: face %s mip %d out of range: %w", side, mipLevel, renderer.ErrContextState)
	}

	c.BoundFboId = fboId
	fbo.CubemapId = cubemapId
	fbo.Side = side
	fbo.MipLevel = mipLevel
	fbo.Attached = true
	return nil
}

// ReadPixelsRGBA returns a buffer where every byte is the number of draws made into the bound framebuffer's
// current face/mip, since nothing is rasterized
func (c *Context) ReadPixelsRGBA(x, y int32, width, height uint32) ([]byte, error) {

	if !c.IsRenderTargetComplete() {
		return nil, fmt.Errorf("rendtest: read from incomplete framebuffer %d: %w", c.BoundFboId, renderer.ErrContextState)
	}

	var side renderer.CubeMapSide
	var mipLevel uint32
	if fbo, ok := c.Framebuffers[c.BoundFboId]; ok {
		side = fbo.Side
		mipLevel = fbo.MipLevel
	}

	var drawCount byte
	for i := 0; i < len(c.Draws); i++ {

		d := &c.Draws[i]
		if d.FboId == c.BoundFboId && d.Side == side && d.MipLevel == mipLevel {
			drawCount++
		}
	}

	pix := make([]byte, width*height*4)
	for i := range pix {
		pix[i] = drawCount
	}

	return pix, nil
}

func (c *Context) LastDraw() *DrawCall {

	if len(c.Draws) == 0 {
		return nil
	}

	return &c.Draws[len(c.Draws)-1]
}

func (c *Context) LiveTextureCount() int {

	count := 0
	for _, t := range c.Textures {
		if !t.Deleted && !t.IsCubemap {
			count++
		}
	}

	return count
}

func (c *Context) LiveBufferCount() int {

	count := 0
	for _, b := range c.Buffers {
		if !b.Deleted {
			count++
		}
	}

	return count
}

func (c *Context) LiveProgramCount() int {

	count := 0
	for _, p := range c.Programs {
		if !p.Deleted {
			count++
		}
	}

	return count
}
