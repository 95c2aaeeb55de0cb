package effects

import (
	"fmt"

	"github.com/bloeys/cubefx/buffers"
	"github.com/bloeys/cubefx/meshes"
	"github.com/bloeys/cubefx/renderer"
	"github.com/bloeys/cubefx/shaders"
	"github.com/bloeys/gglm/gglm"
)

// CubeVertShaderSrc is the vertex stage of every cube effect. Fragment stages get the object space
// position of the cube as 'in vec3 pos', which is also the direction to sample a cube map with.
const CubeVertShaderSrc = `uniform mat4 viewProjection;
in vec3 position;
out vec3 pos;

void main()
{
    pos = position;
    gl_Position = viewProjection * vec4(position, 1.0);
}
`

var (
	cubeFovRad float32 = 90 * gglm.Deg2Rad
)

const (
	cubeNearClip     = 0.1
	cubeFarClip      = 10.0
	viewProjUnifName = "viewProjection"
	positionAttrName = "position"
)

// CubeEffect renders a fragment shader into the sides of a cube map.
// It draws a unit cube around a camera at the origin with a 90 degree fov, so each side sees exactly one face of the cube.
//
// The cube faces point outwards, so render with Cull_None or Cull_Front.
type CubeEffect struct {
	ctx       renderer.TargetContext
	program   *shaders.ShaderProgram
	positions buffers.VertexBuffer
}

// Program gives access to the program, e.g. to set the fragment shader's own uniforms before rendering
func (e *CubeEffect) Program() *shaders.ShaderProgram {
	return e.program
}

// Render draws the effect to side. The destination face must already be bound as the render target by the caller,
// for example with buffers.CubemapFramebuffer.BindFace.
func (e *CubeEffect) Render(side renderer.CubeMapSide, states renderer.RenderStates, viewport renderer.Viewport) error {

	if e.program == nil || e.program.Id == 0 {
		return fmt.Errorf("cube effect was deleted: %w", renderer.ErrContextState)
	}

	if !side.IsValid() {
		return fmt.Errorf("unknown cube map side %d: %w", side, renderer.ErrContextState)
	}

	if viewport.IsEmpty() {
		return fmt.Errorf("cube effect render to empty viewport %+v: %w", viewport, renderer.ErrContextState)
	}

	if !e.ctx.IsRenderTargetComplete() {
		return fmt.Errorf("cube effect render to side %s without a complete render target: %w", side, renderer.ErrContextState)
	}

	viewProjMat := SideViewProjection(side, viewport)
	if err := e.program.SetUnifMat4(viewProjUnifName, &viewProjMat); err != nil {
		return err
	}

	if err := e.program.UseAttribVec3(positionAttrName, &e.positions); err != nil {
		return err
	}

	e.program.DrawArrays(states, viewport, meshes.CubeVertexCount)
	return nil
}

// RenderToMipLevel draws the effect to side exactly like Render.
//
// mipLevel is not used to pick the destination: the caller's render target binding selects the mip level
// (see buffers.CubemapFramebuffer.BindFace). It is here so calls mirror the target being written.
func (e *CubeEffect) RenderToMipLevel(side renderer.CubeMapSide, mipLevel uint32, states renderer.RenderStates, viewport renderer.Viewport) error {
	return e.Render(side, states, viewport)
}

// RenderCubemap binds each side of fbo at mipLevel in turn and renders the effect into it.
// It stops at the first error and leaves fbo bound either way.
func (e *CubeEffect) RenderCubemap(fbo *buffers.CubemapFramebuffer, mipLevel uint32, states renderer.RenderStates) error {

	for _, side := range renderer.CubeMapSides {

		viewport, err := fbo.BindFace(side, mipLevel)
		if err != nil {
			return err
		}

		if err := e.RenderToMipLevel(side, mipLevel, states, viewport); err != nil {
			return fmt.Errorf("rendering side %s at mip %d: %w", side, mipLevel, err)
		}
	}

	return nil
}

// Delete frees the program and vertex buffer. Calling it more than once is a no-op
func (e *CubeEffect) Delete() {

	if e.program != nil {
		e.program.Delete()
	}

	e.positions.Delete()
}

// SideViewProjection is the projection*view matrix Render uses for side
func SideViewProjection(side renderer.CubeMapSide, viewport renderer.Viewport) gglm.Mat4 {

	projMat := gglm.Perspective(cubeFovRad, viewport.Aspect(), cubeNearClip, cubeFarClip)
	viewMat := side.View()

	return *projMat.Clone().Mul(&viewMat)
}

// NewCubeEffect compiles fragShaderSrc against CubeVertShaderSrc and uploads the cube.
// Errors wrap renderer.ErrShaderCompilation or renderer.ErrResourceAllocation and nothing stays allocated.
func NewCubeEffect(ctx renderer.Context, fragShaderSrc string) (*CubeEffect, error) {

	program, err := shaders.NewShaderProgram(ctx, CubeVertShaderSrc, fragShaderSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to create cube effect: %w", err)
	}

	cube := meshes.NewCube()
	positions, err := buffers.NewVertexBuffer(ctx, renderer.BufUsage_Static_Draw, cube.PositionData(), buffers.Element{ElementType: buffers.DataTypeVec3})
	if err != nil {
		program.Delete()
		return nil, fmt.Errorf("failed to create cube effect: %w", err)
	}

	return &CubeEffect{
		ctx:       ctx,
		program:   program,
		positions: positions,
	}, nil
}
