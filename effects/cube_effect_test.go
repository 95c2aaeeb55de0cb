package effects

import (
	"testing"

	"github.com/bloeys/cubefx/buffers"
	"github.com/bloeys/cubefx/meshes"
	"github.com/bloeys/cubefx/renderer"
	"github.com/bloeys/cubefx/renderer/rendtest"
	"github.com/bloeys/gglm/gglm"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	skyFragSrc = `uniform vec4 skyColor;
in vec3 pos;
out vec4 fragColor;

void main()
{
    fragColor = skyColor * normalize(pos).y;
}
`
)

var testStates = renderer.RenderStates{
	DepthTest: renderer.DepthTest_Always,
	Cull:      renderer.Cull_None,
}

func newTestEffect(t *testing.T) (*rendtest.Context, *CubeEffect) {

	t.Helper()

	ctx := rendtest.NewContext()
	effect, err := NewCubeEffect(ctx, skyFragSrc)
	require.NoError(t, err)

	return ctx, effect
}

// clipPos transforms the point p by the column major m
func clipPos(m gglm.Mat4, p [3]float32) [4]float32 {

	in := [4]float32{p[0], p[1], p[2], 1}
	out := [4]float32{}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row] += m.Data[col][row] * in[col]
		}
	}

	return out
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func TestNewCubeEffect(t *testing.T) {

	ctx, effect := newTestEffect(t)

	require.NotNil(t, effect.Program())
	assert.Equal(t, 1, ctx.LiveProgramCount())
	assert.Equal(t, 1, ctx.LiveBufferCount())

	buf := ctx.Buffers[effect.positions.Id]
	require.NotNil(t, buf)
	assert.Len(t, buf.Data, meshes.CubeVertexCount*3)
	assert.Equal(t, renderer.BufUsage_Static_Draw, buf.Usage)

	effect.Delete()
	effect.Delete()
	assert.Equal(t, 0, ctx.LiveProgramCount())
	assert.Equal(t, 0, ctx.LiveBufferCount())
}

func TestCubeEffectRender(t *testing.T) {

	ctx, effect := newTestEffect(t)
	fbo, err := buffers.NewCubemapFramebuffer(ctx, 32, 1)
	require.NoError(t, err)

	for _, side := range renderer.CubeMapSides {

		vp, err := fbo.BindFace(side, 0)
		require.NoError(t, err)
		require.NoError(t, effect.Render(side, testStates, vp))

		draw := ctx.LastDraw()
		require.NotNil(t, draw)
		assert.Equal(t, effect.Program().Id, draw.ProgId)
		assert.Equal(t, fbo.Id, draw.FboId)
		assert.Equal(t, side, draw.Side)
		assert.Equal(t, int32(0), draw.First)
		assert.Equal(t, int32(36), draw.Count)
		assert.Equal(t, vp, draw.Viewport)
		assert.Equal(t, testStates, draw.States)

		assert.Equal(t, SideViewProjection(side, vp), draw.Uniforms["viewProjection"])
		assert.Equal(t, rendtest.AttribBinding{BufId: effect.positions.Id, CompCount: 3, Stride: 12}, draw.Attribs["position"])
	}

	assert.Len(t, ctx.Draws, 6)
}

func TestCubeEffectRenderToMipLevelMatchesRender(t *testing.T) {

	ctx, effect := newTestEffect(t)
	vp := renderer.NewViewportAtOrigin(16, 16)

	for _, side := range renderer.CubeMapSides {

		require.NoError(t, effect.Render(side, testStates, vp))
		require.NoError(t, effect.RenderToMipLevel(side, 3, testStates, vp))

		n := len(ctx.Draws)
		assert.Equal(t, ctx.Draws[n-2], ctx.Draws[n-1], side.String())
	}
}

func TestSideViewProjectionCentres(t *testing.T) {

	vp := renderer.NewViewportAtOrigin(64, 64)
	for _, side := range renderer.CubeMapSides {

		viewProj := SideViewProjection(side, vp)
		dir := side.Direction().Data
		up := side.Up().Data

		// The side's direction lands in the middle of the face, in front of the camera
		centre := clipPos(viewProj, dir)
		assert.Greater(t, centre[3], float32(0), side.String())
		assert.InDelta(t, 0, centre[0]/centre[3], 1e-5, side.String())
		assert.InDelta(t, 0, centre[1]/centre[3], 1e-5, side.String())

		// Up is towards the top of the face
		upPos := clipPos(viewProj, [3]float32{dir[0] + 0.5*up[0], dir[1] + 0.5*up[1], dir[2] + 0.5*up[2]})
		assert.InDelta(t, 0, upPos[0]/upPos[3], 1e-5, side.String())
		assert.Greater(t, upPos[1]/upPos[3], float32(0), side.String())

		// Right is dir x up
		right := cross(dir, up)
		rightPos := clipPos(viewProj, [3]float32{dir[0] + 0.5*right[0], dir[1] + 0.5*right[1], dir[2] + 0.5*right[2]})
		assert.Greater(t, rightPos[0]/rightPos[3], float32(0), side.String())
		assert.InDelta(t, 0, rightPos[1]/rightPos[3], 1e-5, side.String())

		// The face corners are exactly on the edges with a 90 degree fov
		corner := clipPos(viewProj, [3]float32{dir[0] + up[0] + right[0], dir[1] + up[1] + right[1], dir[2] + up[2] + right[2]})
		assert.InDelta(t, 1, corner[0]/corner[3], 1e-4, side.String())
		assert.InDelta(t, 1, corner[1]/corner[3], 1e-4, side.String())

		// The opposite direction is behind the camera
		behind := clipPos(viewProj, [3]float32{-dir[0], -dir[1], -dir[2]})
		assert.Less(t, behind[3], float32(0), side.String())
	}
}

func TestSideViewProjectionMatchesMathgl(t *testing.T) {

	vp := renderer.NewViewportAtOrigin(128, 64)
	proj := mgl32.Perspective(mgl32.DegToRad(90), 2, cubeNearClip, cubeFarClip)

	for _, side := range renderer.CubeMapSides {

		dir := side.Direction().Data
		up := side.Up().Data
		view := mgl32.LookAtV(mgl32.Vec3{}, mgl32.Vec3(dir), mgl32.Vec3(up))
		expected := proj.Mul4(view)

		got := SideViewProjection(side, vp)
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				assert.InDelta(t, expected.At(row, col), got.Data[col][row], 1e-5, "side %s, row %d, col %d", side, row, col)
			}
		}
	}
}

func TestCubeEffectRenderCubemap(t *testing.T) {

	ctx, effect := newTestEffect(t)
	fbo, err := buffers.NewCubemapFramebuffer(ctx, 64, 3)
	require.NoError(t, err)

	for mip := uint32(0); mip < 3; mip++ {
		require.NoError(t, effect.RenderCubemap(fbo, mip, testStates))
	}
	require.Len(t, ctx.Draws, 18)

	for i, draw := range ctx.Draws {

		mip := uint32(i / 6)
		side := renderer.CubeMapSides[i%6]
		size := fbo.MipSize(mip)

		assert.Equal(t, mip, draw.MipLevel)
		assert.Equal(t, side, draw.Side)
		assert.Equal(t, renderer.NewViewportAtOrigin(size, size), draw.Viewport)
	}

	// Every face of every mip was drawn exactly once
	for mip := uint32(0); mip < 3; mip++ {
		for _, side := range renderer.CubeMapSides {
			pix, err := fbo.ReadFace(side, mip)
			require.NoError(t, err)
			assert.Equal(t, byte(1), pix[0])
		}
	}

	assert.ErrorIs(t, effect.RenderCubemap(fbo, 3, testStates), renderer.ErrContextState)
}

func TestNewCubeEffectMalformedShader(t *testing.T) {

	ctx := rendtest.NewContext()

	effect, err := NewCubeEffect(ctx, "out vec4 fragColor;\nvoid main() { fragColor = vec4(1.0; }")
	assert.ErrorIs(t, err, renderer.ErrShaderCompilation)
	assert.Nil(t, effect)

	// Reads a varying the cube vertex stage doesn't provide
	_, err = NewCubeEffect(ctx, "in vec2 uv;\nout vec4 fragColor;\nvoid main() {}")
	assert.ErrorIs(t, err, renderer.ErrShaderCompilation)

	assert.Equal(t, 0, ctx.LiveProgramCount())
	assert.Equal(t, 0, ctx.LiveBufferCount())
}

func TestNewCubeEffectBufferFailure(t *testing.T) {

	ctx := rendtest.NewContext()
	ctx.FailBufferAlloc = true

	_, err := NewCubeEffect(ctx, skyFragSrc)
	assert.ErrorIs(t, err, renderer.ErrResourceAllocation)
	assert.Equal(t, 0, ctx.LiveProgramCount())
}

func TestCubeEffectStrippedInputs(t *testing.T) {

	vp := renderer.NewViewportAtOrigin(8, 8)

	for _, name := range []string{"viewProjection", "position"} {

		ctx := rendtest.NewContext()
		ctx.StrippedInputs[name] = true

		effect, err := NewCubeEffect(ctx, skyFragSrc)
		require.NoError(t, err)

		err = effect.Render(renderer.CubeMapSide_PositiveX, testStates, vp)
		assert.ErrorIs(t, err, renderer.ErrUniformBinding, name)
		assert.Empty(t, ctx.Draws, name)
	}
}

func TestCubeEffectRenderContextErrors(t *testing.T) {

	ctx, effect := newTestEffect(t)
	vp := renderer.NewViewportAtOrigin(8, 8)

	assert.ErrorIs(t, effect.Render(renderer.CubeMapSide_PositiveX, testStates, renderer.Viewport{}), renderer.ErrContextState)
	assert.ErrorIs(t, effect.Render(renderer.CubeMapSide(6), testStates, vp), renderer.ErrContextState)

	ctx.IncompleteTarget = true
	assert.ErrorIs(t, effect.Render(renderer.CubeMapSide_PositiveX, testStates, vp), renderer.ErrContextState)
	ctx.IncompleteTarget = false

	effect.Delete()
	assert.ErrorIs(t, effect.Render(renderer.CubeMapSide_PositiveX, testStates, vp), renderer.ErrContextState)

	assert.Empty(t, ctx.Draws)
}
