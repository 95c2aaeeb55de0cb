package materials

import (
	"testing"

	"github.com/bloeys/cubefx/renderer"
	"github.com/bloeys/cubefx/renderer/rendtest"
	"github.com/bloeys/cubefx/shaders"
	"github.com/bloeys/cubefx/textures"
	"github.com/bloeys/gglm/gglm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testVertSrc = `in vec3 position;
out vec3 pos;

void main()
{
    pos = position;
}
`

	testFragSrc = `struct Material {
    sampler2D diffuse;
    vec4 color;
    int useTexture;
    float diffuseIntensity;
    float specularPower;
};

uniform Material material;
in vec3 pos;
out vec4 fragColor;

void main()
{
    fragColor = material.color;
}
`
)

func newTestImage() *textures.Image {
	return &textures.Image{
		Width:  1,
		Height: 1,
		Format: renderer.PixelFormat_RGBA8,
		Pix:    []byte{10, 20, 30, 255},
	}
}

func float32Ptr(v float32) *float32 {
	return &v
}

func TestNewMaterialImageTakesPrecedence(t *testing.T) {

	ctx := rendtest.NewContext()
	color := gglm.NewVec4(1, 0, 0, 1)

	mat, err := NewMaterial(ctx, &CPUMaterial{Name: "brick", Color: &color, Image: newTestImage()})
	require.NoError(t, err)

	assert.Equal(t, "brick", mat.Name)
	assert.Equal(t, ColorSourceKind_Texture, mat.ColorSource.Kind)
	require.NotNil(t, mat.ColorSource.Texture)
	assert.Equal(t, 1, ctx.LiveTextureCount())

	mat.Delete()
	mat.Delete()
	assert.Equal(t, 0, ctx.LiveTextureCount())
}

func TestNewMaterialColor(t *testing.T) {

	ctx := rendtest.NewContext()
	color := gglm.NewVec4(0.2, 0.4, 0.6, 1)

	mat, err := NewMaterial(ctx, &CPUMaterial{Name: "paint", Color: &color})
	require.NoError(t, err)
	assert.Equal(t, ColorSourceKind_Color, mat.ColorSource.Kind)
	assert.Equal(t, color, mat.ColorSource.Color)

	// The material has its own copy of the color
	color.Data[0] = 9
	assert.Equal(t, float32(0.2), mat.ColorSource.Color.Data[0])

	assert.Equal(t, 0, ctx.LiveTextureCount())
}

func TestNewMaterialDefaultsToWhite(t *testing.T) {

	ctx := rendtest.NewContext()
	mat, err := NewMaterial(ctx, &CPUMaterial{Name: "plain"})
	require.NoError(t, err)

	assert.Equal(t, ColorSourceKind_Color, mat.ColorSource.Kind)
	assert.Equal(t, gglm.NewVec4(1, 1, 1, 1), mat.ColorSource.Color)
	assert.Nil(t, mat.DiffuseIntensity)
	assert.Nil(t, mat.SpecularIntensity)
	assert.Nil(t, mat.SpecularPower)
}

func TestNewMaterialCopiesScalars(t *testing.T) {

	ctx := rendtest.NewContext()
	cpuMat := &CPUMaterial{
		Name:              "shiny",
		DiffuseIntensity:  float32Ptr(0.8),
		SpecularIntensity: float32Ptr(0.5),
	}

	mat, err := NewMaterial(ctx, cpuMat)
	require.NoError(t, err)

	require.NotNil(t, mat.DiffuseIntensity)
	assert.Equal(t, float32(0.8), *mat.DiffuseIntensity)
	assert.Equal(t, float32(0.5), *mat.SpecularIntensity)
	assert.Nil(t, mat.SpecularPower)

	*cpuMat.DiffuseIntensity = 0
	assert.Equal(t, float32(0.8), *mat.DiffuseIntensity)
}

func TestNewMaterialUploadFailure(t *testing.T) {

	ctx := rendtest.NewContext()
	ctx.FailTextureAlloc = true

	mat, err := NewMaterial(ctx, &CPUMaterial{Name: "brick", Image: newTestImage()})
	assert.ErrorIs(t, err, renderer.ErrTextureUpload)
	assert.Nil(t, mat)
	assert.Equal(t, 0, ctx.LiveTextureCount())

	badImg := newTestImage()
	badImg.Pix = nil
	ctx.FailTextureAlloc = false

	_, err = NewMaterial(ctx, &CPUMaterial{Name: "broken", Image: badImg})
	assert.ErrorIs(t, err, renderer.ErrTextureUpload)
	assert.Equal(t, 0, ctx.LiveTextureCount())
}

func TestDefaultMaterial(t *testing.T) {

	a := DefaultMaterial()
	b := DefaultMaterial()

	assert.Equal(t, "default", a.Name)
	assert.Equal(t, ColorSourceKind_Color, a.ColorSource.Kind)
	assert.Equal(t, gglm.NewVec4(1, 1, 1, 1), a.ColorSource.Color)
	assert.NotEqual(t, a.Id, b.Id)
}

func TestMaterialClone(t *testing.T) {

	ctx := rendtest.NewContext()
	mat, err := NewMaterial(ctx, &CPUMaterial{Name: "brick", Image: newTestImage(), SpecularPower: float32Ptr(32)})
	require.NoError(t, err)

	clone, err := mat.Clone()
	require.NoError(t, err)
	assert.NotEqual(t, mat.Id, clone.Id)
	assert.Same(t, mat.ColorSource.Texture, clone.ColorSource.Texture)
	assert.Equal(t, int32(2), mat.ColorSource.Texture.RefCount())
	assert.NotSame(t, mat.SpecularPower, clone.SpecularPower)

	mat.Delete()
	assert.Equal(t, 1, ctx.LiveTextureCount())

	clone.Delete()
	assert.Equal(t, 0, ctx.LiveTextureCount())
}

func TestMaterialCloneDeleted(t *testing.T) {

	ctx := rendtest.NewContext()
	texMat, err := NewMaterial(ctx, &CPUMaterial{Name: "brick", Image: newTestImage()})
	require.NoError(t, err)
	tex := texMat.ColorSource.Texture

	texMat.Delete()
	clone, err := texMat.Clone()
	assert.ErrorIs(t, err, renderer.ErrContextState)
	assert.Nil(t, clone)
	assert.False(t, tex.IsAlive())
	assert.Equal(t, int32(0), tex.RefCount())
	assert.Equal(t, 0, ctx.LiveTextureCount())

	colorMat, err := NewMaterial(ctx, &CPUMaterial{Name: "plain"})
	require.NoError(t, err)
	colorMat.Delete()

	clone, err = colorMat.Clone()
	assert.ErrorIs(t, err, renderer.ErrContextState)
	assert.Nil(t, clone)
}

func TestMaterialCopySharesDeletion(t *testing.T) {

	ctx := rendtest.NewContext()
	resolver := NewResolver(ctx)
	img := newTestImage()

	a, err := resolver.Resolve(&CPUMaterial{Name: "a", Image: img})
	require.NoError(t, err)
	b, err := resolver.Resolve(&CPUMaterial{Name: "b", Image: img})
	require.NoError(t, err)

	aCopy := *a
	a.Delete()
	aCopy.Delete()

	assert.True(t, b.ColorSource.Texture.IsAlive())
	assert.Equal(t, int32(1), b.ColorSource.Texture.RefCount())
	assert.Equal(t, 1, ctx.LiveTextureCount())

	b.Delete()
	assert.Equal(t, 0, ctx.LiveTextureCount())
}

func assertLinearRepeatDesc(t *testing.T, ctx *rendtest.Context, mat *Material) {

	t.Helper()

	require.True(t, mat.ColorSource.IsTexture())
	gpuTex := ctx.Textures[mat.ColorSource.Texture.TexID]
	require.NotNil(t, gpuTex)

	desc := gpuTex.Desc
	assert.Equal(t, renderer.Interpolation_Linear, desc.MinFilter)
	assert.Equal(t, renderer.Interpolation_Linear, desc.MagFilter)
	assert.Equal(t, renderer.Interpolation_Linear, desc.MipFilter)
	assert.Equal(t, renderer.Wrapping_Repeat, desc.WrapS)
	assert.Equal(t, renderer.Wrapping_Repeat, desc.WrapT)
	assert.Equal(t, renderer.PixelFormat_RGBA8, desc.Format)
	assert.Equal(t, uint32(1), desc.Width)
	assert.Equal(t, uint32(1), desc.Height)
}

func TestMaterialTextureParams(t *testing.T) {

	ctx := rendtest.NewContext()

	mat, err := NewMaterial(ctx, &CPUMaterial{Name: "brick", Image: newTestImage()})
	require.NoError(t, err)
	assertLinearRepeatDesc(t, ctx, mat)

	resolved, err := NewResolver(ctx).Resolve(&CPUMaterial{Name: "tile", Image: newTestImage()})
	require.NoError(t, err)
	assertLinearRepeatDesc(t, ctx, resolved)
}

func TestResolverSharesTextures(t *testing.T) {

	ctx := rendtest.NewContext()
	resolver := NewResolver(ctx)
	img := newTestImage()

	a, err := resolver.Resolve(&CPUMaterial{Name: "a", Image: img})
	require.NoError(t, err)
	b, err := resolver.Resolve(&CPUMaterial{Name: "b", Image: img})
	require.NoError(t, err)

	assert.Same(t, a.ColorSource.Texture, b.ColorSource.Texture)
	assert.Equal(t, 1, ctx.LiveTextureCount())
	assert.Equal(t, 1, resolver.CachedTextureCount())

	// Each material holds its own reference
	a.Delete()
	assert.Equal(t, 1, ctx.LiveTextureCount())
	assert.True(t, b.ColorSource.Texture.IsAlive())

	b.Delete()
	assert.Equal(t, 0, ctx.LiveTextureCount())
	assert.Equal(t, 0, resolver.CachedTextureCount())

	// The image is uploaded again once its texture was freed
	c, err := resolver.Resolve(&CPUMaterial{Name: "c", Image: img})
	require.NoError(t, err)
	assert.True(t, c.ColorSource.Texture.IsAlive())
	assert.Equal(t, 1, ctx.LiveTextureCount())
	c.Delete()
}

func TestResolverDistinctImages(t *testing.T) {

	ctx := rendtest.NewContext()
	resolver := NewResolver(ctx)

	a, err := resolver.Resolve(&CPUMaterial{Name: "a", Image: newTestImage()})
	require.NoError(t, err)
	b, err := resolver.Resolve(&CPUMaterial{Name: "b", Image: newTestImage()})
	require.NoError(t, err)
	c, err := resolver.Resolve(&CPUMaterial{Name: "c"})
	require.NoError(t, err)

	assert.NotSame(t, a.ColorSource.Texture, b.ColorSource.Texture)
	assert.Equal(t, ColorSourceKind_Color, c.ColorSource.Kind)
	assert.Equal(t, 2, ctx.LiveTextureCount())

	ctx.FailTextureAlloc = true
	_, err = resolver.Resolve(&CPUMaterial{Name: "d", Image: newTestImage()})
	assert.ErrorIs(t, err, renderer.ErrTextureUpload)
	assert.Equal(t, 2, resolver.CachedTextureCount())
}

func TestMaterialBind(t *testing.T) {

	ctx := rendtest.NewContext()
	prog, err := shaders.NewShaderProgram(ctx, testVertSrc, testFragSrc)
	require.NoError(t, err)

	color := gglm.NewVec4(0, 1, 0, 1)
	colorMat, err := NewMaterial(ctx, &CPUMaterial{Name: "green", Color: &color, DiffuseIntensity: float32Ptr(0.5), SpecularIntensity: float32Ptr(0.1)})
	require.NoError(t, err)

	require.NoError(t, colorMat.Bind(prog))
	values := ctx.Programs[prog.Id].UniformValues
	assert.Equal(t, color, values["material.color"])
	assert.Equal(t, int32(0), values["material.useTexture"])
	assert.Equal(t, float32(0.5), values["material.diffuseIntensity"])
	assert.NotContains(t, values, "material.specularPower")

	texMat, err := NewMaterial(ctx, &CPUMaterial{Name: "brick", Image: newTestImage()})
	require.NoError(t, err)

	require.NoError(t, texMat.Bind(prog))
	assert.Equal(t, int32(1), values["material.useTexture"])
	assert.Equal(t, int32(TextureSlot_Diffuse), values["material.diffuse"])
	assert.Equal(t, texMat.ColorSource.Texture.TexID, ctx.BoundTextures[uint32(TextureSlot_Diffuse)])

	texMat.Delete()
	assert.ErrorIs(t, texMat.Bind(prog), renderer.ErrContextState)
}

func TestMaterialBindMissingUniform(t *testing.T) {

	ctx := rendtest.NewContext()
	prog, err := shaders.NewShaderProgram(ctx, testVertSrc, "out vec4 fragColor;\nvoid main() {}")
	require.NoError(t, err)

	err = DefaultMaterial().Bind(prog)
	assert.ErrorIs(t, err, renderer.ErrUniformBinding)
}
