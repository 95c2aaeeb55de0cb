package materials

import (
	"fmt"
	"sync/atomic"

	"github.com/bloeys/cubefx/renderer"
	"github.com/bloeys/cubefx/shaders"
	"github.com/bloeys/cubefx/textures"
	"github.com/bloeys/gglm/gglm"
)

var (
	lastMatId atomic.Uint32
)

type TextureSlot uint32

const (
	TextureSlot_Diffuse TextureSlot = 0
)

// CPUMaterial describes a material before it has any GPU resources.
// Image, if set, takes precedence over Color. Nil optionals mean unset.
type CPUMaterial struct {
	Name  string
	Color *gglm.Vec4
	Image *textures.Image

	DiffuseIntensity  *float32
	SpecularIntensity *float32
	SpecularPower     *float32
}

type ColorSourceKind int32

const (
	ColorSourceKind_Color ColorSourceKind = iota
	ColorSourceKind_Texture
)

func (k ColorSourceKind) String() string {

	switch k {
	case ColorSourceKind_Color:
		return "color"
	case ColorSourceKind_Texture:
		return "texture"
	default:
		return "unknown"
	}
}

// ColorSource is where a material's base color comes from. Only the field matching Kind is used
type ColorSource struct {
	Kind    ColorSourceKind
	Color   gglm.Vec4
	Texture *textures.Texture2D
}

func (c *ColorSource) IsTexture() bool {
	return c.Kind == ColorSourceKind_Texture
}

// Material is handled by pointer. Use Clone for another owner of the same texture.
// Plain copies share the deletion state of the original, so deleting both releases the texture once.
type Material struct {
	Id          uint32
	Name        string
	ColorSource ColorSource

	DiffuseIntensity  *float32
	SpecularIntensity *float32
	SpecularPower     *float32

	state *materialState
}

type materialState struct {
	deleted bool
}

func (m *Material) isDeleted() bool {
	return m.state != nil && m.state.deleted
}

// Clone returns a copy sharing the texture, if any, by taking another reference to it.
// Cloning a deleted material fails with renderer.ErrContextState
func (m *Material) Clone() (*Material, error) {

	if m.isDeleted() || (m.ColorSource.IsTexture() && !m.ColorSource.Texture.IsAlive()) {
		return nil, fmt.Errorf("can't clone deleted material '%s' (matId=%d): %w", m.Name, m.Id, renderer.ErrContextState)
	}

	clone := &Material{
		Id:                getNewMatId(),
		Name:              m.Name,
		ColorSource:       m.ColorSource,
		DiffuseIntensity:  cloneOptional(m.DiffuseIntensity),
		SpecularIntensity: cloneOptional(m.SpecularIntensity),
		SpecularPower:     cloneOptional(m.SpecularPower),
		state:             &materialState{},
	}

	if clone.ColorSource.IsTexture() {
		clone.ColorSource.Texture.Retain()
	}

	return clone, nil
}

// Delete releases the material's texture reference. The texture itself is only freed once no material uses it.
// Calling it more than once is a no-op
func (m *Material) Delete() {

	if m.state == nil {
		m.state = &materialState{}
	}

	if m.state.deleted {
		return
	}
	m.state.deleted = true

	if m.ColorSource.IsTexture() {
		m.ColorSource.Texture.Release()
	}
}

// Bind uploads the material to prog.
//
// The program must declare 'material.color' (vec4) for color materials or 'material.diffuse' (sampler2D) for texture materials.
// 'material.useTexture', 'material.diffuseIntensity', 'material.specularIntensity' and 'material.specularPower'
// are set only if the program declares them (and for the scalars, only if the material has them set).
func (m *Material) Bind(prog *shaders.ShaderProgram) error {

	if m.isDeleted() {
		return fmt.Errorf("material '%s' (matId=%d) is deleted: %w", m.Name, m.Id, renderer.ErrContextState)
	}

	useTexture := int32(0)
	if m.ColorSource.IsTexture() {
		useTexture = 1
	}

	if prog.HasUniform("material.useTexture") {
		if err := prog.SetUnifInt32("material.useTexture", useTexture); err != nil {
			return err
		}
	}

	if m.ColorSource.IsTexture() {

		m.ColorSource.Texture.Bind(uint32(TextureSlot_Diffuse))
		if err := prog.SetUnifInt32("material.diffuse", int32(TextureSlot_Diffuse)); err != nil {
			return fmt.Errorf("binding material '%s': %w", m.Name, err)
		}

	} else {

		if err := prog.SetUnifVec4("material.color", &m.ColorSource.Color); err != nil {
			return fmt.Errorf("binding material '%s': %w", m.Name, err)
		}
	}

	optionals := [...]struct {
		name string
		val  *float32
	}{
		{"material.diffuseIntensity", m.DiffuseIntensity},
		{"material.specularIntensity", m.SpecularIntensity},
		{"material.specularPower", m.SpecularPower},
	}

	for _, o := range optionals {

		if o.val == nil || !prog.HasUniform(o.name) {
			continue
		}

		if err := prog.SetUnifFloat32(o.name, *o.val); err != nil {
			return err
		}
	}

	return nil
}

func getNewMatId() uint32 {
	return lastMatId.Add(1)
}

func cloneOptional(v *float32) *float32 {

	if v == nil {
		return nil
	}

	c := *v
	return &c
}

// DefaultMaterial is the opaque white material used when a scene object has no material of its own
func DefaultMaterial() *Material {
	return &Material{
		Id:   getNewMatId(),
		Name: "default",
		ColorSource: ColorSource{
			Kind:  ColorSourceKind_Color,
			Color: gglm.NewVec4(1, 1, 1, 1),
		},
		state: &materialState{},
	}
}

// NewMaterial resolves cpuMat against a live context. Image materials get their own texture,
// use a Resolver to share textures between materials made from the same image.
//
// Errors wrap renderer.ErrTextureUpload, in which case nothing was allocated.
func NewMaterial(ctx renderer.TextureContext, cpuMat *CPUMaterial) (*Material, error) {

	var colorSource ColorSource
	if cpuMat.Image != nil {

		tex, err := textures.NewTexture2D(ctx, cpuMat.Image, textures.LinearRepeatOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to create material '%s': %w", cpuMat.Name, err)
		}

		colorSource = ColorSource{Kind: ColorSourceKind_Texture, Texture: tex}

	} else {

		colorSource = ColorSource{Kind: ColorSourceKind_Color, Color: gglm.NewVec4(1, 1, 1, 1)}
		if cpuMat.Color != nil {
			colorSource.Color = *cpuMat.Color
		}
	}

	return newMaterialWithSource(cpuMat, colorSource), nil
}

func newMaterialWithSource(cpuMat *CPUMaterial, colorSource ColorSource) *Material {
	return &Material{
		Id:                getNewMatId(),
		Name:              cpuMat.Name,
		ColorSource:       colorSource,
		DiffuseIntensity:  cloneOptional(cpuMat.DiffuseIntensity),
		SpecularIntensity: cloneOptional(cpuMat.SpecularIntensity),
		SpecularPower:     cloneOptional(cpuMat.SpecularPower),
		state:             &materialState{},
	}
}
