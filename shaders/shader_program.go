package shaders

import (
	"fmt"

	"github.com/bloeys/cubefx/buffers"
	"github.com/bloeys/cubefx/renderer"
	"github.com/bloeys/gglm/gglm"
)

// ShaderProgram is a linked vertex+fragment program. Uniform and attribute locations are looked up once and cached
type ShaderProgram struct {
	Id uint32

	ctx        renderer.ProgramContext
	unifLocs   map[string]int32
	attribLocs map[string]int32
}

func (sp *ShaderProgram) GetUnifLoc(uniformName string) (int32, error) {

	loc, ok := sp.unifLocs[uniformName]
	if !ok {
		loc = sp.ctx.GetUniformLocation(sp.Id, uniformName)
		sp.unifLocs[uniformName] = loc
	}

	if loc == -1 {
		return -1, fmt.Errorf("uniform '%s' doesn't exist on shader program %d: %w", uniformName, sp.Id, renderer.ErrUniformBinding)
	}

	return loc, nil
}

func (sp *ShaderProgram) GetAttribLoc(attribName string) (int32, error) {

	loc, ok := sp.attribLocs[attribName]
	if !ok {
		loc = sp.ctx.GetAttribLocation(sp.Id, attribName)
		sp.attribLocs[attribName] = loc
	}

	if loc == -1 {
		return -1, fmt.Errorf("attribute '%s' doesn't exist on shader program %d: %w", attribName, sp.Id, renderer.ErrUniformBinding)
	}

	return loc, nil
}

// HasUniform is true if uniformName is an active uniform of the program
func (sp *ShaderProgram) HasUniform(uniformName string) bool {
	_, err := sp.GetUnifLoc(uniformName)
	return err == nil
}

func (sp *ShaderProgram) SetUnifInt32(uniformName string, val int32) error {

	loc, err := sp.GetUnifLoc(uniformName)
	if err != nil {
		return err
	}

	sp.ctx.SetUniformInt32(sp.Id, loc, val)
	return nil
}

func (sp *ShaderProgram) SetUnifFloat32(uniformName string, val float32) error {

	loc, err := sp.GetUnifLoc(uniformName)
	if err != nil {
		return err
	}

	sp.ctx.SetUniformFloat32(sp.Id, loc, val)
	return nil
}

func (sp *ShaderProgram) SetUnifVec4(uniformName string, vec4 *gglm.Vec4) error {

	loc, err := sp.GetUnifLoc(uniformName)
	if err != nil {
		return err
	}

	sp.ctx.SetUniformVec4(sp.Id, loc, vec4)
	return nil
}

func (sp *ShaderProgram) SetUnifMat4(uniformName string, mat4 *gglm.Mat4) error {

	loc, err := sp.GetUnifLoc(uniformName)
	if err != nil {
		return err
	}

	sp.ctx.SetUniformMat4(sp.Id, loc, mat4)
	return nil
}

// UseAttribVec3 sources the vec3 attribute attribName from the first element of vb, which must be a Vec3
func (sp *ShaderProgram) UseAttribVec3(attribName string, vb *buffers.VertexBuffer) error {

	layout := vb.GetLayout()
	if len(layout) == 0 || layout[0].ElementType != buffers.DataTypeVec3 {
		return fmt.Errorf("attribute '%s' needs a Vec3 buffer but buffer %d has layout %v: %w", attribName, vb.Id, layout, renderer.ErrUniformBinding)
	}

	loc, err := sp.GetAttribLoc(attribName)
	if err != nil {
		return err
	}

	sp.ctx.UseAttribute(sp.Id, loc, vb.Id, layout[0].CompCount(), vb.Stride, int32(layout[0].Offset))
	return nil
}

// DrawArrays draws count vertices from the start of the bound attributes
func (sp *ShaderProgram) DrawArrays(states renderer.RenderStates, viewport renderer.Viewport, count int32) {
	sp.ctx.DrawArrays(sp.Id, states, viewport, 0, count)
}

// Delete frees the program. Calling it more than once is a no-op
func (sp *ShaderProgram) Delete() {

	if sp.Id == 0 {
		return
	}

	sp.ctx.DeleteProgram(sp.Id)
	sp.Id = 0
	clear(sp.unifLocs)
	clear(sp.attribLocs)
}
