package renderer

import (
	"testing"

	"github.com/bloeys/gglm/gglm"
	"github.com/stretchr/testify/assert"
)

func dot3(a, b gglm.Vec3) float32 {
	return a.Data[0]*b.Data[0] + a.Data[1]*b.Data[1] + a.Data[2]*b.Data[2]
}

// mulDir transforms a direction (w=0) by m, which is column major
func mulDir(m gglm.Mat4, v gglm.Vec3) [3]float32 {

	out := [3]float32{}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out[row] += m.Data[col][row] * v.Data[col]
		}
	}

	return out
}

func TestCubeMapSideBasis(t *testing.T) {

	seen := map[[3]float32]bool{}
	for _, side := range CubeMapSides {

		assert.True(t, side.IsValid())

		dir := side.Direction()
		up := side.Up()
		assert.Equal(t, float32(1), dot3(dir, dir), side.String())
		assert.Equal(t, float32(1), dot3(up, up), side.String())
		assert.Equal(t, float32(0), dot3(dir, up), side.String())

		assert.False(t, seen[dir.Data], "direction of %s repeated", side)
		seen[dir.Data] = true
	}

	assert.Len(t, seen, 6)
	assert.False(t, CubeMapSide(6).IsValid())
	assert.False(t, CubeMapSide(-1).IsValid())
}

func TestCubeMapSideGlOrder(t *testing.T) {

	assert.Equal(t, CubeMapSide(0), CubeMapSide_PositiveX)
	assert.Equal(t, CubeMapSide(5), CubeMapSide_NegativeZ)

	assert.Equal(t, [3]float32{0, -1, 0}, CubeMapSide_PositiveX.Up().Data)
	assert.Equal(t, [3]float32{0, 0, 1}, CubeMapSide_PositiveY.Up().Data)
	assert.Equal(t, [3]float32{0, 0, -1}, CubeMapSide_NegativeY.Up().Data)
	assert.Equal(t, [3]float32{0, -1, 0}, CubeMapSide_NegativeZ.Up().Data)
}

func TestCubeMapSideView(t *testing.T) {

	for _, side := range CubeMapSides {

		view := side.View()

		// Right handed view space looks down -z with +y up
		forward := mulDir(view, side.Direction())
		assert.InDeltaSlice(t, []float32{0, 0, -1}, forward[:], 1e-5, side.String())

		up := mulDir(view, side.Up())
		assert.InDeltaSlice(t, []float32{0, 1, 0}, up[:], 1e-5, side.String())

		// Camera sits at the origin so there is no translation
		assert.InDeltaSlice(t, []float32{0, 0, 0}, view.Data[3][:3], 1e-5, side.String())
	}
}

func TestCubeMapSideString(t *testing.T) {

	names := []string{}
	for _, side := range CubeMapSides {
		names = append(names, side.String())
	}

	assert.Equal(t, []string{"+x", "-x", "+y", "-y", "+z", "-z"}, names)
	assert.Equal(t, "unknown", CubeMapSide(42).String())
	assert.Panics(t, func() { CubeMapSide(42).Direction() })
}
