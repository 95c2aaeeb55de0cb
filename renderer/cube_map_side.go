package renderer

import (
	"github.com/bloeys/gglm/gglm"
)

// CubeMapSide is one of the six faces of a cube map, in OpenGL face order
// (so GL_TEXTURE_CUBE_MAP_POSITIVE_X + side is the face target).
//
// Each side looks from the cube centre along Direction() with Up() as the up vector.
// This is the orientation OpenGL uses when sampling a samplerCube, so a face rendered with View()
// is sampled back unflipped:
//
//	+X: dir=(1,0,0)   up=(0,-1,0)
//	-X: dir=(-1,0,0)  up=(0,-1,0)
//	+Y: dir=(0,1,0)   up=(0,0,1)
//	-Y: dir=(0,-1,0)  up=(0,0,-1)
//	+Z: dir=(0,0,1)   up=(0,-1,0)
//	-Z: dir=(0,0,-1)  up=(0,-1,0)
type CubeMapSide int32

const (
	CubeMapSide_PositiveX CubeMapSide = iota
	CubeMapSide_NegativeX
	CubeMapSide_PositiveY
	CubeMapSide_NegativeY
	CubeMapSide_PositiveZ
	CubeMapSide_NegativeZ
)

var CubeMapSides = [6]CubeMapSide{
	CubeMapSide_PositiveX,
	CubeMapSide_NegativeX,
	CubeMapSide_PositiveY,
	CubeMapSide_NegativeY,
	CubeMapSide_PositiveZ,
	CubeMapSide_NegativeZ,
}

func (s CubeMapSide) IsValid() bool {
	return s >= CubeMapSide_PositiveX && s <= CubeMapSide_NegativeZ
}

func (s CubeMapSide) Direction() gglm.Vec3 {

	switch s {
	case CubeMapSide_PositiveX:
		return gglm.NewVec3(1, 0, 0)
	case CubeMapSide_NegativeX:
		return gglm.NewVec3(-1, 0, 0)
	case CubeMapSide_PositiveY:
		return gglm.NewVec3(0, 1, 0)
	case CubeMapSide_NegativeY:
		return gglm.NewVec3(0, -1, 0)
	case CubeMapSide_PositiveZ:
		return gglm.NewVec3(0, 0, 1)
	case CubeMapSide_NegativeZ:
		return gglm.NewVec3(0, 0, -1)
	}

	panic("unknown cube map side " + s.String())
}

func (s CubeMapSide) Up() gglm.Vec3 {

	switch s {
	case CubeMapSide_PositiveY:
		return gglm.NewVec3(0, 0, 1)
	case CubeMapSide_NegativeY:
		return gglm.NewVec3(0, 0, -1)
	case CubeMapSide_PositiveX, CubeMapSide_NegativeX, CubeMapSide_PositiveZ, CubeMapSide_NegativeZ:
		return gglm.NewVec3(0, -1, 0)
	}

	panic("unknown cube map side " + s.String())
}

// View returns the view matrix of a camera at the origin looking through this side
func (s CubeMapSide) View() gglm.Mat4 {

	eye := gglm.NewVec3(0, 0, 0)
	target := s.Direction()
	up := s.Up()

	return gglm.LookAtRH(&eye, &target, &up).Mat4
}

func (s CubeMapSide) String() string {

	switch s {
	case CubeMapSide_PositiveX:
		return "+x"
	case CubeMapSide_NegativeX:
		return "-x"
	case CubeMapSide_PositiveY:
		return "+y"
	case CubeMapSide_NegativeY:
		return "-y"
	case CubeMapSide_PositiveZ:
		return "+z"
	case CubeMapSide_NegativeZ:
		return "-z"
	default:
		return "unknown"
	}
}
