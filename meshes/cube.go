package meshes

import "github.com/bloeys/gglm/gglm"

const CubeVertexCount = 36

// NewCube returns the cube spanning [-1, 1] on every axis as 12 counter-clockwise (seen from outside) triangles.
// Corners are duplicated per face, there is no vertex sharing.
func NewCube() CPUMesh {

	return CPUMesh{
		Name: "Cube",
		Positions: []gglm.Vec3{
			// +Y
			gglm.NewVec3(1, 1, -1),
			gglm.NewVec3(-1, 1, -1),
			gglm.NewVec3(1, 1, 1),
			gglm.NewVec3(-1, 1, 1),
			gglm.NewVec3(1, 1, 1),
			gglm.NewVec3(-1, 1, -1),

			// -Y
			gglm.NewVec3(-1, -1, -1),
			gglm.NewVec3(1, -1, -1),
			gglm.NewVec3(1, -1, 1),
			gglm.NewVec3(1, -1, 1),
			gglm.NewVec3(-1, -1, 1),
			gglm.NewVec3(-1, -1, -1),

			// -Z
			gglm.NewVec3(1, -1, -1),
			gglm.NewVec3(-1, -1, -1),
			gglm.NewVec3(1, 1, -1),
			gglm.NewVec3(-1, 1, -1),
			gglm.NewVec3(1, 1, -1),
			gglm.NewVec3(-1, -1, -1),

			// +Z
			gglm.NewVec3(-1, -1, 1),
			gglm.NewVec3(1, -1, 1),
			gglm.NewVec3(1, 1, 1),
			gglm.NewVec3(1, 1, 1),
			gglm.NewVec3(-1, 1, 1),
			gglm.NewVec3(-1, -1, 1),

			// +X
			gglm.NewVec3(1, -1, -1),
			gglm.NewVec3(1, 1, -1),
			gglm.NewVec3(1, 1, 1),
			gglm.NewVec3(1, 1, 1),
			gglm.NewVec3(1, -1, 1),
			gglm.NewVec3(1, -1, -1),

			// -X
			gglm.NewVec3(-1, -1, -1),
			gglm.NewVec3(-1, -1, 1),
			gglm.NewVec3(-1, 1, 1),
			gglm.NewVec3(-1, 1, 1),
			gglm.NewVec3(-1, 1, -1),
			gglm.NewVec3(-1, -1, -1),
		},
	}
}
