package meshes

import (
	"github.com/bloeys/gglm/gglm"
)

// CPUMesh is non-indexed triangle geometry on the CPU, three positions per triangle
type CPUMesh struct {
	Name      string
	Positions []gglm.Vec3
}

// PositionData flattens the positions into x,y,z floats ready for upload
func (m *CPUMesh) PositionData() []float32 {

	out := make([]float32, 0, len(m.Positions)*3)
	for i := 0; i < len(m.Positions); i++ {
		out = append(out, m.Positions[i].Data[:]...)
	}

	return out
}
