package buffers

import (
	"fmt"

	"github.com/bloeys/cubefx/renderer"
)

// VertexBuffer is a float buffer on the GPU whose vertices follow layout
type VertexBuffer struct {
	Id     uint32
	Stride int32
	// VertexCount is the number of whole vertices uploaded, based on the stride
	VertexCount int32
	Usage       renderer.BufUsage

	layout []Element
	ctx    renderer.BufferContext
}

func (vb *VertexBuffer) GetLayout() []Element {
	e := make([]Element, len(vb.layout))
	copy(e, vb.layout)
	return e
}

func (vb *VertexBuffer) setLayout(layout ...Element) {

	vb.Stride = 0
	vb.layout = layout

	for i := 0; i < len(vb.layout); i++ {

		vb.layout[i].Offset = int(vb.Stride)
		vb.Stride += vb.layout[i].Size()
	}
}

// Delete frees the buffer. Calling it more than once is a no-op
func (vb *VertexBuffer) Delete() {

	if vb.Id == 0 {
		return
	}

	vb.ctx.DeleteBuffer(vb.Id)
	vb.Id = 0
}

// NewVertexBuffer uploads values once with the given usage.
// len(values) must be a whole number of vertices of the layout
func NewVertexBuffer(ctx renderer.BufferContext, usage renderer.BufUsage, values []float32, layout ...Element) (VertexBuffer, error) {

	if len(layout) == 0 {
		return VertexBuffer{}, fmt.Errorf("vertex buffer needs at least one layout element: %w", renderer.ErrResourceAllocation)
	}

	if !usage.IsValid() {
		return VertexBuffer{}, fmt.Errorf("invalid buffer usage %d: %w", usage, renderer.ErrResourceAllocation)
	}

	vb := VertexBuffer{
		Usage: usage,
		ctx:   ctx,
	}
	vb.setLayout(layout...)

	floatsPerVertex := int(vb.Stride / 4)
	if len(values)%floatsPerVertex != 0 {
		return VertexBuffer{}, fmt.Errorf("vertex buffer data has %d floats which is not a multiple of the layout's %d: %w", len(values), floatsPerVertex, renderer.ErrResourceAllocation)
	}

	id, err := ctx.CreateBuffer(values, usage)
	if err != nil {
		return VertexBuffer{}, err
	}

	vb.Id = id
	vb.VertexCount = int32(len(values) / floatsPerVertex)
	return vb, nil
}
