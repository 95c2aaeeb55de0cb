package shaders

import (
	"fmt"
	"os"

	"github.com/bloeys/cubefx/logging"
	"github.com/bloeys/cubefx/renderer"
)

// NewShaderProgram compiles and links the two stages. Errors wrap renderer.ErrShaderCompilation
// (or renderer.ErrResourceAllocation if the context couldn't create the program at all)
func NewShaderProgram(ctx renderer.ProgramContext, vertShaderSrc, fragShaderSrc string) (*ShaderProgram, error) {

	progId, err := ctx.CreateProgram(vertShaderSrc, fragShaderSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	return &ShaderProgram{
		Id:         progId,
		ctx:        ctx,
		unifLocs:   make(map[string]int32),
		attribLocs: make(map[string]int32),
	}, nil
}

func LoadShaderSrc(shaderPath string) (string, error) {

	src, err := os.ReadFile(shaderPath)
	if err != nil {
		logging.ErrLog.Println("Failed to read shader. Err: ", err)
		return "", err
	}

	return string(src), nil
}
