package renderer

import (
	"errors"
	"fmt"
)

var (
	ErrShaderCompilation  = errors.New("shader compilation failed")
	ErrResourceAllocation = errors.New("gpu resource allocation failed")
	ErrUniformBinding     = errors.New("shader input binding failed")
	ErrContextState       = errors.New("invalid graphics context state")
	ErrTextureUpload      = errors.New("texture upload failed")
)

type ShaderStage int32

const (
	ShaderStage_Unknown ShaderStage = iota
	ShaderStage_Vertex
	ShaderStage_Fragment
	ShaderStage_Link
)

func (s ShaderStage) String() string {

	switch s {
	case ShaderStage_Vertex:
		return "vertex"
	case ShaderStage_Fragment:
		return "fragment"
	case ShaderStage_Link:
		return "link"
	default:
		return "unknown"
	}
}

// ShaderError holds the info log of a failed compile or link. It matches ErrShaderCompilation with errors.Is
type ShaderError struct {
	Stage ShaderStage
	Log   string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("%s: %s stage: %s", ErrShaderCompilation.Error(), e.Stage, e.Log)
}

func (e *ShaderError) Unwrap() error {
	return ErrShaderCompilation
}
