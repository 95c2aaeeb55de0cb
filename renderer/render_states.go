package renderer

import "fmt"

// RenderStates are handed to the context as is when drawing.
// The zero value is depth test 'less' with depth and color writes, no culling and no blending
type RenderStates struct {
	DepthTest DepthTest
	Cull      Cull
	Blend     Blend
	Write     WriteMask
}

type WriteMask struct {
	NoColor bool
	NoDepth bool
}

type DepthTest int32

const (
	DepthTest_Less DepthTest = iota
	DepthTest_Never
	DepthTest_Equal
	DepthTest_LessOrEqual
	DepthTest_Greater
	DepthTest_NotEqual
	DepthTest_GreaterOrEqual
	DepthTest_Always
)

var depthTestNames = [...]string{
	DepthTest_Less:           "less",
	DepthTest_Never:          "never",
	DepthTest_Equal:          "equal",
	DepthTest_LessOrEqual:    "lequal",
	DepthTest_Greater:        "greater",
	DepthTest_NotEqual:       "notequal",
	DepthTest_GreaterOrEqual: "gequal",
	DepthTest_Always:         "always",
}

func (d DepthTest) String() string {

	if d < 0 || int(d) >= len(depthTestNames) {
		return "unknown"
	}

	return depthTestNames[d]
}

type Cull int32

const (
	Cull_None Cull = iota
	Cull_Back
	Cull_Front
	Cull_FrontAndBack
)

var cullNames = [...]string{
	Cull_None:         "none",
	Cull_Back:         "back",
	Cull_Front:        "front",
	Cull_FrontAndBack: "front_and_back",
}

func (c Cull) String() string {

	if c < 0 || int(c) >= len(cullNames) {
		return "unknown"
	}

	return cullNames[c]
}

type Blend int32

const (
	Blend_None Blend = iota
	// Blend_Alpha is srcAlpha, 1-srcAlpha
	Blend_Alpha
	// Blend_Additive is one, one
	Blend_Additive
)

var blendNames = [...]string{
	Blend_None:     "none",
	Blend_Alpha:    "alpha",
	Blend_Additive: "additive",
}

func (b Blend) String() string {

	if b < 0 || int(b) >= len(blendNames) {
		return "unknown"
	}

	return blendNames[b]
}

func ParseDepthTest(s string) (DepthTest, error) {

	for i, name := range depthTestNames {
		if name == s {
			return DepthTest(i), nil
		}
	}

	return 0, fmt.Errorf("unknown depth test '%s'", s)
}

func ParseCull(s string) (Cull, error) {

	for i, name := range cullNames {
		if name == s {
			return Cull(i), nil
		}
	}

	return 0, fmt.Errorf("unknown cull mode '%s'", s)
}

func ParseBlend(s string) (Blend, error) {

	for i, name := range blendNames {
		if name == s {
			return Blend(i), nil
		}
	}

	return 0, fmt.Errorf("unknown blend mode '%s'", s)
}
