package rendtest

import (
	"regexp"
	"strings"
)

var (
	structRegex  = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}\s*;`)
	fieldRegex   = regexp.MustCompile(`(\w+)\s+(\w+)\s*(?:\[[^\]]*\])?\s*;`)
	uniformRegex = regexp.MustCompile(`(?m)^\s*uniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[[^\]]*\])?\s*;`)
	varyingRegex = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?(?:(?:flat|smooth|noperspective)\s+)?(in|out)\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*;`)
	mainRegex    = regexp.MustCompile(`void\s+main\s*\(\s*\)`)
	commentRegex = regexp.MustCompile(`(?s)//[^\n]*|/\*.*?\*/`)
)

type glslVar struct {
	Type string
	Name string
}

// glslStage is what the fake compiler understands of one shader stage
type glslStage struct {
	Uniforms []glslVar
	Ins      []glslVar
	Outs     []glslVar
}

// parseStage does a declaration-level parse of src. It reports a compile log for sources
// that no real compiler would accept either: no main, unbalanced braces or an #error directive.
func parseStage(src string) (glslStage, string) {

	src = commentRegex.ReplaceAllString(src, "")

	if strings.Contains(src, "#error") {
		return glslStage{}, "#error directive"
	}

	if !mainRegex.MatchString(src) {
		return glslStage{}, "missing 'void main()'"
	}

	if strings.Count(src, "{") != strings.Count(src, "}") {
		return glslStage{}, "unbalanced braces"
	}

	if strings.Count(src, "(") != strings.Count(src, ")") {
		return glslStage{}, "unbalanced parentheses"
	}

	structs := map[string][]glslVar{}
	for _, m := range structRegex.FindAllStringSubmatch(src, -1) {

		fields := []glslVar{}
		for _, f := range fieldRegex.FindAllStringSubmatch(m[2], -1) {
			fields = append(fields, glslVar{Type: f[1], Name: f[2]})
		}

		structs[m[1]] = fields
	}

	stage := glslStage{}
	for _, m := range uniformRegex.FindAllStringSubmatch(src, -1) {

		typeName, name := m[1], m[2]
		if fields, ok := structs[typeName]; ok {

			for _, f := range fields {
				stage.Uniforms = append(stage.Uniforms, glslVar{Type: f.Type, Name: name + "." + f.Name})
			}
			continue
		}

		stage.Uniforms = append(stage.Uniforms, glslVar{Type: typeName, Name: name})
	}

	for _, m := range varyingRegex.FindAllStringSubmatch(src, -1) {

		v := glslVar{Type: m[2], Name: m[3]}
		if m[1] == "in" {
			stage.Ins = append(stage.Ins, v)
		} else {
			stage.Outs = append(stage.Outs, v)
		}
	}

	return stage, ""
}

// linkStages returns a link log if the fragment stage consumes something the vertex stage doesn't produce,
// or a uniform is declared with different types in the two stages
func linkStages(vert, frag glslStage) string {

	for _, in := range frag.Ins {

		found := false
		for _, out := range vert.Outs {
			if out.Name == in.Name && out.Type == in.Type {
				found = true
				break
			}
		}

		if !found {
			return "fragment input '" + in.Type + " " + in.Name + "' is not written by the vertex stage"
		}
	}

	for _, fu := range frag.Uniforms {
		for _, vu := range vert.Uniforms {
			if fu.Name == vu.Name && fu.Type != vu.Type {
				return "uniform '" + fu.Name + "' declared as both " + vu.Type + " and " + fu.Type
			}
		}
	}

	return ""
}
