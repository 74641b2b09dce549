package renderer

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
)

//go:embed assets/forward.wgsl
var forwardShaderSource string

//go:embed assets/shadow.wgsl
var shadowShaderSource string

//go:embed assets/skinning.wgsl
var skinningShaderSource string

// includePrefix marks a line that is replaced by a registered WGSL chunk.
//
// Syntax: //@oxy:include <name>
const includePrefix = "//@oxy:include "

// shaderIncludes maps include names to their WGSL source.
var shaderIncludes = map[string]string{
	"scene_light": light.GPUSceneLightSource,
	"skinning":    skinningShaderSource,
}

// preprocess expands include lines. Includes are not expanded recursively.
//
// Parameters:
//   - source: the WGSL source
//   - includes: the registered chunks
//
// Returns:
//   - string: the expanded source
//   - error: an error naming the line of an unknown include
func preprocess(source string, includes map[string]string) (string, error) {
	var b strings.Builder
	for i, line := range strings.Split(source, "\n") {
		name, ok := strings.CutPrefix(strings.TrimSpace(line), includePrefix)
		if !ok {
			b.WriteString(line)
			b.WriteByte('\n')
			continue
		}
		chunk, found := includes[strings.TrimSpace(name)]
		if !found {
			return "", fmt.Errorf("line %d: unknown include %q", i+1, strings.TrimSpace(name))
		}
		b.WriteString(chunk)
		if !strings.HasSuffix(chunk, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
