package backend

import (
	"fmt"
	"strings"

	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
)

// dialect is the spelling of one GLSL version.
type dialect struct {
	header    string
	attribute string // vertex inputs
	varyingVS string
	varyingFS string
	fragOut   string // declaration of the output, empty for gl_FragColor
	fragColor string
	texture   string
}

func pickDialect(es bool, glsl int) dialect {
	modern := dialect{
		attribute: "in",
		varyingVS: "out",
		varyingFS: "in",
		fragOut:   "out vec4 fragColor;",
		fragColor: "fragColor",
		texture:   "texture",
	}
	legacy := dialect{
		attribute: "attribute",
		varyingVS: "varying",
		varyingFS: "varying",
		fragColor: "gl_FragColor",
		texture:   "texture2D",
	}
	switch {
	case es && glsl >= 300:
		modern.header = fmt.Sprintf("#version %d es\nprecision mediump float;", min(glsl, 320))
		return modern
	case es:
		legacy.header = "#version 100\nprecision mediump float;"
		return legacy
	case glsl >= 330:
		modern.header = "#version 330 core"
		return modern
	case glsl >= 130:
		modern.header = fmt.Sprintf("#version %d", min(glsl, 150))
		return modern
	}
	legacy.header = fmt.Sprintf("#version %d", max(glsl, 110))
	return legacy
}

func (d dialect) vertex(textured bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", d.header)
	fmt.Fprintf(&b, "%s vec3 %s;\n", d.attribute, rhi.PositionAttribute)
	if textured {
		fmt.Fprintf(&b, "%s vec2 %s;\n", d.attribute, rhi.TexCoordAttribute)
	}
	fmt.Fprintf(&b, "%s vec4 %s;\n", d.attribute, rhi.ColorAttribute)
	fmt.Fprintf(&b, "uniform mat4 %s;\n", rhi.MVPUniform)
	fmt.Fprintf(&b, "%s vec4 vColor;\n", d.varyingVS)
	if textured {
		fmt.Fprintf(&b, "%s vec2 vTexCoord;\n", d.varyingVS)
	}
	b.WriteString("void main() {\n")
	fmt.Fprintf(&b, "\tvColor = %s;\n", rhi.ColorAttribute)
	if textured {
		fmt.Fprintf(&b, "\tvTexCoord = %s;\n", rhi.TexCoordAttribute)
	}
	fmt.Fprintf(&b, "\tgl_Position = %s * vec4(%s, 1.0);\n", rhi.MVPUniform, rhi.PositionAttribute)
	b.WriteString("}\n")
	return b.String()
}

func (d dialect) fragment(textured bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", d.header)
	fmt.Fprintf(&b, "%s vec4 vColor;\n", d.varyingFS)
	if textured {
		fmt.Fprintf(&b, "%s vec2 vTexCoord;\n", d.varyingFS)
		b.WriteString("uniform sampler2D tex;\n")
	}
	if d.fragOut != "" {
		fmt.Fprintf(&b, "%s\n", d.fragOut)
	}
	b.WriteString("void main() {\n")
	if textured {
		fmt.Fprintf(&b, "\t%s = %s(tex, vTexCoord) * vColor;\n", d.fragColor, d.texture)
	} else {
		fmt.Fprintf(&b, "\t%s = vColor;\n", d.fragColor)
	}
	b.WriteString("}\n")
	return b.String()
}

func (d dialect) textured() rhi.ShaderSource {
	return rhi.ShaderSource{Vertex: d.vertex(true), Fragment: d.fragment(true)}
}

func (d dialect) untextured() rhi.ShaderSource {
	return rhi.ShaderSource{Vertex: d.vertex(false), Fragment: d.fragment(false)}
}

func (d dialect) prelude(kind rhi.ShaderKind) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", d.header)
	switch kind {
	case rhi.VertexShader:
		fmt.Fprintf(&b, "#define ATTRIBUTE %s\n#define VARYING %s\n", d.attribute, d.varyingVS)
	case rhi.FragmentShader:
		fmt.Fprintf(&b, "#define VARYING %s\n", d.varyingFS)
		if d.fragOut != "" {
			fmt.Fprintf(&b, "%s\n", d.fragOut)
		}
		fmt.Fprintf(&b, "#define FRAG_COLOR %s\n", d.fragColor)
	}
	fmt.Fprintf(&b, "#define TEXTURE2D %s\n", d.texture)
	return b.String()
}
