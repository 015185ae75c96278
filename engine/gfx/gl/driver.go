// Package gldriver implements rhi.Driver over the desktop OpenGL 3.3 core
// bindings.
package gldriver

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
)

// Driver forwards to the package level go-gl functions. It holds no state,
// so one value can serve every renderer.
type Driver struct{}

var _ rhi.Driver = Driver{}

func New() rhi.Driver { return Driver{} }

func (Driver) Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	return nil
}

func ptr[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}

func (Driver) GetString(name rhi.Enum) string {
	p := gl.GetString(name)
	if p == nil {
		return ""
	}
	return gl.GoStr(p)
}

func (Driver) GetInteger(pname rhi.Enum) int32 {
	var v int32
	gl.GetIntegerv(pname, &v)
	return v
}

// Extensions uses the indexed query; core profiles reject GL_EXTENSIONS in
// GetString.
func (Driver) Extensions() []string {
	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	exts := make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		if p := gl.GetStringi(gl.EXTENSIONS, uint32(i)); p != nil {
			exts = append(exts, gl.GoStr(p))
		}
	}
	return exts
}

func (Driver) GetError() rhi.Enum { return gl.GetError() }

func (Driver) Enable(c rhi.Enum)                { gl.Enable(c) }
func (Driver) Disable(c rhi.Enum)               { gl.Disable(c) }
func (Driver) BlendFunc(src, dst rhi.Enum)      { gl.BlendFunc(src, dst) }
func (Driver) BlendEquation(mode rhi.Enum)      { gl.BlendEquation(mode) }
func (Driver) DepthFunc(fn rhi.Enum)            { gl.DepthFunc(fn) }
func (Driver) DepthMask(flag bool)              { gl.DepthMask(flag) }
func (Driver) Viewport(x, y, w, h int32)        { gl.Viewport(x, y, w, h) }
func (Driver) Scissor(x, y, w, h int32)         { gl.Scissor(x, y, w, h) }
func (Driver) ClearColor(r, g, b, a float32)    { gl.ClearColor(r, g, b, a) }
func (Driver) Clear(mask rhi.Enum)              { gl.Clear(mask) }
func (Driver) LineWidth(w float32)              { gl.LineWidth(w) }
func (Driver) BlendEquationSeparate(rgb, alpha rhi.Enum) {
	gl.BlendEquationSeparate(rgb, alpha)
}

func (Driver) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha rhi.Enum) {
	gl.BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha)
}

// --- Textures ---

func (Driver) CreateTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (Driver) DeleteTexture(tex uint32)                 { gl.DeleteTextures(1, &tex) }
func (Driver) ActiveTexture(unit rhi.Enum)              { gl.ActiveTexture(unit) }
func (Driver) BindTexture(target rhi.Enum, tex uint32)  { gl.BindTexture(target, tex) }
func (Driver) PixelStorei(pname rhi.Enum, param int32)  { gl.PixelStorei(pname, param) }
func (Driver) GenerateMipmap(target rhi.Enum)           { gl.GenerateMipmap(target) }
func (Driver) TexParameteri(target, pname rhi.Enum, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (Driver) GetTexParameteri(target, pname rhi.Enum) int32 {
	var v int32
	gl.GetTexParameteriv(target, pname, &v)
	return v
}

func (Driver) GetTexLevelParameteri(target rhi.Enum, level int32, pname rhi.Enum) int32 {
	var v int32
	gl.GetTexLevelParameteriv(target, level, pname, &v)
	return v
}

func (Driver) TexImage2D(target rhi.Enum, level, internalFormat, w, h int32, format, typ rhi.Enum, pixels []byte) {
	gl.TexImage2D(target, level, internalFormat, w, h, 0, format, typ, ptr(pixels))
}

func (Driver) TexSubImage2D(target rhi.Enum, level, x, y, w, h int32, format, typ rhi.Enum, pixels []byte) {
	gl.TexSubImage2D(target, level, x, y, w, h, format, typ, ptr(pixels))
}

func (Driver) GetTexImage(target rhi.Enum, level int32, format, typ rhi.Enum, pixels []byte) bool {
	gl.GetTexImage(target, level, format, typ, ptr(pixels))
	return true
}

func (Driver) ReadPixels(x, y, w, h int32, format, typ rhi.Enum, pixels []byte) {
	gl.ReadPixels(x, y, w, h, format, typ, ptr(pixels))
}

// --- Framebuffers ---

func (Driver) CreateFramebuffer() uint32 {
	var fb uint32
	gl.GenFramebuffers(1, &fb)
	return fb
}

func (Driver) DeleteFramebuffer(fb uint32)                { gl.DeleteFramebuffers(1, &fb) }
func (Driver) BindFramebuffer(target rhi.Enum, fb uint32) { gl.BindFramebuffer(target, fb) }
func (Driver) CheckFramebufferStatus(target rhi.Enum) rhi.Enum {
	return gl.CheckFramebufferStatus(target)
}

func (Driver) FramebufferTexture2D(target, attachment, texTarget rhi.Enum, tex uint32, level int32) {
	gl.FramebufferTexture2D(target, attachment, texTarget, tex, level)
}

func (Driver) CreateRenderbuffer() uint32 {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	return rb
}

func (Driver) DeleteRenderbuffer(rb uint32)                { gl.DeleteRenderbuffers(1, &rb) }
func (Driver) BindRenderbuffer(target rhi.Enum, rb uint32) { gl.BindRenderbuffer(target, rb) }
func (Driver) RenderbufferStorage(target, internalFormat rhi.Enum, w, h int32) {
	gl.RenderbufferStorage(target, internalFormat, w, h)
}

func (Driver) FramebufferRenderbuffer(target, attachment, rbTarget rhi.Enum, rb uint32) {
	gl.FramebufferRenderbuffer(target, attachment, rbTarget, rb)
}

// --- Buffers and vertex arrays ---

func (Driver) CreateBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (Driver) DeleteBuffer(buf uint32)                { gl.DeleteBuffers(1, &buf) }
func (Driver) BindBuffer(target rhi.Enum, buf uint32) { gl.BindBuffer(target, buf) }
func (Driver) BufferAlloc(target rhi.Enum, size int, usage rhi.Enum) {
	gl.BufferData(target, size, nil, usage)
}

func (Driver) BufferFloat32(target rhi.Enum, data []float32, usage rhi.Enum) {
	gl.BufferData(target, 4*len(data), ptr(data), usage)
}

func (Driver) BufferUint16(target rhi.Enum, data []uint16, usage rhi.Enum) {
	gl.BufferData(target, 2*len(data), ptr(data), usage)
}

func (Driver) BufferBytes(target rhi.Enum, data []byte, usage rhi.Enum) {
	gl.BufferData(target, len(data), ptr(data), usage)
}

func (Driver) CreateVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (Driver) DeleteVertexArray(vao uint32)     { gl.DeleteVertexArrays(1, &vao) }
func (Driver) BindVertexArray(vao uint32)       { gl.BindVertexArray(vao) }
func (Driver) EnableVertexAttribArray(l uint32) { gl.EnableVertexAttribArray(l) }
func (Driver) DisableVertexAttribArray(l uint32) {
	gl.DisableVertexAttribArray(l)
}

func (Driver) VertexAttribPointer(loc uint32, size int32, typ rhi.Enum, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(loc, size, typ, normalized, stride, uintptr(offset))
}

func (Driver) VertexAttrib4f(loc uint32, x, y, z, w float32)   { gl.VertexAttrib4f(loc, x, y, z, w) }
func (Driver) VertexAttribI4i(loc uint32, x, y, z, w int32)    { gl.VertexAttribI4i(loc, x, y, z, w) }
func (Driver) VertexAttribI4ui(loc uint32, x, y, z, w uint32)  { gl.VertexAttribI4ui(loc, x, y, z, w) }
func (Driver) DrawArrays(mode rhi.Enum, first, count int32)    { gl.DrawArrays(mode, first, count) }
func (Driver) DrawElements(mode rhi.Enum, count int32, typ rhi.Enum, offset int) {
	gl.DrawElementsWithOffset(mode, count, typ, uintptr(offset))
}

// --- Shaders ---

func (Driver) CreateShader(typ rhi.Enum) uint32 { return gl.CreateShader(typ) }

func (Driver) ShaderSource(shader uint32, src string) {
	csrc, free := gl.Strs(src + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, csrc, nil)
}

func (Driver) CompileShader(shader uint32) { gl.CompileShader(shader) }
func (Driver) DeleteShader(shader uint32)  { gl.DeleteShader(shader) }

func (Driver) GetShaderi(shader uint32, pname rhi.Enum) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (d Driver) GetShaderInfoLog(shader uint32) string {
	n := d.GetShaderi(shader, gl.INFO_LOG_LENGTH)
	if n <= 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n))
	gl.GetShaderInfoLog(shader, n, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (Driver) CreateProgram() uint32               { return gl.CreateProgram() }
func (Driver) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (Driver) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }
func (Driver) LinkProgram(program uint32)          { gl.LinkProgram(program) }
func (Driver) DeleteProgram(program uint32)        { gl.DeleteProgram(program) }
func (Driver) UseProgram(program uint32)           { gl.UseProgram(program) }

func (Driver) GetProgrami(program uint32, pname rhi.Enum) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (d Driver) GetProgramInfoLog(program uint32) string {
	n := d.GetProgrami(program, gl.INFO_LOG_LENGTH)
	if n <= 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n))
	gl.GetProgramInfoLog(program, n, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (Driver) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (Driver) GetAttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (Driver) BindAttribLocation(program, index uint32, name string) {
	gl.BindAttribLocation(program, index, gl.Str(name+"\x00"))
}

// --- Uniforms ---

func count(n, components int) int32 { return int32(n / components) }

func (Driver) Uniformiv(loc int32, components int, v []int32) {
	if len(v) < components {
		return
	}
	c := count(len(v), components)
	switch components {
	case 1:
		gl.Uniform1iv(loc, c, &v[0])
	case 2:
		gl.Uniform2iv(loc, c, &v[0])
	case 3:
		gl.Uniform3iv(loc, c, &v[0])
	case 4:
		gl.Uniform4iv(loc, c, &v[0])
	}
}

func (Driver) Uniformuiv(loc int32, components int, v []uint32) {
	if len(v) < components {
		return
	}
	c := count(len(v), components)
	switch components {
	case 1:
		gl.Uniform1uiv(loc, c, &v[0])
	case 2:
		gl.Uniform2uiv(loc, c, &v[0])
	case 3:
		gl.Uniform3uiv(loc, c, &v[0])
	case 4:
		gl.Uniform4uiv(loc, c, &v[0])
	}
}

func (Driver) Uniformfv(loc int32, components int, v []float32) {
	if len(v) < components {
		return
	}
	c := count(len(v), components)
	switch components {
	case 1:
		gl.Uniform1fv(loc, c, &v[0])
	case 2:
		gl.Uniform2fv(loc, c, &v[0])
	case 3:
		gl.Uniform3fv(loc, c, &v[0])
	case 4:
		gl.Uniform4fv(loc, c, &v[0])
	}
}

func (Driver) UniformMatrixfv(loc int32, cols, rows int, transpose bool, v []float32) {
	if cols*rows == 0 || len(v) < cols*rows {
		return
	}
	c := count(len(v), cols*rows)
	switch [2]int{cols, rows} {
	case [2]int{2, 2}:
		gl.UniformMatrix2fv(loc, c, transpose, &v[0])
	case [2]int{3, 3}:
		gl.UniformMatrix3fv(loc, c, transpose, &v[0])
	case [2]int{4, 4}:
		gl.UniformMatrix4fv(loc, c, transpose, &v[0])
	case [2]int{2, 3}:
		gl.UniformMatrix2x3fv(loc, c, transpose, &v[0])
	case [2]int{3, 2}:
		gl.UniformMatrix3x2fv(loc, c, transpose, &v[0])
	case [2]int{2, 4}:
		gl.UniformMatrix2x4fv(loc, c, transpose, &v[0])
	case [2]int{4, 2}:
		gl.UniformMatrix4x2fv(loc, c, transpose, &v[0])
	case [2]int{3, 4}:
		gl.UniformMatrix3x4fv(loc, c, transpose, &v[0])
	case [2]int{4, 3}:
		gl.UniformMatrix4x3fv(loc, c, transpose, &v[0])
	}
}
