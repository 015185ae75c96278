package rhi

import (
	"encoding/binary"
	"image"
	"image/draw"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/hubastard/grove-rhi/engine/gfx/matrix"
)

const (
	// Vertex layout of the blit buffer: x y s t r g b a.
	floatsPerVertex   = 8
	vertexOffset      = 0
	texCoordOffset    = 2
	colorOffset       = 4
	blitVertexStride  = floatsPerVertex * 4
	verticesPerSprite = 4
	indicesPerSprite  = 6

	// DefaultSpriteCapacity is the number of quads a fresh context batches.
	DefaultSpriteCapacity = 1000

	BlitBufferAbsoluteMaxVertices  = 60000
	IndexBufferAbsoluteMaxVertices = 4000000000

	maxAttributeSources = 16
)

// Rect is an axis aligned rectangle in target or texture pixels.
type Rect struct {
	X, Y, W, H float32
}

func MakeRect(x, y, w, h float32) Rect { return Rect{x, y, w, h} }

// Camera is the per-target 2D view transform.
type Camera struct {
	X, Y, Z           float32
	Angle             float32
	ZoomX, ZoomY      float32
	ZNear, ZFar       float32
	UseCenteredOrigin bool
}

// DefaultCamera is the identity view with a depth range of [-100, 100].
func DefaultCamera() Camera {
	return Camera{ZoomX: 1, ZoomY: 1, ZNear: -100, ZFar: 100, UseCenteredOrigin: true}
}

// Equal compares the fields that influence the view matrix.
func (c Camera) Equal(o Camera) bool {
	return c.X == o.X && c.Y == o.Y && c.Z == o.Z && c.Angle == o.Angle &&
		c.ZoomX == o.ZoomX && c.ZoomY == o.ZoomY && c.UseCenteredOrigin == o.UseCenteredOrigin
}

// Matrix returns the view matrix of the camera for a target of size w x h.
func (c Camera) Matrix(w, h float32) mgl32.Mat4 {
	m := mgl32.Ident4().Mul4(mgl32.Translate3D(-c.X, -c.Y, -c.Z))
	var offX, offY float32
	if c.UseCenteredOrigin {
		offX, offY = w/2, h/2
		m = m.Mul4(mgl32.Translate3D(offX, offY, 0))
	}
	m = m.Mul4(matrix.Rotation(c.Angle, 0, 0, 1))
	m = m.Mul4(mgl32.Scale3D(c.ZoomX, c.ZoomY, 1))
	if c.UseCenteredOrigin {
		m = m.Mul4(mgl32.Translate3D(-offX, -offY, 0))
	}
	return m
}

// Surface is a CPU-side pixel buffer exchanged with images and targets.
// Rows are Pitch bytes apart and hold W pixels of Format.
type Surface struct {
	W, H   int
	Format Format
	Pitch  int
	Pixels []byte
}

// NewSurface allocates a zeroed, tightly packed surface.
func NewSurface(w, h int, format Format) *Surface {
	pitch := w * format.BytesPerPixel()
	return &Surface{W: w, H: h, Format: format, Pitch: pitch, Pixels: make([]byte, pitch*h)}
}

// SurfaceFromImage converts any image to an RGBA surface.
func SurfaceFromImage(img image.Image) *Surface {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	return &Surface{W: b.Dx(), H: b.Dy(), Format: FormatRGBA, Pitch: nrgba.Stride, Pixels: nrgba.Pix}
}

// NRGBA views an RGBA surface as an image. Other formats are expanded.
func (s *Surface) NRGBA() *image.NRGBA {
	if s.Format == FormatRGBA {
		return &image.NRGBA{Pix: s.Pixels, Stride: s.Pitch, Rect: image.Rect(0, 0, s.W, s.H)}
	}
	out := image.NewNRGBA(image.Rect(0, 0, s.W, s.H))
	for y := 0; y < s.H; y++ {
		for x := 0; x < s.W; x++ {
			r, g, b, a := s.pixel(x, y)
			i := out.PixOffset(x, y)
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = r, g, b, a
		}
	}
	return out
}

func (s *Surface) pixel(x, y int) (r, g, b, a uint8) {
	p := s.Pixels[y*s.Pitch+x*s.Format.BytesPerPixel():]
	return swizzle(s.Format, p)
}

// convert returns s in the given format, or s itself when it already matches.
func (s *Surface) convert(f Format) *Surface {
	if s.Format == f {
		return s
	}
	out := NewSurface(s.W, s.H, f)
	bpp := f.BytesPerPixel()
	for y := 0; y < s.H; y++ {
		for x := 0; x < s.W; x++ {
			r, g, b, a := s.pixel(x, y)
			unswizzle(f, out.Pixels[y*out.Pitch+x*bpp:], r, g, b, a)
		}
	}
	return out
}

// swizzle decodes one pixel of format f into RGBA.
func swizzle(f Format, p []byte) (r, g, b, a uint8) {
	switch f {
	case FormatLuminance:
		return p[0], p[0], p[0], 255
	case FormatLuminanceAlpha:
		return p[0], p[0], p[0], p[1]
	case FormatAlpha:
		return 0, 0, 0, p[0]
	case FormatRG:
		return p[0], p[1], 0, 255
	case FormatRGB:
		return p[0], p[1], p[2], 255
	case FormatBGR:
		return p[2], p[1], p[0], 255
	case FormatRGBA:
		return p[0], p[1], p[2], p[3]
	case FormatBGRA:
		return p[2], p[1], p[0], p[3]
	case FormatABGR:
		return p[3], p[2], p[1], p[0]
	}
	return 0, 0, 0, 0
}

func unswizzle(f Format, p []byte, r, g, b, a uint8) {
	switch f {
	case FormatLuminance:
		p[0] = r
	case FormatLuminanceAlpha:
		p[0], p[1] = r, a
	case FormatAlpha:
		p[0] = a
	case FormatRG:
		p[0], p[1] = r, g
	case FormatRGB:
		p[0], p[1], p[2] = r, g, b
	case FormatBGR:
		p[0], p[1], p[2] = b, g, r
	case FormatRGBA:
		p[0], p[1], p[2], p[3] = r, g, b, a
	case FormatBGRA:
		p[0], p[1], p[2], p[3] = b, g, r, a
	case FormatABGR:
		p[0], p[1], p[2], p[3] = a, b, g, r
	}
}

// ShaderBlock holds the attribute and uniform locations the batcher feeds.
// A negative location is skipped.
type ShaderBlock struct {
	PositionLoc int32
	TexCoordLoc int32
	ColorLoc    int32
	MVPLoc      int32
}

func emptyShaderBlock() ShaderBlock {
	return ShaderBlock{PositionLoc: -1, TexCoordLoc: -1, ColorLoc: -1, MVPLoc: -1}
}

// AttributeFormat describes how raw attribute bytes are laid out.
type AttributeFormat struct {
	// PerSprite values are expanded to the four vertices of each quad.
	PerSprite   bool
	NumElems    int
	Type        Enum
	Normalize   bool
	StrideBytes int
	OffsetBytes int
}

// Attribute is a custom per-vertex data source bound to a shader location.
type Attribute struct {
	Location int32
	Values   []byte
	Format   AttributeFormat
}

// Float32Attribute packs values as a tightly strided float attribute.
func Float32Attribute(location int32, elems int, perSprite bool, values []float32) Attribute {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return Attribute{
		Location: location,
		Values:   buf,
		Format: AttributeFormat{
			PerSprite:   perSprite,
			NumElems:    elems,
			Type:        GLFloat,
			StrideBytes: 4 * elems,
		},
	}
}

func typeSize(t Enum) int {
	switch t {
	case GLFloat, GLInt, GLUnsignedInt:
		return 4
	case GLUnsignedShort:
		return 2
	case GLUnsignedByte:
		return 1
	}
	return 0
}

// Statistics counts the work submitted since the last Flip.
type Statistics struct {
	Flushes      int
	DrawCalls    int
	Vertices     int
	Indices      int
	Sprites      int
	StateFlushes int
}
