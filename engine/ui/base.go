// Package ui lays out simple retained widget trees and draws them with the
// RHI shape and text calls. It is used for debug overlays.
package ui

import (
	"math"

	"github.com/hubastard/grove-rhi/engine/colors"
	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
	"github.com/hubastard/grove-rhi/engine/text"
)

type SizeMode int

const (
	SizeModeFit SizeMode = iota
	SizeModeFixed
	SizeModeExpand
)

// Constraints bound a layout pass. A zero Max means unbounded.
type Constraints struct {
	Min [2]float32
	Max [2]float32
}

// Context carries what a draw pass needs.
type Context struct {
	Renderer *rhi.Renderer
	Target   *rhi.Target
	Viewport rhi.Rect
	Font     *text.Font
}

// Element is a node of the tree. Layout sizes the element and places its
// children relative to its own top-left corner. Draw receives the absolute
// position of the parent.
type Element interface {
	Node() *Base
	Layout(ctx *Context, c Constraints) [2]float32
	Draw(ctx *Context, originX, originY float32) error
}

// Base is the box every element shares. pos is relative to the parent.
type Base struct {
	parent   Element
	children []Element
	pos      [2]float32
	size     [2]float32
	color    colors.Color
	mode     [2]SizeMode
	fixed    [2]float32
	padding  [4]float32 // left, top, right, bottom
}

func (b *Base) Pos() (x, y float32)  { return b.pos[0], b.pos[1] }
func (b *Base) Size() (w, h float32) { return b.size[0], b.size[1] }

// padAxis is the padding on both ends of axis 0 (x) or 1 (y).
func (b *Base) padAxis(axis int) float32 { return b.padding[axis] + b.padding[axis+2] }

func unbounded(max float32) float32 {
	if max == 0 {
		return math.MaxFloat32
	}
	return max
}

func clamp(v, lo, hi float32) float32 { return min(max(v, lo), hi) }

// resolve picks the outer size along axis given the content size.
func (b *Base) resolve(axis int, content float32, c Constraints) float32 {
	hi := unbounded(c.Max[axis])
	switch b.mode[axis] {
	case SizeModeFixed:
		if b.fixed[axis] > 0 {
			return clamp(b.fixed[axis], c.Min[axis], hi)
		}
	case SizeModeExpand:
		if c.Max[axis] > 0 {
			return c.Max[axis]
		}
	}
	return clamp(content, c.Min[axis], hi)
}

// available is the extent b can offer its children along axis, or 0 when
// unbounded.
func (b *Base) available(axis int, c Constraints) float32 {
	if b.mode[axis] == SizeModeFixed && b.fixed[axis] > 0 {
		return b.fixed[axis]
	}
	return c.Max[axis]
}

// Common implements the chained setters for an element of type T.
type Common[T any] struct {
	owner T
	base  Base
}

func newCommon[T any](owner T) Common[T] { return Common[T]{owner: owner} }

func (c *Common[T]) Node() *Base              { return &c.base }
func (c *Common[T]) Color(col colors.Color) T { c.base.color = col; return c.owner }

func (c *Common[T]) WidthFixed(w float32) T  { c.base.mode[0], c.base.fixed[0] = SizeModeFixed, w; return c.owner }
func (c *Common[T]) HeightFixed(h float32) T { c.base.mode[1], c.base.fixed[1] = SizeModeFixed, h; return c.owner }
func (c *Common[T]) WidthExpand() T          { c.base.mode[0] = SizeModeExpand; return c.owner }
func (c *Common[T]) HeightExpand() T         { c.base.mode[1] = SizeModeExpand; return c.owner }

func (c *Common[T]) Padding(all float32) T { return c.Padding4(all, all, all, all) }

func (c *Common[T]) Padding4(left, top, right, bottom float32) T {
	c.base.padding = [4]float32{left, top, right, bottom}
	return c.owner
}

// Children appends kids and makes the owner their parent.
func (c *Common[T]) Children(kids ...Element) T {
	for _, k := range kids {
		k.Node().parent = any(c.owner).(Element)
	}
	c.base.children = append(c.base.children, kids...)
	return c.owner
}
