package ui

import (
	"github.com/hubastard/grove-rhi/engine/colors"
)

type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	AlignStretch
)

type LayoutDirection int

const (
	LayoutHorizontal LayoutDirection = iota
	LayoutVertical
)

// UIView stacks its children along one axis.
type UIView struct {
	Common[*UIView]
	gap        float32
	mainAlign  Align
	crossAlign Align
	flow       LayoutDirection
}

func View(children ...Element) *UIView {
	v := &UIView{gap: 10}
	v.Common = newCommon(v)
	v.Children(children...)
	return v
}

func (v *UIView) BgColor(c colors.Color) *UIView           { v.base.color = c; return v }
func (v *UIView) FlowDirection(d LayoutDirection) *UIView { v.flow = d; return v }
func (v *UIView) Gap(g float32) *UIView                   { v.gap = g; return v }
func (v *UIView) AlignMain(a Align) *UIView               { v.mainAlign = a; return v }
func (v *UIView) AlignCross(a Align) *UIView              { v.crossAlign = a; return v }

func (v *UIView) Layout(ctx *Context, c Constraints) [2]float32 {
	b := &v.base
	main := int(v.flow) // 0 is x, 1 is y
	cross := 1 - main

	// Children size to their content along the flow; the cross axis is
	// bounded by what this view can offer.
	var inner Constraints
	if avail := b.available(cross, c); avail > 0 {
		inner.Max[cross] = max(0, avail-b.padAxis(cross))
	}

	sizes := make([][2]float32, len(b.children))
	var used, crossMax float32
	expanders := 0
	for i, child := range b.children {
		sizes[i] = child.Layout(ctx, inner)
		used += sizes[i][main]
		crossMax = max(crossMax, sizes[i][cross])
		if child.Node().mode[main] == SizeModeExpand {
			expanders++
		}
	}
	if n := len(b.children); n > 1 {
		used += v.gap * float32(n-1)
	}

	b.size[main] = b.resolve(main, used+b.padAxis(main), c)
	b.size[cross] = b.resolve(cross, crossMax+b.padAxis(cross), c)
	innerMain := max(0, b.size[main]-b.padAxis(main), c.Min[main]-b.padAxis(main))
	innerCross := max(0, b.size[cross]-b.padAxis(cross), c.Min[cross]-b.padAxis(cross))

	free := max(0, innerMain-used)
	if expanders > 0 {
		share := free / float32(expanders)
		for i, child := range b.children {
			if child.Node().mode[main] == SizeModeExpand {
				sizes[i][main] += share
			}
		}
		free = 0
	}

	cursor := b.padding[main]
	switch v.mainAlign {
	case AlignCenter:
		cursor += free / 2
	case AlignEnd:
		cursor += free
	}
	crossOrigin := b.padding[cross]

	for i, child := range b.children {
		n := child.Node()
		extent := sizes[i][cross]
		if v.crossAlign == AlignStretch || n.mode[cross] == SizeModeExpand {
			extent = innerCross
		}
		extent = clamp(extent, 0, innerCross)

		offset := float32(0)
		switch v.crossAlign {
		case AlignCenter:
			offset = (innerCross - extent) / 2
		case AlignEnd:
			offset = innerCross - extent
		}
		n.pos[main], n.pos[cross] = cursor, crossOrigin+offset
		if n.size[main] != sizes[i][main] || n.size[cross] != extent {
			var size [2]float32
			size[main], size[cross] = sizes[i][main], extent
			child.Layout(ctx, Constraints{Min: size, Max: size})
		}
		cursor += sizes[i][main] + v.gap
	}
	return b.size
}

// Render lays the tree out inside ctx.Viewport and draws it.
func (v *UIView) Render(ctx *Context) error {
	v.base.pos = [2]float32{}
	v.Layout(ctx, Constraints{Max: [2]float32{ctx.Viewport.W, ctx.Viewport.H}})
	return v.Draw(ctx, ctx.Viewport.X, ctx.Viewport.Y)
}

func (v *UIView) Draw(ctx *Context, originX, originY float32) error {
	b := &v.base
	x, y := originX+b.pos[0], originY+b.pos[1]
	if b.color.A > 0 {
		ctx.Renderer.SetShapeBlending(b.color.A < 255)
		if err := ctx.Renderer.RectangleFilled(ctx.Target, x, y, x+b.size[0], y+b.size[1], b.color); err != nil {
			return err
		}
	}
	for _, c := range b.children {
		if err := c.Draw(ctx, x, y); err != nil {
			return err
		}
	}
	return nil
}
