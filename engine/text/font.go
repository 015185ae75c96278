// Package text draws strings with a glyph atlas uploaded as an RHI image.
package text

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/hubastard/grove-rhi/engine/colors"
	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
)

// Font is an atlas living on one renderer.
type Font struct {
	*Atlas
	SizePx float32
	Image  *rhi.Image

	renderer *rhi.Renderer
	face     font.Face
}

// LoadTTF parses a TrueType or OpenType font and builds its atlas at sizePx.
func LoadTTF(r *rhi.Renderer, ttf []byte, sizePx float32) (*Font, error) {
	ft, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	f, err := newFont(r, face, sizePx)
	if err != nil {
		_ = face.Close()
		return nil, err
	}
	return f, nil
}

// Default builds the Go Regular font.
func Default(r *rhi.Renderer, sizePx float32) (*Font, error) {
	return LoadTTF(r, goregular.TTF, sizePx)
}

func newFont(r *rhi.Renderer, face font.Face, sizePx float32) (*Font, error) {
	atlas, err := BuildAtlas(face)
	if err != nil {
		return nil, err
	}
	img, err := r.CreateImageFromSurface(rhi.SurfaceFromImage(atlas.Sheet), nil)
	if err != nil {
		return nil, fmt.Errorf("upload atlas: %w", err)
	}
	r.SetAnchor(img, 0, 0)
	r.SetImageFilter(img, rhi.FilterNearest)
	r.SetSnapMode(img, rhi.SnapPositionAndDimensions)
	return &Font{Atlas: atlas, SizePx: sizePx, Image: img, renderer: r, face: face}, nil
}

// Draw blits s onto t with the top-left corner of the text at (x, y).
func (f *Font) Draw(t *rhi.Target, x, y float32, s string, c colors.Color) error {
	f.renderer.SetColor(f.Image, c)
	var err error
	f.Layout(s, x, y, func(g Glyph, gx, gy float32) {
		if err != nil {
			return
		}
		src := rectOf(g.Src)
		err = f.renderer.Blit(f.Image, &src, t, gx, gy)
	})
	return err
}

// Close frees the atlas image and the face.
func (f *Font) Close() {
	if f == nil || f.Image == nil {
		return
	}
	f.renderer.FreeImage(f.Image)
	f.Image = nil
	_ = f.face.Close()
}

func rectOf(r image.Rectangle) rhi.Rect {
	return rhi.MakeRect(float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()))
}
