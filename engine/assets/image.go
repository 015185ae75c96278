package assets

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
)

// ErrUnknownImageFormat is returned when a file extension has no encoder.
var ErrUnknownImageFormat = errors.New("unknown image format")

// DecodeSurface decodes a PNG or BMP stream into an RGBA surface. Rows are
// stored top row first.
func DecodeSurface(r io.Reader) (*rhi.Surface, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return rhi.SurfaceFromImage(img), nil
}

// LoadSurface reads name from fsys.
func LoadSurface(fsys fs.FS, name string) (*rhi.Surface, error) {
	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load image %q: %w: %w", name, rhi.ErrFileNotFound, err)
		}
		return nil, fmt.Errorf("load image %q: %w", name, err)
	}
	defer f.Close()

	s, err := DecodeSurface(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", name, err)
	}
	return s, nil
}

// LoadImage decodes name and uploads it as a new image of r.
func LoadImage(r *rhi.Renderer, fsys fs.FS, name string) (*rhi.Image, error) {
	s, err := LoadSurface(fsys, name)
	if err != nil {
		return nil, err
	}
	return r.CreateImageFromSurface(s, nil)
}

// EncodeSurface writes s in the format named by ext (".png" or ".bmp").
func EncodeSurface(w io.Writer, s *rhi.Surface, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, s.NRGBA())
	case ".bmp":
		return bmp.Encode(w, s.NRGBA())
	}
	return fmt.Errorf("%w: %q", ErrUnknownImageFormat, ext)
}

// SaveSurface writes s to path, picking the codec from the extension.
func SaveSurface(s *rhi.Surface, path string) error {
	ext := filepath.Ext(path)
	if ext == "" {
		return fmt.Errorf("%w: %q has no extension", ErrUnknownImageFormat, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeSurface(f, s, ext); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("save image %q: %w", path, err)
	}
	return f.Close()
}

// SaveImage reads img back from the GPU and writes it to path.
func SaveImage(r *rhi.Renderer, img *rhi.Image, path string) error {
	s, err := r.CopySurfaceFromImage(img)
	if err != nil {
		return err
	}
	return SaveSurface(s, path)
}

// SaveTarget writes the current contents of t to path.
func SaveTarget(r *rhi.Renderer, t *rhi.Target, path string) error {
	s, err := r.CopySurfaceFromTarget(t)
	if err != nil {
		return err
	}
	return SaveSurface(s, path)
}
