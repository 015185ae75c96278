package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
)

var (
	ErrNoVersion      = errors.New("shader has no #version line")
	ErrIncludeCycle   = errors.New("shader include cycle")
	ErrBadIncludeLine = errors.New("malformed #include")
)

// Shaders reads GLSL sources from a file system. Lines of the form
// `#include "file"` are replaced by the named file, resolved relative to the
// including file. Comments are stripped from the result.
type Shaders struct {
	FS fs.FS
}

// Load returns the expanded source of name.
func (s Shaders) Load(name string) (string, error) {
	var b strings.Builder
	if err := s.expand(&b, path.Clean(name), map[string]bool{}); err != nil {
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	return StripComments(b.String()), nil
}

// Program loads a vertex/fragment pair. A non-empty common file is inserted
// right after the #version line of both stages.
func (s Shaders) Program(vertex, fragment, common string) (rhi.ShaderSource, error) {
	var prelude string
	if common != "" {
		var err error
		if prelude, err = s.Load(common); err != nil {
			return rhi.ShaderSource{}, err
		}
	}
	var src rhi.ShaderSource
	for _, st := range []struct {
		name string
		dst  *string
	}{{vertex, &src.Vertex}, {fragment, &src.Fragment}} {
		text, err := s.Load(st.name)
		if err != nil {
			return rhi.ShaderSource{}, err
		}
		if prelude != "" {
			if text, err = InsertAfterVersion(text, prelude); err != nil {
				return rhi.ShaderSource{}, fmt.Errorf("load shader %q: %w", st.name, err)
			}
		}
		*st.dst = text
	}
	return src, nil
}

func (s Shaders) expand(b *strings.Builder, name string, open map[string]bool) error {
	if open[name] {
		return fmt.Errorf("%w at %q", ErrIncludeCycle, name)
	}
	data, err := fs.ReadFile(s.FS, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %w", rhi.ErrFileNotFound, err)
		}
		return err
	}
	open[name] = true
	defer delete(open, name)

	for line := range strings.Lines(string(data)) {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#include") {
			b.WriteString(line)
			continue
		}
		target, err := includeTarget(trimmed)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := s.expand(b, path.Join(path.Dir(name), target), open); err != nil {
			return err
		}
		if !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
	}
	return nil
}

func includeTarget(line string) (string, error) {
	arg := strings.TrimSpace(strings.TrimPrefix(line, "#include"))
	if len(arg) < 2 {
		return "", fmt.Errorf("%w: %q", ErrBadIncludeLine, line)
	}
	l, r := arg[0], arg[len(arg)-1]
	if !(l == '"' && r == '"') && !(l == '<' && r == '>') {
		return "", fmt.Errorf("%w: %q", ErrBadIncludeLine, line)
	}
	return arg[1 : len(arg)-1], nil
}

// InsertAfterVersion places extra on the line after the #version directive.
func InsertAfterVersion(src, extra string) (string, error) {
	i := strings.Index(src, "#version")
	if i < 0 {
		return "", ErrNoVersion
	}
	end := strings.IndexByte(src[i:], '\n')
	if end < 0 {
		return "", fmt.Errorf("%w: unterminated #version", ErrNoVersion)
	}
	end += i + 1
	if !strings.HasSuffix(extra, "\n") {
		extra += "\n"
	}
	return src[:end] + extra + src[end:], nil
}

// StripComments removes // and /* */ comments. Newlines inside block
// comments are kept so compiler line numbers still match the file.
func StripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); i++ {
		switch {
		case strings.HasPrefix(src[i:], "//"):
			for i < len(src) && src[i] != '\n' {
				i++
			}
			if i < len(src) {
				b.WriteByte('\n')
			}
		case strings.HasPrefix(src[i:], "/*"):
			i += 2
			for i < len(src) && !strings.HasPrefix(src[i:], "*/") {
				if src[i] == '\n' {
					b.WriteByte('\n')
				}
				i++
			}
			i++ // land on '/'
		default:
			b.WriteByte(src[i])
		}
	}
	return b.String()
}
