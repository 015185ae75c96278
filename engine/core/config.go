package core

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hubastard/grove-rhi/engine/colors"
	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
)

// Config for the engine run. It is read from a TOML file; missing keys keep
// the values of DefaultConfig.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Log      LogConfig      `toml:"log"`
}

type WindowConfig struct {
	Title      string   `toml:"title"`
	Width      int      `toml:"width"`
	Height     int      `toml:"height"`
	VSync      bool     `toml:"vsync"`
	Fullscreen bool     `toml:"fullscreen"`
	ClearColor [4]uint8 `toml:"clear_color"` // RGBA
}

type RendererConfig struct {
	// Order lists renderer names ("OpenGL 3") or short names ("gl3") to try
	// in turn. Empty keeps the registry default.
	Order                []string `toml:"order"`
	RequiredFeatures     []string `toml:"required_features"`
	CoordinateMode       bool     `toml:"coordinate_mode"` // y grows upwards
	ErrorQueueMax        int      `toml:"error_queue_max"`
	SpriteCapacity       int      `toml:"sprite_capacity"`
	DoubleBuffer         bool     `toml:"double_buffer"`
	CompatibilityProfile bool     `toml:"compatibility_profile"`
}

type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

var (
	ErrUnknownKey      = errors.New("unknown config key")
	ErrUnknownRenderer = errors.New("unknown renderer")
	ErrUnknownFeature  = errors.New("unknown feature")
	ErrInvalidConfig   = errors.New("invalid config")
)

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:      "grove-rhi",
			Width:      1280,
			Height:     720,
			VSync:      true,
			ClearColor: [4]uint8{colors.DarkGray.R, colors.DarkGray.G, colors.DarkGray.B, 255},
		},
		Renderer: RendererConfig{
			ErrorQueueMax:  20,
			SpriteCapacity: rhi.DefaultSpriteCapacity,
			DoubleBuffer:   true,
		},
		Log: LogConfig{Level: "info"},
	}
}

// ParseConfig decodes a TOML document over the defaults. Keys that match no
// field are an error, so typos do not pass silently.
func ParseConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// LoadConfig reads path. A missing file yields the defaults together with
// an error matching os.ErrNotExist.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(string(data))
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Renderer.SpriteCapacity < 0 || c.Renderer.ErrorQueueMax < 0 {
		return fmt.Errorf("%w: negative renderer limits", ErrInvalidConfig)
	}
	if _, err := c.RendererOrder(); err != nil {
		return err
	}
	if _, err := c.RequiredFeatures(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

func (c Config) ClearColor() colors.Color {
	cc := c.Window.ClearColor
	return colors.RGBA(cc[0], cc[1], cc[2], cc[3])
}

var rendererShortNames = map[string]rhi.RendererEnum{
	"gl1base": rhi.RendererOpenGL1Base,
	"gl1":     rhi.RendererOpenGL1,
	"gl2":     rhi.RendererOpenGL2,
	"gl3":     rhi.RendererOpenGL3,
	"gl4":     rhi.RendererOpenGL4,
	"gles1":   rhi.RendererGLES1,
	"gles2":   rhi.RendererGLES2,
	"gles3":   rhi.RendererGLES3,
}

func lookupRenderer(name string) (rhi.RendererID, bool) {
	if e, ok := rendererShortNames[strings.ToLower(name)]; ok {
		return rhi.BuiltinRendererID(e)
	}
	for e := rhi.RendererOpenGL1Base; e <= rhi.RendererGLES3; e++ {
		if id, ok := rhi.BuiltinRendererID(e); ok && strings.EqualFold(id.Name, name) {
			return id, true
		}
	}
	return rhi.RendererID{}, false
}

// RendererOrder resolves the configured order, nil meaning the default.
func (c Config) RendererOrder() ([]rhi.RendererID, error) {
	if len(c.Renderer.Order) == 0 {
		return nil, nil
	}
	ids := make([]rhi.RendererID, 0, len(c.Renderer.Order))
	for _, name := range c.Renderer.Order {
		id, ok := lookupRenderer(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRenderer, name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c Config) RequiredFeatures() (rhi.Feature, error) {
	var f rhi.Feature
	for _, name := range c.Renderer.RequiredFeatures {
		bit, ok := rhi.ParseFeature(name)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
		}
		f |= bit
	}
	return f, nil
}

func (c Config) InitFlags() rhi.InitFlags {
	flags := rhi.InitDefault
	if c.Window.VSync {
		flags |= rhi.InitEnableVSync
	} else {
		flags |= rhi.InitDisableVSync
	}
	if !c.Renderer.DoubleBuffer {
		flags |= rhi.InitDisableDoubleBuffer
	}
	if c.Renderer.CompatibilityProfile {
		flags |= rhi.InitRequestCompatibilityProfile
	}
	return flags
}

func (c Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Log.Level)
	}
	return l, nil
}

// RegistryOptions turns the renderer section into registry options.
func (c Config) RegistryOptions() ([]rhi.Option, error) {
	var opts []rhi.Option
	order, err := c.RendererOrder()
	if err != nil {
		return nil, err
	}
	if order != nil {
		opts = append(opts, rhi.WithOrder(order...))
	}
	required, err := c.RequiredFeatures()
	if err != nil {
		return nil, err
	}
	if required != 0 {
		opts = append(opts, rhi.WithRequiredFeatures(required))
	}
	if c.Renderer.ErrorQueueMax > 0 {
		opts = append(opts, rhi.WithErrorQueueMax(c.Renderer.ErrorQueueMax))
	}
	return opts, nil
}

func (c Config) RendererOptions() []rhi.RendererOption {
	if c.Renderer.SpriteCapacity > 0 {
		return []rhi.RendererOption{rhi.WithSpriteCapacity(c.Renderer.SpriteCapacity)}
	}
	return nil
}
