package backend

import (
	"errors"
	"log/slog"

	"github.com/hubastard/grove-rhi/engine/gfx/rhi"
)

// Drivers builds the GL entry points of each API family. A nil entry leaves
// the families of that kind unregistered.
type Drivers struct {
	Desktop func() rhi.Driver
	ES      func() rhi.Driver
}

var errNoDriver = errors.New("backend: no driver for renderer family")

// Register adds one family to reg. Every renderer it creates gets a fresh
// driver from newDriver.
func Register(reg *rhi.Registry, b *GL, newDriver func() rhi.Driver, windows rhi.WindowProvider, opts ...rhi.RendererOption) error {
	if newDriver == nil {
		return errNoDriver
	}
	create := func(id rhi.RendererID) (*rhi.Renderer, error) {
		return rhi.NewRenderer(id, b, newDriver(), windows, opts...), nil
	}
	free := func(r *rhi.Renderer) {
		rhi.Logger().Debug("rhi: renderer freed", slog.String("renderer", r.ID().String()))
	}
	return reg.RegisterRenderer(b.ID(), create, free)
}

// RegisterBuiltins registers every built-in family the drivers can serve
// and returns how many were registered.
func RegisterBuiltins(reg *rhi.Registry, drivers Drivers, windows rhi.WindowProvider, opts ...rhi.RendererOption) (int, error) {
	n := 0
	var errs []error
	for _, b := range Builtins() {
		newDriver := drivers.Desktop
		if b.ES() {
			newDriver = drivers.ES
		}
		if newDriver == nil {
			continue
		}
		if err := Register(reg, b, newDriver, windows, opts...); err != nil {
			errs = append(errs, err)
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}
