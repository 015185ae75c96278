// Package assets loads shader sources and image files for the renderer.
// Decoding goes through image.Decode, so PNG and BMP are both accepted.
// Watcher reports edited files so callers can rebuild what depends on them.
package assets
