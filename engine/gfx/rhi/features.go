package rhi

import (
	"errors"
	"strconv"
	"strings"
)

// glslVersionCore is the oldest dialect a core profile context accepts.
const glslVersionCore = 150

const esPrefix = "OpenGL ES"

// parseVersion reads the leading "major.minor" of a GL version string,
// skipping an "OpenGL ES" or "OpenGL ES-CM" prefix.
func parseVersion(s string) (major, minor int, es bool, ok bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, esPrefix) {
		es = true
		s = strings.TrimPrefix(s, esPrefix)
		s = strings.TrimLeft(s, "-CM")
		s = strings.TrimSpace(s)
		s = strings.TrimPrefix(s, "GLSL ES")
		s = strings.TrimSpace(s)
	}
	end := strings.IndexFunc(s, func(c rune) bool { return c != '.' && (c < '0' || c > '9') })
	if end >= 0 {
		s = s[:end]
	}
	parts := strings.SplitN(s, ".", 3)
	if len(parts) < 2 {
		return 0, 0, es, false
	}
	var err error
	if major, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, es, false
	}
	if minor, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, es, false
	}
	return major, minor, es, true
}

// parseGLSL turns "4.60 ..." or "OpenGL ES GLSL ES 3.00" into 460 or 300.
// Single digit minors count as tens: "1.2" is 120.
func parseGLSL(s string) int {
	major, minor, _, ok := parseVersion(s)
	if !ok {
		return 0
	}
	if minor < 10 {
		minor *= 10
	}
	return major*100 + minor
}

var errNoVersion = errors.New("rhi: driver reported no version")

// driverInfo queries the current context for what backends probe features
// from.
func (r *Renderer) driverInfo() (DriverInfo, error) {
	info := DriverInfo{
		Version:     r.drv.GetString(GLVersion),
		GLSLVersion: r.drv.GetString(GLShadingLanguageVersion),
		Extensions:  map[string]bool{},
	}
	for _, ext := range r.drv.Extensions() {
		info.Extensions[ext] = true
	}
	major, minor, es, ok := parseVersion(info.Version)
	if !ok {
		// Keep the requested version so the caller can still proceed.
		info.Major, info.Minor = r.requestedID.Major, r.requestedID.Minor
		return info, errNoVersion
	}
	info.Major, info.Minor, info.ES = major, minor, es
	info.GLSL = parseGLSL(info.GLSLVersion)
	return info, nil
}
