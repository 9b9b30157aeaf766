package backup

import (
	"fmt"
	"strings"
)

// maxDeviceNameRunes bounds the device-name component of a package segment so
// the total path stays well under filesystem limits.
const maxDeviceNameRunes = 80

// unknownClassSegment is the fallback folder for classes that are not safe
// filesystem tokens.
const unknownClassSegment = Unknown

const illegalPathChars = `\/:*?"<>|`

// Resolver derives filesystem-safe, collision-free folder names for class
// buckets and the packages inside them. It tracks every segment it has issued
// so that no two packages in one session resolve to the same full path.
type Resolver struct {
	issued map[string]map[string]int
}

// NewResolver creates a Resolver for one backup session.
func NewResolver() *Resolver {
	return &Resolver{issued: make(map[string]map[string]int)}
}

// ClassSegment returns the folder name for a device class: the class string
// verbatim when it is a safe filesystem token, otherwise the Unknown
// fallback. Classes are never subdivided further.
func (r *Resolver) ClassSegment(class string) string {
	if !isSafeSegment(class) {
		return unknownClassSegment
	}
	return class
}

// PackageSegment returns the folder name for a package under the given class
// segment: "{PrimaryDeviceName}_{Version} Package", sanitized and truncated.
// When sanitization makes two packages collide, the second and later
// issuances get a numeric disambiguator; the first issuance is never
// decorated.
func (r *Resolver) PackageSegment(classSegment string, pkg *DriverPackage) string {
	primary := pkg.Primary()

	name := sanitizeSegment(primary.DeviceName)
	if runes := []rune(name); len(runes) > maxDeviceNameRunes {
		name = string(runes[:maxDeviceNameRunes])
	}
	version := sanitizeSegment(primary.Version)

	base := strings.TrimSpace(fmt.Sprintf("%s_%s Package", strings.TrimSpace(name), version))

	class := r.issued[classSegment]
	if class == nil {
		class = make(map[string]int)
		r.issued[classSegment] = class
	}
	class[base]++
	if n := class[base]; n > 1 {
		return fmt.Sprintf("%s (%d)", base, n)
	}
	return base
}

// sanitizeSegment replaces characters illegal in filesystem paths with an
// underscore and trims surrounding whitespace.
func sanitizeSegment(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, c := range s {
		if c < 0x20 || strings.ContainsRune(illegalPathChars, c) {
			sb.WriteRune('_')
		} else {
			sb.WriteRune(c)
		}
	}
	return strings.TrimSpace(sb.String())
}

// isSafeSegment reports whether s can be used verbatim as a path component.
func isSafeSegment(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	if s != strings.TrimSpace(s) {
		return false
	}
	for _, c := range s {
		if c < 0x20 || strings.ContainsRune(illegalPathChars, c) {
			return false
		}
	}
	return true
}
