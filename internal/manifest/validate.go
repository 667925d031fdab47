package manifest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/vk/splashload/internal/config"
)

// Validate checks a single descriptor: a non-empty display name, a class
// that is a valid identifier, and a relative path that is empty or a
// directory prefix ending in "/" that stays inside its namespace.
func Validate(d config.Descriptor) error {
	if strings.TrimSpace(d.DisplayName) == "" {
		return fmt.Errorf("attribute %q must not be empty", "name")
	}
	if !IsIdentifier(d.Class) {
		return fmt.Errorf("attribute %q: %q is not a valid identifier", "class", d.Class)
	}
	if d.RelativePath == "" {
		return nil
	}
	if !strings.HasSuffix(d.RelativePath, "/") {
		return fmt.Errorf("attribute %q: %q must end with a path separator", "path", d.RelativePath)
	}
	if strings.HasPrefix(d.RelativePath, "/") {
		return fmt.Errorf("attribute %q: %q must be relative", "path", d.RelativePath)
	}
	for _, seg := range strings.Split(strings.TrimSuffix(d.RelativePath, "/"), "/") {
		if seg == ".." {
			return fmt.Errorf("attribute %q: %q must not leave its namespace", "path", d.RelativePath)
		}
	}
	return nil
}

// IsIdentifier reports whether s is a letter or underscore followed by
// letters, digits or underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
