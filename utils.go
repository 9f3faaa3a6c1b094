package mydropbox

import (
	"strings"
	"unicode/utf8"
)

// IsValidFileName reports whether name can be written inside the local
// directory as a single file. It checks that the name:
//   - is not empty, "." or ".."
//   - is a single path segment (no "/" or "\")
//   - is valid UTF-8
//   - does not contain null bytes, control characters (< 0x20) or DEL (0x7f)
func IsValidFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}

	if strings.ContainsAny(name, `/\`) {
		return false
	}

	if !utf8.ValidString(name) {
		return false
	}

	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}

	return true
}
