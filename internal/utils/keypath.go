package utils

import (
	"strconv"
	"strings"
)

// Key paths name a location inside a config document the way error
// messages print it: table keys joined with dots, list items as [i].
// For example images.domains[1] or experimental.appDir.

// JoinKey appends a table key to a parent path.
func JoinKey(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// IndexKey appends a list index to a parent path.
func IndexKey(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}

// JSONPointerToPath converts a JSON Pointer (RFC 6901) to a key path.
// "#/images/domains/0" becomes "images.domains[0]".
func JSONPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil && path != "" {
			path = IndexKey(path, idx)
			continue
		}
		path = JoinKey(path, part)
	}
	return path
}
