// Package encoding normalizes the text of hand-edited scene documents.
package encoding

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ToUTF8 returns data as plain UTF-8. A UTF-16 byte order mark selects a
// UTF-16 decode; a UTF-8 byte order mark is dropped. Anything else is
// returned unchanged.
func ToUTF8(data []byte) ([]byte, error) {
	if !hasBOM(data) {
		return data, nil
	}
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(data, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(data, []byte{0xFE, 0xFF})
}

// NormalizePath converts backslash separators to forward slashes so file
// names written on Windows resolve everywhere.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
