package textutil

import "strings"

// pathSegmentReplacer swaps characters that are illegal in file names on at
// least one supported platform for underscores.
var pathSegmentReplacer = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	"\"", "_",
	"/", "_",
	"\\", "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

// SanitizePathSegment converts a catalog value into a safe single path
// segment. Illegal characters become underscores and leading/trailing dots
// and spaces are stripped. Empty or unusable input yields "Unknown" so the
// destination tree never gains empty components.
func SanitizePathSegment(value string) string {
	sanitized := pathSegmentReplacer.Replace(value)
	sanitized = strings.Trim(sanitized, ". ")
	if sanitized == "" {
		return "Unknown"
	}
	return sanitized
}
