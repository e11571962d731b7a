package woo

import (
	"regexp"
	"strings"
)

// DefaultNamespace is the REST namespace appended when the store URL does not
// name one.
const DefaultNamespace = "wc/v3"

var (
	versionedPath = regexp.MustCompile(`(?i)/wp-json/wc/v\d+$`)
	apiRootPath   = regexp.MustCompile(`(?i)/wp-json$`)
)

// NormalizeBaseURL derives the REST base from whatever the operator typed:
// a store root, the wp-json root or a full versioned endpoint. Normalizing a
// normalized URL returns it unchanged.
func NormalizeBaseURL(raw string) string {
	clean := strings.TrimRight(strings.TrimSpace(raw), "/")
	switch {
	case versionedPath.MatchString(clean):
		return clean
	case apiRootPath.MatchString(clean):
		return clean + "/" + DefaultNamespace
	default:
		return clean + "/wp-json/" + DefaultNamespace
	}
}
