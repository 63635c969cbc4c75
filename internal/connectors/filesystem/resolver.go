package filesystem

import "strings"

// DisplayPath converts a document URI to something worth showing a
// human. file:// URIs become plain paths; upload:// URIs reduce to the
// original filename; bare paths pass through unchanged.
func DisplayPath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		return strings.TrimPrefix(uri, "file://")
	}
	if strings.HasPrefix(uri, "upload://") {
		return strings.TrimPrefix(uri, "upload://")
	}
	return uri
}
