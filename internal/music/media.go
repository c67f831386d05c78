package music

import "strings"

// ResolveStreamURL converts a stored file path into a playable URL under
// the platform's media host. Paths already in URL form pass through
// unchanged so externally hosted tracks keep working.
func ResolveStreamURL(baseURL, filePath string) string {
	if filePath == "" {
		return ""
	}
	if strings.HasPrefix(filePath, "http://") || strings.HasPrefix(filePath, "https://") {
		return filePath
	}
	base := strings.TrimSuffix(baseURL, "/")
	path := strings.TrimPrefix(filePath, "/")
	if base == "" {
		return "/" + path
	}
	return base + "/" + path
}
