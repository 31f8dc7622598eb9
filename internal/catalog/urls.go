package catalog

import "strings"

// AbsoluteImageURL resolves a stored image reference against the public
// base URL. Empty values stay empty, values that already carry a scheme
// pass through, rooted paths are joined onto the base URL and anything
// else is treated as relative to the base URL's static asset root.
func AbsoluteImageURL(baseURL, imagePath string) string {
	if strings.TrimSpace(imagePath) == "" {
		return ""
	}
	if strings.HasPrefix(imagePath, "http://") || strings.HasPrefix(imagePath, "https://") {
		return imagePath
	}
	if strings.HasPrefix(imagePath, "/") {
		return baseURL + imagePath
	}
	return baseURL + "/" + imagePath
}
