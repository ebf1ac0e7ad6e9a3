package media

import "strings"

// IsValidMediaFile reports whether the declared name/MIME pair is an
// accepted upload: .jpg/.jpeg with any image/* type, or .mp4 with
// video/mp4. Extension matching is case-insensitive.
func IsValidMediaFile(fileName, mimeType string) bool {
	name := strings.ToLower(fileName)
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return false
	}
	ext := name[i+1:]

	switch ext {
	case "jpg", "jpeg":
		return strings.HasPrefix(mimeType, "image/")
	case "mp4":
		return mimeType == "video/mp4"
	default:
		return false
	}
}
