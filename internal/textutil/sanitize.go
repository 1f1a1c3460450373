// Package textutil sanitizes backend-supplied titles and paths into safe
// local filenames for pulled assets.
package textutil

import (
	"fmt"
	"path"
	"strings"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Letters are lowercased, digits and hyphens/underscores are kept, everything
// else becomes an underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}

// AssetFileName builds the local filename for a pulled asset, keeping the
// served file's extension: "scene_0003_shot_0012_image.png".
func AssetFileName(sceneID, shotID int64, assetType, servedPath string) string {
	ext := path.Ext(servedPath)
	return fmt.Sprintf("scene_%04d_shot_%04d_%s%s", sceneID, shotID, SanitizeToken(assetType), ext)
}

// StoryDirName builds the per-story directory for pulled assets:
// "7_the-lighthouse".
func StoryDirName(storyID int64, title string) string {
	token := SanitizeToken(title)
	token = strings.ReplaceAll(token, "_", "-")
	return fmt.Sprintf("%d_%s", storyID, token)
}
