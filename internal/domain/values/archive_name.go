package values

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChar   = regexp.MustCompile(`[^\w-]`)
)

// ArchiveFormat selects the archive codec.
type ArchiveFormat string

const (
	ArchiveFormatZip   ArchiveFormat = "zip"
	ArchiveFormatTarGz ArchiveFormat = "tar.gz"
)

// Extension returns the file extension without the leading dot.
func (f ArchiveFormat) Extension() string {
	return string(f)
}

// ParseArchiveFormat accepts "zip", "tar.gz" and the "tgz"/"tar" aliases.
func ParseArchiveFormat(s string) (ArchiveFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zip":
		return ArchiveFormatZip, true
	case "tar.gz", "tgz", "tar":
		return ArchiveFormatTarGz, true
	default:
		return "", false
	}
}

// ArchiveSlug turns a profile name into a file-system friendly base name:
// lowercased, trimmed, whitespace runs collapsed to "-", and every remaining
// character outside [A-Za-z0-9_-] replaced with "_".
func ArchiveSlug(name string) string {
	slug := strings.TrimSpace(strings.ToLower(name))
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	return nonSlugChar.ReplaceAllString(slug, "_")
}

// ArchiveFileName joins a slug and the format extension.
func ArchiveFileName(name string, format ArchiveFormat) string {
	return ArchiveSlug(name) + "." + format.Extension()
}
