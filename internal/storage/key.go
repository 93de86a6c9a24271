package storage

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/shared/slug"
)

// objectKey derives a collision-free key that still carries a readable trace
// of the original filename.
func objectKey(prefix, filename string) string {
	ext := safeExt(filename)
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	key := slug.FromName(base) + "-" + uuid.NewString() + ext
	if prefix != "" {
		key = strings.Trim(prefix, "/") + "/" + key
	}
	return key
}

func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return ext
	default:
		return ""
	}
}
