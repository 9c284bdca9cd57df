package imagetypes

import (
	"path/filepath"
	"strings"
)

// ImageRecord describes a single image found on disk. It is built from
// filesystem metadata and is immutable once constructed.
type ImageRecord struct {
	Path      string `json:"path"`
	Filename  string `json:"filename"`
	SizeBytes uint64 `json:"sizeBytes"`
}

// ImageWithHash pairs an ImageRecord with its base64-encoded perceptual
// hash. It is the unit produced by the hashing pipeline and consumed by
// the duplicate index.
type ImageWithHash struct {
	Info ImageRecord `json:"info"`
	Hash string      `json:"hash"`
}

// DuplicateGroup is a set of two or more records whose hashes fall
// within the configured Hamming-distance threshold of a common seed.
type DuplicateGroup struct {
	Images []ImageRecord `json:"images"`
}

// ImageExtensions maps supported image file extensions to true.
// The extension includes the leading dot and is lowercase.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
	".ico":  true,
	".heic": true,
	".heif": true,
}

// MimeTypes maps supported extensions to their MIME types.
var MimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".ico":  "image/x-icon",
	".heic": "image/heic",
	".heif": "image/heif",
}

// IsImageFile reports whether the given path has a supported image
// extension. The match is case-insensitive.
func IsImageFile(path string) bool {
	return ImageExtensions[strings.ToLower(filepath.Ext(path))]
}

// MimeType returns the MIME type for path, or "application/octet-stream"
// if the extension is not recognized.
func MimeType(path string) string {
	if mt, ok := MimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return "application/octet-stream"
}
