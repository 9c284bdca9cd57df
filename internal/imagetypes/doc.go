// Package imagetypes defines the shared value types for the image
// sorter (image records, hashed records, duplicate groups) and the
// tables of supported image formats.
package imagetypes
