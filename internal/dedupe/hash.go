package dedupe

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"image"
	"math/bits"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/webp" // webp decoder
)

const (
	// hashSize is the DCT grid edge: a 16x16 grid yields a 256-bit hash.
	hashSize = 16

	// hashWords is the number of 64-bit words in an encoded hash.
	hashWords = hashSize * hashSize / 64

	// maxHashDimension bounds hashing cost independent of source
	// resolution: images larger than this on either side are shrunk
	// before hashing.
	maxHashDimension = 512
)

// openImage decodes an image from disk, honoring EXIF orientation.
// It is a package variable so tests can count or stub decodes.
var openImage = func(path string) (image.Image, error) {
	return imaging.Open(path, imaging.AutoOrientation(true))
}

// computeHash decodes the image at path and returns its base64-encoded
// perceptual hash. Large images are downscaled with a box filter first;
// the hash is lossy by nature, so the fast filter costs nothing.
func computeHash(path string) (string, error) {
	img, err := openImage(path)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxHashDimension || bounds.Dy() > maxHashDimension {
		img = imaging.Fit(img, maxHashDimension, maxHashDimension, imaging.Box)
	}

	h, err := goimagehash.ExtPerceptionHash(img, hashSize, hashSize)
	if err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return encodeHash(h.GetHash()), nil
}

// encodeHash packs the hash words big-endian and base64-encodes them.
func encodeHash(words []uint64) string {
	buf := make([]byte, 8*len(words))
	for i, w := range words {
		binary.BigEndian.PutUint64(buf[i*8:], w)
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// decodeHash is the inverse of encodeHash.
func decodeHash(s string) ([]uint64, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hash encoding: %w", err)
	}
	if len(raw) == 0 || len(raw)%8 != 0 {
		return nil, fmt.Errorf("invalid hash length %d", len(raw))
	}
	words := make([]uint64, len(raw)/8)
	for i := range words {
		words[i] = binary.BigEndian.Uint64(raw[i*8:])
	}
	return words, nil
}

// hammingDistance counts differing bit positions between two hashes of
// equal width. All hashes within one run share the same width.
func hammingDistance(a, b []uint64) int {
	d := 0
	for i := range a {
		d += bits.OnesCount64(a[i] ^ b[i])
	}
	return d
}
