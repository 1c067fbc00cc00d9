package thumbs

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	// decoders for thumbnail sources
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/hiakki/GhumaggerSnap/browse"
	"github.com/hiakki/GhumaggerSnap/tool"
)

var (
	// ErrUnsupportedKind is returned for files not classified as images.
	ErrUnsupportedKind = errors.New("thumbnails are only generated for images")
	// ErrGenerationFailed wraps decode/encode failures on the source image.
	ErrGenerationFailed = errors.New("thumbnail generation failed")
)

// Provider serves thumbnails for absolute file paths. The disk-backed
// Cache is the only implementation; the interface exists so a bounded
// eviction policy can replace it without touching callers.
type Provider interface {
	Get(absPath string) ([]byte, error)
}

// Cache stores generated JPEG thumbnails in a flat directory keyed by
// content fingerprint. Entries are created lazily and never evicted;
// fingerprint rotation orphans stale blobs when sources change.
// Concurrent generation for the same key is tolerated, last writer wins.
type Cache struct {
	dir     string
	maxSize int
	quality int
}

var _ Provider = (*Cache)(nil)

// NewCache creates the cache directory if needed.
func NewCache(dir string, maxSize, quality int) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, maxSize: maxSize, quality: quality}, nil
}

// Get returns the JPEG thumbnail for absPath, generating and persisting
// it on the first miss. Non-image files fail with ErrUnsupportedKind.
func (c *Cache) Get(absPath string) ([]byte, error) {
	if browse.Classify(absPath) != browse.KindImage {
		return nil, ErrUnsupportedKind
	}
	key, err := Fingerprint(absPath)
	if err != nil {
		return nil, err
	}

	blobPath := filepath.Join(c.dir, key+".jpg")
	if blob, err := os.ReadFile(blobPath); err == nil {
		return blob, nil
	}

	blob, err := c.generate(absPath)
	if err != nil {
		return nil, err
	}
	if err := c.persist(blobPath, blob); err != nil {
		// The response is still good; only the cache write failed.
		tool.DefaultLogger.Warnf("[Thumbs] Failed to persist thumbnail %s: %v", blobPath, err)
	}
	return blob, nil
}

// generate decodes, fits into the bounding box without upscaling,
// flattens transparency onto white and re-encodes as JPEG.
func (c *Cache) generate(absPath string) ([]byte, error) {
	f, err := os.Open(absPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrGenerationFailed, filepath.Base(absPath), err)
	}

	thumb := imaging.Fit(src, c.maxSize, c.maxSize, imaging.Lanczos)
	bounds := thumb.Bounds()
	flat := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat = imaging.Overlay(flat, thumb, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: c.quality}); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrGenerationFailed, err)
	}
	return buf.Bytes(), nil
}

// persist writes through a temp file and renames so a failed write never
// leaves a partial entry under the final key.
func (c *Cache) persist(blobPath string, blob []byte) error {
	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, blobPath)
}
