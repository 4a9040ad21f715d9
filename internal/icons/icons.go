// Package icons serves the item pictures named by [inventory.Item.Icon].
//
// An icon reference maps to <dir>/<ref>.png. Icons are decoded and re-encoded
// as PNG, optionally scaled to a square of a requested size.
package icons

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/image/draw"
)

// MaxSize bounds the edge length of a scaled icon.
const MaxSize = 512

// Error variables for icon lookups.
var (
	ErrUnknownIcon = errors.New("unknown icon")
	ErrInvalidSize = errors.New("invalid icon size")
)

var refPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Resolver finds and renders icons in one directory.
type Resolver struct {
	dir  string
	size int
}

// NewResolver returns a resolver over dir. defaultSize is used when Render is
// called with size 0; 0 keeps the original dimensions.
func NewResolver(dir string, defaultSize int) *Resolver {
	return &Resolver{dir: dir, size: defaultSize}
}

// Path returns the file an icon reference maps to. References are plain names,
// so they can never escape the icon directory.
func (r *Resolver) Path(ref string) (string, error) {
	if !refPattern.MatchString(ref) {
		return "", fmt.Errorf("%w: %q", ErrUnknownIcon, ref)
	}

	return filepath.Join(r.dir, ref+".png"), nil
}

// Render writes the icon for ref to w as PNG, scaled to size x size when size
// (or the resolver's default) is non-zero.
func (r *Resolver) Render(w io.Writer, ref string, size int) error {
	if size < 0 || size > MaxSize {
		return fmt.Errorf("%w: %d (want 0..%d)", ErrInvalidSize, size, MaxSize)
	}

	if size == 0 {
		size = r.size
	}

	img, err := r.load(ref)
	if err != nil {
		return err
	}

	if size > 0 {
		img = scale(img, size)
	}

	err = png.Encode(w, img)
	if err != nil {
		return fmt.Errorf("encode icon %s: %w", ref, err)
	}

	return nil
}

func (r *Resolver) load(ref string) (image.Image, error) {
	path, err := r.Path(ref)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownIcon, ref)
		}

		return nil, fmt.Errorf("open icon %s: %w", ref, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode icon %s: %w", ref, err)
	}

	return img, nil
}

func scale(src image.Image, size int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	return dst
}
