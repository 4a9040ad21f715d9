package icons_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Yizune/Inventory-Manager/internal/icons"
)

func writeIcon(t *testing.T, dir, ref string, w, h int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}

	var buf bytes.Buffer

	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ref+".png"), buf.Bytes(), 0o600))
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestRenderSizes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeIcon(t, dir, "sword", 20, 10)

	for _, tt := range []struct {
		name        string
		defaultSize int
		size        int
		wantW       int
		wantH       int
	}{
		{name: "original", wantW: 20, wantH: 10},
		{name: "requested", size: 8, wantW: 8, wantH: 8},
		{name: "configured default", defaultSize: 16, wantW: 16, wantH: 16},
		{name: "request beats default", defaultSize: 16, size: 4, wantW: 4, wantH: 4},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			err := icons.NewResolver(dir, tt.defaultSize).Render(&buf, "sword", tt.size)
			require.NoError(t, err)

			w, h := decodeSize(t, buf.Bytes())
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("size=%dx%d, want=%dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeIcon(t, dir, "knight", 4, 4)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o600))

	r := icons.NewResolver(dir, 0)

	var buf bytes.Buffer

	require.ErrorIs(t, r.Render(&buf, "missing", 0), icons.ErrUnknownIcon)
	require.ErrorIs(t, r.Render(&buf, "../knight", 0), icons.ErrUnknownIcon)
	require.ErrorIs(t, r.Render(&buf, "knight", -1), icons.ErrInvalidSize)
	require.ErrorIs(t, r.Render(&buf, "knight", icons.MaxSize+1), icons.ErrInvalidSize)

	err := r.Render(&buf, "broken", 0)
	require.Error(t, err)
	require.NotErrorIs(t, err, icons.ErrUnknownIcon)
}
