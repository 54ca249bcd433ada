package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/core/ports"
)

func pngUpload(t *testing.T, w, h int) ports.ImageUpload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return ports.ImageUpload{Filename: "Avatar.PNG", ContentType: "image/png", Size: int64(buf.Len()), Body: &buf}
}

func TestDisk_SaveOpenDelete(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	name, err := d.Save(ctx, "admin", pngUpload(t, 1024, 256))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))

	rc, ct, err := d.Open(ctx, "admin", name)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, MaxDimension, cfg.Width)
	assert.Equal(t, MaxDimension/4, cfg.Height)

	require.NoError(t, d.Delete(ctx, "admin", name))
	_, _, err = d.Open(ctx, "admin", name)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDisk_RejectsOversizedDeclaredDimensions(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, image.NewPaletted(image.Rect(0, 0, 1, 1), palette.Plan9), nil))
	data := buf.Bytes()
	// Logical screen width and height, little endian.
	data[6], data[7], data[8], data[9] = 0xff, 0xff, 0xff, 0xff

	_, err = d.Save(context.Background(), "driver", ports.ImageUpload{
		Filename: "huge.gif", ContentType: "image/gif", Size: int64(len(data)), Body: bytes.NewReader(data),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	msg, _ := domain.MessageOf(err)
	assert.Equal(t, "Profile Picture dimensions are too large", msg)

	entries, err := os.ReadDir(d.root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDisk_RejectsNonImages(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	_, err = d.Save(context.Background(), "admin", ports.ImageUpload{Filename: "cv.pdf", Body: strings.NewReader("%PDF")})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = d.Save(context.Background(), "admin", ports.ImageUpload{Filename: "fake.png", Body: strings.NewReader("not a png")})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestDisk_OpenRejectsTraversal(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../secret.png", "..", "", ".env"} {
		_, _, err := d.Open(context.Background(), "admin", name)
		assert.True(t, errors.Is(err, domain.ErrNotFound), name)
	}
	_, _, err = d.Open(context.Background(), "team", "x.png")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
