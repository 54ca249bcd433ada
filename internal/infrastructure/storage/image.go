// Package storage implements ports.ImageStore on the local disk and on MinIO.
package storage

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/oklog/ulid/v2"

	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/core/ports"
)

// MaxDimension bounds the width and height of stored profile pictures.
const MaxDimension = 512

// MaxSourcePixels bounds the declared size of an upload before it is decoded.
const MaxSourcePixels = 40_000_000

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// prepare decodes the upload, fits it into MaxDimension and re-encodes it in
// its original format. Anything that is not a supported image is rejected as
// a validation error.
func prepare(img ports.ImageUpload) (name string, data []byte, contentType string, err error) {
	ext := strings.ToLower(filepath.Ext(img.Filename))
	contentType, ok := contentTypes[ext]
	if !ok {
		return "", nil, "", domain.Fail(domain.ErrValidation, "Profile Picture must be a JPG, PNG or GIF image")
	}

	raw, err := io.ReadAll(img.Body)
	if err != nil {
		return "", nil, "", fmt.Errorf("read upload: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", nil, "", domain.Fail(domain.ErrValidation, "Profile Picture is not a valid image")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxSourcePixels {
		return "", nil, "", domain.Fail(domain.ErrValidation, "Profile Picture dimensions are too large")
	}

	decoded, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", nil, "", domain.Fail(domain.ErrValidation, "Profile Picture is not a valid image")
	}
	fitted := imaging.Fit(decoded, MaxDimension, MaxDimension, imaging.Lanczos)

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return "", nil, "", fmt.Errorf("image format %s: %w", ext, err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, format, imaging.JPEGQuality(85)); err != nil {
		return "", nil, "", fmt.Errorf("encode image: %w", err)
	}

	return strings.ToLower(ulid.Make().String()) + ext, buf.Bytes(), contentType, nil
}

// validName rejects anything that is not a bare generated file name.
func validName(kind, name string) bool {
	if _, ok := domain.ParseKind(kind); !ok {
		return false
	}
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return false
	}
	_, ok := contentTypes[strings.ToLower(filepath.Ext(name))]
	return ok
}

func contentTypeOf(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
