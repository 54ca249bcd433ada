package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/core/ports"
)

// UploadHandler streams stored profile pictures.
type UploadHandler struct {
	images ports.ImageStore
}

func NewUploadHandler(images ports.ImageStore) *UploadHandler {
	return &UploadHandler{images: images}
}

// Serve handles GET /uploads/:kind/:file.
//
// @Summary      Fetch a profile picture
// @Tags         uploads
// @Produce      image/jpeg,image/png,image/gif
// @Param        kind  path  string  true  "Account kind"
// @Param        file  path  string  true  "Stored file name"
// @Success      200
// @Failure      404   {object}  Envelope
// @Router       /uploads/{kind}/{file} [get]
func (h *UploadHandler) Serve(c echo.Context) error {
	kind, ok := domain.ParseKind(c.Param("kind"))
	if !ok {
		return domain.Fail(domain.ErrNotFound, "File not found")
	}

	rc, contentType, err := h.images.Open(c.Request().Context(), string(kind), c.Param("file"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Fail(domain.ErrNotFound, "File not found")
		}
		return err
	}
	defer rc.Close()

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, contentType, rc)
}
