package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mkalvans/userhub/internal/common"
	"github.com/mkalvans/userhub/internal/server/services"
)

var allowedPictureTypes = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

type PictureHandler struct {
	pictures *services.PictureService
}

func NewPictureHandler(pictures *services.PictureService) *PictureHandler {
	return &PictureHandler{pictures: pictures}
}

// Upload stores the multipart "file" part as the user's profile picture.
// The image type is taken from the uploaded file name's extension.
func (h *PictureHandler) Upload(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: file is required", common.ErrValidation)
	}

	ext := pictureExtension(fh.Filename)
	if _, ok := allowedPictureTypes[ext]; !ok {
		return fmt.Errorf("%w: unsupported image type", common.ErrValidation)
	}

	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("%w: unreadable file", common.ErrValidation)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("%w: unreadable file", common.ErrValidation)
	}

	if err := h.pictures.Put(c.Request().Context(), id, data, ext); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "profile picture updated"})
}

// Get streams the stored profile picture back with its image content type.
func (h *PictureHandler) Get(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	pic, err := h.pictures.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	contentType := pic.ContentType
	if contentType == "jpg" {
		contentType = "jpeg"
	}
	return c.Blob(http.StatusOK, "image/"+contentType, pic.Data)
}

// Delete removes the stored profile picture.
func (h *PictureHandler) Delete(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	if err := h.pictures.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "profile picture deleted"})
}

func pictureExtension(filename string) string {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}
