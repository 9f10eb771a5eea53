package api

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nfnt/resize"

	"cookcart/internal/recipe"
)

const (
	defaultThumbnailWidth = 320
	maxThumbnailWidth     = 1600
)

var imageExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

// baseFile maps a URL path to a regular file under the base directory.
// Without a configuration there is no base directory and nothing is found.
func (h *Handler) baseFile(c *gin.Context) (string, bool) {
	clean, err := recipe.CheckPath(strings.TrimPrefix(c.Param("path"), "/"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return "", false
	}
	if h.Config == nil {
		c.String(http.StatusNotFound, "File not found")
		return "", false
	}
	file := filepath.Join(h.Config.BasePath, filepath.FromSlash(clean))
	info, err := os.Stat(file)
	if err != nil || !info.Mode().IsRegular() {
		c.String(http.StatusNotFound, "File not found")
		return "", false
	}
	return file, true
}

// Static serves a file from the recipe directory, such as a recipe image.
func (h *Handler) Static(c *gin.Context) {
	file, ok := h.baseFile(c)
	if !ok {
		return
	}
	c.File(file)
}

// Thumbnail serves an image from the recipe directory scaled to ?width=,
// keeping its aspect ratio. Images narrower than width are not enlarged.
func (h *Handler) Thumbnail(c *gin.Context) {
	width := defaultThumbnailWidth
	if w := c.Query("width"); w != "" {
		v, err := strconv.Atoi(w)
		if err != nil || v <= 0 || v > maxThumbnailWidth {
			c.String(http.StatusBadRequest, fmt.Sprintf("invalid width: %q", w))
			return
		}
		width = v
	}

	file, ok := h.baseFile(c)
	if !ok {
		return
	}
	extension := strings.ToLower(filepath.Ext(file))
	if !imageExtensions[extension] {
		c.String(http.StatusBadRequest, "Invalid file type. Only JPEG, JPG, and PNG images are allowed.")
		return
	}

	imageData, err := os.ReadFile(file)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("read image err: %s", err.Error()))
		return
	}
	out, contentType, err := thumbnail(imageData, extension, uint(width))
	if err != nil {
		h.requestLog(c).WithError(err).Error("thumbnail")
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, out)
}

func thumbnail(imageData []byte, extension string, width uint) ([]byte, string, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	if uint(img.Bounds().Dx()) > width {
		img = resize.Resize(width, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	var contentType string
	switch extension {
	case ".jpeg", ".jpg":
		contentType = "image/jpeg"
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	case ".png":
		contentType = "image/png"
		err = png.Encode(&buf, img)
	default:
		return nil, "", fmt.Errorf("unsupported image format: %s", extension)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), contentType, nil
}
