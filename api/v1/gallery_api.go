package v1

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"socialbook/internal/auth"
	"socialbook/internal/metrics"
	"socialbook/middleware"
	"socialbook/service"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps what we are willing to read from one upload before
// any image processing starts.
const maxUploadBytes = 16 << 20

// GalleryAPI exposes HTTP handlers for the photo gallery.
type GalleryAPI struct {
	gallery  *service.GalleryService
	sessions *auth.SessionManager
}

func NewGalleryAPI(gallery *service.GalleryService, sessions *auth.SessionManager) *GalleryAPI {
	return &GalleryAPI{gallery: gallery, sessions: sessions}
}

// List returns the gallery projection in insertion order.
func (g *GalleryAPI) List(c *gin.Context) {
	photos, err := g.gallery.List(middleware.CurrentUserID(c))
	if err != nil {
		renderError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

// Upload accepts one image in the multipart field "photo", normalizes it
// and appends it to the gallery.
func (g *GalleryAPI) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		metrics.IncUpload("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		metrics.IncUpload("too_large")
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		metrics.IncUpload("internal_error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		metrics.IncUpload("internal_error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	userID := middleware.CurrentUserID(c)
	declaredMIME := fileHeader.Header.Get("Content-Type")
	if err := g.gallery.Add(c.Request.Context(), userID, data, declaredMIME); err != nil {
		switch {
		case errors.Is(err, service.ErrNotAnImage):
			metrics.IncUpload("not_an_image")
		case errors.Is(err, service.ErrGalleryFull):
			metrics.IncUpload("gallery_full")
			_ = g.sessions.SetFlash(middleware.CurrentSessionID(c), auth.Flash{
				Type:    "error",
				Message: "Your photo gallery is full.",
			})
		default:
			metrics.IncUpload("internal_error")
		}
		renderError(c, err, nil)
		return
	}

	metrics.IncUpload("success")
	_ = g.sessions.SetFlash(middleware.CurrentSessionID(c), auth.Flash{
		Type:    "success",
		Message: "Photo uploaded.",
	})
	c.JSON(http.StatusCreated, gin.H{"message": "photo uploaded"})
}

// Remove deletes the gallery element at the zero-based index.
func (g *GalleryAPI) Remove(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		renderError(c, service.ErrInvalidIndex, nil)
		return
	}
	if err := g.gallery.Remove(middleware.CurrentUserID(c), index); err != nil {
		renderError(c, err, nil)
		return
	}
	_ = g.sessions.SetFlash(middleware.CurrentSessionID(c), auth.Flash{
		Type:    "success",
		Message: "Photo removed.",
	})
	c.JSON(http.StatusOK, gin.H{"message": "photo removed"})
}
