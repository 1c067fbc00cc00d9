package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hiakki/GhumaggerSnap/sandbox"
	"github.com/hiakki/GhumaggerSnap/thumbs"
)

// ThumbnailController serves cached JPEG thumbnails for image files.
type ThumbnailController struct {
	resolver *sandbox.Resolver
	provider thumbs.Provider
}

func NewThumbnailController(resolver *sandbox.Resolver, provider thumbs.Provider) *ThumbnailController {
	return &ThumbnailController{resolver: resolver, provider: provider}
}

// HandleThumbnail returns the thumbnail for an image, generating it on
// first request. Non-images answer 404.
// GET /api/files/thumbnail?path=
func (t *ThumbnailController) HandleThumbnail(c *gin.Context) {
	abs, err := t.resolver.Resolve(c.Query("path"))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	blob, err := t.provider.Get(abs)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", blob)
}
