package controllers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/hiakki/GhumaggerSnap/archive"
	"github.com/hiakki/GhumaggerSnap/browse"
	"github.com/hiakki/GhumaggerSnap/sandbox"
	"github.com/hiakki/GhumaggerSnap/streamer"
	"github.com/hiakki/GhumaggerSnap/thumbs"
	"github.com/hiakki/GhumaggerSnap/tool"
)

// abortDomainError translates core sentinel errors into their stable
// HTTP statuses. Raw OS errors never reach the client.
func abortDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sandbox.ErrForbiddenPath):
		c.AbortWithStatusJSON(http.StatusForbidden, tool.FastReturnError("Path is outside the media root"))
	case errors.Is(err, browse.ErrNotFound), os.IsNotExist(err):
		c.AbortWithStatusJSON(http.StatusNotFound, tool.FastReturnError("Not found"))
	case errors.Is(err, browse.ErrNotDirectory):
		c.AbortWithStatusJSON(http.StatusBadRequest, tool.FastReturnError("Path is not a directory"))
	case os.IsPermission(err):
		c.AbortWithStatusJSON(http.StatusForbidden, tool.FastReturnError("Permission denied"))
	case errors.Is(err, streamer.ErrRangeNotSatisfiable):
		c.AbortWithStatusJSON(http.StatusRequestedRangeNotSatisfiable, tool.FastReturnError("Range not satisfiable"))
	case errors.Is(err, thumbs.ErrUnsupportedKind):
		c.AbortWithStatusJSON(http.StatusNotFound, tool.FastReturnError("No thumbnail"))
	case errors.Is(err, thumbs.ErrGenerationFailed):
		c.AbortWithStatusJSON(http.StatusInternalServerError, tool.FastReturnError("Thumbnail generation failed"))
	case errors.Is(err, archive.ErrNoSelection):
		c.AbortWithStatusJSON(http.StatusBadRequest, tool.FastReturnError("No files selected"))
	case errors.Is(err, archive.ErrNoValidFiles):
		c.AbortWithStatusJSON(http.StatusNotFound, tool.FastReturnError("No files found"))
	default:
		tool.DefaultLogger.Errorf("[API] Unmapped error: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, tool.FastReturnError("Internal error"))
	}
}
