package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hiakki/GhumaggerSnap/browse"
	"github.com/hiakki/GhumaggerSnap/sandbox"
)

// FilesController serves directory listings and per-directory stats.
type FilesController struct {
	resolver *sandbox.Resolver
}

func NewFilesController(resolver *sandbox.Resolver) *FilesController {
	return &FilesController{resolver: resolver}
}

// HandleList lists one directory level with filtering and sorting.
// GET /api/files?path=&search=&file_type=&sort=
func (f *FilesController) HandleList(c *gin.Context) {
	rel := sandbox.CleanRelPath(c.Query("path"))
	abs, err := f.resolver.Resolve(rel)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	resp, err := browse.List(abs, rel, browse.ListOptions{
		Search:  c.Query("search"),
		Kind:    c.Query("file_type"),
		SortKey: c.DefaultQuery("sort", browse.SortNewest),
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleStats aggregates one directory level.
// GET /api/stats?path=
func (f *FilesController) HandleStats(c *gin.Context) {
	abs, err := f.resolver.Resolve(c.Query("path"))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	resp, err := browse.Stats(abs)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
