package controllers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/hiakki/GhumaggerSnap/api/eventhub"
	"github.com/hiakki/GhumaggerSnap/api/middlewares"
	"github.com/hiakki/GhumaggerSnap/archive"
	"github.com/hiakki/GhumaggerSnap/sandbox"
	"github.com/hiakki/GhumaggerSnap/tool"
	"github.com/hiakki/GhumaggerSnap/types"
)

// ArchiveController builds ad-hoc ZIP archives from a path selection.
type ArchiveController struct {
	resolver *sandbox.Resolver
	hub      *eventhub.Hub
}

func NewArchiveController(resolver *sandbox.Resolver, hub *eventhub.Hub) *ArchiveController {
	return &ArchiveController{resolver: resolver, hub: hub}
}

// HandleBulkDownload streams a ZIP of the selected files. The body is
// either {"paths": [...]} or a bare JSON array of paths.
// POST /api/files/bulk-download
func (a *ArchiveController) HandleBulkDownload(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body"))
		return
	}
	var req types.BulkDownloadRequest
	if err := sonic.Unmarshal(body, &req); err != nil {
		if err := sonic.Unmarshal(body, &req.Paths); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body"))
			return
		}
	}
	if len(req.Paths) == 0 {
		abortDomainError(c, archive.ErrNoSelection)
		return
	}

	// Resolve and filter up front so the status code is settled before
	// the first body byte. Unresolvable or forbidden paths are dropped
	// exactly like missing files.
	valid := make([]string, 0, len(req.Paths))
	for _, rel := range req.Paths {
		abs, err := a.resolver.Resolve(rel)
		if err != nil {
			tool.DefaultLogger.Debugf("[Archive] Dropping %q from selection: %v", rel, err)
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		valid = append(valid, abs)
	}
	if len(valid) == 0 {
		abortDomainError(c, archive.ErrNoValidFiles)
		return
	}

	filename := fmt.Sprintf("ghumaggersnap-%s.zip", time.Now().Format("20060102-150405"))
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	written, err := archive.BuildZip(c.Writer, valid)
	if err != nil {
		tool.DefaultLogger.Errorf("[Archive] Build failed after %d entries: %v", written, err)
		return
	}

	if claims := middlewares.ClaimsFrom(c); claims != nil {
		a.hub.Broadcast(&types.Event{
			Type:    types.EventTypeBulkDownload,
			Message: fmt.Sprintf("%s downloaded %d files", claims.Username, written),
			Data: map[string]any{
				"username": claims.Username,
				"files":    written,
				"archive":  filename,
			},
		})
	}
}
