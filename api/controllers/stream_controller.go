package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hiakki/GhumaggerSnap/browse"
	"github.com/hiakki/GhumaggerSnap/sandbox"
	"github.com/hiakki/GhumaggerSnap/streamer"
	"github.com/hiakki/GhumaggerSnap/tool"
)

// StreamController serves file bytes: inline previews with byte-range
// support for seekable playback, and attachment downloads.
type StreamController struct {
	resolver  *sandbox.Resolver
	chunkSize int
}

func NewStreamController(resolver *sandbox.Resolver, chunkSize int) *StreamController {
	return &StreamController{resolver: resolver, chunkSize: chunkSize}
}

// HandlePreview streams a file inline, honoring a single-range Range
// header with 206/Content-Range semantics.
// GET /api/files/preview?path=
func (s *StreamController) HandlePreview(c *gin.Context) {
	abs, info, ok := s.resolveFile(c)
	if !ok {
		return
	}

	rng, err := streamer.ParseRange(c.GetHeader("Range"), info.Size())
	if err != nil {
		abortDomainError(c, err)
		return
	}

	stream, err := streamer.Open(abs, rng, s.chunkSize)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	defer stream.Close()

	c.Header("Accept-Ranges", "bytes")
	c.Header("Content-Type", browse.MimeFor(abs))
	status := http.StatusOK
	if rng != nil {
		status = http.StatusPartialContent
		c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", rng.Start, rng.End, info.Size()))
	}
	c.Header("Content-Length", strconv.FormatInt(stream.Remaining(), 10))
	c.Status(status)

	s.copyOut(c, stream)
}

// HandleDownload streams a file as an attachment.
// GET /api/files/download?path=
func (s *StreamController) HandleDownload(c *gin.Context) {
	abs, info, ok := s.resolveFile(c)
	if !ok {
		return
	}

	stream, err := streamer.Open(abs, nil, s.chunkSize)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Disposition", `attachment; filename="`+filepath.Base(abs)+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Length", strconv.FormatInt(info.Size(), 10))
	c.Status(http.StatusOK)

	s.copyOut(c, stream)
}

func (s *StreamController) resolveFile(c *gin.Context) (string, os.FileInfo, bool) {
	abs, err := s.resolver.Resolve(c.Query("path"))
	if err != nil {
		abortDomainError(c, err)
		return "", nil, false
	}
	info, err := os.Stat(abs)
	if err != nil {
		abortDomainError(c, err)
		return "", nil, false
	}
	if info.IsDir() {
		c.AbortWithStatusJSON(http.StatusBadRequest, tool.FastReturnError("Path is a directory"))
		return "", nil, false
	}
	return abs, info, true
}

func (s *StreamController) copyOut(c *gin.Context, stream *streamer.Stream) {
	if _, err := stream.WriteTo(c.Request.Context(), c.Writer); err != nil {
		// A mid-stream failure cannot change the status line anymore;
		// client disconnects are routine for video seeking.
		if !errors.Is(err, context.Canceled) {
			tool.DefaultLogger.Debugf("[Stream] Aborted: %v", err)
		}
	}
}
