package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"github.com/hiakki/GhumaggerSnap/tool"
)

const (
	defaultQRSize = 200
	maxQRSize     = 512
)

// HandleShareQRCode returns a PNG QR code, used by the web UI to hand the
// gallery URL to a phone. Encodes the data parameter, or the requesting
// origin when data is omitted.
// GET /api/qrcode?size=200x200&data=<url-encoded-content>
func HandleShareQRCode(c *gin.Context) {
	data := c.Query("data")
	if data == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		data = scheme + "://" + c.Request.Host + "/"
	}

	size := parseQRSize(c.Query("size"))
	if size <= 0 {
		size = defaultQRSize
	}
	if size > maxQRSize {
		size = maxQRSize
	}

	png, err := qrcode.Encode(data, qrcode.Medium, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to encode QR code: "+err.Error()))
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// parseQRSize parses "200x200" or "200" into the pixel dimension.
func parseQRSize(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if idx := strings.Index(s, "x"); idx > 0 {
		s = strings.TrimSpace(s[:idx])
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
