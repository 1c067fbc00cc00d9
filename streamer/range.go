// Package streamer serves file bytes as lazily chunked sequences with
// single-range HTTP semantics for seekable media playback.
package streamer

import (
	"errors"
	"regexp"
	"strconv"
)

// ErrRangeNotSatisfiable is returned when the range start lies at or
// beyond the end of the file (HTTP 416).
var ErrRangeNotSatisfiable = errors.New("requested range not satisfiable")

// rangePattern is the accepted subset of the Range header: one range,
// decimal bounds, optional open end. Multi-range requests do not match
// and are treated as absent, like any other malformed header.
var rangePattern = regexp.MustCompile(`^bytes=(\d+)-(\d*)$`)

// ByteRange is an inclusive byte interval within a file.
type ByteRange struct {
	Start int64
	End   int64
}

// Length is the number of bytes the range covers.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ParseRange interprets a Range header value against a file size.
// An empty or malformed header yields (nil, nil): callers fall back to a
// full-body response. An omitted end defaults to size-1; an end past the
// file is clamped. Only start >= size is an error.
func ParseRange(header string, size int64) (*ByteRange, error) {
	if header == "" {
		return nil, nil
	}
	m := rangePattern.FindStringSubmatch(header)
	if m == nil {
		return nil, nil
	}
	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil, nil
	}
	end := size - 1
	if m[2] != "" {
		end, err = strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return nil, nil
		}
	}
	if start >= size {
		return nil, ErrRangeNotSatisfiable
	}
	if end >= size {
		end = size - 1
	}
	if end < start {
		// syntactically inverted range, ignore the header
		return nil, nil
	}
	return &ByteRange{Start: start, End: end}, nil
}
