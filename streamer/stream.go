package streamer

import (
	"context"
	"fmt"
	"io"
	"os"
)

// DefaultChunkSize bounds how much of a file is resident per read.
const DefaultChunkSize = 1 << 20 // 1 MiB

// Stream is a finite, single-pass byte sequence over an open file,
// optionally restricted to a byte range. It owns the file handle until
// Close; WriteTo stops promptly when the consumer's context ends so a
// disconnected client never pins an open file.
type Stream struct {
	f         *os.File
	size      int64 // total file size
	remaining int64 // bytes left to emit
	chunkSize int
}

// Open prepares a stream over absPath. A nil rng streams the whole
// file; otherwise the stream is positioned at rng.Start and bounded to
// rng.Length(). chunkSize <= 0 uses DefaultChunkSize.
func Open(absPath string, rng *ByteRange, chunkSize int) (*Stream, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	f, err := os.Open(absPath)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	s := &Stream{f: f, size: info.Size(), remaining: info.Size(), chunkSize: chunkSize}
	if rng != nil {
		if _, err := f.Seek(rng.Start, io.SeekStart); err != nil {
			f.Close()
			return nil, err
		}
		s.remaining = rng.Length()
	}
	return s, nil
}

// Size is the total file size, for Content-Length/Content-Range headers.
func (s *Stream) Size() int64 {
	return s.size
}

// Remaining is the number of bytes the stream will still emit.
func (s *Stream) Remaining() int64 {
	return s.remaining
}

// WriteTo copies the stream to dst in chunkSize slices, checking ctx
// between chunks. It stops early only when ctx is done or the
// underlying read is exhausted.
func (s *Stream) WriteTo(ctx context.Context, dst io.Writer) (int64, error) {
	buf := make([]byte, s.chunkSize)
	var written int64
	for s.remaining > 0 {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		want := int64(len(buf))
		if s.remaining < want {
			want = s.remaining
		}
		nr, readErr := s.f.Read(buf[:want])
		if nr > 0 {
			nw, writeErr := dst.Write(buf[:nr])
			written += int64(nw)
			s.remaining -= int64(nw)
			if writeErr != nil {
				return written, writeErr
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return written, nil
			}
			return written, fmt.Errorf("read failed: %w", readErr)
		}
	}
	return written, nil
}

// Close releases the file handle.
func (s *Stream) Close() error {
	return s.f.Close()
}
