package seedwire

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	headerSize = 4

	// MaxFrameSize is the default body limit in both directions.
	MaxFrameSize = 8 << 20 // 8 MiB

	// maxSkip bounds how much of an oversized body is read and discarded.
	// Larger bodies end the connection.
	maxSkip = 64 << 20
)

var (
	ErrEmptyFrame    = errors.New("seedwire: empty frame")
	ErrFrameTooLarge = errors.New("seedwire: frame too large")
	ErrBadFrame      = errors.New("seedwire: bad json")
)

// FrameError is returned for a frame whose body has been consumed but could
// not be decoded. The stream is still aligned on the next header, so the
// caller may answer and keep reading.
type FrameError struct {
	Size uint32
	Err  error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%v (%d bytes)", e.Err, e.Size)
}

func (e *FrameError) Unwrap() error { return e.Err }

// Codec reads and writes length-prefixed JSON frames on one stream. The
// configured limit applies to frames read; written frames are capped at
// MaxFrameSize so any peer using the defaults can read them.
type Codec struct {
	rw    io.ReadWriter
	limit uint32
	hdr   [headerSize]byte
}

// NewCodec wraps rw. A limit < 1 means MaxFrameSize; limits above 64 MiB
// are clamped.
func NewCodec(rw io.ReadWriter, limit int) *Codec {
	switch {
	case limit < 1:
		limit = MaxFrameSize
	case limit > maxSkip:
		limit = maxSkip
	}
	return &Codec{rw: rw, limit: uint32(limit)}
}

// Read decodes the next frame into v. Empty, oversized and undecodable
// frames are reported as *FrameError; any other error leaves the stream in
// an unknown state.
func (c *Codec) Read(v any) error {
	if _, err := io.ReadFull(c.rw, c.hdr[:]); err != nil {
		return err
	}
	n := binary.BigEndian.Uint32(c.hdr[:])
	switch {
	case n == 0:
		return &FrameError{Err: ErrEmptyFrame}
	case n > c.limit:
		if n > maxSkip {
			return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, n, c.limit)
		}
		if _, err := io.CopyN(io.Discard, c.rw, int64(n)); err != nil {
			return err
		}
		return &FrameError{Size: n, Err: ErrFrameTooLarge}
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(c.rw, buf); err != nil {
		return err
	}
	if err := json.Unmarshal(buf, v); err != nil {
		return &FrameError{Size: n, Err: fmt.Errorf("%w: %v", ErrBadFrame, err)}
	}
	return nil
}

// Write encodes v as one frame. Header and body go out in one Write.
func (c *Codec) Write(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("seedwire: marshal: %w", err)
	}
	if len(b) > MaxFrameSize {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(b), MaxFrameSize)
	}

	buf := make([]byte, headerSize+len(b))
	binary.BigEndian.PutUint32(buf[:headerSize], uint32(len(b)))
	copy(buf[headerSize:], b)

	_, err = c.rw.Write(buf)
	return err
}

type readOnly struct{ io.Reader }

func (readOnly) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

type writeOnly struct{ io.Writer }

func (writeOnly) Read([]byte) (int, error) { return 0, io.EOF }

// ReadFrame reads one frame from r with the default limit.
func ReadFrame(r io.Reader, v any) error {
	return NewCodec(readOnly{r}, MaxFrameSize).Read(v)
}

// WriteFrame writes v to w as one frame with the default limit.
func WriteFrame(w io.Writer, v any) error {
	return NewCodec(writeOnly{w}, MaxFrameSize).Write(v)
}
