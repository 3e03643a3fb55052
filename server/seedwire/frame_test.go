package seedwire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func header(n uint32) []byte {
	var h [headerSize]byte
	binary.BigEndian.PutUint32(h[:], n)
	return h[:]
}

func TestFrame_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, ParseRequest{ID: 7, SQL: "SELECT * FROM t"}))
	require.NoError(t, WriteFrame(&buf, ParseRequest{ID: 8, SQL: ""}))

	var got ParseRequest
	require.NoError(t, ReadFrame(&buf, &got))
	assert.Equal(t, ParseRequest{ID: 7, SQL: "SELECT * FROM t"}, got)

	require.NoError(t, ReadFrame(&buf, &got))
	assert.Equal(t, uint64(8), got.ID)

	assert.ErrorIs(t, ReadFrame(&buf, &got), io.EOF)
}

func TestReadFrame_Rejects(t *testing.T) {
	var v ParseRequest
	assert.ErrorIs(t, ReadFrame(bytes.NewReader(header(0)), &v), ErrEmptyFrame)
	assert.ErrorIs(t, ReadFrame(bytes.NewReader(header(maxSkip+1)), &v), ErrFrameTooLarge)
	assert.ErrorIs(t, ReadFrame(bytes.NewReader(append(header(10), "abc"...)), &v), io.ErrUnexpectedEOF)

	err := ReadFrame(bytes.NewReader(append(header(3), "{x}"...)), &v)
	assert.ErrorIs(t, err, ErrBadFrame)
	assert.ErrorContains(t, err, "bad json")
}

func TestCodec_SkipsRejectedFrames(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(header(0))
	buf.Write(append(header(40), strings.Repeat("x", 40)...))
	buf.Write(append(header(3), "{x}"...))

	w := NewCodec(&buf, 32)
	require.NoError(t, w.Write(ParseRequest{ID: 9, SQL: "x"}))

	c := NewCodec(&buf, 32)
	var v ParseRequest

	var fe *FrameError
	err := c.Read(&v)
	require.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, ErrEmptyFrame)

	err = c.Read(&v)
	require.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, ErrFrameTooLarge)
	assert.Equal(t, uint32(40), fe.Size)

	err = c.Read(&v)
	require.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, ErrBadFrame)

	// The stream is still aligned on the next frame.
	require.NoError(t, c.Read(&v))
	assert.Equal(t, ParseRequest{ID: 9, SQL: "x"}, v)
}

func TestCodec_Limits(t *testing.T) {
	assert.Equal(t, uint32(MaxFrameSize), NewCodec(&bytes.Buffer{}, 0).limit)
	assert.Equal(t, uint32(maxSkip), NewCodec(&bytes.Buffer{}, 2*maxSkip).limit)

	// The read limit does not shrink what may be written.
	var buf bytes.Buffer
	require.NoError(t, NewCodec(&buf, 16).Write(ParseRequest{SQL: strings.Repeat("a", 32)}))
	assert.Greater(t, buf.Len(), 16)

	buf.Reset()
	err := NewCodec(&buf, 16).Write(ParseRequest{SQL: strings.Repeat("a", MaxFrameSize)})
	assert.ErrorIs(t, err, ErrFrameTooLarge)
	assert.Zero(t, buf.Len())

	// Bodies past the skip cap cannot be resynchronised.
	err = NewCodec(bytes.NewBuffer(header(maxSkip+1)), 16).Read(&ParseRequest{})
	assert.ErrorIs(t, err, ErrFrameTooLarge)
	var fe *FrameError
	assert.False(t, errors.As(err, &fe))
}
