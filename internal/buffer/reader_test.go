package buffer_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"

	"github.com/pgwire/pgwire/internal/buffer"
	"github.com/pgwire/pgwire/internal/types"
)

func TestReaderReadTypedMsg(t *testing.T) {
	var frame bytes.Buffer
	frame.WriteByte(byte(types.ServerReady))
	frame.Write([]byte{0, 0, 0, 5})
	frame.WriteByte('I')

	r := buffer.NewReader(slogt.New(t), bufio.NewReader(&frame))

	tag, msg, err := r.ReadTypedMsg()
	require.NoError(t, err)
	require.Equal(t, types.ServerReady, tag)
	require.Equal(t, []byte{'I'}, msg)
}

func TestReaderGetString(t *testing.T) {
	rest, s, err := buffer.GetString([]byte("hello\x00world"))
	require.NoError(t, err)
	require.Equal(t, "hello", s)
	require.Equal(t, []byte("world"), rest)
}

func TestReaderGetStringMissingTerminator(t *testing.T) {
	_, _, err := buffer.GetString([]byte("hello"))
	require.ErrorIs(t, err, buffer.ErrMissingNulTerminator)
}

func TestReaderGetBytesNull(t *testing.T) {
	rest, b, err := buffer.GetBytes([]byte("abc"), -1)
	require.NoError(t, err)
	require.Nil(t, b)
	require.Equal(t, []byte("abc"), rest)
}

func TestReaderGetUint32(t *testing.T) {
	rest, v, err := buffer.GetUint32([]byte{0, 0, 1, 0, 'x'})
	require.NoError(t, err)
	require.Equal(t, uint32(256), v)
	require.Equal(t, []byte("x"), rest)
}

func TestReaderMessageSizeExceeded(t *testing.T) {
	var frame bytes.Buffer
	frame.WriteByte(byte(types.ServerDataRow))
	frame.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	r := buffer.NewReader(slogt.New(t), bufio.NewReader(&frame))
	r.MaxMessageSize = 16

	_, _, err := r.ReadTypedMsg()
	require.Error(t, err)
	_, ok := buffer.UnwrapMessageSizeExceeded(err)
	require.True(t, ok)
}
