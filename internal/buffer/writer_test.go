package buffer_test

import (
	"bytes"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"

	"github.com/pgwire/pgwire/internal/buffer"
	"github.com/pgwire/pgwire/internal/types"
)

func TestWriterEncodesFrameLength(t *testing.T) {
	var dst bytes.Buffer
	w := buffer.NewWriter(slogt.New(t), &dst)

	w.Start(types.ClientSimpleQuery)
	w.AddNullTerminatedString("select 1")
	require.NoError(t, w.End())

	out := dst.Bytes()
	require.Equal(t, byte(types.ClientSimpleQuery), out[0])
	require.Equal(t, uint32(len(out)-1), readUint32(out[1:5]))
	require.Equal(t, "select 1\x00", string(out[5:]))
}

func TestWriterResetDiscardsFrame(t *testing.T) {
	var dst bytes.Buffer
	w := buffer.NewWriter(slogt.New(t), &dst)

	w.Start(types.ClientSync)
	w.AddByte('x')
	w.Reset()
	w.Start(types.ClientSync)
	require.NoError(t, w.End())

	out := dst.Bytes()
	require.Equal(t, byte(types.ClientSync), out[0])
	require.Equal(t, uint32(4), readUint32(out[1:5]))
}

func readUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
