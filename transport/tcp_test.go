package transport_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pgwire/pgwire/transport"
)

func TestTCPConnectReadWrite(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, acceptErr := ln.Accept()
		require.NoError(t, acceptErr)
		defer conn.Close()

		buf := make([]byte, 5)
		_, readErr := conn.Read(buf)
		require.NoError(t, readErr)
		require.Equal(t, "hello", string(buf))
		_, writeErr := conn.Write([]byte("world"))
		require.NoError(t, writeErr)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	tr := &transport.TCP{}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, tr.Connect(ctx, "127.0.0.1", uint16(addr.Port)))
	defer tr.Close()

	_, err = tr.Write([]byte("hello"))
	require.NoError(t, err)

	buf := make([]byte, 5)
	_, err = tr.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "world", string(buf))

	<-done
}

func TestTCPChannelBindingUnavailableWithoutTLS(t *testing.T) {
	tr := &transport.TCP{}
	_, ok := tr.ChannelBindingFingerprint()
	require.False(t, ok)
}
