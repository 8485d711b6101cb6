package netinfer

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

// startFakeWorker runs a minimal InferenceServer-like handshake listener
// that then holds each accepted connection open and idle, as a real pooled
// worker would between requests.
func startFakeWorker(t *testing.T, hash uint64) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				if err := ServerHandshake(conn, hash); err != nil {
					conn.Close()
					return
				}
				// idle until the test closes the pool/listener
				buf := make([]byte, 1)
				conn.Read(buf)
				conn.Close()
			}()
		}
	}()
	return ln
}

func TestNewSocketPoolRejectsBadAddress(t *testing.T) {
	_, err := NewSocketPool(Config{ServerList: []string{"not-a-host-port"}})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestSocketPoolFillAndInvariant(t *testing.T) {
	const hash = 0xFEED
	ln := startFakeWorker(t, hash)
	defer ln.Close()

	pool, err := NewSocketPool(Config{
		NumThreads: 3,
		ServerList: []string{ln.Addr().String()},
		Hash:       hash,
	})
	assert.NoError(t, err)

	pool.Start()
	defer pool.Close()

	assert.Equal(t, 3, pool.ActiveCount())

	var checked []*socket
	for i := 0; i < 3; i++ {
		s, err := pool.Acquire()
		assert.NoError(t, err)
		checked = append(checked, s)
	}

	_, err = pool.Acquire()
	assert.ErrorIs(t, err, ErrPoolExhausted)

	// Pool invariant at rest: |available| + inflight == active_count.
	assert.Equal(t, 3, pool.ActiveCount())

	pool.ReleaseOK(checked[0])
	s, err := pool.Acquire()
	assert.NoError(t, err)
	checked[0] = s

	pool.ReleaseBad(checked[1])
	assert.Equal(t, 2, pool.ActiveCount())
}

func TestSocketPoolHandshakeMismatchDiscardsSocket(t *testing.T) {
	ln := startFakeWorker(t, 0x1111)
	defer ln.Close()

	pool, err := NewSocketPool(Config{
		NumThreads: 1,
		ServerList: []string{ln.Addr().String()},
		Hash:       0x2222, // mismatched handshake token
	})
	assert.NoError(t, err)

	pool.Start()
	defer pool.Close()

	assert.Equal(t, 0, pool.ActiveCount())
	_, err = pool.Acquire()
	assert.ErrorIs(t, err, ErrPoolExhausted)
}
