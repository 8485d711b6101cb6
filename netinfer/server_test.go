package netinfer

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type echoLocal struct {
	n int
}

func (e echoLocal) Forward(features []float32, selfcheck bool) (Netresult, error) {
	policy := make([]float32, e.n)
	for i := range policy {
		policy[i] = float32(i) / float32(e.n)
	}
	return Netresult{Policy: policy, PolicyPass: 0.11, Winrate: 0.5}, nil
}

func TestInferenceServerServesOneConnection(t *testing.T) {
	channels, n := 2, 6
	hash := uint64(0xC0DE)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)

	srv := NewInferenceServer(Config{NumThreads: 2, Hash: hash}, channels, n, echoLocal{n: n})
	go srv.serve(ln)
	defer srv.Close()

	conn, err := net.Dial("tcp", ln.Addr().String())
	assert.NoError(t, err)
	defer conn.Close()

	assert.NoError(t, ClientHandshake(conn, hash))

	features := make([]float32, channels*n)
	assert.NoError(t, WriteRequest(conn, channels, n, features))

	policy, policyPass, winrate, err := ReadResponse(conn, n)
	assert.NoError(t, err)
	assert.Len(t, policy, n)
	assert.InDelta(t, 0.11, policyPass, 1e-6)
	assert.InDelta(t, 0.5, winrate, 1e-6)
}

func TestInferenceServerDropsMismatchedHandshake(t *testing.T) {
	channels, n := 1, 4
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)

	srv := NewInferenceServer(Config{NumThreads: 1, Hash: 0xAAAA}, channels, n, echoLocal{n: n})
	go srv.serve(ln)
	defer srv.Close()

	conn, err := net.Dial("tcp", ln.Addr().String())
	assert.NoError(t, err)
	defer conn.Close()

	err = ClientHandshake(conn, 0xBBBB)
	assert.ErrorIs(t, err, ErrHashMismatch)
}
