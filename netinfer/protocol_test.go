package netinfer

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandshakeMatchingHash(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- ServerHandshake(server, 0xC0FFEE) }()

	err := ClientHandshake(client, 0xC0FFEE)
	assert.NoError(t, err)
	assert.NoError(t, <-errCh)
}

func TestHandshakeMismatch(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- ServerHandshake(server, 0xAAAA) }()

	err := ClientHandshake(client, 0xBBBB)
	assert.ErrorIs(t, err, ErrHashMismatch)
	assert.ErrorIs(t, <-errCh, ErrHashMismatch)
}

func TestRequestResponseRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	channels, n := 3, 9
	features := make([]float32, channels*n)
	for i := range features {
		features[i] = float32(i % 2)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		got, err := ReadRequest(server, channels, n)
		assert.NoError(t, err)
		assert.Equal(t, features, got)

		policy := make([]float32, n)
		for i := range policy {
			policy[i] = float32(i) / float32(n)
		}
		assert.NoError(t, WriteResponse(server, policy, 0.05, 0.42))
	}()

	assert.NoError(t, WriteRequest(client, channels, n, features))
	policy, policyPass, winrate, err := ReadResponse(client, n)
	assert.NoError(t, err)
	assert.Len(t, policy, n)
	assert.InDelta(t, 0.05, policyPass, 1e-6)
	assert.InDelta(t, 0.42, winrate, 1e-6)
	<-done
}

func TestWriteRequestRejectsWrongLength(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	err := WriteRequest(client, 3, 9, make([]float32, 5))
	assert.Error(t, err)
}
