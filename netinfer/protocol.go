package netinfer

import (
	"encoding/binary"
	"io"
	"math"
	"net"

	"github.com/pkg/errors"
)

// ClientHandshake sends hash, reads back the peer's hash, and returns
// ErrHashMismatch if they differ. It never leaves the socket half-written:
// on any error the caller should close and discard the connection.
func ClientHandshake(conn net.Conn, hash uint64) error {
	if err := writeUint64(conn, hash); err != nil {
		return errors.Wrap(err, "netinfer: sending handshake hash")
	}
	peer, err := readUint64(conn)
	if err != nil {
		return errors.Wrap(err, "netinfer: reading handshake hash")
	}
	if peer != hash {
		return ErrHashMismatch
	}
	return nil
}

// ServerHandshake reads the peer's claimed hash, echoes ours back, and
// returns ErrHashMismatch if they differ (the server side silently drops a
// mismatched connection rather than serving it).
func ServerHandshake(conn net.Conn, hash uint64) error {
	peer, err := readUint64(conn)
	if err != nil {
		return errors.Wrap(err, "netinfer: reading handshake hash")
	}
	if err := writeUint64(conn, hash); err != nil {
		return errors.Wrap(err, "netinfer: sending handshake hash")
	}
	if peer != hash {
		return ErrHashMismatch
	}
	return nil
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// WriteRequest writes one fixed-size request frame: channels*n bytes, one
// byte per input-plane element. len(features) must equal channels*n.
func WriteRequest(w io.Writer, channels, n int, features []float32) error {
	if len(features) != channels*n {
		return errors.Errorf("netinfer: request features length %d, want %d", len(features), channels*n)
	}
	buf := make([]byte, len(features))
	for i, f := range features {
		buf[i] = byte(f)
	}
	_, err := w.Write(buf)
	return errors.Wrap(err, "netinfer: writing request frame")
}

// ReadRequest reads one fixed-size request frame of channels*n bytes.
func ReadRequest(r io.Reader, channels, n int) ([]float32, error) {
	buf := make([]byte, channels*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	features := make([]float32, len(buf))
	for i, b := range buf {
		features[i] = float32(b)
	}
	return features, nil
}

// WriteResponse writes one fixed-size response frame: f32[n+2], laid out as
// [policy[0..n), policy_pass, winrate]. Both ends always agree that slot n
// is policy_pass and slot n+1 is winrate.
func WriteResponse(w io.Writer, policy []float32, policyPass, winrate float32) error {
	n := len(policy)
	buf := make([]byte, 4*(n+2))
	for i, p := range policy {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(p))
	}
	binary.LittleEndian.PutUint32(buf[4*n:], math.Float32bits(policyPass))
	binary.LittleEndian.PutUint32(buf[4*(n+1):], math.Float32bits(winrate))
	_, err := w.Write(buf)
	return errors.Wrap(err, "netinfer: writing response frame")
}

// ReadResponse reads one fixed-size response frame of f32[n+2] and splits it
// back into policy, policy_pass, and winrate.
func ReadResponse(r io.Reader, n int) (policy []float32, policyPass, winrate float32, err error) {
	buf := make([]byte, 4*(n+2))
	if _, err = io.ReadFull(r, buf); err != nil {
		return nil, 0, 0, err
	}
	policy = make([]float32, n)
	for i := range policy {
		policy[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	policyPass = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*n:]))
	winrate = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*(n+1):]))
	return policy, policyPass, winrate, nil
}
