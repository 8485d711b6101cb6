package netinfer

import "github.com/pkg/errors"

// ErrPoolExhausted signals that no pooled socket was available - not an
// error in the usual sense, but a cue to fall back to local evaluation.
var ErrPoolExhausted = errors.New("netinfer: no socket available")

// ErrHashMismatch is returned by the handshake when the peer's hash token
// does not match ours. The socket is always dropped after this error.
var ErrHashMismatch = errors.New("netinfer: handshake hash mismatch")

// ErrConfig marks a malformed serverlist entry. Fatal at startup.
var ErrConfig = errors.New("netinfer: malformed server address")
