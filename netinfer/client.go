package netinfer

import (
	"time"

	"github.com/pkg/errors"
)

// retryDelay is how long Evaluate sleeps before retrying when the pool is
// exhausted and no local evaluator is available to fall back to.
const retryDelay = time.Second

// DistributedClient routes an evaluation request to a pooled remote worker,
// falling back to a LocalEvaluator on error, timeout, or when the pool
// itself was never configured. It composes a LocalEvaluator by reference
// rather than by inheritance - the "forward" behavior of the original
// source's base class becomes an interface held alongside the pool.
type DistributedClient struct {
	pool     *SocketPool
	local    LocalEvaluator
	channels int
	n        int
}

// NewDistributedClient builds a client for a game with the given input
// channel count and action-space size n. If conf describes a usable
// serverlist, a SocketPool is created and started; otherwise the pool stays
// uninitialized and every Evaluate call goes straight to local.
func NewDistributedClient(conf Config, channels, n int, local LocalEvaluator) (*DistributedClient, error) {
	dc := &DistributedClient{local: local, channels: channels, n: n}
	if conf.IsValid() {
		pool, err := NewSocketPool(conf)
		if err != nil {
			return nil, err
		}
		pool.Start()
		dc.pool = pool
	}
	return dc, nil
}

// Evaluate runs one evaluation: selfcheck always goes local; an
// uninitialized pool always goes local; otherwise a pooled socket is tried
// with a bounded deadline, falling back to local (or sleeping and retrying,
// if there is no local) on exhaustion, timeout, or I/O error.
func (dc *DistributedClient) Evaluate(features []float32, selfcheck bool) (Netresult, error) {
	if selfcheck {
		return dc.forwardLocal(features, true)
	}
	if dc.pool == nil {
		return dc.forwardLocal(features, false)
	}

	for {
		s, err := dc.pool.Acquire()
		if err != nil {
			if dc.local != nil {
				return dc.forwardLocal(features, false)
			}
			time.Sleep(retryDelay)
			continue
		}

		result, err := dc.exchange(s, features)
		if err == nil {
			dc.pool.ReleaseOK(s)
			return result, nil
		}
		dc.pool.ReleaseBad(s)

		if dc.local != nil {
			return dc.forwardLocal(features, false)
		}
		time.Sleep(retryDelay)
	}
}

func (dc *DistributedClient) forwardLocal(features []float32, selfcheck bool) (Netresult, error) {
	if dc.local == nil {
		return Netresult{}, errors.New("netinfer: no local evaluator and remote pool unavailable")
	}
	return dc.local.Forward(features, selfcheck)
}

// exchange runs one request/response round-trip against s within a
// dialTimeout wall-clock budget, enforced with a connection deadline.
func (dc *DistributedClient) exchange(s *socket, features []float32) (Netresult, error) {
	s.conn.SetDeadline(time.Now().Add(dialTimeout))
	defer s.conn.SetDeadline(time.Time{})

	if err := WriteRequest(s.conn, dc.channels, dc.n, features); err != nil {
		return Netresult{}, err
	}
	policy, policyPass, winrate, err := ReadResponse(s.conn, dc.n)
	if err != nil {
		return Netresult{}, err
	}
	return Netresult{Policy: policy, PolicyPass: policyPass, Winrate: winrate}, nil
}

// Close releases the underlying pool, if any.
func (dc *DistributedClient) Close() {
	if dc.pool != nil {
		dc.pool.Close()
	}
}
