// Package netinfer distributes neural-network evaluations across a pool of
// remote inference workers, falling back to a local evaluator whenever the
// pool is empty, uninitialized, or too slow.
package netinfer

// Config configures a DistributedClient, SocketPool, or InferenceServer.
// Field names mirror the original engine's cfg_num_threads/nn_client_verbose/
// serverlist/hash options, Go-cased.
type Config struct {
	NumThreads int      // desired pool size / per-server worker count
	Verbose    bool     // log connection diagnostics
	ServerList []string // "host:port" entries
	Hash       uint64   // weight-file fingerprint, the handshake token
}

// DefaultConfig returns a Config with no servers configured: a
// DistributedClient built from it always delegates to its LocalEvaluator.
func DefaultConfig() Config {
	return Config{NumThreads: 1}
}

// IsValid reports whether conf describes a usable remote pool. A
// DistributedClient may still be constructed from an invalid Config - it
// simply never dials out, matching the "uninitialized pool" fallback path.
func (conf Config) IsValid() bool {
	return conf.NumThreads >= 1 && len(conf.ServerList) > 0
}

// LocalEvaluator is the "local GPU call" a DistributedClient falls back to.
// It mirrors the original source's forward() method: features in, policy
// and value out. Implementations must be safe for concurrent use.
type LocalEvaluator interface {
	Forward(features []float32, selfcheck bool) (Netresult, error)
}

// Netresult is the decoded output of one evaluation. It mirrors
// nncache.Netresult field-for-field, duplicated here so that netinfer does
// not import nncache - the cache and the dispatcher are independently
// usable layers, wired together only in the root package.
type Netresult struct {
	Policy     []float32
	PolicyPass float32
	Winrate    float32
}
