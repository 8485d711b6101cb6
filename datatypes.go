package agogo

import (
	"io"

	dual "github.com/agogo-zero/agogo/dualnet"
	"github.com/agogo-zero/agogo/game"
	"github.com/agogo-zero/agogo/mcts"
	"github.com/agogo-zero/agogo/netinfer"
)

type Config struct {
	Name            string
	NNConf          dual.Config
	MCTSConf        mcts.Config
	UpdateThreshold float64
	MaxExamples     int // maximum number of examples

	// extensions
	Encoder       GameEncoder
	OutputEncoder OutputEncoder
	Augmenter     Augmenter

	// Cache/distributed inference. Both are zero-value-safe: CacheSize == 0
	// disables the cache layer entirely, and a zero-value Distributed always
	// evaluates locally. Callers that never set these keep the pre-existing
	// direct-to-Inferer behavior unchanged.
	CacheSize     int             // NNCache entry budget; 0 disables caching
	CachePath     string          // optional on-disk journal; empty is memory-only
	CacheReadOnly bool            // open CachePath read-only
	Distributed   netinfer.Config // remote inference worker pool, if any
}

// GameEncoder encodes a game state as a slice of floats
type GameEncoder func(a game.State) []float32

// OutputEncoder encodes the entire meta state as whatever.
//
// An example OutputEncoder is the GifEncoder. Another example would be a logger.
type OutputEncoder interface {
	Encode(ms game.MetaState) error
	Flush() error
}

// Augmenter takes an example, and creates more examples from it.
type Augmenter func(a Example) []Example

// Example is a representation of an example.
type Example struct {
	Board  []float32
	Policy []float32
	Value  float32
}

// Dualer is an interface for anything that allows getting out a *Dual.
//
// Its sole purpose is to form a monoid-ish data structure for Agent.NN
type Dualer interface {
	Dual() *dual.Dual
}

// Inferer is anything that can infer given an input.
type Inferer interface {
	Infer(a []float32) (policy []float32, value float32, err error)
	io.Closer
}

// ExecLogger is anything that can return the execution log.
type ExecLogger interface {
	ExecLog() string
}
