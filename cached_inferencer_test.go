package agogo

import (
	"testing"

	"github.com/agogo-zero/agogo/game"
	"github.com/agogo-zero/agogo/game/mnk"
	"github.com/agogo-zero/agogo/netinfer"
	"github.com/agogo-zero/agogo/nncache"
	"github.com/stretchr/testify/assert"
)

type countingEvaluator struct {
	calls   int
	policy  []float32
	winrate float32
}

func (e *countingEvaluator) Forward(features []float32, selfcheck bool) (netinfer.Netresult, error) {
	e.calls++
	return netinfer.Netresult{Policy: e.policy, PolicyPass: 0.01, Winrate: e.winrate}, nil
}

func flatEncoder(a game.State) []float32 {
	return EncodeTwoPlayerBoard(a.Board(), nil)
}

func TestCachedInferencerCachesMisses(t *testing.T) {
	g := mnk.TicTacToe()
	n := g.ActionSpace()

	eval := &countingEvaluator{policy: make([]float32, n), winrate: 0.42}
	eval.policy[3] = 0.7

	client, err := netinfer.NewDistributedClient(netinfer.Config{}, 2, n, eval)
	assert.NoError(t, err)

	cache := nncache.New(nncache.MinCacheCount, n)
	ci := NewCachedInferencer(flatEncoder, cache, client)

	policy1, value1 := ci.Infer(g)
	assert.Equal(t, 1, eval.calls)
	assert.Len(t, policy1, n+1)
	assert.InDelta(t, 0.7, policy1[3], 64.0/2048)
	assert.Equal(t, float32(0.42), value1)

	policy2, value2 := ci.Infer(g)
	assert.Equal(t, 1, eval.calls, "second Infer on the same state should hit the cache, not the evaluator")
	assert.Equal(t, value1, value2)
	for i := range policy1 {
		assert.InDelta(t, policy1[i], policy2[i], 1e-9)
	}
}

func TestCachedInferencerPassThroughWithoutCache(t *testing.T) {
	g := mnk.TicTacToe()
	n := g.ActionSpace()

	eval := &countingEvaluator{policy: make([]float32, n), winrate: 0.1}
	client, err := netinfer.NewDistributedClient(netinfer.Config{}, 2, n, eval)
	assert.NoError(t, err)

	ci := NewCachedInferencer(flatEncoder, nil, client)

	ci.Infer(g)
	ci.Infer(g)
	assert.Equal(t, 2, eval.calls, "without a cache, every Infer call should reach the evaluator")
}
