package agogo

import (
	"github.com/agogo-zero/agogo/game"
	"github.com/agogo-zero/agogo/netinfer"
	"github.com/agogo-zero/agogo/nncache"
)

// agentEvaluator adapts an *Agent's local forward pass into a
// netinfer.LocalEvaluator. It holds the Agent rather than a copy of its
// inferer channel, since SwitchToInference replaces that channel - this
// adapter must always see whatever channel is current when Forward runs.
type agentEvaluator struct {
	agent *Agent
}

// NewLocalEvaluator adapts agent into a netinfer.LocalEvaluator, for
// exposing its local forward pass to an InferenceServer or as the fallback
// of a DistributedClient built outside this package.
func NewLocalEvaluator(agent *Agent) netinfer.LocalEvaluator {
	return &agentEvaluator{agent: agent}
}

func (e *agentEvaluator) Forward(features []float32, selfcheck bool) (netinfer.Netresult, error) {
	policy, value, err := e.agent.ForwardFeatures(features)
	if err != nil {
		return netinfer.Netresult{}, err
	}
	n := len(policy) - 1 // last element is the pass probability
	return netinfer.Netresult{
		Policy:     policy[:n],
		PolicyPass: policy[n],
		Winrate:    value,
	}, nil
}

// CachedInferencer is an mcts.Inferencer that consults an NNCache before
// falling through to a DistributedClient (which itself may run remotely or
// fall back to a local evaluator). It is the one hook in the existing
// engine where every tree expansion's network call passes, matching
// mcts/search.go's t.nn.Infer call sites.
type CachedInferencer struct {
	enc    GameEncoder
	cache  *nncache.NNCache
	client *netinfer.DistributedClient
}

// NewCachedInferencer builds a CachedInferencer. cache may be nil, in which
// case every call is a pass-through to client (no lookup/insert performed).
func NewCachedInferencer(enc GameEncoder, cache *nncache.NNCache, client *netinfer.DistributedClient) *CachedInferencer {
	return &CachedInferencer{enc: enc, cache: cache, client: client}
}

// Infer implements mcts.Inferencer. On a cache hit, the stored Netresult is
// split back into a policy vector with PolicyPass appended as the trailing
// pass slot (mcts/search.go's convention that policy[len(policy)-1] is the
// pass probability). On a miss, the request is dispatched and the result
// inserted before returning - lookup precedes dispatch precedes insert, a
// strict happens-before chain within one call.
func (ci *CachedInferencer) Infer(state game.State) (policy []float32, value float32) {
	features := ci.enc(state)

	if ci.cache != nil {
		hash := uint64(state.Hash())
		if r, ok := ci.cache.Lookup(hash); ok {
			return appendPass(r.Policy, r.PolicyPass), r.Winrate
		}

		nr, err := ci.client.Evaluate(features, false)
		if err != nil {
			panic(err)
		}
		result := nncache.Netresult{Policy: nr.Policy, PolicyPass: nr.PolicyPass, Winrate: nr.Winrate}
		ci.cache.Insert(hash, result)
		return appendPass(result.Policy, result.PolicyPass), result.Winrate
	}

	nr, err := ci.client.Evaluate(features, false)
	if err != nil {
		panic(err)
	}
	return appendPass(nr.Policy, nr.PolicyPass), nr.Winrate
}

func appendPass(policy []float32, policyPass float32) []float32 {
	out := make([]float32, len(policy)+1)
	copy(out, policy)
	out[len(policy)] = policyPass
	return out
}
