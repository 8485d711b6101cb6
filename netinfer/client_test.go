package netinfer

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type spyLocal struct {
	calls         int
	sawSelfcheck  bool
	forwardResult Netresult
}

func (s *spyLocal) Forward(features []float32, selfcheck bool) (Netresult, error) {
	s.calls++
	s.sawSelfcheck = selfcheck
	return s.forwardResult, nil
}

func TestEvaluateSelfcheckAlwaysGoesLocal(t *testing.T) {
	local := &spyLocal{forwardResult: Netresult{PolicyPass: 0.3, Winrate: 0.4}}
	dc, err := NewDistributedClient(Config{}, 2, 4, local)
	assert.NoError(t, err)

	r, err := dc.Evaluate(make([]float32, 8), true)
	assert.NoError(t, err)
	assert.Equal(t, 1, local.calls)
	assert.True(t, local.sawSelfcheck)
	assert.Equal(t, float32(0.3), r.PolicyPass)
}

func TestEvaluateUninitializedPoolGoesLocal(t *testing.T) {
	local := &spyLocal{forwardResult: Netresult{PolicyPass: 0.1, Winrate: 0.2}}
	// no ServerList => conf.IsValid() is false => pool stays nil
	dc, err := NewDistributedClient(Config{}, 2, 4, local)
	assert.NoError(t, err)

	_, err = dc.Evaluate(make([]float32, 8), false)
	assert.NoError(t, err)
	assert.Equal(t, 1, local.calls)
	assert.False(t, local.sawSelfcheck)
}

func TestEvaluateRemoteRoundTrip(t *testing.T) {
	channels, n := 2, 5
	hash := uint64(0xF00D)

	remote := echoLocal{n: n}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	srv := NewInferenceServer(Config{NumThreads: 2, Hash: hash}, channels, n, remote)
	go srv.serve(ln)
	defer srv.Close()

	local := &spyLocal{}
	dc, err := NewDistributedClient(Config{
		NumThreads: 1,
		ServerList: []string{ln.Addr().String()},
		Hash:       hash,
	}, channels, n, local)
	assert.NoError(t, err)
	defer dc.Close()

	r, err := dc.Evaluate(make([]float32, channels*n), false)
	assert.NoError(t, err)
	assert.Len(t, r.Policy, n)
	assert.InDelta(t, 0.11, r.PolicyPass, 1e-6)
	assert.Equal(t, 0, local.calls, "remote path should not fall back to local")
}

func TestEvaluateFallsBackWhenPoolExhausted(t *testing.T) {
	// A valid-looking serverlist that nothing listens on: dialOne always
	// fails, so the pool never fills and Evaluate must fall back to local.
	local := &spyLocal{forwardResult: Netresult{PolicyPass: 0.9, Winrate: 0.1}}
	dc, err := NewDistributedClient(Config{
		NumThreads: 1,
		ServerList: []string{"127.0.0.1:1"}, // port 1: nothing listens
		Hash:       0x1,
	}, 1, 4, local)
	assert.NoError(t, err)
	defer dc.Close()

	r, err := dc.Evaluate(make([]float32, 4), false)
	assert.NoError(t, err)
	assert.Equal(t, 1, local.calls)
	assert.Equal(t, float32(0.9), r.PolicyPass)
}
