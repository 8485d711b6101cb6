package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/agogo-zero/agogo"
	dual "github.com/agogo-zero/agogo/dualnet"
	"github.com/agogo-zero/agogo/game"
	"github.com/agogo-zero/agogo/game/mnk"
	"github.com/agogo-zero/agogo/mcts"
	"github.com/agogo-zero/agogo/netinfer"

	"net/http"
	_ "net/http/pprof"
)

var (
	nnServer  = flag.Int("nn-server", 0, "if nonzero, the port to serve local inference to remote clients on")
	nnClients = flag.String("nn-client", "", "comma-separated host:port list of remote inference workers to dispatch to")
	nnHash    = flag.Uint64("nn-hash", 0, "handshake token identifying the weights in use")
	cacheSize = flag.Int("cache-size", 0, "NNCache entry budget; 0 disables the cache")
)

func encodeBoard(a game.State) []float32 {
	board := agogo.EncodeTwoPlayerBoard(a.Board(), nil)
	for i := range board {
		if board[i] == 0 {
			board[i] = 0.001
		}
	}
	playerLayer := make([]float32, len(a.Board()))
	next := a.ToMove()
	if next == game.Player(game.Black) {
		for i := range playerLayer {
			playerLayer[i] = 1
		}
	} else if next == game.Player(game.White) {
		// vecf32.Scale(board, -1)
		for i := range playerLayer {
			playerLayer[i] = -1
		}
	}
	retVal := append(board, playerLayer...)
	return retVal
}

func main() {
	flag.Parse()

	conf := agogo.Config{
		Name:            "Tic Tac Toe",
		NNConf:          dual.DefaultConf(3, 3, 10),
		MCTSConf:        mcts.DefaultConfig(3),
		UpdateThreshold: 0.52,
	}
	conf.NNConf.BatchSize = 100
	conf.NNConf.Features = 2 // write a better encoding of the board, and increase features (and that allows you to increase K as well)
	conf.NNConf.K = 3
	conf.NNConf.SharedLayers = 3
	conf.MCTSConf = mcts.Config{
		PUCT:           1.0,
		M:              3,
		N:              3,
		Timeout:        100 * time.Millisecond,
		PassPreference: mcts.DontPreferPass,
		Budget:         1000,
		DumbPass:       true,
		RandomCount:    0,
	}

	outEnc := NewEncoder()
	go func(h http.Handler) {
		mux := http.NewServeMux()
		mux.Handle("/ws", h)
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("./htdocs"))))

		log.Println("http://localhost:8080")
		http.ListenAndServe(":8080", mux)
	}(outEnc)

	conf.Encoder = encodeBoard
	conf.OutputEncoder = outEnc
	conf.CacheSize = *cacheSize
	if *nnClients != "" {
		conf.Distributed = netinfer.Config{
			NumThreads: 4,
			ServerList: strings.Split(*nnClients, ","),
			Hash:       *nnHash,
		}
	}

	g := mnk.TicTacToe()
	a := agogo.New(g, conf)

	if *nnServer != 0 {
		go func() {
			local := agogo.NewLocalEvaluator(a.A)
			srv := netinfer.NewInferenceServer(netinfer.Config{NumThreads: 4, Hash: *nnHash}, conf.NNConf.Features, g.ActionSpace(), local)
			log.Printf("nn-server listening on port %d", *nnServer)
			if err := srv.Listen(*nnServer); err != nil {
				log.Printf("nn-server: %v", err)
			}
		}()
	}
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("press ented when ready")
	reader.ReadString('\n')

	//a.Learn(5, 30, 200, 30) // 5 epochs, 30 episodes, 200 NN iters, 30 games.
	a.Learn(5, 2, 100, 20) // 5 epochs, 2 episodes, 100 NN iters, 20 games.
	a.Save("example.model")
}
