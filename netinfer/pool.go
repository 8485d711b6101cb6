package netinfer

import (
	"context"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	rng "github.com/leesper/go_rng"
	"github.com/pkg/errors"
)

const dialTimeout = 500 * time.Millisecond
const refillInterval = time.Second

// socket is one handshaken, pooled connection to a specific worker.
type socket struct {
	conn net.Conn
	addr string
}

// SocketPool holds a FIFO of idle, handshaken connections to a fixed list of
// worker addresses, and keeps itself topped up to a desired size with a
// background refill loop. Checkout/return only ever touches the list under
// pool's mutex; the connect+handshake I/O that grows the pool runs outside
// any lock the caller holds.
type SocketPool struct {
	mu        sync.Mutex
	available []*socket

	activeCount int64 // atomic; number of sockets currently owned by the pool (idle + checked out)

	desired int
	servers []string
	hash    uint64
	verbose bool

	logger *log.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSocketPool validates conf.ServerList and returns an empty pool sized to
// conf.NumThreads. Call Start to begin dialing and the background refill.
func NewSocketPool(conf Config) (*SocketPool, error) {
	for _, s := range conf.ServerList {
		if _, _, err := net.SplitHostPort(s); err != nil {
			return nil, errors.Wrapf(ErrConfig, "%q: %v", s, err)
		}
	}
	p := &SocketPool{
		desired: conf.NumThreads,
		servers: conf.ServerList,
		hash:    conf.Hash,
		verbose: conf.Verbose,
		logger:  log.New(log.Writer(), "netinfer/pool: ", log.LstdFlags),
		stop:    make(chan struct{}),
	}
	return p, nil
}

// Start performs the initial fill and launches the background refill loop.
// It is a no-op if the pool has no configured servers.
func (p *SocketPool) Start() {
	if len(p.servers) == 0 {
		return
	}
	p.fill()
	go p.refillLoop()
}

// Close stops the refill loop and closes every idle socket. Sockets checked
// out at the time of Close are the caller's responsibility.
func (p *SocketPool) Close() {
	p.stopOnce.Do(func() { close(p.stop) })
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.available {
		s.conn.Close()
	}
	p.available = nil
}

// ActiveCount returns the current active_count: sockets owned by the pool,
// idle or checked out.
func (p *SocketPool) ActiveCount() int {
	return int(atomic.LoadInt64(&p.activeCount))
}

// Acquire pops the front of available, or returns ErrPoolExhausted if the
// pool is momentarily empty - the refill loop is expected to replenish it.
func (p *SocketPool) Acquire() (*socket, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.available) == 0 {
		return nil, ErrPoolExhausted
	}
	s := p.available[0]
	p.available = p.available[1:]
	return s, nil
}

// ReleaseOK returns a healthy socket to the back of available.
func (p *SocketPool) ReleaseOK(s *socket) {
	p.mu.Lock()
	p.available = append(p.available, s)
	p.mu.Unlock()
}

// ReleaseBad closes a socket that failed a request and drops it from the
// pool's accounting; the refill loop will replace it.
func (p *SocketPool) ReleaseBad(s *socket) {
	s.conn.Close()
	atomic.AddInt64(&p.activeCount, -1)
}

func (p *SocketPool) refillLoop() {
	seed := time.Now().UnixNano()
	jitter := rng.NewUniformGenerator(seed)
	for {
		wait := refillInterval + time.Duration(jitter.Float64Range(0, 0.25*float64(time.Second)))
		select {
		case <-p.stop:
			return
		case <-time.After(wait):
		}
		if atomic.LoadInt64(&p.activeCount) < int64(p.desired) {
			p.fill()
		}
	}
}

// fill dials ceil(deficit/len(servers)) connections per server, mirroring
// the original's init procedure so both the initial fill and every refill
// tick share one code path.
func (p *SocketPool) fill() {
	deficit := p.desired - int(atomic.LoadInt64(&p.activeCount))
	if deficit <= 0 || len(p.servers) == 0 {
		return
	}
	perServer := (deficit + len(p.servers) - 1) / len(p.servers)

	var mu sync.Mutex
	var fresh []*socket
	var wg sync.WaitGroup
	for _, addr := range p.servers {
		for i := 0; i < perServer; i++ {
			wg.Add(1)
			go func(addr string) {
				defer wg.Done()
				if s := p.dialOne(addr); s != nil {
					mu.Lock()
					fresh = append(fresh, s)
					mu.Unlock()
				}
			}(addr)
		}
	}
	wg.Wait()

	if len(fresh) == 0 {
		return
	}
	atomic.AddInt64(&p.activeCount, int64(len(fresh)))
	p.mu.Lock()
	p.available = append(p.available, fresh...)
	p.mu.Unlock()
	if p.verbose {
		p.logger.Printf("added %d connections, active_count now %d", len(fresh), p.ActiveCount())
	}
}

// dialOne connects to addr and runs the handshake within dialTimeout,
// returning nil if either step fails or overruns the budget.
func (p *SocketPool) dialOne(addr string) *socket {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		if p.verbose {
			p.logger.Printf("dial %s: %v", addr, err)
		}
		return nil
	}

	deadline, _ := ctx.Deadline()
	conn.SetDeadline(deadline)
	if err := ClientHandshake(conn, p.hash); err != nil {
		if p.verbose {
			p.logger.Printf("handshake %s: %v", addr, err)
		}
		conn.Close()
		return nil
	}
	conn.SetDeadline(time.Time{})
	return &socket{conn: conn, addr: addr}
}
