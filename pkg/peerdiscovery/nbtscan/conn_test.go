package nbtscan

import (
	"net"
	"os"
	"sync"
	"time"

	"github.com/projectdiscovery/nbtscan/pkg/nbstat"
)

type datagram struct {
	data []byte
	from net.Addr
}

type sentQuery struct {
	to    *net.UDPAddr
	query []byte
	at    time.Time
}

// responder returns the datagrams a fake host sends back for one query.
type responder func(to *net.UDPAddr, query []byte, attempt int) [][]byte

// fakeConn is an in-memory packet connection that answers queries through
// a responder and honours read deadlines like a real socket.
type fakeConn struct {
	respond responder

	mu       sync.Mutex
	deadline time.Time
	sent     []sentQuery
	attempts map[string]int

	wake      chan struct{}
	replies   chan datagram
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn(respond responder) *fakeConn {
	return &fakeConn{
		respond:  respond,
		attempts: make(map[string]int),
		wake:     make(chan struct{}, 1),
		replies:  make(chan datagram, 1024),
		closed:   make(chan struct{}),
	}
}

func (c *fakeConn) ReadFrom(p []byte) (int, net.Addr, error) {
	for {
		c.mu.Lock()
		deadline := c.deadline
		c.mu.Unlock()

		var (
			timer   *time.Timer
			timeout <-chan time.Time
		)
		if !deadline.IsZero() {
			wait := time.Until(deadline)
			if wait <= 0 {
				return 0, nil, os.ErrDeadlineExceeded
			}
			timer = time.NewTimer(wait)
			timeout = timer.C
		}
		stop := func() {
			if timer != nil {
				timer.Stop()
			}
		}

		select {
		case d := <-c.replies:
			stop()
			return copy(p, d.data), d.from, nil
		case <-timeout:
			return 0, nil, os.ErrDeadlineExceeded
		case <-c.wake:
			stop()
		case <-c.closed:
			stop()
			return 0, nil, net.ErrClosed
		}
	}
}

func (c *fakeConn) WriteTo(p []byte, addr net.Addr) (int, error) {
	to := addr.(*net.UDPAddr)
	query := append([]byte(nil), p...)

	c.mu.Lock()
	c.sent = append(c.sent, sentQuery{to: to, query: query, at: time.Now()})
	c.attempts[to.IP.String()]++
	attempt := c.attempts[to.IP.String()]
	c.mu.Unlock()

	if c.respond != nil {
		from := &net.UDPAddr{IP: to.IP, Port: nbstat.Port}
		for _, reply := range c.respond(to, query, attempt) {
			c.replies <- datagram{data: reply, from: from}
		}
	}
	return len(p), nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) LocalAddr() net.Addr {
	return &net.UDPAddr{IP: net.IPv4zero, Port: 40000}
}

func (c *fakeConn) SetDeadline(t time.Time) error {
	return c.SetReadDeadline(t)
}

func (c *fakeConn) SetReadDeadline(t time.Time) error {
	c.mu.Lock()
	c.deadline = t
	c.mu.Unlock()
	select {
	case c.wake <- struct{}{}:
	default:
	}
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error {
	return nil
}

func (c *fakeConn) queries() []sentQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sentQuery(nil), c.sent...)
}
