package nbtscan

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/nbtscan/pkg/nbstat"
	"github.com/projectdiscovery/nbtscan/pkg/targets"
	errorutil "github.com/projectdiscovery/utils/errors"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the time to wait for replies after the last query of
	// a round.
	DefaultTimeout = time.Second
	// DefaultInterval is the pause between queries when no bandwidth cap is
	// set, roughly local network line rate.
	DefaultInterval = time.Millisecond

	// readCeiling bounds a single wait on the socket. It is independent of
	// the per-target timeout so address resolution delays on the local
	// network do not stall a send.
	readCeiling = 60 * time.Second

	maxDatagramSize = 1500
)

// Handler receives every accepted host record together with the replying
// address and its round-trip time. rtt is zero when the reply was too short
// to carry a transaction id.
type Handler func(ip net.IP, record *nbstat.HostRecord, rtt time.Duration)

// Options configures a Scanner.
type Options struct {
	// Timeout is the time to wait for stragglers once a round has sent its
	// last query.
	Timeout time.Duration
	// Retransmits is the number of extra rounds for targets that did not
	// answer.
	Retransmits int
	// Bandwidth caps outbound traffic in bits per second. Zero means
	// uncapped.
	Bandwidth float64
	// UseFixedPort binds the well-known name service port instead of an
	// ephemeral one. Some hosts only answer queries sent from port 137.
	UseFixedPort bool
	// Port is the destination port queries are sent to.
	Port int
	// Quiet suppresses non-fatal diagnostics.
	Quiet bool
	// Logger receives diagnostics. Defaults to gologger.DefaultLogger.
	Logger *gologger.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() *Options {
	return &Options{
		Timeout: DefaultTimeout,
		Port:    nbstat.Port,
	}
}

// Validate checks the options for values the scanner cannot work with.
func (o *Options) Validate() error {
	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", o.Timeout)
	}
	if o.Retransmits < 0 {
		return fmt.Errorf("retransmits must not be negative, got %d", o.Retransmits)
	}
	if o.Bandwidth < 0 {
		return fmt.Errorf("bandwidth must not be negative, got %v", o.Bandwidth)
	}
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("invalid destination port %d", o.Port)
	}
	return nil
}

// Interval returns the pause between two queries implied by the bandwidth
// cap.
func (o *Options) Interval() time.Duration {
	if o.Bandwidth <= 0 {
		return DefaultInterval
	}
	bits := float64(nbstat.WireSize() * 8)
	return time.Duration(bits * float64(time.Second) / o.Bandwidth)
}

// Stats summarises a finished scan.
type Stats struct {
	Targets       uint64
	Sent          uint64
	SendErrors    uint64
	Received      uint64
	ReceiveErrors uint64
	Accepted      uint64
	Duplicates    uint64
	Broken        uint64
	DecodeErrors  uint64
	Rounds        int
	Duration      time.Duration
}

// Scanner sends name-status queries from a single UDP socket and matches
// the replies. A Scanner runs one scan at a time.
type Scanner struct {
	conn    net.PacketConn
	options *Options
	logger  *gologger.Logger
}

// New opens the scanner socket.
func New(options *Options) (*Scanner, error) {
	if options == nil {
		options = DefaultOptions()
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}

	address := ":0"
	if options.UseFixedPort {
		address = fmt.Sprintf(":%d", nbstat.Port)
	}
	listenConfig := net.ListenConfig{Control: socketControl(options.UseFixedPort)}
	conn, err := listenConfig.ListenPacket(context.Background(), "udp4", address)
	if err != nil {
		return nil, errorutil.NewWithErr(err).Msgf("could not open socket on %s", address)
	}
	return NewWithConn(conn, options), nil
}

// NewWithConn returns a scanner using an existing packet connection, which
// the scanner takes ownership of.
func NewWithConn(conn net.PacketConn, options *Options) *Scanner {
	if options == nil {
		options = DefaultOptions()
	}
	logger := options.Logger
	if logger == nil {
		logger = gologger.DefaultLogger
	}
	return &Scanner{conn: conn, options: options, logger: logger}
}

// LocalAddr returns the address the scanner socket is bound to.
func (s *Scanner) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// Close closes the socket, aborting a running scan.
func (s *Scanner) Close() error {
	return s.conn.Close()
}

// Scan queries every address of source, retransmitting to silent targets
// for the configured number of rounds, and calls handler once per replying
// target. It returns when all rounds are done or ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, source targets.Source, handler Handler) (*Stats, error) {
	run := &scan{
		Scanner:   s,
		ctx:       ctx,
		epoch:     time.Now(),
		handler:   handler,
		dedupe:    NewDeduplicator(),
		estimator: NewEstimator(),
		buf:       make([]byte, maxDatagramSize),
	}
	run.stats.Targets = source.Count()

	// unblock a pending read as soon as the scan is cancelled
	stop := context.AfterFunc(ctx, func() {
		_ = s.conn.SetReadDeadline(time.Unix(1, 0))
	})
	defer stop()

	err := run.run(source.Iterator())
	run.stats.Duration = time.Since(run.epoch)
	return &run.stats, err
}

// scan holds the state of one Scan call. Everything is owned by the calling
// goroutine.
type scan struct {
	*Scanner
	ctx       context.Context
	epoch     time.Time
	handler   Handler
	dedupe    *Deduplicator
	estimator *Estimator
	buf       []byte
	stats     Stats

	// lastActivity is the time of the last send or accepted datagram and
	// anchors the straggler timeout.
	lastActivity time.Time
}

func (s *scan) run(it targets.Iterator) error {
	rounds := 1 + s.options.Retransmits
	for round := 0; round < rounds; round++ {
		if round > 0 {
			it.Reset()
		}
		roundStart := time.Now()
		s.stats.Rounds++
		s.debug("Starting round %d of %d", round+1, rounds)

		if err := s.sendRound(it); err != nil {
			return err
		}
		if err := s.drain(); err != nil {
			return err
		}
		if round == rounds-1 {
			break
		}
		// the round lasts at least as long as the retransmission timeout
		if err := s.receiveUntil(roundStart.Add(s.estimator.NextTimeout(round + 1))); err != nil {
			return err
		}
	}
	return nil
}

// sendRound queries every remaining target once, pacing sends with a fresh
// limiter and servicing replies between them.
func (s *scan) sendRound(it targets.Iterator) error {
	limiter := rate.NewLimiter(rate.Every(s.options.Interval()), 1)

	var nextSend time.Time
	for {
		now := time.Now()
		if nextSend.IsZero() {
			nextSend = now.Add(limiter.ReserveN(now, 1).DelayFrom(now))
		}
		if !now.Before(nextSend) {
			target, ok := s.nextTarget(it)
			if !ok {
				return nil
			}
			s.send(target, now)
			nextSend = time.Time{}
			continue
		}
		if _, err := s.receive(nextSend); err != nil {
			return err
		}
	}
}

// drain waits for replies until none arrived for the configured timeout.
func (s *scan) drain() error {
	for {
		deadline := s.lastActivity.Add(s.options.Timeout)
		if !time.Now().Before(deadline) {
			return nil
		}
		if _, err := s.receive(deadline); err != nil {
			return err
		}
	}
}

// receiveUntil services replies until deadline passes.
func (s *scan) receiveUntil(deadline time.Time) error {
	for time.Now().Before(deadline) {
		if _, err := s.receive(deadline); err != nil {
			return err
		}
	}
	return nil
}

func (s *scan) nextTarget(it targets.Iterator) (uint32, bool) {
	for {
		target, ok := it.Next()
		if !ok {
			return 0, false
		}
		if !s.dedupe.Seen(target) {
			return target, true
		}
	}
}

func (s *scan) send(target uint32, now time.Time) {
	s.lastActivity = now
	query := nbstat.EncodeQuery(nbstat.Token(s.epoch, now))
	addr := &net.UDPAddr{IP: targets.ToIP(target), Port: s.options.Port}

	if err := s.conn.SetWriteDeadline(now.Add(readCeiling)); err != nil {
		s.stats.SendErrors++
		s.warn("Could not set write deadline: %s", err)
		return
	}
	if _, err := s.conn.WriteTo(query, addr); err != nil {
		s.stats.SendErrors++
		s.warn("Could not send query to %s: %s", addr.IP, err)
		return
	}
	s.stats.Sent++
}

// receive waits for one datagram until deadline and handles it. It reports
// whether a datagram was read. Only cancellation and a closed socket are
// returned as errors.
func (s *scan) receive(deadline time.Time) (bool, error) {
	if err := s.ctx.Err(); err != nil {
		return false, err
	}
	if ceiling := time.Now().Add(readCeiling); deadline.After(ceiling) {
		deadline = ceiling
	}
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return false, errorutil.NewWithErr(err).Msgf("could not set read deadline")
	}
	// a cancellation racing with the deadline update above must not be lost
	if err := s.ctx.Err(); err != nil {
		return false, err
	}

	n, addr, err := s.conn.ReadFrom(s.buf)
	if err != nil {
		if ctxErr := s.ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return false, nil
		}
		if errors.Is(err, net.ErrClosed) {
			return false, err
		}
		s.stats.ReceiveErrors++
		s.warn("Could not receive reply: %s", err)
		return false, nil
	}
	s.handle(s.buf[:n], addr, time.Now())
	return true, nil
}

func (s *scan) handle(data []byte, from net.Addr, now time.Time) {
	s.stats.Received++

	udpAddr, ok := from.(*net.UDPAddr)
	if !ok {
		return
	}
	target, ok := targets.FromIP(udpAddr.IP)
	if !ok {
		return
	}

	record, err := nbstat.Decode(data)
	if err != nil {
		s.stats.DecodeErrors++
		s.warn("Could not decode reply from %s: %s", udpAddr.IP, err)
		return
	}
	if !s.dedupe.Observe(target) {
		s.stats.Duplicates++
		return
	}
	s.stats.Accepted++
	s.lastActivity = now
	if record.IsBroken() {
		s.stats.Broken++
		s.warn("Truncated reply from %s: %d bytes", udpAddr.IP, record.Broken)
	}

	var rtt time.Duration
	if record.Header != nil {
		rtt = SampleFromToken(s.epoch, now, record.Header.TransactionID)
		if rtt <= MaxTimeout {
			s.estimator.Sample(rtt)
		} else {
			s.debug("Ignoring implausible round trip of %s from %s", rtt, udpAddr.IP)
		}
	}
	if s.handler != nil {
		s.handler(targets.ToIP(target), record, rtt)
	}
}

func (s *scan) warn(format string, args ...interface{}) {
	if s.options.Quiet {
		return
	}
	s.logger.Warning().Msgf(format, args...)
}

func (s *scan) debug(format string, args ...interface{}) {
	if s.options.Quiet {
		return
	}
	s.logger.Debug().Msgf(format, args...)
}
