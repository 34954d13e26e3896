package nbtscan

import "time"

const (
	// MinTimeout and MaxTimeout bound every retransmission timeout.
	MinTimeout = 2 * time.Second
	MaxTimeout = 60 * time.Second

	initialDeviation = 750 * time.Millisecond

	// tokenPeriod is the interval after which a 16-bit millisecond token
	// wraps around.
	tokenPeriod = 65536 * time.Millisecond
)

// Estimator keeps smoothed round-trip statistics (Jacobson/Karels) used to
// time retransmission rounds. It is not safe for concurrent use.
type Estimator struct {
	srtt   time.Duration
	rttvar time.Duration
}

// NewEstimator returns an estimator with a zero mean and a non-zero initial
// deviation so the first timeout is not artificially small.
func NewEstimator() *Estimator {
	return &Estimator{rttvar: initialDeviation}
}

// Sample folds one observed round-trip time into the estimate.
func (e *Estimator) Sample(rtt time.Duration) {
	delta := rtt - e.srtt
	e.srtt += delta / 8
	if delta < 0 {
		delta = -delta
	}
	e.rttvar += (delta - e.rttvar) / 4
}

// SmoothedRTT returns the smoothed mean.
func (e *Estimator) SmoothedRTT() time.Duration {
	return e.srtt
}

// Deviation returns the smoothed mean deviation.
func (e *Estimator) Deviation() time.Duration {
	return e.rttvar
}

// NextTimeout returns the timeout for retransmission round round, where the
// first retransmission is round 1.
func (e *Estimator) NextTimeout(round int) time.Duration {
	if round < 0 {
		round = 0
	}
	base := e.srtt + 4*e.rttvar
	// saturate instead of overflowing for absurd round counts
	if round > 0 && base > MaxTimeout/time.Duration(round) {
		return MaxTimeout
	}
	timeout := base * time.Duration(round)
	switch {
	case timeout < MinTimeout:
		return MinTimeout
	case timeout > MaxTimeout:
		return MaxTimeout
	}
	return timeout
}

// SampleFromToken returns the round-trip time of a reply received at recv
// that echoes token, for a scan that started at epoch. The token carries
// only the low 16 bits of the send time in milliseconds, so the result is
// exact for round trips shorter than 65.536s.
func SampleFromToken(epoch, recv time.Time, token uint16) time.Duration {
	elapsed := recv.Sub(epoch) % tokenPeriod
	rtt := elapsed - time.Duration(token)*time.Millisecond
	if rtt < 0 {
		rtt += tokenPeriod
	}
	return rtt
}
