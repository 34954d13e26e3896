// Package nbtscan discovers NetBIOS hosts by sending name-status (NBSTAT)
// queries over UDP and collecting the name tables they return.
//
// A Scanner owns a single socket and runs the whole scan on the calling
// goroutine:
//   - queries are paced by a token bucket derived from the bandwidth cap
//   - replies are read between sends and after the last send until no
//     reply arrived for the configured timeout
//   - targets that did not answer are queried again in later rounds, each
//     round lasting at least the timeout computed by the Estimator
//
// No table of outstanding queries is kept. Each query carries the low 16 bits
// of the milliseconds elapsed since the scan started as its transaction id,
// and the round-trip time is recovered from the echoed id when the reply
// arrives. Ids repeat every 65.536 seconds, so a reply to a query sent that
// long ago is timed as if it were recent.
//
// Example usage:
//
//	scanner, err := nbtscan.New(nbtscan.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	defer scanner.Close()
//
//	source, _ := targets.Parse("192.168.1.0/24")
//	stats, err := scanner.Scan(ctx, source, func(ip net.IP, record *nbstat.HostRecord, rtt time.Duration) {
//		name, _ := record.ComputerName()
//		fmt.Println(ip, name, rtt)
//	})
//
// Privilege Requirements:
//   - binding the fixed source port 137 requires root/admin privileges on
//     most systems
package nbtscan
