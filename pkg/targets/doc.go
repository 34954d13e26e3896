// Package targets enumerates the IPv4 addresses a scan visits.
//
// A target specification is parsed once into a Source. Every call to
// Source.Iterator returns a fresh forward-only Iterator that yields the
// addresses in ascending order (list sources keep file order), which is how
// retransmission rounds restart from the beginning.
//
// Supported forms:
//   - a single address: 192.168.1.10
//   - a CIDR block, network and broadcast addresses included: 192.168.1.0/24
//   - a last-octet range: 192.168.1.25-80
//   - a full address range: 192.168.1.250-192.168.2.10
//   - a list of any of the above, one per line, from a file or stdin
//   - the private networks of the local interfaces
//
// Example usage:
//
//	source, err := targets.Parse("192.168.1.0/24")
//	if err != nil {
//		return err
//	}
//	it := source.Iterator()
//	for addr, ok := it.Next(); ok; addr, ok = it.Next() {
//		fmt.Println(targets.ToIP(addr))
//	}
package targets
