// Package nbstat encodes NetBIOS node status (NBSTAT) requests and decodes
// the responses.
//
// A request carries a 16-bit transaction id which the scanner uses as a
// millisecond timestamp, so replies can be timed without keeping a table of
// outstanding queries:
//
//	token := nbstat.Token(epoch, time.Now())
//	_, err := conn.WriteTo(nbstat.EncodeQuery(token), addr)
//
// Responses come from untrusted peers. Decode reads every field through a
// bounds-checked cursor and returns whatever prefix of the packet could be
// decoded, marking the record broken when the datagram was short:
//
//	record, err := nbstat.Decode(buf[:n])
//	if err != nil {
//		// empty datagram
//	}
//	if record.IsBroken() {
//		// record.Header, record.Names or record.Footer may be nil
//	}
package nbstat
