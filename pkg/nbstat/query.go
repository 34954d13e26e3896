package nbstat

import (
	"encoding/binary"
	"time"
)

const (
	// Port is the NetBIOS name service port.
	Port = 137

	// RequestSize is the size of an encoded name-status request.
	RequestSize = 50
	// UDPHeaderSize and IPHeaderSize are used to estimate on-wire packet size
	// for bandwidth pacing.
	UDPHeaderSize = 8
	IPHeaderSize  = 20

	// QuestionTypeNBSTAT is the NODE STATUS question type.
	QuestionTypeNBSTAT = 0x0021
	// QuestionClassIN is the internet class.
	QuestionClassIN = 0x0001

	headerFieldsSize = 12
	encodedNameSize  = 34
)

// wildcardName is "*" followed by fifteen NULs in first-level encoding,
// length prefixed and terminated with the root label.
var wildcardName = [encodedNameSize]byte{
	0x20,
	'C', 'K', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A',
	'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A',
	0x00,
}

// Token returns the transaction id used for a query sent at now: the
// milliseconds elapsed since epoch truncated to 16 bits.
func Token(epoch, now time.Time) uint16 {
	return uint16(now.Sub(epoch).Milliseconds())
}

// EncodeQuery builds a name-status request carrying token as its
// transaction id.
func EncodeQuery(token uint16) []byte {
	buf := make([]byte, RequestSize)
	binary.BigEndian.PutUint16(buf[0:], token)
	binary.BigEndian.PutUint16(buf[2:], 0) // flags
	binary.BigEndian.PutUint16(buf[4:], 1) // questions
	binary.BigEndian.PutUint16(buf[6:], 0)
	binary.BigEndian.PutUint16(buf[8:], 0)
	binary.BigEndian.PutUint16(buf[10:], 0)
	copy(buf[headerFieldsSize:], wildcardName[:])
	offset := headerFieldsSize + encodedNameSize
	binary.BigEndian.PutUint16(buf[offset:], QuestionTypeNBSTAT)
	binary.BigEndian.PutUint16(buf[offset+2:], QuestionClassIN)
	return buf
}

// WireSize is the approximate number of bytes one query occupies on the
// wire, including UDP and IP headers.
func WireSize() int {
	return RequestSize + UDPHeaderSize + IPHeaderSize
}
