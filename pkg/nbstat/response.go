package nbstat

import (
	"bytes"
	"encoding/binary"
	"errors"
	"net"
)

const (
	// HeaderSize is the size of the fixed part of a response, up to and
	// including the name count.
	HeaderSize = headerFieldsSize + encodedNameSize + 2 + 2 + 4 + 2 + 1
	// NameEntrySize is the size of one name table row.
	NameEntrySize = 18
	// FooterSize is the size of a complete adapter status block.
	FooterSize = 50

	nameLength         = 15
	hardwareAddrLength = 6
)

// ErrEmptyResponse is returned for a zero-length datagram.
var ErrEmptyResponse = errors.New("empty response")

// reader is a bounds-checked cursor over a received datagram.
type reader struct {
	buf []byte
	off int
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) next(n int) ([]byte, bool) {
	if n < 0 || r.remaining() < n {
		return nil, false
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, true
}

func (r *reader) u8(v *uint8) bool {
	b, ok := r.next(1)
	if ok {
		*v = b[0]
	}
	return ok
}

func (r *reader) u16(v *uint16) bool {
	b, ok := r.next(2)
	if ok {
		*v = binary.BigEndian.Uint16(b)
	}
	return ok
}

func (r *reader) u32(v *uint32) bool {
	b, ok := r.next(4)
	if ok {
		*v = binary.BigEndian.Uint32(b)
	}
	return ok
}

// Decode parses a name-status response. Truncated datagrams never fail:
// whatever could be decoded is returned with Broken set. Only an empty
// datagram is an error.
func Decode(buf []byte) (*HostRecord, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyResponse
	}

	record := &HostRecord{}
	r := &reader{buf: buf}

	header, ok := decodeHeader(r)
	if !ok {
		record.Broken = len(buf)
		return record, nil
	}
	record.Header = header

	names, ok := decodeNames(r, int(header.NumberOfNames))
	if !ok {
		record.Broken = len(buf)
		return record, nil
	}
	record.Names = names

	// the adapter status block is optional
	if r.remaining() == 0 {
		return record, nil
	}
	footer, ok := decodeFooter(r)
	if !ok {
		record.Broken = len(buf)
		return record, nil
	}
	record.Footer = footer
	return record, nil
}

func decodeHeader(r *reader) (*Header, bool) {
	if r.remaining() < HeaderSize {
		return nil, false
	}
	h := &Header{}
	r.u16(&h.TransactionID)
	r.u16(&h.Flags)
	r.u16(&h.QuestionCount)
	r.u16(&h.AnswerCount)
	r.u16(&h.NameServiceCount)
	r.u16(&h.AdditionalRecordCount)
	name, _ := r.next(encodedNameSize)
	h.QuestionName = encodedLabel(name)
	r.u16(&h.QuestionType)
	r.u16(&h.QuestionClass)
	r.u32(&h.TTL)
	r.u16(&h.RdataLength)
	r.u8(&h.NumberOfNames)
	return h, true
}

// encodedLabel extracts the printable label from a length-prefixed name.
func encodedLabel(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	n := int(b[0])
	label := b[1:]
	if n < len(label) {
		label = label[:n]
	}
	if i := bytes.IndexByte(label, 0); i >= 0 {
		label = label[:i]
	}
	return string(label)
}

// DecodedQuestionName reverses the first-level encoding of the echoed
// question name. It returns false when the label is not a valid encoding.
func (h *Header) DecodedQuestionName() (string, bool) {
	label := h.QuestionName
	if len(label) != 2*(nameLength+1) {
		return "", false
	}
	out := make([]byte, 0, nameLength+1)
	for i := 0; i < len(label); i += 2 {
		hi, lo := label[i]-'A', label[i+1]-'A'
		if hi > 0x0f || lo > 0x0f {
			return "", false
		}
		out = append(out, hi<<4|lo)
	}
	return trimName(out), true
}

func decodeNames(r *reader, count int) ([]NameEntry, bool) {
	if r.remaining() < count*NameEntrySize {
		return nil, false
	}
	names := make([]NameEntry, 0, count)
	for i := 0; i < count; i++ {
		raw, _ := r.next(nameLength + 1)
		entry := NameEntry{
			Name:    trimName(raw[:nameLength]),
			Service: raw[nameLength],
		}
		r.u16(&entry.Flags)
		names = append(names, entry)
	}
	return names, true
}

// trimName cuts a padded name at its first NUL and drops trailing spaces.
func trimName(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(bytes.TrimRight(b, " "))
}

func decodeFooter(r *reader) (*Footer, bool) {
	mac, ok := r.next(hardwareAddrLength)
	if !ok {
		return nil, false
	}
	f := &Footer{HardwareAddr: append(net.HardwareAddr(nil), mac...)}

	// statistics are read in wire order until the datagram ends
	f.Complete = r.u8(&f.VersionMajor) &&
		r.u8(&f.VersionMinor) &&
		r.u16(&f.Duration) &&
		r.u16(&f.FRMRsReceived) &&
		r.u16(&f.FRMRsTransmitted) &&
		r.u16(&f.IFrameReceiveErrors) &&
		r.u16(&f.TransmitAborts) &&
		r.u32(&f.Transmitted) &&
		r.u32(&f.Received) &&
		r.u16(&f.IFrameTransmitErrors) &&
		r.u16(&f.NoReceiveBuffers) &&
		r.u16(&f.T1Timeouts) &&
		r.u16(&f.TiTimeouts) &&
		r.u16(&f.FreeNCBs) &&
		r.u16(&f.NCBs) &&
		r.u16(&f.MaxNCBs) &&
		r.u16(&f.NoTransmitBuffers) &&
		r.u16(&f.MaxDatagram) &&
		r.u16(&f.PendingSessions) &&
		r.u16(&f.MaxSessions) &&
		r.u16(&f.PacketSessions)
	return f, true
}
