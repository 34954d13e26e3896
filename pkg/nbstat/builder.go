package nbstat

import (
	"encoding/binary"
)

// BuildResponse assembles a name-status response datagram answering a
// query with transaction id id. footer is appended verbatim after the name
// table and may be nil or of any length. Intended for tests and fake
// responders.
func BuildResponse(id uint16, names []NameEntry, footer []byte) []byte {
	buf := make([]byte, HeaderSize, HeaderSize+len(names)*NameEntrySize+len(footer))
	binary.BigEndian.PutUint16(buf[0:], id)
	binary.BigEndian.PutUint16(buf[2:], 0x8400) // response, authoritative
	binary.BigEndian.PutUint16(buf[4:], 0)
	binary.BigEndian.PutUint16(buf[6:], 1)
	binary.BigEndian.PutUint16(buf[8:], 0)
	binary.BigEndian.PutUint16(buf[10:], 0)
	copy(buf[headerFieldsSize:], wildcardName[:])
	offset := headerFieldsSize + encodedNameSize
	binary.BigEndian.PutUint16(buf[offset:], QuestionTypeNBSTAT)
	binary.BigEndian.PutUint16(buf[offset+2:], QuestionClassIN)
	binary.BigEndian.PutUint32(buf[offset+4:], 0)
	rdlength := 1 + len(names)*NameEntrySize + len(footer)
	binary.BigEndian.PutUint16(buf[offset+8:], uint16(rdlength))
	buf[offset+10] = byte(len(names))

	for _, n := range names {
		var entry [NameEntrySize]byte
		copy(entry[:nameLength], n.Name)
		for i := len(n.Name); i < nameLength; i++ {
			entry[i] = ' '
		}
		entry[nameLength] = n.Service
		binary.BigEndian.PutUint16(entry[nameLength+1:], n.Flags)
		buf = append(buf, entry[:]...)
	}
	return append(buf, footer...)
}

// BuildFooter returns a complete adapter status block for mac with every
// statistics field set to zero.
func BuildFooter(mac []byte) []byte {
	footer := make([]byte, FooterSize)
	copy(footer, mac)
	return footer
}
