package nbstat

import (
	"net"
)

// GroupFlag marks a group name in a name entry's flag word.
const GroupFlag = 0x0080

// HostRecord is a decoded name-status response.
//
// Header, Names and Footer are nil when not enough bytes arrived to decode
// them. Broken is zero for a complete record, otherwise it holds the number
// of bytes that were received.
type HostRecord struct {
	Header *Header
	Names  []NameEntry
	Footer *Footer
	Broken int
}

// IsBroken reports whether the response was truncated.
func (h *HostRecord) IsBroken() bool {
	return h.Broken > 0
}

// Header holds the fixed response fields preceding the name table.
type Header struct {
	TransactionID         uint16
	Flags                 uint16
	QuestionCount         uint16
	AnswerCount           uint16
	NameServiceCount      uint16
	AdditionalRecordCount uint16
	// QuestionName is the encoded label echoed by the responder, without its
	// length prefix.
	QuestionName  string
	QuestionType  uint16
	QuestionClass uint16
	TTL           uint32
	RdataLength   uint16
	NumberOfNames uint8
}

// NameEntry is one row of a remote name table.
type NameEntry struct {
	// Name is the padded 15-byte name with trailing padding removed.
	Name    string
	Service byte
	Flags   uint16
}

// Unique reports whether the name is owned by a single host.
func (n NameEntry) Unique() bool {
	return n.Flags&GroupFlag == 0
}

// Group reports whether the name is shared by a group.
func (n NameEntry) Group() bool {
	return !n.Unique()
}

// Footer holds the adapter status block that follows the name table.
type Footer struct {
	HardwareAddr         net.HardwareAddr
	VersionMajor         uint8
	VersionMinor         uint8
	Duration             uint16
	FRMRsReceived        uint16
	FRMRsTransmitted     uint16
	IFrameReceiveErrors  uint16
	TransmitAborts       uint16
	Transmitted          uint32
	Received             uint32
	IFrameTransmitErrors uint16
	NoReceiveBuffers     uint16
	T1Timeouts           uint16
	TiTimeouts           uint16
	FreeNCBs             uint16
	NCBs                 uint16
	MaxNCBs              uint16
	NoTransmitBuffers    uint16
	MaxDatagram          uint16
	PendingSessions      uint16
	MaxSessions          uint16
	PacketSessions       uint16

	// Complete is false when the statistics block was shorter than
	// FooterSize; fields past the end of the datagram are zero.
	Complete bool
}

// ComputerName returns the first unique workstation-service name, the
// machine's NetBIOS name.
func (h *HostRecord) ComputerName() (string, bool) {
	for _, n := range h.Names {
		if n.Service == 0x00 && n.Unique() {
			return n.Name, true
		}
	}
	return "", false
}

// UserName returns the last unique messenger-service name, which is usually
// the logged on user.
func (h *HostRecord) UserName() (string, bool) {
	var (
		user  string
		found bool
	)
	for _, n := range h.Names {
		if n.Service == 0x03 && n.Unique() {
			user, found = n.Name, true
		}
	}
	return user, found
}

// IsServer reports whether the host registered the file server service.
func (h *HostRecord) IsServer() bool {
	for _, n := range h.Names {
		if n.Service == 0x20 && n.Unique() {
			return true
		}
	}
	return false
}

// HardwareAddr returns the adapter address or nil when no footer arrived.
func (h *HostRecord) HardwareAddr() net.HardwareAddr {
	if h.Footer == nil {
		return nil
	}
	return h.Footer.HardwareAddr
}
