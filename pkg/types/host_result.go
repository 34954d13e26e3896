package types

import (
	"time"
)

// HostResult is the JSON representation of one replying host
type HostResult struct {
	// Required fields
	ScanID    string `json:"scan_id"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"` // RFC3339 format date-time

	// Optional fields
	RTT          float64      `json:"rtt_ms"`
	ComputerName string       `json:"computer_name,omitempty"`
	UserName     string       `json:"user_name,omitempty"`
	Server       bool         `json:"server"`
	MAC          string       `json:"mac,omitempty"`
	Names        []NameResult `json:"names,omitempty"`
	Statistics   *Statistics  `json:"statistics,omitempty"`
	Broken       int          `json:"broken,omitempty"` // bytes received for a truncated reply
}

// NameResult is one row of a host's name table
type NameResult struct {
	Name    string `json:"name"`
	Service string `json:"service"` // two hex digits
	Type    string `json:"type"`    // enum: unique, group
	Label   string `json:"label"`
}

// Statistics holds the adapter counters of a complete status footer
type Statistics struct {
	VersionMajor     uint8  `json:"version_major"`
	VersionMinor     uint8  `json:"version_minor"`
	Duration         uint16 `json:"duration"`
	Transmitted      uint32 `json:"transmitted"`
	Received         uint32 `json:"received"`
	MaxDatagram      uint16 `json:"max_datagram"`
	PendingSessions  uint16 `json:"pending_sessions"`
	MaxSessions      uint16 `json:"max_sessions"`
	PacketSessions   uint16 `json:"packet_sessions"`
	TransmitAborts   uint16 `json:"transmit_aborts"`
	NoReceiveBuffers uint16 `json:"no_receive_buffers"`
}

// Validate checks if the result has all required fields populated
func (r *HostResult) Validate() error {
	if r.ScanID == "" {
		return &ValidationError{Field: "scan_id", Message: "scan_id is required"}
	}
	if r.IP == "" {
		return &ValidationError{Field: "ip", Message: "ip is required"}
	}
	if r.Timestamp == "" {
		return &ValidationError{Field: "timestamp", Message: "timestamp is required"}
	}
	for _, name := range r.Names {
		if name.Type != NameTypeUnique && name.Type != NameTypeGroup {
			return &ValidationError{Field: "names.type", Message: "name type must be unique or group"}
		}
	}
	return nil
}

// SetTimestamp sets the timestamp from a time.Time value
func (r *HostResult) SetTimestamp(t time.Time) {
	r.Timestamp = t.Format(time.RFC3339)
}

// SetRTT sets the round-trip time in milliseconds
func (r *HostResult) SetRTT(rtt time.Duration) {
	r.RTT = float64(rtt.Microseconds()) / 1000
}

// Name types
const (
	NameTypeUnique = "unique"
	NameTypeGroup  = "group"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
