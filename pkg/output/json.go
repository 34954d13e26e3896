package output

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/projectdiscovery/nbtscan/pkg/nbstat"
	"github.com/projectdiscovery/nbtscan/pkg/types"
	"github.com/rs/xid"
)

type jsonWriter struct {
	encoder *json.Encoder
	scanID  string
	now     func() time.Time
}

func newJSONWriter(w io.Writer) *jsonWriter {
	return &jsonWriter{
		encoder: json.NewEncoder(w),
		scanID:  xid.New().String(),
		now:     time.Now,
	}
}

func (j *jsonWriter) Header() error {
	return nil
}

func (j *jsonWriter) Write(ip net.IP, record *nbstat.HostRecord, rtt time.Duration) error {
	result := NewHostResult(j.scanID, ip, record, rtt)
	result.SetTimestamp(j.now())
	if err := result.Validate(); err != nil {
		return fmt.Errorf("invalid result for %s: %w", ip, err)
	}
	return j.encoder.Encode(result)
}

// NewHostResult converts a host record into its JSON representation.
func NewHostResult(scanID string, ip net.IP, record *nbstat.HostRecord, rtt time.Duration) *types.HostResult {
	result := &types.HostResult{
		ScanID: scanID,
		IP:     ip.String(),
		Server: record.IsServer(),
		Broken: record.Broken,
	}
	if record.Header != nil {
		result.SetRTT(rtt)
	}
	result.ComputerName, _ = record.ComputerName()
	result.UserName, _ = record.UserName()

	for _, name := range record.Names {
		kind := types.NameTypeUnique
		if name.Group() {
			kind = types.NameTypeGroup
		}
		result.Names = append(result.Names, types.NameResult{
			Name:    name.Name,
			Service: fmt.Sprintf("%02x", name.Service),
			Type:    kind,
			Label:   name.Describe(),
		})
	}

	if f := record.Footer; f != nil {
		result.MAC = f.HardwareAddr.String()
		if f.Complete {
			result.Statistics = &types.Statistics{
				VersionMajor:     f.VersionMajor,
				VersionMinor:     f.VersionMinor,
				Duration:         f.Duration,
				Transmitted:      f.Transmitted,
				Received:         f.Received,
				MaxDatagram:      f.MaxDatagram,
				PendingSessions:  f.PendingSessions,
				MaxSessions:      f.MaxSessions,
				PacketSessions:   f.PacketSessions,
				TransmitAborts:   f.TransmitAborts,
				NoReceiveBuffers: f.NoReceiveBuffers,
			}
		}
	}
	return result
}
