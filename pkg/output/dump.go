package output

import (
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/projectdiscovery/nbtscan/pkg/nbstat"
)

type dumpWriter struct {
	w io.Writer
}

func (d *dumpWriter) Header() error {
	return nil
}

func (d *dumpWriter) Write(ip net.IP, record *nbstat.HostRecord, _ time.Duration) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\nPacket dump for Host %s:\n\n", ip)
	if record.IsBroken() {
		fmt.Fprintf(&b, "Incomplete packet, %d bytes long.\n", record.Broken)
	}
	if h := record.Header; h != nil {
		dumpHeader(&b, h)
	}
	if record.Header != nil && record.Names != nil {
		b.WriteString("Names received:\n")
		for _, name := range record.Names {
			fmt.Fprintf(&b, "%-17s Service: 0x%02x Flags: 0x%04x\n", name.Name, name.Service, name.Flags)
		}
	}
	if f := record.Footer; f != nil {
		dumpFooter(&b, f)
	}

	_, err := io.WriteString(d.w, b.String())
	return err
}

func dumpHeader(b *strings.Builder, h *nbstat.Header) {
	field16(b, "Transaction ID", h.TransactionID)
	field16(b, "Flags", h.Flags)
	field16(b, "Question count", h.QuestionCount)
	field16(b, "Answer count", h.AnswerCount)
	field16(b, "Name service count", h.NameServiceCount)
	field16(b, "Additional record count", h.AdditionalRecordCount)
	fmt.Fprintf(b, "Question name: %s\n", h.QuestionName)
	field16(b, "Question type", h.QuestionType)
	field16(b, "Question class", h.QuestionClass)
	field32(b, "Time to live", h.TTL)
	field16(b, "Rdata length", h.RdataLength)
	field8(b, "Number of names", h.NumberOfNames)
}

func dumpFooter(b *strings.Builder, f *nbstat.Footer) {
	fmt.Fprintf(b, "Adapter address: %s\n", f.HardwareAddr)
	field8(b, "Version major", f.VersionMajor)
	field8(b, "Version minor", f.VersionMinor)
	field16(b, "Duration", f.Duration)
	field16(b, "FRMRs Received", f.FRMRsReceived)
	field16(b, "FRMRs Transmitted", f.FRMRsTransmitted)
	field16(b, "IFrame Receive errors", f.IFrameReceiveErrors)
	field16(b, "Transmit aborts", f.TransmitAborts)
	field32(b, "Transmitted", f.Transmitted)
	field32(b, "Received", f.Received)
	field16(b, "IFrame transmit errors", f.IFrameTransmitErrors)
	field16(b, "No receive buffers", f.NoReceiveBuffers)
	field16(b, "tl timeouts", f.T1Timeouts)
	field16(b, "ti timeouts", f.TiTimeouts)
	field16(b, "Free NCBS", f.FreeNCBs)
	field16(b, "NCBS", f.NCBs)
	field16(b, "Max NCBS", f.MaxNCBs)
	field16(b, "No transmit buffers", f.NoTransmitBuffers)
	field16(b, "Max datagram", f.MaxDatagram)
	field16(b, "Pending sessions", f.PendingSessions)
	field16(b, "Max sessions", f.MaxSessions)
	field16(b, "Packet sessions", f.PacketSessions)
}

func field8(b *strings.Builder, label string, v uint8) {
	fmt.Fprintf(b, "%s: 0x%02x (%d)\n", label, v, v)
}

func field16(b *strings.Builder, label string, v uint16) {
	fmt.Fprintf(b, "%s: 0x%04x (%d)\n", label, v, v)
}

func field32(b *strings.Builder, label string, v uint32) {
	fmt.Fprintf(b, "%s: 0x%08x (%d)\n", label, v, v)
}
