package output

import (
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/logrusorgru/aurora/v4"
	"github.com/projectdiscovery/nbtscan/pkg/nbstat"
)

type tableWriter struct {
	w   io.Writer
	cfg *Config
	au  *aurora.Aurora
}

func (t *tableWriter) Header() error {
	if t.cfg.Quiet || t.cfg.Separator != "" {
		return nil
	}
	_, err := fmt.Fprintf(t.w, "%-17s%-17s%-10s%-17s%-17s\n%s\n",
		"IP address", "NetBIOS Name", "Server", "User", "MAC address", strings.Repeat("-", 78))
	return err
}

func (t *tableWriter) Write(ip net.IP, record *nbstat.HostRecord, _ time.Duration) error {
	var b strings.Builder

	server := ""
	if record.IsServer() {
		server = "<server>"
	}
	if sep := t.cfg.Separator; sep != "" {
		fmt.Fprintf(&b, "%s%s%s%s%s%s%s%s", ip, sep, computerName(record), sep, server, sep, userName(record), sep)
	} else {
		// pad before colouring so escape codes do not shift the columns
		b.WriteString(t.au.Cyan(fmt.Sprintf("%-17s", ip)).String())
		fmt.Fprintf(&b, "%-17s", computerName(record))
		b.WriteString(t.au.Yellow(fmt.Sprintf("%-10s", server)).String())
		fmt.Fprintf(&b, "%-17s", userName(record))
	}
	if mac := record.HardwareAddr(); mac != nil {
		b.WriteString(mac.String())
	}
	b.WriteByte('\n')

	_, err := io.WriteString(t.w, b.String())
	return err
}
