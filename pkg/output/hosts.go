package output

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/projectdiscovery/nbtscan/pkg/nbstat"
)

// hostsWriter prints /etc/hosts lines, or lmhosts lines when preload is set.
type hostsWriter struct {
	w       io.Writer
	preload bool
}

func (h *hostsWriter) Header() error {
	return nil
}

func (h *hostsWriter) Write(ip net.IP, record *nbstat.HostRecord, _ time.Duration) error {
	suffix := ""
	if h.preload {
		suffix = "\t#PRE"
	}
	_, err := fmt.Fprintf(h.w, "%s\t%s%s\n", ip, computerName(record), suffix)
	return err
}
