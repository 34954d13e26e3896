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

var verboseRule = strings.Repeat("-", 40)

type verboseWriter struct {
	w   io.Writer
	cfg *Config
	au  *aurora.Aurora
}

func (v *verboseWriter) Header() error {
	return nil
}

func (v *verboseWriter) Write(ip net.IP, record *nbstat.HostRecord, _ time.Duration) error {
	var b strings.Builder
	sep := v.cfg.Separator

	if sep == "" {
		fmt.Fprintf(&b, "\nNetBIOS Name Table for Host %s:\n\n", v.au.Cyan(ip.String()))
		if record.IsBroken() {
			fmt.Fprintf(&b, "Incomplete packet, %d bytes long.\n", record.Broken)
		}
		fmt.Fprintf(&b, "%-17s%-17s%-17s\n", "Name", "Service", "Type")
		fmt.Fprintf(&b, "%s\n", verboseRule)
	}

	if record.Header != nil {
		for _, name := range record.Names {
			v.writeName(&b, ip, name)
		}
	}

	if mac := record.HardwareAddr(); mac != nil {
		if sep != "" {
			fmt.Fprintf(&b, "%s%sMAC%s", ip, sep, sep)
		} else {
			b.WriteString("\nAdapter address: ")
		}
		fmt.Fprintf(&b, "%s\n", mac)
	}
	if sep == "" {
		fmt.Fprintf(&b, "%s\n", verboseRule)
	}

	_, err := io.WriteString(v.w, b.String())
	return err
}

func (v *verboseWriter) writeName(b *strings.Builder, ip net.IP, name nbstat.NameEntry) {
	if sep := v.cfg.Separator; sep != "" {
		fmt.Fprintf(b, "%s%s%s%s", ip, sep, name.Name, sep)
		if v.cfg.HumanReadable {
			fmt.Fprintf(b, "%s\n", name.Describe())
			return
		}
		kind := "U"
		if name.Group() {
			kind = "G"
		}
		fmt.Fprintf(b, "%02x%s\n", name.Service, kind)
		return
	}

	fmt.Fprintf(b, "%-17s", name.Name)
	if v.cfg.HumanReadable {
		fmt.Fprintf(b, "%s\n", name.Describe())
		return
	}
	fmt.Fprintf(b, "<%02x>", name.Service)
	if name.Unique() {
		fmt.Fprintf(b, "%s\n", v.au.Green("             UNIQUE"))
	} else {
		fmt.Fprintf(b, "%s\n", v.au.Magenta("              GROUP"))
	}
}
